package shared

import (
	"net"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ClientIP resolves the originating address, preferring proxy headers so
// requests behind a load balancer are attributed to the real client.
func ClientIP(c *fiber.Ctx) string {
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		ip := strings.TrimSpace(strings.Split(forwarded, ",")[0])
		if ip != "" {
			return ip
		}
	}

	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	if cfIP := c.Get("CF-Connecting-IP"); cfIP != "" {
		return cfIP
	}

	ip, _, err := net.SplitHostPort(c.Context().RemoteAddr().String())
	if err != nil {
		return c.Context().RemoteAddr().String()
	}

	return ip
}
