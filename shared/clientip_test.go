package shared

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolveClientIP(t *testing.T, headers map[string]string) string {
	t.Helper()

	app := fiber.New()
	var got string
	app.Get("/", func(c *fiber.Ctx) error {
		got = ClientIP(c)
		return c.SendString("ok")
	})

	req := httptest.NewRequest("GET", "/", nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	return got
}

func TestClientIP_ForwardedForWins(t *testing.T) {
	got := resolveClientIP(t, map[string]string{
		"X-Forwarded-For": "203.0.113.7, 10.0.0.1",
		"X-Real-IP":       "198.51.100.2",
	})
	assert.Equal(t, "203.0.113.7", got)
}

func TestClientIP_RealIPFallback(t *testing.T) {
	got := resolveClientIP(t, map[string]string{
		"X-Real-IP": "198.51.100.2",
	})
	assert.Equal(t, "198.51.100.2", got)
}

func TestClientIP_CloudflareFallback(t *testing.T) {
	got := resolveClientIP(t, map[string]string{
		"CF-Connecting-IP": "192.0.2.9",
	})
	assert.Equal(t, "192.0.2.9", got)
}

func TestClientIP_EmptyForwardedForIgnored(t *testing.T) {
	got := resolveClientIP(t, map[string]string{
		"X-Forwarded-For": " , ",
		"X-Real-IP":       "198.51.100.2",
	})
	assert.Equal(t, "198.51.100.2", got)
}

func TestClientIP_NoHeadersUsesRemoteAddr(t *testing.T) {
	got := resolveClientIP(t, nil)
	assert.NotEmpty(t, got)
}
