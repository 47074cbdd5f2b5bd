package services

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/vantech-digital/corsite_api/dto"
	"github.com/vantech-digital/corsite_api/shared"
	log "github.com/sirupsen/logrus"
)

// RateLimitService enforces a fixed-window request budget per identifier.
// The counter map is process-local by contract: a multi-instance
// deployment needs a shared store behind the same Check signature (the
// Redis service is the obvious seam) before the limits mean anything
// globally.
type RateLimitService struct {
	context.DefaultService

	mu      sync.Mutex
	entries map[string]*rateLimitEntry

	configs map[string]*RateLimitConfig

	now           func() time.Time
	sweepInterval time.Duration
	stopSweep     chan struct{}
}

// rateLimitEntry tracks accepted requests in the current window. Owned
// exclusively by the service; all access goes through the mutex.
type rateLimitEntry struct {
	count     int
	resetTime time.Time
}

// RateLimitConfig represents rate limiting configuration per endpoint purpose
type RateLimitConfig struct {
	Purpose     string        `json:"purpose"`
	MaxRequests int           `json:"max_requests"`
	Window      time.Duration `json:"window"`
	Description string        `json:"description"`
}

const RATE_LIMIT_SVC = "rate_limit_svc"

const defaultSweepInterval = 5 * time.Minute

func (svc *RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Configure(ctx *context.Context) error {
	svc.entries = make(map[string]*rateLimitEntry)
	svc.now = time.Now
	svc.sweepInterval = defaultSweepInterval
	svc.stopSweep = make(chan struct{})
	svc.initDefaultConfigs()
	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitService) Start() error {
	go svc.startSweepJob()
	return nil
}

func (svc *RateLimitService) Shutdown() {
	close(svc.stopSweep)
}

// NewRateLimitService builds a standalone instance for callers outside the
// service container (tests own the clock through nowFn).
func NewRateLimitService(nowFn func() time.Time) *RateLimitService {
	svc := &RateLimitService{
		entries:       make(map[string]*rateLimitEntry),
		now:           nowFn,
		sweepInterval: defaultSweepInterval,
		stopSweep:     make(chan struct{}),
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	svc.initDefaultConfigs()
	return svc
}

func (svc *RateLimitService) initDefaultConfigs() {
	svc.configs = map[string]*RateLimitConfig{
		"contact": {
			Purpose:     "contact",
			MaxRequests: 5,
			Window:      15 * time.Minute,
			Description: "Contact form submissions",
		},
		"cv": {
			Purpose:     "cv",
			MaxRequests: 3,
			Window:      time.Hour,
			Description: "CV submissions",
		},
		"upload": {
			Purpose:     "upload",
			MaxRequests: 30,
			Window:      time.Hour,
			Description: "Admin image uploads",
		},
		"login": {
			Purpose:     "login",
			MaxRequests: 10,
			Window:      15 * time.Minute,
			Description: "Admin login attempts",
		},
		"api_general": {
			Purpose:     "api_general",
			MaxRequests: 1000,
			Window:      time.Hour,
			Description: "General API rate limit per IP",
		},
	}
}

// ==================== CORE RATE LIMITING LOGIC ====================

// Check applies the fixed-window policy for identifier. The
// read-modify-write runs under the mutex so two requests racing on the
// same key cannot both be admitted past the budget.
func (svc *RateLimitService) Check(identifier string, config *RateLimitConfig) dto.RateLimitInfo {
	now := svc.now()

	svc.mu.Lock()
	defer svc.mu.Unlock()

	entry, exists := svc.entries[identifier]

	// First request for the key, or the window has expired: start a
	// fresh window counting this request.
	if !exists || !entry.resetTime.After(now) {
		resetTime := now.Add(config.Window)
		svc.entries[identifier] = &rateLimitEntry{count: 1, resetTime: resetTime}
		return dto.RateLimitInfo{
			Allowed:   true,
			Remaining: config.MaxRequests - 1,
			ResetTime: &resetTime,
		}
	}

	// Budget exhausted: reject without counting, leaving resetTime as is.
	if entry.count >= config.MaxRequests {
		resetTime := entry.resetTime
		return dto.RateLimitInfo{
			Allowed:   false,
			Remaining: 0,
			ResetTime: &resetTime,
		}
	}

	entry.count++
	resetTime := entry.resetTime
	return dto.RateLimitInfo{
		Allowed:   true,
		Remaining: config.MaxRequests - entry.count,
		ResetTime: &resetTime,
	}
}

// CheckPurpose looks up the purpose config and checks the composite
// "<purpose>:<scope>:<value>" key. Unknown purposes are allowed through.
func (svc *RateLimitService) CheckPurpose(purpose, scope, value string) dto.RateLimitInfo {
	config, exists := svc.configs[purpose]
	if !exists {
		return dto.RateLimitInfo{Allowed: true, Remaining: -1}
	}

	identifier := fmt.Sprintf("%s:%s:%s", purpose, scope, value)
	return svc.Check(identifier, config)
}

// Reset drops the entry for an identifier.
func (svc *RateLimitService) Reset(identifier string) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	delete(svc.entries, identifier)
}

// EntryCount reports how many identifiers are currently tracked.
func (svc *RateLimitService) EntryCount() int {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return len(svc.entries)
}

// ==================== MIDDLEWARE ====================

// Limit rate-limits a purpose per client IP and, when the request carries
// an email, per email as well, so neither rotating addresses nor rotating
// identities stretches the budget.
func (svc *RateLimitService) Limit(purpose string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		info := svc.CheckPurpose(purpose, "ip", shared.ClientIP(c))
		svc.addRateLimitHeaders(c, &info)
		if !info.Allowed {
			return svc.rateLimitExceeded(purpose, &info)
		}

		if email := getEmailFromRequest(c); email != "" {
			emailInfo := svc.CheckPurpose(purpose, "email", strings.ToLower(email))
			if !emailInfo.Allowed {
				svc.addRateLimitHeaders(c, &emailInfo)
				return svc.rateLimitExceeded(purpose, &emailInfo)
			}
		}

		return c.Next()
	}
}

// IPRateLimit applies the general per-IP budget to everything.
func (svc *RateLimitService) IPRateLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		info := svc.CheckPurpose("api_general", "ip", shared.ClientIP(c))
		svc.addRateLimitHeaders(c, &info)

		if !info.Allowed {
			return svc.rateLimitExceeded("api_general", &info)
		}

		return c.Next()
	}
}

func (svc *RateLimitService) addRateLimitHeaders(c *fiber.Ctx, info *dto.RateLimitInfo) {
	if info == nil {
		return
	}

	if info.Remaining >= 0 {
		c.Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
	}

	if info.ResetTime != nil {
		c.Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))

		if !info.Allowed {
			retryAfter := int(info.ResetTime.Sub(svc.now()).Seconds())
			if retryAfter > 0 {
				c.Set("Retry-After", strconv.Itoa(retryAfter))
			}
		}
	}
}

func (svc *RateLimitService) rateLimitExceeded(purpose string, info *dto.RateLimitInfo) error {
	retryAfter := 0
	if info.ResetTime != nil {
		retryAfter = int(info.ResetTime.Sub(svc.now()).Seconds())
	}

	log.WithFields(log.Fields{"purpose": purpose, "retry_after": retryAfter}).Warn("Rate limit exceeded")
	CountRateLimitRejection(purpose)
	return shared.NewRateLimitError(rateLimitMessage(purpose), retryAfter)
}

func rateLimitMessage(purpose string) string {
	messages := map[string]string{
		"contact":     "Too many contact messages. Please try again later.",
		"cv":          "Too many CV submissions. Please try again later.",
		"upload":      "Too many uploads. Please try again later.",
		"login":       "Too many login attempts. Please try again later.",
		"api_general": "Too many requests. Please slow down.",
	}

	if message, exists := messages[purpose]; exists {
		return message
	}

	return "Too many requests. Please try again later."
}

// ==================== BACKGROUND SWEEP ====================

// Sweep removes entries whose window already expired, bounding memory
// growth. Returns how many were removed.
func (svc *RateLimitService) Sweep() int {
	now := svc.now()

	svc.mu.Lock()
	defer svc.mu.Unlock()

	removed := 0
	for key, entry := range svc.entries {
		if !entry.resetTime.After(now) {
			delete(svc.entries, key)
			removed++
		}
	}
	return removed
}

func (svc *RateLimitService) startSweepJob() {
	ticker := time.NewTicker(svc.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := svc.Sweep(); removed > 0 {
				log.Debugf("Rate limit sweep removed %d expired entries", removed)
			}
		case <-svc.stopSweep:
			return
		}
	}
}

// ==================== DIAGNOSTICS ====================

// Stats returns configs and the live entry count. Routed only outside
// production.
func (svc *RateLimitService) Stats() fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats := map[string]interface{}{
			"configs":       svc.configs,
			"total_entries": svc.EntryCount(),
			"timestamp":     svc.now(),
		}

		return shared.ResponseJSON(c, fiber.StatusOK, "Rate limit statistics", stats)
	}
}

// ==================== UTILITY FUNCTIONS ====================

func getEmailFromRequest(c *fiber.Ctx) string {
	// Multipart and urlencoded forms first
	if email := c.FormValue("email"); email != "" {
		return email
	}

	// Then JSON bodies
	if len(c.Body()) > 0 {
		var reqBody map[string]interface{}
		if err := sonic.Unmarshal(c.Body(), &reqBody); err == nil {
			if email, exists := reqBody["email"]; exists {
				if emailStr, ok := email.(string); ok {
					return emailStr
				}
			}
		}
	}

	return ""
}
