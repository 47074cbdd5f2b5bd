package services

import (
	"fmt"
	"os"
	"strconv"

	appContext "github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

const (
	MONITORING_SVC          = "monitoring_svc"
	DEFAULT_PROMETHEUS_PORT = 2112
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"endpoint", "method", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method"},
	)

	submissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "submissions_total",
			Help: "Intake submissions by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	rateLimitRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_rejections_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"purpose"},
	)
)

// MonitoringService exposes prometheus metrics on a side port.
type MonitoringService struct {
	appContext.DefaultService

	port     int
	registry *prometheus.Registry
	server   *fiber.App
}

func (svc MonitoringService) Id() string {
	return MONITORING_SVC
}

func (svc *MonitoringService) Configure(ctx *appContext.Context) error {
	svc.port = DEFAULT_PROMETHEUS_PORT
	if port := os.Getenv("PROMETHEUS_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			svc.port = p
		}
	}

	svc.registry = prometheus.NewRegistry()
	svc.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequestsTotal,
		httpRequestDuration,
		submissionsTotal,
		rateLimitRejectionsTotal,
	)

	return svc.DefaultService.Configure(ctx)
}

func (svc *MonitoringService) Start() error {
	svc.server = fiber.New(fiber.Config{DisableStartupMessage: true})
	svc.server.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(svc.registry, promhttp.HandlerOpts{})))

	go func() {
		if err := svc.server.Listen(fmt.Sprintf(":%d", svc.port)); err != nil {
			log.WithError(err).Error("Metrics server stopped")
		}
	}()

	log.Printf("Metrics exposed on :%d/metrics", svc.port)
	return nil
}

func (svc *MonitoringService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

// FiberMiddleware records request counts and latency per route.
func (svc *MonitoringService) FiberMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues(c.Path(), c.Method()))
		err := c.Next()
		timer.ObserveDuration()

		status := c.Response().StatusCode()
		httpRequestsTotal.WithLabelValues(c.Route().Path, c.Method(), strconv.Itoa(status)).Inc()

		return err
	}
}

// CountSubmission tracks intake outcomes.
func CountSubmission(kind, outcome string) {
	submissionsTotal.WithLabelValues(kind, outcome).Inc()
}

// CountRateLimitRejection tracks limiter rejections per purpose.
func CountRateLimitRejection(purpose string) {
	rateLimitRejectionsTotal.WithLabelValues(purpose).Inc()
}
