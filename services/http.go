package services

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"

	"github.com/vantech-digital/corsite_api/services/handlers"
	"github.com/vantech-digital/corsite_api/shared"
)

// HttpService owns the public API surface. Handlers return errors; the
// app-level ErrorHandler maps them to response envelopes in one place.
type HttpService struct {
	context.DefaultService

	authSvc       *AuthService
	rateLimitSvc  *RateLimitService
	monitoringSvc *MonitoringService

	submissionHandler *handlers.SubmissionHandler
	postHandler       *handlers.PostHandler
	mediaHandler      *handlers.MediaHandler
	authHandler       *handlers.AuthHandler

	port   int
	server *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.authSvc = svc.Service(AUTH_SVC).(*AuthService)
	svc.rateLimitSvc = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)
	svc.monitoringSvc = svc.Service(MONITORING_SVC).(*MonitoringService)

	svc.submissionHandler = handlers.NewSubmissionHandler(svc.Service(SUBMISSION_SVC).(*SubmissionService))
	svc.postHandler = handlers.NewPostHandler(svc.Service(POST_SVC).(*PostService))
	svc.mediaHandler = handlers.NewMediaHandler(svc.Service(MEDIA_SVC).(*MediaService))
	svc.authHandler = handlers.NewAuthHandler(svc.authSvc)

	app := fiber.New(fiber.Config{
		ErrorHandler:          svc.handleError,
		DisableStartupMessage: true,
		BodyLimit:             12 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	app.Use(svc.monitoringSvc.FiberMiddleware())
	app.Use(svc.rateLimitSvc.IPRateLimit())

	app.Get("/ping", svc.ping)

	v1 := app.Group("/api/v1")
	v1.Get("/ping", svc.ping)

	v1.Post("/contact", svc.submissionHandler.SubmitContact)
	v1.Post("/submit-cv", svc.submissionHandler.SubmitCV)
	v1.Get("/posts", svc.postHandler.ListPosts)
	v1.Get("/posts/:slug", svc.postHandler.GetPostBySlug)
	v1.Post("/login", svc.rateLimitSvc.Limit("login"), svc.authHandler.Login)

	admin := v1.Group("/admin", svc.authSvc.RequiredAuth())
	admin.Post("/posts", svc.postHandler.CreatePost)
	admin.Put("/posts/:id", svc.postHandler.UpdatePost)
	admin.Delete("/posts/:id", svc.postHandler.DeletePost)
	admin.Get("/cv-submissions", svc.submissionHandler.ListCVSubmissions)
	admin.Put("/cv-submissions/:id", svc.submissionHandler.UpdateCVStatus)
	admin.Get("/contact-submissions", svc.submissionHandler.ListContactSubmissions)
	admin.Post("/upload-image", svc.rateLimitSvc.Limit("upload"), svc.mediaHandler.UploadImage)

	if !shared.IsProduction() {
		admin.Get("/rate-limits", svc.rateLimitSvc.Stats())
	}

	app.Use(func(c *fiber.Ctx) error {
		return shared.ResponseNotFound(c)
	})

	svc.server = app

	log.Printf("HTTP API listening on :%d", svc.port)
	return app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")

	return shared.ResponseJSON(c, http.StatusOK, "Success", "pong")
}

func (svc *HttpService) handleError(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		if appErr.StatusCode >= 500 {
			log.WithError(appErr.Err).Error(appErr.Message)
		}
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	log.WithError(err).Error("Unhandled error")
	return shared.ResponseInternalError(c, err)
}
