package main

import (
	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/vantech-digital/corsite_api/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.WithError(err).Warn("No .env file loaded, relying on environment")
	}

	ctx, err := context.NewCtx(
		&services.SqlService{},
		&services.RedisService{},
		&services.StorageService{},
		&services.MediaService{},
		&services.EmailService{},
		&services.RateLimitService{},
		&services.JWTService{},
		&services.AuthService{},
		&services.SubmissionService{},
		&services.PostService{},
		&services.MonitoringService{},

		&services.HttpService{},
	)
	if err != nil {
		log.WithError(err).Fatal("Failed to configure services")
		return
	}

	if err = ctx.Run(); err != nil {
		log.WithError(err).Fatal("Service runtime exited")
		return
	}
}
