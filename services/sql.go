package services

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/vantech-digital/corsite_api/model"
	"github.com/vantech-digital/corsite_api/shared"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SqlService opens the hosted Postgres when DATABASE_URL (or DB_HOST) is
// configured, and falls back to a local sqlite file otherwise so the API
// runs without infrastructure in development.
type SqlService struct {
	context.DefaultService
	db *gorm.DB

	dsn      string
	postgres bool
}

const SQL_SVC = "sql_svc"

func (ds SqlService) Id() string {
	return SQL_SVC
}

// Db Access to raw db handle
func (ds SqlService) Db() *gorm.DB {
	return ds.db
}

func (ds *SqlService) Configure(ctx *context.Context) error {
	ds.dsn = os.Getenv("DATABASE_URL")
	if ds.dsn != "" {
		ds.postgres = true
		return ds.DefaultService.Configure(ctx)
	}

	if host := os.Getenv("DB_HOST"); host != "" {
		port := envOr("DB_PORT", "5432")
		user := envOr("DB_USER", "postgres")
		password := envOr("DB_PASSWORD", "postgres")
		dbname := envOr("DB_NAME", "corsite_api")
		sslmode := envOr("DB_SSLMODE", "disable")
		timezone := envOr("DB_TIMEZONE", "UTC")

		ds.dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
			host, user, password, dbname, port, sslmode, timezone)
		ds.postgres = true
		return ds.DefaultService.Configure(ctx)
	}

	ds.dsn = envOr("DB_DATABASE", "corsite.db")
	return ds.DefaultService.Configure(ctx)
}

// Start opens the connection, retrying with backoff for the hosted case,
// then migrates any tables that have changed since last runtime.
func (ds *SqlService) Start() (err error) {
	if ds.postgres {
		err = ds.connectPostgres()
	} else {
		ds.db, err = gorm.Open(sqlite.Open(ds.dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Error),
		})
	}
	if err != nil {
		return err
	}

	models := []interface{}{
		&model.Post{},
		&model.ContactSubmission{},
		&model.CVSubmission{},
	}

	err = ds.db.AutoMigrate(models...)
	if err != nil {
		log.Printf("Failed to migrate database: %v", err)
		return err
	}

	log.Println("Database connected and migrated successfully")
	return nil
}

func (ds *SqlService) connectPostgres() error {
	maxRetries := 10
	retryDelay := time.Second

	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		log.Printf("Attempting to connect to database (attempt %d/%d)...", attempt, maxRetries)

		ds.db, err = gorm.Open(postgres.Open(ds.dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Error),
		})

		if err == nil {
			sqlDB, dbErr := ds.db.DB()
			if dbErr == nil {
				if pingErr := sqlDB.Ping(); pingErr == nil {
					return nil
				} else {
					err = pingErr
				}
			} else {
				err = dbErr
			}
		}

		if attempt == maxRetries {
			log.Printf("Failed to connect to database after %d attempts: %v", maxRetries, err)
			return err
		}

		log.Printf("Database connection failed: %v. Retrying in %v...", err, retryDelay)
		time.Sleep(retryDelay)

		retryDelay *= 2
		if retryDelay > 10*time.Second {
			retryDelay = 10 * time.Second
		}
	}

	return err
}

func (ds *SqlService) Shutdown() {
	if ds.db == nil {
		return
	}
	if sqlDB, err := ds.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// HandleError translates gorm errors into the AppError taxonomy.
func HandleError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *shared.AppError

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		appErr = shared.NewNotFoundError(err, "Not Found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		appErr = shared.NewConflictError(err, "Duplicate record")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		appErr = shared.NewBadRequestError(err, "Related record missing")
	default:
		if strings.Contains(err.Error(), "UNIQUE constraint failed") ||
			strings.Contains(err.Error(), "duplicate key value") {
			appErr = shared.NewConflictError(err, "Duplicate record")
		} else {
			appErr = shared.NewPersistenceError(err, "Database error")
		}
	}

	logEntry := log.WithFields(log.Fields{
		"status_code": appErr.StatusCode,
		"error":       err.Error(),
	})

	if appErr.StatusCode >= 500 {
		logEntry.Error("Database error occurred")
	} else {
		logEntry.Warn("Database operation failed")
	}

	return appErr
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
