package services

import (
	"os"
	"strings"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/vantech-digital/corsite_api/dto"
	"github.com/vantech-digital/corsite_api/shared"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// AuthService authenticates the single env-configured admin account and
// guards the admin routes. There are no user accounts on this site.
type AuthService struct {
	context.DefaultService

	jwtSvc *JWTService

	adminEmail        string
	adminPasswordHash string
}

const AUTH_SVC = "auth_svc"

func (svc AuthService) Id() string {
	return AUTH_SVC
}

func (svc *AuthService) Configure(ctx *context.Context) error {
	svc.adminEmail = strings.ToLower(os.Getenv("ADMIN_EMAIL"))
	svc.adminPasswordHash = os.Getenv("ADMIN_PASSWORD_HASH")
	return svc.DefaultService.Configure(ctx)
}

func (svc *AuthService) Start() error {
	svc.jwtSvc = svc.Service(JWT_SVC).(*JWTService)

	if svc.adminEmail == "" || svc.adminPasswordHash == "" {
		log.Warn("Admin credentials not configured, admin routes will reject all logins")
	}
	return nil
}

func (svc *AuthService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if svc.adminEmail == "" || svc.adminPasswordHash == "" {
		return nil, shared.NewUnauthorizedError(nil, "Invalid credentials")
	}

	if strings.ToLower(req.Email) != svc.adminEmail {
		return nil, shared.NewUnauthorizedError(nil, "Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(svc.adminPasswordHash), []byte(req.Password)); err != nil {
		return nil, shared.NewUnauthorizedError(err, "Invalid credentials")
	}

	token, err := svc.jwtSvc.ToJWT(svc.adminEmail)
	if err != nil {
		return nil, shared.NewAppError(fiber.StatusInternalServerError, err, "Failed to issue token")
	}

	return &dto.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(svc.jwtSvc.AccessTokenDuration.Seconds()),
	}, nil
}

// RequiredAuth guards admin routes with the bearer token.
func (svc *AuthService) RequiredAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		token, err := svc.jwtSvc.ExtractTokenFromHeader(authHeader)
		if err != nil {
			return shared.NewUnauthorizedError(err, "Unauthorized")
		}

		userID, err := svc.jwtSvc.VerifyJWTToken(token)
		if err != nil || userID == "" {
			return shared.NewUnauthorizedError(err, "Unauthorized")
		}

		c.Locals(shared.UserID, userID)
		return c.Next()
	}
}
