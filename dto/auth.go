package dto

import "github.com/vantech-digital/corsite_api/shared"

type LoginRequest struct {
	Email    string `json:"email" validate:"required,intake_email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return &shared.AppError{
			StatusCode: 400,
			Message:    "Validation failed",
			Data:       FormatValidationErrors(err),
			Err:        err,
		}
	}
	return nil
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}
