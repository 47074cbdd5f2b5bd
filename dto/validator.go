package dto

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

// intakeEmailRegex is intentionally loose: anything@anything.anything
// without whitespace. Stricter RFC validation rejects real addresses
// more often than it stops abuse.
var intakeEmailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func init() {
	validate = validator.New()
	validate.RegisterValidation("intake_email", validateIntakeEmail)
}

func validateIntakeEmail(fl validator.FieldLevel) bool {
	return intakeEmailRegex.MatchString(fl.Field().String())
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrorResponse struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors"`
}

func FormatValidationErrors(err error) []ValidationError {
	var errors []ValidationError

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			var message string

			switch fieldError.Tag() {
			case "required":
				message = fieldError.Field() + " is required"
			case "intake_email":
				message = "Invalid email format"
			case "min":
				message = fieldError.Field() + " must be at least " + fieldError.Param() + " characters"
			case "max":
				message = fieldError.Field() + " must be at most " + fieldError.Param() + " characters"
			case "oneof":
				message = fieldError.Field() + " must be one of: " + fieldError.Param()
			case "url":
				message = fieldError.Field() + " must be a valid URL"
			default:
				message = fieldError.Field() + " is invalid"
			}

			errors = append(errors, ValidationError{
				Field:   fieldError.Field(),
				Message: message,
			})
		}
	}

	return errors
}
