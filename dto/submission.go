package dto

import (
	"regexp"
	"unicode/utf8"

	"github.com/vantech-digital/corsite_api/shared"
)

// urlLikeRegex marks a message as link-bearing for the spam heuristic.
var urlLikeRegex = regexp.MustCompile(`(?i)(https?://|www\.)\S+`)

// spamMessageMaxLen: a link-bearing message shorter than this is treated
// as spam. Kept deliberately narrow; do not widen without product sign-off.
const spamMessageMaxLen = 50

type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,intake_email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message" validate:"required"`

	// Honeypot is hidden on the form. Humans leave it empty.
	Honeypot string `json:"honeypot"`
}

// IsBot reports whether the hidden honeypot field was filled in. Callers
// must answer a bot with a fabricated success, never an error.
func (r *ContactRequest) IsBot() bool {
	return r.Honeypot != ""
}

// IsSpam applies the link-plus-short-message heuristic.
func (r *ContactRequest) IsSpam() bool {
	return urlLikeRegex.MatchString(r.Message) && utf8.RuneCountInString(r.Message) < spamMessageMaxLen
}

func (r *ContactRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return &shared.AppError{
			StatusCode: 400,
			Message:    "Validation failed",
			Data:       FormatValidationErrors(err),
			Err:        err,
		}
	}

	if n := utf8.RuneCountInString(r.Name); n < 2 || n > 100 {
		return shared.NewValidationError(nil, "Name must be between 2 and 100 characters")
	}
	if n := utf8.RuneCountInString(r.Message); n < 10 || n > 5000 {
		return shared.NewValidationError(nil, "Message must be between 10 and 5000 characters")
	}
	if r.IsSpam() {
		return shared.NewValidationError(nil, "Message was flagged as spam")
	}

	return nil
}

type ContactResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	EmailID   string `json:"email_id,omitempty"`
	Recipient string `json:"recipient,omitempty"`
}

type CVRequest struct {
	PositionID    string `json:"position_id" form:"position_id"`
	PositionTitle string `json:"position_title" form:"position_title"`
	Name          string `json:"name" form:"name" validate:"required"`
	Email         string `json:"email" form:"email" validate:"required,intake_email"`
	Phone         string `json:"phone" form:"phone"`
	Message       string `json:"message" form:"message"`
}

func (r *CVRequest) Validate() error {
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

type CVResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	SubmissionID string `json:"submission_id,omitempty"`
}

type UpdateCVStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
