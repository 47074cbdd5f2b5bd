package dto

import "github.com/vantech-digital/corsite_api/shared"

type CreatePostRequest struct {
	Title         string `json:"title" validate:"required,min=2,max=255"`
	Excerpt       string `json:"excerpt"`
	Content       string `json:"content" validate:"required"`
	Category      string `json:"category" validate:"required,oneof=project news recruitment"`
	CoverImageURL string `json:"cover_image_url"`
	Language      string `json:"language" validate:"omitempty,oneof=vi en ja"`
	Published     bool   `json:"published"`
}

func (r *CreatePostRequest) Validate() error {
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

// UpdatePostRequest uses pointers so absent fields are left untouched.
type UpdatePostRequest struct {
	Title         *string `json:"title" validate:"omitempty,min=2,max=255"`
	Excerpt       *string `json:"excerpt"`
	Content       *string `json:"content"`
	Category      *string `json:"category" validate:"omitempty,oneof=project news recruitment"`
	CoverImageURL *string `json:"cover_image_url"`
	Language      *string `json:"language" validate:"omitempty,oneof=vi en ja"`
	Published     *bool   `json:"published"`
}

func (r *UpdatePostRequest) Validate() error {
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

type PostListRequest struct {
	Published *bool
	Category  string
}
