package dto

import "github.com/vantech-digital/corsite_api/shared"

// UploadImageRequest covers the fetch-by-URL ingestion mode; direct
// multipart uploads carry the file outside the JSON body.
type UploadImageRequest struct {
	ImageURL string `json:"image_url" validate:"required,url"`
	Folder   string `json:"folder"`
}

func (r *UploadImageRequest) Validate() error {
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

// UploadResult pairs the stable public URL with the internal object
// path needed for compensating deletes.
type UploadResult struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

type UploadResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
	Path    string `json:"path"`
}
