package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/vantech-digital/corsite_api/dto"
	"github.com/vantech-digital/corsite_api/shared"
)

type MediaHandler struct {
	mediaSvc MediaServiceInterface
}

func NewMediaHandler(mediaSvc MediaServiceInterface) *MediaHandler {
	return &MediaHandler{
		mediaSvc: mediaSvc,
	}
}

// @Summary Upload image (Admin)
// @Description Upload an image either as a multipart file or by remote URL in a JSON body (Admin only)
// @Tags admin
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param image formData file false "Image file"
// @Param uploadRequest body dto.UploadImageRequest false "Remote image URL"
// @Success 200 {object} shared.Response{data=dto.UploadResponse}
// @Router /api/v1/admin/upload-image [post]
func (h *MediaHandler) UploadImage(c *fiber.Ctx) error {
	// Multipart mode when a file is attached, URL mode otherwise.
	if file, err := c.FormFile("image"); err == nil && file != nil {
		result, err := h.mediaSvc.UploadMultipart(file, shared.FolderPostImages)
		if err != nil {
			return err
		}
		return uploadResponse(c, result)
	}

	var req dto.UploadImageRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Provide an image file or an image_url")
	}
	if err := req.Validate(); err != nil {
		return err
	}

	folder := req.Folder
	if folder == "" {
		folder = shared.FolderPostImages
	}

	result, err := h.mediaSvc.UploadFromURL(req.ImageURL, folder)
	if err != nil {
		return err
	}

	return uploadResponse(c, result)
}

func uploadResponse(c *fiber.Ctx, result *dto.UploadResult) error {
	return shared.ResponseJSON(c, http.StatusOK, "Image uploaded successfully", dto.UploadResponse{
		Success: true,
		URL:     result.URL,
		Path:    result.Path,
	})
}
