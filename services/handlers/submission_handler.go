package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/vantech-digital/corsite_api/dto"
	"github.com/vantech-digital/corsite_api/shared"
)

type SubmissionHandler struct {
	submissionSvc SubmissionServiceInterface
}

func NewSubmissionHandler(submissionSvc SubmissionServiceInterface) *SubmissionHandler {
	return &SubmissionHandler{
		submissionSvc: submissionSvc,
	}
}

// @Summary Submit contact message
// @Description Validate a contact form message, store it and notify the site owner by email
// @Tags public
// @Accept json
// @Produce json
// @Param contactRequest body dto.ContactRequest true "Contact message"
// @Success 200 {object} shared.Response{data=dto.ContactResponse}
// @Router /api/v1/contact [post]
func (h *SubmissionHandler) SubmitContact(c *fiber.Ctx) error {
	var req dto.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	resp, err := h.submissionSvc.SubmitContact(&req, shared.ClientIP(c))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, resp.Message, resp)
}

// @Summary Submit CV application
// @Description Upload a PDF CV together with the applicant details for an open position
// @Tags public
// @Accept multipart/form-data
// @Produce json
// @Param cv_file formData file true "CV file (PDF, max 5MB)"
// @Param name formData string true "Applicant name"
// @Param email formData string true "Applicant email"
// @Success 200 {object} shared.Response{data=dto.CVResponse}
// @Router /api/v1/submit-cv [post]
func (h *SubmissionHandler) SubmitCV(c *fiber.Ctx) error {
	var req dto.CVRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	file, err := c.FormFile("cv_file")
	if err != nil {
		return shared.NewValidationError(err, "CV file is required")
	}

	resp, err := h.submissionSvc.SubmitCV(&req, file, shared.ClientIP(c))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, resp.Message, resp)
}

// @Summary List CV submissions (Admin)
// @Description List CV submissions, optionally filtered by review status (Admin only)
// @Tags admin
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param status query string false "Status filter (pending, reviewed, contacted, rejected, all)"
// @Success 200 {object} shared.Response{data=[]model.CVSubmission}
// @Router /api/v1/admin/cv-submissions [get]
func (h *SubmissionHandler) ListCVSubmissions(c *fiber.Ctx) error {
	subs, err := h.submissionSvc.ListCVSubmissions(c.Query("status"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", subs)
}

// @Summary Update CV submission status (Admin)
// @Description Set the review status of a CV submission (Admin only)
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param id path string true "CV submission ID"
// @Param statusRequest body dto.UpdateCVStatusRequest true "New status"
// @Success 200 {object} shared.Response{data=model.CVSubmission}
// @Router /api/v1/admin/cv-submissions/{id} [put]
func (h *SubmissionHandler) UpdateCVStatus(c *fiber.Ctx) error {
	var req dto.UpdateCVStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	sub, err := h.submissionSvc.UpdateCVStatus(c.Params("id"), req.Status)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Status updated successfully", sub)
}

// @Summary List contact submissions (Admin)
// @Description List stored contact form submissions, newest first (Admin only)
// @Tags admin
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Success 200 {object} shared.Response{data=[]model.ContactSubmission}
// @Router /api/v1/admin/contact-submissions [get]
func (h *SubmissionHandler) ListContactSubmissions(c *fiber.Ctx) error {
	subs, err := h.submissionSvc.ListContactSubmissions()
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", subs)
}
