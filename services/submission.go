package services

import (
	"errors"
	"mime/multipart"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/vantech-digital/corsite_api/dto"
	"github.com/vantech-digital/corsite_api/model"
	"github.com/vantech-digital/corsite_api/services/repositories"
	"github.com/vantech-digital/corsite_api/shared"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// The pipeline's collaborators are held as interfaces so tests can
// substitute fakes for the store, the uploader and the dispatcher.
type submissionStore interface {
	CreateContactSubmission(sub *model.ContactSubmission) error
	ListContactSubmissions() ([]model.ContactSubmission, error)
	CreateCVSubmission(sub *model.CVSubmission) error
	GetCVSubmission(id string) (*model.CVSubmission, error)
	ListCVSubmissions(status string) ([]model.CVSubmission, error)
	UpdateCVSubmission(sub *model.CVSubmission) error
}

type cvUploader interface {
	ValidateCVFile(file *multipart.FileHeader) error
	UploadMultipart(file *multipart.FileHeader, folder string) (*dto.UploadResult, error)
	Delete(objectPath string) error
}

type contactDispatcher interface {
	Recipient() string
	SendContactNotification(sub *model.ContactSubmission) (string, error)
}

type purposeLimiter interface {
	CheckPurpose(purpose, scope, value string) dto.RateLimitInfo
}

// SubmissionService runs the intake pipeline for contact messages and CV
// uploads: validate, rate-limit, upload, record, dispatch — in that order.
type SubmissionService struct {
	context.DefaultService

	store      submissionStore
	uploader   cvUploader
	dispatcher contactDispatcher
	limiter    purposeLimiter
}

const SUBMISSION_SVC = "submission_svc"

func (svc SubmissionService) Id() string {
	return SUBMISSION_SVC
}

func (svc *SubmissionService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *SubmissionService) Start() error {
	sqlSvc := svc.Service(SQL_SVC).(*SqlService)
	svc.store = repositories.NewSubmissionRepository(sqlSvc.Db())
	svc.uploader = svc.Service(MEDIA_SVC).(*MediaService)
	svc.dispatcher = svc.Service(EMAIL_SVC).(*EmailService)
	svc.limiter = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)
	return nil
}

// ==================== CONTACT PATH ====================

// SubmitContact validates and records a contact message, then dispatches
// the notification email. The database row is a secondary audit copy: a
// failed insert is logged and the flow continues, because the email is
// the primary channel. A failed dispatch is surfaced even though the row
// may already be stored.
func (svc *SubmissionService) SubmitContact(req *dto.ContactRequest, clientIP string) (*dto.ContactResponse, error) {
	if req.IsBot() {
		// Fabricated success so the automated client learns nothing.
		log.WithField("ip", clientIP).Info("Honeypot triggered, dropping submission")
		return &dto.ContactResponse{
			Success: true,
			Message: "Your message has been sent. Thank you!",
		}, nil
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := svc.checkLimits("contact", clientIP, req.Email); err != nil {
		return nil, err
	}

	sub := &model.ContactSubmission{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Subject:  req.Subject,
		Message:  req.Message,
		ClientIP: clientIP,
	}

	if err := svc.store.CreateContactSubmission(sub); err != nil {
		log.WithError(err).Warn("Failed to store contact submission, continuing to dispatch")
	}

	emailID, err := svc.dispatcher.SendContactNotification(sub)
	if err != nil {
		CountSubmission("contact", "dispatch_failed")
		return nil, err
	}

	CountSubmission("contact", "accepted")
	return &dto.ContactResponse{
		Success:   true,
		Message:   "Your message has been sent. Thank you!",
		EmailID:   emailID,
		Recipient: svc.dispatcher.Recipient(),
	}, nil
}

func (svc *SubmissionService) ListContactSubmissions() ([]model.ContactSubmission, error) {
	subs, err := svc.store.ListContactSubmissions()
	if err != nil {
		return nil, shared.NewPersistenceError(err, "Failed to list contact submissions")
	}
	return subs, nil
}

// ==================== CV PATH ====================

// SubmitCV uploads the PDF first and records the row second. The two are
// kept consistent: a failed insert triggers rollbackUpload so no orphaned
// file remains, and a failed upload never creates a row.
func (svc *SubmissionService) SubmitCV(req *dto.CVRequest, file *multipart.FileHeader, clientIP string) (*dto.CVResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := svc.uploader.ValidateCVFile(file); err != nil {
		return nil, err
	}

	if err := svc.checkLimits("cv", clientIP, req.Email); err != nil {
		return nil, err
	}

	upload, err := svc.uploader.UploadMultipart(file, shared.FolderCVFiles)
	if err != nil {
		return nil, err
	}

	sub := &model.CVSubmission{
		PositionID:    req.PositionID,
		PositionTitle: req.PositionTitle,
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Message:       req.Message,
		CVFileURL:     upload.URL,
		CVFileName:    file.Filename,
		CVFilePath:    upload.Path,
		Status:        shared.StatusPending,
	}

	if err := svc.store.CreateCVSubmission(sub); err != nil {
		svc.rollbackUpload(upload.Path)
		CountSubmission("cv", "persist_failed")
		return nil, shared.NewPersistenceError(err, "Failed to record CV submission")
	}

	CountSubmission("cv", "accepted")
	return &dto.CVResponse{
		Success:      true,
		Message:      "Your application has been received. Thank you!",
		SubmissionID: sub.ID,
	}, nil
}

// rollbackUpload is the compensating action for a row write that failed
// after the file was already stored. Best-effort: its own failure is
// logged, not escalated past the original PersistenceError.
func (svc *SubmissionService) rollbackUpload(objectPath string) {
	if err := svc.uploader.Delete(objectPath); err != nil {
		log.WithError(err).WithField("path", objectPath).Error("Compensating delete failed, orphaned file remains")
		return
	}
	log.WithField("path", objectPath).Info("Rolled back uploaded file after failed insert")
}

func (svc *SubmissionService) ListCVSubmissions(status string) ([]model.CVSubmission, error) {
	if status != "" && status != "all" && !shared.IsValidCVStatus(status) {
		return nil, shared.NewValidationError(nil, "Unknown status filter")
	}

	subs, err := svc.store.ListCVSubmissions(status)
	if err != nil {
		return nil, shared.NewPersistenceError(err, "Failed to list CV submissions")
	}
	return subs, nil
}

// UpdateCVStatus sets the review status. Membership in the status set is
// enforced; transitions between members are not.
func (svc *SubmissionService) UpdateCVStatus(id, status string) (*model.CVSubmission, error) {
	if !shared.IsValidCVStatus(status) {
		return nil, shared.NewValidationError(nil, "Status must be one of: pending, reviewed, contacted, rejected")
	}

	sub, err := svc.store.GetCVSubmission(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(err, "CV submission not found")
		}
		return nil, shared.NewPersistenceError(err, "Failed to load CV submission")
	}

	sub.Status = status
	sub.UpdatedAt = time.Now()

	if err := svc.store.UpdateCVSubmission(sub); err != nil {
		return nil, shared.NewPersistenceError(err, "Failed to update CV submission")
	}

	return sub, nil
}

// ==================== HELPERS ====================

// checkLimits applies the per-IP and per-email budgets for a purpose.
// Runs after validation so malformed requests never consume budget.
func (svc *SubmissionService) checkLimits(purpose, clientIP, email string) error {
	info := svc.limiter.CheckPurpose(purpose, "ip", clientIP)
	if !info.Allowed {
		return limitError(purpose, &info)
	}

	if email != "" {
		info = svc.limiter.CheckPurpose(purpose, "email", email)
		if !info.Allowed {
			return limitError(purpose, &info)
		}
	}

	return nil
}

func limitError(purpose string, info *dto.RateLimitInfo) error {
	retryAfter := 0
	if info.ResetTime != nil {
		retryAfter = int(time.Until(*info.ResetTime).Seconds())
	}
	CountRateLimitRejection(purpose)
	return shared.NewRateLimitError(rateLimitMessage(purpose), retryAfter)
}
