package services

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/minio/minio-go/v7"
	"github.com/vantech-digital/corsite_api/dto"
	"github.com/vantech-digital/corsite_api/shared"
	log "github.com/sirupsen/logrus"
)

// objectStore is the slice of StorageService the uploader needs. Tests
// substitute a fake.
type objectStore interface {
	UploadFile(objectName string, reader io.Reader, objectSize int64, contentType string) (*minio.UploadInfo, error)
	DeleteFile(objectName string) error
	PublicFileURL(objectName string) string
}

// MediaService generates collision-resistant object paths and moves bytes
// into the object store, either from a multipart upload or by fetching a
// remote URL.
type MediaService struct {
	context.DefaultService

	store      objectStore
	httpClient *http.Client
}

const (
	MEDIA_SVC = "media_svc"

	MaxCVFileSize    = 5 * 1024 * 1024 // 5 MiB
	MaxImageFileSize = 10 * 1024 * 1024

	PDFContentType = "application/pdf"
)

func (svc MediaService) Id() string {
	return MEDIA_SVC
}

func (svc *MediaService) Configure(ctx *context.Context) error {
	svc.httpClient = &http.Client{Timeout: 30 * time.Second}
	return svc.DefaultService.Configure(ctx)
}

func (svc *MediaService) Start() error {
	svc.store = svc.Service(STORAGE_SVC).(*StorageService)
	return nil
}

// Upload writes content under a generated path and returns its public URL
// together with the internal path needed for later deletes.
func (svc *MediaService) Upload(content []byte, folder, contentType, originalName string) (*dto.UploadResult, error) {
	objectName := svc.buildObjectName(folder, extensionFor(originalName, contentType))

	_, err := svc.store.UploadFile(objectName, bytes.NewReader(content), int64(len(content)), contentType)
	if err != nil {
		return nil, shared.NewUploadError(err, "Failed to upload file to storage")
	}

	return &dto.UploadResult{
		URL:  svc.store.PublicFileURL(objectName),
		Path: objectName,
	}, nil
}

// UploadFromURL downloads a remote image and re-uploads it under the same
// generated-name scheme.
func (svc *MediaService) UploadFromURL(imageURL, folder string) (*dto.UploadResult, error) {
	// A malformed URL is the caller's fault, not a fetch failure.
	parsed, err := url.ParseRequestURI(imageURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, shared.NewValidationError(err, "Invalid image URL")
	}

	resp, err := svc.httpClient.Get(imageURL)
	if err != nil {
		return nil, shared.NewFetchError(err, "Failed to fetch remote image")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, shared.NewFetchError(fmt.Errorf("remote returned %s", resp.Status), "Failed to fetch remote image")
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, shared.NewFetchError(fmt.Errorf("unexpected content type %q", contentType), "Remote resource is not an image")
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, MaxImageFileSize+1))
	if err != nil {
		return nil, shared.NewFetchError(err, "Failed to read remote image")
	}
	if len(content) > MaxImageFileSize {
		return nil, shared.NewFetchError(nil, "Remote image too large")
	}

	return svc.Upload(content, folder, contentType, parsed.Path)
}

// UploadMultipart reads a form file fully into memory and uploads it.
func (svc *MediaService) UploadMultipart(file *multipart.FileHeader, folder string) (*dto.UploadResult, error) {
	src, err := file.Open()
	if err != nil {
		return nil, shared.NewUploadError(err, "Failed to read uploaded file")
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return nil, shared.NewUploadError(err, "Failed to read uploaded file")
	}

	return svc.Upload(content, folder, file.Header.Get("Content-Type"), file.Filename)
}

// Delete removes an object by its internal path. Used directly by admin
// flows and as the compensating action after a failed database write.
func (svc *MediaService) Delete(objectPath string) error {
	if err := svc.store.DeleteFile(objectPath); err != nil {
		return shared.NewUploadError(err, "Failed to delete file from storage")
	}
	return nil
}

// ValidateCVFile enforces the PDF-only intake contract.
func (svc *MediaService) ValidateCVFile(file *multipart.FileHeader) error {
	if file == nil {
		return shared.NewValidationError(nil, "CV file is required")
	}
	if file.Header.Get("Content-Type") != PDFContentType {
		return shared.NewValidationError(nil, "CV file must be a PDF")
	}
	if file.Size > MaxCVFileSize {
		return shared.NewValidationError(nil, "CV file too large. Maximum size: 5MB")
	}
	return nil
}

// buildObjectName combines a nanosecond timestamp with a short random
// suffix so collisions are astronomically unlikely without a round-trip
// uniqueness check.
func (svc *MediaService) buildObjectName(folder, ext string) string {
	suffix := make([]byte, 4)
	_, _ = rand.Read(suffix)

	return fmt.Sprintf("%s/%d-%s%s", folder, time.Now().UnixNano(), hex.EncodeToString(suffix), ext)
}

func extensionFor(originalName, contentType string) string {
	if ext := filepath.Ext(originalName); ext != "" {
		return strings.ToLower(ext)
	}

	switch contentType {
	case PDFContentType:
		return ".pdf"
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		log.Debugf("no extension mapping for content type %q", contentType)
		return ""
	}
}
