package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	appcontext "github.com/alphabatem/common/context"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"
)

// StorageService wraps the MinIO-compatible object store holding post
// images and CV PDFs.
type StorageService struct {
	appcontext.DefaultService
	client     *minio.Client
	bucketName string
	endpoint   string
	accessKey  string
	secretKey  string
	useSSL     bool
	publicURL  string
}

const STORAGE_SVC = "storage_svc"

func (svc StorageService) Id() string {
	return STORAGE_SVC
}

func (svc *StorageService) Configure(ctx *appcontext.Context) error {
	svc.endpoint = os.Getenv("MINIO_ENDPOINT")
	if svc.endpoint == "" {
		svc.endpoint = "localhost:9000"
	}

	svc.accessKey = os.Getenv("MINIO_ACCESS_KEY")
	if svc.accessKey == "" {
		svc.accessKey = "admin"
	}

	svc.secretKey = os.Getenv("MINIO_SECRET_KEY")
	if svc.secretKey == "" {
		svc.secretKey = "password123"
	}

	svc.useSSL = os.Getenv("MINIO_USE_SSL") == "true"

	svc.bucketName = os.Getenv("MINIO_BUCKET_NAME")
	if svc.bucketName == "" {
		svc.bucketName = "corsite-media"
	}

	// Public base for stable object URLs, e.g. a CDN in front of the
	// bucket. Falls back to the raw endpoint.
	svc.publicURL = strings.TrimSuffix(os.Getenv("PUBLIC_STORAGE_URL"), "/")
	if svc.publicURL == "" {
		scheme := "http"
		if svc.useSSL {
			scheme = "https"
		}
		svc.publicURL = fmt.Sprintf("%s://%s/%s", scheme, svc.endpoint, svc.bucketName)
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *StorageService) Start() error {
	client, err := minio.New(svc.endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(svc.accessKey, svc.secretKey, ""),
		Secure: svc.useSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create MinIO client: %v", err)
	}

	svc.client = client

	if err := svc.ensureBucket(); err != nil {
		return fmt.Errorf("failed to ensure bucket exists: %v", err)
	}

	log.Printf("Storage service started successfully with endpoint: %s", svc.endpoint)
	return nil
}

func (svc *StorageService) ensureBucket() error {
	ctx := context.Background()

	exists, err := svc.client.BucketExists(ctx, svc.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %v", err)
	}

	if !exists {
		err = svc.client.MakeBucket(ctx, svc.bucketName, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %v", err)
		}
		log.Printf("Created bucket: %s", svc.bucketName)
	}

	return nil
}

func (svc *StorageService) UploadFile(objectName string, reader io.Reader, objectSize int64, contentType string) (*minio.UploadInfo, error) {
	ctx := context.Background()

	uploadInfo, err := svc.client.PutObject(ctx, svc.bucketName, objectName, reader, objectSize, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %v", err)
	}

	return &uploadInfo, nil
}

func (svc *StorageService) DeleteFile(objectName string) error {
	ctx := context.Background()

	err := svc.client.RemoveObject(ctx, svc.bucketName, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete file: %v", err)
	}

	return nil
}

// PublicFileURL returns the stable public address of an object.
func (svc *StorageService) PublicFileURL(objectName string) string {
	return svc.publicURL + "/" + objectName
}
