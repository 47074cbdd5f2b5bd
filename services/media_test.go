package services

import (
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"regexp"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vantech-digital/corsite_api/shared"
)

// --- fake object store ---

type fakeObjectStore struct {
	uploadErr error

	objectNames  []string
	contentTypes []string
	sizes        []int64
	deleted      []string
}

func (f *fakeObjectStore) UploadFile(objectName string, reader io.Reader, objectSize int64, contentType string) (*minio.UploadInfo, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	f.objectNames = append(f.objectNames, objectName)
	f.contentTypes = append(f.contentTypes, contentType)
	f.sizes = append(f.sizes, objectSize)
	return &minio.UploadInfo{Key: objectName, Size: objectSize}, nil
}

func (f *fakeObjectStore) DeleteFile(objectName string) error {
	f.deleted = append(f.deleted, objectName)
	return nil
}

func (f *fakeObjectStore) PublicFileURL(objectName string) string {
	return "https://cdn.example.com/" + objectName
}

func newTestMediaService() (*MediaService, *fakeObjectStore) {
	store := &fakeObjectStore{}
	svc := &MediaService{
		store:      store,
		httpClient: http.DefaultClient,
	}
	return svc, store
}

func pdfHeader(size int64) *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: "cv.pdf",
		Size:     size,
		Header:   textproto.MIMEHeader{"Content-Type": []string{PDFContentType}},
	}
}

// --- object naming ---

func TestBuildObjectName(t *testing.T) {
	svc, _ := newTestMediaService()

	pattern := regexp.MustCompile(`^cv-files/\d+-[0-9a-f]{8}\.pdf$`)

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		name := svc.buildObjectName(shared.FolderCVFiles, ".pdf")
		assert.Regexp(t, pattern, name)
		assert.False(t, seen[name], "duplicate object name %q", name)
		seen[name] = true
	}
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, ".pdf", extensionFor("resume.PDF", ""))
	assert.Equal(t, ".pdf", extensionFor("", PDFContentType))
	assert.Equal(t, ".jpg", extensionFor("", "image/jpeg"))
	assert.Equal(t, ".png", extensionFor("photo.png", "image/jpeg"))
	assert.Equal(t, "", extensionFor("", "application/octet-stream"))
}

// --- uploads ---

func TestUpload(t *testing.T) {
	svc, store := newTestMediaService()

	result, err := svc.Upload([]byte("pdf bytes"), shared.FolderCVFiles, PDFContentType, "cv.pdf")
	require.NoError(t, err)

	require.Len(t, store.objectNames, 1)
	assert.Equal(t, store.objectNames[0], result.Path)
	assert.Equal(t, "https://cdn.example.com/"+result.Path, result.URL)
	assert.Equal(t, PDFContentType, store.contentTypes[0])
	assert.Equal(t, int64(len("pdf bytes")), store.sizes[0])
}

func TestDelete(t *testing.T) {
	svc, store := newTestMediaService()

	require.NoError(t, svc.Delete("cv-files/123-abcd.pdf"))
	assert.Equal(t, []string{"cv-files/123-abcd.pdf"}, store.deleted)
}

// --- remote fetch ---

func TestUploadFromURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png bytes"))
	}))
	defer server.Close()

	svc, store := newTestMediaService()

	result, err := svc.UploadFromURL(server.URL+"/logo.png", shared.FolderPostImages)
	require.NoError(t, err)

	assert.Regexp(t, `^post-images/\d+-[0-9a-f]{8}\.png$`, result.Path)
	require.Len(t, store.contentTypes, 1)
	assert.Equal(t, "image/png", store.contentTypes[0])
}

func TestUploadFromURL_RejectsNonImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	svc, store := newTestMediaService()

	_, err := svc.UploadFromURL(server.URL, shared.FolderPostImages)
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 500, appErr.StatusCode)
	assert.Empty(t, store.objectNames)
}

func TestUploadFromURL_RejectsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	svc, store := newTestMediaService()

	_, err := svc.UploadFromURL(server.URL, shared.FolderPostImages)
	require.Error(t, err)
	assert.Empty(t, store.objectNames)
}

func TestUploadFromURL_RejectsBadScheme(t *testing.T) {
	svc, store := newTestMediaService()

	for _, bad := range []string{"ftp://example.com/a.png", "file:///etc/passwd", "not a url"} {
		_, err := svc.UploadFromURL(bad, shared.FolderPostImages)
		require.Error(t, err, "url %q", bad)

		appErr, ok := shared.GetAppError(err)
		require.True(t, ok)
		assert.Equal(t, 400, appErr.StatusCode, "url %q", bad)
	}
	assert.Empty(t, store.objectNames)
}

// --- CV validation ---

func TestValidateCVFile(t *testing.T) {
	svc, _ := newTestMediaService()

	assert.NoError(t, svc.ValidateCVFile(pdfHeader(1024)))
	assert.NoError(t, svc.ValidateCVFile(pdfHeader(MaxCVFileSize)))
}

func TestValidateCVFile_Missing(t *testing.T) {
	svc, _ := newTestMediaService()

	err := svc.ValidateCVFile(nil)
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)
}

func TestValidateCVFile_WrongType(t *testing.T) {
	svc, _ := newTestMediaService()

	file := &multipart.FileHeader{
		Filename: "photo.png",
		Size:     1024,
		Header:   textproto.MIMEHeader{"Content-Type": []string{"image/png"}},
	}

	err := svc.ValidateCVFile(file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PDF")
}

func TestValidateCVFile_TooLarge(t *testing.T) {
	svc, _ := newTestMediaService()

	err := svc.ValidateCVFile(pdfHeader(MaxCVFileSize + 1))
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)
}
