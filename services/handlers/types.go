package handlers

import (
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/vantech-digital/corsite_api/dto"
	"github.com/vantech-digital/corsite_api/model"
)

type SubmissionServiceInterface interface {
	SubmitContact(req *dto.ContactRequest, clientIP string) (*dto.ContactResponse, error)
	SubmitCV(req *dto.CVRequest, file *multipart.FileHeader, clientIP string) (*dto.CVResponse, error)
	ListCVSubmissions(status string) ([]model.CVSubmission, error)
	UpdateCVStatus(id, status string) (*model.CVSubmission, error)
	ListContactSubmissions() ([]model.ContactSubmission, error)
}

type PostServiceInterface interface {
	ListPosts(req dto.PostListRequest) ([]model.Post, error)
	GetPostBySlug(slug string) (*model.Post, error)
	GetPost(id string) (*model.Post, error)
	CreatePost(req *dto.CreatePostRequest) (*model.Post, error)
	UpdatePost(id string, req *dto.UpdatePostRequest) (*model.Post, error)
	DeletePost(id string) error
}

type MediaServiceInterface interface {
	UploadMultipart(file *multipart.FileHeader, folder string) (*dto.UploadResult, error)
	UploadFromURL(imageURL, folder string) (*dto.UploadResult, error)
}

type AuthServiceInterface interface {
	Login(req *dto.LoginRequest) (*dto.LoginResponse, error)
	RequiredAuth() fiber.Handler
}
