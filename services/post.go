package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/gosimple/slug"
	"github.com/vantech-digital/corsite_api/dto"
	"github.com/vantech-digital/corsite_api/model"
	"github.com/vantech-digital/corsite_api/services/repositories"
	"github.com/vantech-digital/corsite_api/shared"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type postStore interface {
	CreatePost(post *model.Post) (*model.Post, error)
	GetPost(id string) (*model.Post, error)
	GetPostBySlug(slug string) (*model.Post, error)
	SlugExists(slug, excludeID string) (bool, error)
	ListPosts(published *bool, category string) ([]model.Post, error)
	UpdatePost(post *model.Post) error
	DeletePost(id string) error
}

type postCache interface {
	GetJSON(ctx context.Context, key string, out interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// PostService manages the blog-style content entries shared by projects,
// news and recruitment postings. The published listing is cached briefly
// in Redis since it backs every public page render.
type PostService struct {
	appContext.DefaultService

	store postStore
	cache postCache
}

const (
	POST_SVC = "post_svc"

	postCacheTTL       = 5 * time.Minute
	postCacheKeyPrefix = "posts:published:"
)

func (svc PostService) Id() string {
	return POST_SVC
}

func (svc *PostService) Configure(ctx *appContext.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *PostService) Start() error {
	sqlSvc := svc.Service(SQL_SVC).(*SqlService)
	svc.store = repositories.NewPostRepository(sqlSvc.Db())
	svc.cache = svc.Service(REDIS_SVC).(*RedisService)
	return nil
}

// MakeSlug derives the canonical slug for a title: lowercase ASCII,
// diacritics stripped, non-alphanumerics collapsed to hyphens.
func MakeSlug(title string) string {
	return slug.Make(title)
}

func (svc *PostService) ListPosts(req dto.PostListRequest) ([]model.Post, error) {
	ctx := context.Background()

	cacheable := req.Published != nil && *req.Published
	cacheKey := postCacheKeyPrefix + categoryOrAll(req.Category)

	if cacheable {
		var cached []model.Post
		if err := svc.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	posts, err := svc.store.ListPosts(req.Published, req.Category)
	if err != nil {
		return nil, shared.NewPersistenceError(err, "Failed to list posts")
	}

	if cacheable {
		if err := svc.cache.SetJSON(ctx, cacheKey, posts, postCacheTTL); err != nil {
			log.WithError(err).Warn("Failed to cache post listing")
		}
	}

	return posts, nil
}

func (svc *PostService) GetPostBySlug(postSlug string) (*model.Post, error) {
	post, err := svc.store.GetPostBySlug(postSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(err, "Post not found")
		}
		return nil, shared.NewPersistenceError(err, "Failed to load post")
	}
	return post, nil
}

func (svc *PostService) GetPost(id string) (*model.Post, error) {
	post, err := svc.store.GetPost(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(err, "Post not found")
		}
		return nil, shared.NewPersistenceError(err, "Failed to load post")
	}
	return post, nil
}

func (svc *PostService) CreatePost(req *dto.CreatePostRequest) (*model.Post, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	postSlug := MakeSlug(req.Title)
	if postSlug == "" {
		return nil, shared.NewValidationError(nil, "Title does not produce a usable slug")
	}

	exists, err := svc.store.SlugExists(postSlug, "")
	if err != nil {
		return nil, shared.NewPersistenceError(err, "Failed to check slug uniqueness")
	}
	if exists {
		return nil, shared.NewConflictError(nil, "A post with this title already exists")
	}

	language := req.Language
	if language == "" {
		language = "vi"
	}

	post := &model.Post{
		Title:         req.Title,
		Slug:          postSlug,
		Excerpt:       req.Excerpt,
		Content:       req.Content,
		Category:      req.Category,
		CoverImageURL: req.CoverImageURL,
		Language:      language,
		Published:     req.Published,
	}

	created, err := svc.store.CreatePost(post)
	if err != nil {
		return nil, slugWriteError(err)
	}

	svc.invalidateCache()
	return created, nil
}

// slugWriteError maps a failed post write. The SlugExists check can lose
// a race against a concurrent insert; the unique index is the arbiter,
// and its violation is still the slug conflict, not a server fault.
func slugWriteError(err error) error {
	mapped := HandleError(err)
	if appErr, ok := shared.GetAppError(mapped); ok && appErr.StatusCode == http.StatusBadRequest {
		return shared.NewConflictError(err, "A post with this title already exists")
	}
	return mapped
}

func (svc *PostService) UpdatePost(id string, req *dto.UpdatePostRequest) (*model.Post, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	post, err := svc.GetPost(id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil && *req.Title != post.Title {
		newSlug := MakeSlug(*req.Title)
		if newSlug == "" {
			return nil, shared.NewValidationError(nil, "Title does not produce a usable slug")
		}

		exists, err := svc.store.SlugExists(newSlug, post.ID)
		if err != nil {
			return nil, shared.NewPersistenceError(err, "Failed to check slug uniqueness")
		}
		if exists {
			return nil, shared.NewConflictError(nil, "A post with this title already exists")
		}

		post.Title = *req.Title
		post.Slug = newSlug
	}

	if req.Excerpt != nil {
		post.Excerpt = *req.Excerpt
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Category != nil {
		post.Category = *req.Category
	}
	if req.CoverImageURL != nil {
		post.CoverImageURL = *req.CoverImageURL
	}
	if req.Language != nil {
		post.Language = *req.Language
	}
	if req.Published != nil {
		post.Published = *req.Published
	}

	if err := svc.store.UpdatePost(post); err != nil {
		return nil, slugWriteError(err)
	}

	svc.invalidateCache()
	return post, nil
}

func (svc *PostService) DeletePost(id string) error {
	if _, err := svc.GetPost(id); err != nil {
		return err
	}

	if err := svc.store.DeletePost(id); err != nil {
		return shared.NewPersistenceError(err, "Failed to delete post")
	}

	svc.invalidateCache()
	return nil
}

func (svc *PostService) invalidateCache() {
	keys := []string{
		postCacheKeyPrefix + "all",
		postCacheKeyPrefix + shared.PostCategoryProject,
		postCacheKeyPrefix + shared.PostCategoryNews,
		postCacheKeyPrefix + shared.PostCategoryRecruitment,
	}

	if err := svc.cache.Delete(context.Background(), keys...); err != nil {
		log.WithError(err).Warn("Failed to invalidate post cache")
	}
}

func categoryOrAll(category string) string {
	if category == "" {
		return "all"
	}
	return category
}
