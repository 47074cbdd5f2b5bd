package repositories

import (
	"time"

	"github.com/google/uuid"
	"github.com/vantech-digital/corsite_api/model"
	"gorm.io/gorm"
)

type PostRepository struct {
	BaseRepository
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (ds *PostRepository) CreatePost(post *model.Post) (*model.Post, error) {
	if post.ID == "" {
		id, _ := uuid.NewV7()
		post.ID = id.String()
	}
	post.CreatedAt = time.Now()
	post.UpdatedAt = time.Now()

	if err := ds.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

func (ds *PostRepository) GetPost(id string) (*model.Post, error) {
	var post model.Post
	if err := ds.db.Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (ds *PostRepository) GetPostBySlug(slug string) (*model.Post, error) {
	var post model.Post
	if err := ds.db.Where("slug = ?", slug).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// SlugExists reports whether a slug is already taken by another post.
// excludeID is skipped so updates don't collide with themselves.
func (ds *PostRepository) SlugExists(slug, excludeID string) (bool, error) {
	var count int64
	query := ds.db.Model(&model.Post{}).Where("slug = ?", slug)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (ds *PostRepository) ListPosts(published *bool, category string) ([]model.Post, error) {
	var posts []model.Post
	query := ds.db.Model(&model.Post{})

	if published != nil {
		query = query.Where("published = ?", *published)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (ds *PostRepository) UpdatePost(post *model.Post) error {
	post.UpdatedAt = time.Now()
	if err := ds.db.Save(post).Error; err != nil {
		return err
	}
	return nil
}

func (ds *PostRepository) DeletePost(id string) error {
	if err := ds.db.Where("id = ?", id).Delete(&model.Post{}).Error; err != nil {
		return err
	}
	return nil
}
