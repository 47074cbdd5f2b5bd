package model

import "time"

// Post is a blog-style content entry. The same table backs projects,
// news articles and recruitment postings, told apart by Category.
type Post struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	Title         string    `json:"title" gorm:"not null"`
	Slug          string    `json:"slug" gorm:"uniqueIndex;not null;size:255"`
	Excerpt       string    `json:"excerpt" gorm:"type:text"`
	Content       string    `json:"content" gorm:"type:text"`
	Category      string    `json:"category" gorm:"index;size:50"` // project, news, recruitment
	CoverImageURL string    `json:"cover_image_url"`
	Language      string    `json:"language" gorm:"size:10;default:vi"`
	Published     bool      `json:"published" gorm:"index;default:false"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
