package models

import (
	"time"
)

// Article represents a published article
type Article struct {
	ID            int64     `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	Content       string    `json:"content" db:"content"`
	Summary       string    `json:"summary,omitempty" db:"summary"`
	Author        string    `json:"author" db:"author"`
	Category      Category  `json:"category" db:"category"`
	ImageURL      string    `json:"image_url" db:"image_url"`
	Slug          string    `json:"slug" db:"slug"`
	PublishedDate string    `json:"published_date" db:"published_date"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// ArticlePage is a single page of the article listing.
type ArticlePage struct {
	Articles   []*Article `json:"articles"`
	Pagination Pagination `json:"pagination"`
}

// Pagination describes the position of a page within the full listing.
type Pagination struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	HasMore bool `json:"hasMore"`
}

// CreateArticleRequest is the payload for publishing a new article.
type CreateArticleRequest struct {
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Summary       string   `json:"summary,omitempty"`
	Author        string   `json:"author"`
	Category      Category `json:"category"`
	ImageURL      string   `json:"image_url,omitempty"`
	PublishedDate string   `json:"published_date"`
}

// CreatedArticle is the subset of fields returned after a successful create.
type CreatedArticle struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Category      Category  `json:"category"`
	Slug          string    `json:"slug"`
	ImageURL      string    `json:"image_url"`
	PublishedDate string    `json:"published_date"`
	CreatedAt     time.Time `json:"created_at"`
}
