package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/autosphere/autosphere-api/internal/database"
	"github.com/autosphere/autosphere-api/internal/models"
)

// articleRepo is the concrete implementation of ArticleRepository
type articleRepo struct {
	db *database.DB
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(db *database.DB) ArticleRepository {
	return &articleRepo{db: db}
}

// List retrieves one page of articles, newest first
func (r *articleRepo) List(ctx context.Context, offset, limit int, category models.Category) ([]*models.Article, error) {
	query := `
		SELECT id, title, content, summary, author, category, image_url, slug, published_date, created_at, updated_at
		FROM articles
	`
	args := []interface{}{}
	if category != "" {
		query += ` WHERE category = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		args = append(args, string(category), limit, offset)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []*models.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

// Count returns the number of articles, optionally filtered by category
func (r *articleRepo) Count(ctx context.Context, category models.Category) (int, error) {
	var count int
	var err error
	if category != "" {
		err = r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles WHERE category = $1", string(category)).Scan(&count)
	} else {
		err = r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles").Scan(&count)
	}
	return count, err
}

// Create inserts a new article and returns the stored row
func (r *articleRepo) Create(ctx context.Context, article *models.Article) (*models.Article, error) {
	query := `
		INSERT INTO articles (title, content, summary, author, category, image_url, slug, published_date)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	stored := *article
	err := r.db.QueryRowContext(ctx, query,
		article.Title, article.Content, article.Summary, article.Author,
		string(article.Category), article.ImageURL, article.Slug, article.PublishedDate,
	).Scan(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// SlugExists checks if an article with the given slug exists
func (r *articleRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM articles WHERE slug = $1)", slug).Scan(&exists)
	return exists, err
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanArticle(s scanner) (*models.Article, error) {
	var article models.Article
	var summary sql.NullString
	var publishedDate time.Time

	err := s.Scan(
		&article.ID, &article.Title, &article.Content, &summary, &article.Author,
		&article.Category, &article.ImageURL, &article.Slug, &publishedDate,
		&article.CreatedAt, &article.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if summary.Valid {
		article.Summary = summary.String
	}
	article.PublishedDate = publishedDate.Format("2006-01-02")

	return &article, nil
}
