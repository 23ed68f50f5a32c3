package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/autosphere/autosphere-api/internal/events"
	"github.com/autosphere/autosphere-api/internal/models"
	"github.com/autosphere/autosphere-api/internal/repository"
	"github.com/autosphere/autosphere-api/internal/validation"
	"github.com/rs/zerolog"
)

const (
	defaultPage  = 1
	defaultLimit = 9
)

// articleService is the concrete implementation of ArticleService
type articleService struct {
	repo        repository.ArticleRepository
	broadcaster *events.ArticleBroadcaster
	log         zerolog.Logger
}

// newArticleService creates a new ArticleService
func newArticleService(repo repository.ArticleRepository, broadcaster *events.ArticleBroadcaster, log zerolog.Logger) *articleService {
	return &articleService{
		repo:        repo,
		broadcaster: broadcaster,
		log:         log.With().Str("service", "article").Logger(),
	}
}

// List returns one page of articles ordered by creation time descending.
// An unknown category is silently ignored rather than rejected.
func (s *articleService) List(ctx context.Context, page, limit int, category string) (*models.ArticlePage, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}

	filter := models.Category(category)
	if !models.ValidCategories[filter] {
		filter = ""
	}

	offset := (page - 1) * limit

	articles, err := s.repo.List(ctx, offset, limit, filter)
	if err != nil {
		return nil, models.NewStorageError(err)
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, models.NewStorageError(err)
	}
	if articles == nil {
		articles = []*models.Article{}
	}

	return &models.ArticlePage{
		Articles: articles,
		Pagination: models.Pagination{
			Page:    page,
			Limit:   limit,
			Total:   total,
			HasMore: total > offset+limit,
		},
	}, nil
}

// Create validates and publishes a new article
func (s *articleService) Create(ctx context.Context, req *models.CreateArticleRequest) (*models.CreatedArticle, error) {
	var missing []string
	for field, value := range map[string]string{
		"title":          req.Title,
		"content":        req.Content,
		"author":         req.Author,
		"category":       string(req.Category),
		"published_date": req.PublishedDate,
	} {
		if value == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, models.NewValidationError("Missing required fields: " + strings.Join(missing, ", "))
	}

	if !models.ValidCategories[req.Category] {
		return nil, models.NewValidationError("Invalid category")
	}

	imageURL := req.ImageURL
	if imageURL == "" {
		imageURL = models.DefaultImageForCategory(req.Category)
	} else if !validation.IsValidURL(imageURL) {
		return nil, models.NewValidationError("Invalid image_url format. Must be a valid URL.")
	}

	slug, err := s.uniqueSlug(ctx, req.Title)
	if err != nil {
		return nil, models.NewStorageError(err)
	}

	article := &models.Article{
		Title:         req.Title,
		Content:       validation.SanitizeHTML(req.Content),
		Summary:       validation.SanitizeHTML(req.Summary),
		Author:        req.Author,
		Category:      req.Category,
		ImageURL:      imageURL,
		Slug:          slug,
		PublishedDate: req.PublishedDate,
	}

	stored, err := s.repo.Create(ctx, article)
	if err != nil {
		s.log.Error().Err(err).Str("slug", slug).Msg("Article insert failed")
		return nil, models.NewStorageError(err)
	}

	s.log.Info().Int64("id", stored.ID).Str("slug", stored.Slug).Msg("Article published")
	s.broadcaster.Publish(stored)

	return &models.CreatedArticle{
		ID:            stored.ID,
		Title:         stored.Title,
		Category:      stored.Category,
		Slug:          stored.Slug,
		ImageURL:      stored.ImageURL,
		PublishedDate: stored.PublishedDate,
		CreatedAt:     stored.CreatedAt,
	}, nil
}

// uniqueSlug derives a slug from the title, suffixing a counter until it is
// free.
func (s *articleService) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := validation.Slugify(title)
	slug := base
	for i := 2; ; i++ {
		exists, err := s.repo.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}
