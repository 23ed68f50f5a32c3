package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/autosphere/autosphere-api/internal/database"
	"github.com/autosphere/autosphere-api/internal/models"
)

// adminUserRepo is the concrete implementation of AdminUserRepository
type adminUserRepo struct {
	db *database.DB
}

// NewAdminUserRepo creates a new admin user repository
func NewAdminUserRepo(db *database.DB) AdminUserRepository {
	return &adminUserRepo{db: db}
}

// GetByUsername retrieves an admin user by username
func (r *adminUserRepo) GetByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	query := `SELECT id, username, password_hash FROM admin_users WHERE username = $1`

	var admin models.AdminUser
	err := r.db.QueryRowContext(ctx, query, username).Scan(&admin.ID, &admin.Username, &admin.PasswordHash)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// pageViewRepo is the concrete implementation of PageViewRepository
type pageViewRepo struct {
	db *database.DB
}

// NewPageViewRepo creates a new page view repository
func NewPageViewRepo(db *database.DB) PageViewRepository {
	return &pageViewRepo{db: db}
}

// Insert appends a page view row
func (r *pageViewRepo) Insert(ctx context.Context, view *models.PageView) error {
	query := `
		INSERT INTO page_views (article_id, user_agent, ip_address)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''))
	`
	_, err := r.db.ExecContext(ctx, query, view.ArticleID, view.UserAgent, view.IPAddress)
	return err
}

// CountSince counts page views recorded at or after the given instant
func (r *pageViewRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM page_views WHERE viewed_at >= $1", since,
	).Scan(&count)
	return count, err
}

// TopArticles ranks articles by view count within the window starting at
// since. Ties are broken by article id so the order is stable.
func (r *pageViewRepo) TopArticles(ctx context.Context, since time.Time, limit int) ([]*models.PopularArticle, error) {
	query := `
		SELECT pv.article_id, a.title, a.category, COUNT(*) AS views
		FROM page_views pv
		JOIN articles a ON a.id = pv.article_id
		WHERE pv.viewed_at >= $1
		GROUP BY pv.article_id, a.title, a.category
		ORDER BY views DESC, pv.article_id
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []*models.PopularArticle
	for rows.Next() {
		var pa models.PopularArticle
		if err := rows.Scan(&pa.ID, &pa.Title, &pa.Category, &pa.Views); err != nil {
			return nil, err
		}
		articles = append(articles, &pa)
	}
	return articles, rows.Err()
}
