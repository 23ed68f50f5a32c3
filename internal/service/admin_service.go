package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/autosphere/autosphere-api/internal/config"
	"github.com/autosphere/autosphere-api/internal/models"
	"github.com/autosphere/autosphere-api/internal/repository"
	"github.com/dgrijalva/jwt-go"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultSubscriberLimit = 10
	popularArticleLimit    = 5
	popularArticleWindow   = 7 * 24 * time.Hour
)

// adminClaims are the JWT claims carried by admin bearer tokens.
type adminClaims struct {
	jwt.StandardClaims
	AdminID  int64  `json:"admin_id"`
	Username string `json:"username"`
}

// adminService is the concrete implementation of AdminService
type adminService struct {
	repos *repository.Repositories
	auth  *config.AuthConfig
	log   zerolog.Logger
}

// newAdminService creates a new AdminService
func newAdminService(repos *repository.Repositories, auth *config.AuthConfig, log zerolog.Logger) *adminService {
	return &adminService{
		repos: repos,
		auth:  auth,
		log:   log.With().Str("service", "admin").Logger(),
	}
}

// Login verifies credentials against the stored bcrypt hash and issues a
// bearer token. Unknown user and wrong password are indistinguishable to
// the caller.
func (s *adminService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResult, error) {
	if req.Username == "" || req.Password == "" {
		return nil, models.NewValidationError("Username and password are required")
	}

	admin, err := s.repos.AdminUser.GetByUsername(ctx, req.Username)
	if err != nil {
		s.log.Error().Err(err).Msg("Admin lookup failed")
		return nil, models.NewStorageError(err)
	}
	if admin == nil {
		return nil, models.NewAuthError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		s.log.Warn().Str("username", req.Username).Msg("Rejected admin login")
		return nil, models.NewAuthError()
	}

	token, err := s.issueToken(admin)
	if err != nil {
		s.log.Error().Err(err).Msg("Token signing failed")
		return nil, models.NewStorageError(err)
	}

	s.log.Info().Str("username", admin.Username).Msg("Admin logged in")
	return &models.LoginResult{
		Admin: models.AdminIdentity{ID: admin.ID, Username: admin.Username},
		Token: token,
	}, nil
}

func (s *adminService) issueToken(admin *models.AdminUser) (string, error) {
	now := time.Now()
	claims := adminClaims{
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.auth.TokenTTL).Unix(),
		},
		AdminID:  admin.ID,
		Username: admin.Username,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.auth.JWTSecret))
}

// ValidateToken checks the bearer token signature
func (s *adminService) ValidateToken(tokenStr string) error {
	token, err := jwt.ParseWithClaims(tokenStr, &adminClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.auth.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return models.NewAuthError()
	}
	return nil
}

// DashboardStats aggregates the admin dashboard numbers
func (s *adminService) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	subStats, err := s.repos.Subscription.Stats(ctx)
	if err != nil {
		return nil, models.NewStorageError(err)
	}

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	viewsToday, err := s.repos.PageView.CountSince(ctx, midnight)
	if err != nil {
		return nil, models.NewStorageError(err)
	}

	popular, err := s.repos.PageView.TopArticles(ctx, now.Add(-popularArticleWindow), popularArticleLimit)
	if err != nil {
		return nil, models.NewStorageError(err)
	}
	if popular == nil {
		popular = []*models.PopularArticle{}
	}

	return &models.DashboardStats{
		TotalSubscribers:  subStats.Total,
		ActiveSubscribers: subStats.Active,
		PageViewsToday:    viewsToday,
		PopularArticles:   popular,
	}, nil
}

// ListSubscribers returns one page of subscribers, newest first
func (s *adminService) ListSubscribers(ctx context.Context, page, limit int) ([]*models.Subscriber, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultSubscriberLimit
	}

	subscribers, err := s.repos.Subscription.ListSubscribers(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, models.NewStorageError(err)
	}
	if subscribers == nil {
		subscribers = []*models.Subscriber{}
	}
	return subscribers, nil
}

// ExportSubscribersCSV streams all subscribers as CSV. Every value is
// quoted; preferences are serialized as inline JSON.
func (s *adminService) ExportSubscribersCSV(ctx context.Context, w io.Writer) error {
	if _, err := io.WriteString(w, "Email,Subscribed Date,Status,Source,Preferences\n"); err != nil {
		return models.NewStorageError(err)
	}

	count := 0
	err := s.repos.Subscription.StreamAll(ctx, func(row *models.SubscriberExportRow) error {
		status := "Inactive"
		if row.IsActive {
			status = "Active"
		}
		prefs, err := json.Marshal(row.Preferences)
		if err != nil {
			return err
		}

		fields := []string{
			row.Email,
			row.CreatedAt.Format("1/2/2006"),
			status,
			row.Source,
			string(prefs),
		}
		for i, f := range fields {
			fields[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
		}

		if _, err := io.WriteString(w, strings.Join(fields, ",")+"\n"); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return models.NewStorageError(err)
	}

	s.log.Info().Int("count", count).Msg("Subscribers export completed")
	return nil
}
