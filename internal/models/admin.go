package models

import (
	"time"
)

// AdminUser represents a dashboard login.
type AdminUser struct {
	ID           int64  `json:"id" db:"id"`
	Username     string `json:"username" db:"username"`
	PasswordHash string `json:"-" db:"password_hash"`
}

// LoginRequest is the payload for an admin login attempt.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Admin AdminIdentity `json:"admin"`
	Token string        `json:"token"`
}

// AdminIdentity is the public subset of an AdminUser.
type AdminIdentity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// DashboardStats aggregates the numbers shown on the admin dashboard.
type DashboardStats struct {
	TotalSubscribers  int               `json:"totalSubscribers"`
	ActiveSubscribers int               `json:"activeSubscribers"`
	PageViewsToday    int               `json:"pageViewsToday"`
	PopularArticles   []*PopularArticle `json:"popularArticles"`
}

// PopularArticle is an article ranked by page views in the trailing week.
type PopularArticle struct {
	ID       int64    `json:"id"`
	Title    string   `json:"title"`
	Category Category `json:"category"`
	Views    int      `json:"views"`
}

// PageView is a single append-only view record. ArticleID is a weak
// reference; rows are only ever aggregated.
type PageView struct {
	ID        int64     `json:"id" db:"id"`
	ArticleID int64     `json:"article_id" db:"article_id"`
	UserAgent string    `json:"user_agent,omitempty" db:"user_agent"`
	IPAddress string    `json:"ip_address,omitempty" db:"ip_address"`
	ViewedAt  time.Time `json:"viewed_at" db:"viewed_at"`
}

// TrackViewRequest is the payload for recording a page view.
type TrackViewRequest struct {
	ArticleID int64  `json:"article_id"`
	UserAgent string `json:"user_agent,omitempty"`
	IPAddress string `json:"ip_address,omitempty"`
}
