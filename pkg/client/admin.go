package client

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/autosphere/autosphere-api/internal/models"
	"github.com/autosphere/autosphere-api/pkg/settings"
)

// AdminClient drives the admin dashboard. Authentication survives restarts
// through the settings store: a persisted token plus user implies
// authenticated, with no expiry check. Each operation tracks its own
// loading flag and last error.
type AdminClient struct {
	client   *Client
	settings *settings.Settings

	mu    sync.Mutex
	ops   map[string]*opState
	login *settings.AdminSession
}

type opState struct {
	loading bool
	err     string
}

// NewAdminClient creates an AdminClient restoring any persisted session
func (c *Client) NewAdminClient(store *settings.Settings) *AdminClient {
	return &AdminClient{
		client:   c,
		settings: store,
		ops:      make(map[string]*opState),
		login:    store.AdminSession(),
	}
}

// IsAuthenticated reports whether a session is present
func (a *AdminClient) IsAuthenticated() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.login != nil && a.login.Token != "" && a.login.Username != ""
}

// Login authenticates and persists the session
func (a *AdminClient) Login(ctx context.Context, username, password string) error {
	a.begin("login")

	var resp struct {
		Admin models.AdminIdentity `json:"admin"`
		Token string               `json:"token"`
	}
	_, err := a.client.postJSON(ctx, "/v1/admin/login", "",
		models.LoginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		a.end("login", err)
		return err
	}

	session := settings.AdminSession{Token: resp.Token, ID: resp.Admin.ID, Username: resp.Admin.Username}
	if err := a.settings.SetAdminSession(session); err != nil {
		a.end("login", err)
		return err
	}

	a.mu.Lock()
	a.login = &session
	a.mu.Unlock()
	a.end("login", nil)
	return nil
}

// Logout clears the persisted session
func (a *AdminClient) Logout() error {
	a.mu.Lock()
	a.login = nil
	a.mu.Unlock()
	return a.settings.ClearAdminSession()
}

// DashboardStats fetches the dashboard aggregates
func (a *AdminClient) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	a.begin("stats")
	var stats models.DashboardStats
	_, err := a.client.getJSON(ctx, "/v1/admin/stats", a.token(), &stats)
	a.end("stats", err)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// Subscribers fetches one page of subscribers
func (a *AdminClient) Subscribers(ctx context.Context, page, limit int) ([]*models.Subscriber, error) {
	a.begin("subscribers")
	var resp struct {
		Subscribers []*models.Subscriber `json:"subscribers"`
	}
	path := "/v1/admin/subscribers?page=" + strconv.Itoa(page) + "&limit=" + strconv.Itoa(limit)
	_, err := a.client.getJSON(ctx, path, a.token(), &resp)
	a.end("subscribers", err)
	if err != nil {
		return nil, err
	}
	return resp.Subscribers, nil
}

// ExportCSV downloads the subscriber CSV
func (a *AdminClient) ExportCSV(ctx context.Context) (string, error) {
	a.begin("export")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.client.baseURL+"/v1/admin/export", nil)
	if err != nil {
		a.end("export", err)
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+a.token())

	resp, err := a.client.http.Do(req)
	if err != nil {
		a.end("export", err)
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	a.end("export", err)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// TrackView reports a page view. The caller never learns the outcome.
func (a *AdminClient) TrackView(articleID int64, userAgent string) {
	go func() {
		req := models.TrackViewRequest{ArticleID: articleID, UserAgent: userAgent}
		a.client.postJSON(context.Background(), "/v1/admin/track-view", "", req, nil)
	}()
}

// Loading reports whether the named operation is in flight
func (a *AdminClient) Loading(op string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if s, ok := a.ops[op]; ok {
		return s.loading
	}
	return false
}

// LastError returns the named operation's last error message
func (a *AdminClient) LastError(op string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if s, ok := a.ops[op]; ok {
		return s.err
	}
	return ""
}

func (a *AdminClient) token() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.login == nil {
		return ""
	}
	return a.login.Token
}

func (a *AdminClient) begin(op string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ops[op] = &opState{loading: true}
}

func (a *AdminClient) end(op string, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.ops[op]
	if !ok {
		s = &opState{}
		a.ops[op] = s
	}
	s.loading = false
	if err != nil {
		s.err = err.Error()
	} else {
		s.err = ""
	}
}
