// Package settings persists process-wide UI state (theme, admin session)
// to a JSON file with an explicit load-at-startup / save-on-change
// lifecycle.
package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Theme selects the UI color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// AdminSession is the persisted admin login state. Token and user
// existence imply authenticated; there is no expiry check.
type AdminSession struct {
	Token    string `json:"token"`
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type state struct {
	Theme Theme         `json:"theme"`
	Admin *AdminSession `json:"admin,omitempty"`
}

// Settings is a process-wide settings store backed by a file. Every
// mutation is written through immediately.
type Settings struct {
	mu    sync.Mutex
	path  string
	state state
}

// Load reads settings from path, falling back to defaults when the file
// does not exist yet.
func Load(path string) (*Settings, error) {
	s := &Settings{
		path:  path,
		state: state{Theme: ThemeLight},
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &s.state); err != nil {
		return nil, err
	}
	if s.state.Theme != ThemeDark {
		s.state.Theme = ThemeLight
	}
	return s, nil
}

// Theme returns the current theme
func (s *Settings) Theme() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Theme
}

// SetTheme updates and persists the theme
func (s *Settings) SetTheme(theme Theme) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Theme = theme
	return s.save()
}

// AdminSession returns the persisted admin login, or nil
func (s *Settings) AdminSession() *AdminSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Admin == nil {
		return nil
	}
	session := *s.state.Admin
	return &session
}

// SetAdminSession persists a new admin login
func (s *Settings) SetAdminSession(session AdminSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Admin = &session
	return s.save()
}

// ClearAdminSession removes the persisted admin login
func (s *Settings) ClearAdminSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Admin = nil
	return s.save()
}

func (s *Settings) save() error {
	data, err := json.MarshalIndent(&s.state, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, data, 0o644)
}
