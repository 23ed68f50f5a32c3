package validation

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	slugStrip     = regexp.MustCompile(`[^a-z0-9]+`)
	slugTrim      = regexp.MustCompile(`^-+|-+$`)
	contentPolicy = bluemonday.UGCPolicy()
)

// IsValidEmail reports whether the address looks like an email.
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsValidURL reports whether the string parses as an absolute http(s) URL.
func IsValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Slugify converts a title into a URL-safe slug.
func Slugify(title string) string {
	slug := strings.ToLower(title)
	slug = slugStrip.ReplaceAllString(slug, "-")
	slug = slugTrim.ReplaceAllString(slug, "")
	if slug == "" {
		slug = "article"
	}
	return slug
}

// SanitizeHTML strips unsafe markup from user-supplied article content.
func SanitizeHTML(html string) string {
	return contentPolicy.Sanitize(html)
}
