package shortcode

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-sitecore/pkg/interfaces"
)

// Sanitizer rejects inline script tags, enforces URL schemes and filters
// expanded markup through a bluemonday policy that keeps the built-in tags intact.
type Sanitizer struct {
	allowedSchemes map[string]struct{}
	policy         *bluemonday.Policy
}

// NewSanitizer returns a sanitizer allowing http/https and relative URLs.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{
		allowedSchemes: map[string]struct{}{
			"http":  {},
			"https": {},
			"":      {},
		},
		policy: outputPolicy(),
	}
}

func outputPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Globally()
	policy.AllowElements("kbd", "abbr", "figure", "figcaption", "iframe")
	policy.AllowAttrs("role").OnElements("div")
	policy.AllowAttrs("title").OnElements("abbr", "iframe")
	policy.AllowAttrs("loading").OnElements("img", "iframe")
	policy.AllowAttrs("src", "allowfullscreen").OnElements("iframe")
	return policy
}

// Sanitize rejects obvious script injections and strips markup outside the policy.
func (s *Sanitizer) Sanitize(html string) (string, error) {
	lower := strings.ToLower(html)
	if strings.Contains(lower, "<script") {
		return "", fmt.Errorf("shortcode: script tags are not allowed")
	}
	return s.policy.Sanitize(html), nil
}

// ValidateURL ensures the URL has an allowed scheme.
func (s *Sanitizer) ValidateURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}

	if _, ok := s.allowedSchemes[strings.ToLower(parsed.Scheme)]; !ok {
		return fmt.Errorf("shortcode: url scheme %q not permitted", parsed.Scheme)
	}
	return nil
}

// ValidateAttributes rejects inline event handlers like onload/onerror.
func (s *Sanitizer) ValidateAttributes(attrs map[string]string) error {
	for key := range attrs {
		if strings.HasPrefix(strings.ToLower(key), "on") {
			return fmt.Errorf("shortcode: attribute %q not permitted", key)
		}
	}
	return nil
}

var _ interfaces.ShortcodeSanitizer = (*Sanitizer)(nil)
