package markdown

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// SanitizeHTML filters rendered Markdown through a user-generated-content
// policy extended with the attributes tables and footnotes rely on.
func SanitizeHTML(html []byte) []byte {
	policyOnce.Do(func() {
		policy = bluemonday.UGCPolicy()
		policy.AllowAttrs("class").Globally()
		policy.AllowAttrs("role").OnElements("a", "div", "section", "sup")
		policy.AllowAttrs("align").OnElements("th", "td")
	})
	return policy.SanitizeBytes(html)
}
