package markdown

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-sitecore/pkg/interfaces"
)

const (
	EngineGoldmark   = "goldmark"
	EngineGomarkdown = "gomarkdown"
)

// NewParser returns the parser for the named engine. An empty name selects goldmark.
func NewParser(engine string, defaults interfaces.ParseOptions) (interfaces.MarkdownParser, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", EngineGoldmark:
		return NewGoldmarkParser(defaults), nil
	case EngineGomarkdown:
		return NewGomarkdownParser(defaults), nil
	default:
		return nil, fmt.Errorf("markdown: unsupported engine %q", engine)
	}
}

// SupportedEngine reports whether NewParser accepts the engine name.
func SupportedEngine(engine string) bool {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", EngineGoldmark, EngineGomarkdown:
		return true
	default:
		return false
	}
}
