package interfaces

import (
	"context"
	"html/template"
	"time"
)

// ShortcodeRegistry describes the contract for registering and resolving tag
// definitions. Registration happens during startup; after that the registry is
// only read, so implementations must tolerate concurrent lookups.
type ShortcodeRegistry interface {
	// Register stores a definition and returns an error when a tag with the
	// same name already exists or the definition fails validation.
	Register(definition TagDefinition) error

	// Lookup returns the definition registered under the exact (case-sensitive) name.
	Lookup(name string) (TagDefinition, bool)

	// ResolveClosing maps a closing header such as "/code" or an explicit
	// alias such as "endcode" to the name of the tag it closes.
	ResolveClosing(header string) (string, bool)

	// List exposes the catalogue sorted by name.
	List() []TagDefinition
}

// ShortcodeSanitizer encapsulates sanitisation helpers applied after expansion.
type ShortcodeSanitizer interface {
	Sanitize(html string) (string, error)
	ValidateURL(raw string) error
	ValidateAttributes(attrs map[string]string) error
}

// ShortcodeMetrics receives per-tag handler telemetry.
type ShortcodeMetrics interface {
	ObserveRenderDuration(tag string, duration time.Duration)
	IncrementRenderError(tag string)
}

// TagHandler produces the HTML substituted for a single tag invocation.
// content is the already expanded inner text of a paired tag and is empty for
// self-closing tags. The returned HTML is inserted verbatim.
type TagHandler func(ctx ShortcodeContext, content string, positional []string, keyword map[string]string) (template.HTML, error)

// TagDefinition captures a registered tag. A definition with an empty
// ClosingName is self-closing; any other value makes the tag paired and the
// value is accepted as a closing header in addition to "/"+Name.
type TagDefinition struct {
	Name        string
	ClosingName string
	Description string
	Category    string
	Handler     TagHandler
}

// Paired reports whether the tag encloses content.
func (d TagDefinition) Paired() bool {
	return d.ClosingName != ""
}

// ShortcodeContext provides runtime metadata surfaced to handlers.
type ShortcodeContext struct {
	Context context.Context
	Locale  string
	Format  TextFormat
	Values  map[string]any
}

// Value returns an opaque value attached by the caller.
func (c ShortcodeContext) Value(key string) (any, bool) {
	if c.Values == nil {
		return nil, false
	}
	v, ok := c.Values[key]
	return v, ok
}

// TextFormat identifies how a field is authored.
type TextFormat string

const (
	// FormatPlain expands shortcodes only.
	FormatPlain TextFormat = "plain"
	// FormatRichText expands shortcodes inside author supplied HTML.
	FormatRichText TextFormat = "rich_text"
	// FormatMarkdown renders Markdown first and then expands shortcodes.
	FormatMarkdown TextFormat = "markdown"
)

// Valid reports whether the format is one of the known constants.
func (f TextFormat) Valid() bool {
	switch f {
	case FormatPlain, FormatRichText, FormatMarkdown:
		return true
	default:
		return false
	}
}

// RenderOptions tunes a single pipeline invocation.
type RenderOptions struct {
	Format TextFormat
	Locale string
	Values map[string]any
}

// ShortcodeService exposes the full text pipeline (Markdown pre-pass and
// shortcode expansion) used by both render and validation paths.
type ShortcodeService interface {
	Process(ctx context.Context, text string, opts RenderOptions) (template.HTML, error)
}
