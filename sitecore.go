package sitecore

import (
	"context"
	"html/template"

	"github.com/goliatone/go-sitecore/internal/blocks"
	"github.com/goliatone/go-sitecore/internal/di"
	"github.com/goliatone/go-sitecore/internal/shortcode"
	"github.com/goliatone/go-sitecore/internal/shortcode/parser"
	"github.com/goliatone/go-sitecore/pkg/interfaces"
)

// Error exports the typed shortcode error.
type Error = parser.Error

// ErrorKind exports the error classification.
type ErrorKind = parser.ErrorKind

// Result exports the typed pipeline result.
type Result = shortcode.Result

// Block and Stream export the composite content model.
type (
	Block   = blocks.Block
	Stream  = blocks.Stream
	Catalog = blocks.Catalog
)

// Option customises the module container.
type Option = di.Option

const (
	FormatPlain    = interfaces.FormatPlain
	FormatRichText = interfaces.FormatRichText
	FormatMarkdown = interfaces.FormatMarkdown
)

var (
	ErrShortcodeSyntax    = parser.ErrShortcodeSyntax
	ErrShortcodeRendering = parser.ErrShortcodeRendering
	ErrUnknownTag         = parser.ErrUnknownTag
	ErrUnterminatedTag    = parser.ErrUnterminatedTag
	ErrMalformedArgument  = parser.ErrMalformedArgument
	ErrUnexpectedClose    = parser.ErrUnexpectedClose
	ErrDuplicateTag       = shortcode.ErrDuplicateTag
	ErrInvalidDefinition  = shortcode.ErrInvalidDefinition
)

var (
	WithLoggerProvider = di.WithLoggerProvider
	WithMarkdownParser = di.WithMarkdownParser
	WithSanitizer      = di.WithSanitizer
	WithMetrics        = di.WithShortcodeMetrics
	WithCatalog        = di.WithCatalog
	WithDefinitions    = di.WithDefinitions
)

// AsError extracts the shortcode error from err.
func AsError(err error) (*Error, bool) {
	return parser.AsError(err)
}

// NewCatalog returns an empty block catalog.
func NewCatalog() *Catalog {
	return blocks.NewCatalog()
}

// DefaultCatalog returns the catalog of the standard page blocks.
func DefaultCatalog() *Catalog {
	return blocks.DefaultCatalog()
}

// Module represents the text pipeline façade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional overrides.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	if m == nil {
		return nil
	}
	return m.container
}

// Shortcodes returns the render pipeline.
func (m *Module) Shortcodes() interfaces.ShortcodeService {
	if m == nil || m.container == nil {
		return shortcode.NewNoOpService()
	}
	return m.container.ShortcodeService()
}

// Render expands text into HTML safe to embed in a page.
func (m *Module) Render(ctx context.Context, text string, opts interfaces.RenderOptions) (template.HTML, error) {
	result := m.Run(ctx, text, opts)
	return result.HTML, result.Err
}

// Run executes the pipeline and returns the typed result.
func (m *Module) Run(ctx context.Context, text string, opts interfaces.RenderOptions) Result {
	if m == nil || m.container == nil {
		return Result{Err: shortcode.ErrEngineNotInitialised}
	}
	return m.container.ShortcodeService().Run(ctx, text, opts)
}

// Validate reports shortcode failures in text as a validation error for field.
func (m *Module) Validate(ctx context.Context, field, text string, opts interfaces.RenderOptions) error {
	if m == nil || m.container == nil {
		return shortcode.ErrEngineNotInitialised
	}
	return m.container.Validator().ValidateText(ctx, field, text, opts)
}

// ValidateStream validates every text-bearing block of stream.
func (m *Module) ValidateStream(ctx context.Context, field string, stream Stream, opts interfaces.RenderOptions) error {
	if m == nil || m.container == nil {
		return shortcode.ErrEngineNotInitialised
	}
	return m.container.Validator().ValidateStream(ctx, field, stream, opts)
}

// ValidateDocument decodes a JSON or YAML stream document and validates it.
func (m *Module) ValidateDocument(ctx context.Context, field, path string, data []byte, opts interfaces.RenderOptions) error {
	if m == nil || m.container == nil {
		return shortcode.ErrEngineNotInitialised
	}
	return m.container.Validator().ValidateDocument(ctx, field, path, data, opts)
}

// Registry returns the tag registry.
func (m *Module) Registry() interfaces.ShortcodeRegistry {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Registry()
}

// Tags lists the registered tags sorted by name.
func (m *Module) Tags() []interfaces.TagDefinition {
	registry := m.Registry()
	if registry == nil {
		return nil
	}
	return registry.List()
}

// Markdown returns the pre-pass parser, nil when the feature is disabled.
func (m *Module) Markdown() interfaces.MarkdownParser {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.MarkdownParser()
}
