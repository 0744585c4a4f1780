package shortcode

import (
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/goliatone/go-sitecore/internal/logging"
	"github.com/goliatone/go-sitecore/pkg/interfaces"
)

// Service runs the full text pipeline: the Markdown pre-pass for Markdown
// fields followed by shortcode expansion. Render and validation paths share it.
type Service struct {
	engine        *Engine
	markdown      interfaces.MarkdownParser
	logger        interfaces.Logger
	mdLogger      interfaces.Logger
	defaultFormat interfaces.TextFormat
}

// ServiceOption customises service behaviour.
type ServiceOption func(*Service)

// WithLogger attaches a logger used for structured diagnostics.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMarkdownLogger attaches the logger used for Markdown pre-pass entries.
func WithMarkdownLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.mdLogger = logger
		}
	}
}

// WithMarkdown wires the parser used for the Markdown pre-pass.
func WithMarkdown(parser interfaces.MarkdownParser) ServiceOption {
	return func(s *Service) {
		if parser != nil {
			s.markdown = parser
		}
	}
}

// WithDefaultFormat sets the format used when callers leave it empty.
func WithDefaultFormat(format interfaces.TextFormat) ServiceOption {
	return func(s *Service) {
		if format.Valid() {
			s.defaultFormat = format
		}
	}
}

// NewService constructs a pipeline around the supplied engine.
func NewService(engine *Engine, opts ...ServiceOption) *Service {
	service := &Service{
		engine:        engine,
		logger:        logging.NoOp(),
		mdLogger:      logging.NoOp(),
		defaultFormat: interfaces.FormatRichText,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Process renders text and returns HTML safe to embed in a page.
func (s *Service) Process(ctx context.Context, text string, opts interfaces.RenderOptions) (template.HTML, error) {
	result := s.Run(ctx, text, opts)
	return result.HTML, result.Err
}

// Run executes the pipeline and returns the typed result.
func (s *Service) Run(ctx context.Context, text string, opts interfaces.RenderOptions) Result {
	if s == nil || s.engine == nil {
		return Result{Err: ErrEngineNotInitialised}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	format := opts.Format
	if format == "" {
		format = s.defaultFormat
	}
	if !format.Valid() {
		return Result{Err: fmt.Errorf("shortcode: unknown text format %q", format)}
	}

	logger := logging.WithFields(s.baseLogger(ctx), map[string]any{
		"operation": "shortcode.process",
		"format":    string(format),
	})

	start := time.Now()
	material := text
	if format == interfaces.FormatMarkdown {
		if s.markdown == nil {
			return Result{Err: ErrMarkdownUnavailable}
		}
		mdLogger := logging.WithFields(s.mdLogger.WithContext(ctx), map[string]any{
			"operation": "markdown.prepass",
			"bytes":     len(text),
		})
		rendered, err := s.markdown.Parse([]byte(text))
		if err != nil {
			logging.WithError(mdLogger, err).Error("markdown.prepass_failed")
			return Result{Err: fmt.Errorf("markdown pre-pass: %w", err)}
		}
		mdLogger.Trace("markdown.prepass_completed", "html_bytes", len(rendered))
		material = string(rendered)
	}

	result := s.engine.Run(interfaces.ShortcodeContext{
		Context: ctx,
		Locale:  opts.Locale,
		Format:  format,
		Values:  opts.Values,
	}, material)

	fields := map[string]any{
		"duration_ms": time.Since(start).Milliseconds(),
		"bytes":       len(text),
	}
	if result.Err != nil {
		logging.WithError(logging.WithFields(logger, fields), result.Err).Warn("shortcode.service.render_failed")
		return result
	}
	logging.WithFields(logger, fields).Debug("shortcode.service.render_succeeded")
	return result
}

// Engine exposes the underlying expansion engine.
func (s *Service) Engine() *Engine {
	return s.engine
}

// Registry exposes the registry the engine resolves tags against.
func (s *Service) Registry() interfaces.ShortcodeRegistry {
	if s.engine == nil {
		return nil
	}
	return s.engine.registry
}

var _ interfaces.ShortcodeService = (*Service)(nil)

type noOpService struct{}

// NewNoOpService returns a pipeline that leaves content untouched.
func NewNoOpService() interfaces.ShortcodeService {
	return noOpService{}
}

func (noOpService) Process(_ context.Context, text string, _ interfaces.RenderOptions) (template.HTML, error) {
	return template.HTML(text), nil
}

func (s *Service) baseLogger(ctx context.Context) interfaces.Logger {
	logger := s.logger
	if logger == nil {
		logger = logging.NoOp()
	}
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	return logger
}
