package di

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-sitecore/internal/blocks"
	"github.com/goliatone/go-sitecore/internal/logging"
	"github.com/goliatone/go-sitecore/internal/logging/console"
	"github.com/goliatone/go-sitecore/internal/logging/gologger"
	"github.com/goliatone/go-sitecore/internal/markdown"
	"github.com/goliatone/go-sitecore/internal/runtimeconfig"
	"github.com/goliatone/go-sitecore/internal/shortcode"
	"github.com/goliatone/go-sitecore/internal/validation"
	"github.com/goliatone/go-sitecore/pkg/interfaces"
)

// Container wires the text pipeline. Construction order follows the data
// flow: logging, registry, engine, markdown, service, validator. Every tag is
// registered before the engine is built, so the registry is read only once
// NewContainer returns.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	markdown       interfaces.MarkdownParser
	sanitizer      interfaces.ShortcodeSanitizer
	metrics        interfaces.ShortcodeMetrics
	catalog        *blocks.Catalog
	definitions    []interfaces.TagDefinition

	registry     *shortcode.Registry
	engine       *shortcode.Engine
	shortcodeSvc *shortcode.Service
	validator    *validation.Validator
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider derived from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithMarkdownParser overrides the configured Markdown engine.
func WithMarkdownParser(parser interfaces.MarkdownParser) Option {
	return func(c *Container) {
		c.markdown = parser
	}
}

// WithSanitizer installs a sanitizer regardless of Shortcodes.SanitizeOutput.
func WithSanitizer(sanitizer interfaces.ShortcodeSanitizer) Option {
	return func(c *Container) {
		c.sanitizer = sanitizer
	}
}

// WithShortcodeMetrics forwards per-tag telemetry to metrics.
func WithShortcodeMetrics(metrics interfaces.ShortcodeMetrics) Option {
	return func(c *Container) {
		c.metrics = metrics
	}
}

// WithCatalog replaces the default block catalog used for stream validation.
func WithCatalog(catalog *blocks.Catalog) Option {
	return func(c *Container) {
		c.catalog = catalog
	}
}

// WithDefinitions registers additional tags after the built-ins.
func WithDefinitions(defs ...interfaces.TagDefinition) Option {
	return func(c *Container) {
		c.definitions = append(c.definitions, defs...)
	}
}

// NewContainer validates cfg and builds every collaborator.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureShortcodes(); err != nil {
		return nil, err
	}
	if err := c.configureMarkdown(); err != nil {
		return nil, err
	}
	c.configureService()
	c.configureValidation()

	logging.ModuleLogger(c.loggerProvider, "sitecore").Debug("container.configured",
		"tags", c.registry.Len(),
		"markdown", c.markdown != nil,
		"sanitize_output", c.sanitizer != nil,
		"default_format", c.Config.Shortcodes.DefaultFormat,
	)
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}

	cfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return fmt.Errorf("di: configure logger: %w", err)
		}
		c.loggerProvider = provider
	default:
		level, err := console.ParseLevel(cfg.Level)
		if err != nil {
			return fmt.Errorf("di: configure logger: %w", err)
		}
		c.loggerProvider = console.NewProvider(console.Options{MinLevel: &level})
	}
	return nil
}

func (c *Container) configureShortcodes() error {
	cfg := c.Config.Shortcodes
	delims := cfg.Delimiters()

	c.registry = shortcode.NewRegistry(shortcode.NewValidator(delims))
	if err := shortcode.RegisterBuiltIns(c.registry, cfg.BuiltIns); err != nil {
		return fmt.Errorf("di: register built-in tags: %w", err)
	}
	for _, def := range c.definitions {
		if err := c.registry.Register(def); err != nil {
			return fmt.Errorf("di: register tag %q: %w", def.Name, err)
		}
	}

	if c.sanitizer == nil && cfg.SanitizeOutput {
		c.sanitizer = shortcode.NewSanitizer()
	}

	engineOpts := []shortcode.EngineOption{
		shortcode.WithDelimiters(delims),
		shortcode.WithMaxDepth(cfg.MaxDepth),
	}
	if c.sanitizer != nil {
		engineOpts = append(engineOpts, shortcode.WithSanitizer(c.sanitizer))
	}
	if c.metrics != nil {
		engineOpts = append(engineOpts, shortcode.WithEngineMetrics(c.metrics))
	}

	engine, err := shortcode.NewEngine(c.registry, engineOpts...)
	if err != nil {
		return fmt.Errorf("di: build engine: %w", err)
	}
	c.engine = engine
	return nil
}

func (c *Container) configureMarkdown() error {
	if !c.Config.Features.Markdown {
		c.markdown = nil
		return nil
	}
	if c.markdown != nil {
		return nil
	}
	parser, err := markdown.NewParser(c.Config.Markdown.Engine, c.Config.Markdown.ParseOptions())
	if err != nil {
		return fmt.Errorf("di: build markdown parser: %w", err)
	}
	c.markdown = parser
	return nil
}

func (c *Container) configureService() {
	opts := []shortcode.ServiceOption{
		shortcode.WithLogger(logging.ShortcodeLogger(c.loggerProvider)),
		shortcode.WithMarkdownLogger(logging.MarkdownLogger(c.loggerProvider)),
		shortcode.WithDefaultFormat(interfaces.TextFormat(strings.TrimSpace(c.Config.Shortcodes.DefaultFormat))),
	}
	if c.markdown != nil {
		opts = append(opts, shortcode.WithMarkdown(c.markdown))
	}
	c.shortcodeSvc = shortcode.NewService(c.engine, opts...)
}

func (c *Container) configureValidation() {
	opts := []validation.Option{
		validation.WithLogger(logging.ValidationLogger(c.loggerProvider)),
	}
	if c.catalog != nil {
		opts = append(opts, validation.WithCatalog(c.catalog))
	}
	c.validator = validation.NewValidator(c.shortcodeSvc, opts...)
}

// LoggerProvider returns the provider in use, nil when logging is disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Registry returns the populated tag registry.
func (c *Container) Registry() *shortcode.Registry {
	return c.registry
}

// Engine returns the expansion engine.
func (c *Container) Engine() *shortcode.Engine {
	return c.engine
}

// MarkdownParser returns the pre-pass parser, nil when the feature is off.
func (c *Container) MarkdownParser() interfaces.MarkdownParser {
	return c.markdown
}

// ShortcodeService returns the render pipeline.
func (c *Container) ShortcodeService() *shortcode.Service {
	return c.shortcodeSvc
}

// Validator returns the save-time validation adapter.
func (c *Container) Validator() *validation.Validator {
	return c.validator
}
