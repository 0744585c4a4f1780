package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-sitecore/internal/markdown"
	"github.com/goliatone/go-sitecore/internal/shortcode/parser"
	"github.com/goliatone/go-sitecore/pkg/interfaces"
)

var (
	ErrDelimitersInvalid       = errors.New("sitecore config: shortcode delimiters are invalid")
	ErrMaxDepthInvalid         = errors.New("sitecore config: shortcode max depth must be zero or positive")
	ErrDefaultFormatInvalid    = errors.New("sitecore config: default text format is invalid")
	ErrMarkdownFeatureRequired = errors.New("sitecore config: markdown feature must be enabled to use the markdown format")
	ErrMarkdownEngineUnknown   = errors.New("sitecore config: markdown engine is invalid")
	ErrLoggingProviderRequired = errors.New("sitecore config: logging provider is required when logging feature is enabled")
	ErrLoggingProviderUnknown  = errors.New("sitecore config: logging provider is invalid")
	ErrLoggingLevelInvalid     = errors.New("sitecore config: logging level is invalid")
	ErrLoggingFormatInvalid    = errors.New("sitecore config: logging format is invalid")
)

// Config aggregates the deployment constants of the text pipeline. Delimiters
// are process wide: they are read once when the engine is built.
type Config struct {
	Shortcodes ShortcodeConfig `mapstructure:"shortcodes"`
	Markdown   MarkdownConfig  `mapstructure:"markdown"`
	Logging    LoggingConfig   `mapstructure:"logging"`
	Features   Features        `mapstructure:"features"`
}

// ShortcodeConfig captures the delimiter triple and engine limits.
type ShortcodeConfig struct {
	Start  string `mapstructure:"start"`
	End    string `mapstructure:"end"`
	Escape string `mapstructure:"escape"`
	// BuiltIns lists the built-in tags to register; empty registers all.
	BuiltIns       []string `mapstructure:"builtins"`
	MaxDepth       int      `mapstructure:"max_depth"`
	SanitizeOutput bool     `mapstructure:"sanitize_output"`
	DefaultFormat  string   `mapstructure:"default_format"`
}

// Delimiters returns the configured delimiter triple.
func (c ShortcodeConfig) Delimiters() parser.Delimiters {
	return parser.Delimiters{Start: c.Start, End: c.End, Escape: c.Escape}
}

// MarkdownConfig selects the pre-pass engine and its options.
type MarkdownConfig struct {
	Engine     string   `mapstructure:"engine"`
	Extensions []string `mapstructure:"extensions"`
	HardWraps  bool     `mapstructure:"hard_wraps"`
	SafeMode   bool     `mapstructure:"safe_mode"`
	Sanitize   bool     `mapstructure:"sanitize"`
}

// ParseOptions mirrors the config as parser defaults.
func (c MarkdownConfig) ParseOptions() interfaces.ParseOptions {
	return interfaces.ParseOptions{
		Extensions: append([]string(nil), c.Extensions...),
		Sanitize:   c.Sanitize,
		HardWraps:  c.HardWraps,
		SafeMode:   c.SafeMode,
	}
}

// Features toggles optional collaborators.
type Features struct {
	Markdown bool `mapstructure:"markdown"`
	Logger   bool `mapstructure:"logger"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `mapstructure:"provider"`
	Level     string   `mapstructure:"level"`
	Format    string   `mapstructure:"format"`
	AddSource bool     `mapstructure:"add_source"`
	Focus     []string `mapstructure:"focus"`
}

// DefaultConfig returns the defaults: square bracket delimiters, every
// built-in tag, goldmark with tables and footnotes, console logging off.
func DefaultConfig() Config {
	delims := parser.DefaultDelimiters()
	return Config{
		Shortcodes: ShortcodeConfig{
			Start:         delims.Start,
			End:           delims.End,
			Escape:        delims.Escape,
			MaxDepth:      64,
			DefaultFormat: string(interfaces.FormatRichText),
		},
		Markdown: MarkdownConfig{
			Engine:     markdown.EngineGoldmark,
			Extensions: markdown.DefaultExtensions(),
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		Features: Features{
			Markdown: true,
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if err := cfg.Shortcodes.Delimiters().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrDelimitersInvalid, err)
	}
	if cfg.Shortcodes.MaxDepth < 0 {
		return fmt.Errorf("%w: %d", ErrMaxDepthInvalid, cfg.Shortcodes.MaxDepth)
	}
	if format := strings.TrimSpace(cfg.Shortcodes.DefaultFormat); format != "" {
		if !interfaces.TextFormat(format).Valid() {
			return fmt.Errorf("%w: %s", ErrDefaultFormatInvalid, format)
		}
		if interfaces.TextFormat(format) == interfaces.FormatMarkdown && !cfg.Features.Markdown {
			return ErrMarkdownFeatureRequired
		}
	}
	if cfg.Features.Markdown {
		if engine := strings.TrimSpace(cfg.Markdown.Engine); engine != "" && !markdown.SupportedEngine(engine) {
			return fmt.Errorf("%w: %s", ErrMarkdownEngineUnknown, engine)
		}
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
