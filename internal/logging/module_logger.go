package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-sitecore/pkg/interfaces"
)

const (
	rootModule       = "sitecore"
	shortcodeModule  = "sitecore.shortcode"
	markdownModule   = "sitecore.markdown"
	validationModule = "sitecore.validation"
	cliModule        = "sitecore.cli"
)

const (
	fieldDocumentFormat = "format"
	fieldDocumentAction = "action"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(map[string]any{
			"module": module,
		})
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// ShortcodeLogger returns the logger namespace reserved for the shortcode pipeline.
func ShortcodeLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, shortcodeModule)
}

// MarkdownLogger returns the logger namespace reserved for the markdown pre-pass.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// ValidationLogger returns the logger namespace reserved for save-time validation.
func ValidationLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, validationModule)
}

// CLILogger returns the logger namespace used by the sitecore command.
func CLILogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, cliModule)
}

// WithDocumentContext enriches the logger with the document path, its text
// format and the action being performed. Empty values are ignored.
func WithDocumentContext(logger interfaces.Logger, path, format, action string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[FieldDocumentPath] = trimmed
	}
	if trimmed := strings.TrimSpace(format); trimmed != "" {
		fields[fieldDocumentFormat] = trimmed
	}
	if trimmed := strings.TrimSpace(action); trimmed != "" {
		fields[fieldDocumentAction] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
