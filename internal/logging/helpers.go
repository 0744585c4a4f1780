package logging

import (
	"errors"
	"maps"

	"github.com/goliatone/go-sitecore/pkg/interfaces"
)

// WithFields attaches fields when logger implements interfaces.FieldsLogger
// and returns it unchanged otherwise. The map is copied.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	fieldsLogger, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		return logger
	}
	return fieldsLogger.WithFields(maps.Clone(fields))
}

// errorFields is implemented by pipeline errors that know their own log shape,
// such as shortcode errors carrying the failing tag and offset.
type errorFields interface {
	LogFields() map[string]any
}

// WithError attaches err under "error" together with the fields described by
// the first error in its chain that implements LogFields.
func WithError(logger interfaces.Logger, err error) interfaces.Logger {
	if err == nil {
		return logger
	}
	fields := map[string]any{}
	var described errorFields
	if errors.As(err, &described) {
		maps.Copy(fields, described.LogFields())
	}
	fields["error"] = err
	return WithFields(logger, fields)
}
