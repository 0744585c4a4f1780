package shortcode

import "errors"

var (
	// ErrDuplicateTag indicates an attempt to register a tag name twice.
	ErrDuplicateTag = errors.New("shortcode: duplicate tag")
	// ErrInvalidDefinition occurs when a definition fails validation.
	ErrInvalidDefinition = errors.New("shortcode: invalid definition")
	// ErrEngineNotInitialised is returned by zero-value services.
	ErrEngineNotInitialised = errors.New("shortcode: engine not initialised")
	// ErrMarkdownUnavailable is returned when Markdown input arrives without a parser.
	ErrMarkdownUnavailable = errors.New("shortcode: markdown parser not configured")
)
