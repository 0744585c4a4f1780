package parser

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies shortcode failures for callers that surface them to authors.
type ErrorKind string

const (
	KindSyntax            ErrorKind = "SyntaxError"
	KindRendering         ErrorKind = "RenderingError"
	KindUnknownTag        ErrorKind = "UnknownTag"
	KindUnterminatedTag   ErrorKind = "UnterminatedTag"
	KindMalformedArgument ErrorKind = "MalformedArgument"
)

var (
	// ErrShortcodeSyntax matches every scanner, argument or structure failure.
	ErrShortcodeSyntax = errors.New("shortcode: syntax error")
	// ErrShortcodeRendering matches failures raised by tag handlers.
	ErrShortcodeRendering = errors.New("shortcode: rendering error")
	ErrUnknownTag         = errors.New("shortcode: unknown tag")
	ErrUnterminatedTag    = errors.New("shortcode: unterminated tag")
	ErrMalformedArgument  = errors.New("shortcode: malformed argument")
	ErrUnexpectedClose    = errors.New("shortcode: unexpected closing tag")
	ErrInvalidDelimiters  = errors.New("shortcode: invalid delimiters")
)

const maxFragment = 80

// Error is the typed failure produced while scanning or expanding text.
type Error struct {
	Kind     ErrorKind
	Tag      string
	Message  string
	Fragment string
	Offset   int
	Cause    error
}

// NewError builds an Error, trimming the fragment to a readable length.
func NewError(kind ErrorKind, tag string, fragment string, offset int, format string, args ...any) *Error {
	return &Error{
		Kind:     kind,
		Tag:      tag,
		Message:  fmt.Sprintf(format, args...),
		Fragment: clip(fragment),
		Offset:   offset,
	}
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString(string(e.Kind))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Offset >= 0 {
		fmt.Fprintf(&b, " at offset %d", e.Offset)
	}
	if e.Cause != nil && e.Kind == KindRendering {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// LogFields describes the error as structured log fields.
func (e *Error) LogFields() map[string]any {
	fields := map[string]any{
		"kind": string(e.Kind),
		"tag":  e.Tag,
	}
	if e.Offset >= 0 {
		fields["offset"] = e.Offset
	}
	return fields
}

// Unwrap exposes the kind sentinel, the umbrella sentinel and the cause so
// errors.Is works against any of them.
func (e *Error) Unwrap() []error {
	if e == nil {
		return nil
	}
	out := make([]error, 0, 3)
	switch e.Kind {
	case KindRendering:
		out = append(out, ErrShortcodeRendering)
	case KindUnknownTag:
		out = append(out, ErrUnknownTag, ErrShortcodeSyntax)
	case KindUnterminatedTag:
		out = append(out, ErrUnterminatedTag, ErrShortcodeSyntax)
	case KindMalformedArgument:
		out = append(out, ErrMalformedArgument, ErrShortcodeSyntax)
	default:
		out = append(out, ErrShortcodeSyntax)
	}
	if e.Cause != nil {
		out = append(out, e.Cause)
	}
	return out
}

// IsSyntax reports whether the error belongs to the syntax family.
func (e *Error) IsSyntax() bool {
	return e != nil && e.Kind != KindRendering
}

// WithCause returns a copy of the error carrying the supplied cause.
func (e *Error) WithCause(cause error) *Error {
	clone := *e
	clone.Cause = cause
	return &clone
}

// AsError extracts the shortcode Error from an error chain.
func AsError(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) && target != nil {
		return target, true
	}
	return nil, false
}

func clip(fragment string) string {
	if len(fragment) <= maxFragment {
		return fragment
	}
	return fragment[:maxFragment] + "..."
}
