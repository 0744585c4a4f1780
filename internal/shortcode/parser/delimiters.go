package parser

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Delimiters holds the start, end and escape markers recognised by the scanner.
// Values are fixed for the lifetime of an engine.
type Delimiters struct {
	Start  string
	End    string
	Escape string
}

// DefaultDelimiters returns the bracket syntax used by default.
func DefaultDelimiters() Delimiters {
	return Delimiters{Start: "[", End: "]", Escape: `\`}
}

// Validate ensures every marker is present and the three markers differ.
func (d Delimiters) Validate() error {
	err := validation.ValidateStruct(&d,
		validation.Field(&d.Start, validation.Required),
		validation.Field(&d.End, validation.Required),
		validation.Field(&d.Escape, validation.Required),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDelimiters, err)
	}
	if d.Start == d.End || d.Start == d.Escape || d.End == d.Escape {
		return fmt.Errorf("%w: start, end and escape must be distinct", ErrInvalidDelimiters)
	}
	return nil
}

// Contains reports whether s includes any of the markers.
func (d Delimiters) Contains(s string) bool {
	return strings.Contains(s, d.Start) || strings.Contains(s, d.End) || strings.Contains(s, d.Escape)
}

// Quote returns s with every start and end marker prefixed by the escape
// marker, so the scanner reproduces s verbatim as literal text.
func (d Delimiters) Quote(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); {
		switch {
		case strings.HasPrefix(s[i:], d.Start):
			b.WriteString(d.Escape)
			b.WriteString(d.Start)
			i += len(d.Start)
		case strings.HasPrefix(s[i:], d.End):
			b.WriteString(d.Escape)
			b.WriteString(d.End)
			i += len(d.End)
		default:
			b.WriteByte(s[i])
			i++
		}
	}
	return b.String()
}
