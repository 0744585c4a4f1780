package parser

import (
	"html"
	"strings"
	"unicode"
)

// CloseResolver maps a closing header (for example "/code" or "endcode") to
// the name of the tag it closes.
type CloseResolver func(header string) (string, bool)

// PairedLookup reports whether the named tag encloses content.
type PairedLookup func(name string) bool

// Scanner splits text into literal runs and tag tokens. It is stateless after
// construction and safe for concurrent use.
type Scanner struct {
	delims         Delimiters
	resolveClose   CloseResolver
	paired         PairedLookup
	unescapeHeader bool
}

// ScannerOption customises scanner behaviour.
type ScannerOption func(*Scanner)

// WithCloseResolver installs the lookup used to recognise closing aliases.
// Without one, only headers starting with "/" are treated as closing tags.
func WithCloseResolver(resolver CloseResolver) ScannerOption {
	return func(s *Scanner) {
		s.resolveClose = resolver
	}
}

// WithPairedLookup limits the trailing "/" self-close marker to paired tags
// when the header carries arguments, so `[figure src=/img/]` keeps its slash.
// Without one, a trailing "/" always closes the tag.
func WithPairedLookup(lookup PairedLookup) ScannerOption {
	return func(s *Scanner) {
		s.paired = lookup
	}
}

// WithHeaderEntities decodes HTML entities inside tag headers before the
// arguments are parsed. Literal text is never decoded.
func WithHeaderEntities(enabled bool) ScannerOption {
	return func(s *Scanner) {
		s.unescapeHeader = enabled
	}
}

// NewScanner constructs a scanner for the supplied delimiters. Callers are
// expected to have validated the delimiters.
func NewScanner(delims Delimiters, opts ...ScannerOption) *Scanner {
	s := &Scanner{delims: delims}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Delimiters returns the markers the scanner was built with.
func (s *Scanner) Delimiters() Delimiters {
	return s.delims
}

// Scan returns the flat token stream for text. Escape+start and escape+end
// become literal markers in text tokens; every other byte is preserved.
func (s *Scanner) Scan(text string) ([]Token, error) {
	var (
		tokens  []Token
		literal strings.Builder
		litFrom = 0
	)
	start, end, esc := s.delims.Start, s.delims.End, s.delims.Escape

	flush := func() {
		if literal.Len() == 0 {
			return
		}
		tokens = append(tokens, Token{Kind: TokenText, Text: literal.String(), Offset: litFrom})
		literal.Reset()
	}

	for i := 0; i < len(text); {
		if strings.HasPrefix(text[i:], esc) {
			rest := text[i+len(esc):]
			switch {
			case strings.HasPrefix(rest, start):
				if literal.Len() == 0 {
					litFrom = i
				}
				literal.WriteString(start)
				i += len(esc) + len(start)
				continue
			case strings.HasPrefix(rest, end):
				if literal.Len() == 0 {
					litFrom = i
				}
				literal.WriteString(end)
				i += len(esc) + len(end)
				continue
			}
		}

		if strings.HasPrefix(text[i:], start) {
			header, consumed, ok := s.readHeader(text[i+len(start):])
			if !ok {
				return nil, NewError(KindUnterminatedTag, "", text[i:], i,
					"%q has no closing %q", start, end)
			}
			raw := text[i : i+len(start)+consumed]
			token, err := s.classify(header, raw, i)
			if err != nil {
				return nil, err
			}
			flush()
			tokens = append(tokens, token)
			i += len(raw)
			continue
		}

		if literal.Len() == 0 {
			litFrom = i
		}
		literal.WriteByte(text[i])
		i++
	}
	flush()
	return tokens, nil
}

// readHeader returns the header text up to the first unescaped end marker and
// the number of bytes consumed including that marker.
func (s *Scanner) readHeader(rest string) (string, int, bool) {
	start, end, esc := s.delims.Start, s.delims.End, s.delims.Escape
	var header strings.Builder
	for i := 0; i < len(rest); {
		if strings.HasPrefix(rest[i:], esc) {
			after := rest[i+len(esc):]
			if strings.HasPrefix(after, end) {
				header.WriteString(end)
				i += len(esc) + len(end)
				continue
			}
			if strings.HasPrefix(after, start) {
				header.WriteString(start)
				i += len(esc) + len(start)
				continue
			}
		}
		if strings.HasPrefix(rest[i:], end) {
			return header.String(), i + len(end), true
		}
		header.WriteByte(rest[i])
		i++
	}
	return "", 0, false
}

func (s *Scanner) classify(header, raw string, offset int) (Token, error) {
	if s.unescapeHeader {
		header = html.UnescapeString(header)
	}
	trimmed := strings.TrimSpace(header)
	if trimmed == "" {
		return Token{}, NewError(KindSyntax, "", raw, offset, "empty tag")
	}

	if strings.HasPrefix(trimmed, "/") {
		name := strings.TrimSpace(trimmed[1:])
		if name == "" || strings.IndexFunc(name, unicode.IsSpace) >= 0 {
			return Token{}, NewError(KindSyntax, name, raw, offset, "malformed closing tag %q", raw)
		}
		if s.resolveClose != nil {
			if target, ok := s.resolveClose("/" + name); ok {
				name = target
			}
		}
		return Token{Kind: TokenClose, Name: name, Raw: raw, Offset: offset}, nil
	}

	if s.resolveClose != nil && strings.IndexFunc(trimmed, unicode.IsSpace) < 0 {
		if target, ok := s.resolveClose(trimmed); ok {
			return Token{Kind: TokenClose, Name: target, Raw: raw, Offset: offset}, nil
		}
	}

	selfClosing := false
	if strings.HasSuffix(trimmed, "/") {
		body := strings.TrimSpace(strings.TrimSuffix(trimmed, "/"))
		if body == "" {
			return Token{}, NewError(KindSyntax, "", raw, offset, "empty tag")
		}
		if s.selfCloseMarker(body) {
			selfClosing = true
			trimmed = body
		}
	}

	name, rest := splitName(trimmed)
	argText := rest
	if idx := strings.IndexByte(name, '='); idx > 0 {
		// [name=value] shorthand: the whole header is parsed so the value may be quoted.
		name = name[:idx]
		argText = trimmed
	}
	if err := s.validateName(name); err != nil {
		return Token{}, NewError(KindSyntax, name, raw, offset, "%s", err.Error())
	}

	args, err := parseArgs(argText, s.delims.Escape)
	if err != nil {
		if perr, ok := AsError(err); ok {
			return Token{}, NewError(KindMalformedArgument, name, raw, offset,
				"tag %q: %s", name, perr.Message)
		}
		return Token{}, err
	}

	return Token{
		Kind:        TokenOpen,
		Name:        name,
		Args:        args,
		SelfClosing: selfClosing,
		Raw:         raw,
		Offset:      offset,
	}, nil
}

// selfCloseMarker decides whether the "/" trailing body is a marker or the
// last byte of an unquoted argument.
func (s *Scanner) selfCloseMarker(body string) bool {
	name, rest := splitName(body)
	if idx := strings.IndexByte(name, '='); idx > 0 {
		name, rest = name[:idx], body
	}
	if rest == "" || s.paired == nil {
		return true
	}
	return s.paired(name)
}

func (s *Scanner) validateName(name string) error {
	switch {
	case name == "":
		return errInvalidName("empty tag name")
	case strings.ContainsAny(name, `"'`):
		return errInvalidName("tag name " + name + " contains a quote")
	case s.delims.Contains(name):
		return errInvalidName("tag name " + name + " contains a delimiter")
	}
	return nil
}

type errInvalidName string

func (e errInvalidName) Error() string { return string(e) }

func splitName(header string) (string, string) {
	idx := strings.IndexFunc(header, unicode.IsSpace)
	if idx < 0 {
		return header, ""
	}
	return header[:idx], strings.TrimLeftFunc(header[idx:], unicode.IsSpace)
}
