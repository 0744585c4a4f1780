package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Args holds the arguments parsed from a tag header.
type Args struct {
	Positional []string
	Keyword    map[string]string
	// Keys lists keyword names in first-seen order.
	Keys []string
}

// Len returns the total number of arguments.
func (a Args) Len() int {
	return len(a.Positional) + len(a.Keys)
}

func (a *Args) setKeyword(key, value string) {
	if a.Keyword == nil {
		a.Keyword = map[string]string{}
	}
	if _, exists := a.Keyword[key]; !exists {
		a.Keys = append(a.Keys, key)
	}
	a.Keyword[key] = value
}

// ParseArgs splits header text into positional and keyword arguments using a
// backslash as the quote escape.
func ParseArgs(text string) (Args, error) {
	return parseArgs(text, `\`)
}

// parseArgs splits on whitespace outside quotes. A token containing an
// unquoted '=' after a non-empty, unquoted key becomes a keyword argument.
// Single and double quotes group text and are stripped. An escape followed by
// a quote yields the quote itself.
func parseArgs(text string, escape string) (Args, error) {
	var (
		args       Args
		buf        strings.Builder
		key        string
		hasKey     bool
		inToken    bool
		quote      rune
		quoteStart int
		leading    bool
	)

	flush := func() {
		if !inToken {
			return
		}
		if hasKey {
			args.setKeyword(key, buf.String())
		} else {
			args.Positional = append(args.Positional, buf.String())
		}
		buf.Reset()
		key, hasKey, inToken, leading = "", false, false, false
	}

	for i := 0; i < len(text); {
		if escape != "" && strings.HasPrefix(text[i:], escape) {
			next := i + len(escape)
			if r, size := utf8.DecodeRuneInString(text[next:]); size > 0 && isQuote(r) && (quote == 0 || r == quote) {
				buf.WriteRune(r)
				inToken = true
				i = next + size
				continue
			}
		}

		r, size := utf8.DecodeRuneInString(text[i:])
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				buf.WriteRune(r)
			}
		case isQuote(r):
			if !inToken {
				leading = true
			}
			quote = r
			quoteStart = i
			inToken = true
		case unicode.IsSpace(r):
			flush()
		case r == '=' && !hasKey && buf.Len() > 0 && !leading:
			key = buf.String()
			hasKey = true
			buf.Reset()
		default:
			buf.WriteRune(r)
			inToken = true
		}
		i += size
	}

	if quote != 0 {
		return Args{}, NewError(KindMalformedArgument, "", text[quoteStart:], quoteStart,
			"unclosed %c quote", quote)
	}
	flush()
	return args, nil
}

func isQuote(r rune) bool {
	return r == '"' || r == '\''
}
