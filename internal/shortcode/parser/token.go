package parser

// TokenKind distinguishes the variants produced by the scanner.
type TokenKind uint8

const (
	TokenText TokenKind = iota
	TokenOpen
	TokenClose
)

func (k TokenKind) String() string {
	switch k {
	case TokenText:
		return "text"
	case TokenOpen:
		return "open"
	case TokenClose:
		return "close"
	default:
		return "unknown"
	}
}

// Token is one element of the flat stream returned by Scanner.Scan.
//
// Text tokens carry the literal run with escape markers already removed.
// Open tokens carry the tag name and parsed arguments; SelfClosing is set when
// the header ends with a slash. Close tokens carry the name of the tag they
// close, already resolved through any registered closing alias.
type Token struct {
	Kind        TokenKind
	Text        string
	Name        string
	Args        Args
	SelfClosing bool
	Raw         string
	Offset      int
}
