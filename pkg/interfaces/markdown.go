package interfaces

// MarkdownParser defines how raw Markdown bytes are converted into HTML.
type MarkdownParser interface {
	// Parse converts Markdown into HTML using the parser's default settings.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions converts Markdown into HTML using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises Markdown parsing behaviour, keeping option names
// readable for configuration unmarshalling and CLI flags.
type ParseOptions struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// FrontMatter models metadata extracted from Markdown documents.
type FrontMatter struct {
	Title   string         `yaml:"title" json:"title"`
	Slug    string         `yaml:"slug" json:"slug"`
	Summary string         `yaml:"summary" json:"summary"`
	Format  string         `yaml:"format" json:"format"`
	Locale  string         `yaml:"locale" json:"locale"`
	Tags    []string       `yaml:"tags" json:"tags"`
	Custom  map[string]any `yaml:",inline" json:"custom"`
}

// Document represents an authored text file with its metadata.
type Document struct {
	FilePath    string
	FrontMatter FrontMatter
	Body        []byte
}
