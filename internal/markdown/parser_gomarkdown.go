package markdown

import (
	"github.com/gomarkdown/markdown"
	mdHtml "github.com/gomarkdown/markdown/html"
	mdParser "github.com/gomarkdown/markdown/parser"

	"github.com/goliatone/go-sitecore/pkg/interfaces"
)

// GomarkdownParser implements interfaces.MarkdownParser with gomarkdown. A
// fresh gomarkdown parser is built per call because it keeps state.
type GomarkdownParser struct {
	defaultOptions interfaces.ParseOptions
}

// NewGomarkdownParser constructs a gomarkdown backed parser.
func NewGomarkdownParser(defaults interfaces.ParseOptions) *GomarkdownParser {
	return &GomarkdownParser{defaultOptions: defaults}
}

// Parse renders Markdown using the default options.
func (p *GomarkdownParser) Parse(source []byte) ([]byte, error) {
	return p.ParseWithOptions(source, p.defaultOptions)
}

// ParseWithOptions renders Markdown using the provided options.
func (p *GomarkdownParser) ParseWithOptions(source []byte, opts interfaces.ParseOptions) ([]byte, error) {
	normalized := markdown.NormalizeNewlines(append([]byte(nil), source...))

	parser := mdParser.NewWithExtensions(gomarkdownExtensions(opts))

	// Smartypants is left off: curly quotes would break quoted shortcode arguments.
	flags := mdHtml.FootnoteReturnLinks
	if opts.SafeMode {
		flags |= mdHtml.SkipHTML
	}
	renderer := mdHtml.NewRenderer(mdHtml.RendererOptions{Flags: flags})

	out := markdown.ToHTML(normalized, parser, renderer)
	if opts.Sanitize && !opts.SafeMode {
		out = SanitizeHTML(out)
	}
	return out, nil
}

var gomarkdownExtensionRegistry = map[string]mdParser.Extensions{
	"gfm":           mdParser.Tables | mdParser.FencedCode | mdParser.Strikethrough | mdParser.Autolink,
	"table":         mdParser.Tables,
	"strikethrough": mdParser.Strikethrough,
	"linkify":       mdParser.Autolink,
	"definition":    mdParser.DefinitionLists,
	"footnote":      mdParser.Footnotes,
}

func gomarkdownExtensions(opts interfaces.ParseOptions) mdParser.Extensions {
	names := opts.Extensions
	if len(names) == 0 {
		names = DefaultExtensions()
	}
	exts := (mdParser.CommonExtensions | mdParser.AutoHeadingIDs | mdParser.FencedCode) &^ mdParser.Tables
	for _, name := range names {
		if ext, ok := gomarkdownExtensionRegistry[canonicalExtension(normalizeExtension(name))]; ok {
			exts |= ext
		}
	}
	if opts.HardWraps {
		exts |= mdParser.HardLineBreak
	}
	return exts
}

var _ interfaces.MarkdownParser = (*GomarkdownParser)(nil)
