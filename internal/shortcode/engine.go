package shortcode

import (
	"context"
	"fmt"
	"html/template"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/goliatone/go-sitecore/internal/shortcode/parser"
	"github.com/goliatone/go-sitecore/pkg/interfaces"
)

// DefaultMaxDepth bounds how deeply paired tags may nest.
const DefaultMaxDepth = 64

// Result is the outcome of a single expansion. Exactly one of HTML or Err is
// meaningful: HTML is only populated when Err is nil.
type Result struct {
	HTML template.HTML
	Err  error
}

// OK reports whether the expansion succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// ShortcodeError returns the typed shortcode error, if any.
func (r Result) ShortcodeError() (*parser.Error, bool) {
	if r.Err == nil {
		return nil, false
	}
	return parser.AsError(r.Err)
}

// Engine expands shortcodes against a registry. It holds no per-call state
// and is safe for concurrent use once the registry is populated.
type Engine struct {
	registry  interfaces.ShortcodeRegistry
	delims    parser.Delimiters
	sanitizer interfaces.ShortcodeSanitizer
	metrics   interfaces.ShortcodeMetrics
	maxDepth  int

	plain *parser.Scanner
	html  *parser.Scanner
}

// EngineOption customises engine behaviour.
type EngineOption func(*Engine)

// WithDelimiters overrides the default bracket delimiters.
func WithDelimiters(delims parser.Delimiters) EngineOption {
	return func(e *Engine) {
		e.delims = delims
	}
}

// WithSanitizer runs the expanded output through the sanitizer.
func WithSanitizer(sanitizer interfaces.ShortcodeSanitizer) EngineOption {
	return func(e *Engine) {
		e.sanitizer = sanitizer
	}
}

// WithEngineMetrics wires the recorder used for per-tag handler telemetry.
func WithEngineMetrics(metrics interfaces.ShortcodeMetrics) EngineOption {
	return func(e *Engine) {
		if metrics != nil {
			e.metrics = metrics
		}
	}
}

// WithMaxDepth limits paired tag nesting. Non-positive values keep the default.
func WithMaxDepth(depth int) EngineOption {
	return func(e *Engine) {
		if depth > 0 {
			e.maxDepth = depth
		}
	}
}

// NewEngine constructs an engine bound to the registry. The delimiters are
// validated here so later expansions cannot fail on configuration.
func NewEngine(registry interfaces.ShortcodeRegistry, opts ...EngineOption) (*Engine, error) {
	if registry == nil {
		return nil, fmt.Errorf("shortcode: registry is required")
	}
	engine := &Engine{
		registry: registry,
		delims:   parser.DefaultDelimiters(),
		metrics:  NoOpMetrics(),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(engine)
		}
	}
	if err := engine.delims.Validate(); err != nil {
		return nil, err
	}

	resolver := parser.WithCloseResolver(registry.ResolveClosing)
	paired := parser.WithPairedLookup(func(name string) bool {
		def, ok := registry.Lookup(name)
		return ok && def.Paired()
	})
	engine.plain = parser.NewScanner(engine.delims, resolver, paired)
	engine.html = parser.NewScanner(engine.delims, resolver, paired, parser.WithHeaderEntities(true))
	return engine, nil
}

// Delimiters returns the markers the engine recognises.
func (e *Engine) Delimiters() parser.Delimiters {
	return e.delims
}

// Expand is the (html, error) form of Run.
func (e *Engine) Expand(ctx interfaces.ShortcodeContext, text string) (template.HTML, error) {
	result := e.Run(ctx, text)
	return result.HTML, result.Err
}

// Run scans text and expands every tag left to right. Paired tag content is
// expanded before the enclosing handler runs.
func (e *Engine) Run(ctx interfaces.ShortcodeContext, text string) Result {
	if ctx.Context == nil {
		ctx.Context = context.Background()
	}

	scanner := e.plain
	if ctx.Format == interfaces.FormatMarkdown || ctx.Format == interfaces.FormatRichText {
		scanner = e.html
	}

	tokens, err := scanner.Scan(text)
	if err != nil {
		return Result{Err: err}
	}

	x := &expansion{engine: e, ctx: ctx, tokens: tokens}
	out, _, err := x.run(0, nil, 0)
	if err != nil {
		return Result{Err: err}
	}

	if e.sanitizer != nil {
		clean, err := e.sanitizer.Sanitize(out)
		if err != nil {
			perr := parser.NewError(parser.KindRendering, "", out, -1, "output rejected by sanitizer")
			return Result{Err: perr.WithCause(err)}
		}
		out = clean
	}
	return Result{HTML: template.HTML(out)}
}

type expansion struct {
	engine *Engine
	ctx    interfaces.ShortcodeContext
	tokens []parser.Token
}

// run consumes tokens from i until the close of open (or end of input when
// open is nil) and returns the expanded text and the next index.
func (x *expansion) run(i int, open *parser.Token, depth int) (string, int, error) {
	var b strings.Builder
	for i < len(x.tokens) {
		tok := x.tokens[i]
		switch tok.Kind {
		case parser.TokenText:
			b.WriteString(tok.Text)
			i++

		case parser.TokenClose:
			if open != nil && tok.Name == open.Name {
				return b.String(), i + 1, nil
			}
			perr := parser.NewError(parser.KindSyntax, tok.Name, tok.Raw, tok.Offset, "unexpected closing tag %s", tok.Raw)
			if open != nil {
				perr = parser.NewError(parser.KindSyntax, tok.Name, tok.Raw, tok.Offset,
					"closing tag %s crosses open tag %s", tok.Raw, open.Raw)
			}
			return "", i, perr.WithCause(parser.ErrUnexpectedClose)

		case parser.TokenOpen:
			def, ok := x.engine.registry.Lookup(tok.Name)
			if !ok {
				return "", i, parser.NewError(parser.KindUnknownTag, tok.Name, tok.Raw, tok.Offset,
					"tag %q is not registered", tok.Name)
			}
			i++

			content := ""
			if def.Paired() && !tok.SelfClosing {
				if depth+1 > x.engine.maxDepth {
					return "", i, parser.NewError(parser.KindSyntax, tok.Name, tok.Raw, tok.Offset,
						"tags nested deeper than %d", x.engine.maxDepth)
				}
				inner, next, err := x.run(i, &tok, depth+1)
				if err != nil {
					return "", next, err
				}
				content, i = inner, next
			}

			out, err := x.invoke(def, tok, content)
			if err != nil {
				return "", i, err
			}
			b.WriteString(out)
		}
	}

	if open != nil {
		return "", i, parser.NewError(parser.KindUnterminatedTag, open.Name, open.Raw, open.Offset,
			"tag %q is never closed", open.Name)
	}
	return b.String(), i, nil
}

func (x *expansion) invoke(def interfaces.TagDefinition, tok parser.Token, content string) (out string, err error) {
	if def.Handler == nil {
		return "", parser.NewError(parser.KindRendering, tok.Name, tok.Raw, tok.Offset, "tag %q has no handler", tok.Name)
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = parser.NewError(parser.KindRendering, tok.Name, tok.Raw, tok.Offset, "tag %q failed", tok.Name).
				WithCause(fmt.Errorf("handler panic: %v", r))
		}
		x.engine.metrics.ObserveRenderDuration(tok.Name, time.Since(start))
		if err != nil {
			x.engine.metrics.IncrementRenderError(tok.Name)
		}
	}()

	positional := slices.Clone(tok.Args.Positional)
	if positional == nil {
		positional = []string{}
	}
	keyword := maps.Clone(tok.Args.Keyword)
	if keyword == nil {
		keyword = map[string]string{}
	}

	if x.engine.sanitizer != nil {
		if aerr := x.engine.sanitizer.ValidateAttributes(keyword); aerr != nil {
			return "", parser.NewError(parser.KindRendering, tok.Name, tok.Raw, tok.Offset, "tag %q rejected", tok.Name).WithCause(aerr)
		}
	}

	html, herr := def.Handler(x.ctx, content, positional, keyword)
	if herr != nil {
		return "", parser.NewError(parser.KindRendering, tok.Name, tok.Raw, tok.Offset, "tag %q failed", tok.Name).WithCause(herr)
	}
	return string(html), nil
}
