package shortcode

import (
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-sitecore/internal/shortcode/parser"
	"github.com/goliatone/go-sitecore/pkg/interfaces"
)

func newBuiltInEngine(t *testing.T) *Engine {
	t.Helper()
	registry := NewRegistry(NewValidator(parser.DefaultDelimiters()))
	if err := RegisterBuiltIns(registry, nil); err != nil {
		t.Fatalf("RegisterBuiltIns() unexpected error: %v", err)
	}
	engine, err := NewEngine(registry)
	if err != nil {
		t.Fatalf("NewEngine() unexpected error: %v", err)
	}
	return engine
}

func TestBuiltInDefinitionsRegister(t *testing.T) {
	registry := NewRegistry(NewValidator(parser.DefaultDelimiters()))
	for _, def := range BuiltInDefinitions() {
		if err := registry.Register(def); err != nil {
			t.Fatalf("register built-in %s: %v", def.Name, err)
		}
	}
	for _, name := range []string{"code", "kbd", "abbr", "alert", "figure", "youtube"} {
		if _, ok := registry.Lookup(name); !ok {
			t.Fatalf("%s definition not registered", name)
		}
	}
	if name, ok := registry.ResolveClosing("endcode"); !ok || name != "code" {
		t.Fatalf("expected endcode to close code, got %q %v", name, ok)
	}
}

func TestBuiltInOutput(t *testing.T) {
	engine := newBuiltInEngine(t)

	cases := []struct {
		name   string
		format interfaces.TextFormat
		input  string
		want   string
	}{
		{"code escapes plain content", interfaces.FormatPlain, "[code]<b>x</b>[/code]", "<code>&lt;b&gt;x&lt;/b&gt;</code>"},
		{"code closes with alias", interfaces.FormatRichText, "[code]a &lt; b[endcode]", "<code>a &lt; b</code>"},
		{"kbd paired", interfaces.FormatPlain, "[kbd]Ctrl[/kbd]+[kbd]C[/kbd]", "<kbd>Ctrl</kbd>+<kbd>C</kbd>"},
		{"kbd self closing without key", interfaces.FormatPlain, "[kbd/]", "<kbd>No key specified</kbd>"},
		{"kbd positional key", interfaces.FormatPlain, `[kbd "<Esc>"/]`, "<kbd>&lt;Esc&gt;</kbd>"},
		{"abbr positional", interfaces.FormatPlain, `[abbr "United Nations" UN/]`, `<abbr title="United Nations">UN</abbr>`},
		{"abbr keyword", interfaces.FormatPlain, `[abbr title="United Nations"]UN[/abbr]`, `<abbr title="United Nations">UN</abbr>`},
		{"abbr without title", interfaces.FormatPlain, "[abbr]UN[/abbr]", "<abbr>UN</abbr>"},
		{"abbr title escaped", interfaces.FormatPlain, `[abbr title="a<b"]X[/abbr]`, `<abbr title="a&lt;b">X</abbr>`},
		{
			"alert with title",
			interfaces.FormatPlain,
			`[alert type=warning title="Heads up"]Careful[/alert]`,
			`<div class="shortcode shortcode--alert alert alert-warning" role="alert"><strong>Heads up</strong> Careful</div>`,
		},
		{
			"alert defaults to info",
			interfaces.FormatPlain,
			"[alert]Note[/alert]",
			`<div class="shortcode shortcode--alert alert alert-info" role="alert">Note</div>`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := engine.Expand(interfaces.ShortcodeContext{Format: tc.format}, tc.input)
			if err != nil {
				t.Fatalf("Expand() unexpected error: %v", err)
			}
			if string(got) != tc.want {
				t.Fatalf("Expand() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBuiltInMediaTags(t *testing.T) {
	engine := newBuiltInEngine(t)
	ctx := interfaces.ShortcodeContext{Format: interfaces.FormatPlain}

	figure, err := engine.Expand(ctx, `[figure src="/img/a.png" alt="Chart" caption="Q1 results"]`)
	if err != nil {
		t.Fatalf("Expand(figure) unexpected error: %v", err)
	}
	for _, fragment := range []string{`<img src="/img/a.png" alt="Chart" loading="lazy">`, "<figcaption>Q1 results</figcaption>"} {
		if !strings.Contains(string(figure), fragment) {
			t.Fatalf("expected %q in %s", fragment, figure)
		}
	}

	for input, want := range map[string]string{
		"[figure src=/img/]":                 `src="/img/"`,
		"[figure src=http://example.com/]":   `src="http://example.com/"`,
		"[figure http://example.com/a.png/]": `src="http://example.com/a.png/"`,
	} {
		out, err := engine.Expand(ctx, input)
		if err != nil {
			t.Fatalf("Expand(%q) unexpected error: %v", input, err)
		}
		if !strings.Contains(string(out), want) {
			t.Fatalf("Expand(%q) expected %s, got %s", input, want, out)
		}
	}

	video, err := engine.Expand(ctx, "[youtube dQw4w9WgXcQ]")
	if err != nil {
		t.Fatalf("Expand(youtube) unexpected error: %v", err)
	}
	if !strings.Contains(string(video), `src="https://www.youtube.com/embed/dQw4w9WgXcQ"`) {
		t.Fatalf("unexpected youtube output %s", video)
	}
}

func TestBuiltInRenderingErrors(t *testing.T) {
	engine := newBuiltInEngine(t)

	inputs := []string{
		"[abbr/]",
		"[alert type=loud]x[/alert]",
		"[figure]",
		`[figure src="javascript:alert(1)"]`,
		"[youtube]",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := engine.Expand(interfaces.ShortcodeContext{Format: interfaces.FormatPlain}, input)
			if !errors.Is(err, parser.ErrShortcodeRendering) {
				t.Fatalf("expected rendering error, got %v", err)
			}
		})
	}
}

func TestTemplateHandler(t *testing.T) {
	handler, err := TemplateHandler("note", `<aside data-locale="{{ .Locale }}">{{ .Arg 0 }}: {{ .Content }}</aside>`)
	if err != nil {
		t.Fatalf("TemplateHandler() unexpected error: %v", err)
	}
	out, err := handler(interfaces.ShortcodeContext{Locale: "en"}, "<em>body</em>", []string{"<Tip>"}, map[string]string{})
	if err != nil {
		t.Fatalf("handler() unexpected error: %v", err)
	}
	want := `<aside data-locale="en">&lt;Tip&gt;: <em>body</em></aside>`
	if string(out) != want {
		t.Fatalf("handler() = %q, want %q", out, want)
	}

	if _, err := TemplateHandler("broken", "{{ .Content "); !errors.Is(err, ErrInvalidDefinition) {
		t.Fatalf("expected ErrInvalidDefinition, got %v", err)
	}
}
