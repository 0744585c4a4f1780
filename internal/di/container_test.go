package di_test

import (
	"context"
	"errors"
	"html/template"
	"strings"
	"testing"

	"github.com/goliatone/go-sitecore/internal/blocks"
	"github.com/goliatone/go-sitecore/internal/di"
	"github.com/goliatone/go-sitecore/internal/markdown"
	"github.com/goliatone/go-sitecore/internal/runtimeconfig"
	"github.com/goliatone/go-sitecore/internal/shortcode"
	"github.com/goliatone/go-sitecore/pkg/interfaces"
)

func TestNewContainerDefaults(t *testing.T) {
	container, err := di.NewContainer(runtimeconfig.DefaultConfig())
	if err != nil {
		t.Fatalf("NewContainer() unexpected error: %v", err)
	}
	if got, want := container.Registry().Len(), len(shortcode.BuiltInDefinitions()); got != want {
		t.Fatalf("expected %d registered tags, got %d", want, got)
	}
	if _, ok := container.MarkdownParser().(*markdown.GoldmarkParser); !ok {
		t.Fatalf("expected goldmark parser, got %T", container.MarkdownParser())
	}
	if container.Engine() == nil || container.ShortcodeService() == nil || container.Validator() == nil {
		t.Fatal("expected every pipeline collaborator to be wired")
	}

	out, err := container.ShortcodeService().Process(context.Background(),
		"[Docs](https://example.com) press [kbd]Esc[/kbd]",
		interfaces.RenderOptions{Format: interfaces.FormatMarkdown},
	)
	if err != nil {
		t.Fatalf("Process() unexpected error: %v", err)
	}
	if !strings.Contains(string(out), "<kbd>Esc</kbd>") || !strings.Contains(string(out), `href="https://example.com"`) {
		t.Fatalf("unexpected output %s", out)
	}
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Shortcodes.Escape = cfg.Shortcodes.Start

	if _, err := di.NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrDelimitersInvalid) {
		t.Fatalf("expected ErrDelimitersInvalid, got %v", err)
	}
}

func TestNewContainerBuiltInSubset(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Shortcodes.BuiltIns = []string{"kbd", "abbr"}

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer() unexpected error: %v", err)
	}
	if got := container.Registry().Len(); got != 2 {
		t.Fatalf("expected 2 tags, got %d", got)
	}
	if _, ok := container.Registry().Lookup("code"); ok {
		t.Fatal("code should not be registered")
	}

	cfg.Shortcodes.BuiltIns = []string{"marquee"}
	if _, err := di.NewContainer(cfg); err == nil {
		t.Fatal("expected error for unknown built-in")
	}
}

func TestNewContainerCustomDefinitions(t *testing.T) {
	shout := interfaces.TagDefinition{
		Name:        "shout",
		ClosingName: "/shout",
		Handler: func(_ interfaces.ShortcodeContext, content string, _ []string, _ map[string]string) (template.HTML, error) {
			return template.HTML(strings.ToUpper(content)), nil
		},
	}

	container, err := di.NewContainer(runtimeconfig.DefaultConfig(), di.WithDefinitions(shout))
	if err != nil {
		t.Fatalf("NewContainer() unexpected error: %v", err)
	}
	out, err := container.ShortcodeService().Process(context.Background(), "[shout]hi [kbd]x[/kbd][/shout]", interfaces.RenderOptions{Format: interfaces.FormatPlain})
	if err != nil {
		t.Fatalf("Process() unexpected error: %v", err)
	}
	if string(out) != "HI <KBD>X</KBD>" {
		t.Fatalf("unexpected output %q", out)
	}

	duplicate := shout
	duplicate.Name = "kbd"
	if _, err := di.NewContainer(runtimeconfig.DefaultConfig(), di.WithDefinitions(duplicate)); !errors.Is(err, shortcode.ErrDuplicateTag) {
		t.Fatalf("expected ErrDuplicateTag, got %v", err)
	}
}

func TestNewContainerSanitizesOutput(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Shortcodes.SanitizeOutput = true

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer() unexpected error: %v", err)
	}
	if _, err := container.ShortcodeService().Process(context.Background(), "<script>x</script>", interfaces.RenderOptions{Format: interfaces.FormatRichText}); err == nil {
		t.Fatal("expected sanitizer to reject inline script")
	}
}

func TestNewContainerMarkdownDisabled(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Markdown = false

	container, err := di.NewContainer(cfg, di.WithMarkdownParser(markdown.NewGoldmarkParser(interfaces.ParseOptions{})))
	if err != nil {
		t.Fatalf("NewContainer() unexpected error: %v", err)
	}
	if container.MarkdownParser() != nil {
		t.Fatalf("expected markdown parser to be dropped, got %T", container.MarkdownParser())
	}
	_, err = container.ShortcodeService().Process(context.Background(), "# x", interfaces.RenderOptions{Format: interfaces.FormatMarkdown})
	if !errors.Is(err, shortcode.ErrMarkdownUnavailable) {
		t.Fatalf("expected ErrMarkdownUnavailable, got %v", err)
	}
}

func TestNewContainerGomarkdownEngine(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Markdown.Engine = markdown.EngineGomarkdown

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer() unexpected error: %v", err)
	}
	if _, ok := container.MarkdownParser().(*markdown.GomarkdownParser); !ok {
		t.Fatalf("expected gomarkdown parser, got %T", container.MarkdownParser())
	}
}

func TestNewContainerCustomDelimiters(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Shortcodes.Start = "[["
	cfg.Shortcodes.End = "]]"

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer() unexpected error: %v", err)
	}
	out, err := container.ShortcodeService().Process(context.Background(), "[x] [[kbd]]K[[/kbd]]", interfaces.RenderOptions{Format: interfaces.FormatPlain})
	if err != nil {
		t.Fatalf("Process() unexpected error: %v", err)
	}
	if string(out) != "[x] <kbd>K</kbd>" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestNewContainerCatalogOption(t *testing.T) {
	catalog := blocks.NewCatalog()
	if err := catalog.Define("note", blocks.Text(interfaces.FormatPlain)); err != nil {
		t.Fatalf("Define() unexpected error: %v", err)
	}

	container, err := di.NewContainer(runtimeconfig.DefaultConfig(), di.WithCatalog(catalog))
	if err != nil {
		t.Fatalf("NewContainer() unexpected error: %v", err)
	}
	if container.Validator().Catalog() != catalog {
		t.Fatal("expected validator to use the supplied catalog")
	}
}
