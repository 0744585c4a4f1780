package sitecore_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-sitecore"
	"github.com/goliatone/go-sitecore/pkg/interfaces"
)

func newModule(t *testing.T, opts ...sitecore.Option) *sitecore.Module {
	t.Helper()
	module, err := sitecore.New(sitecore.DefaultConfig(), opts...)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	return module
}

func TestModuleRenderMarkdownThenShortcodes(t *testing.T) {
	module := newModule(t)

	html, err := module.Render(context.Background(),
		"[Click here](http://example.com) and [kbd]Ctrl[/kbd]",
		interfaces.RenderOptions{Format: sitecore.FormatMarkdown},
	)
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	out := string(html)
	if strings.Count(out, "<a ") != 1 || !strings.Contains(out, "<kbd>Ctrl</kbd>") {
		t.Fatalf("unexpected output %s", out)
	}
}

func TestModuleRunReturnsTypedErrors(t *testing.T) {
	module := newModule(t)

	result := module.Run(context.Background(), "[nosuchtag]x[/nosuchtag]", interfaces.RenderOptions{})
	if result.OK() {
		t.Fatal("expected failure for unknown tag")
	}
	if !errors.Is(result.Err, sitecore.ErrUnknownTag) || !errors.Is(result.Err, sitecore.ErrShortcodeSyntax) {
		t.Fatalf("expected unknown tag syntax error, got %v", result.Err)
	}
	perr, ok := sitecore.AsError(result.Err)
	if !ok || perr.Tag != "nosuchtag" {
		t.Fatalf("expected typed error for nosuchtag, got %v", result.Err)
	}

	_, err := module.Render(context.Background(), "[code]unterminated", interfaces.RenderOptions{})
	if !errors.Is(err, sitecore.ErrUnterminatedTag) {
		t.Fatalf("expected ErrUnterminatedTag, got %v", err)
	}
}

func TestModuleValidate(t *testing.T) {
	module := newModule(t)
	ctx := context.Background()

	if err := module.Validate(ctx, "body", "[abbr \"United Nations\" UN/]", interfaces.RenderOptions{}); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}

	err := module.Validate(ctx, "body", "[abbr title=\"open]x[/abbr]", interfaces.RenderOptions{})
	if !goerrors.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !errors.Is(err, sitecore.ErrMalformedArgument) {
		t.Fatalf("expected malformed argument cause, got %v", err)
	}
}

func TestModuleValidateDocumentAggregates(t *testing.T) {
	module := newModule(t)
	document := []byte(`[
		{"type": "paragraph", "value": "<p>[kbd]broken</p>"},
		{"type": "paragraph", "value": "<p>[kbd]ok[/kbd]</p>"},
		{"type": "markdown", "value": "Use [nosuch]x[/nosuch]"}
	]`)

	err := module.ValidateDocument(context.Background(), "body", "body.json", document, interfaces.RenderOptions{})
	if err == nil {
		t.Fatal("expected aggregated validation error")
	}
	fields, ok := goerrors.GetValidationErrors(err)
	if !ok || len(fields) != 2 {
		t.Fatalf("expected two field errors, got %v", fields)
	}
	if fields[0].Field != "body[0]" || fields[1].Field != "body[2]" {
		t.Fatalf("unexpected field paths %q %q", fields[0].Field, fields[1].Field)
	}
}

func TestModuleTagsSorted(t *testing.T) {
	module := newModule(t)
	tags := module.Tags()
	if len(tags) == 0 {
		t.Fatal("expected built-in tags")
	}
	for i := 1; i < len(tags); i++ {
		if tags[i-1].Name > tags[i].Name {
			t.Fatalf("tags not sorted: %s before %s", tags[i-1].Name, tags[i].Name)
		}
	}
}

func TestNilModule(t *testing.T) {
	var module *sitecore.Module
	if _, err := module.Render(context.Background(), "x", interfaces.RenderOptions{}); err == nil {
		t.Fatal("expected error from nil module")
	}
	if module.Tags() != nil {
		t.Fatal("expected no tags from nil module")
	}
}

func ExampleModule_Render() {
	module, err := sitecore.New(sitecore.DefaultConfig())
	if err != nil {
		panic(err)
	}
	html, err := module.Render(context.Background(),
		`Press [kbd]Ctrl[/kbd] to copy. \[not a tag\]`,
		interfaces.RenderOptions{Format: sitecore.FormatPlain},
	)
	if err != nil {
		panic(err)
	}
	fmt.Println(html)
	// Output: Press <kbd>Ctrl</kbd> to copy. [not a tag]
}
