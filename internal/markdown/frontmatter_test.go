package markdown

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-sitecore/pkg/interfaces"
)

func TestParseFrontMatter(t *testing.T) {
	data := readFixture(t, "testdata/basic.md")

	fm, body, err := ParseFrontMatter(data)
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if fm.Title != "Sample Document" {
		t.Fatalf("FrontMatter Title mismatch, got %q", fm.Title)
	}
	if fm.Format != "markdown" {
		t.Fatalf("FrontMatter Format mismatch, got %q", fm.Format)
	}
	if len(fm.Tags) != 2 || fm.Tags[0] != "docs" {
		t.Fatalf("FrontMatter Tags mismatch: %#v", fm.Tags)
	}
	if fm.Custom["custom_flag"] != true {
		t.Fatalf("FrontMatter Custom flag missing: %#v", fm.Custom)
	}
	if !strings.Contains(string(body), "[kbd]Ctrl[/kbd]") || strings.Contains(string(body), "title:") {
		t.Fatalf("Markdown body not returned correctly: %q", string(body))
	}
}

func TestParseFrontMatter_Absent(t *testing.T) {
	fm, body, err := ParseFrontMatter([]byte("just [kbd]text[/kbd]"))
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if fm.Title != "" || string(body) != "just [kbd]text[/kbd]" {
		t.Fatalf("expected body untouched, got %q (%+v)", body, fm)
	}
}

func TestBuildDocument_InfersFormat(t *testing.T) {
	cases := map[string]interfaces.TextFormat{
		"post.md":      interfaces.FormatMarkdown,
		"page.html":    interfaces.FormatRichText,
		"snippet.txt":  interfaces.FormatPlain,
		"NOTES.MD":     interfaces.FormatMarkdown,
		"without-ext":  interfaces.FormatPlain,
		"legacy.htm":   interfaces.FormatRichText,
		"deep/dir/x.m": interfaces.FormatPlain,
	}
	for path, want := range cases {
		doc, err := BuildDocument(path, []byte("body"))
		if err != nil {
			t.Fatalf("BuildDocument(%s): %v", path, err)
		}
		if doc.FrontMatter.Format != string(want) {
			t.Fatalf("BuildDocument(%s) format = %q, want %q", path, doc.FrontMatter.Format, want)
		}
	}

	doc, err := BuildDocument("override.md", []byte("---\nformat: plain\n---\nbody"))
	if err != nil {
		t.Fatalf("BuildDocument: %v", err)
	}
	if doc.FrontMatter.Format != "plain" {
		t.Fatalf("front matter format must win, got %q", doc.FrontMatter.Format)
	}
}

func TestLoader_LoadDirectory(t *testing.T) {
	fsys := fstest.MapFS{
		"content/a.md":          {Data: []byte("# A")},
		"content/b.html":        {Data: []byte("<p>B</p>")},
		"content/skip.png":      {Data: []byte{0x89}},
		"content/nested/c.md":   {Data: []byte("# C")},
		"content/nested/d.json": {Data: []byte("[]")},
	}

	flat := NewLoader(fsys, LoaderConfig{})
	docs, err := flat.LoadDirectory(context.Background(), "content")
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if len(docs) != 2 || docs[0].FilePath != "content/a.md" || docs[1].FilePath != "content/b.html" {
		t.Fatalf("unexpected flat documents: %+v", docs)
	}

	recursive := NewLoader(fsys, LoaderConfig{Recursive: true, Patterns: []string{"*.md"}})
	docs, err = recursive.LoadDirectory(context.Background(), "content")
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if len(docs) != 2 || docs[1].FilePath != "content/nested/c.md" {
		t.Fatalf("unexpected recursive documents: %+v", docs)
	}
}

func TestLoader_Discover(t *testing.T) {
	fsys := fstest.MapFS{
		"b.md":          {Data: []byte("# B")},
		"a.txt":         {Data: []byte("A")},
		"skip.png":      {Data: []byte{0x89}},
		"nested/c.json": {Data: []byte("[]")},
	}
	loader := NewLoader(fsys, LoaderConfig{Recursive: true, Patterns: []string{"*.md", "*.txt", "*.json"}})

	paths, err := loader.Discover(context.Background(), ".")
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if strings.Join(paths, ",") != "a.txt,b.md,nested/c.json" {
		t.Fatalf("unexpected paths %v", paths)
	}

	if _, err := NewLoader(nil, LoaderConfig{}).Discover(context.Background(), "."); err == nil {
		t.Fatalf("expected error without a filesystem")
	}
}

func TestLoader_LoadFileHonoursContext(t *testing.T) {
	loader := NewLoader(fstest.MapFS{"a.md": {Data: []byte("x")}}, LoaderConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := loader.LoadFile(ctx, "a.md"); err == nil {
		t.Fatalf("expected cancelled context error")
	}
}
