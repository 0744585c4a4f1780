package markdown

import (
	"bytes"
	"fmt"
	"maps"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-sitecore/pkg/interfaces"
)

// ParseFrontMatter extracts metadata and body content from the provided
// source bytes. Sources without front matter return an empty FrontMatter and
// the unchanged body.
func ParseFrontMatter(source []byte) (interfaces.FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return interfaces.FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return envelopeToFrontMatter(meta), body, nil
}

// BuildDocument assembles an interfaces.Document from a path and its raw
// content. When the front matter names no format, one is inferred from the
// file extension.
func BuildDocument(path string, source []byte) (*interfaces.Document, error) {
	fm, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if strings.TrimSpace(fm.Format) == "" {
		fm.Format = string(FormatForPath(path))
	}

	return &interfaces.Document{
		FilePath:    path,
		FrontMatter: fm,
		Body:        body,
	}, nil
}

// FormatForPath maps a file extension to the text format it is authored in.
func FormatForPath(path string) interfaces.TextFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".mdown":
		return interfaces.FormatMarkdown
	case ".html", ".htm":
		return interfaces.FormatRichText
	default:
		return interfaces.FormatPlain
	}
}

type frontMatterEnvelope struct {
	Title   string         `yaml:"title"`
	Slug    string         `yaml:"slug"`
	Summary string         `yaml:"summary"`
	Format  string         `yaml:"format"`
	Locale  string         `yaml:"locale"`
	Tags    []string       `yaml:"tags"`
	Custom  map[string]any `yaml:",inline"`
}

func envelopeToFrontMatter(env frontMatterEnvelope) interfaces.FrontMatter {
	custom := map[string]any{}
	if env.Custom != nil {
		custom = maps.Clone(env.Custom)
	}
	return interfaces.FrontMatter{
		Title:   env.Title,
		Slug:    env.Slug,
		Summary: env.Summary,
		Format:  strings.ToLower(strings.TrimSpace(env.Format)),
		Locale:  env.Locale,
		Tags:    append([]string(nil), env.Tags...),
		Custom:  custom,
	}
}
