package shortcode

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/goliatone/go-sitecore/pkg/interfaces"
)

// TemplateData is the value passed to template-backed handlers.
type TemplateData struct {
	Content template.HTML
	Args    []string
	Kw      map[string]string
	Locale  string
}

// Arg returns the positional argument at index or an empty string.
func (d TemplateData) Arg(index int) string {
	if index < 0 || index >= len(d.Args) {
		return ""
	}
	return d.Args[index]
}

// TemplateHandler compiles text once and returns a handler executing it with
// TemplateData. html/template escapes arguments contextually.
func TemplateHandler(name, text string) (interfaces.TagHandler, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: template %s: %v", ErrInvalidDefinition, name, err)
	}
	return func(ctx interfaces.ShortcodeContext, content string, positional []string, keyword map[string]string) (template.HTML, error) {
		var buf bytes.Buffer
		data := TemplateData{
			Content: template.HTML(content),
			Args:    positional,
			Kw:      keyword,
			Locale:  ctx.Locale,
		}
		if err := tmpl.Execute(&buf, data); err != nil {
			return "", fmt.Errorf("render template %s: %w", name, err)
		}
		return template.HTML(buf.String()), nil
	}, nil
}

func mustTemplateHandler(name, text string) interfaces.TagHandler {
	handler, err := TemplateHandler(name, text)
	if err != nil {
		panic(err)
	}
	return handler
}
