package shortcode

import (
	"fmt"
	"html"
	"html/template"
	"strings"

	"github.com/goliatone/go-sitecore/pkg/interfaces"
)

// BuiltInDefinitions returns the tag catalogue shipped with sitecore.
func BuiltInDefinitions() []interfaces.TagDefinition {
	return []interfaces.TagDefinition{
		codeDefinition(),
		kbdDefinition(),
		abbrDefinition(),
		alertDefinition(),
		figureDefinition(),
		youTubeDefinition(),
	}
}

func codeDefinition() interfaces.TagDefinition {
	return interfaces.TagDefinition{
		Name:        "code",
		ClosingName: "endcode",
		Description: "Renders its content as inline code",
		Category:    "text",
		Handler: func(ctx interfaces.ShortcodeContext, content string, _ []string, _ map[string]string) (template.HTML, error) {
			// HTML formats arrive entity-encoded; decode first so the source is shown once.
			if ctx.Format == interfaces.FormatMarkdown || ctx.Format == interfaces.FormatRichText {
				content = html.UnescapeString(content)
			}
			return template.HTML("<code>" + html.EscapeString(content) + "</code>"), nil
		},
	}
}

func kbdDefinition() interfaces.TagDefinition {
	return interfaces.TagDefinition{
		Name:        "kbd",
		ClosingName: "/kbd",
		Description: "Marks keyboard input",
		Category:    "text",
		Handler: func(_ interfaces.ShortcodeContext, content string, positional []string, _ map[string]string) (template.HTML, error) {
			key := content
			if key == "" {
				key = "No key specified"
				if len(positional) > 0 {
					key = html.EscapeString(positional[0])
				}
			}
			return template.HTML("<kbd>" + key + "</kbd>"), nil
		},
	}
}

// abbr accepts [abbr "Full title" SHORT/] or [abbr title="Full title"]SHORT[/abbr].
func abbrDefinition() interfaces.TagDefinition {
	return interfaces.TagDefinition{
		Name:        "abbr",
		ClosingName: "/abbr",
		Description: "Renders an abbreviation with its expansion as title",
		Category:    "text",
		Handler: func(_ interfaces.ShortcodeContext, content string, positional []string, keyword map[string]string) (template.HTML, error) {
			title := keyword["title"]
			short := content
			switch {
			case title == "" && len(positional) >= 2:
				title = positional[0]
				if short == "" {
					short = html.EscapeString(positional[1])
				}
			case title == "" && len(positional) == 1:
				title = positional[0]
			case short == "" && len(positional) > 0:
				short = html.EscapeString(positional[0])
			}
			if strings.TrimSpace(short) == "" {
				return "", fmt.Errorf("abbr requires the abbreviated text")
			}
			if title == "" {
				return template.HTML("<abbr>" + short + "</abbr>"), nil
			}
			return template.HTML(`<abbr title="` + html.EscapeString(title) + `">` + short + "</abbr>"), nil
		},
	}
}

var alertTypes = map[string]struct{}{
	"info":    {},
	"success": {},
	"warning": {},
	"danger":  {},
}

func alertDefinition() interfaces.TagDefinition {
	render := mustTemplateHandler("alert", `<div class="shortcode shortcode--alert alert alert-{{ .Kw.type }}" role="alert">
{{- with .Kw.title }}<strong>{{ . }}</strong> {{ end -}}
{{ .Content }}</div>`)

	return interfaces.TagDefinition{
		Name:        "alert",
		ClosingName: "/alert",
		Description: "Displays a contextual alert box",
		Category:    "content",
		Handler: func(ctx interfaces.ShortcodeContext, content string, positional []string, keyword map[string]string) (template.HTML, error) {
			kind := strings.ToLower(strings.TrimSpace(keyword["type"]))
			if kind == "" && len(positional) > 0 {
				kind = strings.ToLower(positional[0])
			}
			if kind == "" {
				kind = "info"
			}
			if _, ok := alertTypes[kind]; !ok {
				return "", fmt.Errorf("alert type %q must be one of info, success, warning, danger", kind)
			}
			keyword["type"] = kind
			return render(ctx, content, positional, keyword)
		},
	}
}

func figureDefinition() interfaces.TagDefinition {
	render := mustTemplateHandler("figure", `<figure class="shortcode shortcode--figure">
  <img src="{{ .Kw.src }}" alt="{{ .Kw.alt }}" loading="lazy">
  {{- with .Kw.caption }}
  <figcaption>{{ . }}</figcaption>
  {{- end }}
</figure>`)
	urls := NewSanitizer()

	return interfaces.TagDefinition{
		Name:        "figure",
		Description: "Displays an image with optional caption",
		Category:    "media",
		Handler: func(ctx interfaces.ShortcodeContext, content string, positional []string, keyword map[string]string) (template.HTML, error) {
			if keyword["src"] == "" && len(positional) > 0 {
				keyword["src"] = positional[0]
			}
			if strings.TrimSpace(keyword["src"]) == "" {
				return "", fmt.Errorf("figure requires src")
			}
			if err := urls.ValidateURL(keyword["src"]); err != nil {
				return "", err
			}
			return render(ctx, content, positional, keyword)
		},
	}
}

func youTubeDefinition() interfaces.TagDefinition {
	render := mustTemplateHandler("youtube", `<div class="shortcode shortcode--youtube">
  <iframe src="https://www.youtube.com/embed/{{ .Kw.id }}" title="YouTube video" loading="lazy" allowfullscreen></iframe>
</div>`)

	return interfaces.TagDefinition{
		Name:        "youtube",
		Description: "Embeds a responsive YouTube iframe player",
		Category:    "media",
		Handler: func(ctx interfaces.ShortcodeContext, content string, positional []string, keyword map[string]string) (template.HTML, error) {
			if keyword["id"] == "" && len(positional) > 0 {
				keyword["id"] = positional[0]
			}
			if strings.TrimSpace(keyword["id"]) == "" {
				return "", fmt.Errorf("youtube requires a video id")
			}
			return render(ctx, content, positional, keyword)
		},
	}
}
