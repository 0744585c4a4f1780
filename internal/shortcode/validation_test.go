package shortcode

import (
	"errors"
	"testing"

	"github.com/goliatone/go-sitecore/internal/shortcode/parser"
	"github.com/goliatone/go-sitecore/pkg/interfaces"
)

func TestValidator_ValidateDefinition(t *testing.T) {
	validator := NewValidator(parser.DefaultDelimiters())

	cases := []struct {
		name    string
		def     interfaces.TagDefinition
		wantErr bool
	}{
		{name: "self closing", def: interfaces.TagDefinition{Name: "youtube", Handler: staticHandler("")}},
		{name: "paired conventional", def: interfaces.TagDefinition{Name: "kbd", ClosingName: "/kbd", Handler: staticHandler("")}},
		{name: "paired alias", def: interfaces.TagDefinition{Name: "code", ClosingName: "endcode", Handler: staticHandler("")}},
		{name: "dotted name", def: interfaces.TagDefinition{Name: "site.title", Handler: staticHandler("")}},
		{name: "missing name", def: interfaces.TagDefinition{Handler: staticHandler("")}, wantErr: true},
		{name: "missing handler", def: interfaces.TagDefinition{Name: "demo"}, wantErr: true},
		{name: "whitespace", def: interfaces.TagDefinition{Name: "two words", Handler: staticHandler("")}, wantErr: true},
		{name: "start delimiter", def: interfaces.TagDefinition{Name: "a[b", Handler: staticHandler("")}, wantErr: true},
		{name: "end delimiter", def: interfaces.TagDefinition{Name: "a]", Handler: staticHandler("")}, wantErr: true},
		{name: "escape delimiter", def: interfaces.TagDefinition{Name: `a\b`, Handler: staticHandler("")}, wantErr: true},
		{name: "leading slash", def: interfaces.TagDefinition{Name: "/demo", Handler: staticHandler("")}, wantErr: true},
		{name: "equals sign", def: interfaces.TagDefinition{Name: "a=b", Handler: staticHandler("")}, wantErr: true},
		{name: "closing equals name", def: interfaces.TagDefinition{Name: "demo", ClosingName: "demo", Handler: staticHandler("")}, wantErr: true},
		{name: "closing with space", def: interfaces.TagDefinition{Name: "demo", ClosingName: "end demo", Handler: staticHandler("")}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validator.ValidateDefinition(tc.def)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidDefinition) {
					t.Fatalf("expected ErrInvalidDefinition, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateDefinition() unexpected error: %v", err)
			}
		})
	}
}

func TestValidator_CustomDelimiters(t *testing.T) {
	validator := NewValidator(parser.Delimiters{Start: "{{", End: "}}", Escape: "!"})

	if err := validator.ValidateDefinition(interfaces.TagDefinition{Name: "a[b]", Handler: staticHandler("")}); err != nil {
		t.Fatalf("brackets are allowed with brace delimiters: %v", err)
	}
	if err := validator.ValidateDefinition(interfaces.TagDefinition{Name: "wow!", Handler: staticHandler("")}); err == nil {
		t.Fatalf("expected escape marker in name to be rejected")
	}
}
