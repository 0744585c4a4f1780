package parser

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseArgs(t *testing.T) {
	cases := []struct {
		name       string
		input      string
		positional []string
		keyword    map[string]string
		keys       []string
	}{
		{name: "empty", input: "   "},
		{name: "positional quoted", input: `"United Nations" UN`, positional: []string{"United Nations", "UN"}},
		{name: "single quotes", input: `'a b' c`, positional: []string{"a b", "c"}},
		{
			name:    "keyword",
			input:   `type=warning title="Heads up"`,
			keyword: map[string]string{"type": "warning", "title": "Heads up"},
			keys:    []string{"type", "title"},
		},
		{
			name:       "mixed order",
			input:      `first key=value second`,
			positional: []string{"first", "second"},
			keyword:    map[string]string{"key": "value"},
			keys:       []string{"key"},
		},
		{name: "spaced equals stays positional", input: `key = value`, positional: []string{"key", "=", "value"}},
		{name: "quoted equals stays positional", input: `"a=b"`, positional: []string{"a=b"}},
		{
			name:    "value keeps later equals",
			input:   `expr=a=b`,
			keyword: map[string]string{"expr": "a=b"},
			keys:    []string{"expr"},
		},
		{
			name:    "empty value",
			input:   `flag=`,
			keyword: map[string]string{"flag": ""},
			keys:    []string{"flag"},
		},
		{name: "escaped quote", input: `"say \"hi\"" 'it\'s'`, positional: []string{`say "hi"`, "it's"}},
		{name: "other quote inside", input: `"it's"`, positional: []string{"it's"}},
		{name: "empty quoted", input: `"" x`, positional: []string{"", "x"}},
		{name: "backslash kept", input: `"C:\temp"`, positional: []string{`C:\temp`}},
		{name: "unicode", input: `título="Olá mundo" ñ`, positional: []string{"ñ"}, keyword: map[string]string{"título": "Olá mundo"}, keys: []string{"título"}},
		{
			name:    "last keyword wins",
			input:   `a=1 b=2 a=3`,
			keyword: map[string]string{"a": "3", "b": "2"},
			keys:    []string{"a", "b"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			args, err := ParseArgs(tc.input)
			if err != nil {
				t.Fatalf("ParseArgs(%q) unexpected error: %v", tc.input, err)
			}
			if !reflect.DeepEqual(args.Positional, tc.positional) {
				t.Fatalf("positional mismatch: got %#v want %#v", args.Positional, tc.positional)
			}
			if !reflect.DeepEqual(args.Keyword, tc.keyword) {
				t.Fatalf("keyword mismatch: got %#v want %#v", args.Keyword, tc.keyword)
			}
			if !reflect.DeepEqual(args.Keys, tc.keys) {
				t.Fatalf("keys mismatch: got %#v want %#v", args.Keys, tc.keys)
			}
		})
	}
}

func TestParseArgs_Unclosed(t *testing.T) {
	for _, input := range []string{`"open`, `a 'b c`, `key="value`} {
		_, err := ParseArgs(input)
		if !errors.Is(err, ErrMalformedArgument) {
			t.Fatalf("ParseArgs(%q) expected ErrMalformedArgument, got %v", input, err)
		}
	}
}
