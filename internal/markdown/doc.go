// Package markdown implements the Markdown pre-pass that runs before
// shortcode expansion. Markdown consumes its own bracket syntax (links,
// footnotes) first so the shortcode scanner only sees tag brackets. Two
// engines are available: goldmark (default) and gomarkdown.
package markdown
