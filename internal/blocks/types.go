package blocks

import (
	"github.com/goliatone/go-sitecore/pkg/interfaces"
	"github.com/google/uuid"
)

// Kind describes how a block value, or a field inside a struct block, is read.
type Kind string

const (
	KindRichText Kind = "rich_text"
	KindMarkdown Kind = "markdown"
	KindPlain    Kind = "plain"
	KindStream   Kind = "stream"
	KindStruct   Kind = "struct"
	KindList     Kind = "list"
	KindOther    Kind = "other"
)

// Format reports the text format of text-bearing kinds.
func (k Kind) Format() (interfaces.TextFormat, bool) {
	switch k {
	case KindRichText:
		return interfaces.FormatRichText, true
	case KindMarkdown:
		return interfaces.FormatMarkdown, true
	case KindPlain:
		return interfaces.FormatPlain, true
	default:
		return "", false
	}
}

// Block is one typed entry of a content stream.
type Block struct {
	ID    uuid.UUID `json:"id"`
	Type  string    `json:"type"`
	Value any       `json:"value"`
}

// Stream is an ordered sequence of blocks, as stored in a composite content field.
type Stream []Block

// Spec declares the shape of a block type or of one of its fields.
type Spec struct {
	Kind    Kind
	Fields  map[string]Spec
	Item    *Spec
	Catalog *Catalog
}

// Text declares a text-bearing value in the given format.
func Text(format interfaces.TextFormat) Spec {
	switch format {
	case interfaces.FormatMarkdown:
		return Spec{Kind: KindMarkdown}
	case interfaces.FormatPlain:
		return Spec{Kind: KindPlain}
	default:
		return Spec{Kind: KindRichText}
	}
}

// Other declares a value that carries no shortcode text (images, page links, choices).
func Other() Spec {
	return Spec{Kind: KindOther}
}

// Struct declares an object value with named fields.
func Struct(fields map[string]Spec) Spec {
	return Spec{Kind: KindStruct, Fields: fields}
}

// ListOf declares a repeated value.
func ListOf(item Spec) Spec {
	return Spec{Kind: KindList, Item: &item}
}

// StreamOf declares a nested stream whose block types come from catalog.
func StreamOf(catalog *Catalog) Spec {
	return Spec{Kind: KindStream, Catalog: catalog}
}
