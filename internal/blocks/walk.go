package blocks

import (
	"errors"
	"fmt"
	"sort"

	"github.com/goliatone/go-sitecore/pkg/interfaces"
	"github.com/google/uuid"
)

var (
	ErrUnknownBlockType = errors.New("blocks: unknown block type")
	ErrTextValue        = errors.New("blocks: text value must be a string")
	ErrStructValue      = errors.New("blocks: struct value must be an object")
	ErrListValue        = errors.New("blocks: list value must be an array")
)

// Field is one text-bearing value found in a stream.
type Field struct {
	Path      string
	BlockID   uuid.UUID
	BlockType string
	Format    interfaces.TextFormat
	Text      string
}

// Issue records a structural problem found while walking a stream.
type Issue struct {
	Path      string
	BlockID   uuid.UUID
	BlockType string
	Err       error
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s: %v", i.Path, i.Err)
}

func (i Issue) Unwrap() error {
	return i.Err
}

// Extract walks stream and returns every text-bearing value in document
// order. root prefixes every path, e.g. "body" yields "body[2].col_one_content[0]".
// Values of kind other are skipped. Structural problems do not stop the walk.
func (c *Catalog) Extract(root string, stream Stream) ([]Field, []Issue) {
	w := &walker{}
	w.stream(root, c, stream)
	return w.fields, w.issues
}

type walker struct {
	fields []Field
	issues []Issue
}

func (w *walker) stream(path string, catalog *Catalog, stream Stream) {
	for i, block := range stream {
		blockPath := fmt.Sprintf("%s[%d]", path, i)
		spec, ok := catalog.Lookup(block.Type)
		if !ok {
			w.issue(blockPath, block, fmt.Errorf("%w: %q", ErrUnknownBlockType, block.Type))
			continue
		}
		w.value(blockPath, block, spec, block.Value)
	}
}

func (w *walker) value(path string, owner Block, spec Spec, value any) {
	if format, ok := spec.Kind.Format(); ok {
		if value == nil {
			return
		}
		text, ok := textValue(value)
		if !ok {
			w.issue(path, owner, fmt.Errorf("%w, got %T", ErrTextValue, value))
			return
		}
		w.fields = append(w.fields, Field{
			Path:      path,
			BlockID:   owner.ID,
			BlockType: owner.Type,
			Format:    format,
			Text:      text,
		})
		return
	}

	switch spec.Kind {
	case KindStream:
		nested, err := streamFromValue(value)
		if err != nil {
			w.issue(path, owner, err)
			return
		}
		w.stream(path, spec.Catalog, nested)
	case KindStruct:
		if value == nil {
			return
		}
		object, ok := objectFields(value)
		if !ok {
			w.issue(path, owner, fmt.Errorf("%w, got %T", ErrStructValue, value))
			return
		}
		names := make([]string, 0, len(spec.Fields))
		for name := range spec.Fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			w.value(path+"."+name, owner, spec.Fields[name], object[name])
		}
	case KindList:
		if value == nil || spec.Item == nil {
			return
		}
		items, ok := listItems(value)
		if !ok {
			w.issue(path, owner, fmt.Errorf("%w, got %T", ErrListValue, value))
			return
		}
		for i, item := range items {
			w.value(fmt.Sprintf("%s[%d]", path, i), owner, *spec.Item, item)
		}
	}
}

func (w *walker) issue(path string, owner Block, err error) {
	w.issues = append(w.issues, Issue{
		Path:      path,
		BlockID:   owner.ID,
		BlockType: owner.Type,
		Err:       err,
	})
}
