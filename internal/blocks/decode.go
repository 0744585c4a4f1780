package blocks

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

var (
	ErrStreamDecode      = errors.New("blocks: stream decode failed")
	ErrBlockIDInvalid    = errors.New("blocks: block id invalid")
	ErrStreamValue       = errors.New("blocks: nested stream value invalid")
	ErrUnsupportedFormat = errors.New("blocks: unsupported stream document format")
)

// DecodeJSON parses a stored stream. Blocks without an id receive a fresh one.
func DecodeJSON(data []byte) (Stream, error) {
	var document any
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStreamDecode, err)
	}
	return decodeDocument(document)
}

// DecodeYAML parses a stream authored as YAML. The document is converted to
// its JSON form first so both encodings share one schema.
func DecodeYAML(data []byte) (Stream, error) {
	var document any
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStreamDecode, err)
	}
	encoded, err := json.Marshal(document)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStreamDecode, err)
	}
	return DecodeJSON(encoded)
}

// DecodeFile picks the decoder from the file extension.
func DecodeFile(path string, data []byte) (Stream, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return DecodeJSON(data)
	case ".yaml", ".yml":
		return DecodeYAML(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// IsStreamFile reports whether DecodeFile understands the path.
func IsStreamFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func decodeDocument(document any) (Stream, error) {
	if err := checkShape(document); err != nil {
		return nil, err
	}
	return streamFromValue(document)
}

// streamFromValue converts a nested stream value into blocks. It accepts the
// generic JSON form as well as streams built in Go.
func streamFromValue(value any) (Stream, error) {
	switch v := value.(type) {
	case nil:
		return Stream{}, nil
	case Stream:
		return v, nil
	case []Block:
		return Stream(v), nil
	}

	items, ok := listItems(value)
	if !ok {
		return nil, fmt.Errorf("%w: expected a list of blocks, got %T", ErrStreamValue, value)
	}
	stream := make(Stream, 0, len(items))
	for i, item := range items {
		switch v := item.(type) {
		case Block:
			stream = append(stream, v)
			continue
		case *Block:
			if v != nil {
				stream = append(stream, *v)
				continue
			}
		}
		raw, ok := objectFields(item)
		if !ok {
			return nil, fmt.Errorf("%w: item %d is %T, not a block", ErrStreamValue, i, item)
		}
		block, err := blockFromMap(raw)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		stream = append(stream, block)
	}
	return stream, nil
}

// listItems returns the elements of any slice or array value.
func listItems(value any) ([]any, bool) {
	if items, ok := value.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

// objectFields returns the entries of a map keyed by strings.
func objectFields(value any) (map[string]any, bool) {
	if object, ok := value.(map[string]any); ok {
		return object, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	object := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		object[iter.Key().String()] = iter.Value().Interface()
	}
	return object, true
}

// textValue reads string values, including named string types.
func textValue(value any) (string, bool) {
	if text, ok := value.(string); ok {
		return text, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.String {
		return "", false
	}
	return rv.String(), true
}

func blockFromMap(raw map[string]any) (Block, error) {
	block := Block{Value: raw["value"]}

	blockType, _ := raw["type"].(string)
	block.Type = strings.TrimSpace(blockType)
	if block.Type == "" {
		return Block{}, fmt.Errorf("%w: missing type", ErrStreamValue)
	}

	switch id := raw["id"].(type) {
	case nil:
		block.ID = uuid.New()
	case string:
		if strings.TrimSpace(id) == "" {
			block.ID = uuid.New()
			break
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			return Block{}, fmt.Errorf("%w: %q", ErrBlockIDInvalid, id)
		}
		block.ID = parsed
	default:
		return Block{}, fmt.Errorf("%w: %v", ErrBlockIDInvalid, id)
	}
	return block, nil
}
