package logging

import (
	"context"
	"maps"
	"strings"
)

type contextKey struct{}

// Field names stamped on contexts as a document or stream is validated.
const (
	FieldDocumentPath = "document_path"
	FieldPath         = "field_path"
	FieldBlockID      = "block_id"
	FieldBlockType    = "block_type"
)

// ContextWithFields returns ctx carrying fields for loggers obtained through
// WithContext. New values override ones already on ctx.
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil || len(fields) == 0 {
		return ctx
	}
	merged := ContextFields(ctx)
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	maps.Copy(merged, fields)
	return context.WithValue(ctx, contextKey{}, merged)
}

// ContextWithDocument records the file being rendered or validated.
func ContextWithDocument(ctx context.Context, path string) context.Context {
	path = strings.TrimSpace(path)
	if path == "" {
		return ctx
	}
	return ContextWithFields(ctx, map[string]any{FieldDocumentPath: path})
}

// ContextWithBlock records the stream position of the text being expanded.
func ContextWithBlock(ctx context.Context, path, blockID, blockType string) context.Context {
	return ContextWithFields(ctx, map[string]any{
		FieldPath:      path,
		FieldBlockID:   blockID,
		FieldBlockType: blockType,
	})
}

// ContextFields returns a copy of the fields stored on ctx.
func ContextFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, ok := ctx.Value(contextKey{}).(map[string]any)
	if !ok || len(fields) == 0 {
		return nil
	}
	return maps.Clone(fields)
}
