package validation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-sitecore/internal/blocks"
	"github.com/goliatone/go-sitecore/internal/logging"
	"github.com/goliatone/go-sitecore/internal/shortcode"
	"github.com/goliatone/go-sitecore/internal/shortcode/parser"
	"github.com/goliatone/go-sitecore/pkg/interfaces"
)

const (
	TextCodeSyntax        = "SHORTCODE_SYNTAX_ERROR"
	TextCodeRendering     = "SHORTCODE_RENDERING_ERROR"
	TextCodeStreamInvalid = "SHORTCODE_STREAM_INVALID"
	TextCodePipeline      = "SHORTCODE_PIPELINE_FAILED"
)

// Pipeline is the render path shared with validation.
type Pipeline interface {
	Run(ctx context.Context, text string, opts interfaces.RenderOptions) shortcode.Result
}

// Validator turns shortcode failures into field validation errors so authors
// see them at save time instead of at page render.
type Validator struct {
	pipeline Pipeline
	catalog  *blocks.Catalog
	logger   interfaces.Logger
}

// Option customises the validator.
type Option func(*Validator)

// WithCatalog sets the block catalog used for streams.
func WithCatalog(catalog *blocks.Catalog) Option {
	return func(v *Validator) {
		if catalog != nil {
			v.catalog = catalog
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// NewValidator constructs a validator around the render pipeline.
func NewValidator(pipeline Pipeline, opts ...Option) *Validator {
	v := &Validator{
		pipeline: pipeline,
		catalog:  blocks.DefaultCatalog(),
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Catalog returns the block catalog used for streams.
func (v *Validator) Catalog() *blocks.Catalog {
	return v.catalog
}

// ValidateText runs text through the pipeline and discards the output.
// Shortcode failures come back as a validation error for field.
func (v *Validator) ValidateText(ctx context.Context, field string, text string, opts interfaces.RenderOptions) error {
	if v == nil || v.pipeline == nil {
		return pipelineError(shortcode.ErrEngineNotInitialised)
	}
	result := v.pipeline.Run(ctx, text, opts)
	if result.Err == nil {
		return nil
	}

	perr, ok := parser.AsError(result.Err)
	if !ok {
		return pipelineError(result.Err)
	}

	code := TextCodeSyntax
	if !perr.IsSyntax() {
		code = TextCodeRendering
	}
	verr := goerrors.NewValidation("shortcode validation failed", fieldError(field, text, perr)).
		WithTextCode(code).
		WithMetadata(errorMetadata(perr))
	verr.Source = result.Err

	logging.WithError(logging.WithFields(v.baseLogger(ctx), map[string]any{
		"field": field,
	}), perr).Warn("validation.text_failed")
	return verr
}

// ValidateStream checks every text-bearing block of stream and reports all
// failures in one validation error. Block paths are rooted at field.
func (v *Validator) ValidateStream(ctx context.Context, field string, stream blocks.Stream, opts interfaces.RenderOptions) error {
	if v == nil || v.pipeline == nil {
		return pipelineError(shortcode.ErrEngineNotInitialised)
	}

	fields, issues := v.catalog.Extract(field, stream)

	var (
		failures goerrors.ValidationErrors
		sources  []error
	)
	for _, issue := range issues {
		failures = append(failures, goerrors.FieldError{
			Field:   issue.Path,
			Message: issue.Err.Error(),
			Value:   issue.BlockID.String(),
		})
		sources = append(sources, issue)
	}

	for _, f := range fields {
		fieldOpts := opts
		fieldOpts.Format = f.Format
		fieldCtx := logging.ContextWithBlock(ctx, f.Path, f.BlockID.String(), f.BlockType)
		result := v.pipeline.Run(fieldCtx, f.Text, fieldOpts)
		if result.Err == nil {
			continue
		}
		perr, ok := parser.AsError(result.Err)
		if !ok {
			return pipelineError(fmt.Errorf("%s: %w", f.Path, result.Err))
		}
		failures = append(failures, fieldError(f.Path, f.Text, perr))
		sources = append(sources, fmt.Errorf("%s (block %s): %w", f.Path, f.BlockID, result.Err))
	}

	if len(failures) == 0 {
		return nil
	}

	verr := goerrors.NewValidation("stream validation failed", failures...).
		WithTextCode(TextCodeStreamInvalid).
		WithMetadata(map[string]any{
			"failures":    len(failures),
			"text_fields": len(fields),
		})
	verr.Source = errors.Join(sources...)

	logging.WithFields(v.baseLogger(ctx), map[string]any{
		"field":    field,
		"failures": len(failures),
	}).Warn("validation.stream_failed")
	return verr
}

// ValidateDocument decodes a stored stream (JSON or YAML, picked by path)
// and validates it.
func (v *Validator) ValidateDocument(ctx context.Context, field string, path string, data []byte, opts interfaces.RenderOptions) error {
	stream, err := blocks.DecodeFile(path, data)
	if err != nil {
		var failures goerrors.ValidationErrors
		for _, issue := range blocks.ShapeIssues(err) {
			location := field
			if loc := strings.TrimSpace(issue.Location); loc != "" {
				location = field + "#" + loc
			}
			failures = append(failures, goerrors.FieldError{Field: location, Message: issue.Message})
		}
		verr := goerrors.NewValidation("stream document invalid", failures...).
			WithTextCode(TextCodeStreamInvalid).
			WithMetadata(map[string]any{"path": path})
		verr.Source = err
		return verr
	}
	return v.ValidateStream(ctx, field, stream, opts)
}

// Rule adapts ValidateText to an ozzo-validation rule for string fields.
// Empty values pass; combine with validation.Required when needed.
func (v *Validator) Rule(ctx context.Context, format interfaces.TextFormat) ozzo.Rule {
	return ozzo.By(func(value any) error {
		text, isNil, err := stringValue(value)
		if err != nil || isNil || text == "" {
			return err
		}
		return v.ValidateText(ctx, "", text, interfaces.RenderOptions{Format: format})
	})
}

func stringValue(value any) (string, bool, error) {
	value, isNil := ozzo.Indirect(value)
	if isNil || ozzo.IsEmpty(value) {
		return "", true, nil
	}
	text, ok := value.(string)
	if !ok {
		return "", false, fmt.Errorf("shortcode text must be a string, got %T", value)
	}
	return text, false, nil
}

// Message renders the author-facing text for a shortcode failure.
func Message(err *parser.Error) string {
	if err == nil {
		return ""
	}
	if err.IsSyntax() {
		return "ShortcodeSyntaxError: " + err.Error()
	}
	detail := err.Message
	if err.Offset >= 0 {
		detail = fmt.Sprintf("%s at offset %d", detail, err.Offset)
	}
	return fmt.Sprintf("ShortcodeRenderingError: %s (%v)", detail, err.Cause)
}

func fieldError(field string, value string, err *parser.Error) goerrors.FieldError {
	return goerrors.FieldError{
		Field:   field,
		Message: Message(err),
		Value:   value,
	}
}

func errorMetadata(err *parser.Error) map[string]any {
	meta := map[string]any{
		"kind": string(err.Kind),
	}
	if err.Tag != "" {
		meta["tag"] = err.Tag
	}
	if err.Offset >= 0 {
		meta["offset"] = err.Offset
	}
	if err.Fragment != "" {
		meta["fragment"] = err.Fragment
	}
	return meta
}

func pipelineError(err error) error {
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, "shortcode pipeline failed").
		WithTextCode(TextCodePipeline)
}

func (v *Validator) baseLogger(ctx context.Context) interfaces.Logger {
	logger := v.logger
	if logger == nil {
		logger = logging.NoOp()
	}
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	return logger
}
