package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-sitecore"
	"github.com/goliatone/go-sitecore/internal/blocks"
	"github.com/goliatone/go-sitecore/internal/logging"
	"github.com/goliatone/go-sitecore/internal/markdown"
	"github.com/goliatone/go-sitecore/pkg/interfaces"
)

// bodyField names the validated value in reports.
const bodyField = "body"

var contentPatterns = []string{"*.md", "*.markdown", "*.html", "*.htm", "*.txt", "*.json", "*.yaml", "*.yml"}

// FileReport is the validation outcome for one file.
type FileReport struct {
	Path   string        `json:"path"`
	Format string        `json:"format"`
	Valid  bool          `json:"valid"`
	Errors []FieldReport `json:"errors,omitempty"`
}

// FieldReport is one failing field of a file.
type FieldReport struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func newContentLoader(fsys fs.FS) *markdown.Loader {
	return markdown.NewLoader(fsys, markdown.LoaderConfig{Patterns: contentPatterns, Recursive: true})
}

// collectFiles expands directory arguments into the content files below them.
// Explicit file arguments are kept even when no pattern matches.
func collectFiles(ctx context.Context, args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		found, err := newContentLoader(os.DirFS(arg)).Discover(ctx, ".")
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", arg, err)
		}
		for _, rel := range found {
			files = append(files, filepath.Join(arg, filepath.FromSlash(rel)))
		}
	}
	return files, nil
}

// loadDocument reads an authored file with its front matter. The document
// keeps path as given so reports and inferred formats refer to it.
func loadDocument(ctx context.Context, path string) (*interfaces.Document, error) {
	doc, err := newContentLoader(os.DirFS(filepath.Dir(path))).LoadFile(ctx, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	doc.FilePath = path
	return doc, nil
}

// checkFile validates path as a block stream when it has a stream extension,
// otherwise as an authored text document.
func checkFile(ctx context.Context, module *sitecore.Module, path string, format interfaces.TextFormat) FileReport {
	report := FileReport{Path: path}
	ctx = logging.ContextWithDocument(ctx, path)

	var err error
	if blocks.IsStreamFile(path) {
		report.Format = "stream"
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			report.Errors = []FieldReport{{Field: bodyField, Message: readErr.Error()}}
			return report
		}
		err = module.ValidateDocument(ctx, bodyField, path, data, interfaces.RenderOptions{Format: format})
	} else {
		doc, docErr := loadDocument(ctx, path)
		if docErr != nil {
			report.Errors = []FieldReport{{Field: bodyField, Message: docErr.Error()}}
			return report
		}
		opts := documentOptions(doc, format)
		report.Format = string(opts.Format)
		err = module.Validate(ctx, bodyField, string(doc.Body), opts)
	}

	report.Valid = err == nil
	if err != nil {
		report.Errors = fieldReports(err)
	}
	return report
}

// documentOptions prefers an explicit format over the one declared by the document.
func documentOptions(doc *interfaces.Document, format interfaces.TextFormat) interfaces.RenderOptions {
	opts := interfaces.RenderOptions{
		Format: interfaces.TextFormat(doc.FrontMatter.Format),
		Locale: doc.FrontMatter.Locale,
	}
	if format != "" {
		opts.Format = format
	}
	return opts
}

func fieldReports(err error) []FieldReport {
	fields, ok := goerrors.GetValidationErrors(err)
	if !ok || len(fields) == 0 {
		return []FieldReport{{Field: bodyField, Message: err.Error()}}
	}
	reports := make([]FieldReport, 0, len(fields))
	for _, field := range fields {
		reports = append(reports, FieldReport{Field: field.Field, Message: field.Message})
	}
	return reports
}

var errValidationFailed = errors.New("validation failed")
