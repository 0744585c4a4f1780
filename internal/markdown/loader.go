package markdown

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-sitecore/pkg/interfaces"
)

// LoaderConfig configures how authored documents are discovered.
type LoaderConfig struct {
	// Patterns limits discovered files to those matching any glob (defaults to *.md, *.html, *.txt).
	Patterns []string
	// Recursive controls whether sub-directories are traversed.
	Recursive bool
}

// Loader turns filesystem paths into documents with parsed front matter.
type Loader struct {
	fs        fs.FS
	patterns  []string
	recursive bool
}

// NewLoader constructs a Loader using the provided filesystem and configuration.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	patterns := make([]string, 0, len(cfg.Patterns))
	for _, pattern := range cfg.Patterns {
		if trimmed := strings.TrimSpace(pattern); trimmed != "" {
			patterns = append(patterns, filepath.ToSlash(trimmed))
		}
	}
	if len(patterns) == 0 {
		patterns = []string{"*.md", "*.html", "*.txt"}
	}
	return &Loader{
		fs:        filesystem,
		patterns:  patterns,
		recursive: cfg.Recursive,
	}
}

// LoadFile reads and parses a single document.
func (l *Loader) LoadFile(ctx context.Context, path string) (*interfaces.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rel := filepath.ToSlash(filepath.Clean(path))
	data, err := fs.ReadFile(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown loader read %s: %w", rel, err)
	}
	return BuildDocument(rel, data)
}

// LoadDirectory discovers matching files under dir, sorted by path, and
// parses each one.
func (l *Loader) LoadDirectory(ctx context.Context, dir string) ([]*interfaces.Document, error) {
	paths, err := l.Discover(ctx, dir)
	if err != nil {
		return nil, err
	}
	docs := make([]*interfaces.Document, 0, len(paths))
	for _, path := range paths {
		doc, err := l.LoadFile(ctx, path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Discover returns the slash-separated paths under dir that match the loader
// patterns, sorted. Files are not read.
func (l *Loader) Discover(ctx context.Context, dir string) ([]string, error) {
	if l.fs == nil {
		return nil, fmt.Errorf("markdown loader: no filesystem configured")
	}
	root := filepath.ToSlash(filepath.Clean(dir))

	var paths []string
	walkErr := fs.WalkDir(l.fs, root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && !l.recursive {
				return fs.SkipDir
			}
			return nil
		}
		if l.Matches(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Strings(paths)
	return paths, nil
}

// Matches reports whether path satisfies one of the loader patterns. Patterns
// without a slash match the base name only.
func (l *Loader) Matches(path string) bool {
	path = filepath.ToSlash(path)
	for _, pattern := range l.patterns {
		target := filepath.Base(path)
		if strings.Contains(pattern, "/") {
			target = path
		}
		if ok, err := filepath.Match(pattern, target); err == nil && ok {
			return true
		}
	}
	return false
}
