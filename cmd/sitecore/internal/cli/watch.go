package cli

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-sitecore"
	"github.com/goliatone/go-sitecore/pkg/interfaces"
)

type watchOptions struct {
	root     *rootOptions
	format   string
	debounce time.Duration
}

func newCmdWatch(root *rootOptions) *cobra.Command {
	opts := &watchOptions{root: root}

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Re-validate content files as they change",
		Long: `Watch validates every content file under dir whenever it is written,
printing the same report as validate. Stop it with Ctrl+C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, logger, err := buildModule(root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			defer watcher.Close()

			if err := addRecursive(watcher, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "watching %s\n", args[0])

			w := &fileWatcher{
				module:   module,
				logger:   logger,
				out:      cmd.OutOrStdout(),
				format:   interfaces.TextFormat(opts.format),
				debounce: opts.debounce,
				matcher:  newContentLoader(os.DirFS(args[0])).Matches,
				addDir: func(dir string) error {
					return addRecursive(watcher, dir)
				},
				pending: map[string]struct{}{},
			}
			return w.loop(cmd.Context(), watcher.Events, watcher.Errors)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "force a text format for non-stream files")
	cmd.Flags().DurationVar(&opts.debounce, "debounce", 100*time.Millisecond, "wait until a file has been quiet this long before validating it")

	return cmd
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := watcher.Add(path); err != nil {
				return fmt.Errorf("watch %s: %w", path, err)
			}
		}
		return nil
	})
}

// fileWatcher batches change events per path and validates each file once
// it has seen no further events for the debounce window.
type fileWatcher struct {
	module   *sitecore.Module
	logger   interfaces.Logger
	out      io.Writer
	format   interfaces.TextFormat
	debounce time.Duration
	matcher  func(string) bool
	addDir   func(string) error
	pending  map[string]struct{}
}

// loop re-validates matching files on create and write events until ctx is
// done or the event channel closes. Pending files are flushed when the
// channel closes.
func (w *fileWatcher) loop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) error {
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				w.flush(ctx)
				return nil
			}
			if !w.enqueue(ctx, event) {
				continue
			}
			if w.debounce <= 0 {
				w.flush(ctx)
				continue
			}
			timer.Reset(w.debounce)
		case <-timer.C:
			w.flush(ctx)
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			w.logger.Warn("cli.watch.error", "error", err)
		}
	}
}

// enqueue records the files touched by event and reports whether anything
// was added. A new directory is watched and its content files queued.
func (w *fileWatcher) enqueue(ctx context.Context, event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	if w.pending == nil {
		w.pending = map[string]struct{}{}
	}

	if event.Has(fsnotify.Create) && w.addDir != nil {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addDir(event.Name); err != nil {
				w.logger.Warn("cli.watch.error", "error", err)
				return false
			}
			files, err := collectFiles(ctx, []string{event.Name})
			if err != nil {
				w.logger.Warn("cli.watch.error", "error", err)
				return false
			}
			for _, file := range files {
				w.pending[file] = struct{}{}
			}
			return len(files) > 0
		}
	}

	if !w.matcher(event.Name) {
		return false
	}
	w.pending[event.Name] = struct{}{}
	return true
}

func (w *fileWatcher) flush(ctx context.Context) {
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	clear(w.pending)

	for _, path := range paths {
		w.revalidate(ctx, path)
	}
}

func (w *fileWatcher) revalidate(ctx context.Context, path string) {
	report := checkFile(ctx, w.module, path, w.format)
	writeReport(w.out, report)
	w.logger.Info("cli.watch.revalidated",
		"path", path,
		"valid", report.Valid,
		"errors", len(report.Errors),
	)
}
