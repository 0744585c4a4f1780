package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-sitecore"
	"github.com/goliatone/go-sitecore/internal/logging"
	"github.com/goliatone/go-sitecore/internal/markdown"
	"github.com/goliatone/go-sitecore/pkg/interfaces"
)

type renderOptions struct {
	root   *rootOptions
	format string
	locale string
	output string
}

func newCmdRender(root *rootOptions) *cobra.Command {
	opts := &renderOptions{root: root}

	cmd := &cobra.Command{
		Use:   "render <file|->",
		Short: "Render a file to HTML",
		Long: `Render expands the shortcodes of a file and prints the HTML.

The text format comes from --format, then the front matter "format" key,
then the file extension (.md is markdown, .html is rich_text, anything else plain).`,
		Example: `  # Render a Markdown page
  sitecore render docs/intro.md

  # Render stdin as rich text
  echo '<p>[kbd]Ctrl[/kbd]</p>' | sitecore render - --format rich_text`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, logger, err := buildModule(root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			logger = logging.WithDocumentContext(logger, args[0], opts.format, "render")
			logger.Debug("cli.render.start")
			return runRender(cmd, module, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "text format: rich_text, markdown, plain")
	cmd.Flags().StringVar(&opts.locale, "locale", "", "locale passed to tag handlers")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write HTML to a file instead of stdout")

	return cmd
}

func runRender(cmd *cobra.Command, module *sitecore.Module, path string, opts *renderOptions) error {
	var (
		doc *interfaces.Document
		err error
	)
	if path == "-" {
		data, readErr := io.ReadAll(cmd.InOrStdin())
		if readErr != nil {
			return fmt.Errorf("read %s: %w", path, readErr)
		}
		doc, err = markdown.BuildDocument(path, data)
	} else {
		doc, err = loadDocument(cmd.Context(), path)
	}
	if err != nil {
		return err
	}
	renderOpts := documentOptions(doc, interfaces.TextFormat(opts.format))
	if opts.locale != "" {
		renderOpts.Locale = opts.locale
	}

	html, err := module.Render(cmd.Context(), string(doc.Body), renderOpts)
	if err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}

	if opts.output != "" {
		return os.WriteFile(opts.output, []byte(html), 0o644)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), html)
	return err
}
