package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-sitecore"
	"github.com/goliatone/go-sitecore/pkg/interfaces"
)

type validateOptions struct {
	root   *rootOptions
	format string
	output string
}

func newCmdValidate(root *rootOptions) *cobra.Command {
	opts := &validateOptions{root: root}

	cmd := &cobra.Command{
		Use:   "validate <file|dir>...",
		Short: "Validate shortcodes in content files",
		Long: `Validate runs the render pipeline over every file and reports each failing
field. Directories are searched for .md, .html, .txt, .json and .yaml files.
JSON and YAML files are validated as block streams.

The command exits non-zero when any file fails.`,
		Example: `  # Validate a content tree
  sitecore validate content/

  # Machine readable report
  sitecore validate page.json --output json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(opts.output); err != nil {
				return err
			}
			module, _, err := buildModule(root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return runValidate(cmd, module, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "force a text format for non-stream files")
	cmd.Flags().StringVarP(&opts.output, "output", "o", OutputText, "report format: text, json")

	return cmd
}

func runValidate(cmd *cobra.Command, module *sitecore.Module, args []string, opts *validateOptions) error {
	files, err := collectFiles(cmd.Context(), args)
	if err != nil {
		return err
	}

	reports := make([]FileReport, 0, len(files))
	failed := 0
	for _, path := range files {
		report := checkFile(cmd.Context(), module, path, interfaces.TextFormat(opts.format))
		if !report.Valid {
			failed++
		}
		reports = append(reports, report)
	}

	out := cmd.OutOrStdout()
	if opts.output == OutputJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(reports); err != nil {
			return err
		}
	} else {
		for _, report := range reports {
			writeReport(out, report)
		}
		fmt.Fprintf(out, "%d file(s) checked, %d failed\n", len(reports), failed)
	}

	if failed > 0 {
		return errValidationFailed
	}
	return nil
}

var (
	passLabel = color.New(color.FgGreen).SprintFunc()
	failLabel = color.New(color.FgRed, color.Bold).SprintFunc()
	fieldText = color.New(color.FgYellow).SprintFunc()
)

func writeReport(w io.Writer, report FileReport) {
	if report.Valid {
		fmt.Fprintf(w, "%s %s (%s)\n", passLabel("ok"), report.Path, report.Format)
		return
	}
	fmt.Fprintf(w, "%s %s (%s)\n", failLabel("FAIL"), report.Path, report.Format)
	for _, field := range report.Errors {
		fmt.Fprintf(w, "  %s: %s\n", fieldText(field.Field), field.Message)
	}
}
