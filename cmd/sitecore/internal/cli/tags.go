package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-sitecore"
)

type tagsOptions struct {
	root   *rootOptions
	output string
}

type tagInfo struct {
	Name        string `json:"name"`
	Paired      bool   `json:"paired"`
	ClosingName string `json:"closing_name,omitempty"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
}

func newCmdTags(root *rootOptions) *cobra.Command {
	opts := &tagsOptions{root: root}

	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List registered shortcode tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateOutput(opts.output); err != nil {
				return err
			}
			module, _, err := buildModule(root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return runTags(cmd, module, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", OutputText, "output format: text, json")

	return cmd
}

func runTags(cmd *cobra.Command, module *sitecore.Module, opts *tagsOptions) error {
	defs := module.Tags()
	tags := make([]tagInfo, 0, len(defs))
	for _, def := range defs {
		tags = append(tags, tagInfo{
			Name:        def.Name,
			Paired:      def.Paired(),
			ClosingName: def.ClosingName,
			Category:    def.Category,
			Description: def.Description,
		})
	}

	out := cmd.OutOrStdout()
	if opts.output == OutputJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(tags)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKIND\tCLOSE\tDESCRIPTION")
	for _, tag := range tags {
		kind, closing := "self-closing", "-"
		if tag.Paired {
			kind, closing = "paired", tag.ClosingName
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", tag.Name, kind, closing, tag.Description)
	}
	return tw.Flush()
}
