// Package cli implements the sitecore command.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-sitecore"
	"github.com/goliatone/go-sitecore/internal/logging"
	"github.com/goliatone/go-sitecore/internal/logging/console"
	"github.com/goliatone/go-sitecore/pkg/interfaces"
)

// Output formats shared by the reporting commands.
const (
	OutputText = "text"
	OutputJSON = "json"
)

type rootOptions struct {
	configPath string
	logLevel   string
	noColor    bool
}

// NewCmdRoot creates the root command for sitecore.
func NewCmdRoot() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "sitecore",
		Short: "Render and validate shortcode content",
		Long: `sitecore expands shortcodes in rich text, Markdown and plain text files
and validates authored content before it is saved.

Configuration is read from --config (yaml, toml or json) or SITECORE_CONFIG_FILE,
and every key can be overridden with SITECORE_<SECTION>_<KEY> variables,
for example SITECORE_SHORTCODES_START or SITECORE_MARKDOWN_ENGINE.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default: SITECORE_CONFIG_FILE)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "enable console logging at level (trace, debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(newCmdRender(opts))
	cmd.AddCommand(newCmdValidate(opts))
	cmd.AddCommand(newCmdTags(opts))
	cmd.AddCommand(newCmdWatch(opts))

	return cmd
}

// buildModule loads configuration and constructs the pipeline. Console logs
// go to stderr so rendered output stays clean on stdout.
func buildModule(opts *rootOptions, stderr io.Writer) (*sitecore.Module, interfaces.Logger, error) {
	cfg, err := LoadConfig(opts.configPath)
	if err != nil {
		return nil, nil, err
	}

	var moduleOpts []sitecore.Option
	if level := strings.TrimSpace(opts.logLevel); level != "" {
		parsed, err := console.ParseLevel(level)
		if err != nil {
			return nil, nil, err
		}
		cfg.Features.Logger = true
		moduleOpts = append(moduleOpts, sitecore.WithLoggerProvider(console.NewProvider(console.Options{
			Writer:   stderr,
			MinLevel: &parsed,
			Color:    !opts.noColor,
		})))
	}

	module, err := sitecore.New(cfg, moduleOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("initialise sitecore module: %w", err)
	}
	return module, logging.CLILogger(module.Container().LoggerProvider()), nil
}

func validateOutput(output string) error {
	switch output {
	case OutputText, OutputJSON:
		return nil
	default:
		return fmt.Errorf("invalid output format %q (use text or json)", output)
	}
}
