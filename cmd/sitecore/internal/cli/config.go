package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/goliatone/go-sitecore/internal/runtimeconfig"
)

const (
	envPrefix     = "SITECORE"
	envConfigFile = "SITECORE_CONFIG_FILE"
)

// LoadConfig overlays the config file at path and SITECORE_* variables on
// runtimeconfig.DefaultConfig. An empty path falls back to SITECORE_CONFIG_FILE;
// no file at all is not an error.
func LoadConfig(path string) (runtimeconfig.Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := runtimeconfig.DefaultConfig()
	setDefaults(v, cfg)

	if strings.TrimSpace(path) == "" {
		path = os.Getenv(envConfigFile)
	}
	if path = strings.TrimSpace(path); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return runtimeconfig.Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return runtimeconfig.Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return runtimeconfig.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can resolve it during Unmarshal.
func setDefaults(v *viper.Viper, cfg runtimeconfig.Config) {
	v.SetDefault("shortcodes.start", cfg.Shortcodes.Start)
	v.SetDefault("shortcodes.end", cfg.Shortcodes.End)
	v.SetDefault("shortcodes.escape", cfg.Shortcodes.Escape)
	v.SetDefault("shortcodes.builtins", cfg.Shortcodes.BuiltIns)
	v.SetDefault("shortcodes.max_depth", cfg.Shortcodes.MaxDepth)
	v.SetDefault("shortcodes.sanitize_output", cfg.Shortcodes.SanitizeOutput)
	v.SetDefault("shortcodes.default_format", cfg.Shortcodes.DefaultFormat)

	v.SetDefault("markdown.engine", cfg.Markdown.Engine)
	v.SetDefault("markdown.extensions", cfg.Markdown.Extensions)
	v.SetDefault("markdown.hard_wraps", cfg.Markdown.HardWraps)
	v.SetDefault("markdown.safe_mode", cfg.Markdown.SafeMode)
	v.SetDefault("markdown.sanitize", cfg.Markdown.Sanitize)

	v.SetDefault("logging.provider", cfg.Logging.Provider)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.add_source", cfg.Logging.AddSource)
	v.SetDefault("logging.focus", cfg.Logging.Focus)

	v.SetDefault("features.markdown", cfg.Features.Markdown)
	v.SetDefault("features.logger", cfg.Features.Logger)
}
