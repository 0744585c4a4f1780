package sitecore

import "github.com/goliatone/go-sitecore/internal/runtimeconfig"

var (
	ErrDelimitersInvalid       = runtimeconfig.ErrDelimitersInvalid
	ErrMaxDepthInvalid         = runtimeconfig.ErrMaxDepthInvalid
	ErrDefaultFormatInvalid    = runtimeconfig.ErrDefaultFormatInvalid
	ErrMarkdownFeatureRequired = runtimeconfig.ErrMarkdownFeatureRequired
	ErrMarkdownEngineUnknown   = runtimeconfig.ErrMarkdownEngineUnknown
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config          = runtimeconfig.Config
	ShortcodeConfig = runtimeconfig.ShortcodeConfig
	MarkdownConfig  = runtimeconfig.MarkdownConfig
	LoggingConfig   = runtimeconfig.LoggingConfig
	Features        = runtimeconfig.Features
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
