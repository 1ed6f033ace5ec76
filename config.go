package tweetembed

import "github.com/goliatone/go-tweetembed/internal/runtimeconfig"

// DefaultPattern matches `{% twitter URL %}` markers for twitter.com and x.com.
const DefaultPattern = runtimeconfig.DefaultPattern

var (
	ErrThemeInvalid               = runtimeconfig.ErrThemeInvalid
	ErrPatternInvalid             = runtimeconfig.ErrPatternInvalid
	ErrPatternCaptureGroups       = runtimeconfig.ErrPatternCaptureGroups
	ErrMarkerLiteralRequired      = runtimeconfig.ErrMarkerLiteralRequired
	ErrSyndicationBaseURLRequired = runtimeconfig.ErrSyndicationBaseURLRequired
	ErrSyndicationTimeoutInvalid  = runtimeconfig.ErrSyndicationTimeoutInvalid
	ErrMaxConcurrentInvalid       = runtimeconfig.ErrMaxConcurrentInvalid
	ErrTimeZoneInvalid            = runtimeconfig.ErrTimeZoneInvalid
	ErrMarkdownContentDirRequired = runtimeconfig.ErrMarkdownContentDirRequired
	ErrLoggingProviderRequired    = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown     = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid        = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid       = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config            = runtimeconfig.Config
	MarkerConfig      = runtimeconfig.MarkerConfig
	SyndicationConfig = runtimeconfig.SyndicationConfig
	CardConfig        = runtimeconfig.CardConfig
	MarkdownConfig    = runtimeconfig.MarkdownConfig
	LoggingConfig     = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
