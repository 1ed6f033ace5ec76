package runtimeconfig

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
)

// DefaultPattern matches `{% twitter URL %}` markers for twitter.com and
// x.com status URLs. The single capture group yields the embed URL.
const DefaultPattern = `\{% twitter (https?://(?:twitter\.com|x\.com)/\w+/status/\d+) %\}`

var ErrThemeInvalid = errors.New("tweetembed config: theme must be light, dark or auto")
var ErrPatternInvalid = errors.New("tweetembed config: marker pattern does not compile")

// ErrPatternCaptureGroups flags a marker pattern that does not expose exactly
// one capture group for the embed URL.
var ErrPatternCaptureGroups = errors.New("tweetembed config: marker pattern must have exactly one capture group")
var ErrMarkerLiteralRequired = errors.New("tweetembed config: marker open and close literals are required")
var ErrSyndicationBaseURLRequired = errors.New("tweetembed config: syndication base url is required")
var ErrSyndicationTimeoutInvalid = errors.New("tweetembed config: syndication timeout must be zero or positive")
var ErrMaxConcurrentInvalid = errors.New("tweetembed config: max concurrent fetches must be zero or positive")
var ErrTimeZoneInvalid = errors.New("tweetembed config: card time zone is invalid")
var ErrMarkdownContentDirRequired = errors.New("tweetembed config: markdown content directory is required")
var ErrLoggingProviderRequired = errors.New("tweetembed config: logging provider is required")
var ErrLoggingProviderUnknown = errors.New("tweetembed config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("tweetembed config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("tweetembed config: logging format is invalid")

// Config aggregates the configuration surface of the embed pipeline.
type Config struct {
	Theme         string
	IncludeStyles bool
	Pattern       string
	Marker        MarkerConfig
	Syndication   SyndicationConfig
	Card          CardConfig
	Markdown      MarkdownConfig
	Logging       LoggingConfig
}

// MarkerConfig holds the literals recognised by the split form, where an
// autolinked URL separates the opening and closing literal.
type MarkerConfig struct {
	Open  string
	Close string
}

// SyndicationConfig configures the remote tweet endpoint.
type SyndicationConfig struct {
	BaseURL       string
	Lang          string
	Timeout       time.Duration
	UserAgent     string
	MaxConcurrent int
}

// CardConfig configures card rendering.
type CardConfig struct {
	TimeZone string
}

// MarkdownConfig configures the markdown host pipeline.
type MarkdownConfig struct {
	ContentDir string
	Pattern    string
	Recursive  bool
	Extensions []string
	HardWraps  bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns defaults suitable for embedding public tweets.
func DefaultConfig() Config {
	return Config{
		Theme:         "light",
		IncludeStyles: true,
		Pattern:       DefaultPattern,
		Marker: MarkerConfig{
			Open:  "{% twitter",
			Close: "%}",
		},
		Syndication: SyndicationConfig{
			BaseURL:       "https://cdn.syndication.twimg.com",
			Lang:          "en",
			Timeout:       10 * time.Second,
			UserAgent:     "go-tweetembed/1.0",
			MaxConcurrent: 0,
		},
		Card: CardConfig{
			TimeZone: "UTC",
		},
		Markdown: MarkdownConfig{
			ContentDir: "content",
			Pattern:    "*.md",
			Recursive:  true,
			Extensions: []string{"gfm", "linkify"},
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

// Validate performs consistency checks. A defective marker pattern is
// reported here so callers fail at setup rather than per marker.
func (cfg Config) Validate() error {
	if !isSupportedTheme(cfg.Theme) {
		return fmt.Errorf("%w: %s", ErrThemeInvalid, cfg.Theme)
	}
	if _, err := cfg.CompilePattern(); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Marker.Open) == "" || strings.TrimSpace(cfg.Marker.Close) == "" {
		return ErrMarkerLiteralRequired
	}
	if strings.TrimSpace(cfg.Syndication.BaseURL) == "" {
		return ErrSyndicationBaseURLRequired
	}
	if cfg.Syndication.Timeout < 0 {
		return ErrSyndicationTimeoutInvalid
	}
	if cfg.Syndication.MaxConcurrent < 0 {
		return ErrMaxConcurrentInvalid
	}
	if _, err := cfg.Location(); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Markdown.ContentDir) == "" {
		return ErrMarkdownContentDirRequired
	}

	provider := normalizeProvider(cfg.Logging.Provider)
	if provider == "" {
		return ErrLoggingProviderRequired
	}
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

// CompilePattern compiles the marker pattern, falling back to DefaultPattern
// when empty.
func (cfg Config) CompilePattern() (*regexp.Regexp, error) {
	source := cfg.Pattern
	if strings.TrimSpace(source) == "" {
		source = DefaultPattern
	}
	re, err := regexp.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPatternInvalid, err)
	}
	if re.NumSubexp() != 1 {
		return nil, fmt.Errorf("%w: got %d", ErrPatternCaptureGroups, re.NumSubexp())
	}
	return re, nil
}

// Location resolves Card.TimeZone. Empty means UTC.
func (cfg Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(cfg.Card.TimeZone)
	if name == "" || strings.EqualFold(name, "utc") {
		return time.UTC, nil
	}
	if strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTimeZoneInvalid, name)
	}
	return loc, nil
}

// OpenLiteral returns the opening marker literal with trailing whitespace
// removed.
func (m MarkerConfig) OpenLiteral() string {
	return strings.TrimRightFunc(m.Open, unicode.IsSpace)
}

// CloseLiteral returns the closing marker literal with leading whitespace
// removed.
func (m MarkerConfig) CloseLiteral() string {
	return strings.TrimLeftFunc(m.Close, unicode.IsSpace)
}

func isSupportedTheme(theme string) bool {
	switch strings.ToLower(strings.TrimSpace(theme)) {
	case "", "light", "dark", "auto":
		return true
	default:
		return false
	}
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
