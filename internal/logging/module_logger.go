package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-tweetembed/pkg/interfaces"
)

// ModuleRoot prefixes every module logger name.
const ModuleRoot = "tweetembed"

const (
	fetchModule    = ModuleRoot + ".fetch"
	embedModule    = ModuleRoot + ".embed"
	markdownModule = ModuleRoot + ".markdown"
)

const (
	fieldTweetID     = "tweet_id"
	fieldTweetURL    = "tweet_url"
	fieldDocument    = "document"
	fieldTransformID = "transform_id"
)

// ModuleLogger returns a logger scoped to module, falling back to a no-op
// logger when provider is nil or hands back nothing. The module name is
// attached as the "module" field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if strings.TrimSpace(module) == "" {
		module = ModuleRoot
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// FetchLogger returns the logger used by the syndication client and resolver.
func FetchLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, fetchModule)
}

// EmbedLogger returns the logger used by the tree scanner and rewriter.
func EmbedLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, embedModule)
}

// MarkdownLogger returns the logger used by the markdown host pipeline.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// WithTweet annotates logger with the tweet identifier and source URL.
// Empty values are skipped.
func WithTweet(logger interfaces.Logger, id, url string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(id); trimmed != "" {
		fields[fieldTweetID] = trimmed
	}
	if trimmed := strings.TrimSpace(url); trimmed != "" {
		fields[fieldTweetURL] = trimmed
	}
	return WithFields(logger, fields)
}

// WithDocument annotates logger with a document path.
func WithDocument(logger interfaces.Logger, path string) interfaces.Logger {
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		return WithFields(logger, map[string]any{fieldDocument: trimmed})
	}
	return logger
}

// WithTransform annotates logger with the correlation id of a single
// transform run.
func WithTransform(logger interfaces.Logger, transformID string) interfaces.Logger {
	if transformID == "" {
		return logger
	}
	return WithFields(logger, map[string]any{fieldTransformID: transformID})
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
