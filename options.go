package tweetembed

import (
	"net/http"

	"github.com/goliatone/go-tweetembed/internal/di"
	"github.com/goliatone/go-tweetembed/pkg/interfaces"
)

// Option customises the collaborators wired by New.
type Option = di.Option

// WithLoggerProvider overrides the provider selected by Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return di.WithLoggerProvider(provider)
}

// WithHTTPClient sets the HTTP client used against the syndication endpoint.
func WithHTTPClient(client *http.Client) Option {
	return di.WithHTTPClient(client)
}

// WithFetcher replaces the syndication client, for tests or alternative
// sources.
func WithFetcher(fetcher interfaces.Fetcher) Option {
	return di.WithFetcher(fetcher)
}

// WithMetrics routes cache and fetch metrics to metrics.
func WithMetrics(metrics interfaces.EmbedMetrics) Option {
	return di.WithMetrics(metrics)
}

// WithResolver replaces the resolution cache entirely.
func WithResolver(resolver interfaces.Resolver) Option {
	return di.WithResolver(resolver)
}

// WithMarkdownParser replaces the goldmark parser.
func WithMarkdownParser(parser interfaces.MarkdownParser) Option {
	return di.WithMarkdownParser(parser)
}
