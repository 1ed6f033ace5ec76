package di

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/goliatone/go-tweetembed/internal/card"
	"github.com/goliatone/go-tweetembed/internal/embed"
	"github.com/goliatone/go-tweetembed/internal/logging"
	"github.com/goliatone/go-tweetembed/internal/logging/console"
	"github.com/goliatone/go-tweetembed/internal/logging/gologger"
	"github.com/goliatone/go-tweetembed/internal/markdown"
	"github.com/goliatone/go-tweetembed/internal/runtimeconfig"
	"github.com/goliatone/go-tweetembed/internal/tweets"
	"github.com/goliatone/go-tweetembed/pkg/interfaces"
)

// Container wires the embed pipeline from a validated configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	httpClient     *http.Client
	fetcher        interfaces.Fetcher
	metrics        interfaces.EmbedMetrics
	resolver       interfaces.Resolver
	parser         interfaces.MarkdownParser

	cardOptions card.Options
	transformer *embed.Transformer
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected by Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithHTTPClient sets the client used by the default syndication fetcher.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Container) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithFetcher replaces the syndication fetcher.
func WithFetcher(fetcher interfaces.Fetcher) Option {
	return func(c *Container) {
		if fetcher != nil {
			c.fetcher = fetcher
		}
	}
}

// WithMetrics replaces the resolver metrics sink. Defaults to tweets.Counters.
func WithMetrics(metrics interfaces.EmbedMetrics) Option {
	return func(c *Container) {
		if metrics != nil {
			c.metrics = metrics
		}
	}
}

// WithResolver replaces the resolution cache. The fetcher is ignored.
func WithResolver(resolver interfaces.Resolver) Option {
	return func(c *Container) {
		if resolver != nil {
			c.resolver = resolver
		}
	}
}

// WithMarkdownParser replaces the goldmark parser.
func WithMarkdownParser(parser interfaces.MarkdownParser) Option {
	return func(c *Container) {
		if parser != nil {
			c.parser = parser
		}
	}
}

// NewContainer validates cfg and builds every collaborator. A defective
// marker pattern fails here rather than during a transform.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}

	pattern, err := cfg.CompilePattern()
	if err != nil {
		return nil, err
	}
	matcher, err := embed.NewMatcher(pattern, cfg.Marker.OpenLiteral(), cfg.Marker.CloseLiteral())
	if err != nil {
		return nil, err
	}
	location, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	c.cardOptions = card.Options{Theme: strings.ToLower(strings.TrimSpace(cfg.Theme)), Location: location}

	if c.metrics == nil {
		c.metrics = &tweets.Counters{}
	}
	if c.resolver == nil {
		if c.fetcher == nil {
			c.fetcher = c.newClient()
		}
		c.resolver = tweets.NewResolver(c.fetcher,
			tweets.WithMetrics(c.metrics),
			tweets.WithResolverLogger(logging.FetchLogger(c.loggerProvider)),
		)
	}
	if c.parser == nil {
		c.parser = markdown.NewGoldmarkParser(interfaces.ParseOptions{
			Extensions: cfg.Markdown.Extensions,
			HardWraps:  cfg.Markdown.HardWraps,
		})
	}

	c.transformer = embed.NewTransformer(matcher, c.resolver,
		embed.WithLogger(logging.EmbedLogger(c.loggerProvider)),
		embed.WithCardOptions(c.cardOptions),
		embed.WithMaxConcurrent(cfg.Syndication.MaxConcurrent),
	)

	logging.ModuleLogger(c.loggerProvider, logging.ModuleRoot).Debug("tweetembed.container.configured",
		"theme", c.cardOptions.Theme,
		"time_zone", location.String(),
		"syndication_base_url", cfg.Syndication.BaseURL,
		"max_concurrent", cfg.Syndication.MaxConcurrent,
	)
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return fmt.Errorf("di: configure go-logger: %w", err)
		}
		c.loggerProvider = provider
	default:
		level := console.ParseLevel(c.Config.Logging.Level)
		c.loggerProvider = console.NewProvider(console.Options{MinLevel: &level})
	}
	return nil
}

func (c *Container) newClient() *tweets.Client {
	syndication := c.Config.Syndication
	opts := []tweets.ClientOption{
		tweets.WithClientLogger(logging.FetchLogger(c.loggerProvider)),
	}
	if c.httpClient != nil {
		opts = append(opts, tweets.WithHTTPClient(c.httpClient))
	}
	return tweets.NewClient(tweets.ClientConfig{
		BaseURL:   syndication.BaseURL,
		Lang:      syndication.Lang,
		Timeout:   syndication.Timeout,
		UserAgent: syndication.UserAgent,
	}, opts...)
}

// LoggerProvider returns the configured provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Resolver returns the process-scoped resolution cache.
func (c *Container) Resolver() interfaces.Resolver {
	return c.resolver
}

// Metrics returns the resolver metrics sink.
func (c *Container) Metrics() interfaces.EmbedMetrics {
	return c.metrics
}

// Transformer returns the tree transformer.
func (c *Container) Transformer() *embed.Transformer {
	return c.transformer
}

// CardOptions returns the default card presentation.
func (c *Container) CardOptions() card.Options {
	return c.cardOptions
}

// MarkdownService returns a Markdown service rooted at contentDir, sharing the
// container's parser and transformer. An empty contentDir falls back to
// Config.Markdown.ContentDir.
func (c *Container) MarkdownService(contentDir string) (*markdown.Service, error) {
	if strings.TrimSpace(contentDir) == "" {
		contentDir = c.Config.Markdown.ContentDir
	}
	return markdown.NewService(c.markdownConfig(contentDir), c.parser, c.transformer, c.markdownLogger(contentDir))
}

// MarkdownRenderer returns a service for rendering in-memory Markdown. Its
// filesystem is the working directory.
func (c *Container) MarkdownRenderer() *markdown.Service {
	return markdown.NewServiceFS(os.DirFS("."), c.markdownConfig(""), c.parser, c.transformer, c.markdownLogger(""))
}

func (c *Container) markdownConfig(contentDir string) markdown.Config {
	return markdown.Config{
		BasePath:  contentDir,
		Pattern:   c.Config.Markdown.Pattern,
		Recursive: c.Config.Markdown.Recursive,
		Parser: interfaces.ParseOptions{
			Extensions: c.Config.Markdown.Extensions,
			HardWraps:  c.Config.Markdown.HardWraps,
		},
		Card: c.cardOptions,
	}
}

func (c *Container) markdownLogger(contentDir string) interfaces.Logger {
	logger := logging.MarkdownLogger(c.loggerProvider)
	if contentDir == "" {
		return logger
	}
	return logging.WithFields(logger, map[string]any{"content_dir": contentDir})
}
