package tweets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-tweetembed/internal/logging"
	"github.com/goliatone/go-tweetembed/pkg/interfaces"
)

const (
	DefaultBaseURL   = "https://cdn.syndication.twimg.com"
	DefaultLang      = "en"
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "go-tweetembed/1.0"

	resultPath      = "/tweet-result"
	maxPayloadBytes = 4 << 20
)

// featureFlags is the fixed feature set the endpoint expects from embeds.
var featureFlags = []string{
	"tfw_timeline_list:",
	"tfw_follower_count_sunset:true",
	"tfw_tweet_edit_backend:on",
	"tfw_refsrc_session:on",
	"tfw_fosnr_soft_interventions_enabled:on",
	"tfw_show_birdwatch_pivots_enabled:on",
	"tfw_show_business_verified_badge:on",
	"tfw_duplicate_scribes_to_settings:on",
	"tfw_use_profile_image_shape_enabled:on",
	"tfw_show_blue_verified_badge:on",
	"tfw_legacy_timeline_sunset:true",
	"tfw_show_gov_verified_badge:on",
	"tfw_show_business_affiliate_badge:on",
	"tfw_tweet_edit_frontend:on",
}

// ClientConfig configures the syndication client. Zero values fall back to
// the package defaults.
type ClientConfig struct {
	BaseURL   string
	Lang      string
	Timeout   time.Duration
	UserAgent string
}

// ClientOption customises a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the HTTP client. Its Timeout is left as provided.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithClientLogger sets the logger used to report unavailable tweets.
func WithClientLogger(logger interfaces.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client fetches tweet records from the public syndication endpoint.
type Client struct {
	baseURL   string
	lang      string
	userAgent string
	http      *http.Client
	logger    interfaces.Logger
}

var _ interfaces.Fetcher = (*Client)(nil)

// NewClient builds a Client.
func NewClient(cfg ClientConfig, opts ...ClientOption) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL:   strings.TrimRight(firstNonEmpty(cfg.BaseURL, DefaultBaseURL), "/"),
		lang:      firstNonEmpty(cfg.Lang, DefaultLang),
		userAgent: firstNonEmpty(cfg.UserAgent, DefaultUserAgent),
		http:      &http.Client{Timeout: timeout},
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch performs one GET for id. Every failure is converted into an
// Unavailable outcome and logged at warn level.
func (c *Client) Fetch(ctx context.Context, id string) interfaces.Outcome {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.WithTweet(c.logger, id, "")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(id), nil)
	if err != nil {
		return c.unavailable(logger, err.Error(), transportError(err))
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return c.unavailable(logger, err.Error(), transportError(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxPayloadBytes))
		reason := fmt.Sprintf("HTTP %d", resp.StatusCode)
		return c.unavailable(logger, reason, statusError(fmt.Errorf("%w: %d", ErrHTTPStatus, resp.StatusCode), reason))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return c.unavailable(logger, err.Error(), transportError(err))
	}

	rec, err := decodePayload(body)
	switch {
	case errors.Is(err, ErrTombstone):
		return c.unavailable(logger, "tweet unavailable", tombstoneError())
	case err != nil:
		return c.unavailable(logger, err.Error(), payloadError(err))
	}

	logger.Debug("tweets.fetch.found", "screen_name", rec.User.ScreenName)
	return Found(rec)
}

func (c *Client) endpoint(id string) string {
	query := url.Values{}
	query.Set("id", id)
	query.Set("lang", c.lang)
	query.Set("features", strings.Join(featureFlags, ";"))
	query.Set("token", Token(id))
	return c.baseURL + resultPath + "?" + query.Encode()
}

func (c *Client) unavailable(logger interfaces.Logger, reason string, err error) interfaces.Outcome {
	logger.Warn("tweets.fetch.unavailable", "reason", reason, "error", err)
	return Unavailable(reason, err)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
