package embed

import (
	"context"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/goliatone/go-tweetembed/internal/card"
	"github.com/goliatone/go-tweetembed/internal/logging"
	"github.com/goliatone/go-tweetembed/pkg/interfaces"
)

const (
	CodeFragmentInvalid = "EMBED_FRAGMENT_INVALID"
	CodeRenderFailed    = "EMBED_RENDER_FAILED"
	CodeRewriteFailed   = "EMBED_REWRITE_FAILED"
)

// Option customises a Transformer.
type Option func(*Transformer)

// WithLogger sets the transformer logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(t *Transformer) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithCardOptions sets the default card presentation.
func WithCardOptions(opts card.Options) Option {
	return func(t *Transformer) {
		t.cardOptions = opts
	}
}

// WithMaxConcurrent bounds in-flight resolutions per transform. Zero means
// one goroutine per marker.
func WithMaxConcurrent(n int) Option {
	return func(t *Transformer) {
		if n < 0 {
			n = 0
		}
		t.maxConcurrent = n
	}
}

// WithFragmentParser replaces ParseFragment.
func WithFragmentParser(parse FragmentParser) Option {
	return func(t *Transformer) {
		if parse != nil {
			t.parse = parse
		}
	}
}

// WithRenderer replaces the card renderer.
func WithRenderer(renderer *card.Renderer) Option {
	return func(t *Transformer) {
		if renderer != nil {
			t.renderer = renderer
		}
	}
}

// Transformer rewrites markers in a document tree into tweet cards.
type Transformer struct {
	matcher       *Matcher
	resolver      interfaces.Resolver
	renderer      *card.Renderer
	parse         FragmentParser
	cardOptions   card.Options
	maxConcurrent int
	logger        interfaces.Logger
}

var _ interfaces.TreeTransformer = (*Transformer)(nil)

// NewTransformer wires a matcher and a resolver.
func NewTransformer(matcher *Matcher, resolver interfaces.Resolver, opts ...Option) *Transformer {
	if matcher == nil || resolver == nil {
		panic("embed: matcher and resolver are required")
	}
	t := &Transformer{
		matcher:  matcher,
		resolver: resolver,
		renderer: card.NewRenderer(),
		parse:    ParseFragment,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transform rewrites root in place using the default card options.
func (t *Transformer) Transform(ctx context.Context, root *html.Node) (*html.Node, error) {
	return t.TransformWithOptions(ctx, root, t.cardOptions)
}

// TransformWithOptions rewrites root in place. A tree without markers is
// returned untouched without resolving anything. An unavailable tweet only
// affects its own marker; the returned error is reserved for generated markup
// that cannot be parsed back into nodes.
//
// Markers left in text produced by a rewrite, such as a second marker after
// the closing literal of a linkified one, are picked up by further passes.
// Inserted cards are never rescanned, so every pass consumes source text and
// the loop ends.
func (t *Transformer) TransformWithOptions(ctx context.Context, root *html.Node, opts card.Options) (*html.Node, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	pending := t.matcher.Scan(root)
	if len(pending) == 0 {
		return root, nil
	}

	transformID := uuid.NewString()
	ctx = logging.ContextWithFields(ctx, map[string]any{"transform_id": transformID})
	logger := logging.WithTransform(t.logger, transformID)

	cards := make(map[*html.Node]bool)
	markers, found, passes := 0, 0, 0
	for len(pending) > 0 {
		passes++
		logger.Debug("embed.transform.scanned", "markers", len(pending), "pass", passes)

		n, err := t.rewritePass(ctx, logger, pending, opts, cards)
		if err != nil {
			return nil, err
		}
		markers += len(pending)
		found += n
		pending = t.matcher.scan(root, cards)
	}

	logger.Info("embed.transform.completed",
		"markers", markers,
		"found", found,
		"unavailable", markers-found,
		"passes", passes,
	)
	return root, nil
}

// rewritePass resolves, renders and splices one scan's markers. Top-level
// card nodes are recorded in cards. It returns the number of found tweets.
func (t *Transformer) rewritePass(ctx context.Context, logger interfaces.Logger, pending []Pending, opts card.Options, cards map[*html.Node]bool) (int, error) {
	outcomes := t.resolveAll(ctx, pending)

	fragments := make([][]*html.Node, len(pending))
	found := 0
	for i, p := range pending {
		if outcomes[i].OK() {
			found++
		}
		markup, err := t.render(logging.WithTweet(logger, p.ID, p.URL), outcomes[i], p.URL, opts)
		if err != nil {
			return 0, goerrors.Wrap(err, goerrors.CategoryInternal, "tweet card could not be rendered").
				WithTextCode(CodeRenderFailed)
		}
		nodes, err := t.parse(markup)
		if err != nil {
			return 0, goerrors.Wrap(err, goerrors.CategoryInternal, "generated card markup did not parse").
				WithTextCode(CodeFragmentInvalid)
		}
		fragments[i] = nodes
	}

	for i := len(pending) - 1; i >= 0; i-- {
		if err := t.matcher.apply(pending[i], fragments[i]); err != nil {
			return 0, goerrors.Wrap(err, goerrors.CategoryInternal, "tree rewrite failed").
				WithTextCode(CodeRewriteFailed)
		}
		for _, n := range fragments[i] {
			cards[n] = true
		}
	}
	return found, nil
}

// resolveAll resolves every pending marker concurrently and returns the
// outcomes in discovery order.
func (t *Transformer) resolveAll(ctx context.Context, pending []Pending) []interfaces.Outcome {
	outcomes := make([]interfaces.Outcome, len(pending))

	var slots chan struct{}
	if t.maxConcurrent > 0 {
		slots = make(chan struct{}, t.maxConcurrent)
	}

	var wg sync.WaitGroup
	for i := range pending {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if slots != nil {
				slots <- struct{}{}
				defer func() { <-slots }()
			}
			outcomes[i] = t.resolver.Resolve(ctx, pending[i].ID)
		}()
	}
	wg.Wait()
	return outcomes
}

func (t *Transformer) render(logger interfaces.Logger, outcome interfaces.Outcome, url string, opts card.Options) (string, error) {
	if outcome.OK() {
		markup, err := t.renderer.Render(*outcome.Record, url, opts)
		if err == nil {
			return markup, nil
		}
		logger.Error("embed.render.failed", "error", err)
	} else {
		logger.Debug("embed.render.fallback", "reason", outcome.Reason)
	}
	return t.renderer.Fallback(url)
}
