package tweets

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-tweetembed/internal/logging"
	"github.com/goliatone/go-tweetembed/pkg/interfaces"
)

// ResolverOption customises a Resolver.
type ResolverOption func(*Resolver)

// WithMetrics sets the metrics recorder.
func WithMetrics(metrics interfaces.EmbedMetrics) ResolverOption {
	return func(r *Resolver) {
		if metrics != nil {
			r.metrics = metrics
		}
	}
}

// WithResolverLogger sets the resolver logger.
func WithResolverLogger(logger interfaces.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Resolver memoizes fetch outcomes by identifier for the lifetime of the
// process, unavailable outcomes included. Entries are written once and only
// removed by Reset.
type Resolver struct {
	fetcher interfaces.Fetcher
	metrics interfaces.EmbedMetrics
	logger  interfaces.Logger
	now     func() time.Time

	mu      sync.RWMutex
	entries map[string]interfaces.Outcome
}

var _ interfaces.Resolver = (*Resolver)(nil)

// NewResolver wraps fetcher with a write-once cache.
func NewResolver(fetcher interfaces.Fetcher, opts ...ResolverOption) *Resolver {
	if fetcher == nil {
		panic("tweets: fetcher cannot be nil")
	}
	r := &Resolver{
		fetcher: fetcher,
		metrics: NoOpMetrics(),
		logger:  logging.NoOp(),
		now:     time.Now,
		entries: make(map[string]interfaces.Outcome),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the cached outcome for id, fetching it on a miss. Two
// concurrent misses for the same id may both fetch; the first stored outcome
// wins and both callers receive it.
func (r *Resolver) Resolve(ctx context.Context, id string) interfaces.Outcome {
	if ctx == nil {
		ctx = context.Background()
	}
	if outcome, ok := r.lookup(id); ok {
		r.metrics.IncrementCacheHit()
		return outcome
	}
	r.metrics.IncrementCacheMiss()

	started := r.now()
	outcome := r.fetcher.Fetch(ctx, id)
	r.metrics.ObserveFetchDuration(r.now().Sub(started))
	if !outcome.OK() {
		r.metrics.IncrementUnavailable(outcome.Reason)
	}

	// A cancelled caller says nothing about the tweet itself.
	if ctx.Err() != nil && !outcome.OK() {
		logging.WithTweet(r.logger, id, "").Debug("tweets.resolve.not_cached", "error", ctx.Err())
		return outcome
	}
	return r.store(id, outcome)
}

// Reset drops every cached outcome.
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.entries)
}

// Len reports the number of cached identifiers.
func (r *Resolver) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func (r *Resolver) lookup(id string) (interfaces.Outcome, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	outcome, ok := r.entries[id]
	return outcome, ok
}

func (r *Resolver) store(id string, outcome interfaces.Outcome) interfaces.Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.entries[id]; ok {
		return existing
	}
	r.entries[id] = outcome
	return outcome
}
