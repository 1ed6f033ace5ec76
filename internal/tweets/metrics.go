package tweets

import (
	"sync/atomic"
	"time"

	"github.com/goliatone/go-tweetembed/pkg/interfaces"
)

// NoOpMetrics returns a metrics recorder that drops every observation.
func NoOpMetrics() interfaces.EmbedMetrics {
	return noopMetrics{}
}

type noopMetrics struct{}

func (noopMetrics) IncrementCacheHit()                 {}
func (noopMetrics) IncrementCacheMiss()                {}
func (noopMetrics) IncrementUnavailable(string)        {}
func (noopMetrics) ObserveFetchDuration(time.Duration) {}

// Counters is an in-memory EmbedMetrics used by the CLI summary and tests.
type Counters struct {
	hits        atomic.Int64
	misses      atomic.Int64
	unavailable atomic.Int64
	fetchNanos  atomic.Int64
}

var _ interfaces.EmbedMetrics = (*Counters)(nil)

func (c *Counters) IncrementCacheHit()          { c.hits.Add(1) }
func (c *Counters) IncrementCacheMiss()         { c.misses.Add(1) }
func (c *Counters) IncrementUnavailable(string) { c.unavailable.Add(1) }

func (c *Counters) ObserveFetchDuration(d time.Duration) { c.fetchNanos.Add(int64(d)) }

// CounterSnapshot is a point-in-time copy of Counters.
type CounterSnapshot struct {
	Hits        int64
	Misses      int64
	Unavailable int64
	FetchTime   time.Duration
}

// Snapshot returns the current totals.
func (c *Counters) Snapshot() CounterSnapshot {
	return CounterSnapshot{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Unavailable: c.unavailable.Load(),
		FetchTime:   time.Duration(c.fetchNanos.Load()),
	}
}
