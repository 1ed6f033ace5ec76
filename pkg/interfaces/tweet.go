package interfaces

import (
	"context"
	"time"

	"golang.org/x/net/html"
)

// TweetUser is the author block of a syndication record.
type TweetUser struct {
	Name                 string `json:"name"`
	ScreenName           string `json:"screen_name"`
	ProfileImageURLHTTPS string `json:"profile_image_url_https"`
	IsBlueVerified       bool   `json:"is_blue_verified,omitempty"`
}

// TweetURLEntity describes an inline link annotation. URL is the shortened
// form as it appears in the body text.
type TweetURLEntity struct {
	URL         string `json:"url"`
	ExpandedURL string `json:"expanded_url"`
	DisplayURL  string `json:"display_url"`
}

// TweetEntities groups the annotations attached to a record body.
type TweetEntities struct {
	URLs []TweetURLEntity `json:"urls,omitempty"`
}

// TweetPhoto is a single embedded image.
type TweetPhoto struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Record is the resolved data for a status identifier. Records are treated
// as immutable once decoded.
type Record struct {
	TypeName          string        `json:"__typename,omitempty"`
	ID                string        `json:"id_str"`
	Text              string        `json:"text"`
	User              TweetUser     `json:"user"`
	CreatedAt         string        `json:"created_at"`
	FavoriteCount     int           `json:"favorite_count"`
	ConversationCount int           `json:"conversation_count,omitempty"`
	Entities          TweetEntities `json:"entities"`
	Photos            []TweetPhoto  `json:"photos,omitempty"`
}

// OutcomeStatus tags an Outcome.
type OutcomeStatus string

const (
	OutcomeFound       OutcomeStatus = "found"
	OutcomeUnavailable OutcomeStatus = "unavailable"
)

// Outcome is the result of resolving an identifier. Exactly one of Record
// (Found) or Reason (Unavailable) is meaningful. Err keeps the categorised
// cause of an Unavailable outcome for diagnostics; it is never returned to
// callers as a failure.
type Outcome struct {
	Status OutcomeStatus
	Record *Record
	Reason string
	Err    error
}

// OK reports whether the outcome carries a record.
func (o Outcome) OK() bool {
	return o.Status == OutcomeFound && o.Record != nil
}

// Fetcher performs the remote lookup for one identifier. Implementations
// convert every failure into an Unavailable outcome.
type Fetcher interface {
	Fetch(ctx context.Context, id string) Outcome
}

// Resolver memoizes lookups by identifier.
type Resolver interface {
	Resolve(ctx context.Context, id string) Outcome
	Reset()
}

// TreeTransformer is the host pipeline contract: it receives a parsed
// document tree and returns the (possibly mutated) tree.
type TreeTransformer interface {
	Transform(ctx context.Context, root *html.Node) (*html.Node, error)
}

// EmbedMetrics captures resolver telemetry. Implementations must be safe for
// concurrent use.
type EmbedMetrics interface {
	IncrementCacheHit()
	IncrementCacheMiss()
	IncrementUnavailable(reason string)
	ObserveFetchDuration(duration time.Duration)
}
