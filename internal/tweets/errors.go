package tweets

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-tweetembed/pkg/interfaces"
)

const (
	CodeTransportFailed = "TWEET_TRANSPORT_FAILED"
	CodeHTTPStatus      = "TWEET_HTTP_STATUS"
	CodeTombstone       = "TWEET_TOMBSTONE"
	CodePayloadInvalid  = "TWEET_PAYLOAD_INVALID"
)

var (
	ErrHTTPStatus     = errors.New("tweets: unexpected http status")
	ErrTombstone      = errors.New("tweets: tweet unavailable")
	ErrPayloadInvalid = errors.New("tweets: payload invalid")
)

// Found wraps a decoded record.
func Found(rec *interfaces.Record) interfaces.Outcome {
	return interfaces.Outcome{Status: interfaces.OutcomeFound, Record: rec}
}

// Unavailable builds the negative outcome. reason is the diagnostic shown in
// logs; err keeps the categorised cause.
func Unavailable(reason string, err error) interfaces.Outcome {
	return interfaces.Outcome{Status: interfaces.OutcomeUnavailable, Reason: reason, Err: err}
}

func transportError(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryExternal, "syndication request failed").
		WithTextCode(CodeTransportFailed)
}

func statusError(err error, reason string) error {
	return goerrors.Wrap(err, goerrors.CategoryExternal, reason).
		WithTextCode(CodeHTTPStatus)
}

func tombstoneError() error {
	return goerrors.Wrap(ErrTombstone, goerrors.CategoryNotFound, "tweet unavailable").
		WithTextCode(CodeTombstone)
}

func payloadError(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, "syndication payload invalid").
		WithTextCode(CodePayloadInvalid)
}
