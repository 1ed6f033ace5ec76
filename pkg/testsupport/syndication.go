// Package testsupport provides fixtures shared by package tests.
package testsupport

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// TombstonePayload is the body the syndication endpoint returns for deleted
// or withheld tweets.
const TombstonePayload = `{"__typename":"TweetTombstone","tombstone":{"text":{"text":"This Post was deleted"}}}`

// SyndicationServer fakes the tweet-result endpoint. Identifiers missing
// from Payloads answer HTTP 404.
type SyndicationServer struct {
	*httptest.Server
	Payloads map[string]string
	calls    atomic.Int32
}

// NewSyndicationServer starts a fake endpoint serving payloads keyed by tweet
// id. The server is closed when t completes.
func NewSyndicationServer(t testing.TB, payloads map[string]string) *SyndicationServer {
	t.Helper()
	s := &SyndicationServer{Payloads: payloads}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Calls reports how many requests reached the endpoint.
func (s *SyndicationServer) Calls() int {
	return int(s.calls.Load())
}

func (s *SyndicationServer) serve(w http.ResponseWriter, r *http.Request) {
	s.calls.Add(1)
	payload, ok := s.Payloads[r.URL.Query().Get("id")]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(payload))
}
