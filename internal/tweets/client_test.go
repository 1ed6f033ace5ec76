package tweets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-tweetembed/pkg/interfaces"
)

const samplePayload = `{
  "__typename": "Tweet",
  "id_str": "20",
  "text": "just setting up my twttr https://t.co/abc",
  "created_at": "2006-03-21T20:50:14.000Z",
  "favorite_count": 1500,
  "conversation_count": 12,
  "user": {
    "name": "jack",
    "screen_name": "jack",
    "profile_image_url_https": "https://pbs.twimg.com/profile_images/1/jack_normal.jpg",
    "is_blue_verified": true
  },
  "entities": {
    "urls": [
      {"url": "https://t.co/abc", "expanded_url": "https://example.com/post", "display_url": "example.com/post"}
    ]
  },
  "photos": [
    {"url": "https://pbs.twimg.com/media/a.jpg", "width": 600, "height": 400}
  ]
}`

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	calls := &atomic.Int32{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return server, calls
}

func TestClientFetchFound(t *testing.T) {
	var query map[string]string
	var userAgent string
	server, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tweet-result" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		query = map[string]string{}
		for key := range r.URL.Query() {
			query[key] = r.URL.Query().Get(key)
		}
		userAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(samplePayload))
	})

	client := NewClient(ClientConfig{BaseURL: server.URL + "/", UserAgent: "tweetembed-test"})
	outcome := client.Fetch(context.Background(), "20")

	if !outcome.OK() {
		t.Fatalf("expected found outcome, got %+v", outcome)
	}
	rec := outcome.Record
	if rec.User.ScreenName != "jack" || rec.FavoriteCount != 1500 || !rec.User.IsBlueVerified {
		t.Fatalf("unexpected record %+v", rec)
	}
	if len(rec.Entities.URLs) != 1 || rec.Entities.URLs[0].ExpandedURL != "https://example.com/post" {
		t.Fatalf("unexpected entities %+v", rec.Entities)
	}
	if len(rec.Photos) != 1 || rec.Photos[0].Width != 600 {
		t.Fatalf("unexpected photos %+v", rec.Photos)
	}

	if query["id"] != "20" || query["lang"] != "en" || query["token"] != "6dq1a2xwd93" {
		t.Fatalf("unexpected query %v", query)
	}
	flags := strings.Split(query["features"], ";")
	if len(flags) != 14 || flags[0] != "tfw_timeline_list:" || flags[13] != "tfw_tweet_edit_frontend:on" {
		t.Fatalf("unexpected features %v", flags)
	}
	if userAgent != "tweetembed-test" {
		t.Fatalf("expected user agent header, got %q", userAgent)
	}
}

func TestClientFetchTombstone(t *testing.T) {
	server, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"__typename":"TweetTombstone","tombstone":{"text":{"text":"This Post was deleted"}}}`))
	})

	outcome := NewClient(ClientConfig{BaseURL: server.URL}).Fetch(context.Background(), "21")

	if outcome.Status != interfaces.OutcomeUnavailable || outcome.Reason != "tweet unavailable" {
		t.Fatalf("expected tombstone outcome, got %+v", outcome)
	}
	if !goerrors.IsCategory(outcome.Err, goerrors.CategoryNotFound) {
		t.Fatalf("expected not found category, got %v", outcome.Err)
	}
}

func TestClientFetchHTTPStatus(t *testing.T) {
	server, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	})

	outcome := NewClient(ClientConfig{BaseURL: server.URL}).Fetch(context.Background(), "22")

	if outcome.OK() || outcome.Reason != "HTTP 404" {
		t.Fatalf("expected HTTP 404 outcome, got %+v", outcome)
	}
	if !goerrors.IsCategory(outcome.Err, goerrors.CategoryExternal) {
		t.Fatalf("expected external category, got %v", outcome.Err)
	}
}

func TestClientFetchInvalidPayload(t *testing.T) {
	server, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id_str":"23","text":"missing user"}`))
	})

	outcome := NewClient(ClientConfig{BaseURL: server.URL}).Fetch(context.Background(), "23")

	if outcome.OK() {
		t.Fatalf("expected schema failure, got %+v", outcome)
	}
	if !strings.Contains(outcome.Reason, "payload invalid") {
		t.Fatalf("expected payload reason, got %q", outcome.Reason)
	}
	if !goerrors.IsCategory(outcome.Err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", outcome.Err)
	}
}

func TestClientFetchMalformedJSON(t *testing.T) {
	server, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>rate limited</html>`))
	})

	outcome := NewClient(ClientConfig{BaseURL: server.URL}).Fetch(context.Background(), "24")
	if outcome.OK() || outcome.Reason == "" {
		t.Fatalf("expected unavailable outcome with reason, got %+v", outcome)
	}
}

func TestClientFetchTransportFailure(t *testing.T) {
	server, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})

	client := NewClient(ClientConfig{BaseURL: server.URL, Timeout: 20 * time.Millisecond})
	outcome := client.Fetch(context.Background(), "25")

	if outcome.OK() || outcome.Reason == "" {
		t.Fatalf("expected timeout to surface as unavailable, got %+v", outcome)
	}
	if !goerrors.IsCategory(outcome.Err, goerrors.CategoryExternal) {
		t.Fatalf("expected external category, got %v", outcome.Err)
	}
}
