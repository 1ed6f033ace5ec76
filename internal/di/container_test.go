package di

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"golang.org/x/net/html"

	"github.com/goliatone/go-tweetembed/internal/logging/gologger"
	"github.com/goliatone/go-tweetembed/internal/runtimeconfig"
	"github.com/goliatone/go-tweetembed/internal/tweets"
	"github.com/goliatone/go-tweetembed/pkg/interfaces"
)

type countingFetcher struct {
	mu    sync.Mutex
	calls []string
}

func (f *countingFetcher) Fetch(_ context.Context, id string) interfaces.Outcome {
	f.mu.Lock()
	f.calls = append(f.calls, id)
	f.mu.Unlock()
	return tweets.Found(&interfaces.Record{
		ID:        id,
		Text:      "hello",
		CreatedAt: "2024-01-02T15:04:05.000Z",
		User:      interfaces.TweetUser{Name: "Jack", ScreenName: "jack"},
	})
}

type recordingProvider struct {
	mu      sync.Mutex
	entries []string
}

func (p *recordingProvider) GetLogger(string) interfaces.Logger {
	return &recordingLogger{provider: p}
}

type recordingLogger struct {
	provider *recordingProvider
}

func (l *recordingLogger) record(msg string) {
	l.provider.mu.Lock()
	defer l.provider.mu.Unlock()
	l.provider.entries = append(l.provider.entries, msg)
}

func (l *recordingLogger) Trace(msg string, _ ...any)                   { l.record(msg) }
func (l *recordingLogger) Debug(msg string, _ ...any)                   { l.record(msg) }
func (l *recordingLogger) Info(msg string, _ ...any)                    { l.record(msg) }
func (l *recordingLogger) Warn(msg string, _ ...any)                    { l.record(msg) }
func (l *recordingLogger) Error(msg string, _ ...any)                   { l.record(msg) }
func (l *recordingLogger) Fatal(msg string, _ ...any)                   { l.record(msg) }
func (l *recordingLogger) WithContext(context.Context) interfaces.Logger { return l }

func (p *recordingProvider) has(msg string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, entry := range p.entries {
		if entry == msg {
			return true
		}
	}
	return false
}

func TestNewContainerRejectsInvalidPattern(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Pattern = `\{% twitter \S+ %\}`

	if _, err := NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrPatternCaptureGroups) {
		t.Fatalf("expected ErrPatternCaptureGroups, got %v", err)
	}
}

func TestNewContainerDefaultsToConsoleProvider(t *testing.T) {
	container, err := NewContainer(runtimeconfig.DefaultConfig())
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if container.LoggerProvider() == nil {
		t.Fatal("expected logger provider")
	}
	if _, ok := container.LoggerProvider().(*gologger.Provider); ok {
		t.Fatalf("expected console provider by default")
	}
	if _, ok := container.Metrics().(*tweets.Counters); !ok {
		t.Fatalf("expected counters as default metrics, got %T", container.Metrics())
	}
}

func TestNewContainerUsesGoLoggerProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "json"

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if _, ok := container.loggerProvider.(*gologger.Provider); !ok {
		t.Fatalf("expected go-logger provider, got %T", container.loggerProvider)
	}
}

func TestContainerTransformerUsesInjectedFetcher(t *testing.T) {
	fetcher := &countingFetcher{}
	provider := &recordingProvider{}
	container, err := NewContainer(runtimeconfig.DefaultConfig(), WithFetcher(fetcher), WithLoggerProvider(provider))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}

	for range 2 {
		doc, err := html.Parse(strings.NewReader("<p>{% twitter https://twitter.com/jack/status/20 %}</p>"))
		if err != nil {
			t.Fatalf("html.Parse: %v", err)
		}
		if _, err := container.Transformer().Transform(context.Background(), doc); err != nil {
			t.Fatalf("Transform: %v", err)
		}
	}

	if len(fetcher.calls) != 1 {
		t.Fatalf("expected cached resolution across transforms, got %d fetches", len(fetcher.calls))
	}
	snapshot := container.Metrics().(*tweets.Counters).Snapshot()
	if snapshot.Hits != 1 || snapshot.Misses != 1 {
		t.Fatalf("unexpected metrics %+v", snapshot)
	}
	if !provider.has("tweetembed.container.configured") || !provider.has("embed.transform.completed") {
		t.Fatalf("expected container and transform log entries, got %v", provider.entries)
	}
}

func TestContainerMarkdownService(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "post.md"), []byte("{% twitter https://twitter.com/jack/status/20 %}"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	container, err := NewContainer(runtimeconfig.DefaultConfig(), WithFetcher(&countingFetcher{}))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	svc, err := container.MarkdownService(dir)
	if err != nil {
		t.Fatalf("MarkdownService: %v", err)
	}

	doc, err := svc.Load(context.Background(), "post.md")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !strings.Contains(string(doc.BodyHTML), "@jack") {
		t.Fatalf("expected rendered card, got %q", string(doc.BodyHTML))
	}
}
