package markdown

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-tweetembed/internal/card"
	"github.com/goliatone/go-tweetembed/internal/embed"
	"github.com/goliatone/go-tweetembed/internal/runtimeconfig"
	"github.com/goliatone/go-tweetembed/internal/tweets"
	"github.com/goliatone/go-tweetembed/pkg/interfaces"
)

type stubResolver struct {
	mu      sync.Mutex
	calls   []string
	missing map[string]bool
}

func (s *stubResolver) Resolve(_ context.Context, id string) interfaces.Outcome {
	s.mu.Lock()
	s.calls = append(s.calls, id)
	s.mu.Unlock()

	if s.missing[id] {
		return tweets.Unavailable("tweet unavailable", tweets.ErrTombstone)
	}
	return tweets.Found(&interfaces.Record{
		ID:        id,
		Text:      "just setting up my twttr",
		CreatedAt: "2006-03-21T20:50:14.000Z",
		User: interfaces.TweetUser{
			Name:       "jack",
			ScreenName: "jack",
		},
	})
}

func (s *stubResolver) Reset() {}

func (s *stubResolver) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func newEmbedService(t *testing.T, files fstest.MapFS, resolver *stubResolver) *Service {
	t.Helper()
	matcher, err := embed.NewMatcher(regexp.MustCompile(runtimeconfig.DefaultPattern), "{% twitter", "%}")
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	transformer := embed.NewTransformer(matcher, resolver)
	return NewServiceFS(files, Config{
		Pattern:   "*.md",
		Recursive: true,
		Card:      card.Options{Theme: card.ThemeLight, Location: time.UTC},
	}, nil, transformer, nil)
}

func TestServiceRender_ExpandsLinkifiedMarker(t *testing.T) {
	resolver := &stubResolver{}
	svc := newEmbedService(t, fstest.MapFS{}, resolver)

	out, err := svc.Render(context.Background(), []byte("Intro\n\n{% twitter https://twitter.com/jack/status/20 %}\n\nOutro"), interfaces.RenderOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	got := string(out)
	if strings.Contains(got, "{% twitter") || strings.Contains(got, "%}") {
		t.Fatalf("expected marker to be replaced, got %q", got)
	}
	if !strings.Contains(got, "just setting up my twttr") {
		t.Fatalf("expected card body in output, got %q", got)
	}
	if !strings.Contains(got, "<p>Intro</p>") || !strings.Contains(got, "<p>Outro</p>") {
		t.Fatalf("expected surrounding paragraphs to survive, got %q", got)
	}
	if resolver.callCount() != 1 {
		t.Fatalf("expected one resolution, got %d", resolver.callCount())
	}
}

func TestServiceRender_ConsecutiveLinkifiedMarkers(t *testing.T) {
	resolver := &stubResolver{}
	svc := newEmbedService(t, fstest.MapFS{}, resolver)

	source := "{% twitter https://twitter.com/jack/status/20 %}\n{% twitter https://x.com/bob/status/21 %}"
	out, err := svc.Render(context.Background(), []byte(source), interfaces.RenderOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	got := string(out)
	if strings.Contains(got, "{% twitter") || strings.Contains(got, "%}") {
		t.Fatalf("expected both markers to be replaced, got %q", got)
	}
	if resolver.callCount() != 2 {
		t.Fatalf("expected two resolutions, got %d", resolver.callCount())
	}
}

func TestServiceRender_SingleNodeMarkerWithoutLinkify(t *testing.T) {
	resolver := &stubResolver{}
	svc := newEmbedService(t, fstest.MapFS{}, resolver)

	out, err := svc.Render(context.Background(), []byte("see {% twitter https://twitter.com/jack/status/20 %} here"), interfaces.RenderOptions{
		Parser: interfaces.ParseOptions{Extensions: []string{"table"}},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	got := string(out)
	if strings.Contains(got, "{% twitter") {
		t.Fatalf("expected marker to be replaced, got %q", got)
	}
	if !strings.HasPrefix(got, "<p>see ") || !strings.Contains(got, " here</p>") {
		t.Fatalf("expected surrounding text to be kept, got %q", got)
	}
}

func TestServiceRender_CodeSpanLeftVerbatim(t *testing.T) {
	resolver := &stubResolver{}
	svc := newEmbedService(t, fstest.MapFS{}, resolver)

	source := "`{% twitter https://twitter.com/jack/status/20 %}`"
	out, err := svc.Render(context.Background(), []byte(source), interfaces.RenderOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(out), "<code>{% twitter https://twitter.com/jack/status/20 %}</code>") {
		t.Fatalf("expected code span untouched, got %q", string(out))
	}
	if resolver.callCount() != 0 {
		t.Fatalf("expected no resolutions, got %d", resolver.callCount())
	}
}

func TestServiceRender_UnavailableTweetFallsBack(t *testing.T) {
	resolver := &stubResolver{missing: map[string]bool{"404": true}}
	svc := newEmbedService(t, fstest.MapFS{}, resolver)

	out, err := svc.Render(context.Background(), []byte("{% twitter https://x.com/ghost/status/404 %}"), interfaces.RenderOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(out), "This tweet is unavailable") {
		t.Fatalf("expected fallback card, got %q", string(out))
	}
	if !strings.Contains(string(out), `href="https://x.com/ghost/status/404"`) {
		t.Fatalf("expected fallback to link the canonical URL, got %q", string(out))
	}
}

func TestServiceRender_WithoutTransformerKeepsMarkers(t *testing.T) {
	svc := NewServiceFS(fstest.MapFS{}, Config{}, nil, nil, nil)

	out, err := svc.Render(context.Background(), []byte("{% twitter https://twitter.com/jack/status/20 %}"), interfaces.RenderOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(out), "{% twitter") {
		t.Fatalf("expected marker text to remain, got %q", string(out))
	}
}

func TestServiceRender_CancelledContext(t *testing.T) {
	svc := newEmbedService(t, fstest.MapFS{}, &stubResolver{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Render(ctx, []byte("hello"), interfaces.RenderOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestServiceLoad_UsesFrontMatterTheme(t *testing.T) {
	files := fstest.MapFS{
		"posts/launch.md": &fstest.MapFile{Data: []byte(sampleDocument), ModTime: time.Unix(1700000000, 0)},
	}
	svc := newEmbedService(t, files, &stubResolver{})

	doc, err := svc.Load(context.Background(), "posts/launch.md")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if doc.RelPath != "posts/launch.md" {
		t.Fatalf("expected relative path, got %q", doc.RelPath)
	}
	if len(doc.Checksum) != 32 {
		t.Fatalf("expected sha256 checksum, got %d bytes", len(doc.Checksum))
	}
	if !strings.Contains(string(doc.BodyHTML), "rgb(21,32,43)") {
		t.Fatalf("expected dark card background from frontmatter theme, got %q", string(doc.BodyHTML))
	}
}

func TestServiceLoad_RejectsEscapingPath(t *testing.T) {
	svc := newEmbedService(t, fstest.MapFS{}, &stubResolver{})

	if _, err := svc.Load(context.Background(), "../secret.md"); err == nil {
		t.Fatalf("expected error for path outside the base directory")
	}
}

func TestServiceLoadDirectory(t *testing.T) {
	files := fstest.MapFS{
		"index.md":      &fstest.MapFile{Data: []byte("# Home")},
		"posts/a.md":    &fstest.MapFile{Data: []byte("{% twitter https://twitter.com/jack/status/20 %}")},
		"posts/b.md":    &fstest.MapFile{Data: []byte("{% twitter https://twitter.com/jack/status/20 %}")},
		"posts/img.png": &fstest.MapFile{Data: []byte{0x89}},
		"notes.txt":     &fstest.MapFile{Data: []byte("skip")},
	}
	resolver := &stubResolver{}
	svc := newEmbedService(t, files, resolver)

	docs, err := svc.LoadDirectory(context.Background(), ".", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}

	want := []string{"index.md", "posts/a.md", "posts/b.md"}
	if len(docs) != len(want) {
		t.Fatalf("expected %d documents, got %d", len(want), len(docs))
	}
	for i, doc := range docs {
		if doc.RelPath != want[i] {
			t.Fatalf("document %d: expected %s, got %s", i, want[i], doc.RelPath)
		}
		if len(doc.BodyHTML) == 0 {
			t.Fatalf("expected BodyHTML for %s", doc.RelPath)
		}
	}
	if resolver.callCount() != 2 {
		t.Fatalf("expected one resolution per marker, got %d", resolver.callCount())
	}
}

func TestServiceLoadDirectory_Overrides(t *testing.T) {
	files := fstest.MapFS{
		"index.md":   &fstest.MapFile{Data: []byte("# Home")},
		"posts/a.md": &fstest.MapFile{Data: []byte("# A")},
	}
	svc := newEmbedService(t, files, &stubResolver{})

	no := false
	docs, err := svc.LoadDirectory(context.Background(), ".", interfaces.LoadOptions{Recursive: &no})
	if err != nil {
		t.Fatalf("LoadDirectory non-recursive: %v", err)
	}
	if len(docs) != 1 || docs[0].RelPath != "index.md" {
		t.Fatalf("expected only index.md, got %d documents", len(docs))
	}

	docs, err = svc.LoadDirectory(context.Background(), ".", interfaces.LoadOptions{Pattern: "posts/*.md"})
	if err != nil {
		t.Fatalf("LoadDirectory pattern: %v", err)
	}
	if len(docs) != 1 || docs[0].RelPath != "posts/a.md" {
		t.Fatalf("expected only posts/a.md, got %d documents", len(docs))
	}
}

func TestServiceLoadDirectory_SkipRender(t *testing.T) {
	files := fstest.MapFS{
		"posts/a.md": &fstest.MapFile{Data: []byte("---\ndraft: true\n---\n{% twitter https://twitter.com/jack/status/20 %}")},
	}
	resolver := &stubResolver{}
	svc := newEmbedService(t, files, resolver)

	docs, err := svc.LoadDirectory(context.Background(), ".", interfaces.LoadOptions{SkipRender: true})
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if len(docs) != 1 || !docs[0].FrontMatter.Draft {
		t.Fatalf("expected the parsed draft document, got %d documents", len(docs))
	}
	if len(docs[0].BodyHTML) != 0 || resolver.callCount() != 0 {
		t.Fatalf("expected no rendering and no resolutions, got %d bytes and %d calls", len(docs[0].BodyHTML), resolver.callCount())
	}
}
