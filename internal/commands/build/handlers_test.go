package buildcmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-tweetembed/internal/identity"
	"github.com/goliatone/go-tweetembed/pkg/interfaces"
)

type stubMarkdownService struct {
	docs       []*interfaces.Document
	err        error
	patterns   []string
	skipRender []bool
	rendered   []string
}

func (s *stubMarkdownService) Load(context.Context, string) (*interfaces.Document, error) {
	return nil, nil
}

func (s *stubMarkdownService) LoadDirectory(_ context.Context, _ string, opts interfaces.LoadOptions) ([]*interfaces.Document, error) {
	s.patterns = append(s.patterns, opts.Pattern)
	s.skipRender = append(s.skipRender, opts.SkipRender)
	if s.err != nil {
		return nil, s.err
	}
	return s.docs, nil
}

func (s *stubMarkdownService) Render(context.Context, []byte, interfaces.RenderOptions) ([]byte, error) {
	return nil, nil
}

func (s *stubMarkdownService) RenderDocument(_ context.Context, doc *interfaces.Document) ([]byte, error) {
	s.rendered = append(s.rendered, doc.RelPath)
	return doc.BodyHTML, nil
}

func factoryFor(svc interfaces.MarkdownService, dirs *[]string) ServiceFactory {
	return func(contentDir string) (interfaces.MarkdownService, error) {
		if dirs != nil {
			*dirs = append(*dirs, contentDir)
		}
		return svc, nil
	}
}

func TestBuildSiteHandlerWritesDocuments(t *testing.T) {
	out := t.TempDir()
	svc := &stubMarkdownService{docs: []*interfaces.Document{
		{RelPath: "index.md", BodyHTML: []byte("<h1>Home</h1>")},
		{RelPath: "posts/launch.md", FrontMatter: interfaces.FrontMatter{Slug: "launch-notes"}, BodyHTML: []byte("<div>card</div>")},
		{RelPath: "posts/wip.md", FrontMatter: interfaces.FrontMatter{Draft: true}, BodyHTML: []byte("draft")},
	}}

	var dirs []string
	var report Report
	handler := NewBuildSiteHandler(factoryFor(svc, &dirs), nil, func(_ BuildSiteCommand, r Report) {
		report = r
	})

	err := handler.Execute(context.Background(), BuildSiteCommand{ContentDir: "content", OutputDir: out, Pattern: "*.md"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(dirs) != 1 || dirs[0] != "content" {
		t.Fatalf("expected factory to receive the content dir, got %v", dirs)
	}
	if len(svc.patterns) != 1 || svc.patterns[0] != "*.md" {
		t.Fatalf("expected pattern override to be forwarded, got %v", svc.patterns)
	}

	home, err := os.ReadFile(filepath.Join(out, "index.html"))
	if err != nil || string(home) != "<h1>Home</h1>" {
		t.Fatalf("unexpected index.html: %q, %v", home, err)
	}
	card, err := os.ReadFile(filepath.Join(out, "posts", "launch-notes.html"))
	if err != nil || string(card) != "<div>card</div>" {
		t.Fatalf("unexpected launch-notes.html: %q, %v", card, err)
	}
	if _, err := os.Stat(filepath.Join(out, "posts", "wip.html")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected draft to be skipped, stat err %v", err)
	}

	if report.Documents != 3 || len(report.Written) != 2 || len(report.Skipped) != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	if len(svc.skipRender) != 1 || !svc.skipRender[0] {
		t.Fatalf("expected documents to be loaded without rendering, got %v", svc.skipRender)
	}
	if strings.Join(svc.rendered, ",") != "index.md,posts/launch.md" {
		t.Fatalf("expected only published documents to be rendered, got %v", svc.rendered)
	}
	if len(report.DocumentIDs) != 3 || report.DocumentIDs["posts/wip.md"] != identity.DocumentUUID("posts/wip.md").String() {
		t.Fatalf("expected a stable id per rendered document, got %v", report.DocumentIDs)
	}
}

func TestBuildSiteHandlerIncludeDrafts(t *testing.T) {
	out := t.TempDir()
	svc := &stubMarkdownService{docs: []*interfaces.Document{
		{RelPath: "wip.md", FrontMatter: interfaces.FrontMatter{Draft: true}, BodyHTML: []byte("draft")},
	}}
	handler := NewBuildSiteHandler(factoryFor(svc, nil), nil, nil)

	if err := handler.Execute(context.Background(), BuildSiteCommand{ContentDir: "content", OutputDir: out, IncludeDrafts: true}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "wip.html")); err != nil {
		t.Fatalf("expected draft to be written: %v", err)
	}
}

func TestBuildSiteHandlerDryRunWritesNothing(t *testing.T) {
	out := filepath.Join(t.TempDir(), "public")
	svc := &stubMarkdownService{docs: []*interfaces.Document{
		{RelPath: "index.md", BodyHTML: []byte("<p>x</p>")},
	}}

	var report Report
	handler := NewBuildSiteHandler(factoryFor(svc, nil), nil, func(_ BuildSiteCommand, r Report) { report = r })
	if err := handler.Execute(context.Background(), BuildSiteCommand{ContentDir: "content", OutputDir: out, DryRun: true}); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no output directory in dry run, stat err %v", err)
	}
	if len(report.Written) != 1 || report.Written[0] != filepath.Join(out, "index.html") {
		t.Fatalf("expected planned target in report, got %+v", report)
	}
}

func TestBuildSiteHandlerValidationFailure(t *testing.T) {
	called := false
	handler := NewBuildSiteHandler(func(string) (interfaces.MarkdownService, error) {
		called = true
		return &stubMarkdownService{}, nil
	}, nil, nil)

	err := handler.Execute(context.Background(), BuildSiteCommand{})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatalf("expected factory not to be called")
	}
}

func TestBuildSiteHandlerPropagatesLoadError(t *testing.T) {
	svc := &stubMarkdownService{err: errors.New("walk failed")}
	handler := NewBuildSiteHandler(factoryFor(svc, nil), nil, nil)

	err := handler.Execute(context.Background(), BuildSiteCommand{ContentDir: "content", OutputDir: t.TempDir()})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestOutputPath(t *testing.T) {
	cases := []struct {
		doc  *interfaces.Document
		want string
	}{
		{doc: &interfaces.Document{RelPath: "index.md"}, want: filepath.Join("public", "index.html")},
		{doc: &interfaces.Document{RelPath: "a/b/c.markdown"}, want: filepath.Join("public", "a", "b", "c.html")},
		{doc: &interfaces.Document{RelPath: "a/post.md", FrontMatter: interfaces.FrontMatter{Slug: "hello-world"}}, want: filepath.Join("public", "a", "hello-world.html")},
	}
	for _, tc := range cases {
		if got := OutputPath("public", tc.doc); got != tc.want {
			t.Fatalf("OutputPath(%s) = %s, want %s", tc.doc.RelPath, got, tc.want)
		}
	}
}
