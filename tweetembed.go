// Package tweetembed turns `{% twitter URL %}` markers in HTML document trees
// into static, inline-styled tweet cards. Tweets are resolved against the
// public syndication endpoint once per process; unavailable tweets render a
// fallback card linking to the original post.
package tweetembed

import (
	"bytes"
	"context"
	"path/filepath"

	"golang.org/x/net/html"

	"github.com/goliatone/go-tweetembed/internal/card"
	"github.com/goliatone/go-tweetembed/internal/commands"
	buildcmd "github.com/goliatone/go-tweetembed/internal/commands/build"
	"github.com/goliatone/go-tweetembed/internal/di"
	"github.com/goliatone/go-tweetembed/internal/tweets"
	"github.com/goliatone/go-tweetembed/pkg/interfaces"
)

type (
	Record           = interfaces.Record
	Outcome          = interfaces.Outcome
	Document         = interfaces.Document
	RenderOptions    = interfaces.RenderOptions
	CardOptions      = card.Options
	BuildSiteCommand = buildcmd.BuildSiteCommand
	BuildReport      = buildcmd.Report
	MetricsSnapshot  = tweets.CounterSnapshot
)

// Module is the runtime façade over the embed pipeline.
type Module struct {
	container *di.Container
}

// New validates cfg and wires the pipeline. A marker pattern without exactly
// one capture group is rejected here.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Transform rewrites every marker in root in place using the configured theme
// and returns root.
func (m *Module) Transform(ctx context.Context, root *html.Node) (*html.Node, error) {
	return m.container.Transformer().Transform(ctx, root)
}

// TransformWithOptions rewrites root with an explicit card presentation.
func (m *Module) TransformWithOptions(ctx context.Context, root *html.Node, opts CardOptions) (*html.Node, error) {
	if opts.Location == nil {
		opts.Location = m.container.CardOptions().Location
	}
	return m.container.Transformer().TransformWithOptions(ctx, root, opts)
}

// TransformHTML parses a full HTML document, rewrites its markers and
// serialises it back.
func (m *Module) TransformHTML(ctx context.Context, document []byte) ([]byte, error) {
	root, err := html.Parse(bytes.NewReader(document))
	if err != nil {
		return nil, err
	}
	if _, err := m.Transform(ctx, root); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Render converts Markdown into HTML with markers expanded.
func (m *Module) Render(ctx context.Context, markdown []byte, opts RenderOptions) ([]byte, error) {
	return m.container.MarkdownRenderer().Render(ctx, markdown, opts)
}

// RenderFile loads a Markdown file, honouring its frontmatter theme, and
// returns the document with BodyHTML populated.
func (m *Module) RenderFile(ctx context.Context, path string) (*Document, error) {
	svc, err := m.container.MarkdownService(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	return svc.Load(ctx, filepath.Base(path))
}

// BuildSiteHandler returns a go-command handler rendering content
// directories. onReport may be nil.
func (m *Module) BuildSiteHandler(onReport func(BuildSiteCommand, BuildReport)) *buildcmd.BuildSiteHandler {
	factory := func(contentDir string) (interfaces.MarkdownService, error) {
		return m.container.MarkdownService(contentDir)
	}
	return buildcmd.NewBuildSiteHandler(factory, commands.CommandLogger(m.container.LoggerProvider(), "build"), onReport)
}

// BuildSite runs cmd synchronously and returns its report.
func (m *Module) BuildSite(ctx context.Context, cmd BuildSiteCommand) (BuildReport, error) {
	var report BuildReport
	handler := m.BuildSiteHandler(func(_ BuildSiteCommand, r BuildReport) {
		report = r
	})
	if err := handler.Execute(ctx, cmd); err != nil {
		return BuildReport{}, err
	}
	return report, nil
}

// ResetCache forgets every resolved outcome.
func (m *Module) ResetCache() {
	m.container.Resolver().Reset()
}

// Metrics returns resolver totals when the default counters are in use.
func (m *Module) Metrics() MetricsSnapshot {
	if counters, ok := m.container.Metrics().(*tweets.Counters); ok {
		return counters.Snapshot()
	}
	return MetricsSnapshot{}
}
