package buildcmd

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-tweetembed/internal/commands"
	"github.com/goliatone/go-tweetembed/internal/identity"
	"github.com/goliatone/go-tweetembed/internal/logging"
	"github.com/goliatone/go-tweetembed/pkg/interfaces"
)

const buildOperation = "build.site"

// ServiceFactory returns a Markdown service rooted at contentDir.
type ServiceFactory func(contentDir string) (interfaces.MarkdownService, error)

// Report summarises a build run. Documents counts every matched file;
// DocumentIDs maps each of their RelPaths to a stable document id.
type Report struct {
	Documents   int
	Written     []string
	Skipped     []string
	DocumentIDs map[string]string
}

var _ command.Commander[BuildSiteCommand] = (*BuildSiteHandler)(nil)

// BuildSiteHandler renders content directories through the shared command
// handler foundation.
type BuildSiteHandler struct {
	inner    *commands.Handler[BuildSiteCommand]
	onReport func(BuildSiteCommand, Report)
}

// NewBuildSiteHandler creates a handler using factory for each run. onReport,
// when set, receives the summary of every successful run.
func NewBuildSiteHandler(factory ServiceFactory, logger interfaces.Logger, onReport func(BuildSiteCommand, Report), opts ...commands.HandlerOption[BuildSiteCommand]) *BuildSiteHandler {
	if factory == nil {
		panic("buildcmd: service factory cannot be nil")
	}
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	h := &BuildSiteHandler{onReport: onReport}

	exec := func(ctx context.Context, msg BuildSiteCommand) error {
		service, err := factory(msg.ContentDir)
		if err != nil {
			return err
		}

		// Drafts are filtered before rendering so skipped documents never
		// resolve tweets.
		docs, err := service.LoadDirectory(ctx, ".", interfaces.LoadOptions{Pattern: msg.Pattern, SkipRender: true})
		if err != nil {
			return err
		}

		report := Report{Documents: len(docs), DocumentIDs: make(map[string]string, len(docs))}
		for _, doc := range docs {
			documentID := identity.DocumentUUID(doc.RelPath).String()
			report.DocumentIDs[doc.RelPath] = documentID
			if doc.FrontMatter.Draft && !msg.IncludeDrafts {
				report.Skipped = append(report.Skipped, doc.RelPath)
				continue
			}
			if _, err := service.RenderDocument(ctx, doc); err != nil {
				return err
			}
			target := OutputPath(msg.OutputDir, doc)
			if !msg.DryRun {
				if err := writeDocument(target, doc.BodyHTML); err != nil {
					return err
				}
			}
			logging.WithDocument(baseLogger, doc.RelPath).Debug("build.site.document.written", "document_id", documentID, "target", target, "dry_run", msg.DryRun)
			report.Written = append(report.Written, target)
		}

		logging.WithFields(baseLogger, map[string]any{
			"document_count": report.Documents,
			"written_count":  len(report.Written),
			"skipped_count":  len(report.Skipped),
			"dry_run":        msg.DryRun,
		}).Info("build.site.completed")

		if h.onReport != nil {
			h.onReport(msg, report)
		}
		return nil
	}

	base := []commands.HandlerOption[BuildSiteCommand]{
		commands.WithLogger[BuildSiteCommand](baseLogger),
		commands.WithOperation[BuildSiteCommand](buildOperation),
		commands.WithMessageFields(func(msg BuildSiteCommand) map[string]any {
			fields := map[string]any{
				"content_dir": msg.ContentDir,
				"output_dir":  msg.OutputDir,
			}
			if msg.Pattern != "" {
				fields["pattern"] = msg.Pattern
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
	}
	h.inner = commands.NewHandler(exec, append(base, opts...)...)
	return h
}

// Execute satisfies command.Commander[BuildSiteCommand].
func (h *BuildSiteHandler) Execute(ctx context.Context, msg BuildSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}

// OutputPath maps a document to its HTML file. The frontmatter slug, when
// present, replaces the file name; the directory always mirrors RelPath.
func OutputPath(outputDir string, doc *interfaces.Document) string {
	rel := doc.RelPath
	if rel == "" {
		rel = filepath.ToSlash(doc.FilePath)
	}
	dir := path.Dir(rel)
	name := strings.TrimSuffix(path.Base(rel), path.Ext(rel))
	if raw := strings.TrimSpace(doc.FrontMatter.Slug); raw != "" {
		if normalized, err := slug.Normalize(raw); err == nil && normalized != "" {
			name = normalized
		}
	}
	return filepath.Join(outputDir, filepath.FromSlash(dir), name+".html")
}

func writeDocument(target string, body []byte) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("build site: create %s: %w", filepath.Dir(target), err)
	}
	if err := os.WriteFile(target, body, 0o644); err != nil {
		return fmt.Errorf("build site: write %s: %w", target, err)
	}
	return nil
}
