package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"

	"github.com/goliatone/go-tweetembed"
)

var moduleBuilder = tweetembed.New

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("tweetembed: %v", err)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	defaults := tweetembed.DefaultConfig()

	fs := flag.NewFlagSet("tweetembed", flag.ContinueOnError)
	var (
		filePath      = fs.String("file", "", "Markdown file to render to stdout")
		contentDir    = fs.String("content-dir", defaults.Markdown.ContentDir, "Markdown content root for site builds")
		outputDir     = fs.String("out", "public", "Output directory for site builds")
		pattern       = fs.String("pattern", defaults.Markdown.Pattern, "Glob applied when discovering markdown files")
		theme         = fs.String("theme", defaults.Theme, "Card theme: light, dark or auto")
		markerPattern = fs.String("marker-pattern", defaults.Pattern, "Marker regular expression with one capture group for the URL")
		endpoint      = fs.String("endpoint", defaults.Syndication.BaseURL, "Syndication endpoint base URL")
		timeout       = fs.Duration("timeout", defaults.Syndication.Timeout, "Per-request syndication timeout")
		maxConcurrent = fs.Int("max-concurrent", defaults.Syndication.MaxConcurrent, "Bound on in-flight fetches per document (0 = unbounded)")
		timeZone      = fs.String("tz", defaults.Card.TimeZone, "Time zone for card timestamps")
		drafts        = fs.Bool("drafts", false, "Include documents marked as drafts")
		dryRun        = fs.Bool("dry-run", false, "Render without writing output files")
		retries       = fs.Int("retries", 0, "Retries for a failed site build")
		logProvider   = fs.String("log-provider", defaults.Logging.Provider, "Logging provider: console or gologger")
		logLevel      = fs.String("log-level", defaults.Logging.Level, "Log level")
		logFormat     = fs.String("log-format", defaults.Logging.Format, "go-logger format: json, console or pretty")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := defaults
	cfg.Theme = *theme
	cfg.Pattern = *markerPattern
	cfg.Syndication.BaseURL = *endpoint
	cfg.Syndication.Timeout = *timeout
	cfg.Syndication.MaxConcurrent = *maxConcurrent
	cfg.Card.TimeZone = *timeZone
	cfg.Markdown.ContentDir = *contentDir
	cfg.Markdown.Pattern = *pattern
	cfg.Logging.Provider = *logProvider
	cfg.Logging.Level = *logLevel
	cfg.Logging.Format = *logFormat

	module, err := moduleBuilder(cfg)
	if err != nil {
		return fmt.Errorf("configure: %w", err)
	}

	if strings.TrimSpace(*filePath) != "" {
		doc, err := module.RenderFile(ctx, *filePath)
		if err != nil {
			return fmt.Errorf("render %s: %w", *filePath, err)
		}
		_, err = stdout.Write(doc.BodyHTML)
		return err
	}

	return buildSite(ctx, module, tweetembed.BuildSiteCommand{
		ContentDir:    *contentDir,
		OutputDir:     *outputDir,
		Pattern:       *pattern,
		IncludeDrafts: *drafts,
		DryRun:        *dryRun,
	}, *retries, stdout)
}

func buildSite(ctx context.Context, module *tweetembed.Module, cmd tweetembed.BuildSiteCommand, retries int, stdout io.Writer) error {
	var report tweetembed.BuildReport
	handler := module.BuildSiteHandler(func(_ tweetembed.BuildSiteCommand, r tweetembed.BuildReport) {
		report = r
	})

	sub := dispatcher.SubscribeCommand(handler, runner.WithMaxRetries(max(retries, 0)))
	defer sub.Unsubscribe()

	started := time.Now()
	if err := dispatcher.Dispatch(ctx, cmd); err != nil {
		return err
	}
	if report.Documents == 0 {
		return errors.New("no markdown documents found in " + cmd.ContentDir)
	}

	verb := "wrote"
	if cmd.DryRun {
		verb = "would write"
	}
	for _, target := range report.Written {
		fmt.Fprintf(stdout, "%s %s\n", verb, target)
	}
	metrics := module.Metrics()
	fmt.Fprintf(stdout, "%d documents, %d skipped, %d tweets fetched (%d unavailable, %d cache hits) in %s\n",
		report.Documents, len(report.Skipped), metrics.Misses, metrics.Unavailable, metrics.Hits,
		time.Since(started).Round(time.Millisecond))
	return nil
}
