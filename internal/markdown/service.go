package markdown

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/goliatone/go-tweetembed/internal/card"
	"github.com/goliatone/go-tweetembed/internal/logging"
	"github.com/goliatone/go-tweetembed/pkg/interfaces"
)

// Config controls how the Markdown service discovers, parses and renders files.
type Config struct {
	BasePath  string
	Pattern   string
	Recursive bool
	Parser    interfaces.ParseOptions
	// Card is the default card presentation. A document's frontmatter theme
	// and RenderOptions.Theme override Card.Theme.
	Card card.Options
}

// EmbedTransformer rewrites embed markers in a parsed document body.
type EmbedTransformer interface {
	TransformWithOptions(ctx context.Context, root *html.Node, opts card.Options) (*html.Node, error)
}

// Service implements interfaces.MarkdownService for filesystem-backed documents.
type Service struct {
	cfg         Config
	parser      interfaces.MarkdownParser
	loader      *Loader
	transformer EmbedTransformer
	logger      interfaces.Logger
}

var _ interfaces.MarkdownService = (*Service)(nil)

// NewService constructs a Markdown service rooted at cfg.BasePath. A nil parser
// defaults to goldmark; a nil transformer leaves markers as written.
func NewService(cfg Config, parser interfaces.MarkdownParser, transformer EmbedTransformer, logger interfaces.Logger) (*Service, error) {
	filesystem, err := prepareFilesystem(cfg.BasePath)
	if err != nil {
		return nil, err
	}
	return NewServiceFS(filesystem, cfg, parser, transformer, logger), nil
}

// NewServiceFS constructs a Markdown service over an existing filesystem.
func NewServiceFS(filesystem fs.FS, cfg Config, parser interfaces.MarkdownParser, transformer EmbedTransformer, logger interfaces.Logger) *Service {
	if parser == nil {
		parser = NewGoldmarkParser(cfg.Parser)
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Service{
		cfg:    cfg,
		parser: parser,
		loader: NewLoader(filesystem, LoaderConfig{
			BasePath:  cfg.BasePath,
			Pattern:   cfg.Pattern,
			Recursive: cfg.Recursive,
		}),
		transformer: transformer,
		logger:      logger,
	}
}

// Load reads and renders a single document relative to the base path.
func (s *Service) Load(ctx context.Context, path string) (*interfaces.Document, error) {
	result, err := s.loader.LoadFile(ctx, s.normalisePath(path))
	if err != nil {
		return nil, err
	}
	if _, err := s.RenderDocument(ctx, result.Document); err != nil {
		return nil, err
	}
	return result.Document, nil
}

// LoadDirectory reads every matching document within dir and renders it
// unless opts.SkipRender is set.
func (s *Service) LoadDirectory(ctx context.Context, dir string, opts interfaces.LoadOptions) ([]*interfaces.Document, error) {
	results, err := s.loader.LoadDirectory(ctx, s.normalisePath(dir), opts)
	if err != nil {
		return nil, err
	}

	docs := make([]*interfaces.Document, 0, len(results))
	for _, result := range results {
		if !opts.SkipRender {
			if _, err := s.RenderDocument(ctx, result.Document); err != nil {
				return nil, err
			}
		}
		docs = append(docs, result.Document)
	}

	s.logger.Debug("markdown.directory.loaded", "dir", dir, "documents", len(docs), "rendered", !opts.SkipRender)
	return docs, nil
}

// Render converts Markdown into HTML and expands embed markers in the result.
func (s *Service) Render(ctx context.Context, markdown []byte, opts interfaces.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := s.parser.ParseWithOptions(markdown, mergeParseOptions(s.cfg.Parser, opts.Parser))
	if err != nil {
		return nil, err
	}
	if s.transformer == nil {
		return out, nil
	}
	return s.expandEmbeds(ctx, out, s.cardOptions(opts.Theme))
}

// RenderDocument renders doc.Body, honouring the frontmatter theme, and stores
// the result in doc.BodyHTML.
func (s *Service) RenderDocument(ctx context.Context, doc *interfaces.Document) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("markdown service: document is nil")
	}
	out, err := s.Render(ctx, doc.Body, interfaces.RenderOptions{Theme: doc.FrontMatter.Theme})
	if err != nil {
		return nil, fmt.Errorf("markdown render document %s: %w", doc.RelPath, err)
	}
	doc.BodyHTML = out
	logging.WithDocument(s.logger, doc.RelPath).Debug("markdown.document.rendered", "bytes", len(out))
	return out, nil
}

// expandEmbeds parses rendered HTML as the children of a <body>, runs the
// transformer over it and serialises the children back.
func (s *Service) expandEmbeds(ctx context.Context, source []byte, opts card.Options) ([]byte, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(bytes.NewReader(source), body)
	if err != nil {
		return nil, fmt.Errorf("markdown parse html: %w", err)
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}

	if _, err := s.transformer.TransformWithOptions(ctx, body, opts); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return nil, fmt.Errorf("markdown render html: %w", err)
		}
	}
	return buf.Bytes(), nil
}

func (s *Service) cardOptions(theme string) card.Options {
	opts := s.cfg.Card
	if theme = strings.TrimSpace(theme); theme != "" {
		opts.Theme = theme
	}
	return opts
}

func (s *Service) normalisePath(path string) string {
	if strings.TrimSpace(path) == "" {
		return "."
	}
	clean := filepath.Clean(path)
	if filepath.IsAbs(clean) && strings.TrimSpace(s.cfg.BasePath) != "" {
		if rel, err := filepath.Rel(s.cfg.BasePath, clean); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(clean)
}

func mergeParseOptions(base, override interfaces.ParseOptions) interfaces.ParseOptions {
	result := base
	if len(override.Extensions) > 0 {
		result.Extensions = append([]string(nil), override.Extensions...)
	}
	if override.HardWraps {
		result.HardWraps = true
	}
	if override.SafeMode {
		result.SafeMode = true
	}
	return result
}

func prepareFilesystem(basePath string) (fs.FS, error) {
	if strings.TrimSpace(basePath) == "" {
		basePath = "."
	}
	if _, err := os.Stat(basePath); err != nil {
		return nil, fmt.Errorf("markdown service: stat base path %s: %w", basePath, err)
	}
	return os.DirFS(basePath), nil
}
