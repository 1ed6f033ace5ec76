package interfaces

import (
	"context"
	"time"
)

// MarkdownParser converts raw Markdown bytes into HTML.
type MarkdownParser interface {
	// Parse converts Markdown into HTML using the parser's default settings.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions converts Markdown into HTML using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises Markdown parsing. Extension names are matched case
// insensitively; unknown names are ignored.
type ParseOptions struct {
	Extensions []string
	HardWraps  bool
	SafeMode   bool
}

// MarkdownService loads Markdown documents and renders them to HTML with
// embed markers expanded.
type MarkdownService interface {
	Load(ctx context.Context, path string) (*Document, error)
	LoadDirectory(ctx context.Context, dir string, opts LoadOptions) ([]*Document, error)
	Render(ctx context.Context, markdown []byte, opts RenderOptions) ([]byte, error)
	RenderDocument(ctx context.Context, doc *Document) ([]byte, error)
}

// Document is a Markdown file with its parsed metadata.
type Document struct {
	FilePath     string
	RelPath      string
	FrontMatter  FrontMatter
	Body         []byte
	BodyHTML     []byte
	LastModified time.Time
	// Checksum is the SHA-256 digest of the original file content.
	Checksum []byte
}

// FrontMatter models document metadata. Theme overrides the configured card
// theme for a single document.
type FrontMatter struct {
	Title  string         `yaml:"title" json:"title"`
	Slug   string         `yaml:"slug" json:"slug"`
	Theme  string         `yaml:"theme" json:"theme"`
	Draft  bool           `yaml:"draft" json:"draft"`
	Custom map[string]any `yaml:",inline" json:"custom"`
}

// LoadOptions fine-tunes directory discovery. SkipRender returns parsed
// documents without BodyHTML so callers can filter before any tweet is
// resolved.
type LoadOptions struct {
	Recursive  *bool
	Pattern    string
	SkipRender bool
}

// RenderOptions tunes a single render call.
type RenderOptions struct {
	Parser ParseOptions
	Theme  string
}
