package markdown

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-tweetembed/pkg/interfaces"
)

// defaultExtensions keeps Linkify on so `{% twitter URL %}` reaches the
// embed transformer in its split form (text, anchor, text).
var defaultExtensions = []string{"gfm", "linkify"}

var extensionAliases = map[string]string{
	"tables":   "table",
	"autolink": "linkify",
	"tasks":    "tasklist",
}

var extenders = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"typographer":   extension.Typographer,
}

type engineKey struct {
	extensions string
	hardWraps  bool
	safeMode   bool
}

// GoldmarkParser implements interfaces.MarkdownParser. Engines are built once
// per distinct option set and shared; goldmark converters are safe for
// concurrent use.
type GoldmarkParser struct {
	defaults interfaces.ParseOptions

	mu      sync.Mutex
	engines map[engineKey]goldmark.Markdown
}

// NewGoldmarkParser constructs a parser whose Parse uses defaults.
func NewGoldmarkParser(defaults interfaces.ParseOptions) *GoldmarkParser {
	return &GoldmarkParser{
		defaults: defaults,
		engines:  make(map[engineKey]goldmark.Markdown),
	}
}

// Parse renders markdown with the parser defaults.
func (p *GoldmarkParser) Parse(markdown []byte) ([]byte, error) {
	return p.ParseWithOptions(markdown, p.defaults)
}

// ParseWithOptions renders markdown with opts. Raw HTML passes through unless
// SafeMode is set.
func (p *GoldmarkParser) ParseWithOptions(markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	var out bytes.Buffer
	if err := p.engine(opts).Convert(markdown, &out); err != nil {
		return nil, fmt.Errorf("markdown parse: %w", err)
	}
	return out.Bytes(), nil
}

func (p *GoldmarkParser) engine(opts interfaces.ParseOptions) goldmark.Markdown {
	names := extensionNames(opts.Extensions)
	key := engineKey{
		extensions: strings.Join(names, ","),
		hardWraps:  opts.HardWraps,
		safeMode:   opts.SafeMode,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.engines == nil {
		p.engines = make(map[engineKey]goldmark.Markdown)
	}
	if md, ok := p.engines[key]; ok {
		return md
	}
	md := buildEngine(names, key)
	p.engines[key] = md
	return md
}

func buildEngine(names []string, key engineKey) goldmark.Markdown {
	var renderOpts []renderer.Option
	if key.hardWraps {
		renderOpts = append(renderOpts, html.WithHardWraps())
	}
	if !key.safeMode {
		renderOpts = append(renderOpts, html.WithUnsafe())
	}

	exts := make([]goldmark.Extender, 0, len(names))
	for _, name := range names {
		exts = append(exts, extenders[name])
	}

	options := []goldmark.Option{
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithExtensions(exts...),
	}
	if len(renderOpts) > 0 {
		options = append(options, goldmark.WithRendererOptions(renderOpts...))
	}
	return goldmark.New(options...)
}

// extensionNames canonicalises requested extension names, dropping unknown
// entries and duplicates. An empty request selects defaultExtensions.
func extensionNames(requested []string) []string {
	if len(requested) == 0 {
		requested = defaultExtensions
	}
	names := make([]string, 0, len(requested))
	seen := make(map[string]bool, len(requested))
	for _, raw := range requested {
		name := strings.ToLower(strings.TrimSpace(raw))
		if alias, ok := extensionAliases[name]; ok {
			name = alias
		}
		if _, known := extenders[name]; !known || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
