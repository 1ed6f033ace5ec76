package markdown

import (
	"bytes"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-tweetembed/pkg/interfaces"
)

// ParseFrontMatter splits source into metadata and the Markdown body. A
// document without a frontmatter block yields zero metadata and the whole
// source as body.
func ParseFrontMatter(source []byte) (interfaces.FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return interfaces.FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return envelopeToFrontMatter(meta), body, nil
}

// BuildDocument assembles a Document from a relative path, raw content and
// modification time. BodyHTML is left empty so callers can render lazily.
func BuildDocument(path string, source []byte, modified time.Time) (*interfaces.Document, error) {
	fm, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	return &interfaces.Document{
		FilePath:     path,
		RelPath:      path,
		FrontMatter:  fm,
		Body:         body,
		LastModified: modified,
	}, nil
}

type frontMatterEnvelope struct {
	Title  string         `yaml:"title" toml:"title" json:"title"`
	Slug   string         `yaml:"slug" toml:"slug" json:"slug"`
	Theme  string         `yaml:"theme" toml:"theme" json:"theme"`
	Draft  bool           `yaml:"draft" toml:"draft" json:"draft"`
	Custom map[string]any `yaml:",inline" toml:"-" json:"-"`
}

func envelopeToFrontMatter(env frontMatterEnvelope) interfaces.FrontMatter {
	custom := maps.Clone(env.Custom)
	if custom == nil {
		custom = map[string]any{}
	}
	return interfaces.FrontMatter{
		Title:  strings.TrimSpace(env.Title),
		Slug:   strings.TrimSpace(env.Slug),
		Theme:  strings.ToLower(strings.TrimSpace(env.Theme)),
		Draft:  env.Draft,
		Custom: custom,
	}
}
