package buildcmd

import (
	"path"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const buildSiteMessageType = "tweetembed.build.site"

// BuildSiteCommand renders every Markdown document under ContentDir into an
// HTML file under OutputDir, expanding tweet markers on the way.
type BuildSiteCommand struct {
	// ContentDir is the root of the Markdown tree.
	ContentDir string `json:"content_dir"`
	// OutputDir receives one .html file per document, mirroring ContentDir.
	OutputDir string `json:"output_dir"`
	// Pattern overrides the configured discovery glob.
	Pattern string `json:"pattern,omitempty"`
	// IncludeDrafts renders documents flagged `draft: true`.
	IncludeDrafts bool `json:"include_drafts,omitempty"`
	// DryRun renders without writing files.
	DryRun bool `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (BuildSiteCommand) Type() string { return buildSiteMessageType }

// Validate checks the directories and the glob before handlers execute.
func (cmd BuildSiteCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.ContentDir, validation.Required, validation.By(notBlank("content_dir"))),
		validation.Field(&cmd.OutputDir, validation.Required, validation.By(notBlank("output_dir")), validation.By(func(value any) error {
			if samePath(value.(string), cmd.ContentDir) {
				return validation.NewError("tweetembed.build.site.output_dir_overlaps", "output directory must differ from the content directory")
			}
			return nil
		})),
		validation.Field(&cmd.Pattern, validation.By(func(value any) error {
			pattern := strings.TrimSpace(value.(string))
			if pattern == "" {
				return nil
			}
			if _, err := path.Match(filepath.ToSlash(pattern), ""); err != nil {
				return validation.NewError("tweetembed.build.site.pattern_invalid", "pattern is not a valid glob")
			}
			return nil
		})),
	)
}

func notBlank(field string) validation.RuleFunc {
	return func(value any) error {
		if strings.TrimSpace(value.(string)) == "" {
			return validation.NewError("tweetembed.build.site."+field+"_required", field+" is required")
		}
		return nil
	}
}

func samePath(a, b string) bool {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
