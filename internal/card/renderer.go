package card

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-tweetembed/pkg/interfaces"
)

const (
	profileBaseURL = "https://twitter.com/"
	likeIntentURL  = "https://twitter.com/intent/like?tweet_id="
	replyIntentURL = "https://twitter.com/intent/tweet?in_reply_to="
)

// Options select the presentation of a card.
type Options struct {
	Theme    string
	Location *time.Location
}

// Renderer turns resolved records into self-contained, inline-styled markup.
// It performs no I/O and is safe for concurrent use.
type Renderer struct {
	success  *template.Template
	fallback *template.Template
}

var funcs = template.FuncMap{
	"icon": func(name string) template.HTML {
		switch name {
		case "verified":
			return iconVerified
		case "x":
			return iconX
		case "like":
			return iconLike
		case "reply":
			return iconReply
		}
		return ""
	},
}

// NewRenderer parses the card templates.
func NewRenderer() *Renderer {
	return &Renderer{
		success:  template.Must(template.New("tweet").Funcs(funcs).Parse(successTemplate)),
		fallback: template.Must(template.New("fallback").Funcs(funcs).Parse(fallbackTemplate)),
	}
}

type successView struct {
	Palette    Palette
	TweetURL   template.URL
	ProfileURL template.URL
	AvatarURL  template.URL
	LikeURL    template.URL
	ReplyURL   template.URL
	Name       string
	ScreenName string
	Verified   bool
	Body       template.HTML
	Photos     []template.URL
	PhotoGrid  bool
	CreatedAt  string
	Timestamp  string
	Likes      string
}

// Render builds the success card for rec. canonicalURL is the marker URL and
// is linked verbatim.
func (r *Renderer) Render(rec interfaces.Record, canonicalURL string, opts Options) (string, error) {
	palette := PaletteFor(opts.Theme)
	view := successView{
		Palette:    palette,
		TweetURL:   template.URL(canonicalURL),
		ProfileURL: template.URL(profileBaseURL + url.PathEscape(rec.User.ScreenName)),
		AvatarURL:  template.URL(strings.Replace(rec.User.ProfileImageURLHTTPS, "_normal", "_bigger", 1)),
		LikeURL:    template.URL(likeIntentURL + url.QueryEscape(rec.ID)),
		ReplyURL:   template.URL(replyIntentURL + url.QueryEscape(rec.ID)),
		Name:       rec.User.Name,
		ScreenName: rec.User.ScreenName,
		Verified:   rec.User.IsBlueVerified,
		Body:       BodyHTML(rec, palette.Link),
		PhotoGrid:  len(rec.Photos) > 1,
		CreatedAt:  rec.CreatedAt,
		Timestamp:  FormatTimestamp(rec.CreatedAt, opts.Location),
		Likes:      FormatCount(rec.FavoriteCount),
	}
	for _, photo := range rec.Photos {
		view.Photos = append(view.Photos, template.URL(photo.URL))
	}

	var buf bytes.Buffer
	if err := r.success.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("card: render tweet %s: %w", rec.ID, err)
	}
	return buf.String(), nil
}

// Fallback builds the unavailable card. It always uses the light palette.
func (r *Renderer) Fallback(canonicalURL string) (string, error) {
	view := struct {
		Palette  Palette
		TweetURL template.URL
	}{
		Palette:  lightPalette,
		TweetURL: template.URL(canonicalURL),
	}

	var buf bytes.Buffer
	if err := r.fallback.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("card: render fallback: %w", err)
	}
	return buf.String(), nil
}

// BodyHTML escapes the record text, replaces the first occurrence of each
// link annotation with an anchor to its expanded form and converts newlines
// to <br>.
func BodyHTML(rec interfaces.Record, linkColor template.CSS) template.HTML {
	text := html.EscapeString(rec.Text)
	for _, entity := range rec.Entities.URLs {
		if entity.URL == "" {
			continue
		}
		anchor := fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener noreferrer" style="color:%s;text-decoration:none">%s</a>`,
			html.EscapeString(entity.ExpandedURL), linkColor, html.EscapeString(entity.DisplayURL))
		text = strings.Replace(text, html.EscapeString(entity.URL), anchor, 1)
	}
	text = strings.ReplaceAll(text, "\n", "<br>")
	return template.HTML(text)
}
