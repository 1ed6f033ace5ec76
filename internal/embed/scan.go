package embed

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/goliatone/go-tweetembed/internal/tweets"
)

// Pending is one marker occurrence captured by the read-only scan. Start and
// End are inclusive child indices of Parent. For the single-node form Start
// equals End and MatchStart/MatchEnd bound the marker inside that text node.
type Pending struct {
	Parent     *html.Node
	Start      int
	End        int
	URL        string
	ID         string
	MatchStart int
	MatchEnd   int
}

// Split reports whether the marker spans a text, link, text sequence.
func (p Pending) Split() bool {
	return p.End > p.Start
}

// verbatim elements keep their text byte for byte.
var verbatim = map[atom.Atom]bool{
	atom.Code:     true,
	atom.Pre:      true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Textarea: true,
}

// Scan walks root depth first and returns every marker in document order.
// The tree is not modified. A child position is claimed by at most one
// marker, so a marker that starts inside the closing text of a split marker
// is only found by a later Scan after the rewrite.
func (m *Matcher) Scan(root *html.Node) []Pending {
	return m.scan(root, nil)
}

// scan is Scan with a set of subtrees to leave alone, used to keep inserted
// cards out of later passes.
func (m *Matcher) scan(root *html.Node, skip map[*html.Node]bool) []Pending {
	if root == nil || insideVerbatim(root) {
		return nil
	}

	var found []Pending
	var visit func(parent *html.Node)
	visit = func(parent *html.Node) {
		if isVerbatim(parent) {
			return
		}
		children := childList(parent)
		for i := 0; i < len(children); i++ {
			child := children[i]
			if skip[child] {
				continue
			}
			switch child.Type {
			case html.TextNode:
				if matches := m.matchText(parent, i, child.Data); len(matches) > 0 {
					found = append(found, matches...)
					continue
				}
				if p, ok := m.matchSplit(parent, children, i); ok {
					found = append(found, p)
					i += 2
				}
			case html.ElementNode:
				visit(child)
			}
		}
	}
	visit(root)
	return found
}

func (m *Matcher) matchText(parent *html.Node, index int, text string) []Pending {
	var out []Pending
	for _, loc := range m.pattern.FindAllStringSubmatchIndex(text, -1) {
		if loc[2] < 0 {
			continue
		}
		url := text[loc[2]:loc[3]]
		id, ok := tweets.ExtractID(url)
		if !ok {
			continue
		}
		out = append(out, Pending{
			Parent:     parent,
			Start:      index,
			End:        index,
			URL:        url,
			ID:         id,
			MatchStart: loc[0],
			MatchEnd:   loc[1],
		})
	}
	return out
}

func (m *Matcher) matchSplit(parent *html.Node, children []*html.Node, i int) (Pending, bool) {
	if i+2 >= len(children) {
		return Pending{}, false
	}
	opening, link, closing := children[i], children[i+1], children[i+2]
	if opening.Type != html.TextNode || closing.Type != html.TextNode {
		return Pending{}, false
	}
	if link.Type != html.ElementNode || link.DataAtom != atom.A {
		return Pending{}, false
	}
	if m.openIndex(opening.Data) < 0 || m.closeEnd(closing.Data) < 0 {
		return Pending{}, false
	}
	href := strings.TrimSpace(attr(link, "href"))
	if href == "" {
		return Pending{}, false
	}
	id, ok := tweets.ExtractID(href)
	if !ok {
		return Pending{}, false
	}
	return Pending{
		Parent: parent,
		Start:  i,
		End:    i + 2,
		URL:    href,
		ID:     id,
	}, true
}

func isVerbatim(n *html.Node) bool {
	return n.Type == html.ElementNode && verbatim[n.DataAtom]
}

func insideVerbatim(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if isVerbatim(p) {
			return true
		}
	}
	return false
}

func childList(parent *html.Node) []*html.Node {
	var children []*html.Node
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		children = append(children, c)
	}
	return children
}

func childAt(parent *html.Node, index int) *html.Node {
	c := parent.FirstChild
	for i := 0; c != nil && i < index; i++ {
		c = c.NextSibling
	}
	return c
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}
