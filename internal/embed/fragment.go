package embed

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// FragmentParser turns generated markup into detached nodes.
type FragmentParser func(markup string) ([]*html.Node, error)

// ParseFragment parses markup in a <div> context. The returned nodes have no
// parent and can be inserted anywhere.
func ParseFragment(markup string) ([]*html.Node, error) {
	return html.ParseFragment(strings.NewReader(markup), &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	})
}
