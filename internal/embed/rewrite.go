package embed

import (
	"fmt"

	"golang.org/x/net/html"
)

// apply replaces children [Start, End] of Parent with the leading text, the
// fragment nodes and the trailing text. Pendings must be applied in reverse
// discovery order so lower indices and earlier match offsets stay valid.
func (m *Matcher) apply(p Pending, fragment []*html.Node) error {
	first := childAt(p.Parent, p.Start)
	last := childAt(p.Parent, p.End)
	if first == nil || last == nil || first.Type != html.TextNode || last.Type != html.TextNode {
		return fmt.Errorf("embed: children [%d, %d] of <%s> no longer hold the marker", p.Start, p.End, p.Parent.Data)
	}

	var leading, trailing string
	if p.Split() {
		open := m.openIndex(first.Data)
		end := m.closeEnd(last.Data)
		if open < 0 || end < 0 {
			return fmt.Errorf("embed: split marker for %s lost its literals", p.URL)
		}
		leading = first.Data[:open]
		trailing = last.Data[end:]
	} else {
		if p.MatchStart < 0 || p.MatchEnd > len(first.Data) || p.MatchStart > p.MatchEnd {
			return fmt.Errorf("embed: marker offsets [%d, %d) out of range for %s", p.MatchStart, p.MatchEnd, p.URL)
		}
		leading = first.Data[:p.MatchStart]
		trailing = first.Data[p.MatchEnd:]
	}

	anchor := last.NextSibling
	for n := first; n != nil; {
		next := n.NextSibling
		p.Parent.RemoveChild(n)
		if n == last {
			break
		}
		n = next
	}

	if leading != "" {
		p.Parent.InsertBefore(&html.Node{Type: html.TextNode, Data: leading}, anchor)
	}
	for _, n := range fragment {
		p.Parent.InsertBefore(n, anchor)
	}
	if trailing != "" {
		p.Parent.InsertBefore(&html.Node{Type: html.TextNode, Data: trailing}, anchor)
	}
	return nil
}
