package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Node is the document query capability the parser relies on.
type Node interface {
	// Find returns the descendants matching a CSS selector, in document order.
	Find(selector string) []Node
	Attr(name string) (string, bool)
	// Text is the trimmed text content of the node and its children.
	Text() string
	// NextElement returns the following sibling element.
	NextElement() (Node, bool)
}

type htmlNode struct {
	sel *goquery.Selection
}

// ParseHTML builds a queryable document from server HTML.
func ParseHTML(r io.Reader) (Node, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return htmlNode{sel: goquery.NewDocumentFromNode(root).Selection}, nil
}

func ParseHTMLBytes(b []byte) (Node, error) {
	return ParseHTML(bytes.NewReader(b))
}

func (n htmlNode) Find(selector string) []Node {
	found := n.sel.Find(selector)
	out := make([]Node, 0, found.Length())
	found.Each(func(_ int, s *goquery.Selection) {
		out = append(out, htmlNode{sel: s})
	})
	return out
}

func (n htmlNode) Attr(name string) (string, bool) {
	return n.sel.Attr(name)
}

func (n htmlNode) Text() string {
	return strings.TrimSpace(n.sel.Text())
}

func (n htmlNode) NextElement() (Node, bool) {
	next := n.sel.Next()
	if next.Length() == 0 {
		return nil, false
	}
	return htmlNode{sel: next}, true
}
