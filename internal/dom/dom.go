// Package dom holds the small set of read-only tree lookups the chat reader
// needs on top of golang.org/x/net/html. Lookups never modify the tree.
package dom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Parse reads a full HTML document.
func Parse(r io.Reader) (*html.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// ParseString is Parse for an in-memory document, e.g. an iframe srcdoc.
func ParseString(s string) (*html.Node, error) {
	return Parse(strings.NewReader(s))
}

// Attr returns the value of the attribute key on n.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil || n.Type != html.ElementNode {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// ID returns the id attribute of n, or "" when it has none.
func ID(n *html.Node) string {
	id, _ := Attr(n, "id")
	return id
}

// IsElement reports whether n is an element with the given tag name.
func IsElement(n *html.Node, tag string) bool {
	return n != nil && n.Type == html.ElementNode && n.Data == strings.ToLower(tag)
}

// ElementByID returns the first element below root, in document order,
// whose id equals id. An empty id never matches.
func ElementByID(root *html.Node, id string) *html.Node {
	if root == nil || id == "" {
		return nil
	}
	if root.Type == html.ElementNode && ID(root) == id {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if found := ElementByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

// ElementsByTag returns all descendants of root with the given tag name,
// in document order. root itself is not included.
func ElementsByTag(root *html.Node, tag string) []*html.Node {
	var out []*html.Node
	if root == nil {
		return out
	}
	tag = strings.ToLower(tag)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == tag {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(root)
	return out
}

// NamedChild looks up name among the direct element children of n the way
// HTMLCollection.namedItem does: first child whose id matches, otherwise
// first child whose name attribute matches.
func NamedChild(n *html.Node, name string) *html.Node {
	if n == nil || name == "" {
		return nil
	}
	var byName *html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if ID(c) == name {
			return c
		}
		if byName == nil {
			if v, ok := Attr(c, "name"); ok && v == name {
				byName = c
			}
		}
	}
	return byName
}

// TextContent concatenates every descendant text node of n. Unlike the
// extraction helpers elsewhere it does not trim, so chat text is returned
// exactly as rendered.
func TextContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}

// Root walks up from n to the top of its tree.
func Root(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}
