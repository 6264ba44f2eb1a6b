package livechat

import (
	"golang.org/x/net/html"

	"github.com/dgallion1/chatframe/internal/dom"
)

// Comment is a view over one rendered chat message node. It is only valid
// for the document it was read from; the widget may detach it at any time.
type Comment struct {
	node  *html.Node
	sel   Selectors
	index int
}

// NewComment wraps n using the default selectors. The node is not checked
// to be a chat message; lookups on anything else report absent fields.
func NewComment(n *html.Node) Comment {
	return Comment{node: n, sel: DefaultSelectors(), index: -1}
}

// Node returns the underlying element.
func (c Comment) Node() *html.Node { return c.node }

// Index is the comment's position in the chat when it was read, oldest
// first. It survives filtering, so an owner comment keeps the index it has
// in AllComments. Comments built with NewComment report -1.
func (c Comment) Index() int { return c.index }

// content is the first layer below the comment node.
func (c Comment) content() (*html.Node, bool) {
	if c.node == nil || c.node.Type != html.ElementNode {
		return nil, false
	}
	sel := c.sel.withDefaults()
	content := dom.NamedChild(c.node, sel.ContentName)
	return content, content != nil
}

// AuthorName returns the text of the first author chip in the comment. The
// chip only exists for authors with a badge (such as the owner) and may not
// be rendered yet, so ok is false in either case.
func AuthorName(c Comment) (name string, ok bool) {
	content, ok := c.content()
	if !ok {
		return "", false
	}
	chips := elementsByTag(content, c.sel.withDefaults().AuthorChipTag)
	if len(chips) == 0 {
		return "", false
	}
	return dom.TextContent(chips[0]), true
}

// MessageText returns the text of the comment's message region. A rendered
// but empty message yields ("", true); a missing region yields ok == false.
func MessageText(c Comment) (text string, ok bool) {
	content, ok := c.content()
	if !ok {
		return "", false
	}
	msg := dom.NamedChild(content, c.sel.withDefaults().MessageName)
	if msg == nil {
		return "", false
	}
	return dom.TextContent(msg), true
}

// IsOwnerComment reports whether the comment's author chip reads exactly
// ownerName. Comments without a chip are never the owner's.
func IsOwnerComment(c Comment, ownerName string) bool {
	name, ok := AuthorName(c)
	return ok && name == ownerName
}

// Message returns the comment text, or "" when the message region is absent.
// Callers that need to tell the two apart use MessageText.
func Message(c Comment) string {
	text, _ := MessageText(c)
	return text
}
