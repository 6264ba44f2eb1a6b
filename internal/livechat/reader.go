// Package livechat reads chat comments out of a live-chat widget that the
// hosting page renders inside an iframe.
//
// Every query re-resolves the embedded document from the Host, so results
// reflect the page at call time only. Two consecutive calls are not atomic:
// the widget keeps appending comments, and AllComments followed by
// LatestComment may observe different documents.
//
// Two kinds of missing data are reported separately. ErrUnavailable means
// the embedded document cannot be reached at all (frame missing or not
// loaded). Absent, reported as ok == false, means the document is there but
// a particular node or field has not been rendered.
package livechat

import (
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"
	"golang.org/x/net/html"

	"github.com/dgallion1/chatframe/internal/dom"
)

var (
	// ErrUnavailable is returned when the chat frame or its document
	// cannot be reached.
	ErrUnavailable = errors.New("chat document unavailable")

	// ErrAbsent is returned by lookups that already return an error when
	// the document is reachable but the requested node is not rendered.
	ErrAbsent = errors.New("not rendered")
)

// Host exposes the live hosting page. Implementations return the current
// tree on every call and must not mutate a tree after handing it out.
type Host interface {
	// Document returns the hosting page, or nil if none is loaded.
	Document() *html.Node
	// ContentDocument returns the document loaded in the given iframe
	// element, or nil if the frame has no content window.
	ContentDocument(frame *html.Node) *html.Node
}

// Reader answers chat queries against a Host.
type Reader struct {
	host Host
	sel  Selectors
}

// NewReader returns a Reader for host. Empty selector fields fall back to
// DefaultSelectors.
func NewReader(host Host, sel Selectors) *Reader {
	return &Reader{host: host, sel: sel.withDefaults()}
}

// Selectors returns the identifiers the reader resolves nodes with.
func (r *Reader) Selectors() Selectors {
	if r == nil {
		return DefaultSelectors()
	}
	return r.sel
}

// Document resolves the embedded chat document from the hosting page.
func (r *Reader) Document() (*html.Node, error) {
	if r == nil || r.host == nil {
		return nil, fmt.Errorf("%w: no host", ErrUnavailable)
	}
	page := r.host.Document()
	if page == nil {
		return nil, fmt.Errorf("%w: host page not loaded", ErrUnavailable)
	}
	frame := dom.ElementByID(page, r.sel.FrameID)
	if frame == nil {
		return nil, fmt.Errorf("%w: frame %q not found", ErrUnavailable, r.sel.FrameID)
	}
	if !dom.IsElement(frame, "iframe") {
		return nil, fmt.Errorf("%w: element %q is <%s>, not an iframe", ErrUnavailable, r.sel.FrameID, frame.Data)
	}
	doc := r.host.ContentDocument(frame)
	if doc == nil {
		return nil, fmt.Errorf("%w: frame %q has no content window", ErrUnavailable, r.sel.FrameID)
	}
	return doc, nil
}

// ItemList returns the container that holds the rendered comment list.
func (r *Reader) ItemList() (*html.Node, error) {
	doc, err := r.Document()
	if err != nil {
		return nil, err
	}
	list := dom.ElementByID(doc, r.sel.ItemListID)
	if list == nil {
		return nil, fmt.Errorf("item list %q: %w", r.sel.ItemListID, ErrAbsent)
	}
	return list, nil
}

// AllComments returns every comment currently rendered, oldest first. An
// empty, non-nil slice means the chat is reachable but has no comments yet.
func (r *Reader) AllComments() ([]Comment, error) {
	doc, err := r.Document()
	if err != nil {
		return nil, err
	}
	nodes := elementsByTag(doc, r.sel.CommentTag)
	comments := make([]Comment, 0, len(nodes))
	for i, n := range nodes {
		comments = append(comments, Comment{node: n, sel: r.sel, index: i})
	}
	return comments, nil
}

// LatestComment returns the newest rendered comment. ok is false when the
// chat is unavailable or has no comments.
func (r *Reader) LatestComment() (c Comment, ok bool) {
	comments, err := r.AllComments()
	if err != nil || len(comments) == 0 {
		return Comment{}, false
	}
	return comments[len(comments)-1], true
}

// OwnerComments returns, in chat order, the comments whose author chip
// reads exactly ownerName.
func (r *Reader) OwnerComments(ownerName string) ([]Comment, error) {
	comments, err := r.AllComments()
	if err != nil {
		return nil, err
	}
	return lo.Filter(comments, func(c Comment, _ int) bool {
		return IsOwnerComment(c, ownerName)
	}), nil
}

// elementsByTag returns the descendants of root whose element name is tag,
// in document order. tag is compared as a name and never compiled as a CSS
// selector, so names like "chat:line" work and "div span" matches nothing.
func elementsByTag(root *html.Node, tag string) []*html.Node {
	return goquery.NewDocumentFromNode(root).Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return dom.IsElement(s.Get(0), tag)
	}).Nodes
}
