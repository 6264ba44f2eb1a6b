// Package page keeps the hosting page and the documents loaded into its
// iframes. It stands in for the browser: callers push new HTML in, and the
// chat reader pulls trees out through the livechat.Host interface.
//
// Trees are never modified after they are stored. An update replaces the
// whole tree, so a reader that already holds a pointer keeps a consistent
// (if stale) view.
package page

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/dgallion1/chatframe/internal/dom"
)

var (
	ErrNoHost        = errors.New("no host page loaded")
	ErrFrameNotFound = errors.New("iframe not found")
)

// Revision describes the state produced by the most recent update.
type Revision struct {
	ID        string    `json:"id"`
	UpdatedAt time.Time `json:"updated_at"`
	HostBytes int64     `json:"host_bytes"`
	Frames    []string  `json:"frames"`
}

// Page is the live hosting page. The zero value is not usable; use New.
type Page struct {
	mu        sync.RWMutex
	host      *html.Node
	hostBytes int64
	// frames maps iframe elements of host to their content documents.
	frames map[*html.Node]*html.Node
	rev    Revision
}

// New returns an empty page with nothing loaded.
func New() *Page {
	return &Page{frames: make(map[*html.Node]*html.Node)}
}

// Document returns the current hosting page, or nil. A nil *Page has no
// page loaded.
func (p *Page) Document() *html.Node {
	if p == nil {
		return nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.host
}

// ContentDocument returns the document loaded in frame. Frames that belong
// to a replaced host tree have no content.
func (p *Page) ContentDocument(frame *html.Node) *html.Node {
	if p == nil || frame == nil {
		return nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.host == nil || dom.Root(frame) != p.host {
		return nil
	}
	return p.frames[frame]
}

// LoadHost replaces the hosting page. Frames with a srcdoc attribute are
// loaded from it. Documents attached to a frame id that still exists in the
// new page carry over; the rest are dropped.
func (p *Page) LoadHost(r io.Reader) (Revision, error) {
	cr := &countingReader{r: r}
	host, err := dom.Parse(cr)
	if err != nil {
		return Revision{}, err
	}

	frames := make(map[*html.Node]*html.Node)
	var srcdocFrames []*html.Node
	for _, f := range dom.ElementsByTag(host, "iframe") {
		srcdoc, ok := dom.Attr(f, "srcdoc")
		if !ok {
			continue
		}
		doc, err := dom.ParseString(srcdoc)
		if err != nil {
			return Revision{}, fmt.Errorf("iframe %q srcdoc: %w", dom.ID(f), err)
		}
		frames[f] = doc
		srcdocFrames = append(srcdocFrames, f)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for oldFrame, doc := range p.frames {
		id := dom.ID(oldFrame)
		if id == "" {
			continue
		}
		f := frameByID(host, id)
		if f == nil || slices.Contains(srcdocFrames, f) {
			continue
		}
		frames[f] = doc
	}

	p.host = host
	p.hostBytes = cr.n
	p.frames = frames
	p.bumpLocked()
	return p.rev, nil
}

// AttachFrame parses r and loads it into the iframe with the given id.
func (p *Page) AttachFrame(id string, r io.Reader) (Revision, error) {
	doc, err := dom.Parse(r)
	if err != nil {
		return Revision{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.host == nil {
		return Revision{}, ErrNoHost
	}
	f := frameByID(p.host, id)
	if f == nil {
		return Revision{}, fmt.Errorf("%w: %q", ErrFrameNotFound, id)
	}

	frames := make(map[*html.Node]*html.Node, len(p.frames)+1)
	for k, v := range p.frames {
		frames[k] = v
	}
	frames[f] = doc
	p.frames = frames
	p.bumpLocked()
	return p.rev, nil
}

// DetachFrame unloads the document of the iframe with the given id. It
// reports whether anything was loaded.
func (p *Page) DetachFrame(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.host == nil {
		return false
	}
	f := frameByID(p.host, id)
	if f == nil {
		return false
	}
	if _, ok := p.frames[f]; !ok {
		return false
	}

	frames := make(map[*html.Node]*html.Node, len(p.frames))
	for k, v := range p.frames {
		if k != f {
			frames[k] = v
		}
	}
	p.frames = frames
	p.bumpLocked()
	return true
}

// Revision returns the current revision. The zero Revision means nothing
// has been loaded yet.
func (p *Page) Revision() Revision {
	p.mu.RLock()
	defer p.mu.RUnlock()
	rev := p.rev
	rev.Frames = slices.Clone(rev.Frames)
	return rev
}

func (p *Page) bumpLocked() {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	ids := make([]string, 0, len(p.frames))
	for f := range p.frames {
		ids = append(ids, dom.ID(f))
	}
	slices.Sort(ids)
	p.rev = Revision{
		ID:        id.String(),
		UpdatedAt: time.Now().UTC(),
		HostBytes: p.hostBytes,
		Frames:    ids,
	}
}

func frameByID(host *html.Node, id string) *html.Node {
	f := dom.ElementByID(host, id)
	if !dom.IsElement(f, "iframe") {
		return nil
	}
	return f
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(b []byte) (int, error) {
	n, err := c.r.Read(b)
	c.n += int64(n)
	return n, err
}
