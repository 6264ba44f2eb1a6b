// Package transcript renders chat comments into downloadable transcripts.
package transcript

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"

	"github.com/dgallion1/chatframe/internal/livechat"
)

// UnknownAuthor is shown for comments without an author chip.
const UnknownAuthor = "(unknown)"

// Entry is one comment as it appears in a transcript.
type Entry struct {
	Index      int    `json:"index"`
	Author     string `json:"author"`
	HasAuthor  bool   `json:"has_author"`
	Message    string `json:"message"`
	HasMessage bool   `json:"has_message"`
	Owner      bool   `json:"owner"`
}

// DisplayAuthor returns the author name, or UnknownAuthor when absent.
func (e Entry) DisplayAuthor() string {
	if !e.HasAuthor {
		return UnknownAuthor
	}
	return e.Author
}

// Transcript is a titled list of entries.
type Transcript struct {
	Title   string
	Owner   string
	Entries []Entry
}

// Build projects comments into entries. Index is the comment's position in
// the chat, so a filtered list keeps the numbering of AllComments; comments
// that were not read from a chat are numbered by slice position. Owner marks
// entries whose author chip matches owner exactly; an empty owner marks
// nothing.
func Build(comments []livechat.Comment, owner string) []Entry {
	return lo.Map(comments, func(c livechat.Comment, i int) Entry {
		author, hasAuthor := livechat.AuthorName(c)
		msg, hasMsg := livechat.MessageText(c)
		index := c.Index()
		if index < 0 {
			index = i
		}
		return Entry{
			Index:      index,
			Author:     author,
			HasAuthor:  hasAuthor,
			Message:    msg,
			HasMessage: hasMsg,
			Owner:      owner != "" && livechat.IsOwnerComment(c, owner),
		}
	})
}

// Writer encodes a transcript in one format.
type Writer interface {
	Write(w io.Writer, t Transcript) error
	ContentType() string
	Extension() string
}

// ForFormat returns the writer for a format name.
func ForFormat(format string) (Writer, error) {
	switch strings.ToLower(format) {
	case "markdown", "md":
		return &MarkdownWriter{}, nil
	case "html":
		return &HTMLWriter{}, nil
	case "csv":
		return &CSVWriter{}, nil
	case "text", "txt", "":
		return &TextWriter{}, nil
	case "docx":
		return &DOCXWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported transcript format: %s", format)
	}
}
