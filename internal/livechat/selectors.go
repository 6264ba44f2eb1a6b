package livechat

import (
	"fmt"
	"strings"
)

// Default identifiers used by the YouTube live chat widget.
const (
	DefaultFrameID       = "chatframe"
	DefaultItemListID    = "item-list"
	DefaultCommentTag    = "yt-live-chat-text-message-renderer"
	DefaultAuthorChipTag = "yt-live-chat-author-chip"
	DefaultContentName   = "content"
	DefaultMessageName   = "message"
)

// Selectors names the nodes the reader walks through. FrameID is looked up
// in the hosting page; the rest are resolved inside the embedded document.
type Selectors struct {
	FrameID       string `json:"frame_id"`
	ItemListID    string `json:"item_list_id"`
	CommentTag    string `json:"comment_tag"`
	AuthorChipTag string `json:"author_chip_tag"`
	ContentName   string `json:"content_name"`
	MessageName   string `json:"message_name"`
}

// DefaultSelectors returns the identifiers of the YouTube live chat widget.
func DefaultSelectors() Selectors {
	return Selectors{
		FrameID:       DefaultFrameID,
		ItemListID:    DefaultItemListID,
		CommentTag:    DefaultCommentTag,
		AuthorChipTag: DefaultAuthorChipTag,
		ContentName:   DefaultContentName,
		MessageName:   DefaultMessageName,
	}
}

func (s Selectors) withDefaults() Selectors {
	d := DefaultSelectors()
	if s.FrameID == "" {
		s.FrameID = d.FrameID
	}
	if s.ItemListID == "" {
		s.ItemListID = d.ItemListID
	}
	if s.CommentTag == "" {
		s.CommentTag = d.CommentTag
	}
	if s.AuthorChipTag == "" {
		s.AuthorChipTag = d.AuthorChipTag
	}
	if s.ContentName == "" {
		s.ContentName = d.ContentName
	}
	if s.MessageName == "" {
		s.MessageName = d.MessageName
	}
	return s
}

// Validate rejects tag names that no parsed element can carry. CommentTag
// and AuthorChipTag are element names, not CSS selectors.
func (s Selectors) Validate() error {
	tags := []struct{ field, name string }{
		{"comment tag", s.CommentTag},
		{"author chip tag", s.AuthorChipTag},
	}
	for _, t := range tags {
		if strings.ContainsAny(t.name, " \t\r\n\f/>") {
			return fmt.Errorf("%s %q is not an element name", t.field, t.name)
		}
	}
	return nil
}
