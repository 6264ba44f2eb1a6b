package livechat

import (
	"testing"

	"golang.org/x/net/html"

	"github.com/dgallion1/chatframe/internal/dom"
)

// firstComment parses a chat fragment and returns its first comment node.
func firstComment(t *testing.T, fragment string) Comment {
	t.Helper()
	doc := mustParse(t, chatDoc(fragment))
	nodes := dom.ElementsByTag(doc, DefaultCommentTag)
	if len(nodes) == 0 {
		t.Fatal("fixture has no comment node")
	}
	return NewComment(nodes[0])
}

func TestAuthorName(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     string
		wantOK   bool
	}{
		{
			name:     "owner chip",
			fragment: comment("Owner", "hi"),
			want:     "Owner",
			wantOK:   true,
		},
		{
			name:     "no chip",
			fragment: comment("", "hi"),
			wantOK:   false,
		},
		{
			name:     "no content region",
			fragment: `<yt-live-chat-text-message-renderer><span id="message">hi</span></yt-live-chat-text-message-renderer>`,
			wantOK:   false,
		},
		{
			name:     "first of several chips",
			fragment: `<yt-live-chat-text-message-renderer><div id="content"><yt-live-chat-author-chip>One</yt-live-chat-author-chip><yt-live-chat-author-chip>Two</yt-live-chat-author-chip></div></yt-live-chat-text-message-renderer>`,
			want:     "One",
			wantOK:   true,
		},
		{
			name:     "chip text spans nested nodes",
			fragment: `<yt-live-chat-text-message-renderer><div id="content"><yt-live-chat-author-chip><span>Own</span><span>er</span></yt-live-chat-author-chip></div></yt-live-chat-text-message-renderer>`,
			want:     "Owner",
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AuthorName(firstComment(t, tt.fragment))
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestIsOwnerComment(t *testing.T) {
	withChip := firstComment(t, comment("Owner", "hi"))
	withoutChip := firstComment(t, comment("", "hi"))

	if !IsOwnerComment(withChip, "Owner") {
		t.Error("expected exact owner name to match")
	}
	for _, name := range []string{"owner", "OWNER", "Owner ", " Owner", "Someone", ""} {
		if IsOwnerComment(withChip, name) {
			t.Errorf("expected %q not to match chip %q", name, "Owner")
		}
	}
	for _, name := range []string{"Owner", "", "anyone"} {
		if IsOwnerComment(withoutChip, name) {
			t.Errorf("expected comment without chip never to be owner, matched %q", name)
		}
	}
}

func TestMessageText(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     string
		wantOK   bool
	}{
		{
			name:     "plain text",
			fragment: comment("", "hello"),
			want:     "hello",
			wantOK:   true,
		},
		{
			name:     "empty message is present",
			fragment: comment("", ""),
			want:     "",
			wantOK:   true,
		},
		{
			name:     "text is not trimmed",
			fragment: comment("", "  spaced  "),
			want:     "  spaced  ",
			wantOK:   true,
		},
		{
			name:     "emoji images and runs",
			fragment: comment("", `hi <img alt=":wave:"> <b>there</b>`),
			want:     "hi  there",
			wantOK:   true,
		},
		{
			name:     "message region not rendered",
			fragment: `<yt-live-chat-text-message-renderer><div id="content"><span id="author-name">x</span></div></yt-live-chat-text-message-renderer>`,
			wantOK:   false,
		},
		{
			name:     "content region not rendered",
			fragment: `<yt-live-chat-text-message-renderer><span id="message">hello</span></yt-live-chat-text-message-renderer>`,
			wantOK:   false,
		},
		{
			name:     "message nested deeper than a direct child",
			fragment: `<yt-live-chat-text-message-renderer><div id="content"><div><span id="message">deep</span></div></div></yt-live-chat-text-message-renderer>`,
			wantOK:   false,
		},
		{
			name:     "message found by name attribute",
			fragment: `<yt-live-chat-text-message-renderer><div id="content"><span name="message">named</span></div></yt-live-chat-text-message-renderer>`,
			want:     "named",
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := firstComment(t, tt.fragment)
			got, ok := MessageText(c)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
			if msg := Message(c); msg != tt.want {
				t.Errorf("Message: expected %q, got %q", tt.want, msg)
			}
		})
	}
}

func TestMalformedCommentsAreAbsent(t *testing.T) {
	doc := mustParse(t, `<html><body><p id="content"><span id="message">x</span></p></body></html>`)
	cases := map[string]Comment{
		"zero value": {},
		"nil node":   NewComment(nil),
		"text node":  NewComment(&html.Node{Type: html.TextNode, Data: "hello"}),
		"document":   NewComment(doc),
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			if _, ok := AuthorName(c); ok {
				t.Error("expected absent author")
			}
			if _, ok := MessageText(c); ok {
				t.Error("expected absent message")
			}
			if IsOwnerComment(c, "") {
				t.Error("expected not owner")
			}
			if got := Message(c); got != "" {
				t.Errorf("expected empty message, got %q", got)
			}
		})
	}
}
