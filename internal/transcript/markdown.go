package transcript

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/yuin/goldmark"
)

var mdEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"#", `\#`,
	"|", `\|`,
)

// escapeMarkdown neutralises inline markup in chat text. Newlines are folded
// so one comment stays one list item.
func escapeMarkdown(s string) string {
	return mdEscaper.Replace(foldLines(s))
}

// MarkdownWriter renders a bulleted transcript.
type MarkdownWriter struct{}

func (MarkdownWriter) ContentType() string { return "text/markdown; charset=utf-8" }
func (MarkdownWriter) Extension() string   { return ".md" }

func (MarkdownWriter) Write(w io.Writer, t Transcript) error {
	_, err := w.Write(renderMarkdown(t))
	return err
}

func renderMarkdown(t Transcript) []byte {
	var buf bytes.Buffer
	if t.Title != "" {
		fmt.Fprintf(&buf, "# %s\n\n", escapeMarkdown(t.Title))
	}
	if len(t.Entries) == 0 {
		buf.WriteString("_No comments._\n")
		return buf.Bytes()
	}
	for _, e := range t.Entries {
		buf.WriteString("- **")
		buf.WriteString(escapeMarkdown(e.DisplayAuthor()))
		buf.WriteString("**")
		if e.Owner {
			buf.WriteString(" _(owner)_")
		}
		buf.WriteString(": ")
		buf.WriteString(escapeMarkdown(e.Message))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// HTMLWriter renders the Markdown transcript to a standalone HTML page
// with goldmark.
type HTMLWriter struct{}

func (HTMLWriter) ContentType() string { return "text/html; charset=utf-8" }
func (HTMLWriter) Extension() string   { return ".html" }

func (HTMLWriter) Write(w io.Writer, t Transcript) error {
	var body bytes.Buffer
	if err := goldmark.New().Convert(renderMarkdown(t), &body); err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}

	title := t.Title
	if title == "" {
		title = "Chat transcript"
	}
	var out bytes.Buffer
	out.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>")
	out.WriteString(html.EscapeString(title))
	out.WriteString("</title></head><body>\n")
	out.Write(body.Bytes())
	out.WriteString("</body></html>\n")
	_, err := w.Write(out.Bytes())
	return err
}
