package transcript

import (
	"fmt"
	"io"

	"github.com/fumiama/go-docx"
)

// DOCXWriter writes a Word document with one paragraph per comment.
type DOCXWriter struct{}

func (DOCXWriter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}
func (DOCXWriter) Extension() string { return ".docx" }

func (DOCXWriter) Write(w io.Writer, t Transcript) error {
	doc := docx.New().WithDefaultTheme()

	if t.Title != "" {
		doc.AddParagraph().AddText(t.Title).Size("32").Bold()
	}
	if len(t.Entries) == 0 {
		doc.AddParagraph().AddText("No comments.")
	}
	for _, e := range t.Entries {
		para := doc.AddParagraph()
		author := para.AddText(e.DisplayAuthor())
		author.Bold()
		if e.Owner {
			para.AddText(" (owner)")
		}
		para.AddText(": " + e.Message)
	}

	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}
