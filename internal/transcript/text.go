package transcript

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// TextWriter writes one "[index] author: message" line per entry. Line
// breaks inside a message are folded to spaces.
type TextWriter struct{}

func (TextWriter) ContentType() string { return "text/plain; charset=utf-8" }
func (TextWriter) Extension() string   { return ".txt" }

func (TextWriter) Write(w io.Writer, t Transcript) error {
	bw := bufio.NewWriter(w)
	if t.Title != "" {
		fmt.Fprintf(bw, "%s\n\n", t.Title)
	}
	for _, e := range t.Entries {
		marker := ""
		if e.Owner {
			marker = " *"
		}
		fmt.Fprintf(bw, "[%d] %s%s: %s\n", e.Index, foldLines(e.DisplayAuthor()), marker, foldLines(e.Message))
	}
	return bw.Flush()
}

func foldLines(s string) string {
	return lineFolder.Replace(s)
}

var lineFolder = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// CSVWriter writes a header row followed by one row per entry.
type CSVWriter struct{}

func (CSVWriter) ContentType() string { return "text/csv; charset=utf-8" }
func (CSVWriter) Extension() string   { return ".csv" }

func (CSVWriter) Write(w io.Writer, t Transcript) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"index", "author", "owner", "message"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range t.Entries {
		row := []string{
			strconv.Itoa(e.Index),
			e.Author,
			strconv.FormatBool(e.Owner),
			e.Message,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", e.Index, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
