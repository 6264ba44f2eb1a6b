package api

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dgallion1/chatframe/internal/livechat"
	"github.com/dgallion1/chatframe/internal/telemetry"
	"github.com/dgallion1/chatframe/internal/transcript"
)

// handleTranscript renders the current chat as a downloadable transcript.
// only=owner restricts it to the owner's comments.
func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = "markdown"
	}
	writer, err := transcript.ForFormat(format)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	owner := s.ownerParam(r, "owner")
	onlyOwner := q.Get("only") == "owner"
	if onlyOwner && owner == "" {
		jsonError(w, "owner is required with only=owner", http.StatusBadRequest)
		return
	}

	start := time.Now()
	var comments []livechat.Comment
	if onlyOwner {
		comments, err = s.reader.OwnerComments(owner)
	} else {
		comments, err = s.reader.AllComments()
	}
	if errors.Is(err, livechat.ErrUnavailable) {
		s.observe("transcript", telemetry.OutcomeUnavailable, start)
		s.unavailable(w, "transcript", err)
		return
	}
	s.observe("transcript", telemetry.OutcomeOK, start)

	tr := transcript.Transcript{
		Title:   q.Get("title"),
		Owner:   owner,
		Entries: transcript.Build(comments, owner),
	}
	var buf bytes.Buffer
	if err := writer.Write(&buf, tr); err != nil {
		s.log.Error("transcript render failed", "format", format, "error", err)
		jsonError(w, "failed to render transcript", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", writer.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="chat-transcript`+writer.Extension()+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}
