package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/dgallion1/chatframe/internal/livechat"
	"github.com/dgallion1/chatframe/internal/telemetry"
	"github.com/dgallion1/chatframe/internal/transcript"
)

// observe records one chat query in the metrics and the stats window.
func (s *Server) observe(query, outcome string, start time.Time) {
	d := time.Since(start)
	telemetry.ObserveQuery(query, outcome, d)
	s.stats.Record(d)
}

// ownerParam returns the owner name from the query string, falling back to
// the configured owner.
func (s *Server) ownerParam(r *http.Request, key string) string {
	if v := r.URL.Query().Get(key); v != "" {
		return v
	}
	return s.cfg.OwnerName
}

// unavailable answers 503 for an unreachable chat document.
func (s *Server) unavailable(w http.ResponseWriter, query string, err error) {
	s.log.Debug("chat unavailable", "query", query, "error", err)
	jsonError(w, err.Error(), http.StatusServiceUnavailable)
}

func (s *Server) handleAllComments(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	comments, err := s.reader.AllComments()
	if errors.Is(err, livechat.ErrUnavailable) {
		s.observe("all", telemetry.OutcomeUnavailable, start)
		s.unavailable(w, "all", err)
		return
	}
	outcome := telemetry.OutcomeOK
	if len(comments) == 0 {
		outcome = telemetry.OutcomeEmpty
	}
	entries := transcript.Build(comments, s.ownerParam(r, "owner"))
	s.observe("all", outcome, start)

	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(entries),
		"comments": entries,
	})
}

// handleLatestComment reads the whole list so it can tell an unreachable
// chat (503) from an empty one (404).
func (s *Server) handleLatestComment(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	comments, err := s.reader.AllComments()
	if errors.Is(err, livechat.ErrUnavailable) {
		s.observe("latest", telemetry.OutcomeUnavailable, start)
		s.unavailable(w, "latest", err)
		return
	}
	if len(comments) == 0 {
		s.observe("latest", telemetry.OutcomeAbsent, start)
		jsonError(w, "no comments rendered", http.StatusNotFound)
		return
	}
	entries := transcript.Build(comments, s.ownerParam(r, "owner"))
	s.observe("latest", telemetry.OutcomeOK, start)

	writeJSON(w, http.StatusOK, map[string]any{"comment": entries[len(entries)-1]})
}

func (s *Server) handleOwnerComments(w http.ResponseWriter, r *http.Request) {
	owner := s.ownerParam(r, "name")
	if owner == "" {
		jsonError(w, "name query parameter is required (no OWNER_NAME configured)", http.StatusBadRequest)
		return
	}

	start := time.Now()
	comments, err := s.reader.OwnerComments(owner)
	if errors.Is(err, livechat.ErrUnavailable) {
		s.observe("owner", telemetry.OutcomeUnavailable, start)
		s.unavailable(w, "owner", err)
		return
	}
	outcome := telemetry.OutcomeOK
	if len(comments) == 0 {
		outcome = telemetry.OutcomeEmpty
	}
	entries := transcript.Build(comments, owner)
	s.observe("owner", outcome, start)

	writeJSON(w, http.StatusOK, map[string]any{
		"owner":    owner,
		"count":    len(entries),
		"comments": entries,
	})
}
