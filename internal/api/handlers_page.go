package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/chatframe/internal/page"
	"github.com/dgallion1/chatframe/internal/telemetry"
)

// handleGetPage reports the current revision and whether the chat frame
// resolves.
func (s *Server) handleGetPage(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"revision":  s.page.Revision(),
		"selectors": s.reader.Selectors(),
		"available": true,
	}
	if _, err := s.reader.Document(); err != nil {
		resp["available"] = false
		resp["reason"] = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// handlePutPage replaces the hosting page with the request body.
func (s *Server) handlePutPage(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	rev, err := s.page.LoadHost(strings.NewReader(body))
	if err != nil {
		jsonError(w, "failed to load page: "+err.Error(), http.StatusBadRequest)
		return
	}
	telemetry.ObservePageLoad("host", len(rev.Frames))
	s.log.Info("host page loaded", "revision", rev.ID, "frames", len(rev.Frames), "bytes", rev.HostBytes)
	writeJSON(w, http.StatusOK, map[string]any{"revision": rev})
}

// handlePutFrame loads the request body into an iframe of the hosting page.
func (s *Server) handlePutFrame(w http.ResponseWriter, r *http.Request) {
	frameID := chi.URLParam(r, "frameID")
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	rev, err := s.page.AttachFrame(frameID, strings.NewReader(body))
	switch {
	case errors.Is(err, page.ErrNoHost):
		jsonError(w, err.Error(), http.StatusConflict)
		return
	case errors.Is(err, page.ErrFrameNotFound):
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	case err != nil:
		jsonError(w, "failed to load frame: "+err.Error(), http.StatusBadRequest)
		return
	}
	telemetry.ObservePageLoad("frame", len(rev.Frames))
	s.log.Info("frame attached", "frame", frameID, "revision", rev.ID)
	writeJSON(w, http.StatusOK, map[string]any{"revision": rev})
}

// handleDeleteFrame unloads an iframe's document.
func (s *Server) handleDeleteFrame(w http.ResponseWriter, r *http.Request) {
	frameID := chi.URLParam(r, "frameID")
	if !s.page.DetachFrame(frameID) {
		jsonError(w, fmt.Sprintf("frame %q has no document", frameID), http.StatusNotFound)
		return
	}
	rev := s.page.Revision()
	telemetry.ObservePageLoad("detach", len(rev.Frames))
	s.log.Info("frame detached", "frame", frameID, "revision", rev.ID)
	writeJSON(w, http.StatusOK, map[string]any{"revision": rev})
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) (string, bool) {
	data, err := io.ReadAll(io.LimitReader(r.Body, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read body", http.StatusBadRequest)
		return "", false
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("body exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return "", false
	}
	if len(data) == 0 {
		jsonError(w, "empty body", http.StatusBadRequest)
		return "", false
	}
	return string(data), true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
