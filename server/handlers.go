package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/lucerna/colloquy/core"
	"github.com/lucerna/colloquy/ingest"
	"github.com/lucerna/colloquy/qa"
	"github.com/lucerna/colloquy/storage"
)

// ingestRequest is the body of POST /transcripts. Structure defaults to
// true; set it to false to store the raw text verbatim.
type ingestRequest struct {
	Title     string            `json:"title"`
	Text      string            `json:"text"`
	Structure *bool             `json:"structure,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

type chatRequest struct {
	TranscriptId string `json:"transcript_id"`
	Query        string `json:"query"`
}

type transcriptView struct {
	Id         string            `json:"id"`
	Title      string            `json:"title"`
	Contents   string            `json:"contents,omitempty"`
	InsertedAt time.Time         `json:"inserted_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

func viewOf(t *core.Transcript, withContents bool) transcriptView {
	v := transcriptView{
		Id:         t.Id,
		Title:      t.Title,
		InsertedAt: t.InsertedAt,
		UpdatedAt:  t.UpdatedAt,
		Metadata:   t.Metadata,
	}
	if withContents {
		v.Contents = t.Contents
	}
	return v
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"status":  "healthy",
	})
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	skip := req.Structure != nil && !*req.Structure
	transcript, err := s.pipeline.Ingest(r.Context(), req.Text, &ingest.IngestOptions{
		Title:           req.Title,
		Metadata:        req.Metadata,
		SkipStructuring: skip,
	})
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, map[string]any{
		"success":    true,
		"transcript": viewOf(transcript, false),
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	transcript, err := s.repository.GetTranscript(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"transcript": viewOf(transcript, true),
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	transcripts, err := s.repository.ListTranscripts(r.Context(), 0)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	views := make([]transcriptView, len(transcripts))
	for i, t := range transcripts {
		views[i] = viewOf(t, false)
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"transcripts": views,
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.TranscriptId) == "" {
		s.writeError(w, http.StatusBadRequest, "transcript_id is required")
		return
	}

	answer, err := s.answerer.Ask(r.Context(), req.TranscriptId, req.Query)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"transcript_id": answer.TranscriptId,
		"answer":        answer.Text,
		"fallback":      answer.Fallback,
	})
}

// writeFailure maps domain errors onto HTTP status codes. Anything
// unrecognized is a 500 with the detail kept in the server log.
func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.writeError(w, http.StatusNotFound, "transcript not found")
	case errors.Is(err, storage.ErrEmptyId),
		errors.Is(err, qa.ErrEmptyQuery),
		errors.Is(err, ingest.ErrEmptyTranscript):
		s.writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]any{
		"success": false,
		"error":   message,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("error encoding response", "err", err)
	}
}
