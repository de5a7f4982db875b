package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/jonathan/job-tailor/internal/db"
	"github.com/jonathan/job-tailor/internal/fetch"
	"github.com/jonathan/job-tailor/internal/resume"
)

// SavePostingRequest is the request body for POST /postings. A detection
// result plus the URL it came from.
type SavePostingRequest struct {
	URL         string `json:"url"`
	Title       string `json:"jobTitle,omitempty"`
	Company     string `json:"company,omitempty"`
	Description string `json:"jd"`
	Method      string `json:"method"`
	// RunMatch also scores the posting against the resume and stores the
	// snapshot with it.
	RunMatch bool `json:"runMatch,omitempty"`
}

func (s *Server) requireDB(w http.ResponseWriter) bool {
	if s.db == nil {
		s.errorResponse(w, http.StatusPreconditionFailed, "no database configured")
		return false
	}
	return true
}

func (s *Server) handleSavePosting(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w) {
		return
	}

	var req SavePostingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.URL == "" || req.Description == "" {
		s.errorResponse(w, http.StatusBadRequest, "url and jd are required")
		return
	}

	posting := &db.SavedPosting{
		URL:         req.URL,
		Title:       req.Title,
		Company:     req.Company,
		Description: req.Description,
		Method:      req.Method,
		Platform:    string(fetch.DetectPlatform(req.URL)),
	}
	id, err := s.db.SavePosting(r.Context(), posting)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := map[string]any{"id": id}
	if req.RunMatch {
		master, err := s.masterResume(r.Context())
		if err != nil {
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return
		}
		match := s.matcher.Match(master, req.Description)
		if err := s.db.AttachMatch(r.Context(), id, match.OverallScore, match); err != nil {
			s.errorResponse(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp["match"] = match
	}

	s.jsonResponse(w, http.StatusCreated, resp)
}

func (s *Server) handleListPostings(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w) {
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	postings, err := s.db.ListPostings(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"postings": postings})
}

func (s *Server) handleGetPosting(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w) {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid posting id")
		return
	}

	posting, err := s.db.GetPosting(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if posting == nil {
		nf := &ErrPostingNotFound{ID: id}
		s.errorResponse(w, HTTPStatus(nf), nf.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, posting)
}

func (s *Server) handleDeletePosting(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w) {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid posting id")
		return
	}

	if err := s.db.DeletePosting(r.Context(), id); err != nil {
		s.errorResponse(w, http.StatusNotFound, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// SaveResumeRequest is the request body for POST /resumes.
type SaveResumeRequest struct {
	Name      string `json:"name"`
	Content   string `json:"content"`
	IsDefault bool   `json:"isDefault,omitempty"`
}

func (s *Server) handleSaveResume(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w) {
		return
	}

	var req SaveResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Name == "" || req.Content == "" {
		s.errorResponse(w, http.StatusBadRequest, "name and content are required")
		return
	}

	// Reject resumes that do not parse; storing garbage would break every
	// later match and rewrite.
	if _, err := resume.Parse([]byte(req.Content)); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid resume: "+err.Error())
		return
	}

	id, err := s.db.SaveResume(r.Context(), req.Name, req.Content, req.IsDefault)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusCreated, map[string]any{"id": id})
}

func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w) {
		return
	}

	resumes, err := s.db.ListResumes(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"resumes": resumes})
}
