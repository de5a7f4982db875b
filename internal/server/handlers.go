package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jonathan/job-tailor/internal/cover"
	"github.com/jonathan/job-tailor/internal/fetch"
	"github.com/jonathan/job-tailor/internal/formfill"
	"github.com/jonathan/job-tailor/internal/page"
	"github.com/jonathan/job-tailor/internal/rewrite"
	"github.com/jonathan/job-tailor/internal/types"
)

// PageRequest identifies the page to operate on: either raw HTML captured
// by the content script, or a URL for the server to fetch.
type PageRequest struct {
	URL  string `json:"url,omitempty"`
	HTML string `json:"html,omitempty"`
}

// DetectRequest is the request body for /detect.
type DetectRequest struct {
	PageRequest
}

// DetectResponse is the response body for /detect.
type DetectResponse struct {
	Found     bool                   `json:"found"`
	Platform  string                 `json:"platform"`
	Detection *types.DetectionResult `json:"detection,omitempty"`
}

// MatchRequest is the request body for /match. JD may be supplied directly;
// otherwise the page is detected first.
type MatchRequest struct {
	PageRequest
	JD string `json:"jd,omitempty"`
}

// GenerateRequest is the request body for /optimize and /cover-letter.
type GenerateRequest struct {
	PageRequest
	JD       string `json:"jd,omitempty"`
	JobTitle string `json:"jobTitle,omitempty"`
	Company  string `json:"company,omitempty"`
}

// FillPlanRequest is the request body for /fill-plan.
type FillPlanRequest struct {
	HTML    string           `json:"html"`
	Profile formfill.Profile `json:"profile"`
}

// loadPage resolves a PageRequest into a parsed page. HTML wins over URL so
// the extension can send exactly what the user is looking at.
func (s *Server) loadPage(ctx context.Context, req PageRequest) (*page.Page, fetch.Platform, error) {
	platform := fetch.DetectPlatform(req.URL)

	if req.HTML != "" {
		p, err := page.New(req.HTML, req.URL)
		return p, platform, err
	}
	if req.URL == "" {
		return nil, platform, &ErrValidation{Field: "url", Message: "either html or url is required"}
	}

	result, err := s.fetcher.Fetch(ctx, req.URL)
	if err != nil {
		return nil, platform, err
	}

	p, err := page.New(result.HTML, req.URL)
	if err != nil {
		return nil, platform, err
	}

	if s.cfg.UseBrowser && fetch.ShouldUseBrowser(p.VisibleText()) {
		html, berr := fetch.WithBrowser(ctx, req.URL, fetch.DefaultTimeout, s.cfg.Verbose)
		if berr == nil {
			if rendered, perr := page.New(html, req.URL); perr == nil {
				return rendered, platform, nil
			}
		}
	}
	return p, platform, nil
}

// resolveJD returns the job description and title/company for a generate
// request, running detection when the JD was not supplied directly.
func (s *Server) resolveJD(ctx context.Context, req GenerateRequest) (jd, title, company string, err error) {
	if req.JD != "" {
		return req.JD, req.JobTitle, req.Company, nil
	}

	p, platform, err := s.loadPage(ctx, req.PageRequest)
	if err != nil {
		return "", "", "", err
	}
	detection, err := s.detectPage(ctx, p, platform)
	if err != nil {
		return "", "", "", err
	}
	if detection == nil || detection.JD == "" {
		return "", "", "", &ErrValidation{Field: "jd", Message: "no job description found on the page"}
	}

	title, company = req.JobTitle, req.Company
	if title == "" {
		title = detection.JobTitle
	}
	if company == "" {
		company = detection.Company
	}
	return detection.JD, title, company, nil
}

// handleDetect runs the detection chain against a page.
func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	var req DetectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	p, platform, err := s.loadPage(r.Context(), req.PageRequest)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	detection, err := s.detectPage(r.Context(), p, platform)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, err.Error())
		return
	}

	resp := DetectResponse{
		Found:    detection != nil && detection.JD != "",
		Platform: string(platform),
	}
	if detection != nil {
		resp.Detection = detection
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleMatch scores the master resume against a job description.
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	master, err := s.masterResume(r.Context())
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	jd := req.JD
	if jd == "" {
		var derr error
		jd, _, _, derr = s.resolveJD(r.Context(), GenerateRequest{PageRequest: req.PageRequest})
		if derr != nil {
			s.errorResponse(w, HTTPStatus(derr), derr.Error())
			return
		}
	}

	result := s.matcher.Match(master, jd)
	s.jsonResponse(w, http.StatusOK, result)
}

// handleOptimize runs the two-pass rewrite pipeline.
func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if s.client == nil {
		err := &ErrNoLLM{}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	master, err := s.masterResume(r.Context())
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	jd, title, company, err := s.resolveJD(r.Context(), req)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	result, err := rewrite.Optimize(r.Context(), s.client, master, jd, title, company)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleCoverLetter generates a cover letter for a posting.
func (s *Server) handleCoverLetter(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if s.client == nil {
		err := &ErrNoLLM{}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	master, err := s.masterResume(r.Context())
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	jd, title, company, err := s.resolveJD(r.Context(), req)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	letter, err := cover.Generate(r.Context(), s.client, master, jd, title, company)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"coverLetter": letter})
}

// handleFillPlan plans form writes for the supplied page HTML.
func (s *Server) handleFillPlan(w http.ResponseWriter, r *http.Request) {
	var req FillPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.HTML == "" {
		s.errorResponse(w, http.StatusBadRequest, "html is required")
		return
	}

	p, err := page.New(req.HTML, "")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	plan := s.filler.BuildPlan(p.FormFields(), req.Profile)
	s.jsonResponse(w, http.StatusOK, plan)
}
