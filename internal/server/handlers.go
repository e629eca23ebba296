package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/resume-aligner/internal/engine"
	"github.com/jonathan/resume-aligner/internal/fetch"
	"github.com/jonathan/resume-aligner/internal/types"
)

// defaultInsightsWindow is the feedback window reported when the request
// does not bound it.
const defaultInsightsWindow = 30 * 24 * time.Hour

// AnalyzeRequest represents the request body for /v1/analyze and /v1/gaps.
// Exactly one of Job and JobURL must be set.
type AnalyzeRequest struct {
	Resume string `json:"resume" validate:"required"`
	Job    string `json:"job" validate:"required_without=JobURL,excluded_with=JobURL"`
	JobURL string `json:"job_url" validate:"omitempty,url"`
	Mode   string `json:"mode" validate:"omitempty,oneof=semantic keyword hybrid"`
}

// RewritePlanRequest represents the request body for /v1/rewrite-plan.
type RewritePlanRequest struct {
	Resume       string `json:"resume" validate:"required"`
	Job          string `json:"job" validate:"required_without=JobURL,excluded_with=JobURL"`
	JobURL       string `json:"job_url" validate:"omitempty,url"`
	Mode         string `json:"mode" validate:"omitempty,oneof=semantic keyword hybrid"`
	Section      string `json:"section" validate:"omitempty,oneof=contact summary experience education skills other"`
	MaxPerBullet int    `json:"max_per_bullet" validate:"gte=0"`
	Style        string `json:"style"`
}

// FeedbackRequest represents the request body for /v1/feedback.
type FeedbackRequest struct {
	ResumeID        string  `json:"resume_id" validate:"required"`
	Section         string  `json:"section" validate:"required,oneof=contact summary experience education skills other"`
	OldText         string  `json:"old_text"`
	NewText         string  `json:"new_text"`
	FeedbackType    string  `json:"feedback_type" validate:"required,oneof=accepted manual_edit rejected rewritten"`
	ConfidenceScore float64 `json:"confidence_score" validate:"gte=0,lte=1"`
}

// decode unmarshals and validates a request body.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return false
	}
	return true
}

// jobText resolves the JD text for a request, fetching it when a URL was
// given instead of inline text.
func (s *Server) jobText(w http.ResponseWriter, r *http.Request, job, jobURL string) (string, bool) {
	if jobURL == "" {
		return job, true
	}
	result, err := fetch.JobPosting(r.Context(), jobURL, nil)
	if err != nil {
		s.logger.Warn("failed to fetch job posting", zap.String("url", jobURL), zap.Error(err))
		s.errorResponse(w, http.StatusBadGateway, "failed to fetch job posting: "+err.Error())
		return "", false
	}
	return result.Text, true
}

// handleAnalyze scores a resume against a job description.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !s.decode(w, r, &req) {
		return
	}

	jd, ok := s.jobText(w, r, req.Job, req.JobURL)
	if !ok {
		return
	}

	result, err := s.engine.Analyze(r.Context(), req.Resume, jd, types.AlignmentMode(req.Mode))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleGaps reports the JD keywords the resume is missing.
func (s *Server) handleGaps(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !s.decode(w, r, &req) {
		return
	}

	jd, ok := s.jobText(w, r, req.Job, req.JobURL)
	if !ok {
		return
	}

	report, err := s.engine.Gaps(r.Context(), req.Resume, jd, types.AlignmentMode(req.Mode))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, report)
}

// handleRewritePlan builds a keyword insertion plan for one resume section.
func (s *Server) handleRewritePlan(w http.ResponseWriter, r *http.Request) {
	var req RewritePlanRequest
	if !s.decode(w, r, &req) {
		return
	}

	jd, ok := s.jobText(w, r, req.Job, req.JobURL)
	if !ok {
		return
	}

	plan, err := s.engine.RewritePlan(r.Context(), req.Resume, jd, engine.PlanRequest{
		Section:      types.SectionType(req.Section),
		Mode:         types.AlignmentMode(req.Mode),
		MaxPerBullet: req.MaxPerBullet,
		Style:        req.Style,
	})
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, plan)
}

// handleRewrite builds a plan and runs the configured text generator over the
// section. Unavailable when the server was built without a generator.
func (s *Server) handleRewrite(w http.ResponseWriter, r *http.Request) {
	var req RewritePlanRequest
	if !s.decode(w, r, &req) {
		return
	}

	jd, ok := s.jobText(w, r, req.Job, req.JobURL)
	if !ok {
		return
	}

	out, err := s.engine.Rewrite(r.Context(), req.Resume, jd, engine.PlanRequest{
		Section:      types.SectionType(req.Section),
		Mode:         types.AlignmentMode(req.Mode),
		MaxPerBullet: req.MaxPerBullet,
		Style:        req.Style,
	})
	switch {
	case errors.Is(err, engine.ErrNoGenerator):
		s.errorResponse(w, http.StatusServiceUnavailable, "rewriting is not enabled on this server")
		return
	case err != nil:
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, out)
}

// handleFeedback records one feedback event.
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if !s.decode(w, r, &req) {
		return
	}

	id, err := s.engine.SubmitFeedback(r.Context(), types.FeedbackEvent{
		ResumeID:        req.ResumeID,
		Section:         types.SectionType(req.Section),
		OldText:         req.OldText,
		NewText:         req.NewText,
		FeedbackType:    types.FeedbackType(req.FeedbackType),
		ConfidenceScore: req.ConfidenceScore,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusCreated, map[string]string{"id": id})
}

// handleInsights aggregates feedback trends over a window. The window is
// controlled by optional RFC 3339 "from" and "to" query parameters.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	from := now.Add(-defaultInsightsWindow)
	to := now

	if v := r.URL.Query().Get("from"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "invalid 'from' timestamp")
			return
		}
		from = parsed
	}
	if v := r.URL.Query().Get("to"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "invalid 'to' timestamp")
			return
		}
		to = parsed
	}

	insights, err := s.engine.Insights(r.Context(), from, to)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, insights)
}

// handleCalibration reports the calibration state currently in effect.
func (s *Server) handleCalibration(w http.ResponseWriter, _ *http.Request) {
	state := types.DefaultCalibrationState()
	if s.publisher != nil {
		state = s.publisher.Active()
	}
	s.jsonResponse(w, http.StatusOK, state)
}
