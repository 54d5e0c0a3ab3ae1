package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"vmr2tei/core/errors"
)

// HealthInfo is the health endpoint payload.
type HealthInfo struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
	Jobs    int    `json:"jobs"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Endpoint not found")
		return
	}
	respond(w, http.StatusOK, map[string]any{
		"name":    "vmr2tei API",
		"version": Version,
		"endpoints": []string{
			"GET /api/health",
			"POST /api/convert",
			"POST /api/jobs",
			"GET /api/jobs/:id",
			"GET /api/jobs/:id/result",
			"DELETE /api/jobs/:id",
			"WS /api/ws",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}
	respond(w, http.StatusOK, HealthInfo{
		Status:  "healthy",
		Version: Version,
		Uptime:  time.Since(s.startTime).String(),
		Jobs:    len(s.jobs.List()),
	})
}

// handleConvert handles POST /api/convert - Run a conversion
// synchronously and return the TEI document.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only POST is allowed")
		return
	}
	req, ok := decodeConvertRequest(w, r)
	if !ok {
		return
	}
	res, err := s.convert(r.Context(), req.Index, nil)
	if err != nil {
		respondConvertError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(res.TEI)
}

// handleJobs handles POST /api/jobs - Create a conversion job.
func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only POST is allowed")
		return
	}
	req, ok := decodeConvertRequest(w, r)
	if !ok {
		return
	}
	job := s.jobs.Create(req.Index)
	s.runJob(job)
	snapshot, _ := s.jobs.Get(job.ID)
	respond(w, http.StatusCreated, snapshot)
}

// handleJobByID routes GET /api/jobs/{id}, GET /api/jobs/{id}/result,
// and DELETE /api/jobs/{id}.
func (s *Server) handleJobByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		respondError(w, http.StatusBadRequest, "MISSING_ID", "Job ID is required")
		return
	}
	switch {
	case sub == "result" && r.Method == http.MethodGet:
		s.jobResultHandler(w, id)
	case sub != "":
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Endpoint not found")
	case r.Method == http.MethodGet:
		s.getJobHandler(w, id)
	case r.Method == http.MethodDelete:
		s.cancelJobHandler(w, id)
	default:
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET and DELETE are allowed")
	}
}

func (s *Server) getJobHandler(w http.ResponseWriter, id string) {
	job, exists := s.jobs.Get(id)
	if !exists {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Job not found")
		return
	}
	respond(w, http.StatusOK, job)
}

func (s *Server) jobResultHandler(w http.ResponseWriter, id string) {
	job, exists := s.jobs.Get(id)
	if !exists {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Job not found")
		return
	}
	tei, ready := s.jobs.Result(id)
	if !ready {
		respondError(w, http.StatusConflict, "NOT_READY",
			"Job has not completed (status: "+string(job.Status)+")")
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(tei)
}

func (s *Server) cancelJobHandler(w http.ResponseWriter, id string) {
	if err := s.jobs.Cancel(id); err != nil {
		if strings.Contains(err.Error(), "not found") {
			respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
			return
		}
		respondError(w, http.StatusBadRequest, "CANCEL_FAILED", err.Error())
		return
	}
	respond(w, http.StatusOK, map[string]string{"message": "Job cancelled"})
}

func decodeConvertRequest(w http.ResponseWriter, r *http.Request) (ConvertRequest, bool) {
	var req ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return req, false
	}
	if req.Index == "" {
		respondError(w, http.StatusBadRequest, "MISSING_PARAMS", "index is required")
		return req, false
	}
	return req, true
}

// respondConvertError maps pipeline errors onto HTTP statuses.
func respondConvertError(w http.ResponseWriter, err error) {
	var idxErr *errors.IndexError
	if errors.As(err, &idxErr) {
		respondError(w, http.StatusBadRequest, "INVALID_INDEX", err.Error())
		return
	}
	var httpErr *errors.HTTPError
	if errors.As(err, &httpErr) {
		respondError(w, http.StatusBadGateway, "UPSTREAM_ERROR", err.Error())
		return
	}
	respondError(w, http.StatusInternalServerError, "CONVERSION_FAILED", err.Error())
}
