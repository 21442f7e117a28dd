package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

type cloneRequest struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

type cloneResponse struct {
	JobID  string `json:"jobId"`
	Status string `json:"status"`
}

// jobResponse keeps absent output and error as JSON null
type jobResponse struct {
	Status         string  `json:"status"`
	Message        string  `json:"message"`
	OutputPath     *string `json:"outputPath"`
	FilesProcessed int     `json:"filesProcessed"`
	Error          *string `json:"error"`
}

type errorResponse struct {
	Error string `json:"error"`
}

const maxRequestBody = 1 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleClone(w http.ResponseWriter, r *http.Request) {
	var req cloneRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}
	if strings.TrimSpace(req.Input) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "input is required"})
		return
	}
	if req.Output == "" {
		req.Output = s.defaultOutput
	}

	id := s.submitter.Submit(req.Input, req.Output)
	s.logger.Info().Str("job_id", id).Str("input", req.Input).Str("output", req.Output).Msg("Job submitted")

	writeJSON(w, http.StatusOK, cloneResponse{JobID: id, Status: "started"})
}

func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	job, ok := s.jobs.Get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Job not found"})
		return
	}

	resp := jobResponse{
		Status:         string(job.Status),
		Message:        job.Message,
		FilesProcessed: job.FilesProcessed,
	}
	if job.OutputPath != "" {
		resp.OutputPath = &job.OutputPath
	}
	if job.Error != "" {
		resp.Error = &job.Error
	}
	writeJSON(w, http.StatusOK, resp)
}
