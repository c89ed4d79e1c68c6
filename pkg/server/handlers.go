package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/promptpress/promptpress/pkg/optimizer"
)

// maxRequestBody caps the optimize request body at 1 MiB.
const maxRequestBody = 1 << 20

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type healthResponse struct {
	Status string  `json:"status"`
	Uptime float64 `json:"uptime"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// handleOptimize serves POST /api/optimize. All failures, including
// validation, answer with 500 and an {error, details} body to keep the
// original wire contract.
func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method Not Allowed"})
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "Internal Server Error",
			Details: "failed to read request body",
		})
		return
	}

	var req optimizer.Request
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{
				Error:   "Internal Server Error",
				Details: "invalid JSON in request body",
			})
			return
		}
	}

	result, err := s.pipeline.Optimize(r.Context(), req)
	if err != nil {
		var verr *optimizer.ValidationError
		if !errors.As(err, &verr) {
			slog.Error("optimization failed",
				"error", err,
				"request_id", GetRequestID(r.Context()),
			)
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "Internal Server Error",
			Details: err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleMetrics serves GET /metrics with the aggregated journal summary.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method Not Allowed"})
		return
	}

	summary, err := s.collector.Aggregate(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "Internal Server Error",
			Details: err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// handleHealthz serves GET /healthz.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method Not Allowed"})
		return
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		Uptime: time.Since(s.started).Seconds(),
	})
}
