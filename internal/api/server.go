// Package api provides the vmr2tei REST API server: synchronous and
// job-based conversion endpoints plus a WebSocket progress feed.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"vmr2tei/internal/converter"
	"vmr2tei/internal/logging"
)

// Version is the API version reported by the health endpoint.
const Version = "1.0.0"

// ConvertFunc runs one conversion. The server does not construct the
// pipeline itself so tests can inject a stub.
type ConvertFunc func(ctx context.Context, index string, progress converter.ProgressFunc) (*converter.Result, error)

// Config holds the server settings.
type Config struct {
	Port int
}

// Server is the API server.
type Server struct {
	cfg       Config
	convert   ConvertFunc
	hub       *Hub
	jobs      *JobStore
	startTime time.Time
}

// NewServer creates a server around a conversion function.
func NewServer(cfg Config, convert ConvertFunc) *Server {
	return &Server{
		cfg:       cfg,
		convert:   convert,
		hub:       NewHub(),
		jobs:      NewJobStore(),
		startTime: time.Now(),
	}
}

// Routes configures all HTTP routes.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/convert", s.handleConvert)
	mux.HandleFunc("/api/jobs", s.handleJobs)
	mux.HandleFunc("/api/jobs/", s.handleJobByID)
	mux.HandleFunc("/api/ws", s.handleWebSocket)
	return mux
}

// Start runs the hub and serves HTTP until the listener fails.
func (s *Server) Start() error {
	go s.hub.Run()
	handler := logging.CombinedMiddleware(s.Routes())
	logging.ServerStartup("rest_api", "http", s.cfg.Port)
	return http.ListenAndServe(fmt.Sprintf(":%d", s.cfg.Port), handler)
}

// APIResponse is the envelope for all JSON responses.
type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
	Meta    *APIMeta  `json:"meta,omitempty"`
}

// APIError carries a machine-readable code and a human message.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIMeta carries response metadata.
type APIMeta struct {
	Timestamp string `json:"timestamp"`
}

func respond(w http.ResponseWriter, status int, data any) {
	response := APIResponse{
		Success: true,
		Data:    data,
		Meta: &APIMeta{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	response := APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
		},
		Meta: &APIMeta{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}
