package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/careerpilot/resume-studio/internal/db"
	"github.com/careerpilot/resume-studio/internal/document"
	"github.com/careerpilot/resume-studio/internal/enhance"
	"github.com/careerpilot/resume-studio/internal/server/middleware"
)

// SnapshotStore persists session draft snapshots and the applied-suggestion
// audit trail. Implemented by db.DB; nil disables persistence.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, sessionID uuid.UUID, resumeID string, doc any) error
	GetSnapshot(ctx context.Context, sessionID uuid.UUID) ([]byte, error)
	DeleteSnapshot(ctx context.Context, sessionID uuid.UUID) error
	RecordAppliedSuggestion(ctx context.Context, rec db.AppliedSuggestion) error
	ListAppliedSuggestions(ctx context.Context, sessionID uuid.UUID) ([]db.AppliedSuggestion, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	api        document.ResumeAPI
	suggester  enhance.Suggester
	db         SnapshotStore
	sessions   *sessionManager
}

// Config holds server configuration
type Config struct {
	Port int
}

// Deps are the collaborators the server is constructed with. API and
// Suggester are required; DB is optional (nil disables draft snapshots).
type Deps struct {
	API       document.ResumeAPI
	Suggester enhance.Suggester
	Tokens    middleware.TokenValidator
	DB        SnapshotStore
}

// New creates a new server instance
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.API == nil {
		return nil, fmt.Errorf("resume API client is required")
	}
	if deps.Suggester == nil {
		return nil, fmt.Errorf("suggestion provider is required")
	}
	if deps.Tokens == nil {
		return nil, fmt.Errorf("token validator is required")
	}

	s := &Server{
		api:       deps.API,
		suggester: deps.Suggester,
		db:        deps.DB,
		sessions:  newSessionManager(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	authed := http.NewServeMux()
	authed.HandleFunc("POST /sessions", s.handleCreateSession)
	authed.HandleFunc("GET /sessions/{id}", s.handleGetDocument)
	authed.HandleFunc("DELETE /sessions/{id}", s.handleDeleteSession)
	authed.HandleFunc("POST /sessions/{id}/save", s.handleSave)
	authed.HandleFunc("POST /sessions/{id}/analyze", s.handleAnalyze)
	authed.HandleFunc("GET /sessions/{id}/download", s.handleDownload)
	authed.HandleFunc("GET /sessions/{id}/snapshot", s.handleGetSnapshot)
	authed.HandleFunc("POST /sessions/{id}/dismiss-error", s.handleDismissError)

	authed.HandleFunc("PATCH /sessions/{id}/sections/{section_id}", s.handlePatchSection)
	authed.HandleFunc("POST /sessions/{id}/sections/reorder", s.handleReorderSections)
	authed.HandleFunc("POST /sessions/{id}/sections/{section_id}/toggle", s.handleToggleVisibility)

	authed.HandleFunc("POST /sessions/{id}/enhancements", s.handleFetchEnhancements)
	authed.HandleFunc("POST /sessions/{id}/enhancements/regenerate", s.handleRegenerateEnhancements)
	authed.HandleFunc("GET /sessions/{id}/enhancements", s.handleListEnhancements)
	authed.HandleFunc("POST /sessions/{id}/enhancements/{index}/apply", s.handleApplySuggestion)
	authed.HandleFunc("GET /sessions/{id}/enhancements/applied", s.handleListAppliedSuggestions)
	authed.HandleFunc("POST /sessions/{id}/enhancements/confirm", s.handleConfirmMetrics)
	authed.HandleFunc("DELETE /sessions/{id}/enhancements", s.handleClosePanel)

	mux.Handle("/sessions", middleware.Auth(deps.Tokens)(authed))
	mux.Handle("/sessions/", middleware.Auth(deps.Tokens)(authed))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler exposes the configured handler (for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
