// Package api provides the REST handlers and auth middleware.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/revuhq/revu/internal/auth"
	"github.com/revuhq/revu/internal/models"
	"github.com/revuhq/revu/internal/review"
)

// maxJSONBody caps JSON request bodies at 1 MB.
const maxJSONBody = 1 << 20

// maxUploadBytes caps multipart file uploads at 2 MB.
const maxUploadBytes = 2 << 20

// Server provides the REST API handlers.
type Server struct {
	auth    *auth.Service
	reviews *review.Service
	log     *slog.Logger
}

// NewServer creates a new API server.
func NewServer(a *auth.Service, r *review.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{auth: a, reviews: r, log: logger}
}

// Router returns an http.Handler for the API routes.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", s.handleHealth)

	mux.HandleFunc("POST /api/v1/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/v1/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/v1/auth/logout", s.withAuth(s.handleLogout))
	mux.HandleFunc("GET /api/v1/me", s.withAuth(s.handleMe))

	mux.HandleFunc("POST /api/v1/reviews", s.withAuth(s.handleAnalyze))
	mux.HandleFunc("POST /api/v1/reviews/upload", s.withAuth(s.handleUpload))
	mux.HandleFunc("GET /api/v1/reviews", s.withAuth(s.handleHistory))
	mux.HandleFunc("GET /api/v1/reviews/{id}", s.withAuth(s.handleGetReview))
	mux.HandleFunc("DELETE /api/v1/reviews/{id}", s.withAuth(s.handleDeleteReview))

	return s.logMiddleware(corsMiddleware(mux))
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}

type ctxKey int

const userKey ctxKey = 1

// withAuth resolves the bearer token and stores the user in the request
// context.
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		u, err := s.auth.Authenticate(r.Context(), token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		ctx := context.WithValue(r.Context(), userKey, u)
		next(w, r.WithContext(ctx))
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return h[len(prefix):]
	}
	return ""
}

func userFromCtx(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads a size-capped JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	return json.NewDecoder(r.Body).Decode(v)
}

// writeReviewError maps orchestrator errors to HTTP responses. Upstream
// failures get a generic message plus the diagnostic detail.
func (s *Server) writeReviewError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, review.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, review.ErrNotFound):
		writeError(w, http.StatusNotFound, "review not found")
	case errors.Is(err, review.ErrUpstream):
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error":  "failed to analyze code",
			"detail": err.Error(),
		})
	default:
		s.log.Error("internal error", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"timestamp": time.Now().UTC(),
	})
}
