package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/smartcampus/copilot/internal/auth"
	"github.com/smartcampus/copilot/internal/chat"
	"github.com/smartcampus/copilot/internal/schedule"
	"github.com/smartcampus/copilot/internal/storage"
	"go.uber.org/zap"
)

// Server is the HTTP boundary. It parses requests, authenticates them and
// hands plain data to the engines; all decision logic lives below it.
type Server struct {
	store   storage.Store
	planner *schedule.Service
	router  *chat.Router
	auth    *auth.Manager
	logger  *zap.Logger
}

func New(store storage.Store, planner *schedule.Service, router *chat.Router, authManager *auth.Manager, logger *zap.Logger) *Server {
	return &Server{
		store:   store,
		planner: planner,
		router:  router,
		auth:    authManager,
		logger:  logger,
	}
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/signup", s.handleSignup)
		r.Post("/login", s.handleLogin)
		r.Get("/events", s.handleEvents)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)
			r.Get("/me", s.handleGetMe)
			r.Put("/me", s.handleUpdateMe)
			r.Get("/recommendations", s.handleRecommendations)
			r.Get("/planner", s.handleGetPlanner)
			r.Post("/planner", s.handleSavePlanner)
			r.Post("/planner/entries", s.handlePlaceEntry)
			r.Post("/planner/optimize", s.handleOptimizePlanner)
			r.Post("/chat", s.handleChat)
			r.Post("/feedback", s.handleFeedback)
		})
	})
	return r
}

type contextKey string

const userIDKey contextKey = "user_id"

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			s.respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		userID, err := s.auth.VerifyToken(token)
		if err != nil {
			s.respondError(w, http.StatusForbidden, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userID(r *http.Request) int64 {
	id, _ := r.Context().Value(userIDKey).(int64)
	return id
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, errorResponse{Error: message})
}

// respondDomainError maps engine and store errors onto HTTP statuses.
func (s *Server) respondDomainError(w http.ResponseWriter, err error) {
	var verr *schedule.ValidationError
	var conflict *schedule.ConflictError
	switch {
	case errors.As(err, &verr):
		s.respondError(w, http.StatusBadRequest, verr.Error())
	case errors.As(err, &conflict):
		s.respondError(w, http.StatusConflict, conflict.Error())
	case errors.Is(err, storage.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "not found")
	default:
		s.logger.Error("Request failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "internal error")
	}
}
