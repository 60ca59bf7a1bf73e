package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/smartcampus/copilot/internal/auth"
	"github.com/smartcampus/copilot/internal/models"
	"github.com/smartcampus/copilot/internal/recommend"
	"github.com/smartcampus/copilot/internal/schedule"
	"github.com/smartcampus/copilot/internal/storage"
	"go.uber.org/zap"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type userResponse struct {
	ID      int64          `json:"id"`
	Name    string         `json:"name"`
	Email   string         `json:"email"`
	Profile models.Profile `json:"profile"`
}

func toUserResponse(user *models.User) userResponse {
	return userResponse{ID: user.ID, Name: user.Name, Email: user.Email, Profile: user.Profile}
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		s.respondError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Profile:      models.Profile{Interests: []string{}},
	}
	if err := s.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			s.respondError(w, http.StatusBadRequest, "email already registered")
			return
		}
		s.respondDomainError(w, err)
		return
	}

	token, err := s.auth.IssueToken(user.ID)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	s.logger.Info("User signed up", zap.Int64("user_id", user.ID))
	s.respondJSON(w, http.StatusOK, authResponse{Token: token, User: toUserResponse(user)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), req.Email)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && !auth.CheckPassword(user.PasswordHash, req.Password)) {
		s.respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	token, err := s.auth.IssueToken(user.ID)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, authResponse{Token: token, User: toUserResponse(user)})
}

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.GetUser(r.Context(), userID(r))
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, toUserResponse(user))
}

type updateMeRequest struct {
	Interests    []string `json:"interests"`
	WeeklyBudget float64  `json:"weekly_budget"`
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var req updateMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.WeeklyBudget < 0 {
		s.respondError(w, http.StatusBadRequest, "weekly budget must not be negative")
		return
	}

	interests := req.Interests
	if interests == nil {
		interests = []string{}
	}
	profile := models.Profile{Interests: interests, WeeklyBudget: req.WeeklyBudget}
	if err := s.store.UpdateProfile(r.Context(), userID(r), profile); err != nil {
		s.respondDomainError(w, err)
		return
	}

	user, err := s.store.GetUser(r.Context(), userID(r))
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	catalog, err := s.store.GetCatalog(r.Context())
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	if catalog == nil {
		catalog = []models.Activity{}
	}
	s.respondJSON(w, http.StatusOK, catalog)
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	profile, err := s.store.GetProfile(r.Context(), userID(r))
	if errors.Is(err, storage.ErrNotFound) {
		profile = models.Profile{}
	} else if err != nil {
		s.respondDomainError(w, err)
		return
	}

	catalog, err := s.store.GetCatalog(r.Context())
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	recs := recommend.Recommend(profile, catalog)
	if recs == nil {
		recs = []models.Recommendation{}
	}
	s.respondJSON(w, http.StatusOK, recs)
}

type plannerResponse struct {
	Entries    []models.ScheduleEntry `json:"entries"`
	TotalCost  float64                `json:"total_cost"`
	OverBudget bool                   `json:"over_budget"`
}

func (s *Server) buildPlannerResponse(r *http.Request, plan models.Plan) plannerResponse {
	profile, err := s.store.GetProfile(r.Context(), userID(r))
	if err != nil {
		profile = models.Profile{}
	}
	return plannerResponse{
		Entries:    plan.Entries,
		TotalCost:  schedule.TotalCost(plan),
		OverBudget: schedule.OverBudget(plan, profile),
	}
}

func (s *Server) handleGetPlanner(w http.ResponseWriter, r *http.Request) {
	plan, err := s.planner.Load(r.Context(), userID(r))
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, s.buildPlannerResponse(r, plan))
}

type savePlannerRequest struct {
	Entries []models.ScheduleEntry `json:"entries"`
}

func (s *Server) handleSavePlanner(w http.ResponseWriter, r *http.Request) {
	var req savePlannerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	plan := models.Plan{OwnerID: userID(r), Entries: req.Entries}
	if plan.Entries == nil {
		plan.Entries = []models.ScheduleEntry{}
	}
	if err := s.planner.Save(r.Context(), plan); err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, s.buildPlannerResponse(r, plan))
}

func (s *Server) handlePlaceEntry(w http.ResponseWriter, r *http.Request) {
	var entry models.ScheduleEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	placed, err := s.planner.Place(r.Context(), userID(r), entry)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, s.buildPlannerResponse(r, placed))
}

func (s *Server) handleOptimizePlanner(w http.ResponseWriter, r *http.Request) {
	optimized, err := s.planner.Optimize(r.Context(), userID(r))
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, s.buildPlannerResponse(r, optimized))
}

type chatRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name := ""
	if user, err := s.store.GetUser(r.Context(), userID(r)); err == nil {
		name = user.Name
	}

	reply, err := s.router.Reply(r.Context(), userID(r), name, req.Message)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, reply)
}

type feedbackRequest struct {
	Feedback string `json:"feedback"`
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Feedback == "" {
		s.respondError(w, http.StatusBadRequest, "feedback is required")
		return
	}

	fb := &models.Feedback{
		ID:      uuid.New().String(),
		UserID:  userID(r),
		Content: req.Feedback,
	}
	if err := s.store.SaveFeedback(r.Context(), fb); err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"message": "Thank you for your feedback!"})
}
