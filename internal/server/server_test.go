package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/smartcampus/copilot/internal/auth"
	"github.com/smartcampus/copilot/internal/chat"
	"github.com/smartcampus/copilot/internal/models"
	"github.com/smartcampus/copilot/internal/schedule"
	"github.com/smartcampus/copilot/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) (*httptest.Server, *storage.MemoryStore) {
	t.Helper()

	store := storage.NewMemoryStore()
	store.SetCatalog([]models.Activity{
		{ID: "1", Title: "Campus Hackathon", Cost: 0, DurationSlots: 6, Tags: []string{"Technology", "Social"}, Rating: 4.8},
		{ID: "2", Title: "Coffee & Code Meetup", Cost: 250, DurationSlots: 1, Tags: []string{"Technology", "Food"}, Rating: 4.5},
		{ID: "3", Title: "Yoga in the Park", Cost: 200, DurationSlots: 1, Tags: []string{"Wellness"}, Rating: 4.0},
	})

	logger := zap.NewNop()
	planner := schedule.NewService(store, logger)
	router := chat.NewRouter(store, planner, nil, logger)
	authManager := auth.NewManager("test-secret", time.Hour)

	srv := httptest.NewServer(New(store, planner, router, authManager, logger).Routes())
	t.Cleanup(srv.Close)
	return srv, store
}

func doJSON(t *testing.T, method, url, token string, body any, out any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func signup(t *testing.T, srv *httptest.Server) string {
	t.Helper()

	var res authResponse
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/signup", "", signupRequest{
		Name:     "Asha",
		Email:    "asha@campus.test",
		Password: "hunter2",
	}, &res)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, res.Token)
	return res.Token
}

func TestSignupLoginAndMe(t *testing.T) {
	srv, _ := newTestServer(t)
	token := signup(t, srv)

	// Duplicate email is rejected.
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/signup", "", signupRequest{
		Name: "Imposter", Email: "asha@campus.test", Password: "pw",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var login authResponse
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/login", "", loginRequest{
		Email: "asha@campus.test", Password: "hunter2",
	}, &login)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/login", "", loginRequest{
		Email: "asha@campus.test", Password: "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var me userResponse
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/me", token, nil, &me)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Asha", me.Name)
}

func TestAuthRequired(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/me", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/planner", "bogus", nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestProfileUpdatePersists(t *testing.T) {
	srv, _ := newTestServer(t)
	token := signup(t, srv)

	var updated userResponse
	resp := doJSON(t, http.MethodPut, srv.URL+"/api/me", token, updateMeRequest{
		Interests:    []string{"Technology"},
		WeeklyBudget: 300,
	}, &updated)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var me userResponse
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/me", token, nil, &me)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"Technology"}, me.Profile.Interests)
	assert.Equal(t, 300.0, me.Profile.WeeklyBudget)

	resp = doJSON(t, http.MethodPut, srv.URL+"/api/me", token, updateMeRequest{WeeklyBudget: -1}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRecommendationsRespectProfile(t *testing.T) {
	srv, _ := newTestServer(t)
	token := signup(t, srv)

	doJSON(t, http.MethodPut, srv.URL+"/api/me", token, updateMeRequest{
		Interests:    []string{"Technology"},
		WeeklyBudget: 100,
	}, nil)

	var recs []models.Recommendation
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/recommendations", token, nil, &recs)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Budget 100 cuts the meetup; Wellness-only yoga fails the interest cut.
	require.Len(t, recs, 1)
	assert.Equal(t, "Campus Hackathon", recs[0].Activity.Title)
	assert.Contains(t, recs[0].Explanation, "Technology")
}

func TestPlannerPlaceConflictAndOptimize(t *testing.T) {
	srv, _ := newTestServer(t)
	token := signup(t, srv)

	var planner plannerResponse
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/planner/entries", token, models.ScheduleEntry{
		Day: 0, StartSlot: 0, DurationSlots: 2, Title: "Study Session",
	}, &planner)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, planner.Entries, 1)

	// Overlapping placement is a 409 naming the colliding entry.
	var errRes errorResponse
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/planner/entries", token, models.ScheduleEntry{
		Day: 0, StartSlot: 1, DurationSlots: 1, Title: "Coffee Break", Cost: 350,
	}, &errRes)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, errRes.Error, "Study Session")

	// A non-overlapping slot works.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/planner/entries", token, models.ScheduleEntry{
		Day: 0, StartSlot: 2, DurationSlots: 1, Title: "Coffee Break", Cost: 350,
	}, &planner)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 350.0, planner.TotalCost)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/planner/optimize", token, nil, &planner)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, planner.Entries, 2)
	assert.Equal(t, "Study Session", planner.Entries[0].Title)
}

func TestPlannerSaveIsFullReplace(t *testing.T) {
	srv, _ := newTestServer(t)
	token := signup(t, srv)

	var planner plannerResponse
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/planner", token, savePlannerRequest{
		Entries: []models.ScheduleEntry{
			{Day: 0, StartSlot: 0, DurationSlots: 2, Title: "Study Session"},
			{Day: 1, StartSlot: 1, DurationSlots: 2, Title: "AI Ethics Class"},
		},
	}, &planner)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/planner", token, savePlannerRequest{
		Entries: []models.ScheduleEntry{
			{Day: 2, StartSlot: 0, DurationSlots: 1, Title: "Yoga", Cost: 200},
		},
	}, &planner)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/planner", token, nil, &planner)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, planner.Entries, 1)
	assert.Equal(t, "Yoga", planner.Entries[0].Title)

	// Saving an overlapping set is rejected outright.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/planner", token, savePlannerRequest{
		Entries: []models.ScheduleEntry{
			{Day: 0, StartSlot: 0, DurationSlots: 2, Title: "A"},
			{Day: 0, StartSlot: 1, DurationSlots: 1, Title: "B"},
		},
	}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestChatEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	token := signup(t, srv)

	var reply chat.Reply
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/chat", token, chatRequest{Message: "hi"}, &reply)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, chat.IntentGreeting, reply.Intent)
	assert.Contains(t, reply.Text, "Asha")
}

func TestFeedbackEndpoint(t *testing.T) {
	srv, store := newTestServer(t)
	token := signup(t, srv)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/feedback", token, feedbackRequest{Feedback: "love it"}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The submission actually landed in the store.
	listed, err := store.ListFeedback(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "love it", listed[0].Content)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/feedback", token, feedbackRequest{}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEventsIsPublic(t *testing.T) {
	srv, _ := newTestServer(t)

	var events []models.Activity
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/events", "", nil, &events)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, events, 3)
}
