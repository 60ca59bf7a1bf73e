package storage

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/smartcampus/copilot/internal/models"
)

// MemoryStore keeps everything in maps behind a RWMutex. Used for tests
// and for running without PostgreSQL.
type MemoryStore struct {
	mu       sync.RWMutex
	nextID   int64
	users    map[int64]*models.User
	byEmail  map[string]int64
	catalog  []models.Activity
	plans    map[int64]models.Plan
	feedback map[int64][]models.Feedback
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID:   1,
		users:    make(map[int64]*models.User),
		byEmail:  make(map[string]int64),
		plans:    make(map[int64]models.Plan),
		feedback: make(map[int64][]models.Feedback),
	}
}

// SetCatalog replaces the activity catalog. The caller seeds it at
// startup; the engines only ever read it.
func (s *MemoryStore) SetCatalog(catalog []models.Activity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = append([]models.Activity(nil), catalog...)
}

func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, exists := s.byEmail[email]; exists {
		return ErrEmailTaken
	}

	user.ID = s.nextID
	s.nextID++
	user.CreatedAt = time.Now()

	stored := *user
	s.users[user.ID] = &stored
	s.byEmail[email] = user.ID
	return nil
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.byEmail[strings.ToLower(email)]
	if !exists {
		return nil, ErrNotFound
	}
	user := *s.users[id]
	return &user, nil
}

func (s *MemoryStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[id]
	if !exists {
		return nil, ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *MemoryStore) GetProfile(ctx context.Context, ownerID int64) (models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[ownerID]
	if !exists {
		return models.Profile{}, ErrNotFound
	}
	return user.Profile, nil
}

func (s *MemoryStore) UpdateProfile(ctx context.Context, ownerID int64, profile models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[ownerID]
	if !exists {
		return ErrNotFound
	}
	user.Profile = profile
	return nil
}

func (s *MemoryStore) GetCatalog(ctx context.Context) ([]models.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Activity(nil), s.catalog...), nil
}

func (s *MemoryStore) LoadPlan(ctx context.Context, ownerID int64) (models.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plan, exists := s.plans[ownerID]
	if !exists {
		return models.Plan{}, ErrNotFound
	}
	plan.Entries = append([]models.ScheduleEntry(nil), plan.Entries...)
	return plan, nil
}

func (s *MemoryStore) SavePlan(ctx context.Context, plan models.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan.Entries = append([]models.ScheduleEntry(nil), plan.Entries...)
	s.plans[plan.OwnerID] = plan
	return nil
}

func (s *MemoryStore) SaveFeedback(ctx context.Context, fb *models.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fb.CreatedAt = time.Now()
	s.feedback[fb.UserID] = append(s.feedback[fb.UserID], *fb)
	return nil
}

// ListFeedback returns everything a user has submitted, oldest first.
func (s *MemoryStore) ListFeedback(ctx context.Context, userID int64) ([]models.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Feedback(nil), s.feedback[userID]...), nil
}

func (s *MemoryStore) Close() error {
	return nil
}
