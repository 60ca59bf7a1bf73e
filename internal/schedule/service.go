package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/smartcampus/copilot/internal/models"
	"github.com/smartcampus/copilot/internal/storage"
	"go.uber.org/zap"
)

// PlanStore is the slice of the store the scheduler needs.
type PlanStore interface {
	LoadPlan(ctx context.Context, ownerID int64) (models.Plan, error)
	SavePlan(ctx context.Context, plan models.Plan) error
}

// Service wraps the store with plan validation and per-owner serialized
// writes. Any read-modify-write on a plan (Place, Optimize) is a
// check-then-act race on the single-plan invariant, so those hold the
// owner lock across the whole load-mutate-save cycle, not just the write.
type Service struct {
	store  PlanStore
	logger *zap.Logger

	mu     sync.Mutex
	owners map[int64]*sync.Mutex
}

func NewService(store PlanStore, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
		owners: make(map[int64]*sync.Mutex),
	}
}

// Load returns the owner's plan, or an empty plan when none has been
// saved yet. Missing is not an error at this layer.
func (s *Service) Load(ctx context.Context, ownerID int64) (models.Plan, error) {
	plan, err := s.store.LoadPlan(ctx, ownerID)
	if errors.Is(err, storage.ErrNotFound) {
		return models.EmptyPlan(ownerID), nil
	}
	if err != nil {
		return models.Plan{}, fmt.Errorf("load plan: %w", err)
	}
	return plan, nil
}

// Save validates and persists the plan as a full replace of the owner's
// previous one. A failed save leaves the stored plan untouched.
func (s *Service) Save(ctx context.Context, plan models.Plan) error {
	if err := ValidatePlan(plan); err != nil {
		return err
	}

	lock := s.ownerLock(plan.OwnerID)
	lock.Lock()
	defer lock.Unlock()

	return s.save(ctx, plan)
}

// Place loads the owner's plan, places the entry and persists the result,
// all under the owner lock. Serializing the full cycle keeps two
// concurrent placements from loading the same base plan and silently
// dropping each other's entry.
func (s *Service) Place(ctx context.Context, ownerID int64, entry models.ScheduleEntry) (models.Plan, error) {
	lock := s.ownerLock(ownerID)
	lock.Lock()
	defer lock.Unlock()

	plan, err := s.Load(ctx, ownerID)
	if err != nil {
		return models.Plan{}, err
	}

	placed, err := Place(plan, entry)
	if err != nil {
		return models.Plan{}, err
	}
	if err := s.save(ctx, placed); err != nil {
		return models.Plan{}, err
	}
	return placed, nil
}

// Optimize reorders the owner's stored plan and persists it, under the
// same owner lock as Place.
func (s *Service) Optimize(ctx context.Context, ownerID int64) (models.Plan, error) {
	lock := s.ownerLock(ownerID)
	lock.Lock()
	defer lock.Unlock()

	plan, err := s.Load(ctx, ownerID)
	if err != nil {
		return models.Plan{}, err
	}

	optimized := Optimize(plan)
	if err := s.save(ctx, optimized); err != nil {
		return models.Plan{}, err
	}
	return optimized, nil
}

// save writes without locking; callers hold the owner lock.
func (s *Service) save(ctx context.Context, plan models.Plan) error {
	if err := s.store.SavePlan(ctx, plan); err != nil {
		s.logger.Error("Failed to save plan",
			zap.Error(err),
			zap.Int64("owner_id", plan.OwnerID))
		return fmt.Errorf("save plan: %w", err)
	}
	return nil
}

func (s *Service) ownerLock(ownerID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, exists := s.owners[ownerID]
	if !exists {
		lock = &sync.Mutex{}
		s.owners[ownerID] = lock
	}
	return lock
}

// ValidatePlan checks every entry and rejects plans with overlapping
// entries before anything is written.
func ValidatePlan(plan models.Plan) error {
	for _, entry := range plan.Entries {
		if err := ValidateEntry(entry); err != nil {
			return err
		}
	}
	for i := 0; i < len(plan.Entries); i++ {
		for j := i + 1; j < len(plan.Entries); j++ {
			if plan.Entries[i].Overlaps(plan.Entries[j]) {
				return &ConflictError{Entry: plan.Entries[j], Existing: plan.Entries[i]}
			}
		}
	}
	return nil
}
