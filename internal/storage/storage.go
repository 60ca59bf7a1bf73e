package storage

import (
	"context"
	"errors"

	"github.com/smartcampus/copilot/internal/models"
)

// ErrNotFound is returned when a user, profile or plan does not exist.
// Callers above the storage layer usually map it to an empty value.
var ErrNotFound = errors.New("not found")

// ErrEmailTaken is returned by CreateUser when the email is already
// registered.
var ErrEmailTaken = errors.New("email already registered")

// Store is the profile and catalog store behind the engines. SavePlan is
// a full replace of the owner's single plan.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)

	GetProfile(ctx context.Context, ownerID int64) (models.Profile, error)
	UpdateProfile(ctx context.Context, ownerID int64, profile models.Profile) error

	GetCatalog(ctx context.Context) ([]models.Activity, error)

	LoadPlan(ctx context.Context, ownerID int64) (models.Plan, error)
	SavePlan(ctx context.Context, plan models.Plan) error

	SaveFeedback(ctx context.Context, fb *models.Feedback) error

	Close() error
}
