package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/smartcampus/copilot/internal/models"
	"go.uber.org/zap"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	UseInMemory bool
}

// PostgresStore persists users, the activity catalog, plans and feedback
// in PostgreSQL. Plans are stored as one JSONB document per owner; the
// upsert makes SavePlan an atomic full replace.
type PostgresStore struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresStore(config DatabaseConfig, logger *zap.Logger) (*PostgresStore, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	store := &PostgresStore{db: db, logger: logger}
	if err := store.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}
	logger.Info("Database schema initialized", zap.String("dbname", config.DBName))
	return store, nil
}

func (s *PostgresStore) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %w", err)
	}
	if _, err := s.db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("error executing migrations: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, interests, weekly_budget)
		VALUES ($1, LOWER($2), $3, $4, $5)
		RETURNING id, created_at`

	err := s.db.QueryRowContext(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		pq.Array(user.Profile.Interests),
		user.Profile.WeeklyBudget,
	).Scan(&user.ID, &user.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, name, email, password_hash, interests, weekly_budget, created_at
		FROM users
		WHERE email = LOWER($1)`
	return s.scanUser(s.db.QueryRowContext(ctx, query, email))
}

func (s *PostgresStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT id, name, email, password_hash, interests, weekly_budget, created_at
		FROM users
		WHERE id = $1`
	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

func (s *PostgresStore) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		pq.Array(&user.Profile.Interests),
		&user.Profile.WeeklyBudget,
		&user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error scanning user: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) GetProfile(ctx context.Context, ownerID int64) (models.Profile, error) {
	user, err := s.GetUser(ctx, ownerID)
	if err != nil {
		return models.Profile{}, err
	}
	return user.Profile, nil
}

func (s *PostgresStore) UpdateProfile(ctx context.Context, ownerID int64, profile models.Profile) error {
	query := `
		UPDATE users
		SET interests = $2, weekly_budget = $3
		WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, ownerID, pq.Array(profile.Interests), profile.WeeklyBudget)
	if err != nil {
		return fmt.Errorf("error updating profile: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) GetCatalog(ctx context.Context) ([]models.Activity, error) {
	query := `
		SELECT id, title, cost, duration_slots, tags, rating
		FROM activities
		ORDER BY position`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying catalog: %w", err)
	}
	defer rows.Close()

	var catalog []models.Activity
	for rows.Next() {
		var a models.Activity
		err := rows.Scan(&a.ID, &a.Title, &a.Cost, &a.DurationSlots, pq.Array(&a.Tags), &a.Rating)
		if err != nil {
			return nil, fmt.Errorf("error scanning activity: %w", err)
		}
		catalog = append(catalog, a)
	}
	return catalog, rows.Err()
}

func (s *PostgresStore) LoadPlan(ctx context.Context, ownerID int64) (models.Plan, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM plans WHERE user_id = $1`, ownerID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Plan{}, ErrNotFound
	}
	if err != nil {
		return models.Plan{}, fmt.Errorf("error loading plan: %w", err)
	}

	var entries []models.ScheduleEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return models.Plan{}, fmt.Errorf("error decoding plan: %w", err)
	}
	return models.Plan{OwnerID: ownerID, Entries: entries}, nil
}

func (s *PostgresStore) SavePlan(ctx context.Context, plan models.Plan) error {
	data, err := json.Marshal(plan.Entries)
	if err != nil {
		return fmt.Errorf("error encoding plan: %w", err)
	}

	query := `
		INSERT INTO plans (user_id, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`

	if _, err := s.db.ExecContext(ctx, query, plan.OwnerID, data); err != nil {
		return fmt.Errorf("error saving plan: %w", err)
	}
	return nil
}

func (s *PostgresStore) SaveFeedback(ctx context.Context, fb *models.Feedback) error {
	query := `
		INSERT INTO feedback (id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING created_at`

	if err := s.db.QueryRowContext(ctx, query, fb.ID, fb.UserID, fb.Content).Scan(&fb.CreatedAt); err != nil {
		return fmt.Errorf("error saving feedback: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
