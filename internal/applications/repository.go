// Package applications keeps the per-user list of tracked scheme applications.
package applications

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"yogyatha-workers/internal/models"
)

var (
	ErrNotFound       = errors.New("applications: application not found")
	ErrAlreadyTracked = errors.New("applications: scheme already tracked")
)

const uniqueViolation = "23505"

// NewApplicationID returns an id for a newly tracked application.
func NewApplicationID() string {
	return "app-" + uuid.NewString()
}

// NewTrackedApplication builds the record created when userID starts tracking scheme.
func NewTrackedApplication(userID string, scheme models.Scheme, now time.Time) models.TrackedApplication {
	icon := scheme.Icon
	if icon == "" {
		icon = models.DefaultSchemeIcon
	}
	return models.TrackedApplication{
		ID:              NewApplicationID(),
		UserID:          userID,
		SchemeID:        scheme.ID,
		SchemeName:      scheme.Name,
		SchemeIcon:      icon,
		ApplicationDate: now.Format(models.DateLayout),
		Status:          models.StatusApplied,
	}
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const selectColumns = `SELECT id, user_id, scheme_id, scheme_name, scheme_icon, application_date, status, application_number, notes
	FROM tracked_applications`

// ListByUser returns userID's applications in the order they were tracked.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]models.TrackedApplication, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+` WHERE user_id = $1 ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	apps := []models.TrackedApplication{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applications: %w", err)
	}
	return apps, nil
}

func (r *Repository) Get(ctx context.Context, userID, appID string) (models.TrackedApplication, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` WHERE user_id = $1 AND id = $2`, userID, appID)
	app, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.TrackedApplication{}, ErrNotFound
	}
	return app, err
}

// Create stores app. A user can track a given scheme only once.
func (r *Repository) Create(ctx context.Context, app models.TrackedApplication) error {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM tracked_applications WHERE user_id = $1 AND scheme_id = $2)`,
		app.UserID, app.SchemeID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check tracked scheme: %w", err)
	}
	if exists {
		return ErrAlreadyTracked
	}

	name, err := json.Marshal(app.SchemeName)
	if err != nil {
		return fmt.Errorf("encode scheme name: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO tracked_applications
			(id, user_id, scheme_id, scheme_name, scheme_icon, application_date, status, application_number, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		app.ID, app.UserID, app.SchemeID, name, app.SchemeIcon,
		app.ApplicationDate, string(app.Status), app.ApplicationNumber, app.Notes,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		// lost a race with a concurrent track of the same scheme
		return ErrAlreadyTracked
	}
	if err != nil {
		return fmt.Errorf("insert application %s: %w", app.ID, err)
	}
	return nil
}

// UpdateStatus sets the status of one of userID's applications and returns the
// updated record.
func (r *Repository) UpdateStatus(ctx context.Context, userID, appID string, status models.ApplicationStatus) (models.TrackedApplication, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE tracked_applications SET status = $3 WHERE user_id = $1 AND id = $2
		RETURNING id, user_id, scheme_id, scheme_name, scheme_icon, application_date, status, application_number, notes`,
		userID, appID, string(status),
	)
	app, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.TrackedApplication{}, ErrNotFound
	}
	return app, err
}

func (r *Repository) Delete(ctx context.Context, userID, appID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM tracked_applications WHERE user_id = $1 AND id = $2`, userID, appID)
	if err != nil {
		return fmt.Errorf("delete application %s: %w", appID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for %s: %w", appID, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanApplication(s scanner) (models.TrackedApplication, error) {
	var (
		app    models.TrackedApplication
		name   []byte
		status string
	)
	err := s.Scan(&app.ID, &app.UserID, &app.SchemeID, &name, &app.SchemeIcon,
		&app.ApplicationDate, &status, &app.ApplicationNumber, &app.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return app, err
	}
	if err != nil {
		return app, fmt.Errorf("scan application: %w", err)
	}
	if err := json.Unmarshal(name, &app.SchemeName); err != nil {
		return app, fmt.Errorf("decode scheme name for %s: %w", app.ID, err)
	}
	app.Status = models.ApplicationStatus(status)
	return app, nil
}
