// Package catalog stores welfare schemes and serves the snapshot the eligibility
// engine scores against.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"yogyatha-workers/internal/models"
)

var ErrNotFound = errors.New("catalog: scheme not found")

// Source values recorded alongside each scheme.
const (
	SourceAdmin = "admin"
	SourceAI    = "ai"
)

// NewSchemeID returns an id for a scheme created at runtime.
func NewSchemeID() string {
	return "custom-" + uuid.NewString()
}

// Repository persists schemes as JSON documents in postgres.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// List returns every scheme ordered by id (byte order), so repeated searches
// over an unchanged catalog see the same sequence.
func (r *Repository) List(ctx context.Context) ([]models.Scheme, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, document FROM schemes ORDER BY id COLLATE "C"`)
	if err != nil {
		return nil, fmt.Errorf("list schemes: %w", err)
	}
	defer rows.Close()

	schemes := []models.Scheme{}
	for rows.Next() {
		var (
			id  string
			doc []byte
		)
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("scan scheme: %w", err)
		}
		scheme, err := decodeScheme(id, doc)
		if err != nil {
			return nil, err
		}
		schemes = append(schemes, scheme)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schemes: %w", err)
	}
	return schemes, nil
}

func (r *Repository) Get(ctx context.Context, id string) (models.Scheme, error) {
	var doc []byte
	err := r.db.QueryRowContext(ctx, `SELECT document FROM schemes WHERE id = $1`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Scheme{}, ErrNotFound
	}
	if err != nil {
		return models.Scheme{}, fmt.Errorf("get scheme %s: %w", id, err)
	}
	return decodeScheme(id, doc)
}

func (r *Repository) Create(ctx context.Context, scheme models.Scheme, source string) error {
	doc, err := encodeScheme(scheme)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO schemes (id, document, source) VALUES ($1, $2, $3)`,
		scheme.ID, doc, source,
	)
	if err != nil {
		return fmt.Errorf("insert scheme %s: %w", scheme.ID, err)
	}
	return nil
}

// Update replaces the stored document for scheme.ID.
func (r *Repository) Update(ctx context.Context, scheme models.Scheme) error {
	doc, err := encodeScheme(scheme)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE schemes SET document = $2, updated_at = NOW() WHERE id = $1`,
		scheme.ID, doc,
	)
	if err != nil {
		return fmt.Errorf("update scheme %s: %w", scheme.ID, err)
	}
	return expectOneRow(res, scheme.ID)
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM schemes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete scheme %s: %w", id, err)
	}
	return expectOneRow(res, id)
}

func expectOneRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func encodeScheme(scheme models.Scheme) ([]byte, error) {
	scheme.Score = 0
	doc, err := json.Marshal(scheme)
	if err != nil {
		return nil, fmt.Errorf("encode scheme %s: %w", scheme.ID, err)
	}
	return doc, nil
}

func decodeScheme(id string, doc []byte) (models.Scheme, error) {
	var scheme models.Scheme
	if err := json.Unmarshal(doc, &scheme); err != nil {
		return models.Scheme{}, fmt.Errorf("decode scheme %s: %w", id, err)
	}
	scheme.ID = id
	scheme.Score = 0
	return scheme, nil
}
