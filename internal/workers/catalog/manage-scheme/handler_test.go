// internal/workers/catalog/manage-scheme/handler_test.go
package managescheme

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yogyatha-workers/internal/catalog"
	apperrors "yogyatha-workers/internal/common/errors"
	"yogyatha-workers/internal/common/logger"
	"yogyatha-workers/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

type memoryStore struct {
	schemes map[string]models.Scheme
	sources map[string]string
	err     error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{schemes: map[string]models.Scheme{}, sources: map[string]string{}}
}

func (m *memoryStore) Get(_ context.Context, id string) (models.Scheme, error) {
	s, ok := m.schemes[id]
	if !ok {
		return models.Scheme{}, catalog.ErrNotFound
	}
	return s, nil
}

func (m *memoryStore) Create(_ context.Context, s models.Scheme, source string) error {
	if m.err != nil {
		return m.err
	}
	m.schemes[s.ID] = s
	m.sources[s.ID] = source
	return nil
}

func (m *memoryStore) Update(_ context.Context, s models.Scheme) error {
	if _, ok := m.schemes[s.ID]; !ok {
		return catalog.ErrNotFound
	}
	m.schemes[s.ID] = s
	return nil
}

func (m *memoryStore) Delete(_ context.Context, id string) error {
	if _, ok := m.schemes[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(m.schemes, id)
	return nil
}

type countingCache struct {
	invalidations int
	err           error
}

func (c *countingCache) Invalidate(context.Context) error {
	c.invalidations++
	return c.err
}

type fakeIndexer struct {
	indexed []string
	removed []string
	err     error
}

func (f *fakeIndexer) Index(_ context.Context, s models.Scheme) error {
	if f.err != nil {
		return f.err
	}
	f.indexed = append(f.indexed, s.ID)
	return nil
}

func (f *fakeIndexer) Remove(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.removed = append(f.removed, id)
	return nil
}

func createTestScheme() *models.Scheme {
	return &models.Scheme{
		Name:        models.LocalizedText{models.LanguageEN: "Mahila Udyam Nidhi"},
		Description: models.LocalizedText{models.LanguageEN: "Soft loans for women entrepreneurs"},
		ApplyLink:   "https://sidbi.in",
		Eligibility: models.Eligibility{
			MinAge:     18,
			MaxAge:     55,
			MaxIncome:  1000000,
			States:     []string{models.PanIndia},
			Categories: models.Categories,
			Roles:      []models.Role{models.RoleEntrepreneur},
			Genders:    []models.Gender{models.GenderFemale},
		},
	}
}

func requireCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	var stdErr *apperrors.StandardError
	require.True(t, errors.As(err, &stdErr), "expected StandardError, got %v", err)
	assert.Equal(t, code, stdErr.Code)
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Create(t *testing.T) {
	store, cache, indexer := newMemoryStore(), &countingCache{}, &fakeIndexer{}
	h := NewHandler(LoadConfig(), store, cache, indexer, logger.NewTestLogger(t))

	scheme := createTestScheme()
	scheme.Score = 8

	output, err := h.Execute(context.Background(), &Input{Action: ActionCreate, Scheme: scheme, Source: catalog.SourceAI})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(output.SchemeID, "custom-"))
	assert.True(t, output.Indexed)
	assert.Equal(t, 0, output.Scheme.Score)
	assert.Equal(t, catalog.SourceAI, store.sources[output.SchemeID])
	assert.Equal(t, 1, cache.invalidations)
	assert.Equal(t, []string{output.SchemeID}, indexer.indexed)
}

func TestHandler_Execute_UpdateAndDelete(t *testing.T) {
	store, cache, indexer := newMemoryStore(), &countingCache{}, &fakeIndexer{}
	existing := createTestScheme()
	existing.ID = "mahila-udyam"
	store.schemes[existing.ID] = *existing

	h := NewHandler(LoadConfig(), store, cache, indexer, logger.NewTestLogger(t))

	changed := createTestScheme()
	changed.Eligibility.MaxAge = 60
	output, err := h.Execute(context.Background(), &Input{Action: ActionUpdate, SchemeID: "mahila-udyam", Scheme: changed})
	require.NoError(t, err)
	assert.Equal(t, "mahila-udyam", output.SchemeID)
	assert.Equal(t, 60, store.schemes["mahila-udyam"].Eligibility.MaxAge)

	output, err = h.Execute(context.Background(), &Input{Action: ActionDelete, SchemeID: "mahila-udyam"})
	require.NoError(t, err)
	assert.Nil(t, output.Scheme)
	assert.Empty(t, store.schemes)
	assert.Equal(t, []string{"mahila-udyam"}, indexer.removed)
	assert.Equal(t, 2, cache.invalidations)
}

func TestHandler_Execute_Get(t *testing.T) {
	store := newMemoryStore()
	existing := createTestScheme()
	existing.ID = "mahila-udyam"
	store.schemes[existing.ID] = *existing
	h := NewHandler(LoadConfig(), store, &countingCache{}, nil, logger.NewTestLogger(t))

	output, err := h.Execute(context.Background(), &Input{Action: ActionGet, SchemeID: "mahila-udyam"})
	require.NoError(t, err)
	assert.Equal(t, "Mahila Udyam Nidhi", output.Scheme.DisplayName())
	assert.Equal(t, 0, store.schemes["mahila-udyam"].Score)
}

func TestHandler_Execute_IndexAndCacheFailuresAreNotFatal(t *testing.T) {
	store := newMemoryStore()
	h := NewHandler(LoadConfig(), store,
		&countingCache{err: errors.New("redis down")},
		&fakeIndexer{err: errors.New("es down")},
		logger.NewTestLogger(t))

	output, err := h.Execute(context.Background(), &Input{Action: ActionCreate, Scheme: createTestScheme()})
	require.NoError(t, err)
	assert.False(t, output.Indexed)
	assert.Len(t, store.schemes, 1)
}

func TestHandler_Execute_WithRepository(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schemes (id, document, source)")).
		WithArgs("pm-vishwakarma", sqlmock.AnyArg(), catalog.SourceAdmin).
		WillReturnResult(sqlmock.NewResult(1, 1))

	h := NewHandler(LoadConfig(), catalog.NewRepository(db), &countingCache{}, nil, logger.NewTestLogger(t))

	scheme := createTestScheme()
	scheme.ID = "pm-vishwakarma"
	output, err := h.Execute(context.Background(), &Input{Action: ActionCreate, Scheme: scheme})
	require.NoError(t, err)
	assert.Equal(t, "pm-vishwakarma", output.SchemeID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	inverted := createTestScheme()
	inverted.Eligibility.MinAge = 60

	noStates := createTestScheme()
	noStates.Eligibility.States = []string{}

	badRole := createTestScheme()
	badRole.Eligibility.Roles = []models.Role{"Astronaut"}

	tests := []struct {
		name  string
		input *Input
		code  apperrors.ErrorCode
	}{
		{name: "unknown action", input: &Input{Action: "archive"}, code: apperrors.ErrCodeInvalidAction},
		{name: "missing document", input: &Input{Action: ActionCreate}, code: apperrors.ErrCodeSchemeValidationFailed},
		{name: "unknown source", input: &Input{Action: ActionCreate, Scheme: createTestScheme(), Source: "scraper"}, code: apperrors.ErrCodeSchemeValidationFailed},
		{name: "min age above max age", input: &Input{Action: ActionCreate, Scheme: inverted}, code: apperrors.ErrCodeSchemeValidationFailed},
		{name: "empty state list", input: &Input{Action: ActionCreate, Scheme: noStates}, code: apperrors.ErrCodeSchemeValidationFailed},
		{name: "unknown role", input: &Input{Action: ActionCreate, Scheme: badRole}, code: apperrors.ErrCodeSchemeValidationFailed},
		{name: "update without id", input: &Input{Action: ActionUpdate, Scheme: createTestScheme()}, code: apperrors.ErrCodeSchemeValidationFailed},
		{name: "update missing scheme", input: &Input{Action: ActionUpdate, SchemeID: "ghost", Scheme: createTestScheme()}, code: apperrors.ErrCodeSchemeNotFound},
		{name: "delete missing scheme", input: &Input{Action: ActionDelete, SchemeID: "ghost"}, code: apperrors.ErrCodeSchemeNotFound},
		{name: "get missing scheme", input: &Input{Action: ActionGet, SchemeID: "ghost"}, code: apperrors.ErrCodeSchemeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := &countingCache{}
			h := NewHandler(LoadConfig(), newMemoryStore(), cache, &fakeIndexer{}, logger.NewTestLogger(t))

			_, err := h.Execute(context.Background(), tt.input)
			requireCode(t, err, tt.code)
			assert.Zero(t, cache.invalidations)
		})
	}
}

func TestHandler_Execute_StoreFailureIsRetryable(t *testing.T) {
	store := newMemoryStore()
	store.err = errors.New("connection reset by peer")
	h := NewHandler(LoadConfig(), store, &countingCache{}, nil, logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), &Input{Action: ActionCreate, Scheme: createTestScheme()})
	requireCode(t, err, apperrors.ErrCodeQueryExecutionFailed)
	assert.Equal(t, 3, apperrors.GetRetryCount(apperrors.ErrCodeQueryExecutionFailed))
}
