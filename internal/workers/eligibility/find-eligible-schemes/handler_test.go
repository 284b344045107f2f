// internal/workers/eligibility/find-eligible-schemes/handler_test.go
package findeligibleschemes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "yogyatha-workers/internal/common/errors"
	"yogyatha-workers/internal/common/logger"
	"yogyatha-workers/internal/eligibility"
	"yogyatha-workers/internal/models"
	"yogyatha-workers/internal/storage"
)

// ==========================
// Test Helper Functions
// ==========================

var fixedNow = time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC)

type fakeCatalog struct {
	schemes []models.Scheme
	err     error
}

func (f *fakeCatalog) Schemes(context.Context) ([]models.Scheme, error) {
	return f.schemes, f.err
}

type fakeProfiles struct {
	profiles map[string]models.Profile
	getErr   error
	saveErr  error
}

func (f *fakeProfiles) Get(_ context.Context, username string) (models.Profile, error) {
	if f.getErr != nil {
		return models.Profile{}, f.getErr
	}
	p, ok := f.profiles[username]
	if !ok {
		return models.Profile{}, storage.ErrNotFound
	}
	return p, nil
}

func (f *fakeProfiles) Save(_ context.Context, username string, profile models.Profile) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.profiles[username] = profile
	return nil
}

type captureRecorder struct {
	events []models.SearchEvent
}

func (c *captureRecorder) RecordSearch(_ context.Context, e models.SearchEvent) error {
	c.events = append(c.events, e)
	return nil
}

func createTestProfile() models.Profile {
	return models.Profile{
		DateOfBirth: "1990-03-01",
		Income:      180000,
		State:       "Telangana",
		Category:    models.CategorySC,
		Role:        models.RoleFarmer,
	}
}

func createTestSchemes() []models.Scheme {
	return []models.Scheme{
		{
			ID:   "pm-kisan",
			Name: models.LocalizedText{models.LanguageEN: "PM Kisan"},
			Eligibility: models.Eligibility{
				MinAge: 18, MaxAge: 99, MaxIncome: 200000,
				States:     []string{models.PanIndia},
				Categories: models.Categories,
				Roles:      []models.Role{models.RoleFarmer},
			},
		},
		{
			ID:   "kerala-only",
			Name: models.LocalizedText{models.LanguageEN: "Kerala Only"},
			Eligibility: models.Eligibility{
				MinAge: 0, MaxAge: 99, MaxIncome: 900000,
				States:     []string{"Kerala"},
				Categories: models.Categories,
				Roles:      models.Roles,
			},
		},
		{
			ID:   "student-grant",
			Name: models.LocalizedText{models.LanguageEN: "Student Grant"},
			Eligibility: models.Eligibility{
				MinAge: 16, MaxAge: 25, MaxIncome: 100000,
				States:     []string{"Telangana"},
				Categories: []models.Category{models.CategorySC},
				Roles:      []models.Role{models.RoleStudent},
			},
		},
	}
}

func createTestHandler(t *testing.T, catalog SchemeSource, profiles ProfileStore, recorder eligibility.SearchRecorder) *Handler {
	log := logger.NewTestLogger(t)
	engine := eligibility.NewEngine(recorder, log, eligibility.WithClock(func() time.Time { return fixedNow }))
	return NewHandler(LoadConfig(), catalog, profiles, engine, nil, log)
}

func requireCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	var stdErr *apperrors.StandardError
	require.True(t, errors.As(err, &stdErr))
	assert.Equal(t, code, stdErr.Code)
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_InlineProfile(t *testing.T) {
	recorder := &captureRecorder{}
	profiles := &fakeProfiles{profiles: map[string]models.Profile{}}
	h := createTestHandler(t, &fakeCatalog{schemes: createTestSchemes()}, profiles, recorder)

	profile := createTestProfile()
	output, err := h.Execute(context.Background(), &Input{Username: "ravi", Profile: &profile})
	require.NoError(t, err)

	// pm-kisan: all five criteria. student-grant: state + category only.
	require.Equal(t, 1, output.MatchCount)
	assert.Equal(t, "pm-kisan", output.EligibleSchemes[0].ID)
	assert.Equal(t, eligibility.MaxScore, output.EligibleSchemes[0].Score)
	assert.Equal(t, 35, output.Age)
	assert.Equal(t, ProfileSourceInput, output.ProfileSource)

	require.Len(t, recorder.events, 1)
	assert.Equal(t, "ravi", recorder.events[0].Username)
	assert.Equal(t, fixedNow.UnixMilli(), recorder.events[0].Timestamp)
	assert.Empty(t, profiles.profiles)
}

func TestHandler_Execute_StoredProfile(t *testing.T) {
	profiles := &fakeProfiles{profiles: map[string]models.Profile{"ravi": createTestProfile()}}
	h := createTestHandler(t, &fakeCatalog{schemes: createTestSchemes()}, profiles, nil)

	output, err := h.Execute(context.Background(), &Input{Username: "ravi"})
	require.NoError(t, err)
	assert.Equal(t, ProfileSourceStore, output.ProfileSource)
	assert.Equal(t, 1, output.MatchCount)
}

func TestHandler_Execute_SaveProfile(t *testing.T) {
	profiles := &fakeProfiles{profiles: map[string]models.Profile{}}
	h := createTestHandler(t, &fakeCatalog{schemes: createTestSchemes()}, profiles, nil)

	profile := createTestProfile()
	_, err := h.Execute(context.Background(), &Input{Username: "ravi", Profile: &profile, SaveProfile: true})
	require.NoError(t, err)
	assert.Equal(t, profile, profiles.profiles["ravi"])
}

func TestHandler_Execute_EmptyCatalog(t *testing.T) {
	h := createTestHandler(t, &fakeCatalog{schemes: []models.Scheme{}}, &fakeProfiles{profiles: map[string]models.Profile{}}, nil)

	profile := createTestProfile()
	output, err := h.Execute(context.Background(), &Input{Username: "ravi", Profile: &profile})
	require.NoError(t, err)
	assert.NotNil(t, output.EligibleSchemes)
	assert.Zero(t, output.MatchCount)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	invalid := createTestProfile()
	invalid.DateOfBirth = "15/06/1990"
	valid := createTestProfile()

	tests := []struct {
		name     string
		catalog  *fakeCatalog
		profiles *fakeProfiles
		input    *Input
		code     apperrors.ErrorCode
	}{
		{
			name:     "no profile and no username",
			catalog:  &fakeCatalog{},
			profiles: &fakeProfiles{profiles: map[string]models.Profile{}},
			input:    &Input{},
			code:     apperrors.ErrCodeProfileInvalid,
		},
		{
			name:     "unknown user",
			catalog:  &fakeCatalog{},
			profiles: &fakeProfiles{profiles: map[string]models.Profile{}},
			input:    &Input{Username: "ghost"},
			code:     apperrors.ErrCodeProfileNotFound,
		},
		{
			name:     "profile store down",
			catalog:  &fakeCatalog{},
			profiles: &fakeProfiles{getErr: errors.New("dial tcp: refused")},
			input:    &Input{Username: "ravi"},
			code:     apperrors.ErrCodeExternalService,
		},
		{
			name:     "invalid profile cannot be saved",
			catalog:  &fakeCatalog{},
			profiles: &fakeProfiles{profiles: map[string]models.Profile{}},
			input:    &Input{Username: "ravi", Profile: &invalid, SaveProfile: true},
			code:     apperrors.ErrCodeProfileInvalid,
		},
		{
			name:     "catalog unavailable",
			catalog:  &fakeCatalog{err: errors.New("postgres down")},
			profiles: &fakeProfiles{profiles: map[string]models.Profile{}},
			input:    &Input{Username: "ravi", Profile: &valid},
			code:     apperrors.ErrCodeCatalogUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := createTestHandler(t, tt.catalog, tt.profiles, nil)
			_, err := h.Execute(context.Background(), tt.input)
			requireCode(t, err, tt.code)
		})
	}
}

func TestHandler_Execute_RecorderFailureIsIgnored(t *testing.T) {
	h := createTestHandler(t, &fakeCatalog{schemes: createTestSchemes()}, &fakeProfiles{profiles: map[string]models.Profile{}}, failingRecorder{})

	profile := createTestProfile()
	output, err := h.Execute(context.Background(), &Input{Username: "ravi", Profile: &profile})
	require.NoError(t, err)
	assert.Equal(t, 1, output.MatchCount)
}

type failingRecorder struct{}

func (failingRecorder) RecordSearch(context.Context, models.SearchEvent) error {
	return errors.New("analytics down")
}

func TestHandler_Execute_AgeMatchesScoredAge(t *testing.T) {
	// One second before the 25th birthday.
	eve := time.Date(2025, time.June, 14, 23, 59, 59, 0, time.UTC)
	profile := createTestProfile()
	profile.DateOfBirth = "2000-06-15"

	scheme := models.Scheme{
		ID:   "youth-25",
		Name: models.LocalizedText{models.LanguageEN: "Youth 25"},
		Eligibility: models.Eligibility{
			MinAge: 25, MaxAge: 60, MaxIncome: 900000,
			States:     []string{models.PanIndia},
			Categories: models.Categories,
			Roles:      models.Roles,
		},
	}

	log := logger.NewTestLogger(t)
	engine := eligibility.NewEngine(nil, log, eligibility.WithClock(func() time.Time { return eve }))
	h := NewHandler(LoadConfig(), &fakeCatalog{schemes: []models.Scheme{scheme}}, &fakeProfiles{profiles: map[string]models.Profile{}}, engine, nil, log)

	output, err := h.Execute(context.Background(), &Input{Profile: &profile})
	require.NoError(t, err)

	assert.Equal(t, 24, output.Age)
	require.Len(t, output.EligibleSchemes, 1)
	assert.Equal(t, 8, output.EligibleSchemes[0].Score)
}
