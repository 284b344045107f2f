package eligibility

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yogyatha-workers/internal/common/logger"
	"yogyatha-workers/internal/models"
)

type spyRecorder struct {
	mu     sync.Mutex
	events []models.SearchEvent
	ctxErr []error
	err    error
	panics bool
}

func (r *spyRecorder) RecordSearch(ctx context.Context, event models.SearchEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.panics {
		panic("analytics store exploded")
	}
	r.events = append(r.events, event)
	r.ctxErr = append(r.ctxErr, ctx.Err())
	return r.err
}

var fixedNow = time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC)

func createTestEngine(t *testing.T, recorder SearchRecorder) *Engine {
	return NewEngine(recorder, logger.NewTestLogger(t), WithClock(func() time.Time { return fixedNow }))
}

func TestEngine_ScoreAndFilter_ExampleScenario(t *testing.T) {
	schemeA := createTestScheme("A")
	schemeB := createTestScheme("B")
	schemeB.Eligibility.States = []string{"Kerala"}

	profile := models.Profile{
		DateOfBirth: fixedNow.AddDate(-25, 0, 0).Format(models.DateLayout),
		Income:      400000,
		State:       "Telangana",
		Category:    models.CategoryGeneral,
		Role:        models.RoleCitizen,
	}

	recorder := &spyRecorder{}
	engine := createTestEngine(t, recorder)

	result := engine.ScoreAndFilter(context.Background(), []models.Scheme{schemeA, schemeB}, profile, "asha")

	require.Len(t, result, 1)
	assert.Equal(t, "A", result[0].ID)
	assert.Equal(t, 11, result[0].Score)
}

func TestEngine_ScoreAndFilter_RecordsSearchEvent(t *testing.T) {
	recorder := &spyRecorder{}
	engine := createTestEngine(t, recorder)
	profile := createTestProfile()

	engine.ScoreAndFilter(context.Background(), []models.Scheme{createTestScheme("A")}, profile, "ravi")

	require.Len(t, recorder.events, 1)
	assert.Equal(t, models.SearchEvent{
		Username:  "ravi",
		State:     "Telangana",
		Role:      models.RoleCitizen,
		Income:    400000,
		Timestamp: fixedNow.UnixMilli(),
	}, recorder.events[0])
}

func TestEngine_ScoreAndFilter_RecordsEvenWhenCatalogEmpty(t *testing.T) {
	recorder := &spyRecorder{}
	engine := createTestEngine(t, recorder)

	result := engine.ScoreAndFilter(context.Background(), nil, createTestProfile(), "ravi")

	assert.Empty(t, result)
	assert.Len(t, recorder.events, 1)
}

func TestEngine_ScoreAndFilter_RecorderFailureIgnored(t *testing.T) {
	tests := []struct {
		name     string
		recorder *spyRecorder
	}{
		{"recorder error", &spyRecorder{err: errors.New("redis unavailable")}},
		{"recorder panic", &spyRecorder{panics: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := createTestEngine(t, tt.recorder)

			result := engine.ScoreAndFilter(context.Background(), []models.Scheme{createTestScheme("A")}, createTestProfile(), "ravi")

			require.Len(t, result, 1)
			assert.Equal(t, 11, result[0].Score)
		})
	}
}

func TestEngine_ScoreAndFilter_NilRecorder(t *testing.T) {
	engine := NewEngine(nil, nil, WithClock(func() time.Time { return fixedNow }))

	result := engine.ScoreAndFilter(context.Background(), []models.Scheme{createTestScheme("A")}, createTestProfile(), "")

	assert.Len(t, result, 1)
}

func TestEngine_ScoreAndFilter_CancelledCallerStillRecords(t *testing.T) {
	recorder := &spyRecorder{}
	engine := createTestEngine(t, recorder)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := engine.ScoreAndFilter(ctx, []models.Scheme{createTestScheme("A")}, createTestProfile(), "ravi")

	assert.Len(t, result, 1)
	require.Len(t, recorder.ctxErr, 1)
	assert.NoError(t, recorder.ctxErr[0])
}

func TestEngine_ScoreAndFilter_Idempotent(t *testing.T) {
	catalog := []models.Scheme{
		createTestScheme("A"),
		createTestScheme("B"),
		createTestScheme("C"),
	}
	catalog[1].Eligibility.Roles = []models.Role{models.RoleFarmer}
	catalog[2].Eligibility.MaxIncome = 1000

	engine := createTestEngine(t, &spyRecorder{})
	profile := createTestProfile()

	first := engine.ScoreAndFilter(context.Background(), catalog, profile, "ravi")
	second := engine.ScoreAndFilter(context.Background(), catalog, profile, "ravi")

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"A", "B", "C"}, ids(first))
	assert.Equal(t, []int{11, 9, 9}, []int{first[0].Score, first[1].Score, first[2].Score})
}

func TestEngine_ScoreAndFilter_DoesNotMutateCatalog(t *testing.T) {
	catalog := []models.Scheme{createTestScheme("A"), createTestScheme("B")}
	catalog[1].Eligibility.States = []string{"Kerala"}

	engine := createTestEngine(t, nil)
	engine.ScoreAndFilter(context.Background(), catalog, createTestProfile(), "ravi")

	assert.Equal(t, 0, catalog[0].Score)
	assert.Equal(t, 0, catalog[1].Score)
	assert.Equal(t, []string{"A", "B"}, ids(catalog))
}

func TestEngine_ScoreAndFilter_StableAcrossEqualScores(t *testing.T) {
	catalog := []models.Scheme{
		createTestScheme("z-last-id"),
		createTestScheme("a-first-id"),
		createTestScheme("m-middle-id"),
	}

	engine := createTestEngine(t, nil)
	result := engine.ScoreAndFilter(context.Background(), catalog, createTestProfile(), "ravi")

	assert.Equal(t, []string{"z-last-id", "a-first-id", "m-middle-id"}, ids(result))
}

func TestEngine_ScoreAndFilter_ThresholdBoundary(t *testing.T) {
	// score 4: gates only
	four := createTestScheme("four")
	four.Eligibility.MaxAge = 20
	four.Eligibility.MaxIncome = 1
	four.Eligibility.Roles = []models.Role{models.RoleStudent}

	// score 6: gates + income
	six := createTestScheme("six")
	six.Eligibility.MaxAge = 20
	six.Eligibility.Roles = []models.Role{models.RoleStudent}

	engine := createTestEngine(t, nil)
	result := engine.ScoreAndFilter(context.Background(), []models.Scheme{four, six}, createTestProfile(), "ravi")

	assert.Equal(t, []string{"six"}, ids(result))
}

func TestEngine_ScoreAndFilter_MalformedDateOfBirth(t *testing.T) {
	adults := createTestScheme("adults")
	anyAge := createTestScheme("any-age")
	anyAge.Eligibility.MinAge = 0

	profile := createTestProfile()
	profile.DateOfBirth = "15/06/2000"

	engine := createTestEngine(t, nil)
	result := engine.ScoreAndFilter(context.Background(), []models.Scheme{adults, anyAge}, profile, "ravi")

	require.Len(t, result, 2)
	assert.Equal(t, "any-age", result[0].ID)
	assert.Equal(t, 11, result[0].Score)
	assert.Equal(t, 8, result[1].Score)
}

func TestEngine_Search_ReportsScoredAge(t *testing.T) {
	eve := time.Date(2025, time.June, 14, 23, 59, 59, 0, time.UTC)
	recorder := &spyRecorder{}
	engine := NewEngine(recorder, logger.NewTestLogger(t), WithClock(func() time.Time { return eve }))

	scheme := createTestScheme("youth")
	scheme.Eligibility.MinAge = 25
	profile := models.Profile{
		DateOfBirth: "2000-06-15",
		Income:      100000,
		State:       "Telangana",
		Category:    models.CategoryGeneral,
		Role:        models.RoleCitizen,
	}

	result := engine.Search(context.Background(), []models.Scheme{scheme}, profile, "asha")

	assert.Equal(t, 24, result.Age)
	require.Len(t, result.Schemes, 1)
	assert.Equal(t, 8, result.Schemes[0].Score)
	require.Len(t, recorder.events, 1)
	assert.Equal(t, eve.UnixMilli(), recorder.events[0].Timestamp)
}
