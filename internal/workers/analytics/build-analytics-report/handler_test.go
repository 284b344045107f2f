// internal/workers/analytics/build-analytics-report/handler_test.go
package buildanalyticsreport

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yogyatha-workers/internal/analytics"
	apperrors "yogyatha-workers/internal/common/errors"
	"yogyatha-workers/internal/common/logger"
	"yogyatha-workers/internal/models"
)

func setupRecorder(t *testing.T) (*miniredis.Miniredis, *analytics.Recorder) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { client.Close() })
	return mr, analytics.NewRecorder(client, analytics.RecorderConfig{KeyPrefix: "analytics"}, logger.NewTestLogger(t))
}

func seed(t *testing.T, rec *analytics.Recorder) {
	ctx := context.Background()
	searches := []models.SearchEvent{
		{Username: "ravi", State: "Telangana", Role: models.RoleFarmer, Timestamp: 1000},
		{Username: "meena", State: "West Bengal", Role: models.RoleStudent, Timestamp: 2000},
		{Username: "ravi", State: "Telangana", Role: models.RoleFarmer, Timestamp: 3000},
		{Username: "asha", State: "Kerala", Role: models.RoleCitizen, Timestamp: 4000},
	}
	for _, s := range searches {
		require.NoError(t, rec.RecordSearch(ctx, s))
	}
	for _, name := range []string{"PM Kisan", "Kanyashree", "PM Kisan"} {
		require.NoError(t, rec.RecordTrack(ctx, models.TrackEvent{SchemeName: name}))
	}
}

func TestHandler_Execute_Summary(t *testing.T) {
	_, rec := setupRecorder(t)
	seed(t, rec)
	h := NewHandler(LoadConfig(), rec, logger.NewTestLogger(t))

	output, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)

	summary := output.Summary
	assert.Equal(t, 4, summary.TotalSearches)
	assert.Equal(t, 3, summary.TotalTracked)
	assert.Equal(t, []models.CountEntry{{Name: "PM Kisan", Count: 2}, {Name: "Kanyashree", Count: 1}}, summary.TopSchemes)
	assert.Equal(t, []models.CountEntry{
		{Name: "Telangana", Count: 2},
		{Name: "West Bengal", Count: 1},
		{Name: "Kerala", Count: 1},
	}, summary.TopStates)
	assert.Equal(t, "Farmer", summary.TopRoles[0].Name)
	assert.Nil(t, output.SearchHistory)
	assert.NotEmpty(t, output.GeneratedAt)
}

func TestHandler_Execute_UserHistory(t *testing.T) {
	_, rec := setupRecorder(t)
	seed(t, rec)
	h := NewHandler(LoadConfig(), rec, logger.NewTestLogger(t))

	output, err := h.Execute(context.Background(), &Input{Username: "ravi"})
	require.NoError(t, err)
	require.Len(t, output.SearchHistory, 2)
	assert.Equal(t, int64(3000), output.SearchHistory[0].Timestamp)
	assert.Equal(t, int64(1000), output.SearchHistory[1].Timestamp)
}

func TestHandler_Execute_EmptyStore(t *testing.T) {
	_, rec := setupRecorder(t)
	h := NewHandler(LoadConfig(), rec, logger.NewTestLogger(t))

	output, err := h.Execute(context.Background(), &Input{Username: "nobody"})
	require.NoError(t, err)
	assert.Zero(t, output.Summary.TotalSearches)
	assert.Empty(t, output.Summary.TopStates)
	assert.Empty(t, output.SearchHistory)
}

func TestHandler_Execute_StoreUnavailable(t *testing.T) {
	mr, rec := setupRecorder(t)
	mr.Close()
	h := NewHandler(LoadConfig(), rec, logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), &Input{})
	var stdErr *apperrors.StandardError
	require.True(t, errors.As(err, &stdErr))
	assert.Equal(t, apperrors.ErrCodeAnalyticsUnavailable, stdErr.Code)
}
