package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yogyatha-workers/internal/models"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, NewRedisStore(client)
}

func TestRedisStore_PutGetDelete(t *testing.T) {
	_, store := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "k", []byte("v"), 0))

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, store.Delete(ctx, "k"))
	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_TTL(t *testing.T) {
	mr, store := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "short", []byte("v"), time.Minute))
	assert.Equal(t, time.Minute, mr.TTL("short"))

	mr.FastForward(2 * time.Minute)
	_, err := store.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_BackendError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectGet("k").SetErr(errors.New("connection reset"))

	_, err := NewRedisStore(client).Get(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_RoundTrip(t *testing.T) {
	mr, store := setupRedis(t)
	repo := NewProfileRepository(store, 0)
	ctx := context.Background()

	profile := models.Profile{
		DateOfBirth:    "1995-08-20",
		Income:         240000,
		State:          "Kerala",
		Category:       models.CategoryOBC,
		Role:           models.RoleStudent,
		Gender:         models.GenderFemale,
		DocumentsOwned: []string{"Aadhaar Card"},
	}

	require.NoError(t, repo.Save(ctx, "asha", profile))
	assert.True(t, mr.Exists("profile:asha"))

	got, err := repo.Get(ctx, "asha")
	require.NoError(t, err)
	assert.Equal(t, profile, got)

	require.NoError(t, repo.Delete(ctx, "asha"))
	_, err = repo.Get(ctx, "asha")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProfileRepository_CorruptValue(t *testing.T) {
	mr, store := setupRedis(t)
	require.NoError(t, mr.Set("profile:ravi", "{not json"))

	_, err := NewProfileRepository(store, 0).Get(context.Background(), "ravi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode profile")
}
