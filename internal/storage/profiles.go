package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"yogyatha-workers/internal/models"
)

// ProfileKey is the store key for a user's saved profile.
func ProfileKey(username string) string {
	return "profile:" + username
}

// ProfileRepository persists one profile per username.
type ProfileRepository struct {
	store Store
	ttl   time.Duration
}

func NewProfileRepository(store Store, ttl time.Duration) *ProfileRepository {
	return &ProfileRepository{store: store, ttl: ttl}
}

// Get returns ErrNotFound when the user has never saved a profile.
func (r *ProfileRepository) Get(ctx context.Context, username string) (models.Profile, error) {
	raw, err := r.store.Get(ctx, ProfileKey(username))
	if err != nil {
		return models.Profile{}, err
	}

	var profile models.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return models.Profile{}, fmt.Errorf("decode profile for %s: %w", username, err)
	}
	return profile, nil
}

func (r *ProfileRepository) Save(ctx context.Context, username string, profile models.Profile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile for %s: %w", username, err)
	}
	return r.store.Put(ctx, ProfileKey(username), raw, r.ttl)
}

func (r *ProfileRepository) Delete(ctx context.Context, username string) error {
	return r.store.Delete(ctx, ProfileKey(username))
}
