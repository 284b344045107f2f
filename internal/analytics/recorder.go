// Package analytics records search and tracking events and aggregates them for the
// admin report.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"

	"yogyatha-workers/internal/common/logger"
	"yogyatha-workers/internal/common/metrics"
	"yogyatha-workers/internal/models"
)

type RecorderConfig struct {
	KeyPrefix   string
	MaxFailures uint32
	OpenTimeout time.Duration
}

// Recorder appends events to redis lists behind a circuit breaker, so a struggling
// redis stops costing every search a timeout.
type Recorder struct {
	client  redis.Cmdable
	prefix  string
	breaker *gobreaker.CircuitBreaker[any]
	logger  logger.Logger
}

func NewRecorder(client redis.Cmdable, cfg RecorderConfig, log logger.Logger) *Recorder {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "analytics"
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	log = log.WithFields(map[string]interface{}{"component": "analytics-recorder"})

	settings := gobreaker.Settings{
		Name:    "analytics",
		Timeout: cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("circuit breaker state change", map[string]interface{}{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
		},
	}

	return &Recorder{
		client:  client,
		prefix:  cfg.KeyPrefix,
		breaker: gobreaker.NewCircuitBreaker[any](settings),
		logger:  log,
	}
}

func (r *Recorder) SearchesKey() string { return r.prefix + ":searches" }
func (r *Recorder) TrackedKey() string  { return r.prefix + ":tracked" }

// RecordSearch appends a search event. It satisfies eligibility.SearchRecorder.
func (r *Recorder) RecordSearch(ctx context.Context, event models.SearchEvent) error {
	return r.push(ctx, r.SearchesKey(), "search", event)
}

func (r *Recorder) RecordTrack(ctx context.Context, event models.TrackEvent) error {
	return r.push(ctx, r.TrackedKey(), "track", event)
}

func (r *Recorder) push(ctx context.Context, key, event string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event, err)
	}

	_, err = r.breaker.Execute(func() (any, error) {
		return nil, r.client.RPush(ctx, key, raw).Err()
	})
	if err != nil {
		metrics.AnalyticsRecordFailures.WithLabelValues(event).Inc()
		return fmt.Errorf("record %s event: %w", event, err)
	}
	return nil
}

// Searches returns every recorded search event in the order they were recorded.
func (r *Recorder) Searches(ctx context.Context) ([]models.SearchEvent, error) {
	var events []models.SearchEvent
	err := r.load(ctx, r.SearchesKey(), func(raw string) error {
		var e models.SearchEvent
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return err
		}
		events = append(events, e)
		return nil
	})
	return events, err
}

func (r *Recorder) Tracked(ctx context.Context) ([]models.TrackEvent, error) {
	var events []models.TrackEvent
	err := r.load(ctx, r.TrackedKey(), func(raw string) error {
		var e models.TrackEvent
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return err
		}
		events = append(events, e)
		return nil
	})
	return events, err
}

func (r *Recorder) load(ctx context.Context, key string, decode func(string) error) error {
	values, err := r.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	for i, raw := range values {
		if err := decode(raw); err != nil {
			r.logger.Warn("skipping unreadable analytics event", map[string]interface{}{
				"key":   key,
				"index": i,
				"error": err,
			})
		}
	}
	return nil
}
