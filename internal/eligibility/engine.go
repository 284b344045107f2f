// Package eligibility scores welfare schemes against a citizen's profile and returns the
// ones worth showing, best match first.
package eligibility

import (
	"context"
	"fmt"
	"time"

	"yogyatha-workers/internal/common/logger"
	"yogyatha-workers/internal/models"
)

// SearchRecorder receives one event per search. Implementations may fail; the engine
// logs the failure and carries on. RecordSearch runs inline with the search and must
// return once ctx is done, since the engine's record timeout is enforced only through ctx.
type SearchRecorder interface {
	RecordSearch(ctx context.Context, event models.SearchEvent) error
}

const defaultRecordTimeout = 2 * time.Second

type Engine struct {
	recorder      SearchRecorder
	logger        logger.Logger
	now           func() time.Time
	recordTimeout time.Duration
}

type Option func(*Engine)

// WithClock overrides the clock used for ages and event timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRecordTimeout bounds how long a search waits on the recorder.
func WithRecordTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.recordTimeout = d
		}
	}
}

// NewEngine builds an engine. A nil recorder disables search recording.
func NewEngine(recorder SearchRecorder, log logger.Logger, opts ...Option) *Engine {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	e := &Engine{
		recorder:      recorder,
		logger:        log.WithFields(map[string]interface{}{"component": "eligibility"}),
		now:           time.Now,
		recordTimeout: defaultRecordTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is one scored search: the eligible schemes and the age they were scored with.
type Result struct {
	Schemes []models.Scheme
	Age     int
}

// ScoreAndFilter records the search, scores every scheme for the profile and returns the
// eligible ones ordered by descending score. The input slice is never modified.
func (e *Engine) ScoreAndFilter(ctx context.Context, schemes []models.Scheme, profile models.Profile, username string) []models.Scheme {
	return e.Search(ctx, schemes, profile, username).Schemes
}

// Search is ScoreAndFilter that also reports the age used for scoring. The clock is read
// once, so the age, the scores and the event timestamp always agree.
func (e *Engine) Search(ctx context.Context, schemes []models.Scheme, profile models.Profile, username string) Result {
	now := e.now()
	e.recordSearch(ctx, profile, username, now)

	age := Age(profile.DateOfBirth, now)
	scored := make([]models.Scheme, len(schemes))
	for i, s := range schemes {
		scored[i] = Score(s, profile, age)
	}
	ranked := FilterAndRank(scored)

	e.logger.Debug("eligibility search scored", map[string]interface{}{
		"username": username,
		"age":      age,
		"catalog":  len(schemes),
		"matched":  len(ranked),
	})
	return Result{Schemes: ranked, Age: age}
}

func (e *Engine) recordSearch(ctx context.Context, profile models.Profile, username string, now time.Time) {
	if e.recorder == nil {
		return
	}

	event := models.SearchEvent{
		Username:  username,
		State:     profile.State,
		Role:      profile.Role,
		Income:    profile.Income,
		Timestamp: now.UnixMilli(),
	}

	// The caller's cancellation must not drop the event, only the timeout bounds it.
	recCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.recordTimeout)
	defer cancel()

	if err := e.safeRecord(recCtx, event); err != nil {
		e.logger.Warn("search event not recorded", map[string]interface{}{
			"username": username,
			"error":    err.Error(),
		})
	}
}

func (e *Engine) safeRecord(ctx context.Context, event models.SearchEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recorder panic: %v", r)
		}
	}()
	return e.recorder.RecordSearch(ctx, event)
}
