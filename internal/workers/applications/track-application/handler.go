// internal/workers/applications/track-application/handler.go
package trackapplication

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"yogyatha-workers/internal/applications"
	"yogyatha-workers/internal/catalog"
	"yogyatha-workers/internal/common/camunda"
	apperrors "yogyatha-workers/internal/common/errors"
	"yogyatha-workers/internal/common/logger"
	"yogyatha-workers/internal/models"
)

const (
	TaskType = "track-application"
)

type ApplicationStore interface {
	Create(ctx context.Context, app models.TrackedApplication) error
}

type SchemeLookup interface {
	Get(ctx context.Context, id string) (models.Scheme, error)
}

type TrackRecorder interface {
	RecordTrack(ctx context.Context, event models.TrackEvent) error
}

type Handler struct {
	config       *Config
	store        ApplicationStore
	schemes      SchemeLookup
	recorder     TrackRecorder
	now          func() time.Time
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

// NewHandler builds the handler. recorder may be nil when analytics is disabled.
func NewHandler(config *Config, store ApplicationStore, schemes SchemeLookup, recorder TrackRecorder, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		store:        store,
		schemes:      schemes,
		recorder:     recorder,
		now:          time.Now,
		logger:       log,
		errorHandler: apperrors.NewErrorHandler(log),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errorHandler.HandleJobError(context.Background(), client, job, apperrors.NewParseError(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errorHandler.HandleJobError(context.Background(), client, job, err)
		return
	}

	camunda.CompleteJob(client, job, output, h.logger)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Username == "" {
		return nil, apperrors.NewProfileInvalidError("username is required")
	}

	scheme, err := h.resolveScheme(ctx, input)
	if err != nil {
		return nil, err
	}

	now := h.now()
	app := applications.NewTrackedApplication(input.Username, scheme, now)

	if err := h.store.Create(ctx, app); err != nil {
		if errors.Is(err, applications.ErrAlreadyTracked) {
			return nil, apperrors.NewApplicationAlreadyTrackedError(scheme.ID)
		}
		return nil, apperrors.NewQueryExecutionFailedError("track application", err)
	}

	h.recordTrack(models.TrackEvent{
		SchemeID:   scheme.ID,
		SchemeName: scheme.DisplayName(),
		Timestamp:  now.UnixMilli(),
	})

	h.logger.Info("application tracked", map[string]interface{}{
		"username":      input.Username,
		"schemeId":      scheme.ID,
		"applicationId": app.ID,
	})
	return &Output{Application: app}, nil
}

func (h *Handler) resolveScheme(ctx context.Context, input *Input) (models.Scheme, error) {
	if input.Scheme != nil && input.Scheme.ID != "" {
		return *input.Scheme, nil
	}
	if input.SchemeID == "" {
		return models.Scheme{}, apperrors.NewSchemeValidationFailedError("schemeId is required")
	}

	scheme, err := h.schemes.Get(ctx, input.SchemeID)
	if errors.Is(err, catalog.ErrNotFound) {
		return models.Scheme{}, apperrors.NewSchemeNotFoundError(input.SchemeID)
	}
	if err != nil {
		return models.Scheme{}, apperrors.NewCatalogUnavailableError(err)
	}
	return scheme, nil
}

// recordTrack never fails the job; the application row is already committed.
func (h *Handler) recordTrack(event models.TrackEvent) {
	if h.recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), h.config.AnalyticsTimeout)
	defer cancel()

	if err := h.recorder.RecordTrack(ctx, event); err != nil {
		h.logger.Warn("track event not recorded", map[string]interface{}{
			"schemeId": event.SchemeID,
			"error":    err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
