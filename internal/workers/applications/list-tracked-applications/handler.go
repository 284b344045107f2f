// internal/workers/applications/list-tracked-applications/handler.go
package listtrackedapplications

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"yogyatha-workers/internal/applications"
	"yogyatha-workers/internal/common/camunda"
	apperrors "yogyatha-workers/internal/common/errors"
	"yogyatha-workers/internal/common/logger"
	"yogyatha-workers/internal/models"
)

const (
	TaskType = "list-tracked-applications"
)

type ApplicationStore interface {
	ListByUser(ctx context.Context, userID string) ([]models.TrackedApplication, error)
	Get(ctx context.Context, userID, appID string) (models.TrackedApplication, error)
}

type Handler struct {
	config       *Config
	store        ApplicationStore
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, store ApplicationStore, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		store:        store,
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
		return nil, apperrors.NewProfileNotFoundError(input.Username).
			WithMetadata("reason", "username is required")
	}

	if input.ApplicationID != "" {
		app, err := h.store.Get(ctx, input.Username, input.ApplicationID)
		if err != nil {
			return nil, h.mapError(input.ApplicationID, "get application", err)
		}
		return &Output{Applications: []models.TrackedApplication{app}, Count: 1}, nil
	}

	apps, err := h.store.ListByUser(ctx, input.Username)
	if err != nil {
		return nil, h.mapError("", "list applications", err)
	}
	if apps == nil {
		apps = []models.TrackedApplication{}
	}

	h.logger.Debug("applications listed", map[string]interface{}{
		"username": input.Username,
		"count":    len(apps),
	})
	return &Output{Applications: apps, Count: len(apps)}, nil
}

func (h *Handler) mapError(appID, op string, err error) error {
	switch {
	case errors.Is(err, applications.ErrNotFound):
		return apperrors.NewApplicationNotFoundError(appID)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewQueryTimeoutError(op)
	default:
		return apperrors.NewQueryExecutionFailedError(op, err)
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
