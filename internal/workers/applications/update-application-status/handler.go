// internal/workers/applications/update-application-status/handler.go
package updateapplicationstatus

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
	TaskType = "update-application-status"
)

type ApplicationStore interface {
	UpdateStatus(ctx context.Context, userID, appID string, status models.ApplicationStatus) (models.TrackedApplication, error)
	Delete(ctx context.Context, userID, appID string) error
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
	if input.Username == "" || input.ApplicationID == "" {
		return nil, apperrors.NewApplicationNotFoundError(input.ApplicationID).
			WithMetadata("reason", "username and applicationId are required")
	}

	if input.Delete {
		err := h.store.Delete(ctx, input.Username, input.ApplicationID)
		if err != nil {
			return nil, h.mapError(input.ApplicationID, "delete application", err)
		}
		h.logger.Info("application deleted", map[string]interface{}{
			"username":      input.Username,
			"applicationId": input.ApplicationID,
		})
		return &Output{Deleted: true}, nil
	}

	if !input.Status.Valid() {
		return nil, apperrors.NewInvalidApplicationStatusError(string(input.Status))
	}

	app, err := h.store.UpdateStatus(ctx, input.Username, input.ApplicationID, input.Status)
	if err != nil {
		return nil, h.mapError(input.ApplicationID, "update application status", err)
	}

	h.logger.Info("application status updated", map[string]interface{}{
		"username":      input.Username,
		"applicationId": app.ID,
		"status":        string(app.Status),
	})
	return &Output{Application: &app}, nil
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
