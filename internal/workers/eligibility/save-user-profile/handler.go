// internal/workers/eligibility/save-user-profile/handler.go
package saveuserprofile

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"yogyatha-workers/internal/common/camunda"
	apperrors "yogyatha-workers/internal/common/errors"
	"yogyatha-workers/internal/common/logger"
	"yogyatha-workers/internal/common/validation"
	"yogyatha-workers/internal/models"
	"yogyatha-workers/internal/storage"
)

const (
	TaskType = "save-user-profile"
)

type ProfileStore interface {
	Get(ctx context.Context, username string) (models.Profile, error)
	Save(ctx context.Context, username string, profile models.Profile) error
	Delete(ctx context.Context, username string) error
}

type Handler struct {
	config       *Config
	profiles     ProfileStore
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, profiles ProfileStore, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		profiles:     profiles,
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

	switch input.Action {
	case ActionSave, "":
		return h.save(ctx, input)
	case ActionGet:
		return h.get(ctx, input)
	case ActionDelete:
		return h.delete(ctx, input)
	default:
		return nil, apperrors.NewInvalidActionError(string(input.Action))
	}
}

func (h *Handler) save(ctx context.Context, input *Input) (*Output, error) {
	if vr := validation.ValidateProfile(input.Profile); !vr.Valid {
		return nil, apperrors.NewProfileInvalidError(vr.Error()).
			WithMetadata("errors", vr.Errors)
	}

	if err := h.profiles.Save(ctx, input.Username, input.Profile); err != nil {
		return nil, apperrors.NewExternalServiceError("profile store", err)
	}

	h.logger.Info("profile saved", map[string]interface{}{"username": input.Username})

	return &Output{
		Action:     ActionSave,
		Saved:      true,
		ProfileKey: storage.ProfileKey(input.Username),
	}, nil
}

func (h *Handler) get(ctx context.Context, input *Input) (*Output, error) {
	profile, err := h.profiles.Get(ctx, input.Username)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperrors.NewProfileNotFoundError(input.Username)
	}
	if err != nil {
		return nil, apperrors.NewExternalServiceError("profile store", err)
	}

	return &Output{
		Action:     ActionGet,
		Saved:      true,
		ProfileKey: storage.ProfileKey(input.Username),
		Profile:    &profile,
	}, nil
}

// delete succeeds for users with no saved profile.
func (h *Handler) delete(ctx context.Context, input *Input) (*Output, error) {
	if err := h.profiles.Delete(ctx, input.Username); err != nil {
		return nil, apperrors.NewExternalServiceError("profile store", err)
	}

	h.logger.Info("profile deleted", map[string]interface{}{"username": input.Username})

	return &Output{
		Action:     ActionDelete,
		Deleted:    true,
		ProfileKey: storage.ProfileKey(input.Username),
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
