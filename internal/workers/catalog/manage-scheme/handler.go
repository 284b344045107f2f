// internal/workers/catalog/manage-scheme/handler.go
package managescheme

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"yogyatha-workers/internal/catalog"
	"yogyatha-workers/internal/common/camunda"
	apperrors "yogyatha-workers/internal/common/errors"
	"yogyatha-workers/internal/common/logger"
	"yogyatha-workers/internal/common/validation"
	"yogyatha-workers/internal/models"
)

const (
	TaskType = "manage-scheme"
)

type SchemeStore interface {
	Get(ctx context.Context, id string) (models.Scheme, error)
	Create(ctx context.Context, scheme models.Scheme, source string) error
	Update(ctx context.Context, scheme models.Scheme) error
	Delete(ctx context.Context, id string) error
}

type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

type Indexer interface {
	Index(ctx context.Context, scheme models.Scheme) error
	Remove(ctx context.Context, id string) error
}

type Handler struct {
	config       *Config
	store        SchemeStore
	cache        CacheInvalidator
	indexer      Indexer
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

// NewHandler wires the catalog writer. indexer may be nil when search is not deployed.
func NewHandler(config *Config, store SchemeStore, cache CacheInvalidator, indexer Indexer, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		store:        store,
		cache:        cache,
		indexer:      indexer,
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
	switch input.Action {
	case ActionCreate:
		return h.create(ctx, input)
	case ActionUpdate:
		return h.update(ctx, input)
	case ActionDelete:
		return h.delete(ctx, input)
	case ActionGet:
		return h.get(ctx, input)
	default:
		return nil, apperrors.NewInvalidActionError(string(input.Action))
	}
}

func (h *Handler) create(ctx context.Context, input *Input) (*Output, error) {
	source := input.Source
	if source == "" {
		source = catalog.SourceAdmin
	}
	if source != catalog.SourceAdmin && source != catalog.SourceAI {
		return nil, apperrors.NewSchemeValidationFailedError(fmt.Sprintf("unknown source %q", source))
	}

	scheme, err := h.validated(input.Scheme)
	if err != nil {
		return nil, err
	}
	if scheme.ID == "" {
		scheme.ID = catalog.NewSchemeID()
	}

	if err := h.store.Create(ctx, scheme, source); err != nil {
		return nil, h.storeError("create scheme", err)
	}

	h.logger.Info("scheme created", map[string]interface{}{
		"schemeId": scheme.ID,
		"source":   source,
	})
	return h.afterWrite(ctx, ActionCreate, &scheme), nil
}

func (h *Handler) update(ctx context.Context, input *Input) (*Output, error) {
	scheme, err := h.validated(input.Scheme)
	if err != nil {
		return nil, err
	}
	if input.SchemeID != "" {
		scheme.ID = input.SchemeID
	}
	if scheme.ID == "" {
		return nil, apperrors.NewSchemeValidationFailedError("schemeId is required for update")
	}

	if err := h.store.Update(ctx, scheme); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, apperrors.NewSchemeNotFoundError(scheme.ID)
		}
		return nil, h.storeError("update scheme", err)
	}

	h.logger.Info("scheme updated", map[string]interface{}{"schemeId": scheme.ID})
	return h.afterWrite(ctx, ActionUpdate, &scheme), nil
}

func (h *Handler) delete(ctx context.Context, input *Input) (*Output, error) {
	if input.SchemeID == "" {
		return nil, apperrors.NewSchemeValidationFailedError("schemeId is required for delete")
	}

	if err := h.store.Delete(ctx, input.SchemeID); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, apperrors.NewSchemeNotFoundError(input.SchemeID)
		}
		return nil, h.storeError("delete scheme", err)
	}

	h.logger.Info("scheme deleted", map[string]interface{}{"schemeId": input.SchemeID})
	return h.afterWrite(ctx, ActionDelete, &models.Scheme{ID: input.SchemeID}), nil
}

func (h *Handler) get(ctx context.Context, input *Input) (*Output, error) {
	scheme, err := h.store.Get(ctx, input.SchemeID)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, apperrors.NewSchemeNotFoundError(input.SchemeID)
	}
	if err != nil {
		return nil, h.storeError("get scheme", err)
	}
	return &Output{Action: ActionGet, SchemeID: scheme.ID, Scheme: &scheme}, nil
}

func (h *Handler) validated(scheme *models.Scheme) (models.Scheme, error) {
	if scheme == nil {
		return models.Scheme{}, apperrors.NewSchemeValidationFailedError("scheme document is required")
	}
	vr, err := validation.ValidateScheme(*scheme)
	if err != nil {
		return models.Scheme{}, apperrors.NewInternalError(err)
	}
	if !vr.Valid {
		return models.Scheme{}, apperrors.NewSchemeValidationFailedError(vr.Error()).
			WithMetadata("errors", vr.Errors)
	}
	s := *scheme
	s.Score = 0
	return s, nil
}

// afterWrite refreshes the derived views of the catalog. Neither step can fail the job:
// postgres already holds the change.
func (h *Handler) afterWrite(ctx context.Context, action Action, scheme *models.Scheme) *Output {
	if err := h.cache.Invalidate(ctx); err != nil {
		h.logger.Warn("catalog cache not invalidated", map[string]interface{}{
			"schemeId": scheme.ID,
			"error":    err,
		})
	}

	output := &Output{Action: action, SchemeID: scheme.ID}
	if action != ActionDelete {
		output.Scheme = scheme
	}
	if h.indexer == nil {
		return output
	}

	var err error
	if action == ActionDelete {
		err = h.indexer.Remove(ctx, scheme.ID)
	} else {
		err = h.indexer.Index(ctx, *scheme)
	}
	if err != nil {
		h.logger.Warn("search index not updated", map[string]interface{}{
			"schemeId": scheme.ID,
			"action":   string(action),
			"error":    err,
		})
		return output
	}
	output.Indexed = true
	return output
}

func (h *Handler) storeError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewQueryTimeoutError(op)
	}
	return apperrors.NewQueryExecutionFailedError(op, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
