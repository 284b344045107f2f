// internal/workers/eligibility/find-eligible-schemes/handler.go
package findeligibleschemes

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"yogyatha-workers/internal/common/camunda"
	apperrors "yogyatha-workers/internal/common/errors"
	"yogyatha-workers/internal/common/logger"
	"yogyatha-workers/internal/common/metrics"
	"yogyatha-workers/internal/common/observability"
	"yogyatha-workers/internal/common/validation"
	"yogyatha-workers/internal/eligibility"
	"yogyatha-workers/internal/models"
	"yogyatha-workers/internal/storage"
)

const (
	TaskType = "find-eligible-schemes"
)

type SchemeSource interface {
	Schemes(ctx context.Context) ([]models.Scheme, error)
}

type ProfileStore interface {
	Get(ctx context.Context, username string) (models.Profile, error)
	Save(ctx context.Context, username string, profile models.Profile) error
}

type Handler struct {
	config       *Config
	catalog      SchemeSource
	profiles     ProfileStore
	engine       *eligibility.Engine
	obs          *observability.Observability
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, catalog SchemeSource, profiles ProfileStore, engine *eligibility.Engine, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		catalog:      catalog,
		profiles:     profiles,
		engine:       engine,
		obs:          obs,
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
	profile, source, err := h.resolveProfile(ctx, input)
	if err != nil {
		return nil, err
	}

	schemes, err := h.catalog.Schemes(ctx)
	if err != nil {
		return nil, apperrors.NewCatalogUnavailableError(err)
	}

	start := time.Now()
	result := h.engine.Search(ctx, schemes, profile, input.Username)
	eligible := result.Schemes

	metrics.EligibilitySearches.WithLabelValues(source).Inc()
	metrics.EligibilitySchemesMatched.Observe(float64(len(eligible)))
	h.obs.RecordSearch(ctx, time.Since(start), len(eligible))

	h.logger.Info("eligibility search complete", map[string]interface{}{
		"username": input.Username,
		"catalog":  len(schemes),
		"matched":  len(eligible),
	})

	return &Output{
		EligibleSchemes: eligible,
		MatchCount:      len(eligible),
		Age:             result.Age,
		ProfileSource:   source,
	}, nil
}

func (h *Handler) resolveProfile(ctx context.Context, input *Input) (models.Profile, string, error) {
	if input.Profile != nil {
		if input.SaveProfile {
			if input.Username == "" {
				return models.Profile{}, "", apperrors.NewProfileInvalidError("username is required to save a profile")
			}
			if vr := validation.ValidateProfile(*input.Profile); !vr.Valid {
				return models.Profile{}, "", apperrors.NewProfileInvalidError(vr.Error())
			}
			if err := h.profiles.Save(ctx, input.Username, *input.Profile); err != nil {
				return models.Profile{}, "", apperrors.NewExternalServiceError("profile store", err)
			}
		}
		return *input.Profile, ProfileSourceInput, nil
	}

	if input.Username == "" {
		return models.Profile{}, "", apperrors.NewProfileInvalidError("either profile or username is required")
	}

	profile, err := h.profiles.Get(ctx, input.Username)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Profile{}, "", apperrors.NewProfileNotFoundError(input.Username)
	}
	if err != nil {
		return models.Profile{}, "", apperrors.NewExternalServiceError("profile store", err)
	}
	return profile, ProfileSourceStore, nil
}

// Execute exposes execute for tests and callers outside the job loop.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
