// internal/workers/analytics/build-analytics-report/handler.go
package buildanalyticsreport

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"yogyatha-workers/internal/analytics"
	"yogyatha-workers/internal/common/camunda"
	apperrors "yogyatha-workers/internal/common/errors"
	"yogyatha-workers/internal/common/logger"
	"yogyatha-workers/internal/models"
)

const (
	TaskType = "build-analytics-report"
)

type EventSource interface {
	Searches(ctx context.Context) ([]models.SearchEvent, error)
	Tracked(ctx context.Context) ([]models.TrackEvent, error)
}

type Handler struct {
	config       *Config
	events       EventSource
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, events EventSource, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		events:       events,
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
	searches, err := h.events.Searches(ctx)
	if err != nil {
		return nil, apperrors.NewAnalyticsUnavailableError(err)
	}
	tracked, err := h.events.Tracked(ctx)
	if err != nil {
		return nil, apperrors.NewAnalyticsUnavailableError(err)
	}

	output := &Output{
		Summary:     analytics.Summarize(searches, tracked),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if input.Username != "" {
		output.SearchHistory = analytics.UserHistory(searches, input.Username)
	}

	h.logger.Info("analytics report built", map[string]interface{}{
		"totalSearches": output.Summary.TotalSearches,
		"totalTracked":  output.Summary.TotalTracked,
	})
	return output, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
