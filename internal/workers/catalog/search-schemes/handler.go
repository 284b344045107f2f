// internal/workers/catalog/search-schemes/handler.go
package searchschemes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"yogyatha-workers/internal/catalog"
	"yogyatha-workers/internal/common/camunda"
	apperrors "yogyatha-workers/internal/common/errors"
	"yogyatha-workers/internal/common/logger"
)

const (
	TaskType = "search-schemes"
)

type Searcher interface {
	Search(ctx context.Context, q catalog.SearchQuery) (*catalog.SearchResult, error)
}

type Handler struct {
	config       *Config
	index        Searcher
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, index Searcher, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		index:        index,
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
	if input == nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("input cannot be nil"))
	}
	if input.Category != "" && !input.Category.Valid() {
		return nil, apperrors.NewProfileInvalidError(fmt.Sprintf("unknown category %q", input.Category))
	}
	if input.Role != "" && !input.Role.Valid() {
		return nil, apperrors.NewProfileInvalidError(fmt.Sprintf("unknown role %q", input.Role))
	}

	start := time.Now()
	result, err := h.index.Search(ctx, catalog.SearchQuery{
		Keywords: input.Keywords,
		State:    input.State,
		Category: input.Category,
		Role:     input.Role,
		From:     input.From,
		Size:     input.Size,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return nil, apperrors.NewSearchTimeoutError()
		}
		return nil, apperrors.NewSearchIndexFailedError("search", err)
	}
	took := time.Since(start)

	h.logger.Info("scheme search complete", map[string]interface{}{
		"keywords":  input.Keywords,
		"totalHits": result.TotalHits,
		"tookMs":    took.Milliseconds(),
	})

	return &Output{
		Schemes:   result.Hits,
		TotalHits: result.TotalHits,
		Returned:  len(result.Hits),
		TookMs:    took.Milliseconds(),
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
