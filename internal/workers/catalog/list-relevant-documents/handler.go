// internal/workers/catalog/list-relevant-documents/handler.go
package listrelevantdocuments

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"yogyatha-workers/internal/catalog"
	"yogyatha-workers/internal/common/camunda"
	apperrors "yogyatha-workers/internal/common/errors"
	"yogyatha-workers/internal/common/logger"
)

const (
	TaskType = "list-relevant-documents"
)

type Handler struct {
	config       *Config
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		logger:       log,
		errorHandler: apperrors.NewErrorHandler(log),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
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

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	documents := catalog.RelevantDocuments(input.State)

	owned := make(map[string]struct{}, len(input.DocumentsOwned))
	for _, d := range input.DocumentsOwned {
		owned[d] = struct{}{}
	}
	missing := []string{}
	for _, d := range documents {
		if _, ok := owned[d]; !ok {
			missing = append(missing, d)
		}
	}

	h.logger.Debug("relevant documents listed", map[string]interface{}{
		"state":   input.State,
		"count":   len(documents),
		"missing": len(missing),
	})

	return &Output{
		State:     input.State,
		Documents: documents,
		Missing:   missing,
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
