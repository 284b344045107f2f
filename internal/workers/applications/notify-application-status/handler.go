// internal/workers/applications/notify-application-status/handler.go
package notifyapplicationstatus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"yogyatha-workers/internal/common/camunda"
	apperrors "yogyatha-workers/internal/common/errors"
	"yogyatha-workers/internal/common/logger"
	"yogyatha-workers/internal/common/metrics"
	"yogyatha-workers/internal/common/validation"
)

const (
	TaskType = "notify-application-status"
)

type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) (string, error)
}

type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) (string, error)
}

type Handler struct {
	config       *Config
	email        EmailSender
	sms          SMSSender
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, email EmailSender, sms SMSSender, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		email:        email,
		sms:          sms,
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
	status := input.Application.Status
	if !status.Valid() {
		return nil, apperrors.NewInvalidApplicationStatusError(string(status))
	}

	data := newTemplateData(input)
	output := &Output{
		NotificationID: uuid.New().String(),
		SentAt:         time.Now().UTC().Format(time.RFC3339),
	}

	output.Email = h.sendEmail(ctx, input, data)

	if textWorthy(status) {
		output.SMS = h.sendSMS(ctx, input, data)
	} else {
		output.SMS = ChannelResult{Status: StatusSkipped}
	}

	// A retry must never repeat a delivered message: fail only when nothing was sent.
	if failedOnly(output.Email, output.SMS) {
		return nil, apperrors.NewNotificationSendFailedError("all",
			fmt.Errorf("email: %s; sms: %s", output.Email.Error, output.SMS.Error))
	}

	h.logger.Info("status notification processed", map[string]interface{}{
		"applicationId": input.Application.ID,
		"status":        string(status),
		"email":         output.Email.Status,
		"sms":           output.SMS.Status,
	})
	return output, nil
}

func (h *Handler) sendEmail(ctx context.Context, input *Input, data templateData) ChannelResult {
	if !h.config.EmailEnabled || h.email == nil {
		return h.count(ChannelEmail, ChannelResult{Status: StatusDisabled})
	}
	if !validation.ValidateEmail(input.Email) {
		return h.count(ChannelEmail, ChannelResult{Status: StatusSkipped})
	}

	msg, err := renderEmail(data)
	if err != nil {
		return h.count(ChannelEmail, ChannelResult{Status: StatusFailed, Error: err.Error()})
	}

	id, err := h.email.SendEmail(ctx, input.Email, msg.Subject, msg.Body)
	if err != nil {
		h.logger.Error("email send failed", map[string]interface{}{
			"error":         err,
			"applicationId": input.Application.ID,
		})
		return h.count(ChannelEmail, ChannelResult{Status: StatusFailed, Error: err.Error()})
	}
	return h.count(ChannelEmail, ChannelResult{Status: StatusSent, MessageID: id})
}

func (h *Handler) sendSMS(ctx context.Context, input *Input, data templateData) ChannelResult {
	if !h.config.SMSEnabled || h.sms == nil {
		return h.count(ChannelSMS, ChannelResult{Status: StatusDisabled})
	}
	if !validation.ValidatePhone(input.Phone) {
		return h.count(ChannelSMS, ChannelResult{Status: StatusSkipped})
	}

	text, err := render(smsTemplate, data)
	if err != nil {
		return h.count(ChannelSMS, ChannelResult{Status: StatusFailed, Error: err.Error()})
	}

	id, err := h.sms.SendSMS(ctx, input.Phone, text)
	if err != nil {
		h.logger.Error("SMS send failed", map[string]interface{}{
			"error":         err,
			"applicationId": input.Application.ID,
		})
		return h.count(ChannelSMS, ChannelResult{Status: StatusFailed, Error: err.Error()})
	}
	return h.count(ChannelSMS, ChannelResult{Status: StatusSent, MessageID: id})
}

func (h *Handler) count(channel string, r ChannelResult) ChannelResult {
	metrics.NotificationsSent.WithLabelValues(channel, r.Status).Inc()
	return r
}

func failedOnly(results ...ChannelResult) bool {
	failed := false
	for _, r := range results {
		switch r.Status {
		case StatusSent:
			return false
		case StatusFailed:
			failed = true
		}
	}
	return failed
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
