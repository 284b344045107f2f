// internal/workers/applications/notify-application-status/models.go
package notifyapplicationstatus

import "yogyatha-workers/internal/models"

type Input struct {
	Username    string                    `json:"username"`
	Email       string                    `json:"email,omitempty"`
	Phone       string                    `json:"phone,omitempty"` // E.164
	Application models.TrackedApplication `json:"application"`
}

type Output struct {
	NotificationID string        `json:"notificationId"`
	Email          ChannelResult `json:"email"`
	SMS            ChannelResult `json:"sms"`
	SentAt         string        `json:"sentAt"` // ISO 8601
}

type ChannelResult struct {
	Status    string `json:"status"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Channel statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
	StatusSkipped  = "skipped"
)

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)
