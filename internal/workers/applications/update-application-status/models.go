// internal/workers/applications/update-application-status/models.go
package updateapplicationstatus

import "yogyatha-workers/internal/models"

type Input struct {
	Username      string                   `json:"username"`
	ApplicationID string                   `json:"applicationId"`
	Status        models.ApplicationStatus `json:"status,omitempty"`
	Delete        bool                     `json:"delete,omitempty"`
}

type Output struct {
	Application *models.TrackedApplication `json:"application,omitempty"`
	Deleted     bool                       `json:"deleted"`
}
