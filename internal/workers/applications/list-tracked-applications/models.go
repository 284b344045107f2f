// internal/workers/applications/list-tracked-applications/models.go
package listtrackedapplications

import "yogyatha-workers/internal/models"

// Input selects one application when ApplicationID is set, otherwise all of
// the user's applications.
type Input struct {
	Username      string `json:"username"`
	ApplicationID string `json:"applicationId,omitempty"`
}

type Output struct {
	Applications []models.TrackedApplication `json:"applications"`
	Count        int                         `json:"count"`
}
