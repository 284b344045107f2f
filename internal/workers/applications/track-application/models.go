// internal/workers/applications/track-application/models.go
package trackapplication

import "yogyatha-workers/internal/models"

// Input names the scheme by id. When the process already holds the scheme document
// it can pass it inline and skip the catalog lookup.
type Input struct {
	Username string         `json:"username"`
	SchemeID string         `json:"schemeId"`
	Scheme   *models.Scheme `json:"scheme,omitempty"`
}

type Output struct {
	Application models.TrackedApplication `json:"application"`
}
