// internal/workers/eligibility/save-user-profile/models.go
package saveuserprofile

import "yogyatha-workers/internal/models"

type Action string

// An empty action saves the profile.
const (
	ActionSave   Action = "save"
	ActionGet    Action = "get"
	ActionDelete Action = "delete"
)

type Input struct {
	Username string         `json:"username"`
	Action   Action         `json:"action,omitempty"`
	Profile  models.Profile `json:"profile"`
}

type Output struct {
	Action     Action          `json:"action"`
	Saved      bool            `json:"saved"`
	Deleted    bool            `json:"deleted,omitempty"`
	ProfileKey string          `json:"profileKey"`
	Profile    *models.Profile `json:"profile,omitempty"`
}
