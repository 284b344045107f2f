// internal/workers/eligibility/find-eligible-schemes/models.go
package findeligibleschemes

import "yogyatha-workers/internal/models"

// Input carries either an inline profile or just the username whose stored profile
// should be used.
type Input struct {
	Username    string          `json:"username"`
	Profile     *models.Profile `json:"profile,omitempty"`
	SaveProfile bool            `json:"saveProfile,omitempty"`
}

type Output struct {
	EligibleSchemes []models.Scheme `json:"eligibleSchemes"`
	MatchCount      int             `json:"matchCount"`
	Age             int             `json:"age"`
	ProfileSource   string          `json:"profileSource"` // "input" or "store"
}

const (
	ProfileSourceInput = "input"
	ProfileSourceStore = "store"
)
