// internal/workers/catalog/manage-scheme/models.go
package managescheme

import "yogyatha-workers/internal/models"

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionGet    Action = "get"
)

type Input struct {
	Action   Action         `json:"action"`
	SchemeID string         `json:"schemeId,omitempty"`
	Scheme   *models.Scheme `json:"scheme,omitempty"`
	Source   string         `json:"source,omitempty"` // "admin" (default) or "ai"
}

type Output struct {
	Action   Action         `json:"action"`
	SchemeID string         `json:"schemeId"`
	Scheme   *models.Scheme `json:"scheme,omitempty"`
	Indexed  bool           `json:"indexed"`
}
