// internal/models/application.go
package models

type ApplicationStatus string

const (
	StatusApplied            ApplicationStatus = "Applied"
	StatusInReview           ApplicationStatus = "In Review"
	StatusDocumentsRequested ApplicationStatus = "Documents Requested"
	StatusApproved           ApplicationStatus = "Approved"
	StatusRejected           ApplicationStatus = "Rejected"
)

var ApplicationStatuses = []ApplicationStatus{
	StatusApplied, StatusInReview, StatusDocumentsRequested, StatusApproved, StatusRejected,
}

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusApplied, StatusInReview, StatusDocumentsRequested, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// DefaultSchemeIcon is used when a tracked scheme has no icon of its own.
const DefaultSchemeIcon = "document-text"

// TrackedApplication is a user's record of having applied to a scheme.
type TrackedApplication struct {
	ID                string            `json:"id"`
	UserID            string            `json:"userId"`
	SchemeID          string            `json:"schemeId"`
	SchemeName        LocalizedText     `json:"schemeName"`
	SchemeIcon        string            `json:"schemeIcon"`
	ApplicationDate   string            `json:"applicationDate"`
	Status            ApplicationStatus `json:"status"`
	ApplicationNumber string            `json:"applicationNumber,omitempty"`
	Notes             string            `json:"notes,omitempty"`
}
