// internal/models/analytics.go
package models

// SearchEvent is appended to the analytics log every time an eligibility search runs.
// Timestamp is in Unix milliseconds.
type SearchEvent struct {
	Username  string `json:"username"`
	State     string `json:"state"`
	Role      Role   `json:"role"`
	Income    int64  `json:"income"`
	Timestamp int64  `json:"timestamp"`
}

// TrackEvent is appended when a user starts tracking an application.
type TrackEvent struct {
	SchemeID   string `json:"schemeId"`
	SchemeName string `json:"schemeName"`
	Timestamp  int64  `json:"timestamp"`
}

type CountEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// AnalyticsSummary is the admin overview of searches and tracked applications.
type AnalyticsSummary struct {
	TotalSearches int          `json:"totalSearches"`
	TotalTracked  int          `json:"totalTracked"`
	TopSchemes    []CountEntry `json:"topSchemes"`
	TopStates     []CountEntry `json:"topStates"`
	TopRoles      []CountEntry `json:"topRoles"`
}
