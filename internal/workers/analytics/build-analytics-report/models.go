// internal/workers/analytics/build-analytics-report/models.go
package buildanalyticsreport

import "yogyatha-workers/internal/models"

type Input struct {
	Username string `json:"username,omitempty"`
}

type Output struct {
	Summary       models.AnalyticsSummary `json:"summary"`
	SearchHistory []models.SearchEvent    `json:"searchHistory,omitempty"`
	GeneratedAt   string                  `json:"generatedAt"` // ISO 8601
}
