// internal/workers/catalog/search-schemes/models.go
package searchschemes

import (
	"yogyatha-workers/internal/catalog"
	"yogyatha-workers/internal/models"
)

type Input struct {
	Keywords string          `json:"keywords"`
	State    string          `json:"state,omitempty"`
	Category models.Category `json:"category,omitempty"`
	Role     models.Role     `json:"role,omitempty"`
	From     int             `json:"from,omitempty"`
	Size     int             `json:"size,omitempty"`
}

type Output struct {
	Schemes   []catalog.SearchHit `json:"schemes"`
	TotalHits int64               `json:"totalHits"`
	Returned  int                 `json:"returned"`
	TookMs    int64               `json:"tookMs"`
}
