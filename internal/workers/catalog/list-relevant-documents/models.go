// internal/workers/catalog/list-relevant-documents/models.go
package listrelevantdocuments

type Input struct {
	State          string   `json:"state"`
	DocumentsOwned []string `json:"documentsOwned,omitempty"`
}

type Output struct {
	State     string   `json:"state"`
	Documents []string `json:"documents"`
	Missing   []string `json:"missing"`
}
