// internal/workers/catalog/list-relevant-documents/handler_test.go
package listrelevantdocuments

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yogyatha-workers/internal/catalog"
	"yogyatha-workers/internal/common/logger"
	"yogyatha-workers/internal/models"
)

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name         string
		input        *Input
		expectAll    bool
		contains     string
		missingCount int
	}{
		{name: "pan india", input: &Input{State: models.PanIndia}, expectAll: true, missingCount: len(catalog.AllDocumentTypes)},
		{name: "empty state", input: &Input{}, expectAll: true, missingCount: len(catalog.AllDocumentTypes)},
		{name: "unmapped state", input: &Input{State: "Goa"}, expectAll: true, missingCount: len(catalog.AllDocumentTypes)},
		{name: "gujarat", input: &Input{State: "Gujarat"}, contains: "MA Card", missingCount: 11},
		{
			name:         "owned documents are not missing",
			input:        &Input{State: "Gujarat", DocumentsOwned: []string{"Aadhaar Card", "MA Card", "Driving Licence"}},
			contains:     "MA Card",
			missingCount: 9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(LoadConfig(), logger.NewTestLogger(t))

			output, err := h.Execute(context.Background(), tt.input)
			require.NoError(t, err)

			if tt.expectAll {
				assert.Equal(t, catalog.AllDocumentTypes, output.Documents)
			} else {
				assert.Contains(t, output.Documents, tt.contains)
				assert.Less(t, len(output.Documents), len(catalog.AllDocumentTypes))
			}
			assert.Len(t, output.Missing, tt.missingCount)
			for _, owned := range tt.input.DocumentsOwned {
				assert.NotContains(t, output.Missing, owned)
			}
		})
	}
}
