package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var taskTypes = []string{
	"find-eligible-schemes",
	"save-user-profile",
	"manage-scheme",
	"search-schemes",
	"list-relevant-documents",
	"track-application",
	"update-application-status",
	"list-tracked-applications",
	"notify-application-status",
	"build-analytics-report",
}

func TestLoadRegistry_ShippedFile(t *testing.T) {
	reg, err := LoadRegistry(filepath.Join("..", "..", "configs", "activity-registry.json"))
	require.NoError(t, err)
	require.NoError(t, reg.Validate())

	assert.Empty(t, reg.Missing(taskTypes))
	for _, taskType := range taskTypes {
		a, ok := reg.Find(taskType)
		require.True(t, ok, taskType)
		assert.NotEmpty(t, a.ErrorCodes, taskType)
		assert.NotEmpty(t, a.InputSchema, taskType)
	}
}

func TestRegistry_Missing(t *testing.T) {
	reg := &ActivityRegistry{Activities: []Activity{{ID: "a", TaskType: "search-schemes"}}}
	assert.Equal(t, []string{"manage-scheme", "track-application"},
		reg.Missing([]string{"track-application", "search-schemes", "manage-scheme"}))
}

func TestRegistry_Validate(t *testing.T) {
	tests := []struct {
		name       string
		activities []Activity
		wantErr    string
	}{
		{name: "valid", activities: []Activity{{ID: "a", TaskType: "x"}, {ID: "b", TaskType: "y"}}},
		{name: "missing task type", activities: []Activity{{ID: "a"}}, wantErr: "required"},
		{name: "duplicate id", activities: []Activity{{ID: "a", TaskType: "x"}, {ID: "a", TaskType: "y"}}, wantErr: "duplicate activity id"},
		{name: "duplicate task type", activities: []Activity{{ID: "a", TaskType: "x"}, {ID: "b", TaskType: "x"}}, wantErr: "duplicate task type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&ActivityRegistry{Activities: tt.activities}).Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadRegistry_Errors(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
	_, err = LoadRegistry(path)
	assert.ErrorContains(t, err, "parse registry")
}
