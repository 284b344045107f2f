// internal/workers/applications/list-tracked-applications/handler_test.go
package listtrackedapplications

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yogyatha-workers/internal/applications"
	apperrors "yogyatha-workers/internal/common/errors"
	"yogyatha-workers/internal/common/logger"
	"yogyatha-workers/internal/models"
)

var applicationColumns = []string{
	"id", "user_id", "scheme_id", "scheme_name", "scheme_icon",
	"application_date", "status", "application_number", "notes",
}

func setupHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewHandler(LoadConfig(), applications.NewRepository(db), logger.NewTestLogger(t)), mock
}

func TestHandler_Execute_ListByUser(t *testing.T) {
	h, mock := setupHandler(t)
	mock.ExpectQuery("SELECT id, user_id, scheme_id").
		WithArgs("ravi").
		WillReturnRows(sqlmock.NewRows(applicationColumns).
			AddRow("app-1", "ravi", "pm-kisan", []byte(`{"en":"PM Kisan"}`), "sparkles", "2025-03-04", "Applied", "", "").
			AddRow("app-2", "ravi", "ayushman", []byte(`{"en":"Ayushman Bharat"}`), "heart", "2025-03-09", "Approved", "AB-77", "card issued"))

	output, err := h.Execute(context.Background(), &Input{Username: "ravi"})
	require.NoError(t, err)
	assert.Equal(t, 2, output.Count)
	require.Len(t, output.Applications, 2)
	assert.Equal(t, "app-1", output.Applications[0].ID)
	assert.Equal(t, "PM Kisan", output.Applications[0].SchemeName[models.LanguageEN])
	assert.Equal(t, models.StatusApproved, output.Applications[1].Status)
	assert.Equal(t, "AB-77", output.Applications[1].ApplicationNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_NoApplications(t *testing.T) {
	h, mock := setupHandler(t)
	mock.ExpectQuery("SELECT id, user_id, scheme_id").
		WithArgs("meena").
		WillReturnRows(sqlmock.NewRows(applicationColumns))

	output, err := h.Execute(context.Background(), &Input{Username: "meena"})
	require.NoError(t, err)
	assert.Zero(t, output.Count)
	assert.NotNil(t, output.Applications)
	assert.Empty(t, output.Applications)
}

func TestHandler_Execute_SingleApplication(t *testing.T) {
	h, mock := setupHandler(t)
	mock.ExpectQuery("SELECT id, user_id, scheme_id").
		WithArgs("ravi", "app-2").
		WillReturnRows(sqlmock.NewRows(applicationColumns).
			AddRow("app-2", "ravi", "ayushman", []byte(`{"en":"Ayushman Bharat"}`), "heart", "2025-03-09", "In Review", "", ""))

	output, err := h.Execute(context.Background(), &Input{Username: "ravi", ApplicationID: "app-2"})
	require.NoError(t, err)
	assert.Equal(t, 1, output.Count)
	assert.Equal(t, "ayushman", output.Applications[0].SchemeID)
	assert.Equal(t, models.StatusInReview, output.Applications[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name      string
		input     *Input
		setupMock func(mock sqlmock.Sqlmock)
		code      apperrors.ErrorCode
	}{
		{
			name:  "missing username",
			input: &Input{},
			code:  apperrors.ErrCodeProfileNotFound,
		},
		{
			name:  "another user's application",
			input: &Input{Username: "meena", ApplicationID: "app-1"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT id, user_id, scheme_id").WillReturnError(sql.ErrNoRows)
			},
			code: apperrors.ErrCodeApplicationNotFound,
		},
		{
			name:  "list query fails",
			input: &Input{Username: "ravi"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT id, user_id, scheme_id").WillReturnError(errors.New("connection reset"))
			},
			code: apperrors.ErrCodeQueryExecutionFailed,
		},
		{
			name:  "list times out",
			input: &Input{Username: "ravi"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT id, user_id, scheme_id").WillReturnError(context.DeadlineExceeded)
			},
			code: apperrors.ErrCodeQueryTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mock := setupHandler(t)
			if tt.setupMock != nil {
				tt.setupMock(mock)
			}

			output, err := h.Execute(context.Background(), tt.input)
			assert.Nil(t, output)
			var stdErr *apperrors.StandardError
			require.True(t, errors.As(err, &stdErr))
			assert.Equal(t, tt.code, stdErr.Code)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
