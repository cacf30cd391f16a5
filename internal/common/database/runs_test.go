package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLedger(t *testing.T) (*RunLedger, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ledger := NewRunLedger(db)
	ledger.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return ledger, mock
}

func TestRunLedger_RecordSuccess(t *testing.T) {
	ledger, mock := newLedger(t)

	mock.ExpectExec(`INSERT INTO generation_runs`).
		WithArgs(
			sqlmock.AnyArg(), // id
			"generate-garment-asset",
			int64(42),
			int64(7),
			RunSucceeded,
			sql.NullString{},
			[]byte(`["artifact:abc"]`),
			int64(1500),
			time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	id, err := ledger.Record(context.Background(), Run{
		TaskType:           "generate-garment-asset",
		JobKey:             42,
		ProcessInstanceKey: 7,
		Status:             RunSucceeded,
		ArtifactKeys:       []string{"artifact:abc"},
		Duration:           1500 * time.Millisecond,
	})

	require.NoError(t, err)
	_, parseErr := uuid.Parse(id)
	assert.NoError(t, parseErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunLedger_RecordFailureKeepsErrorCode(t *testing.T) {
	ledger, mock := newLedger(t)

	mock.ExpectExec(`INSERT INTO generation_runs`).
		WithArgs(
			sqlmock.AnyArg(),
			"generate-design",
			int64(1),
			int64(2),
			RunFailed,
			sql.NullString{String: "DESIGN_GENERATION_FAILED", Valid: true},
			[]byte(`[]`),
			int64(0),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	_, err := ledger.Record(context.Background(), Run{
		TaskType:           "generate-design",
		JobKey:             1,
		ProcessInstanceKey: 2,
		Status:             RunFailed,
		ErrorCode:          "DESIGN_GENERATION_FAILED",
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunLedger_RecordInsertError(t *testing.T) {
	ledger, mock := newLedger(t)

	mock.ExpectExec(`INSERT INTO generation_runs`).
		WillReturnError(errors.New("connection refused"))

	id, err := ledger.Record(context.Background(), Run{TaskType: "transcribe-audio", Status: RunSucceeded})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insert generation run")
	assert.Empty(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}
