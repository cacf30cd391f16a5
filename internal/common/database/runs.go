// internal/common/database/runs.go
package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const runsSchema = `
CREATE TABLE IF NOT EXISTS generation_runs (
	id                   UUID PRIMARY KEY,
	task_type            TEXT NOT NULL,
	job_key              BIGINT NOT NULL,
	process_instance_key BIGINT NOT NULL,
	status               TEXT NOT NULL,
	error_code           TEXT,
	artifact_keys        JSONB NOT NULL DEFAULT '[]',
	duration_ms          BIGINT NOT NULL,
	created_at           TIMESTAMPTZ NOT NULL
)`

// Run statuses.
const (
	RunSucceeded = "succeeded"
	RunFailed    = "failed"
)

// Run is one studio job execution. It never carries prompts, artifact bytes
// or locators; artifacts are referenced by their store key only.
type Run struct {
	TaskType           string
	JobKey             int64
	ProcessInstanceKey int64
	Status             string
	ErrorCode          string
	ArtifactKeys       []string
	Duration           time.Duration
}

// RunLedger appends job outcomes to generation_runs.
type RunLedger struct {
	db  *sql.DB
	now func() time.Time
}

func NewRunLedger(db *sql.DB) *RunLedger {
	return &RunLedger{db: db, now: time.Now}
}

// Record inserts run and returns its generated id.
func (l *RunLedger) Record(ctx context.Context, run Run) (string, error) {
	keys := run.ArtifactKeys
	if keys == nil {
		keys = []string{}
	}
	keysJSON, err := json.Marshal(keys)
	if err != nil {
		return "", fmt.Errorf("marshal artifact keys: %w", err)
	}

	var errorCode sql.NullString
	if run.ErrorCode != "" {
		errorCode = sql.NullString{String: run.ErrorCode, Valid: true}
	}

	id := uuid.New().String()
	_, err = l.db.ExecContext(ctx, `
		INSERT INTO generation_runs (
			id, task_type, job_key, process_instance_key,
			status, error_code, artifact_keys, duration_ms, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id,
		run.TaskType,
		run.JobKey,
		run.ProcessInstanceKey,
		run.Status,
		errorCode,
		keysJSON,
		run.Duration.Milliseconds(),
		l.now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("insert generation run: %w", err)
	}
	return id, nil
}
