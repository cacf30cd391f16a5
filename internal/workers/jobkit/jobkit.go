// Package jobkit is the plumbing shared by the studio task workers: input
// decoding against the registry schema, artifact hand-off, job completion,
// error reporting and the run ledger.
package jobkit

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"costume-studio/internal/common/database"
	apperrors "costume-studio/internal/common/errors"
	"costume-studio/internal/common/logger"
	"costume-studio/internal/common/metrics"
	"costume-studio/internal/common/validation"
	"costume-studio/internal/models"
)

// ArtifactStore is the hand-off store between tasks.
type ArtifactStore interface {
	Put(ctx context.Context, a *models.GeneratedArtifact) (string, error)
	Get(ctx context.Context, key string) (*models.GeneratedArtifact, error)
	Delete(ctx context.Context, key string) error
}

type RunRecorder interface {
	Record(ctx context.Context, run database.Run) (string, error)
}

// Result is what a task produces: the job variables to complete with and
// the keys of the artifacts it stored.
type Result struct {
	Variables    interface{}
	ArtifactKeys []string
}

type Runner struct {
	taskType string
	schema   validation.JSONSchema
	timeout  time.Duration
	ledger   RunRecorder
	store    ArtifactStore
	errors   *apperrors.ErrorHandler
	logger   logger.Logger
}

// NewRunner builds the runner for one task type. ledger may be nil.
func NewRunner(taskType string, schema validation.JSONSchema, timeout time.Duration, ledger RunRecorder, log logger.Logger) *Runner {
	log = log.WithFields(map[string]interface{}{"taskType": taskType})
	return &Runner{
		taskType: taskType,
		schema:   schema,
		timeout:  timeout,
		ledger:   ledger,
		errors:   apperrors.NewErrorHandler(log),
		logger:   log,
	}
}

// WithStore lets the runner discard the artifacts of a job it could not
// complete.
func (r *Runner) WithStore(store ArtifactStore) *Runner {
	r.store = store
	return r
}

func (r *Runner) Logger() logger.Logger {
	return r.logger
}

// Run decodes the job variables into input, executes the task and reports
// the outcome to the engine. The returned error is for instrumentation only;
// the job has already been completed or failed.
func (r *Runner) Run(client worker.JobClient, job entities.Job, input interface{}, execute func(ctx context.Context) (*Result, error)) error {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(r.taskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(r.taskType).Dec()

	r.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx := context.Background()
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var result *Result
	err := DecodeInput(job.Variables, r.schema, input)
	if err == nil {
		result, err = execute(ctx)
	}
	if err != nil {
		stdErr := r.errors.HandleJobError(context.Background(), client, job, err)
		metrics.WorkerJobsFailed.WithLabelValues(r.taskType, string(stdErr.Code)).Inc()
		r.record(job, database.RunFailed, string(stdErr.Code), nil, time.Since(start))
		return err
	}

	if err := r.complete(client, job, result.Variables); err != nil {
		r.discard(job, result.ArtifactKeys)
		return err
	}

	elapsed := time.Since(start)
	metrics.WorkerJobsCompleted.WithLabelValues(r.taskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(r.taskType).Observe(elapsed.Seconds())
	r.record(job, database.RunSucceeded, "", result.ArtifactKeys, elapsed)

	r.logger.Info("job completed", map[string]interface{}{
		"jobKey":      job.Key,
		"artifacts":   len(result.ArtifactKeys),
		"duration_ms": elapsed.Milliseconds(),
	})
	return nil
}

func (r *Runner) complete(client worker.JobClient, job entities.Job, variables interface{}) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(variables)
	if err != nil {
		r.logger.Error("Failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		r.errors.HandleJobError(context.Background(), client, job, apperrors.NewInputParsingFailedError(err))
		return err
	}

	if _, err := cmd.Send(context.Background()); err != nil {
		r.logger.Error("Failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return err
	}
	return nil
}

// discard drops artifacts no process variable will ever reference. The
// broker re-activates the job and it produces fresh ones.
func (r *Runner) discard(job entities.Job, keys []string) {
	if r.store == nil || len(keys) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, key := range keys {
		if err := r.store.Delete(ctx, key); err != nil {
			r.logger.Warn("Failed to discard artifact", map[string]interface{}{
				"jobKey":      job.Key,
				"artifactKey": key,
				"error":       err.Error(),
			})
		}
	}
}

// record appends to the run ledger. A ledger outage never fails the job.
func (r *Runner) record(job entities.Job, status, code string, keys []string, elapsed time.Duration) {
	if r.ledger == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := r.ledger.Record(ctx, database.Run{
		TaskType:           r.taskType,
		JobKey:             job.Key,
		ProcessInstanceKey: job.ProcessInstanceKey,
		Status:             status,
		ErrorCode:          code,
		ArtifactKeys:       keys,
		Duration:           elapsed,
	})
	if err != nil {
		r.logger.Warn("Failed to record generation run", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
	}
}

// DecodeInput validates the job variables against schema, then decodes them
// into out.
func DecodeInput(variables string, schema validation.JSONSchema, out interface{}) error {
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(variables), &raw); err != nil {
		return apperrors.NewInputParsingFailedError(err)
	}
	if raw == nil {
		raw = map[string]interface{}{}
	}

	if result := validation.ValidateInput(raw, schema); !result.Valid {
		return apperrors.NewValidationFailedError(strings.Join(result.GetErrorMessages(), "; "))
	}

	if err := json.Unmarshal([]byte(variables), out); err != nil {
		return apperrors.NewInputParsingFailedError(err)
	}
	return nil
}
