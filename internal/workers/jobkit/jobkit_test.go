package jobkit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"costume-studio/internal/common/database"
	apperrors "costume-studio/internal/common/errors"
	"costume-studio/internal/common/logger"
	"costume-studio/internal/common/validation"
	"costume-studio/internal/models"
	"costume-studio/internal/workers/jobkit/jobkittest"
)

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) Record(ctx context.Context, run database.Run) (string, error) {
	args := m.Called(ctx, run)
	return args.String(0), args.Error(1)
}

type stubDownloader struct {
	data        []byte
	contentType string
	err         error
}

func (d stubDownloader) Download(context.Context, string) ([]byte, string, error) {
	return d.data, d.contentType, d.err
}

var testSchema = validation.JSONSchema{
	Type: "object",
	Properties: map[string]validation.Property{
		"name": validation.NonEmptyString("name"),
	},
	Required:             []string{"name"},
	AdditionalProperties: true,
}

type testInput struct {
	Name string `json:"name"`
}

func newJob(vars string) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                101,
		ProcessInstanceKey: 202,
		Type:               "test-task",
		Retries:            3,
		Variables:          vars,
	}}
}

func TestDecodeInput(t *testing.T) {
	var in testInput
	require.NoError(t, DecodeInput(`{"name":"cape","unrelated":true}`, testSchema, &in))
	assert.Equal(t, "cape", in.Name)

	err := DecodeInput(`{"name":""}`, testSchema, &in)
	assert.Equal(t, apperrors.ErrCodeValidationFailed, apperrors.CodeOf(err))

	err = DecodeInput(`not json`, testSchema, &in)
	assert.Equal(t, apperrors.ErrCodeInputParsingFailed, apperrors.CodeOf(err))

	err = DecodeInput(`null`, testSchema, &in)
	assert.Equal(t, apperrors.ErrCodeValidationFailed, apperrors.CodeOf(err))
}

func TestRunner_CompletesAndRecords(t *testing.T) {
	ledger := &mockLedger{}
	ledger.On("Record", mock.Anything, mock.MatchedBy(func(r database.Run) bool {
		return r.TaskType == "test-task" && r.Status == database.RunSucceeded &&
			r.JobKey == 101 && r.ProcessInstanceKey == 202 &&
			len(r.ArtifactKeys) == 1 && r.ErrorCode == ""
	})).Return("run-1", nil)

	runner := NewRunner("test-task", testSchema, time.Second, ledger, logger.NewTestLogger(t))
	client := jobkittest.NewJobClient()

	var in testInput
	err := runner.Run(client, newJob(`{"name":"cape"}`), &in, func(ctx context.Context) (*Result, error) {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return &Result{
			Variables:    map[string]interface{}{"greeting": "hello " + in.Name},
			ArtifactKeys: []string{"artifact:1"},
		}, nil
	})

	require.NoError(t, err)
	vars, err := client.Gateway.CompletedVariables()
	require.NoError(t, err)
	assert.Equal(t, "hello cape", vars["greeting"])
	assert.Empty(t, client.Gateway.Thrown)
	ledger.AssertExpectations(t)
}

func TestRunner_ThrowsClassifiedBPMNError(t *testing.T) {
	ledger := &mockLedger{}
	ledger.On("Record", mock.Anything, mock.MatchedBy(func(r database.Run) bool {
		return r.Status == database.RunFailed && r.ErrorCode == string(apperrors.ErrCodeDesignGenerationFailed)
	})).Return("run-2", nil)

	runner := NewRunner("test-task", testSchema, time.Second, ledger, logger.NewTestLogger(t))
	client := jobkittest.NewJobClient()

	var in testInput
	cause := fmt.Errorf("%w: %w", apperrors.ErrDesignGenerationFailed, apperrors.ErrMalformedOutput)
	err := runner.Run(client, newJob(`{"name":"cape"}`), &in, func(context.Context) (*Result, error) {
		return nil, cause
	})

	assert.ErrorIs(t, err, apperrors.ErrDesignGenerationFailed)
	assert.Empty(t, client.Gateway.Completed)
	require.Len(t, client.Gateway.Thrown, 1)

	thrown := client.Gateway.Thrown[0]
	assert.Equal(t, int64(101), thrown.JobKey)
	assert.Equal(t, "DESIGN_GENERATION_FAILED", thrown.ErrorCode)

	var vars map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(thrown.Variables), &vars))
	assert.Equal(t, []interface{}{"MALFORMED_OUTPUT"}, vars["errorCauses"])
	ledger.AssertExpectations(t)
}

func TestRunner_InvalidInputNeverExecutes(t *testing.T) {
	runner := NewRunner("test-task", testSchema, 0, nil, logger.NewTestLogger(t))
	client := jobkittest.NewJobClient()

	var in testInput
	err := runner.Run(client, newJob(`{"other":1}`), &in, func(context.Context) (*Result, error) {
		t.Fatal("execute must not run on invalid input")
		return nil, nil
	})

	assert.Error(t, err)
	require.Len(t, client.Gateway.Thrown, 1)
	assert.Equal(t, "INVALID_INPUT", client.Gateway.Thrown[0].ErrorCode)
}

func TestRunner_StoreOutageFailsWithRetries(t *testing.T) {
	runner := NewRunner("test-task", testSchema, 0, nil, logger.NewTestLogger(t))
	client := jobkittest.NewJobClient()

	var in testInput
	err := runner.Run(client, newJob(`{"name":"cape"}`), &in, func(context.Context) (*Result, error) {
		return nil, apperrors.NewArtifactStoreFailedError(errors.New("connection reset"))
	})

	assert.Error(t, err)
	assert.Empty(t, client.Gateway.Thrown)
	require.Len(t, client.Gateway.Failed, 1)
	assert.Equal(t, int32(2), client.Gateway.Failed[0].Retries)
}

func TestRunner_LedgerOutageDoesNotFailJob(t *testing.T) {
	ledger := &mockLedger{}
	ledger.On("Record", mock.Anything, mock.Anything).Return("", errors.New("db down"))

	runner := NewRunner("test-task", testSchema, 0, ledger, logger.NewTestLogger(t))
	client := jobkittest.NewJobClient()

	var in testInput
	err := runner.Run(client, newJob(`{"name":"cape"}`), &in, func(context.Context) (*Result, error) {
		return &Result{Variables: map[string]interface{}{"ok": true}}, nil
	})

	require.NoError(t, err)
	assert.Len(t, client.Gateway.Completed, 1)
	ledger.AssertExpectations(t)
}

func TestRunner_DiscardsArtifactsWhenCompletionFails(t *testing.T) {
	store := jobkittest.NewMemoryStore()
	runner := NewRunner("test-task", testSchema, 0, nil, logger.NewTestLogger(t)).WithStore(store)
	client := jobkittest.NewJobClient()
	client.Gateway.CompleteErr = errors.New("rpc error: code = NotFound desc = job not found")

	var in testInput
	err := runner.Run(client, newJob(`{"name":"cape"}`), &in, func(context.Context) (*Result, error) {
		key := store.Seed("image/png", []byte("cape"))
		return &Result{Variables: map[string]interface{}{"imageKey": key}, ArtifactKeys: []string{key}}, nil
	})

	assert.Error(t, err)
	assert.Zero(t, store.Len())
	assert.Empty(t, client.Gateway.Completed)
}

func TestRunner_KeepsArtifactsOnCompletion(t *testing.T) {
	store := jobkittest.NewMemoryStore()
	runner := NewRunner("test-task", testSchema, 0, nil, logger.NewTestLogger(t)).WithStore(store)
	client := jobkittest.NewJobClient()

	var in testInput
	err := runner.Run(client, newJob(`{"name":"cape"}`), &in, func(context.Context) (*Result, error) {
		key := store.Seed("image/png", []byte("cape"))
		return &Result{Variables: map[string]interface{}{"imageKey": key}, ArtifactKeys: []string{key}}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestStoreAndLoadLocator(t *testing.T) {
	store := jobkittest.NewMemoryStore()
	ctx := context.Background()

	locator := (&models.GeneratedArtifact{MediaType: "image/png", Data: []byte("png-bytes")}).Locator()
	key, err := StoreLocator(ctx, store, locator)
	require.NoError(t, err)

	loaded, err := LoadLocator(ctx, store, key)
	require.NoError(t, err)
	assert.Equal(t, locator, loaded)

	_, err = StoreLocator(ctx, store, "https://example.com/video.mp4")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = LoadLocator(ctx, store, "artifact:missing")
	assert.ErrorIs(t, err, apperrors.ErrArtifactNotFound)
}

func TestMaterialize(t *testing.T) {
	ctx := context.Background()

	inline := (&models.GeneratedArtifact{MediaType: "video/mp4", Data: []byte("mp4")}).Locator()
	art, err := Materialize(ctx, stubDownloader{err: errors.New("must not be called")}, inline, "video/mp4")
	require.NoError(t, err)
	assert.Equal(t, []byte("mp4"), art.Data)

	art, err = Materialize(ctx, stubDownloader{data: []byte("remote"), contentType: ""}, "https://example.com/v", "video/mp4")
	require.NoError(t, err)
	assert.Equal(t, "video/mp4", art.MediaType)

	_, err = Materialize(ctx, stubDownloader{err: errors.New("status 403")}, "https://example.com/v", "video/mp4")
	assert.ErrorIs(t, err, apperrors.ErrTransport)

	_, err = Materialize(ctx, stubDownloader{}, "https://example.com/v", "video/mp4")
	assert.ErrorIs(t, err, apperrors.ErrNoArtifactProduced)
}
