package camunda

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "costume-studio/internal/common/errors"
)

func newTestClient(maxRetries int) *Client {
	return &Client{config: &ClientConfig{
		RetryConfig: &RetryConfig{
			MaxRetries: maxRetries,
			BaseDelay:  time.Millisecond,
			MaxDelay:   2 * time.Millisecond,
		},
	}}
}

func TestExecuteWithRetry_RetriesTransientErrors(t *testing.T) {
	c := newTestClient(3)
	calls := 0

	result, err := c.ExecuteWithRetry(context.Background(), func(context.Context) (interface{}, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("rpc error: code = Unavailable desc = connection refused")
		}
		return int64(42), nil
	}, "create instance")

	require.NoError(t, err)
	assert.Equal(t, int64(42), result)
	assert.Equal(t, 3, calls)
}

func TestExecuteWithRetry_StopsOnPermanentError(t *testing.T) {
	c := newTestClient(3)
	calls := 0

	_, err := c.ExecuteWithRetry(context.Background(), func(context.Context) (interface{}, error) {
		calls++
		return nil, errors.New("rpc error: code = NotFound desc = process 'costume-look' not found")
	}, "create instance")

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestExecuteWithRetry_ExhaustsRetries(t *testing.T) {
	c := newTestClient(2)
	calls := 0

	_, err := c.ExecuteWithRetry(context.Background(), func(context.Context) (interface{}, error) {
		calls++
		return nil, errors.New("broken pipe")
	}, "create instance")

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, apperrors.ErrTransport)
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestExecuteWithRetry_HonoursCancellation(t *testing.T) {
	c := &Client{config: &ClientConfig{RetryConfig: &RetryConfig{
		MaxRetries: 5,
		BaseDelay:  time.Hour,
		MaxDelay:   time.Hour,
	}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ExecuteWithRetry(ctx, func(context.Context) (interface{}, error) {
		return nil, errors.New("unavailable")
	}, "create instance")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestMapZeebeError(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want error
	}{
		{"deadline", "context deadline exceeded", context.DeadlineExceeded},
		{"timeout", "request timeout", context.DeadlineExceeded},
		{"not found", "process not found", apperrors.ErrInvalidInput},
		{"invalid", "invalid variables document", apperrors.ErrInvalidInput},
		{"other", "resource exhausted", apperrors.ErrTransport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapZeebeError(errors.New(tt.msg), "op", 0)
			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "zeebe operation 'op' failed")
		})
	}
}

func TestIsRetryableZeebeError(t *testing.T) {
	assert.True(t, isRetryableZeebeError(errors.New("Connection Reset by peer")))
	assert.True(t, isRetryableZeebeError(errors.New("code = Unavailable")))
	assert.False(t, isRetryableZeebeError(errors.New("process not found")))
}

func TestRetryConfig_BackoffCaps(t *testing.T) {
	r := &RetryConfig{BaseDelay: time.Second, MaxDelay: 5 * time.Second}
	assert.Equal(t, time.Second, r.backoff(0))
	assert.Equal(t, 4*time.Second, r.backoff(2))
	assert.Equal(t, 5*time.Second, r.backoff(3))
	assert.Equal(t, 5*time.Second, r.backoff(62))
}
