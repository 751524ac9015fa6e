package apify

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient implements Client for poll tests.
type mockClient struct {
	getRunFunc func(ctx context.Context, runID string) (*Run, error)
}

func (m *mockClient) StartRun(context.Context, string, any) (*Run, error) {
	return nil, nil
}

func (m *mockClient) GetRun(ctx context.Context, runID string) (*Run, error) {
	return m.getRunFunc(ctx, runID)
}

func (m *mockClient) ListItems(context.Context, string, int) ([]RawRecord, error) {
	return nil, nil
}

func TestPollRun_SucceedsImmediately(t *testing.T) {
	mock := &mockClient{
		getRunFunc: func(ctx context.Context, runID string) (*Run, error) {
			return &Run{ID: runID, Status: StatusSucceeded, DefaultDatasetID: "ds-1"}, nil
		},
	}

	run, err := PollRun(context.Background(), mock, "run-1",
		WithPollInterval(5*time.Millisecond),
	)
	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, run.Status)
	assert.Equal(t, "ds-1", run.DefaultDatasetID)
}

func TestPollRun_SucceedsAfterPolls(t *testing.T) {
	var calls atomic.Int32
	mock := &mockClient{
		getRunFunc: func(ctx context.Context, runID string) (*Run, error) {
			if calls.Add(1) < 3 {
				return &Run{ID: runID, Status: StatusRunning}, nil
			}
			return &Run{ID: runID, Status: StatusSucceeded, DefaultDatasetID: "ds-2"}, nil
		},
	}

	run, err := PollRun(context.Background(), mock, "run-2",
		WithPollInterval(5*time.Millisecond),
	)
	require.NoError(t, err)
	assert.Equal(t, "ds-2", run.DefaultDatasetID)
	assert.Equal(t, int32(3), calls.Load())
}

func TestPollRun_TerminalFailure(t *testing.T) {
	for _, status := range []RunStatus{StatusFailed, StatusAborted, StatusTimedOut} {
		t.Run(string(status), func(t *testing.T) {
			mock := &mockClient{
				getRunFunc: func(ctx context.Context, runID string) (*Run, error) {
					return &Run{ID: runID, Status: status}, nil
				},
			}

			_, err := PollRun(context.Background(), mock, "run-3",
				WithPollInterval(5*time.Millisecond),
			)
			require.Error(t, err)

			var termErr *TerminalStatusError
			require.ErrorAs(t, err, &termErr)
			assert.Equal(t, status, termErr.Status)
			assert.Equal(t, "run-3", termErr.RunID)
		})
	}
}

func TestPollRun_DeadlineExpires(t *testing.T) {
	mock := &mockClient{
		getRunFunc: func(ctx context.Context, runID string) (*Run, error) {
			return &Run{ID: runID, Status: StatusRunning}, nil
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := PollRun(ctx, mock, "run-4",
		WithPollInterval(10*time.Millisecond),
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPollRun_DefaultTimeoutApplied(t *testing.T) {
	mock := &mockClient{
		getRunFunc: func(ctx context.Context, runID string) (*Run, error) {
			return &Run{ID: runID, Status: StatusRunning}, nil
		},
	}

	_, err := PollRun(context.Background(), mock, "run-5",
		WithPollInterval(5*time.Millisecond),
		WithPollTimeout(30*time.Millisecond),
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPollRun_TransportError(t *testing.T) {
	mock := &mockClient{
		getRunFunc: func(ctx context.Context, runID string) (*Run, error) {
			return nil, &APIError{StatusCode: 500, Body: "server error"}
		},
	}

	_, err := PollRun(context.Background(), mock, "run-6",
		WithPollInterval(5*time.Millisecond),
	)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 500, apiErr.StatusCode)
}
