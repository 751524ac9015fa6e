package apify

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
)

const (
	defaultPollInterval = 5 * time.Second
	defaultPollTimeout  = 5 * time.Minute
)

// TerminalStatusError is returned when a run ends in a terminal state
// other than SUCCEEDED.
type TerminalStatusError struct {
	RunID  string
	Status RunStatus
}

func (e *TerminalStatusError) Error() string {
	return fmt.Sprintf("apify: run %s ended with status %s", e.RunID, e.Status)
}

// PollOption configures polling behavior.
type PollOption func(*pollConfig)

type pollConfig struct {
	interval time.Duration
	timeout  time.Duration
}

// WithPollInterval overrides the fixed poll interval.
func WithPollInterval(d time.Duration) PollOption {
	return func(c *pollConfig) {
		c.interval = d
	}
}

// WithPollTimeout overrides the default timeout, applied only when the
// parent context has no deadline of its own.
func WithPollTimeout(d time.Duration) PollOption {
	return func(c *pollConfig) {
		c.timeout = d
	}
}

// PollRun polls GetRun at a fixed interval until the run reaches a
// terminal status or the context expires. A deadline expiry means the
// client stopped waiting; the remote run continues and its id stays
// valid server-side.
func PollRun(ctx context.Context, client Client, runID string, opts ...PollOption) (*Run, error) {
	cfg := pollConfig{interval: defaultPollInterval, timeout: defaultPollTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}

	for {
		run, err := client.GetRun(ctx, runID)
		if err != nil {
			return nil, eris.Wrapf(err, "apify: poll run %s", runID)
		}

		if run.Status.Terminal() {
			if run.Status != StatusSucceeded {
				return nil, &TerminalStatusError{RunID: runID, Status: run.Status}
			}
			return run, nil
		}

		select {
		case <-ctx.Done():
			return nil, eris.Wrapf(ctx.Err(), "apify: wait for run %s", runID)
		case <-time.After(cfg.interval):
		}
	}
}
