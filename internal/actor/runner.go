// Package actor submits jobs to the remote actor-execution service and
// retrieves the records they produce. It owns transport and polling
// semantics only; job payloads and record shapes belong to the caller.
package actor

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/influencer-cli/internal/config"
	"github.com/sells-group/influencer-cli/internal/resilience"
	"github.com/sells-group/influencer-cli/pkg/apify"
)

// Runner executes actor jobs: submit, wait for a terminal status, fetch
// the output dataset. Stateless between calls apart from the shared rate
// limiter that enforces a fixed delay between submissions.
type Runner struct {
	client       apify.Client
	limiter      *rate.Limiter
	pollInterval time.Duration
	waitTimeout  time.Duration
	retry        resilience.RetryConfig
}

// NewRunner creates a Runner from the actor API configuration.
func NewRunner(client apify.Client, cfg config.ApifyConfig) *Runner {
	delay := time.Duration(cfg.RequestDelaySecs) * time.Second
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}

	return &Runner{
		client:       client,
		limiter:      rate.NewLimiter(limit, 1),
		pollInterval: time.Duration(cfg.PollIntervalSecs) * time.Second,
		waitTimeout:  time.Duration(cfg.WaitTimeoutSecs) * time.Second,
		retry:        resilience.DefaultRetryConfig(),
	}
}

// Fetch submits an actor run with input, waits for it to finish, and
// returns its dataset items. A run that ends in a non-success terminal
// status, or that the client gives up waiting on, is reported as an
// error; callers are expected to downgrade that to "zero records" for
// the affected job rather than abort the whole harvest.
func (r *Runner) Fetch(ctx context.Context, actorID string, input any, limit int) ([]apify.RawRecord, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "actor: wait for request slot")
	}

	retry := r.retry
	retry.OnRetry = resilience.RetryLogger("apify", "start run")

	run, err := resilience.DoVal(ctx, retry, func(ctx context.Context) (*apify.Run, error) {
		return r.client.StartRun(ctx, actorID, input)
	})
	if err != nil {
		return nil, eris.Wrapf(err, "actor: submit %s", actorID)
	}

	zap.L().Debug("actor: run submitted",
		zap.String("actor", actorID),
		zap.String("run_id", run.ID),
	)

	finished, err := apify.PollRun(ctx, r.client, run.ID,
		apify.WithPollInterval(r.pollInterval),
		apify.WithPollTimeout(r.waitTimeout),
	)
	if err != nil {
		var termErr *apify.TerminalStatusError
		if errors.As(err, &termErr) {
			zap.L().Warn("actor: run ended without success",
				zap.String("actor", actorID),
				zap.String("run_id", run.ID),
				zap.String("status", string(termErr.Status)),
			)
		} else {
			// Client-side wait exceeded. The run id stays valid and the
			// remote run continues; giving up here trades completeness
			// for predictable latency.
			zap.L().Warn("actor: gave up waiting for run",
				zap.String("actor", actorID),
				zap.String("run_id", run.ID),
				zap.Error(err),
			)
		}
		return nil, err
	}

	if finished.DefaultDatasetID == "" {
		zap.L().Warn("actor: run has no output dataset",
			zap.String("actor", actorID),
			zap.String("run_id", run.ID),
		)
		return nil, nil
	}

	items, err := r.client.ListItems(ctx, finished.DefaultDatasetID, limit)
	if err != nil {
		return nil, eris.Wrapf(err, "actor: fetch records of run %s", run.ID)
	}

	zap.L().Info("actor: run complete",
		zap.String("actor", actorID),
		zap.String("run_id", run.ID),
		zap.Int("records", len(items)),
	)
	return items, nil
}
