package pipeline

import (
	"context"

	"github.com/sells-group/influencer-cli/pkg/apify"
)

// mockRunner implements ActorRunner with per-actor canned responses.
type mockRunner struct {
	fetchFunc func(ctx context.Context, actorID string, input any, limit int) ([]apify.RawRecord, error)
	calls     []string
}

func (m *mockRunner) Fetch(ctx context.Context, actorID string, input any, limit int) ([]apify.RawRecord, error) {
	m.calls = append(m.calls, actorID)
	return m.fetchFunc(ctx, actorID, input, limit)
}
