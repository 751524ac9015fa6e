package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/influencer-cli/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestCreateAndGetRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateRun(ctx, []string{"art", "food"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, model.RunStatusRunning, created.Status)

	got, err := s.GetRun(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, []string{"art", "food"}, got.Topics)
	assert.Equal(t, model.RunStatusRunning, got.Status)
	assert.Empty(t, got.Counts)
}

func TestCompleteRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateRun(ctx, []string{"art"})
	require.NoError(t, err)

	counts := []model.TopicCount{{Topic: "art", Profiles: 5, WithEmail: 2}}
	outputs := []string{"output/topic_art.csv", "output/all_topics.csv"}
	require.NoError(t, s.CompleteRun(ctx, created.ID, model.RunStatusComplete, counts, outputs))

	got, err := s.GetRun(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	assert.Equal(t, counts, got.Counts)
	assert.Equal(t, outputs, got.Outputs)
}

func TestCompleteRun_NotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.CompleteRun(context.Background(), "missing-id", model.RunStatusComplete, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.CreateRun(ctx, []string{"art"})
	require.NoError(t, err)
	_, err = s.CreateRun(ctx, []string{"food"})
	require.NoError(t, err)

	require.NoError(t, s.CompleteRun(ctx, first.ID, model.RunStatusComplete, nil, nil))

	all, err := s.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	complete, err := s.ListRuns(ctx, RunFilter{Status: model.RunStatusComplete})
	require.NoError(t, err)
	require.Len(t, complete, 1)
	assert.Equal(t, first.ID, complete[0].ID)

	limited, err := s.ListRuns(ctx, RunFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestGetRun_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetRun(context.Background(), "nope")
	require.Error(t, err)
}
