// Package store persists harvest run history.
package store

import (
	"context"

	"github.com/sells-group/influencer-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for harvest runs.
type Store interface {
	CreateRun(ctx context.Context, topics []string) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, status model.RunStatus, counts []model.TopicCount, outputs []string) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	Migrate(ctx context.Context) error
	Close() error
}
