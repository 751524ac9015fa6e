package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sells-group/influencer-cli/internal/record"
	"github.com/sells-group/influencer-cli/pkg/apify"
)

// ActorRunner submits a remote job and returns its output records. It is
// satisfied by actor.Runner and mocked in tests.
type ActorRunner interface {
	Fetch(ctx context.Context, actorID string, input any, limit int) ([]apify.RawRecord, error)
}

// TopicResolver turns a topic (hashtag) into the set of author usernames
// behind its content.
type TopicResolver struct {
	runner         ActorRunner
	searchActor    string
	resultsPerPage int
}

// NewTopicResolver creates a TopicResolver using the given search actor.
func NewTopicResolver(runner ActorRunner, searchActor string, resultsPerPage int) *TopicResolver {
	return &TopicResolver{
		runner:         runner,
		searchActor:    searchActor,
		resultsPerPage: resultsPerPage,
	}
}

// Resolve searches one hashtag and collects the unique author usernames
// embedded in the resulting content records, in first-seen order. Records
// without an identifiable author are skipped. A failed or empty search
// yields an empty slice plus a notice, never an error.
func (r *TopicResolver) Resolve(ctx context.Context, topic string) ([]string, []Notice) {
	input := map[string]any{
		"hashtags":             []string{topic},
		"resultsPerPage":       r.resultsPerPage,
		"proxyCountryCode":     "None",
		"shouldDownloadVideos": false,
	}

	records, err := r.runner.Fetch(ctx, r.searchActor, input, 0)
	if err != nil {
		zap.L().Warn("topics: hashtag search yielded no records",
			zap.String("topic", topic),
			zap.Error(err),
		)
		return nil, []Notice{{
			Kind:   NoticeJobFailed,
			Topic:  topic,
			Detail: fmt.Sprintf("hashtag search: %v", err),
		}}
	}

	var notices []Notice
	seen := make(map[string]struct{}, len(records))
	var usernames []string

	for i, rec := range records {
		username := record.FirstString(rec, "authorMeta.name")
		if username == "" {
			zap.L().Debug("topics: record has no author",
				zap.String("topic", topic),
				zap.Int("index", i),
			)
			notices = append(notices, Notice{
				Kind:   NoticeRecordSkipped,
				Topic:  topic,
				Detail: fmt.Sprintf("content record %d has no author", i),
			})
			continue
		}
		if _, dup := seen[username]; dup {
			continue
		}
		seen[username] = struct{}{}
		usernames = append(usernames, username)
	}

	zap.L().Info("topics: resolved authors",
		zap.String("topic", topic),
		zap.Int("records", len(records)),
		zap.Int("unique_authors", len(usernames)),
	)
	return usernames, notices
}
