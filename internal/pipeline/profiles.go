package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sells-group/influencer-cli/pkg/apify"
)

// ProfileResolver fetches detailed profile records for a set of usernames
// through the profile-detail actor.
type ProfileResolver struct {
	runner       ActorRunner
	profileActor string
}

// NewProfileResolver creates a ProfileResolver using the given actor.
func NewProfileResolver(runner ActorRunner, profileActor string) *ProfileResolver {
	return &ProfileResolver{runner: runner, profileActor: profileActor}
}

// Fetch retrieves one raw record per resolvable username. Job failure
// degrades to zero records plus a notice; an empty username list is a
// no-op.
func (r *ProfileResolver) Fetch(ctx context.Context, topic string, usernames []string) ([]apify.RawRecord, []Notice) {
	if len(usernames) == 0 {
		return nil, nil
	}

	input := map[string]any{
		"profiles":                      usernames,
		"resultsPerPage":                1,
		"shouldDownloadCovers":          false,
		"shouldDownloadSlideshowImages": false,
		"shouldDownloadSubtitles":       false,
		"shouldDownloadVideos":          false,
	}

	records, err := r.runner.Fetch(ctx, r.profileActor, input, 0)
	if err != nil {
		zap.L().Warn("profiles: detail fetch yielded no records",
			zap.String("topic", topic),
			zap.Int("usernames", len(usernames)),
			zap.Error(err),
		)
		return nil, []Notice{{
			Kind:   NoticeJobFailed,
			Topic:  topic,
			Detail: fmt.Sprintf("profile fetch: %v", err),
		}}
	}

	zap.L().Info("profiles: fetched detail records",
		zap.String("topic", topic),
		zap.Int("usernames", len(usernames)),
		zap.Int("records", len(records)),
	)
	return records, nil
}
