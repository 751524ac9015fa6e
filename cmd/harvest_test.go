package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/influencer-cli/internal/model"
	"github.com/sells-group/influencer-cli/internal/pipeline"
)

func TestSummarize(t *testing.T) {
	result := &pipeline.Result{
		Topics: map[string][]model.Profile{
			"art": {
				{Username: "a", Email: "a@example.com", HasEmail: true},
				{Username: "b"},
			},
			"dance": {},
		},
		Outputs: []string{"output/topic_art.csv", "output/all_topics.csv"},
		Notices: []pipeline.Notice{{Kind: pipeline.NoticeEmptyStage, Topic: "dance"}},
	}

	summary := summarize([]string{"art", "dance"}, result)

	require.Len(t, summary.Topics, 2)
	assert.Equal(t, topicSummary{Topic: "art", Profiles: 2, WithEmail: 1}, summary.Topics[0])
	assert.Equal(t, topicSummary{Topic: "dance", Profiles: 0, WithEmail: 0}, summary.Topics[1])
	assert.Equal(t, 2, summary.TotalProfiles)
	assert.Equal(t, 1, summary.TotalWithEmail)
	assert.Equal(t, result.Outputs, summary.Outputs)
	assert.Len(t, summary.Notices, 1)
}

func TestSummarize_EmptyResult(t *testing.T) {
	summary := summarize(nil, &pipeline.Result{Topics: map[string][]model.Profile{}})
	assert.Empty(t, summary.Topics)
	assert.Zero(t, summary.TotalProfiles)
	assert.Zero(t, summary.TotalWithEmail)
}
