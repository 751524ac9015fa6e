// Package pipeline implements the harvest flow: topic search, profile
// retrieval, normalization, email filtering, and export.
package pipeline

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/influencer-cli/internal/config"
	"github.com/sells-group/influencer-cli/internal/model"
	"github.com/sells-group/influencer-cli/internal/store"
)

// Result is the outcome of one harvest invocation.
type Result struct {
	// Topics maps each requested topic to its filtered profiles. A topic
	// that failed or matched nothing maps to an empty slice.
	Topics map[string][]model.Profile `json:"topics"`

	// Notices aggregates stage diagnostics across all topics.
	Notices []Notice `json:"notices,omitempty"`

	// Outputs lists the files written, per-topic and combined.
	Outputs []string `json:"outputs,omitempty"`
}

// Pipeline orchestrates the harvest stages for a set of topics. Topics
// are processed strictly sequentially; one run owns its results mapping
// and keeps no state across invocations.
type Pipeline struct {
	cfg        *config.Config
	topics     *TopicResolver
	profiles   *ProfileResolver
	normalizer *Normalizer
	filter     *EmailFilter
	exporter   *Exporter
	store      store.Store // nil disables run history
}

// New creates a Pipeline. It fails when the actor API token is missing:
// nothing downstream can work without it, so the run is refused before
// any topic is attempted.
func New(cfg *config.Config, runner ActorRunner, st store.Store) (*Pipeline, error) {
	if cfg.Apify.Token == "" {
		return nil, eris.New("pipeline: apify token is not configured (set HARVEST_APIFY_TOKEN or apify.token)")
	}

	rules, err := DefaultRules()
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		cfg:        cfg,
		topics:     NewTopicResolver(runner, cfg.Apify.SearchActor, cfg.Search.ResultsPerHashtag),
		profiles:   NewProfileResolver(runner, cfg.Apify.ProfileActor),
		normalizer: NewNormalizer(rules),
		filter:     NewEmailFilter(),
		exporter:   NewExporter(cfg.Export.OutputDir),
		store:      st,
	}, nil
}

// Run harvests every topic in order and returns the per-topic filtered
// profiles. A topic yielding nothing at any stage short-circuits to an
// empty result without aborting the remaining topics. After all topics,
// the union of results is exported once as a combined file.
func (p *Pipeline) Run(ctx context.Context, topics []string) (*Result, error) {
	if len(topics) == 0 {
		zap.L().Warn("pipeline: no topics given")
		return &Result{Topics: map[string][]model.Profile{}}, nil
	}

	result := &Result{Topics: make(map[string][]model.Profile, len(topics))}

	var run *model.Run
	if p.store != nil {
		created, err := p.store.CreateRun(ctx, topics)
		if err != nil {
			zap.L().Warn("pipeline: could not record run", zap.Error(err))
			result.Notices = append(result.Notices, Notice{
				Kind:   NoticeStoreFailed,
				Detail: fmt.Sprintf("create run: %v", err),
			})
		} else {
			run = created
		}
	}

	var combined []model.Profile
	for _, topic := range topics {
		profiles, notices, output := p.harvestTopic(ctx, topic)
		result.Topics[topic] = profiles
		result.Notices = append(result.Notices, notices...)
		if output != "" {
			result.Outputs = append(result.Outputs, output)
		}
		combined = append(combined, profiles...)
	}

	if len(combined) > 0 {
		path, err := p.exporter.Export(combined, "all_topics", p.cfg.Export.Format)
		if err != nil {
			zap.L().Error("pipeline: combined export failed", zap.Error(err))
			result.Notices = append(result.Notices, Notice{
				Kind:   NoticeExportFailed,
				Detail: fmt.Sprintf("combined export: %v", err),
			})
		} else if path != "" {
			result.Outputs = append(result.Outputs, path)
		}
	}

	if p.store != nil && run != nil {
		counts := make([]model.TopicCount, 0, len(topics))
		for _, topic := range topics {
			profiles := result.Topics[topic]
			withEmail := 0
			for _, prof := range profiles {
				if prof.HasEmail {
					withEmail++
				}
			}
			counts = append(counts, model.TopicCount{Topic: topic, Profiles: len(profiles), WithEmail: withEmail})
		}
		if err := p.store.CompleteRun(context.WithoutCancel(ctx), run.ID, runStatus(ctx, topics, result.Notices), counts, result.Outputs); err != nil {
			zap.L().Warn("pipeline: could not complete run record", zap.Error(err))
			result.Notices = append(result.Notices, Notice{
				Kind:   NoticeStoreFailed,
				Detail: fmt.Sprintf("complete run: %v", err),
			})
		}
	}

	zap.L().Info("pipeline: harvest complete",
		zap.Int("topics", len(topics)),
		zap.Int("profiles", len(combined)),
	)
	return result, nil
}

// runStatus classifies a finished run. Cancellation mid-harvest, or
// every topic losing its remote jobs, is a failed run; a topic that
// merely matched nothing, or partial degradation, still completes.
func runStatus(ctx context.Context, topics []string, notices []Notice) model.RunStatus {
	if ctx.Err() != nil {
		return model.RunStatusFailed
	}

	failed := make(map[string]bool)
	for _, n := range notices {
		if n.Kind == NoticeJobFailed {
			failed[n.Topic] = true
		}
	}
	for _, topic := range topics {
		if !failed[topic] {
			return model.RunStatusComplete
		}
	}
	return model.RunStatusFailed
}

// harvestTopic runs the four stages for one topic and returns its
// filtered profiles, diagnostics, and the per-topic export path. Every
// early return is an empty result for the topic, never an error:
// siblings must proceed.
func (p *Pipeline) harvestTopic(ctx context.Context, topic string) ([]model.Profile, []Notice, string) {
	log := zap.L().With(zap.String("topic", topic))
	log.Info("pipeline: harvesting topic")

	var notices []Notice

	usernames, topicNotices := p.topics.Resolve(ctx, topic)
	notices = append(notices, topicNotices...)
	if len(usernames) == 0 {
		log.Warn("pipeline: no authors found")
		notices = append(notices, Notice{Kind: NoticeEmptyStage, Topic: topic, Detail: "no authors found"})
		return nil, notices, ""
	}

	if limit := p.cfg.Search.MaxProfilesPerTopic; limit > 0 && len(usernames) > limit {
		log.Info("pipeline: truncating author list",
			zap.Int("from", len(usernames)),
			zap.Int("to", limit),
		)
		usernames = usernames[:limit]
	}

	records, fetchNotices := p.profiles.Fetch(ctx, topic, usernames)
	notices = append(notices, fetchNotices...)
	if len(records) == 0 {
		log.Warn("pipeline: no profile records retrieved")
		notices = append(notices, Notice{Kind: NoticeEmptyStage, Topic: topic, Detail: "no profile records retrieved"})
		return nil, notices, ""
	}

	profiles, normNotices := p.normalizer.Normalize(records, topic)
	notices = append(notices, normNotices...)

	filtered := p.filter.Apply(profiles, p.cfg.Filter.RequireEmail)
	if len(filtered) == 0 {
		log.Warn("pipeline: no profiles left after filtering")
		notices = append(notices, Notice{Kind: NoticeEmptyStage, Topic: topic, Detail: "no profiles after email filter"})
		return nil, notices, ""
	}

	path, err := p.exporter.Export(filtered, "topic_"+slugify(topic), p.cfg.Export.Format)
	if err != nil {
		log.Error("pipeline: topic export failed", zap.Error(err))
		notices = append(notices, Notice{
			Kind:   NoticeExportFailed,
			Topic:  topic,
			Detail: fmt.Sprintf("topic export: %v", err),
		})
	}

	log.Info("pipeline: topic complete",
		zap.Int("profiles", len(filtered)),
		zap.String("output", path),
	)
	return filtered, notices, path
}
