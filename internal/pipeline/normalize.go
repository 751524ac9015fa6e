package pipeline

import (
	_ "embed"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/influencer-cli/internal/model"
	"github.com/sells-group/influencer-cli/internal/record"
	"github.com/sells-group/influencer-cli/pkg/apify"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// FieldRule resolves one canonical field through ordered fallback paths.
type FieldRule struct {
	Kind  string   `yaml:"kind"` // "string" or "count"
	Paths []string `yaml:"paths"`
}

// Rules is the normalization rule table. It is data rather than code so
// a new upstream shape is handled by appending paths, not by branching.
type Rules struct {
	Fields map[string]FieldRule `yaml:"fields"`
}

// DefaultRules parses the embedded rule table.
func DefaultRules() (*Rules, error) {
	var rules Rules
	if err := yaml.Unmarshal(defaultRulesYAML, &rules); err != nil {
		return nil, eris.Wrap(err, "normalize: parse rule table")
	}
	for name, rule := range rules.Fields {
		if len(rule.Paths) == 0 {
			return nil, eris.Errorf("normalize: rule %s has no paths", name)
		}
	}
	return &rules, nil
}

// Normalizer maps heterogeneous raw records into canonical profiles.
type Normalizer struct {
	rules *Rules
}

// NewNormalizer creates a Normalizer with the given rule table.
func NewNormalizer(rules *Rules) *Normalizer {
	return &Normalizer{rules: rules}
}

// Normalize converts raw records into profiles, preserving input order.
// Records without a resolvable username are dropped with a notice, not an
// error. Email fields are always left unset here: extraction belongs to
// the filter stage even though the bio is already visible.
func (n *Normalizer) Normalize(records []apify.RawRecord, topic string) ([]model.Profile, []Notice) {
	var profiles []model.Profile
	var notices []Notice

	for i, rec := range records {
		username := n.resolveString(rec, "username")
		if username == "" {
			zap.L().Debug("normalize: dropping record without username",
				zap.String("topic", topic),
				zap.Int("index", i),
			)
			notices = append(notices, Notice{
				Kind:   NoticeRecordSkipped,
				Topic:  topic,
				Detail: fmt.Sprintf("profile record %d has no resolvable username", i),
			})
			continue
		}

		profiles = append(profiles, model.Profile{
			Topic:      topic,
			Username:   username,
			ProfileURL: model.URLFor(username),
			Followers:  n.resolveCount(rec, "followers"),
			Likes:      n.resolveCount(rec, "likes"),
			Following:  n.resolveCount(rec, "following"),
			Friends:    n.resolveCount(rec, "friends"),
			VideoCount: n.resolveCount(rec, "video_count"),
			Bio:        n.resolveString(rec, "bio"),
			Email:      "",
			HasEmail:   false,
		})
	}

	zap.L().Info("normalize: processed records",
		zap.String("topic", topic),
		zap.Int("records", len(records)),
		zap.Int("profiles", len(profiles)),
	)
	return profiles, notices
}

func (n *Normalizer) resolveString(rec apify.RawRecord, field string) string {
	rule, ok := n.rules.Fields[field]
	if !ok {
		return ""
	}
	return record.FirstString(rec, rule.Paths...)
}

func (n *Normalizer) resolveCount(rec apify.RawRecord, field string) int {
	rule, ok := n.rules.Fields[field]
	if !ok {
		return 0
	}
	return record.FirstCount(rec, rule.Paths...)
}
