package pipeline

import (
	"go.uber.org/zap"

	"github.com/sells-group/influencer-cli/internal/email"
	"github.com/sells-group/influencer-cli/internal/model"
)

// EmailFilter derives email fields from bios and optionally drops
// profiles without one.
type EmailFilter struct{}

// NewEmailFilter creates an EmailFilter.
func NewEmailFilter() *EmailFilter {
	return &EmailFilter{}
}

// Apply recomputes Email and HasEmail from each profile's bio, always
// overwriting whatever a caller pre-populated. With requireEmail set,
// only profiles with an extracted address survive; order is preserved
// either way and bios are never modified. After Apply, HasEmail equals
// Email != "" for every returned profile.
func (f *EmailFilter) Apply(profiles []model.Profile, requireEmail bool) []model.Profile {
	if len(profiles) == 0 {
		return nil
	}

	filtered := make([]model.Profile, 0, len(profiles))
	for _, p := range profiles {
		p.Email = email.Extract(p.Bio)
		p.HasEmail = p.Email != ""

		if requireEmail && !p.HasEmail {
			continue
		}
		filtered = append(filtered, p)
	}

	zap.L().Info("filter: applied email filter",
		zap.Bool("require_email", requireEmail),
		zap.Int("in", len(profiles)),
		zap.Int("out", len(filtered)),
	)
	return filtered
}
