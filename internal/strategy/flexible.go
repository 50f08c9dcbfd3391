package strategy

import (
	"github.com/OrlandoBitencourt/banderole/internal/domain"
	"github.com/OrlandoBitencourt/banderole/internal/hash"
)

// Stickiness values understood by flexibleRollout and by variant
// selection.
const (
	StickinessDefault   = "default"
	StickinessUserID    = domain.FieldUserID
	StickinessSessionID = domain.FieldSessionID
	StickinessRandom    = "random"
)

// flexibleRolloutStrategy is the percentage rollout with configurable
// stickiness. "default" stickiness tries userId, then sessionId, then
// a per-call random draw. The groupId parameter scopes the bucket; the
// engine fills it with the toggle name when the configuration omits it.
type flexibleRolloutStrategy struct{}

func (s *flexibleRolloutStrategy) Name() string {
	return NameFlexibleRollout
}

func (s *flexibleRolloutStrategy) IsEnabled(parameters map[string]string, ctx domain.Context) bool {
	percentage, ok := parsePercentage(parameters[ParamRollout])
	if !ok {
		return false
	}

	identity := ResolveIdentity(parameters[ParamStickiness], ctx)
	// An empty identity makes hash.Bucket draw randomly for this call.
	return hash.Bucket(identity, parameters[ParamGroupID]) < percentage
}

// ResolveIdentity resolves the bucketing identity for a stickiness
// setting. An empty result means "no stable identity": the bucketing
// layer falls back to a per-call random draw.
func ResolveIdentity(stickiness string, ctx domain.Context) string {
	switch stickiness {
	case "", StickinessDefault:
		if ctx.UserID != "" {
			return ctx.UserID
		}
		return ctx.SessionID
	case StickinessRandom:
		return ""
	default:
		v, _ := ctx.Field(stickiness)
		return v
	}
}
