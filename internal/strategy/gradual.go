package strategy

import (
	"math/rand"
	"strconv"

	"github.com/OrlandoBitencourt/banderole/internal/domain"
	"github.com/OrlandoBitencourt/banderole/internal/hash"
)

type identityField int

const (
	identityUserID identityField = iota
	identitySessionID
)

// parsePercentage parses a rollout percentage parameter. Only
// canonical base-10 integers in [0, 100] are accepted: "foo", "09",
// "+10", "" and out-of-range values all fail closed.
func parsePercentage(value string) (int, bool) {
	p, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	if strconv.Itoa(p) != value {
		return 0, false
	}
	if p < 0 || p > 100 {
		return 0, false
	}
	return p, true
}

// gradualRolloutStrategy implements the identity-sticky percentage
// rollouts (gradualRolloutUserId, gradualRolloutSessionId). The same
// identity keeps the same bucket as the percentage grows.
type gradualRolloutStrategy struct {
	name     string
	identity identityField
}

func (s *gradualRolloutStrategy) Name() string {
	return s.name
}

func (s *gradualRolloutStrategy) IsEnabled(parameters map[string]string, ctx domain.Context) bool {
	percentage, ok := parsePercentage(parameters[ParamPercentage])
	if !ok {
		return false
	}

	var identity string
	switch s.identity {
	case identityUserID:
		identity = ctx.UserID
	case identitySessionID:
		identity = ctx.SessionID
	}
	if identity == "" {
		// No identity means no stable bucket to compare against
		return false
	}

	return hash.Bucket(identity, parameters[ParamGroupID]) < percentage
}

// gradualRolloutRandomStrategy re-randomizes on every call. 0% never
// enables and 100% always enables; anything in between is an
// independent draw per evaluation.
type gradualRolloutRandomStrategy struct{}

func (s *gradualRolloutRandomStrategy) Name() string {
	return NameGradualRolloutRandom
}

func (s *gradualRolloutRandomStrategy) IsEnabled(parameters map[string]string, _ domain.Context) bool {
	percentage, ok := parsePercentage(parameters[ParamPercentage])
	if !ok {
		return false
	}
	return rand.Intn(100) < percentage
}
