// Package strategy holds the activation-strategy capability and the
// name-keyed registry the evaluation engine resolves strategies
// through. Built-ins and caller-registered strategies implement the
// same interface; resolution is by name, never by type.
package strategy

import (
	"github.com/OrlandoBitencourt/banderole/internal/domain"
)

// Parameter names shared by the built-in strategies.
const (
	ParamPercentage = "percentage"
	ParamGroupID    = "groupId"
	ParamUserIDs    = "userIds"
	ParamIPs        = "IPs"
	ParamHostNames  = "hostNames"
	ParamRollout    = "rollout"
	ParamStickiness = "stickiness"
)

// Built-in strategy names.
const (
	NameDefault                 = "default"
	NameUserWithID              = "userWithId"
	NameGradualRolloutUserID    = "gradualRolloutUserId"
	NameGradualRolloutSessionID = "gradualRolloutSessionId"
	NameGradualRolloutRandom    = "gradualRolloutRandom"
	NameRemoteAddress           = "remoteAddress"
	NameApplicationHostname     = "applicationHostname"
	NameFlexibleRollout         = "flexibleRollout"
)

// Strategy decides whether a toggle is enabled for a context. It must
// be a pure function of its inputs: no hidden state, no I/O. Malformed
// parameters evaluate to false; a strategy never panics past the
// evaluation boundary.
type Strategy interface {
	// Name is the name the strategy is registered and resolved under.
	Name() string

	// IsEnabled evaluates the strategy's predicate for the given
	// configured parameters and evaluation context.
	IsEnabled(parameters map[string]string, ctx domain.Context) bool
}

// Registry maps strategy name to implementation. It is populated once
// at client construction and read-only afterwards; concurrent
// registration during evaluation is not supported.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry builds a registry holding the built-in strategies plus
// any custom ones. Registration order matters: a custom strategy with
// a built-in's name replaces the built-in (last registration wins).
// The hostname is resolved once by the caller and baked into the
// applicationHostname strategy.
func NewRegistry(hostname string, custom ...Strategy) *Registry {
	builtins := []Strategy{
		&defaultStrategy{},
		&userWithIDStrategy{},
		&gradualRolloutStrategy{name: NameGradualRolloutUserID, identity: identityUserID},
		&gradualRolloutStrategy{name: NameGradualRolloutSessionID, identity: identitySessionID},
		&gradualRolloutRandomStrategy{},
		&remoteAddressStrategy{},
		&applicationHostnameStrategy{hostname: hostname},
		&flexibleRolloutStrategy{},
	}

	r := &Registry{
		strategies: make(map[string]Strategy, len(builtins)+len(custom)),
	}
	for _, s := range builtins {
		r.strategies[s.Name()] = s
	}
	for _, s := range custom {
		r.strategies[s.Name()] = s
	}
	return r
}

// Lookup resolves a strategy by name.
func (r *Registry) Lookup(name string) (Strategy, bool) {
	s, ok := r.strategies[name]
	return s, ok
}

// Names returns the registered strategy names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	return names
}
