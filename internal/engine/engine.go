// Package engine implements the toggle evaluation engine: strategy
// resolution, centralized constraint checking and weighted variant
// selection. Evaluation is a pure function of (definition, context);
// it performs no I/O and never mutates the definition.
package engine

import (
	"sync"

	"github.com/OrlandoBitencourt/banderole/internal/domain"
	"github.com/OrlandoBitencourt/banderole/internal/strategy"
	"github.com/expr-lang/expr/vm"
)

// Engine evaluates feature definitions against contexts. It is safe
// for concurrent use; the only mutable state is an internal cache of
// compiled match expressions.
type Engine struct {
	registry *strategy.Registry

	// Compiled STR_MATCHES programs, keyed by pattern
	programs sync.Map // string -> *vm.Program
}

// New creates an evaluation engine backed by the given registry.
func New(registry *strategy.Registry) *Engine {
	return &Engine{registry: registry}
}

// Evaluate decides whether the feature is enabled for the context and,
// when enabled, resolves its variant.
//
// With no strategies configured the master Enabled flag decides alone.
// Otherwise the feature is enabled iff the master flag is set and at
// least one strategy matches (logical OR, short-circuiting on the
// first match). A strategy matches iff all of its constraints hold and
// its own predicate passes. Unknown strategy names and malformed
// parameters count as non-matching, never as failures.
func (e *Engine) Evaluate(feature *domain.FeatureDefinition, ctx domain.Context) domain.EvaluationResult {
	result := domain.EvaluationResult{FeatureName: feature.Name}

	if !feature.Enabled {
		result.Reason = domain.ReasonDisabled
		return result
	}

	if len(feature.Strategies) == 0 {
		result.Enabled = true
		result.Reason = domain.ReasonNoStrategies
		result.Variant = e.resolveVariant(feature, ctx)
		return result
	}

	for _, cfg := range feature.Strategies {
		if !e.strategyMatches(feature, cfg, ctx) {
			continue
		}
		result.Enabled = true
		result.Strategy = cfg.Name
		result.Reason = domain.ReasonStrategyMatch
		result.Variant = e.resolveVariant(feature, ctx)
		return result
	}

	result.Reason = domain.ReasonNoMatch
	return result
}

// strategyMatches evaluates a single strategy configuration:
// constraints first (AND), then the named strategy's predicate.
func (e *Engine) strategyMatches(feature *domain.FeatureDefinition, cfg domain.StrategyConfig, ctx domain.Context) bool {
	impl, ok := e.registry.Lookup(cfg.Name)
	if !ok {
		// Unknown strategy fails closed without aborting siblings
		return false
	}

	for _, constraint := range cfg.Constraints {
		if !e.matchConstraint(constraint, ctx) {
			return false
		}
	}

	return impl.IsEnabled(e.strategyParameters(feature, cfg), ctx)
}

// strategyParameters returns the parameters handed to the strategy.
// flexibleRollout buckets within its groupId; when the configuration
// omits that parameter the toggle name is used, so buckets stay stable
// per feature.
func (e *Engine) strategyParameters(feature *domain.FeatureDefinition, cfg domain.StrategyConfig) map[string]string {
	if cfg.Name != strategy.NameFlexibleRollout || cfg.Parameters[strategy.ParamGroupID] != "" {
		return cfg.Parameters
	}

	params := make(map[string]string, len(cfg.Parameters)+1)
	for k, v := range cfg.Parameters {
		params[k] = v
	}
	params[strategy.ParamGroupID] = feature.Name
	return params
}

// cachedProgram returns the compiled expression for a STR_MATCHES
// pattern, compiling it at most once per engine.
func (e *Engine) cachedProgram(pattern string, compile func() (*vm.Program, error)) (*vm.Program, bool) {
	if cached, ok := e.programs.Load(pattern); ok {
		if cached == nil {
			return nil, false
		}
		return cached.(*vm.Program), true
	}

	program, err := compile()
	if err != nil {
		// Remember the failure so a bad pattern compiles only once
		e.programs.Store(pattern, nil)
		return nil, false
	}
	e.programs.Store(pattern, program)
	return program, true
}
