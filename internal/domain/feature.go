package domain

import (
	"encoding/json"
	"fmt"
)

// FeatureSet is a complete, parsed feature-toggle document. It is the
// unit of publication: a fetch or bootstrap cycle produces a whole new
// FeatureSet, never a partial edit of an existing one.
type FeatureSet struct {
	Version  int                 `json:"version"`
	Features []FeatureDefinition `json:"features"`
}

// FeatureDefinition represents a single feature toggle with its
// activation strategies and variants. Definitions are immutable once
// constructed.
type FeatureDefinition struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Enabled     bool             `json:"enabled"`
	Strategies  []StrategyConfig `json:"strategies,omitempty"`
	Variants    []Variant        `json:"variants,omitempty"`
}

// StrategyConfig is one configured activation strategy on a toggle.
// The named strategy is resolved through the registry at evaluation
// time; constraints are applied centrally by the engine before the
// strategy's own predicate runs.
type StrategyConfig struct {
	Name        string            `json:"name"`
	Parameters  map[string]string `json:"parameters,omitempty"`
	Constraints []Constraint      `json:"constraints,omitempty"`
}

// Constraint is a context-attribute predicate attached to a strategy.
// All constraints on a strategy must hold (AND); Inverted negates the
// individual constraint's outcome.
type Constraint struct {
	ContextName     string   `json:"contextName"`
	Operator        Operator `json:"operator"`
	Values          []string `json:"values,omitempty"`
	Value           string   `json:"value,omitempty"`
	Inverted        bool     `json:"inverted,omitempty"`
	CaseInsensitive bool     `json:"caseInsensitive,omitempty"`
}

// Operator represents constraint operators
type Operator string

const (
	OperatorIn            Operator = "IN"
	OperatorNotIn         Operator = "NOT_IN"
	OperatorStrContains   Operator = "STR_CONTAINS"
	OperatorStrStartsWith Operator = "STR_STARTS_WITH"
	OperatorStrEndsWith   Operator = "STR_ENDS_WITH"
	OperatorStrMatches    Operator = "STR_MATCHES"
	OperatorNumEq         Operator = "NUM_EQ"
	OperatorNumGT         Operator = "NUM_GT"
	OperatorNumGTE        Operator = "NUM_GTE"
	OperatorNumLT         Operator = "NUM_LT"
	OperatorNumLTE        Operator = "NUM_LTE"
	OperatorDateAfter     Operator = "DATE_AFTER"
	OperatorDateBefore    Operator = "DATE_BEFORE"
)

// Variant is a named payload selected among a toggle's alternatives
// when the toggle is enabled. Selection is proportional to Weight;
// weights need not sum to 100.
type Variant struct {
	Name       string            `json:"name"`
	Weight     int               `json:"weight"`
	Payload    *Payload          `json:"payload,omitempty"`
	Overrides  []VariantOverride `json:"overrides,omitempty"`
	Stickiness string            `json:"stickiness,omitempty"`
}

// Payload is the opaque value carried by a variant.
type Payload struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// VariantOverride forces a variant for context values matching a
// field/value pair, bypassing weighted selection.
type VariantOverride struct {
	ContextName string   `json:"contextName"`
	Values      []string `json:"values"`
}

// ParseFeatureSet parses a feature-toggle document in the
// {version, features: [...]} schema. A parse or validation failure
// yields no FeatureSet at all, never a partial one.
func ParseFeatureSet(data []byte) (*FeatureSet, error) {
	var set FeatureSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, NewValidationErrorWithCause("failed to parse feature set", err)
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return &set, nil
}

// Validate validates the parsed feature set
func (s *FeatureSet) Validate() error {
	seen := make(map[string]bool, len(s.Features))
	for i, f := range s.Features {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("feature %d: %w", i, err)
		}
		if seen[f.Name] {
			return NewValidationError(fmt.Sprintf("duplicate feature name: %s", f.Name))
		}
		seen[f.Name] = true
	}
	return nil
}

// Validate validates the feature definition
func (f *FeatureDefinition) Validate() error {
	if f.Name == "" {
		return NewValidationError("feature name cannot be empty")
	}
	for i, v := range f.Variants {
		if v.Name == "" {
			return NewValidationError(fmt.Sprintf("feature %s: variant %d has no name", f.Name, i))
		}
		if v.Weight < 0 {
			return NewValidationError(fmt.Sprintf("feature %s: variant %s has negative weight", f.Name, v.Name))
		}
	}
	return nil
}

// TotalWeight returns the sum of the feature's variant weights.
func (f *FeatureDefinition) TotalWeight() int {
	total := 0
	for _, v := range f.Variants {
		total += v.Weight
	}
	return total
}
