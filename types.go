package banderole

import (
	"github.com/OrlandoBitencourt/banderole/internal/domain"
	"github.com/OrlandoBitencourt/banderole/internal/strategy"
)

// Variant is the selected alternative for an enabled toggle.
type Variant struct {
	// Name is the variant's name
	Name string

	// Enabled reports whether the toggle resolved to a real variant.
	// Default/fallback variants carry false.
	Enabled bool

	// Payload is the variant's opaque payload, if any
	Payload *Payload
}

// Payload is a typed opaque value attached to a variant.
type Payload struct {
	Type  string
	Value string
}

// DisabledVariant is returned by GetVariant when the toggle is
// unknown or disabled and no default variant was supplied.
var DisabledVariant = Variant{Name: "disabled", Enabled: false}

// Strategy is the capability callers implement to register a custom
// activation strategy. Implementations must be pure functions of
// their inputs and must never panic: malformed parameters should
// evaluate to false.
type Strategy interface {
	// Name is the name the strategy is referenced by in toggle
	// configurations.
	Name() string

	// IsEnabled evaluates the strategy for the given parameters and
	// context.
	IsEnabled(parameters map[string]string, ctx Context) bool
}

// customStrategy adapts a caller-supplied Strategy to the internal
// capability the engine resolves.
type customStrategy struct {
	s Strategy
}

func (c customStrategy) Name() string {
	return c.s.Name()
}

func (c customStrategy) IsEnabled(parameters map[string]string, ctx domain.Context) bool {
	return c.s.IsEnabled(parameters, fromDomainContext(ctx))
}

var _ strategy.Strategy = customStrategy{}

// Internal conversion helpers

func toVariant(v *domain.Variant) Variant {
	out := Variant{Name: v.Name, Enabled: true}
	if v.Payload != nil {
		out.Payload = &Payload{Type: v.Payload.Type, Value: v.Payload.Value}
	}
	return out
}
