package engine

import (
	"fmt"
	"testing"

	"github.com/OrlandoBitencourt/banderole/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func variantFeature(variants ...domain.Variant) *domain.FeatureDefinition {
	return &domain.FeatureDefinition{
		Name:     "variant-feature",
		Enabled:  true,
		Variants: variants,
	}
}

func TestResolveVariant_NoVariants(t *testing.T) {
	e := newEngine()

	assert.Nil(t, e.resolveVariant(variantFeature(), domain.Context{UserID: "u"}))
}

func TestResolveVariant_SingleVariant(t *testing.T) {
	e := newEngine()
	feature := variantFeature(domain.Variant{Name: "only", Weight: 1})

	v := e.resolveVariant(feature, domain.Context{UserID: "u"})

	require.NotNil(t, v)
	assert.Equal(t, "only", v.Name)
}

func TestResolveVariant_ZeroWeightsResolveToNone(t *testing.T) {
	e := newEngine()
	feature := variantFeature(
		domain.Variant{Name: "a", Weight: 0},
		domain.Variant{Name: "b", Weight: 0},
	)

	assert.Nil(t, e.resolveVariant(feature, domain.Context{UserID: "u"}))
}

func TestResolveVariant_StableForIdentity(t *testing.T) {
	e := newEngine()
	feature := variantFeature(
		domain.Variant{Name: "blue", Weight: 50},
		domain.Variant{Name: "green", Weight: 50},
	)
	ctx := domain.Context{UserID: "sticky-user"}

	first := e.resolveVariant(feature, ctx)
	require.NotNil(t, first)
	for i := 0; i < 100; i++ {
		v := e.resolveVariant(feature, ctx)
		require.NotNil(t, v)
		assert.Equal(t, first.Name, v.Name)
	}
}

func TestResolveVariant_AllVariantsReachable(t *testing.T) {
	e := newEngine()
	feature := variantFeature(
		domain.Variant{Name: "blue", Weight: 1},
		domain.Variant{Name: "green", Weight: 1},
	)

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		v := e.resolveVariant(feature, domain.Context{UserID: fmt.Sprintf("user-%d", i)})
		require.NotNil(t, v)
		seen[v.Name] = true
	}

	assert.True(t, seen["blue"])
	assert.True(t, seen["green"])
}

func TestResolveVariant_OverrideForcesVariant(t *testing.T) {
	e := newEngine()
	feature := variantFeature(
		domain.Variant{Name: "blue", Weight: 100},
		domain.Variant{
			Name:   "green",
			Weight: 0,
			Overrides: []domain.VariantOverride{
				{ContextName: domain.FieldUserID, Values: []string{"qa-user"}},
			},
		},
	)

	// Overrides bypass weighting, even onto a zero-weight variant
	v := e.resolveVariant(feature, domain.Context{UserID: "qa-user"})
	require.NotNil(t, v)
	assert.Equal(t, "green", v.Name)

	v = e.resolveVariant(feature, domain.Context{UserID: "other"})
	require.NotNil(t, v)
	assert.Equal(t, "blue", v.Name)
}

func TestResolveVariant_OverrideOnCustomProperty(t *testing.T) {
	e := newEngine()
	feature := variantFeature(
		domain.Variant{Name: "blue", Weight: 100},
		domain.Variant{
			Name:   "green",
			Weight: 100,
			Overrides: []domain.VariantOverride{
				{ContextName: "tenantId", Values: []string{"acme"}},
			},
		},
	)

	ctx := domain.Context{UserID: "u", Properties: map[string]string{"tenantId": "acme"}}
	v := e.resolveVariant(feature, ctx)
	require.NotNil(t, v)
	assert.Equal(t, "green", v.Name)
}

func TestResolveVariant_DeclaredStickiness(t *testing.T) {
	e := newEngine()
	feature := variantFeature(
		domain.Variant{Name: "blue", Weight: 50, Stickiness: "tenantId"},
		domain.Variant{Name: "green", Weight: 50, Stickiness: "tenantId"},
	)

	// Same tenant, different users: the tenant pins the variant
	base := domain.Context{UserID: "user-a", Properties: map[string]string{"tenantId": "acme"}}
	first := e.resolveVariant(feature, base)
	require.NotNil(t, first)

	for i := 0; i < 50; i++ {
		ctx := domain.Context{
			UserID:     fmt.Sprintf("user-%d", i),
			Properties: map[string]string{"tenantId": "acme"},
		}
		v := e.resolveVariant(feature, ctx)
		require.NotNil(t, v)
		assert.Equal(t, first.Name, v.Name)
	}
}

func TestResolveVariant_NoIdentityStillResolves(t *testing.T) {
	e := newEngine()
	feature := variantFeature(
		domain.Variant{Name: "blue", Weight: 1},
		domain.Variant{Name: "green", Weight: 1},
	)

	// No identity: a random draw, but always one of the variants
	for i := 0; i < 100; i++ {
		v := e.resolveVariant(feature, domain.Context{})
		require.NotNil(t, v)
		assert.Contains(t, []string{"blue", "green"}, v.Name)
	}
}

func TestEvaluate_EnabledFeatureCarriesVariant(t *testing.T) {
	e := newEngine()
	feature := &domain.FeatureDefinition{
		Name:       "with-variant",
		Enabled:    true,
		Strategies: []domain.StrategyConfig{{Name: "default"}},
		Variants: []domain.Variant{
			{Name: "only", Weight: 1, Payload: &domain.Payload{Type: "string", Value: "hello"}},
		},
	}

	result := e.Evaluate(feature, domain.Context{UserID: "u"})

	require.True(t, result.Enabled)
	require.NotNil(t, result.Variant)
	assert.Equal(t, "only", result.Variant.Name)
	assert.Equal(t, "hello", result.Variant.Payload.Value)
}

func TestEvaluate_DisabledFeatureCarriesNoVariant(t *testing.T) {
	e := newEngine()
	feature := &domain.FeatureDefinition{
		Name:     "off",
		Enabled:  false,
		Variants: []domain.Variant{{Name: "only", Weight: 1}},
	}

	result := e.Evaluate(feature, domain.Context{UserID: "u"})

	assert.False(t, result.Enabled)
	assert.Nil(t, result.Variant)
}
