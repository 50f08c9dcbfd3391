package engine

import (
	"github.com/OrlandoBitencourt/banderole/internal/domain"
	"github.com/OrlandoBitencourt/banderole/internal/hash"
	"github.com/OrlandoBitencourt/banderole/internal/strategy"
)

// resolveVariant selects a variant for an enabled feature. Overrides
// win first, in declared order; otherwise selection walks the declared
// weights at the bucket computed from the stickiness identity, so the
// same identity keeps the same variant while the weight distribution
// is unchanged. A total weight of zero resolves to no variant.
func (e *Engine) resolveVariant(feature *domain.FeatureDefinition, ctx domain.Context) *domain.Variant {
	if len(feature.Variants) == 0 {
		return nil
	}

	if v := overriddenVariant(feature, ctx); v != nil {
		return v
	}

	total := feature.TotalWeight()
	if total <= 0 {
		return nil
	}

	identity := strategy.ResolveIdentity(variantStickiness(feature), ctx)
	bucket := int(hash.Normalized(identity, feature.Name, uint32(total)))

	accumulated := 0
	for i := range feature.Variants {
		v := &feature.Variants[i]
		accumulated += v.Weight
		if bucket < accumulated {
			return v
		}
	}
	return nil
}

// overriddenVariant returns the first variant whose override matches
// the context, bypassing weighting entirely. An override can force a
// zero-weight variant.
func overriddenVariant(feature *domain.FeatureDefinition, ctx domain.Context) *domain.Variant {
	for i := range feature.Variants {
		v := &feature.Variants[i]
		for _, override := range v.Overrides {
			value, ok := ctx.Field(override.ContextName)
			if !ok {
				continue
			}
			for _, candidate := range override.Values {
				if candidate == value {
					return v
				}
			}
		}
	}
	return nil
}

// variantStickiness returns the stickiness the feature's variants
// declare. The first non-empty declaration wins; absent any, the
// default chain (userId, then sessionId, then random) applies.
func variantStickiness(feature *domain.FeatureDefinition) string {
	for _, v := range feature.Variants {
		if v.Stickiness != "" {
			return v.Stickiness
		}
	}
	return strategy.StickinessDefault
}
