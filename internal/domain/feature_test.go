package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFeatureSet(t *testing.T) {
	document := `{
		"version": 1,
		"features": [
			{
				"name": "checkout-redesign",
				"description": "New checkout flow",
				"enabled": true,
				"strategies": [
					{
						"name": "gradualRolloutUserId",
						"parameters": {"percentage": "25", "groupId": "checkout"},
						"constraints": [
							{"contextName": "environment", "operator": "IN", "values": ["production"]}
						]
					}
				],
				"variants": [
					{
						"name": "blue",
						"weight": 50,
						"payload": {"type": "string", "value": "#0000ff"},
						"overrides": [{"contextName": "userId", "values": ["qa-user"]}]
					},
					{"name": "green", "weight": 50, "stickiness": "sessionId"}
				]
			}
		]
	}`

	set, err := ParseFeatureSet([]byte(document))
	require.NoError(t, err)
	assert.Equal(t, 1, set.Version)
	require.Len(t, set.Features, 1)

	feature := set.Features[0]
	assert.Equal(t, "checkout-redesign", feature.Name)
	assert.True(t, feature.Enabled)

	require.Len(t, feature.Strategies, 1)
	strategy := feature.Strategies[0]
	assert.Equal(t, "gradualRolloutUserId", strategy.Name)
	assert.Equal(t, "25", strategy.Parameters["percentage"])
	require.Len(t, strategy.Constraints, 1)
	assert.Equal(t, OperatorIn, strategy.Constraints[0].Operator)
	assert.Equal(t, []string{"production"}, strategy.Constraints[0].Values)

	require.Len(t, feature.Variants, 2)
	blue := feature.Variants[0]
	require.NotNil(t, blue.Payload)
	assert.Equal(t, "#0000ff", blue.Payload.Value)
	require.Len(t, blue.Overrides, 1)
	assert.Equal(t, "userId", blue.Overrides[0].ContextName)
	assert.Equal(t, "sessionId", feature.Variants[1].Stickiness)
}

func TestParseFeatureSet_InvalidJSON(t *testing.T) {
	_, err := ParseFeatureSet([]byte(`{"version": 1, "features": [`))
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Error(t, validationErr.Unwrap())
}

func TestParseFeatureSet_WrongShape(t *testing.T) {
	_, err := ParseFeatureSet([]byte(`{"version": 1, "features": "nope"}`))
	assert.Error(t, err)
}

func TestParseFeatureSet_EmptyDocument(t *testing.T) {
	set, err := ParseFeatureSet([]byte(`{"version": 1, "features": []}`))
	require.NoError(t, err)
	assert.Empty(t, set.Features)
}

func TestFeatureSetValidate_DuplicateNames(t *testing.T) {
	_, err := ParseFeatureSet([]byte(`{
		"version": 1,
		"features": [
			{"name": "dup", "enabled": true},
			{"name": "dup", "enabled": false}
		]
	}`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate feature name")
}

func TestFeatureDefinitionValidate(t *testing.T) {
	valid := FeatureDefinition{Name: "ok", Variants: []Variant{{Name: "v", Weight: 10}}}
	assert.NoError(t, valid.Validate())

	unnamed := FeatureDefinition{}
	assert.Error(t, unnamed.Validate())

	unnamedVariant := FeatureDefinition{Name: "ok", Variants: []Variant{{Weight: 10}}}
	assert.Error(t, unnamedVariant.Validate())

	negativeWeight := FeatureDefinition{Name: "ok", Variants: []Variant{{Name: "v", Weight: -1}}}
	err := negativeWeight.Validate()
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestFeatureDefinitionTotalWeight(t *testing.T) {
	feature := FeatureDefinition{Name: "ok", Variants: []Variant{
		{Name: "a", Weight: 30},
		{Name: "b", Weight: 70},
		{Name: "c", Weight: 0},
	}}

	assert.Equal(t, 100, feature.TotalWeight())
	assert.Equal(t, 0, (&FeatureDefinition{Name: "empty"}).TotalWeight())
}
