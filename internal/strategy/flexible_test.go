package strategy

import (
	"fmt"
	"testing"

	"github.com/OrlandoBitencourt/banderole/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestFlexibleRollout_HundredPercent(t *testing.T) {
	s := &flexibleRolloutStrategy{}
	params := map[string]string{ParamRollout: "100", ParamGroupID: "toggle-a"}

	for i := 0; i < 1000; i++ {
		ctx := domain.Context{UserID: fmt.Sprintf("user-%d", i)}
		assert.True(t, s.IsEnabled(params, ctx))
	}
}

func TestFlexibleRollout_ZeroPercent(t *testing.T) {
	s := &flexibleRolloutStrategy{}
	params := map[string]string{ParamRollout: "0", ParamGroupID: "toggle-a"}

	for i := 0; i < 1000; i++ {
		ctx := domain.Context{UserID: fmt.Sprintf("user-%d", i)}
		assert.False(t, s.IsEnabled(params, ctx))
	}
}

func TestFlexibleRollout_MalformedRollout(t *testing.T) {
	s := &flexibleRolloutStrategy{}

	assert.False(t, s.IsEnabled(map[string]string{ParamRollout: "foo"}, domain.Context{UserID: "u"}))
	assert.False(t, s.IsEnabled(map[string]string{}, domain.Context{UserID: "u"}))
}

func TestFlexibleRollout_StableForUser(t *testing.T) {
	s := &flexibleRolloutStrategy{}
	params := map[string]string{ParamRollout: "50", ParamGroupID: "toggle-a"}
	ctx := domain.Context{UserID: "sticky"}

	first := s.IsEnabled(params, ctx)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, s.IsEnabled(params, ctx))
	}
}

func TestFlexibleRollout_SessionStickiness(t *testing.T) {
	s := &flexibleRolloutStrategy{}
	params := map[string]string{
		ParamRollout:    "50",
		ParamGroupID:    "toggle-a",
		ParamStickiness: StickinessSessionID,
	}
	ctx := domain.Context{SessionID: "session-7"}

	first := s.IsEnabled(params, ctx)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, s.IsEnabled(params, ctx))
	}
}

func TestResolveIdentity_DefaultChain(t *testing.T) {
	both := domain.Context{UserID: "u", SessionID: "s"}
	assert.Equal(t, "u", ResolveIdentity(StickinessDefault, both))
	assert.Equal(t, "u", ResolveIdentity("", both))

	sessionOnly := domain.Context{SessionID: "s"}
	assert.Equal(t, "s", ResolveIdentity(StickinessDefault, sessionOnly))

	assert.Equal(t, "", ResolveIdentity(StickinessDefault, domain.Context{}))
}

func TestResolveIdentity_ExplicitFields(t *testing.T) {
	ctx := domain.Context{
		UserID:     "u",
		SessionID:  "s",
		Properties: map[string]string{"tenantId": "t-9"},
	}

	assert.Equal(t, "u", ResolveIdentity(StickinessUserID, ctx))
	assert.Equal(t, "s", ResolveIdentity(StickinessSessionID, ctx))
	assert.Equal(t, "t-9", ResolveIdentity("tenantId", ctx))
	assert.Equal(t, "", ResolveIdentity(StickinessRandom, ctx))
	assert.Equal(t, "", ResolveIdentity("missingField", ctx))
}
