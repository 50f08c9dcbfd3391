package strategy

import (
	"testing"

	"github.com/OrlandoBitencourt/banderole/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStrategy struct {
	name   string
	result bool
	calls  int
}

func (f *fakeStrategy) Name() string {
	return f.name
}

func (f *fakeStrategy) IsEnabled(_ map[string]string, _ domain.Context) bool {
	f.calls++
	return f.result
}

func TestNewRegistry_HoldsBuiltins(t *testing.T) {
	r := NewRegistry("host")

	for _, name := range []string{
		NameDefault,
		NameUserWithID,
		NameGradualRolloutUserID,
		NameGradualRolloutSessionID,
		NameGradualRolloutRandom,
		NameRemoteAddress,
		NameApplicationHostname,
		NameFlexibleRollout,
	} {
		_, ok := r.Lookup(name)
		assert.True(t, ok, "expected built-in %q", name)
	}
}

func TestNewRegistry_CustomStrategy(t *testing.T) {
	custom := &fakeStrategy{name: "canary", result: true}
	r := NewRegistry("host", custom)

	s, ok := r.Lookup("canary")
	require.True(t, ok)
	assert.True(t, s.IsEnabled(nil, domain.Context{}))
	assert.Equal(t, 1, custom.calls)
}

func TestNewRegistry_LastRegistrationWins(t *testing.T) {
	replacement := &fakeStrategy{name: NameDefault, result: false}
	r := NewRegistry("host", replacement)

	s, ok := r.Lookup(NameDefault)
	require.True(t, ok)
	assert.False(t, s.IsEnabled(nil, domain.Context{}))
}

func TestRegistry_UnknownName(t *testing.T) {
	r := NewRegistry("host")

	_, ok := r.Lookup("no-such-strategy")
	assert.False(t, ok)
}

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry("host", &fakeStrategy{name: "canary"})
	assert.Contains(t, r.Names(), "canary")
	assert.Contains(t, r.Names(), NameDefault)
}
