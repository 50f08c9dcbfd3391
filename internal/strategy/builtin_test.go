package strategy

import (
	"testing"

	"github.com/OrlandoBitencourt/banderole/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestDefaultStrategy_AlwaysEnabled(t *testing.T) {
	s := &defaultStrategy{}

	assert.True(t, s.IsEnabled(nil, domain.Context{}))
	assert.True(t, s.IsEnabled(map[string]string{"unused": "x"}, domain.Context{UserID: "1"}))
}

func TestUserWithID_MatchesListedUser(t *testing.T) {
	s := &userWithIDStrategy{}
	params := map[string]string{ParamUserIDs: "alice, bob,carol"}

	assert.True(t, s.IsEnabled(params, domain.Context{UserID: "alice"}))
	assert.True(t, s.IsEnabled(params, domain.Context{UserID: "bob"}))
	assert.True(t, s.IsEnabled(params, domain.Context{UserID: "carol"}))
	assert.False(t, s.IsEnabled(params, domain.Context{UserID: "dave"}))
}

func TestUserWithID_EmptyUserID(t *testing.T) {
	s := &userWithIDStrategy{}
	params := map[string]string{ParamUserIDs: "alice"}

	assert.False(t, s.IsEnabled(params, domain.Context{}))
}

func TestUserWithID_EmptyList(t *testing.T) {
	s := &userWithIDStrategy{}

	assert.False(t, s.IsEnabled(map[string]string{}, domain.Context{UserID: "alice"}))
}

func TestRemoteAddress_ExactMatch(t *testing.T) {
	s := &remoteAddressStrategy{}
	params := map[string]string{ParamIPs: "10.0.0.1, 10.0.0.2"}

	assert.True(t, s.IsEnabled(params, domain.Context{RemoteAddress: "10.0.0.1"}))
	assert.True(t, s.IsEnabled(params, domain.Context{RemoteAddress: "10.0.0.2"}))
	assert.False(t, s.IsEnabled(params, domain.Context{RemoteAddress: "10.0.0.3"}))
}

func TestRemoteAddress_CIDRMatch(t *testing.T) {
	s := &remoteAddressStrategy{}
	params := map[string]string{ParamIPs: "192.168.0.0/24"}

	assert.True(t, s.IsEnabled(params, domain.Context{RemoteAddress: "192.168.0.10"}))
	assert.True(t, s.IsEnabled(params, domain.Context{RemoteAddress: "192.168.0.254"}))
	assert.False(t, s.IsEnabled(params, domain.Context{RemoteAddress: "192.168.1.10"}))
}

func TestRemoteAddress_MalformedEntriesFailClosed(t *testing.T) {
	s := &remoteAddressStrategy{}

	assert.False(t, s.IsEnabled(map[string]string{ParamIPs: "not-an-ip"}, domain.Context{RemoteAddress: "10.0.0.1"}))
	assert.False(t, s.IsEnabled(map[string]string{ParamIPs: "10.0.0.0/99"}, domain.Context{RemoteAddress: "10.0.0.1"}))
	assert.False(t, s.IsEnabled(map[string]string{ParamIPs: "10.0.0.1"}, domain.Context{RemoteAddress: "bogus"}))
	assert.False(t, s.IsEnabled(map[string]string{ParamIPs: "10.0.0.1"}, domain.Context{}))
}

func TestApplicationHostname_Matches(t *testing.T) {
	s := &applicationHostnameStrategy{hostname: "web-01"}
	params := map[string]string{ParamHostNames: "web-01,web-02"}

	assert.True(t, s.IsEnabled(params, domain.Context{}))
}

func TestApplicationHostname_CaseInsensitive(t *testing.T) {
	s := &applicationHostnameStrategy{hostname: "WEB-01"}
	params := map[string]string{ParamHostNames: "web-01"}

	assert.True(t, s.IsEnabled(params, domain.Context{}))
}

func TestApplicationHostname_NoMatch(t *testing.T) {
	s := &applicationHostnameStrategy{hostname: "web-03"}
	params := map[string]string{ParamHostNames: "web-01,web-02"}

	assert.False(t, s.IsEnabled(params, domain.Context{}))
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a"}, splitList("a"))
	assert.Equal(t, []string{"a", "b"}, splitList(" a , b "))
	assert.Equal(t, []string{"a", "b"}, splitList("a,,b,"))
}
