package strategy

import (
	"net"
	"strings"

	"github.com/OrlandoBitencourt/banderole/internal/domain"
)

// defaultStrategy is always enabled.
type defaultStrategy struct{}

func (s *defaultStrategy) Name() string {
	return NameDefault
}

func (s *defaultStrategy) IsEnabled(_ map[string]string, _ domain.Context) bool {
	return true
}

// userWithIDStrategy enables a toggle for an explicit list of user ids.
type userWithIDStrategy struct{}

func (s *userWithIDStrategy) Name() string {
	return NameUserWithID
}

func (s *userWithIDStrategy) IsEnabled(parameters map[string]string, ctx domain.Context) bool {
	if ctx.UserID == "" {
		return false
	}
	for _, id := range splitList(parameters[ParamUserIDs]) {
		if id == ctx.UserID {
			return true
		}
	}
	return false
}

// remoteAddressStrategy enables a toggle when the caller's remote
// address matches a comma-separated list of IPs and CIDR blocks.
type remoteAddressStrategy struct{}

func (s *remoteAddressStrategy) Name() string {
	return NameRemoteAddress
}

func (s *remoteAddressStrategy) IsEnabled(parameters map[string]string, ctx domain.Context) bool {
	remote := net.ParseIP(strings.TrimSpace(ctx.RemoteAddress))
	if remote == nil {
		return false
	}

	for _, entry := range splitList(parameters[ParamIPs]) {
		if strings.Contains(entry, "/") {
			_, network, err := net.ParseCIDR(entry)
			if err != nil {
				// Malformed entries are skipped, not fatal
				continue
			}
			if network.Contains(remote) {
				return true
			}
			continue
		}

		if ip := net.ParseIP(entry); ip != nil && ip.Equal(remote) {
			return true
		}
	}
	return false
}

// applicationHostnameStrategy enables a toggle when the client's own
// host name is in a comma-separated list. The hostname is resolved
// once at registry construction.
type applicationHostnameStrategy struct {
	hostname string
}

func (s *applicationHostnameStrategy) Name() string {
	return NameApplicationHostname
}

func (s *applicationHostnameStrategy) IsEnabled(parameters map[string]string, _ domain.Context) bool {
	if s.hostname == "" {
		return false
	}
	for _, name := range splitList(parameters[ParamHostNames]) {
		if strings.EqualFold(name, s.hostname) {
			return true
		}
	}
	return false
}

// splitList splits a comma-separated parameter value, trimming
// whitespace and dropping empty entries.
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := parts[:0]
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
