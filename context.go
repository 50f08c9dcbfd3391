package banderole

import (
	"time"

	"github.com/OrlandoBitencourt/banderole/internal/domain"
)

// Context holds the request-scoped attributes a toggle evaluation runs
// against: who is asking, from where, and any custom properties. Build
// one per call (or supply a ContextProvider) and treat it as immutable
// afterwards; the fluent With* methods return copies.
type Context struct {
	// UserID identifies the end user on whose behalf the evaluation
	// runs. It is the preferred stickiness identity.
	UserID string

	// SessionID identifies the session, used as the stickiness
	// identity when no user id is present.
	SessionID string

	// RemoteAddress is the caller's IP address, used by the
	// remoteAddress strategy.
	RemoteAddress string

	// Environment names the running environment (e.g. "production").
	Environment string

	// AppName names the application performing evaluations.
	AppName string

	// CurrentTime pins the evaluation time for date constraints.
	// Zero means "now".
	CurrentTime time.Time

	// Properties contains custom attributes for constraint evaluation
	// and custom stickiness fields.
	Properties map[string]string
}

// NewContext creates an evaluation context for the given user id.
func NewContext(userID string) Context {
	return Context{
		UserID:     userID,
		Properties: make(map[string]string),
	}
}

// WithSessionID sets the session id (fluent interface).
func (c Context) WithSessionID(sessionID string) Context {
	c.SessionID = sessionID
	return c
}

// WithRemoteAddress sets the remote address (fluent interface).
func (c Context) WithRemoteAddress(addr string) Context {
	c.RemoteAddress = addr
	return c
}

// WithEnvironment sets the environment (fluent interface).
func (c Context) WithEnvironment(env string) Context {
	c.Environment = env
	return c
}

// WithAppName sets the application name (fluent interface).
func (c Context) WithAppName(appName string) Context {
	c.AppName = appName
	return c
}

// WithCurrentTime pins the evaluation time (fluent interface).
func (c Context) WithCurrentTime(t time.Time) Context {
	c.CurrentTime = t
	return c
}

// WithProperty adds a custom property (fluent interface). The
// receiver's property map is copied so previously built contexts stay
// untouched.
func (c Context) WithProperty(key, value string) Context {
	props := make(map[string]string, len(c.Properties)+1)
	for k, v := range c.Properties {
		props[k] = v
	}
	props[key] = value
	c.Properties = props
	return c
}

// Internal conversion helpers

func toDomainContext(ctx Context) domain.Context {
	return domain.Context{
		UserID:        ctx.UserID,
		SessionID:     ctx.SessionID,
		RemoteAddress: ctx.RemoteAddress,
		Environment:   ctx.Environment,
		AppName:       ctx.AppName,
		CurrentTime:   ctx.CurrentTime,
		Properties:    ctx.Properties,
	}
}

func fromDomainContext(ctx domain.Context) Context {
	return Context{
		UserID:        ctx.UserID,
		SessionID:     ctx.SessionID,
		RemoteAddress: ctx.RemoteAddress,
		Environment:   ctx.Environment,
		AppName:       ctx.AppName,
		CurrentTime:   ctx.CurrentTime,
		Properties:    ctx.Properties,
	}
}
