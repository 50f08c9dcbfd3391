package domain

import "time"

// Well-known context field names, usable in constraints, variant
// overrides and stickiness configuration.
const (
	FieldUserID        = "userId"
	FieldSessionID     = "sessionId"
	FieldRemoteAddress = "remoteAddress"
	FieldEnvironment   = "environment"
	FieldAppName       = "appName"
	FieldCurrentTime   = "currentTime"
)

// Context is the immutable request-scoped input to an evaluation:
// who is asking, from where, and any custom properties. It is built
// once per call and never mutated afterwards.
type Context struct {
	UserID        string
	SessionID     string
	RemoteAddress string
	Environment   string
	AppName       string
	CurrentTime   time.Time
	Properties    map[string]string
}

// Field returns the named context value. Well-known fields are checked
// first, then the custom properties. The second return reports whether
// the field is present and non-empty.
func (c Context) Field(name string) (string, bool) {
	var v string
	switch name {
	case FieldUserID:
		v = c.UserID
	case FieldSessionID:
		v = c.SessionID
	case FieldRemoteAddress:
		v = c.RemoteAddress
	case FieldEnvironment:
		v = c.Environment
	case FieldAppName:
		v = c.AppName
	case FieldCurrentTime:
		if !c.CurrentTime.IsZero() {
			v = c.CurrentTime.Format(time.RFC3339)
		}
	default:
		v = c.Properties[name]
	}
	return v, v != ""
}

// Now returns the context's notion of the current time, falling back
// to the wall clock when the caller did not pin one.
func (c Context) Now() time.Time {
	if c.CurrentTime.IsZero() {
		return time.Now()
	}
	return c.CurrentTime
}
