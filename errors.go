package banderole

import (
	"fmt"
)

// ConfigError indicates invalid client configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error [%s]: %s", e.Field, e.Message)
}

// BootstrapError indicates the bootstrap document could not be read
// or parsed. A bootstrap failure never publishes a partial snapshot.
type BootstrapError struct {
	Source string
	Err    error
}

func (e *BootstrapError) Error() string {
	return fmt.Sprintf("bootstrap from %s failed: %v", e.Source, e.Err)
}

func (e *BootstrapError) Unwrap() error {
	return e.Err
}
