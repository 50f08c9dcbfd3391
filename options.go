package banderole

import (
	"os"
	"time"
)

// Option configures a Banderole client.
type Option func(*clientConfig) error

// clientConfig holds internal configuration.
type clientConfig struct {
	endpoint   string
	apiKey     string
	appName    string
	instanceID string
	hostname   string

	fetchTimeout    time.Duration
	fetchRetries    int
	refreshInterval time.Duration

	bootstrap       BootstrapProvider
	contextProvider ContextProvider
	strategies      []Strategy

	telemetryEnabled   bool
	evaluationCacheTTL time.Duration
	evaluationCache    bool

	listeners []ImpressionListener
}

func defaultConfig() *clientConfig {
	hostname, _ := os.Hostname()
	return &clientConfig{
		hostname:        hostname,
		fetchTimeout:    10 * time.Second,
		fetchRetries:    2,
		refreshInterval: 15 * time.Second,
	}
}

// WithEndpoint sets the base URL of the toggle service the client
// fetches definitions from. Without an endpoint the client serves
// only bootstrapped or manually published definitions.
func WithEndpoint(endpoint string) Option {
	return func(c *clientConfig) error {
		if endpoint == "" {
			return &ConfigError{Field: "endpoint", Message: "cannot be empty"}
		}
		c.endpoint = endpoint
		return nil
	}
}

// WithAPIKey sets the authorization token sent on fetch requests.
func WithAPIKey(key string) Option {
	return func(c *clientConfig) error {
		c.apiKey = key
		return nil
	}
}

// WithAppName sets the application name reported to the toggle
// service.
func WithAppName(name string) Option {
	return func(c *clientConfig) error {
		c.appName = name
		return nil
	}
}

// WithInstanceID sets the instance id reported to the toggle service.
func WithInstanceID(id string) Option {
	return func(c *clientConfig) error {
		c.instanceID = id
		return nil
	}
}

// WithHostname overrides the host name used by the
// applicationHostname strategy. Defaults to os.Hostname.
func WithHostname(hostname string) Option {
	return func(c *clientConfig) error {
		c.hostname = hostname
		return nil
	}
}

// WithRefreshInterval sets how often definitions are re-fetched.
// Zero disables background polling.
func WithRefreshInterval(interval time.Duration) Option {
	return func(c *clientConfig) error {
		if interval < 0 {
			return &ConfigError{Field: "refreshInterval", Message: "cannot be negative"}
		}
		c.refreshInterval = interval
		return nil
	}
}

// WithFetchTimeout sets the per-request timeout for fetches.
func WithFetchTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) error {
		if timeout <= 0 {
			return &ConfigError{Field: "fetchTimeout", Message: "must be positive"}
		}
		c.fetchTimeout = timeout
		return nil
	}
}

// WithFetchRetries sets how many times a failed fetch is retried.
func WithFetchRetries(retries int) Option {
	return func(c *clientConfig) error {
		if retries < 0 {
			return &ConfigError{Field: "fetchRetries", Message: "cannot be negative"}
		}
		c.fetchRetries = retries
		return nil
	}
}

// WithBootstrap supplies the initial toggle document, parsed once at
// client construction before any fetch happens.
func WithBootstrap(provider BootstrapProvider) Option {
	return func(c *clientConfig) error {
		c.bootstrap = provider
		return nil
	}
}

// WithContextProvider sets the process-wide context provider queried
// on evaluations that do not pass an explicit context.
func WithContextProvider(provider ContextProvider) Option {
	return func(c *clientConfig) error {
		c.contextProvider = provider
		return nil
	}
}

// WithStrategies registers custom activation strategies. Registration
// happens once at construction; a custom strategy sharing a built-in's
// name replaces the built-in.
func WithStrategies(strategies ...Strategy) Option {
	return func(c *clientConfig) error {
		c.strategies = append(c.strategies, strategies...)
		return nil
	}
}

// WithTelemetry enables OpenTelemetry metrics and traces for
// evaluations and refreshes. Disabled by default.
func WithTelemetry() Option {
	return func(c *clientConfig) error {
		c.telemetryEnabled = true
		return nil
	}
}

// WithEvaluationCache enables memoization of evaluation results for
// identical (snapshot, feature, context) inputs. Entries expire after
// ttl; a publish invalidates all prior entries.
func WithEvaluationCache(ttl time.Duration) Option {
	return func(c *clientConfig) error {
		if ttl < 0 {
			return &ConfigError{Field: "evaluationCacheTTL", Message: "cannot be negative"}
		}
		c.evaluationCache = true
		c.evaluationCacheTTL = ttl
		return nil
	}
}

// WithImpressionListener registers a callback receiving one
// ImpressionEvent per evaluation. Listener failures never affect
// evaluation results; listeners must not block.
func WithImpressionListener(listener ImpressionListener) Option {
	return func(c *clientConfig) error {
		if listener == nil {
			return &ConfigError{Field: "impressionListener", Message: "cannot be nil"}
		}
		c.listeners = append(c.listeners, listener)
		return nil
	}
}
