// Package banderole is an embeddable feature-toggle evaluation client.
// It keeps an in-memory snapshot of toggle definitions, refreshed
// out-of-band, and answers enabled/variant questions deterministically
// and without I/O on the evaluation path.
package banderole

import (
	"context"
	"fmt"

	"github.com/OrlandoBitencourt/banderole/internal/api"
	"github.com/OrlandoBitencourt/banderole/internal/cache"
	"github.com/OrlandoBitencourt/banderole/internal/domain"
	"github.com/OrlandoBitencourt/banderole/internal/engine"
	"github.com/OrlandoBitencourt/banderole/internal/repository"
	"github.com/OrlandoBitencourt/banderole/internal/strategy"
	"github.com/OrlandoBitencourt/banderole/internal/telemetry"
)

// ContextProvider supplies the evaluation context for calls that do
// not pass one explicitly. It is queried once per such call. The
// provider is set at construction and must not race with evaluations
// if replaced by the host application.
type ContextProvider func() Context

// FallbackFunc decides the result of IsEnabled for an unknown toggle.
// It is invoked exactly once per evaluation of an unknown toggle, and
// never when the toggle is known.
type FallbackFunc func(featureName string, ctx Context) bool

// ImpressionEvent describes one evaluation, for usage reporting.
type ImpressionEvent struct {
	FeatureName string
	Enabled     bool
	VariantName string
	Context     Context
}

// ImpressionListener receives impression events. Listeners run
// synchronously on the evaluation path and must not block; the
// evaluation result never depends on a listener.
type ImpressionListener func(ImpressionEvent)

// Client is the main entry point for Banderole.
//
// Example:
//
//	client, err := banderole.New(
//	    banderole.WithEndpoint("http://localhost:4242/api"),
//	    banderole.WithAppName("orders"),
//	    banderole.WithRefreshInterval(30 * time.Second),
//	)
type Client struct {
	repo      *repository.Repository
	engine    *engine.Engine
	telemetry telemetry.Provider
	cache     *cache.ResultCache
	provider  ContextProvider
	listeners []ImpressionListener

	hasFetcher   bool
	bootstrapped bool
}

// New creates a new Banderole client with the given options. When a
// bootstrap provider is configured its document is parsed and
// published here, before any fetch; a document that fails to parse
// publishes nothing and surfaces as a BootstrapError.
func New(opts ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	var provider telemetry.Provider = telemetry.NewNoOp()
	if cfg.telemetryEnabled {
		otelProvider, err := telemetry.NewOTel()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
		}
		provider = otelProvider
	}

	custom := make([]strategy.Strategy, len(cfg.strategies))
	for i, s := range cfg.strategies {
		custom[i] = customStrategy{s: s}
	}
	registry := strategy.NewRegistry(cfg.hostname, custom...)

	repoOpts := []repository.Option{repository.WithTelemetry(provider)}
	hasFetcher := cfg.endpoint != ""
	if hasFetcher {
		fetcher := api.NewHTTPFetcher(api.Config{
			Endpoint:   cfg.endpoint,
			APIKey:     cfg.apiKey,
			AppName:    cfg.appName,
			InstanceID: cfg.instanceID,
			Timeout:    cfg.fetchTimeout,
			MaxRetries: cfg.fetchRetries,
		})
		repoOpts = append(repoOpts,
			repository.WithFetcher(fetcher),
			repository.WithRefreshInterval(cfg.refreshInterval),
		)
	}

	c := &Client{
		repo:       repository.New(repoOpts...),
		engine:     engine.New(registry),
		telemetry:  provider,
		provider:   cfg.contextProvider,
		listeners:  cfg.listeners,
		hasFetcher: hasFetcher,
	}

	if cfg.bootstrap != nil {
		data, err := cfg.bootstrap.Read()
		if err != nil {
			return nil, &BootstrapError{Source: cfg.bootstrap.Source(), Err: err}
		}
		set, err := domain.ParseFeatureSet(data)
		if err != nil {
			return nil, &BootstrapError{Source: cfg.bootstrap.Source(), Err: err}
		}
		c.repo.Publish(set)
		c.bootstrapped = true
	}

	if cfg.evaluationCache {
		resultCache, err := cache.New(cfg.evaluationCacheTTL)
		if err != nil {
			return nil, err
		}
		c.cache = resultCache
	}

	return c, nil
}

// Start performs the initial synchronization and begins background
// polling. A failed initial fetch is fatal unless a bootstrap document
// was published, in which case the client serves the bootstrap until
// a later refresh succeeds.
//
// Start is a no-op when no endpoint is configured.
func (c *Client) Start(ctx context.Context) error {
	c.repo.Start(ctx)

	if !c.hasFetcher {
		return nil
	}

	if err := c.repo.Sync(ctx); err != nil {
		if !c.bootstrapped {
			c.repo.Stop()
			return fmt.Errorf("initial toggle load failed: %w", err)
		}
	}
	return nil
}

// Sync fetches and publishes a new snapshot immediately.
func (c *Client) Sync(ctx context.Context) error {
	return c.repo.Sync(ctx)
}

// Stop halts background polling and releases resources.
func (c *Client) Stop() error {
	c.repo.Stop()
	if c.cache != nil {
		c.cache.Close()
	}
	return c.telemetry.Shutdown(context.Background())
}

// FeatureNames returns the names of all toggles in the current
// snapshot.
func (c *Client) FeatureNames() []string {
	return c.repo.Names()
}

// IsEnabled reports whether the named toggle is enabled.
//
// The context comes from WithContext when supplied, else from the
// configured ContextProvider, else an empty context is used. An
// unknown toggle resolves through WithFallback (invoked exactly once)
// when present, else WithDefault, else false. A known toggle always
// resolves through its strategies; defaults and fallbacks are ignored.
func (c *Client) IsEnabled(featureName string, opts ...FeatureOption) bool {
	o := applyFeatureOptions(opts)
	evalCtx := c.resolveContext(o)

	ctx, span := c.telemetry.StartSpan(context.Background(), "banderole.is_enabled",
		telemetry.WithAttributes(telemetry.String("feature.name", featureName)))
	defer span.End()

	feature, sequence, ok := c.repo.Lookup(featureName)
	if !ok {
		c.telemetry.RecordUnknownFeature(ctx, featureName)
		enabled := o.defaultValue
		if o.fallback != nil {
			enabled = o.fallback(featureName, evalCtx)
		}
		span.SetAttributes(telemetry.Bool("feature.enabled", enabled))
		c.emit(featureName, enabled, "", evalCtx)
		return enabled
	}

	result := c.evaluate(feature, sequence, toDomainContext(evalCtx))
	span.SetAttributes(telemetry.Bool("feature.enabled", result.Enabled))
	c.record(ctx, result, evalCtx)
	return result.Enabled
}

// GetVariant resolves the variant for the named toggle. When the
// toggle is unknown, disabled, or declares no resolvable variants,
// the default variant (WithDefaultVariant, else DisabledVariant) is
// returned unchanged.
func (c *Client) GetVariant(featureName string, opts ...FeatureOption) Variant {
	o := applyFeatureOptions(opts)
	evalCtx := c.resolveContext(o)

	ctx, span := c.telemetry.StartSpan(context.Background(), "banderole.get_variant",
		telemetry.WithAttributes(telemetry.String("feature.name", featureName)))
	defer span.End()

	feature, sequence, ok := c.repo.Lookup(featureName)
	if !ok {
		c.telemetry.RecordUnknownFeature(ctx, featureName)
		c.emit(featureName, false, o.defaultVariant.Name, evalCtx)
		return o.defaultVariant
	}

	result := c.evaluate(feature, sequence, toDomainContext(evalCtx))
	c.record(ctx, result, evalCtx)

	if !result.Enabled || result.Variant == nil {
		return o.defaultVariant
	}
	return toVariant(result.Variant)
}

// evaluate runs the engine against one captured snapshot entry,
// memoizing through the result cache when enabled.
func (c *Client) evaluate(feature *domain.FeatureDefinition, sequence uint64, ctx domain.Context) domain.EvaluationResult {
	if c.cache == nil {
		return c.engine.Evaluate(feature, ctx)
	}

	key := cache.Key(sequence, feature.Name, ctx)
	if result, ok := c.cache.Get(key); ok {
		return result
	}
	result := c.engine.Evaluate(feature, ctx)
	c.cache.Set(key, result)
	return result
}

// record forwards an evaluation outcome to telemetry and listeners.
func (c *Client) record(ctx context.Context, result domain.EvaluationResult, evalCtx Context) {
	variantName := ""
	if result.Variant != nil {
		variantName = result.Variant.Name
	}
	c.telemetry.RecordEvaluation(ctx, result.FeatureName, result.Enabled, variantName)
	c.emit(result.FeatureName, result.Enabled, variantName, evalCtx)
}

func (c *Client) emit(featureName string, enabled bool, variantName string, evalCtx Context) {
	for _, listener := range c.listeners {
		listener(ImpressionEvent{
			FeatureName: featureName,
			Enabled:     enabled,
			VariantName: variantName,
			Context:     evalCtx,
		})
	}
}

// resolveContext applies the context precedence: explicit context,
// then provider, then empty.
func (c *Client) resolveContext(o *featureOptions) Context {
	if o.ctx != nil {
		return *o.ctx
	}
	if c.provider != nil {
		return c.provider()
	}
	return Context{}
}
