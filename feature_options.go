package banderole

// FeatureOption configures a single IsEnabled or GetVariant call.
type FeatureOption func(*featureOptions)

type featureOptions struct {
	ctx            *Context
	defaultValue   bool
	fallback       FallbackFunc
	defaultVariant Variant
}

func applyFeatureOptions(opts []FeatureOption) *featureOptions {
	o := &featureOptions{defaultVariant: DisabledVariant}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithContext supplies an explicit evaluation context for this call,
// overriding the client's ContextProvider.
func WithContext(ctx Context) FeatureOption {
	return func(o *featureOptions) {
		o.ctx = &ctx
	}
}

// WithDefault sets the result returned when the toggle is unknown.
// It has no effect on known toggles.
func WithDefault(enabled bool) FeatureOption {
	return func(o *featureOptions) {
		o.defaultValue = enabled
	}
}

// WithFallback sets a predicate deciding the result when the toggle
// is unknown. The predicate is invoked exactly once per unknown-toggle
// evaluation and never for known toggles. It takes precedence over
// WithDefault.
func WithFallback(fallback FallbackFunc) FeatureOption {
	return func(o *featureOptions) {
		o.fallback = fallback
	}
}

// WithDefaultVariant sets the variant returned by GetVariant when the
// toggle is unknown, disabled, or resolves to no variant.
func WithDefaultVariant(variant Variant) FeatureOption {
	return func(o *featureOptions) {
		o.defaultVariant = variant
	}
}
