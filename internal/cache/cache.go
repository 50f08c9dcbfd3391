// Package cache memoizes evaluation results. The cache is optional:
// evaluation is already bounded-time, but hot paths evaluating the
// same identity against the same snapshot can skip the strategy walk.
// Entries are keyed by snapshot generation, so a publish implicitly
// invalidates everything cached against older snapshots.
package cache

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/OrlandoBitencourt/banderole/internal/domain"
	"github.com/dgraph-io/ristretto"
)

// ResultCache stores evaluation results behind a ristretto cache.
type ResultCache struct {
	store *ristretto.Cache
	ttl   time.Duration
}

// New creates a result cache. Entries expire after ttl; a ttl of zero
// keeps entries until evicted.
func New(ttl time.Duration) (*ResultCache, error) {
	store, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e6,
		MaxCost:     1 << 26, // 64MB
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ristretto cache: %w", err)
	}
	return &ResultCache{store: store, ttl: ttl}, nil
}

// Get returns a cached result for the key.
func (c *ResultCache) Get(key string) (domain.EvaluationResult, bool) {
	v, ok := c.store.Get(key)
	if !ok {
		return domain.EvaluationResult{}, false
	}
	result, ok := v.(domain.EvaluationResult)
	return result, ok
}

// Set stores a result. Admission is best-effort; a dropped set only
// costs a re-evaluation.
func (c *ResultCache) Set(key string, result domain.EvaluationResult) {
	c.store.SetWithTTL(key, result, 1, c.ttl)
}

// Wait blocks until buffered sets have been applied. Test helper.
func (c *ResultCache) Wait() {
	c.store.Wait()
}

// Close releases the cache's resources.
func (c *ResultCache) Close() {
	c.store.Close()
}

// Key derives the cache key for one evaluation: snapshot generation,
// feature name and every context field that can influence the result.
// Field values are escaped so separator characters inside a value can
// never make two distinct contexts share a key.
func Key(sequence uint64, featureName string, ctx domain.Context) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d|%s|%s|%s|%s|%s|%s", sequence, escape(featureName),
		escape(ctx.UserID), escape(ctx.SessionID), escape(ctx.RemoteAddress),
		escape(ctx.Environment), escape(ctx.AppName))
	if !ctx.CurrentTime.IsZero() {
		fmt.Fprintf(&b, "|t=%d", ctx.CurrentTime.Unix())
	}
	if len(ctx.Properties) > 0 {
		keys := make([]string, 0, len(ctx.Properties))
		for k := range ctx.Properties {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			// The "p:" marker keeps a property named "t" distinct from
			// the pinned-time component.
			fmt.Fprintf(&b, "|p:%s=%s", escape(k), escape(ctx.Properties[k]))
		}
	}
	return b.String()
}

var keyEscaper = strings.NewReplacer(`\`, `\\`, "|", `\|`, "=", `\=`)

func escape(s string) string {
	return keyEscaper.Replace(s)
}
