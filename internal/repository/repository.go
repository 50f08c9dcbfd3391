// Package repository owns the current feature-definition snapshot and
// its lifecycle. Snapshots are immutable; a refresh or bootstrap
// builds a complete new snapshot off to the side and publishes it with
// a single atomic pointer swap, so the lock-free read path never
// observes a half-updated set.
package repository

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/OrlandoBitencourt/banderole/internal/domain"
	"github.com/OrlandoBitencourt/banderole/internal/telemetry"
)

// Fetcher produces a complete, parsed feature set from an external
// source. The repository has no opinion on transport or retry; it only
// requires that a successful fetch returns a fully-formed set.
type Fetcher interface {
	Fetch(ctx context.Context) (*domain.FeatureSet, error)
}

// snapshot is one immutable published generation of definitions.
type snapshot struct {
	version  int
	sequence uint64
	features map[string]*domain.FeatureDefinition
}

// Repository holds the current snapshot and, when configured with a
// Fetcher and interval, keeps it fresh in the background.
type Repository struct {
	fetcher   Fetcher
	telemetry telemetry.Provider
	interval  time.Duration

	current  atomic.Pointer[snapshot]
	sequence atomic.Uint64

	// Background refresh state
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu               sync.RWMutex
	lastRefresh      time.Time
	consecutiveFails int
}

// Option configures a Repository.
type Option func(*Repository)

// WithFetcher sets the external fetcher used by Sync and the refresh
// loop.
func WithFetcher(f Fetcher) Option {
	return func(r *Repository) { r.fetcher = f }
}

// WithRefreshInterval sets the background polling interval. Zero
// disables polling; Sync remains available for manual refresh.
func WithRefreshInterval(d time.Duration) Option {
	return func(r *Repository) { r.interval = d }
}

// WithTelemetry sets the telemetry provider used to record refreshes.
func WithTelemetry(p telemetry.Provider) Option {
	return func(r *Repository) { r.telemetry = p }
}

// New creates a repository with an empty initial snapshot.
func New(opts ...Option) *Repository {
	r := &Repository{
		telemetry: telemetry.NewNoOp(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.current.Store(&snapshot{features: map[string]*domain.FeatureDefinition{}})
	return r
}

// Publish replaces the current snapshot with a new one built from the
// given set. The set is copied into a fresh index; the swap is a
// single atomic store.
func (r *Repository) Publish(set *domain.FeatureSet) {
	features := make(map[string]*domain.FeatureDefinition, len(set.Features))
	for i := range set.Features {
		f := set.Features[i]
		features[f.Name] = &f
	}

	r.current.Store(&snapshot{
		version:  set.Version,
		sequence: r.sequence.Add(1),
		features: features,
	})

	r.mu.Lock()
	r.lastRefresh = time.Now()
	r.consecutiveFails = 0
	r.mu.Unlock()
}

// Get returns the named definition from the current snapshot. The
// returned definition is immutable and remains valid even if a new
// snapshot is published while the caller is still using it.
func (r *Repository) Get(name string) (*domain.FeatureDefinition, bool) {
	f, ok := r.current.Load().features[name]
	return f, ok
}

// Lookup returns the named definition together with the sequence of
// the snapshot it came from. Both come from a single dereference of
// the current snapshot, the one capture an evaluation works against.
func (r *Repository) Lookup(name string) (*domain.FeatureDefinition, uint64, bool) {
	snap := r.current.Load()
	f, ok := snap.features[name]
	return f, snap.sequence, ok
}

// Names returns the names of all definitions in the current snapshot.
func (r *Repository) Names() []string {
	features := r.current.Load().features
	names := make([]string, 0, len(features))
	for name := range features {
		names = append(names, name)
	}
	return names
}

// Len returns the number of definitions in the current snapshot.
func (r *Repository) Len() int {
	return len(r.current.Load().features)
}

// Sequence identifies the current snapshot generation. It increases
// with every publish and keys the optional evaluation cache.
func (r *Repository) Sequence() uint64 {
	return r.current.Load().sequence
}

// Version returns the document version of the current snapshot.
func (r *Repository) Version() int {
	return r.current.Load().version
}

// LastRefresh returns when a snapshot was last published.
func (r *Repository) LastRefresh() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastRefresh
}

// ConsecutiveFails returns the number of refresh attempts that have
// failed since the last successful publish.
func (r *Repository) ConsecutiveFails() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.consecutiveFails
}

// Start begins background polling when a fetcher and interval are
// configured. It does not perform the initial sync; callers decide
// whether a failed first fetch is fatal.
func (r *Repository) Start(ctx context.Context) {
	r.ctx, r.cancel = context.WithCancel(ctx)

	if r.fetcher != nil && r.interval > 0 {
		r.wg.Add(1)
		go r.refreshLoop()
	}
}

// Sync fetches and publishes a new snapshot once. A failed fetch or
// parse publishes nothing; the previous snapshot stays current.
func (r *Repository) Sync(ctx context.Context) error {
	if r.fetcher == nil {
		return fmt.Errorf("no fetcher configured")
	}

	ctx, span := r.telemetry.StartSpan(ctx, "repository.sync")
	defer span.End()

	start := time.Now()
	set, err := r.fetcher.Fetch(ctx)
	if err != nil {
		r.mu.Lock()
		r.consecutiveFails++
		r.mu.Unlock()
		span.RecordError(err)
		r.telemetry.RecordRefresh(ctx, false, time.Since(start), 0)
		return fmt.Errorf("refresh failed: %w", err)
	}

	r.Publish(set)
	span.SetAttributes(telemetry.Int("feature.count", len(set.Features)))
	r.telemetry.RecordRefresh(ctx, true, time.Since(start), len(set.Features))
	return nil
}

// Stop halts background polling and waits for it to finish.
func (r *Repository) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
}

// refreshLoop polls the fetcher on the configured interval until the
// repository is stopped.
func (r *Repository) refreshLoop() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			// Errors are recorded through telemetry and absorbed; the
			// previous snapshot keeps serving.
			_ = r.Sync(r.ctx)
		}
	}
}
