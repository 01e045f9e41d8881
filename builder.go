package keymint

import (
	"context"
	"time"

	"github.com/keymint/keymint/internal"
	"github.com/keymint/keymint/internal/flows"
	"github.com/keymint/keymint/storage"
)

// Builder assembles a [Manager]. A builder is single-use: Build returns
// [ErrBuilderUsed] on the second call.
type Builder struct {
	config Config
	store  storage.Storage
	clock  func() time.Time

	auditSink AuditSink

	built bool
}

// New creates a builder seeded with the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the entire configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithStorage sets the persistence backend. Required.
func (b *Builder) WithStorage(store storage.Storage) *Builder {
	b.store = store
	return b
}

// WithClock overrides the time source. Tests use this to simulate expiration
// deterministically; production builds leave it unset and get time.Now.
func (b *Builder) WithClock(clock func() time.Time) *Builder {
	b.clock = clock
	return b
}

// WithAuditSink sets the audit event consumer and enables audit dispatch.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	b.config.Audit.Enabled = sink != nil
	return b
}

// WithMetricsEnabled toggles in-process metric counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles validation latency histograms.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and wires the manager. Construction is
// allocation-only; no storage I/O happens until the first operation.
func (b *Builder) Build() (*Manager, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}

	cfg := cloneConfig(b.config)

	if b.store == nil {
		return nil, ErrStorageRequired
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	clock := b.clock
	if clock == nil {
		clock = time.Now
	}

	m := &Manager{
		config:  cfg,
		store:   b.store,
		clock:   clock,
		audit:   newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics: NewMetrics(cfg.Metrics),
	}

	consume := consumeFunc(b.store)
	secretLength := cfg.Token.SecretLength

	generateDeps := flows.GenerateDeps{
		NewPlaintext: func() (string, error) {
			return internal.NewTokenPlaintext(secretLength)
		},
		HashToken:  internal.HashToken,
		Now:        clock,
		AccessTTL:  cfg.Token.AccessTTL,
		RefreshTTL: cfg.Token.RefreshTTL,
		Store:      b.store,
	}

	m.deps = flows.Deps{
		Generate: generateDeps,
		Validate: flows.ValidateDeps{
			HashToken: internal.HashToken,
			Now:       clock,
			Store:     b.store,
			Warn:      m.warn,
		},
		Refresh: flows.RefreshDeps{
			HashToken: internal.HashToken,
			Now:       clock,
			Store:     b.store,
			Consume:   consume,
			Generate: func(ctx context.Context, userID string, scopes []string) flows.GenerateResult {
				return flows.RunGenerate(ctx, userID, scopes, generateDeps)
			},
			Warn: m.warn,
		},
		Revoke: flows.RevokeDeps{
			HashToken: internal.HashToken,
			Store:     b.store,
			Consume:   consume,
		},
	}

	b.built = true

	return m, nil
}

// consumeFunc prefers the backend's atomic get-and-delete. The fallback is
// the documented lookup-then-delete window: it reports existed=true whenever
// the read saw the record, so a racing duplicate may also report success.
func consumeFunc(store storage.Storage) func(context.Context, string) (*storage.Record, bool, error) {
	if consumer, ok := store.(storage.Consumer); ok {
		return consumer.Consume
	}
	return func(ctx context.Context, key string) (*storage.Record, bool, error) {
		record, ok, err := store.Get(ctx, key)
		if err != nil || !ok {
			return nil, false, err
		}
		if err := store.Delete(ctx, key); err != nil {
			return nil, false, err
		}
		return record, true, nil
	}
}
