package credstore

import (
	"github.com/lockbay/credstore/password"
)

// Builder assembles an [Engine]. Construction is allocation-only; no I/O
// happens until the engine methods run.
//
// A zero resolver is allowed at build time: the stateless operations accept a
// resolver per call, and [Builder.WithResolver] only installs the fallback
// used when a call passes nil.
type Builder struct {
	config Config

	resolver Resolver
	hasher   Hasher
	sink     AuditSink

	hasherSet bool
	built     bool
}

// New returns a Builder primed with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the builder configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithResolver installs the default storage resolver, used whenever an
// operation is called with a nil resolver argument.
func (b *Builder) WithResolver(r Resolver) *Builder {
	b.resolver = r
	return b
}

// WithHasher installs the password hash primitive. When never called, Build
// falls back to bcrypt at [password.DefaultCost]. Passing nil explicitly is a
// build error, not a silent fallback.
func (b *Builder) WithHasher(h Hasher) *Builder {
	b.hasher = h
	b.hasherSet = true
	return b
}

// WithAuditSink installs the destination for audit events. Without a sink,
// an enabled audit pipeline emits into [NoOpSink].
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.sink = sink
	return b
}

// WithMetricsEnabled toggles metric collection without replacing the whole
// config.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the wiring and returns a ready engine. A builder builds at
// most once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}

	cfg := cloneConfig(b.config)

	hasher := b.hasher
	if b.hasherSet && hasher == nil {
		return nil, ErrNilHasher
	}
	if hasher == nil {
		bc, err := password.NewBcrypt(password.DefaultCost)
		if err != nil {
			return nil, err
		}
		hasher = bc
	}

	e := &Engine{
		config:   cfg,
		resolver: b.resolver,
		hasher:   hasher,
		metrics:  NewMetrics(cfg.Metrics),
		audit:    newAuditDispatcher(cfg.Audit, b.sink),
	}

	b.built = true
	return e, nil
}
