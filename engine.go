package credstore

import "time"

// Engine hosts the credential operations. Engines are safe for concurrent use
// after [Builder.Build]; they hold no per-identity mutable state, only the
// hasher, optional default resolver, and the audit/metrics plumbing.
//
// Concurrent calls against different identity keys are fully independent.
// Concurrent calls against the same key are not serialized here: in
// particular, two racing [Engine.Register] calls can both pass the existence
// check before either inserts. Closing that race requires a uniqueness
// constraint inside the resolver, which is the only layer that can enforce it.
type Engine struct {
	config   Config
	resolver Resolver
	hasher   Hasher
	audit    *auditDispatcher
	metrics  *Metrics
}

// Close drains and stops the audit dispatcher. Safe on a nil engine and safe
// to call more than once.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped reports how many audit events were discarded under
// backpressure since the engine was built.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of all counters and
// histograms.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) metricObserve(id MetricID, d time.Duration) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Observe(id, d)
}

// resolverFor picks the per-call resolver, falling back to the engine
// default. The nil check itself belongs to validation so precedence order
// stays deterministic.
func (e *Engine) resolverFor(r Resolver) Resolver {
	if r != nil {
		return r
	}
	if e == nil {
		return nil
	}
	return e.resolver
}
