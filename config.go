package credstore

// Config carries engine-wide settings. Configure once, pass to
// [Builder.WithConfig], and treat as immutable afterwards.
type Config struct {
	Audit   AuditConfig
	Metrics MetricsConfig
}

// AuditConfig controls the diagnostic audit pipeline.
//
// Audit emission is a development and operations aid: it never changes the
// success or failure of an operation, and disabling it never suppresses an
// error return.
type AuditConfig struct {
	// Enabled starts the background audit dispatcher.
	Enabled bool

	// BufferSize is the dispatcher channel capacity. Values <= 0 fall back
	// to 1.
	BufferSize int

	// DropIfFull makes Emit drop events instead of blocking when the buffer
	// is full. Dropped events are counted; see [Engine.AuditDropped].
	DropIfFull bool

	// Quiet suppresses success events by default. Failure events are always
	// emitted, and a per-call WithVerbose option re-enables success events.
	Quiet bool
}

// MetricsConfig controls the in-process metric counters.
type MetricsConfig struct {
	Enabled bool

	// EnableLatencyHistograms additionally records the verify-password
	// latency histogram. Off by default since Compare latency is dominated
	// by the hasher work factor and mostly interesting during tuning.
	EnableLatencyHistograms bool
}

// DefaultConfig returns the configuration used by [New] before any overrides:
// audit enabled with a small drop-if-full buffer, metrics enabled, latency
// histogram off.
func DefaultConfig() Config {
	return Config{
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	// All fields are value types today; the clone exists so Builder mutations
	// never alias a caller-held Config.
	return cfg
}
