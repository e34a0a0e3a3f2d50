// Package prometheus renders credstore engine metrics in Prometheus text
// exposition format.
//
// [NewPrometheusExporter] accepts a [credstore.Engine] and exposes an
// [net/http.Handler] serving all engine counters and histograms. Counter
// names are prefixed credstore_*_total; the single histogram is
// credstore_verify_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry; callers mount the
//     Handler themselves.
//   - Mutate engine state.
package prometheus
