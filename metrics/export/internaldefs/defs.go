package internaldefs

import (
	"github.com/lockbay/credstore"
)

// CounterDef names one engine counter for export.
type CounterDef struct {
	ID   credstore.MetricID
	Name string
	Help string
}

// HistogramDef names one engine histogram for export.
type HistogramDef struct {
	ID   credstore.MetricID
	Name string
	Help string
}

// CounterDefs maps every engine counter to its exported name. Exporters
// iterate this slice so counters appear in a stable order.
var CounterDefs = []CounterDef{
	{ID: credstore.MetricFindHit, Name: "credstore_find_hit_total", Help: "Lookups that located a credential record."},
	{ID: credstore.MetricFindMiss, Name: "credstore_find_miss_total", Help: "Lookups that found no record."},
	{ID: credstore.MetricRegisterSuccess, Name: "credstore_register_success_total", Help: "Completed registrations."},
	{ID: credstore.MetricRegisterDuplicate, Name: "credstore_register_duplicate_total", Help: "Registrations rejected because the identity already existed."},
	{ID: credstore.MetricRegisterFailure, Name: "credstore_register_failure_total", Help: "Registrations that failed after the existence check."},
	{ID: credstore.MetricVerifySuccess, Name: "credstore_verify_success_total", Help: "Password verifications that matched."},
	{ID: credstore.MetricVerifyFailure, Name: "credstore_verify_failure_total", Help: "Password verifications that did not match."},
	{ID: credstore.MetricSetPasswordSuccess, Name: "credstore_set_password_success_total", Help: "Completed password digest updates."},
	{ID: credstore.MetricSetPasswordFailure, Name: "credstore_set_password_failure_total", Help: "Failed password digest updates."},
}

// HistogramDefs maps the engine histograms to their exported names.
var HistogramDefs = []HistogramDef{
	{ID: credstore.MetricVerifyLatency, Name: "credstore_verify_latency_seconds", Help: "Password verification latency histogram."},
}

// HistogramBounds are the upper bucket bounds in seconds, matching the engine
// histogram layout.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix are the bounds rendered as instrument name suffixes
// for backends that reject label syntax in names.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates a raw snapshot slice to the fixed bucket
// count. Snapshots from a histogram-disabled engine come back empty.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to the cumulative form both
// Prometheus and OTel expect.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
