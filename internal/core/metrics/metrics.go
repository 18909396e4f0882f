// Package metrics defines the prometheus instruments of the rule API.
//
// Instruments register on the default registry through promauto and are
// served by Handler. Recording functions keep label values in one place so
// call sites cannot drift.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc/codes"

	"github.com/coachkit/rulekeeper/internal/types"
)

const namespace = "rulekeeper"

var (
	// conflictChecks counts conflict reports by outcome.
	// Labels: outcome (clear, advisory, blocked)
	conflictChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "authoring",
		Name:      "conflict_checks_total",
		Help:      "Conflict checks by outcome",
	}, []string{"outcome"})

	// conflictEntries counts reported relationships.
	// Labels: kind (critical, specific, info)
	conflictEntries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "authoring",
		Name:      "conflict_entries_total",
		Help:      "Reported rule relationships by kind",
	}, []string{"kind"})

	// savesBlocked counts saves and activations refused on a critical conflict.
	// Labels: operation (save, activate)
	savesBlocked = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "authoring",
		Name:      "saves_blocked_total",
		Help:      "Saves and activations blocked by a critical conflict",
	}, []string{"operation"})

	// resolutions counts adjustment resolutions.
	// Labels: category, matched (true, false)
	resolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "evaluation",
		Name:      "resolutions_total",
		Help:      "Adjustment resolutions by category and whether any rule matched",
	}, []string{"category", "matched"})

	// resolveLatency measures rule loading plus resolution.
	resolveLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "evaluation",
		Name:      "resolve_duration_seconds",
		Help:      "Adjustment resolution latency in seconds",
		Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
	})

	// contradictions counts critical pairs applied together at runtime.
	contradictions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "evaluation",
		Name:      "contradictions_total",
		Help:      "Contradicting rule pairs applied together during resolution",
	})

	// grpcRequests counts handled RPCs.
	// Labels: method, code
	grpcRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "grpc",
		Name:      "requests_total",
		Help:      "gRPC requests by method and status code",
	}, []string{"method", "code"})
)

// RecordConflictCheck records one conflict report.
func RecordConflictCheck(entries []types.ConflictEntry, blocked bool) {
	outcome := "clear"
	switch {
	case blocked:
		outcome = "blocked"
	case len(entries) > 0:
		outcome = "advisory"
	}
	conflictChecks.WithLabelValues(outcome).Inc()

	for _, e := range entries {
		conflictEntries.WithLabelValues(e.Kind.String()).Inc()
	}
}

// RecordBlocked records a refused save ("save") or activation ("activate").
func RecordBlocked(operation string) {
	savesBlocked.WithLabelValues(operation).Inc()
}

// RecordResolution records one resolution and its latency.
func RecordResolution(category types.Category, matched bool, contradictionCount int, seconds float64) {
	m := "false"
	if matched {
		m = "true"
	}
	resolutions.WithLabelValues(string(category), m).Inc()
	resolveLatency.Observe(seconds)
	contradictions.Add(float64(contradictionCount))
}

// RecordRequest records one handled RPC by its short method name.
func RecordRequest(method string, code codes.Code) {
	grpcRequests.WithLabelValues(method, code.String()).Inc()
}

// Handler serves the default registry in the prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
