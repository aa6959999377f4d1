package internaltelemetry

import (
	"go.opentelemetry.io/otel/metric"
)

// ResolutionMetrics holds the metric instruments for prepared-transaction
// resolution passes.
type ResolutionMetrics struct {
	PassesCounter      metric.Int64Counter
	OpsCounter         metric.Int64Counter
	PassLatency        metric.Int64Histogram
	TablesPerPass      metric.Int64Histogram
	ActivePassesUpDown metric.Int64UpDownCounter
}

// NewResolutionMetrics creates and registers the resolution instruments on meter.
func NewResolutionMetrics(meter metric.Meter) (*ResolutionMetrics, error) {
	passesCounter, err := meter.Int64Counter(
		"modsort.resolution.passes",
		metric.WithDescription("Total number of resolution passes, by decision and outcome."),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}

	opsCounter, err := meter.Int64Counter(
		"modsort.resolution.ops",
		metric.WithDescription("Total number of modifications resolved, keyed or structural."),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}

	passLatency, err := meter.Int64Histogram(
		"modsort.resolution.duration",
		metric.WithDescription("Time spent sorting and resolving one transaction."),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	tablesPerPass, err := meter.Int64Histogram(
		"modsort.resolution.tables",
		metric.WithDescription("Number of tables visited by one resolution pass."),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}

	activePasses, err := meter.Int64UpDownCounter(
		"modsort.resolution.active",
		metric.WithDescription("Number of resolution passes in progress."),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}

	return &ResolutionMetrics{
		PassesCounter:      passesCounter,
		OpsCounter:         opsCounter,
		PassLatency:        passLatency,
		TablesPerPass:      tablesPerPass,
		ActivePassesUpDown: activePasses,
	}, nil
}
