/*
Package monitoring provides performance monitoring and metrics collection.

# Overview

This package implements Prometheus-based metrics collection for the layout
engine, tracking morph animation behavior, restore latency, history churn,
and registry/session population.

# Features

- Morph run metrics (iterations, duration, outcome)
- Restore metrics (latency, failures, default-content substitutions)
- Undo/redo and snapshot-capture counters
- Registry and session population gauges
- Store save/load counters
- System metrics (uptime)

# Usage

	// Create metrics collector (once per process)
	metrics := monitoring.NewMetrics()

	// Record from engine components
	metrics.RecordMorph("completed", steps, elapsed)
	metrics.SetRegistryWorkgroups(reg.Len())

	// In-process inspection without an exposition endpoint
	snap := metrics.Snapshot()

The engine has no network surface, so nothing here serves an HTTP /metrics
endpoint; hosts embedding the engine expose the default Prometheus registry
however they already do.
*/
package monitoring
