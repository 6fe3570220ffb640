/*
 * Copyright (c) 2026 Firefly Software Solutions Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

/*
Package metrics provides in-process operation counters for SakayDB.

METRIC CATEGORIES:
==================
- Trips: added, rejected (invalid/duplicate), deleted
- Reads: searches, exports, statistics runs, OD-matrix runs
- Latency: cumulative operation latency

The counters are process-local and surfaced through the shell's `status`
command; SakayDB serves a single local user and exposes no network
endpoint for metrics.
*/
package metrics

import (
	"sync/atomic"
	"time"
)

// Metrics holds all SakayDB operation counters.
type Metrics struct {
	// Mutation metrics
	TripsAdded    atomic.Uint64
	TripsRejected atomic.Uint64
	TripsDeleted  atomic.Uint64

	// Read metrics
	Searches     atomic.Uint64
	Exports      atomic.Uint64
	StatRuns     atomic.Uint64
	ODMatrixRuns atomic.Uint64

	// Operation latency (in microseconds)
	OpLatencySum   atomic.Uint64
	OpLatencyCount atomic.Uint64
}

// Global metrics instance
var globalMetrics = &Metrics{}

// Get returns the global metrics instance.
func Get() *Metrics {
	return globalMetrics
}

// RecordOp records a completed operation's latency.
func (m *Metrics) RecordOp(latency time.Duration) {
	m.OpLatencySum.Add(uint64(latency.Microseconds()))
	m.OpLatencyCount.Add(1)
}

// AverageOpLatency returns the average operation latency in microseconds.
func (m *Metrics) AverageOpLatency() float64 {
	count := m.OpLatencyCount.Load()
	if count == 0 {
		return 0
	}
	return float64(m.OpLatencySum.Load()) / float64(count)
}

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	TripsAdded    uint64  `json:"trips_added"`
	TripsRejected uint64  `json:"trips_rejected"`
	TripsDeleted  uint64  `json:"trips_deleted"`
	Searches      uint64  `json:"searches"`
	Exports       uint64  `json:"exports"`
	StatRuns      uint64  `json:"stat_runs"`
	ODMatrixRuns  uint64  `json:"odmatrix_runs"`
	AvgLatencyUs  float64 `json:"avg_latency_us"`
}

// Snapshot returns a consistent-enough copy of the counters for display.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		TripsAdded:    m.TripsAdded.Load(),
		TripsRejected: m.TripsRejected.Load(),
		TripsDeleted:  m.TripsDeleted.Load(),
		Searches:      m.Searches.Load(),
		Exports:       m.Exports.Load(),
		StatRuns:      m.StatRuns.Load(),
		ODMatrixRuns:  m.ODMatrixRuns.Load(),
		AvgLatencyUs:  m.AverageOpLatency(),
	}
}
