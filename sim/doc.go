// Package sim provides the core discrete-tick simulation engine for vsm-sim.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - item.go: Item lifecycle (queued → processing → transit/terminal) and time buckets
//   - station.go: Station configuration, advisories, and cumulative stats
//   - simulator.go: The eight-phase Tick transition and resource assignment
//
// # Architecture
//
// The engine is single-threaded and turn-based. An external driver calls
// Tick at whatever cadence it likes (manual step, timer, or tight loop);
// RateScheduler converts a ticks-per-second target into that cadence but
// plays no part in tick semantics. Supporting models are small and pure:
//   - workinghours.go: open/closed calendar per station
//   - transit.go: transit durations from distance or edge override
//   - clock.go: raw vs display elapsed time under the transit policy
//   - demand.go: exact-total arrival generation over a bounded horizon
//   - metrics.go: rolling, epoch-scoped completion window (lead time, PCE, throughput)
//
// # Determinism
//
// All randomness flows through a PartitionedRNG (rng.go) with per-subsystem
// derived seeds, so a fixed seed reproduces routing, quality, jitter, and
// arrival sequences bit for bit. Assignment order is stable: stations in
// graph order, queued items FIFO by queue-entry tick.
package sim
