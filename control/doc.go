// Package control
// Author: momentics <momentics@gmail.com>
//
// Observability layer for the hugepage allocator: runtime metrics, debug
// probes, and a bounded trace of cold-path reservation events.
//
// Provides concurrent-safe primitives including:
//   - Metrics registry with gauges and counters
//   - Debug hooks, probe registration, and state export
//   - Fixed-capacity event journal for reservations, growth, and teardown
//
// Unlike the allocator itself, control types are safe for concurrent use:
// they sit between the owning goroutine and external observers. This
// package is cross-platform and build-tag-partitioned as needed.
package control
