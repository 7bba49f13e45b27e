// Package store archives recorded runs in SQLite.
//
// A run is one execution of one algorithm on one input. The archive keeps
// the canonical input, its run key, and every step as canonical JSON, so a
// run read back is byte-for-byte what was recorded.
//
// # Tables
//
//   - runs: one row per run, keyed by id, ordered by seq
//   - steps: one row per step, keyed by (run_id, number)
//
// # Ordering
//
// Runs are ordered by seq, a logical counter assigned at write time, never
// by wall time. Queries that return several runs order by
// seq and then id COLLATE BINARY.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON: steps are deleted with their run
package store
