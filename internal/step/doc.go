// Package step defines the recorded-execution model shared by the algorithm
// backend and the playback engine.
//
// A run of one algorithm on one input produces an ordered []Step. Each Step
// carries a full snapshot of the visualized data structure (never a diff),
// the highlights that mark notable elements of that snapshot, and free-form
// metadata including the source line that emitted it.
//
// # Invariants
//
//   - Steps are numbered 1..N in emission order by a logical clock.
//   - The first step reflects the input; the last step reflects the result.
//   - Snapshots are deep-copied at emission, so no two steps share backing
//     arrays and any step can be rendered in isolation.
//   - Highlights refer only to elements present in their own step's state.
//
// The Recorder enforces the last three at construction time. Validate
// re-checks a sequence received from elsewhere (an archive, a client).
//
// # Canonical form
//
// MarshalCanonical produces RFC 8785 JSON (sorted keys, NFC strings, integers
// only). It is the only encoding used for content hashes (RunKey,
// SequenceHash), so identical runs hash identically across processes.
package step
