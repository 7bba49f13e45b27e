// Package harness runs playback scenarios: scripted command sequences
// against a real playback engine, checked by assertions and golden traces.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: autoplay_stops_at_end
//	description: "Auto-play advances once per tick and pauses on the last step"
//	algorithm: bubble_sort      # or: synthetic_steps: 5
//	input: {array: [3, 1, 2]}
//	speed_ms: 500
//	flow:
//	  - command: toggle_play
//	    expect: {playing: true, ticker: true}
//	  - command: tick
//	    times: 3
//	assertions:
//	  - type: final_view
//	    view: {index: 3, playing: false}
//	  - type: highlight
//	    color: swapped
//
// # Commands
//
// load, first, previous, next, last, toggle_play, set_speed (speed_ms),
// key (key, e.g. "shift+right") and tick. A tick fires the engine's
// auto-play timer; with no timer running it is recorded as missed.
//
// # Assertion Types
//
//   - final_view: the view after the last command matches
//   - step_values: the array values of the first, last or n-th step
//   - highlight: some step carries a highlight of the given color
//   - operation_count: exactly count steps have the given operation
//   - tickers_created: the engine acquired its timer exactly count times
//
// # Determinism
//
// The engine runs on a manual clock, so the trace (one event per command,
// with the resulting view) is identical on every run and is compared
// against testdata/golden/<name>.golden.
package harness
