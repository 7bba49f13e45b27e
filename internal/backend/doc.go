// Package backend executes algorithms on behalf of the server and the CLI.
//
// Executor wraps the algorithm registry with request coalescing, an
// optional run archive and Prometheus metrics. It satisfies
// playback.Executor, so a terminal session can run against it directly.
package backend
