// Package app assembles the orchestrator, its collaborators, and the gated
// user actions (create, replay, share, codec selection) behind one
// Controller used by both the CLI and the HTTP API.
//
// Open builds the production wiring from configuration: the ffmpeg muxer,
// the preflight permission gate, the SQLite job history, ntfy notifications,
// Prometheus metrics, and the share directory. Tests call New with fakes.
package app
