// Package server implements `reel serve`: it owns the interactive loop,
// holds a single-instance file lock, and exposes a JSON control API plus an
// optional Prometheus endpoint.
//
// Routes:
//
//	GET  /api/state   gate actions, orchestrator state, selected codec
//	POST /api/create  start a job; {"wait": true} blocks for the outcome
//	POST /api/codec   select the codec for subsequent jobs
//	POST /api/replay  return the current target
//	POST /api/share   share the current target
//	GET  /api/jobs    job history, newest first
//	GET  /metrics     Prometheus exposition when metrics are enabled
package server
