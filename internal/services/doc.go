// Package services defines shared utilities consumed by the orchestration
// layer and its external collaborators.
//
// Key responsibilities:
//   - Context helpers that stamp job IDs, stage names, and correlation
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that keep failures
//     classifiable (validation vs external tool vs transient) after they
//     cross package boundaries.
//
// Use these helpers when wiring new collaborators so error handling and
// observability stay uniform across the repository.
package services
