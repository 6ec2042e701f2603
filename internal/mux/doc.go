// Package mux defines the muxing job configuration and the contract reel
// requires from a Muxer.
//
// Config is built once per attempt and validated against the platform's
// codec support at construction time. Only its codec may change afterwards,
// and only while no job built from it is running; Begin hands the running job
// an immutable Settings snapshot so a later codec change never reaches a job
// already in flight.
//
// Config errors wrap one of the package sentinels (ErrUnsupportedCodec,
// ErrInvalidDimensions, ...) inside services.ErrValidation, so callers can
// match either level with errors.Is.
package mux
