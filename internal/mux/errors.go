package mux

import "errors"

var (
	// ErrUnsupportedCodec reports a codec outside the closed set or one the
	// platform does not currently support.
	ErrUnsupportedCodec = errors.New("unsupported codec")
	// ErrInvalidDimensions reports a non-positive width or height.
	ErrInvalidDimensions = errors.New("invalid dimensions")
	// ErrInvalidFrameCount reports a non-positive frame count.
	ErrInvalidFrameCount = errors.New("invalid frame count")
	// ErrInvalidOutput reports a missing output target.
	ErrInvalidOutput = errors.New("invalid output target")
	// ErrInvalidTiming reports a non-positive frame duration or bit rate.
	ErrInvalidTiming = errors.New("invalid timing")
	// ErrJobInProgress reports a codec change while a job built from the config is running.
	ErrJobInProgress = errors.New("job in progress")
)
