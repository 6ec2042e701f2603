package orchestrator

import "errors"

var (
	// ErrAlreadyRunning rejects StartJob while another job is in flight.
	ErrAlreadyRunning = errors.New("a muxing job is already running")
	// ErrPermissionDenied rejects StartJob before the permission gate grants.
	ErrPermissionDenied = errors.New("permission gate has not granted job start")
	ErrNoImages         = errors.New("no images supplied")
	ErrNoAudio          = errors.New("no audio track supplied")
	// ErrFrameCountMismatch means the image list length differs from the
	// config frame count.
	ErrFrameCountMismatch = errors.New("image count does not match frame count")
	ErrNoOutput           = errors.New("muxer reported success without an output file")
)
