package completion

import (
	"errors"
	"strings"

	"reel/internal/services"
)

// Outcome is the single Success/Failure result of a muxing job.
type Outcome struct {
	ok     bool
	output string
	err    error
}

// Success returns an Outcome carrying the produced output file.
func Success(output string) Outcome {
	return Outcome{ok: true, output: output}
}

// Failure returns an Outcome carrying err. A nil err is replaced so a failure
// can never read as success.
func Failure(err error) Outcome {
	if err == nil {
		err = errors.New("muxing failed without an error description")
	}
	return Outcome{err: err}
}

// Succeeded reports whether the job produced an output file.
func (o Outcome) Succeeded() bool {
	return o.ok
}

// Output returns the produced file reference, empty on failure.
func (o Outcome) Output() string {
	return o.output
}

// Err returns the failure cause, nil on success.
func (o Outcome) Err() error {
	if o.ok {
		return nil
	}
	if o.err == nil {
		return errors.New("no outcome")
	}
	return o.err
}

// Description returns a one-line summary suitable for UI surfaces.
func (o Outcome) Description() string {
	if o.ok {
		return "created " + o.output
	}
	details := services.Details(o.Err())
	if msg := strings.TrimSpace(details.Message); msg != "" {
		if details.Cause != "" {
			return msg + ": " + details.Cause
		}
		return msg
	}
	return o.Err().Error()
}
