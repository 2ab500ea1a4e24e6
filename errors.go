package vidrender

import (
	"errors"
	"fmt"
)

// Common render context errors.
var (
	// ErrClosed is returned by operations on a closed Context.
	ErrClosed = errors.New("vidrender: context closed")

	// ErrFrameRange is returned for output frame numbers outside the stream.
	ErrFrameRange = errors.New("vidrender: frame number out of range")
)

// Stage names the step of the per-frame sequence that failed.
type Stage string

// Frame stages.
const (
	StageSource   Stage = "source"
	StageMetadata Stage = "metadata"
	StageUpload   Stage = "upload"
	StageRender   Stage = "render"
	StageDownload Stage = "download"
)

// FrameError is the error returned when an output frame cannot be produced.
// The context stays usable for other frames.
type FrameError struct {
	Frame int
	Stage Stage

	// Log is the renderer's diagnostic output, if any.
	Log string
	Err error
}

func (e *FrameError) Error() string {
	msg := fmt.Sprintf("vidrender: frame %d: %s: %v", e.Frame, e.Stage, e.Err)
	if e.Log != "" {
		msg += "\n" + e.Log
	}
	return msg
}

func (e *FrameError) Unwrap() error { return e.Err }

// LogError is implemented by renderer errors that carry a diagnostic log.
type LogError interface {
	error
	Log() string
}

func frameError(n int, stage Stage, err error) *FrameError {
	fe := &FrameError{Frame: n, Stage: stage, Err: err}
	var le LogError
	if errors.As(err, &le) {
		fe.Log = le.Log()
	}
	return fe
}
