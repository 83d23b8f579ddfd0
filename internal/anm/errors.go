package anm

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedEngine is matched by every *UnsupportedEngineError.
	ErrUnsupportedEngine = errors.New("unsupported engine version")

	// ErrTruncated reports a header field, table or event payload that lies
	// beyond the end of the buffer.
	ErrTruncated = errors.New("truncated data")

	// ErrCorrupt reports structurally inconsistent data: impossible counts,
	// out-of-range bone indices or parent slots, or a bone with no frame-0 pose.
	ErrCorrupt = errors.New("corrupt data")
)

// UnsupportedEngineError carries an engine version tag with no decoder.
type UnsupportedEngineError struct {
	Version EngineVersion
}

func (e *UnsupportedEngineError) Error() string {
	return fmt.Sprintf("anm: unsupported engine version: %s", e.Version)
}

func (e *UnsupportedEngineError) Is(target error) bool {
	return target == ErrUnsupportedEngine
}

// DecodeError locates a failure inside the animation data.
// Bone and Frame are -1 when they do not apply.
type DecodeError struct {
	Variant Variant
	Bone    int
	Frame   int
	Offset  int
	Err     error
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("anm: %s", e.Variant)
	if e.Bone >= 0 {
		msg += fmt.Sprintf(": bone %d", e.Bone)
	}
	if e.Frame >= 0 {
		msg += fmt.Sprintf(" frame %d", e.Frame)
	}
	if e.Offset >= 0 {
		msg += fmt.Sprintf(" at %#x", e.Offset)
	}
	return msg + ": " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
