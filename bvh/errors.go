package bvh

import (
	"errors"
	"fmt"
)

var (
	ErrStructure              = errors.New("bvh: malformed hierarchy")
	ErrDuplicateJoint         = fmt.Errorf("%w: duplicate joint name", ErrStructure)
	ErrUnrecognizedChannel    = errors.New("bvh: unrecognized channel")
	ErrNumberFormat           = errors.New("bvh: invalid number")
	ErrIncompleteMotionHeader = errors.New("bvh: sample line before Frames and Frame Time")
	ErrUnknownJoint           = errors.New("bvh: unknown joint")
	ErrFrameOutOfRange        = errors.New("bvh: frame out of range")
)

// ParseError reports the line that could not be parsed.
type ParseError struct {
	Line int // 1-based, 0 if detected at end of input
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v at line %d: %q", e.Err, e.Line, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
