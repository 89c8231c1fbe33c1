package pxlsdump

import (
	"errors"
	"fmt"
)

// Stage identifies the step of the pipeline that failed.
type Stage int

// The pipeline stages, in the order they run.
const (
	StageInfo Stage = iota + 1
	StageBoard
	StageMap
	StageEncode
	StageRecord
)

func (s Stage) String() string {
	switch s {
	case StageInfo:
		return "fetch info"
	case StageBoard:
		return "fetch board data"
	case StageMap:
		return "map palette"
	case StageEncode:
		return "write image"
	case StageRecord:
		return "record snapshot"
	default:
		return fmt.Sprintf("stage %d", int(s))
	}
}

// Error is returned by the pipeline, it records which stage failed.
type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func stageError(s Stage, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Stage: s, Err: err}
}

// ExitCode returns the process exit status for err. Pipeline errors get a
// code per stage, anything else is 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var e *Error
	if errors.As(err, &e) {
		return 1 + int(e.Stage)
	}
	return 1
}
