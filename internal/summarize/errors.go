package summarize

import (
	"errors"
	"fmt"
)

var (
	// ErrSummarizationFailed matches every *Error.
	ErrSummarizationFailed = errors.New("summarization failed")
	// ErrReduceInputTooLarge means the partial summaries still exceeded the
	// model's input budget after the maximum number of collapse passes.
	ErrReduceInputTooLarge = errors.New("reduce input exceeds model input limit")
)

// Stage names the phase in which a failure happened.
type Stage string

const (
	StageMap    Stage = "map"
	StageReduce Stage = "reduce"
)

// Error reports a failed summarization. ChunkIndex is -1 when the failure is
// not tied to a single chunk. Level is the collapse depth (0 for the map
// phase and the first reduce).
type Error struct {
	Stage      Stage
	ChunkIndex int
	Level      int
	Err        error
}

func (e *Error) Error() string {
	if e.ChunkIndex >= 0 {
		return fmt.Sprintf("summarization failed in %s stage (chunk %d, level %d): %v", e.Stage, e.ChunkIndex, e.Level, e.Err)
	}
	return fmt.Sprintf("summarization failed in %s stage (level %d): %v", e.Stage, e.Level, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrSummarizationFailed }
