package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrNoScenes          = errors.New("no scenes to assemble")
	ErrMissingMedia      = errors.New("missing image or audio")
	ErrEngineUnavailable = errors.New("media engine unavailable")
	ErrSubtitleRender    = errors.New("subtitle render failed")
	ErrSceneEncode       = errors.New("scene encode failed")
	ErrConcat            = errors.New("segment concatenation failed")
)

// StageError ties a failure to the pipeline stage and, when relevant, the
// 1-based position of the scene being processed.
type StageError struct {
	Stage string
	Scene int
	Err   error
}

func (e *StageError) Error() string {
	if e.Scene > 0 {
		return fmt.Sprintf("%s: Scene %d: %v", e.Stage, e.Scene, e.Err)
	}
	return e.Stage + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() error { return e.Err }
