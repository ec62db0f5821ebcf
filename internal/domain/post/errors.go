package post

import (
	"errors"
	"fmt"
)

// ErrIdentityUnresolved means a post has no derivable canonical URL. Such
// a post cannot be deduplicated and must be skipped without touching the
// ledger.
var ErrIdentityUnresolved = errors.New("post identity unresolved: no derivable canonical URL")

// Stage names the pipeline step a failure belongs to.
type Stage string

const (
	StageCapture     Stage = "capture"
	StageEnrichment  Stage = "enrichment"
	StagePersistence Stage = "persistence"
	StageUpload      Stage = "upload"
)

// PipelineError wraps a failure with enough context (stage, URL) to
// diagnose it from the logs. Failures local to one post never abort the
// term-level loop.
type PipelineError struct {
	Stage Stage
	URL   string
	Err   error
}

func (e *PipelineError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s failed for %s: %v", e.Stage, e.URL, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// NewStageError builds a PipelineError for the given stage.
func NewStageError(stage Stage, url string, err error) *PipelineError {
	return &PipelineError{Stage: stage, URL: url, Err: err}
}

// IsStage reports whether err carries the given pipeline stage.
func IsStage(err error, stage Stage) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Stage == stage
	}
	return false
}
