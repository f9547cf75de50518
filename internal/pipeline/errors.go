package pipeline

import "errors"

// ErrProcessingFailed identifies a pipeline run that could not produce a result.
// Validation verdicts such as FAIL or NEEDS_INFO are results, never this error.
var ErrProcessingFailed = errors.New("processing failed")

// ProcessingError is the single failure shape returned by the pipeline
type ProcessingError struct {
	Detail string
	Err    error
}

func (e *ProcessingError) Error() string {
	return "processing failed: " + e.Detail
}

// Is matches ErrProcessingFailed
func (e *ProcessingError) Is(target error) bool {
	return target == ErrProcessingFailed
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}
