package chat

import (
	"errors"
	"fmt"

	"github.com/guidechat/backend/pkg/backlink"
)

// Stage names the pipeline step an error came from.
type Stage string

const (
	StageLoad     Stage = "load"
	StageAugment  Stage = "augment"
	StageGenerate Stage = "generate"
	StageExtract  Stage = "extract"
)

// StageError wraps a pipeline failure with where it happened. Its message is
// the underlying error's, which is what users get to see.
type StageError struct {
	Stage    Stage
	Category string
	Err      error
}

func (e *StageError) Error() string {
	return e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// StageOf returns the stage recorded in err, or "" if there is none.
func StageOf(err error) Stage {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Stage
	}
	return ""
}

const apology = "I'm sorry, I had a problem processing that request. (Error: %s)"

// FallbackResponse is what callers receive when the pipeline fails.
func FallbackResponse(err error) Response {
	return Response{
		Text:    fmt.Sprintf(apology, err.Error()),
		Sources: []backlink.Source{},
	}
}
