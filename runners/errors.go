package runners

import (
	"errors"
	"fmt"

	"github.com/tylerdata/taxiPipeline/operations"
)

var (
	ErrNoInputFound          = operations.ErrNoInputFound
	ErrLoad                  = errors.New("load failed")
	ErrTransform             = errors.New("transform failed")
	ErrPublish               = errors.New("publish failed")
	ErrLogUpdate             = errors.New("run log update failed")
	ErrPartitionRegistration = errors.New("partition registration failed")
	ErrRunnerInvalid         = errors.New("runner options invalid")
)

/*
* PipelineError tags the failing stage of a run. Both the stage kind and the
* underlying cause are reachable with errors.Is and errors.As.
 */
type PipelineError struct {
	Kind error
	Err  error
}

func newPipelineError(kind, err error) *PipelineError {
	return &PipelineError{Kind: kind, Err: err}
}

func (obj *PipelineError) Error() string {
	if obj.Err == nil {
		return obj.Kind.Error()
	}
	return fmt.Sprintf("%s| %s", obj.Kind, obj.Err)
}

func (obj *PipelineError) Unwrap() []error {
	return []error{obj.Kind, obj.Err}
}
