package builder

import (
	"errors"
	"fmt"
)

// ErrContainerDirNotFound is wrapped by the StructuralError returned when the
// container directory is absent.
var ErrContainerDirNotFound = errors.New("container directory not found")

// StructuralError means the project layout itself is unusable. It aborts the
// run; nothing else does.
type StructuralError struct {
	Path string
	Err  error
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Path)
}

func (e *StructuralError) Unwrap() error {
	return e.Err
}
