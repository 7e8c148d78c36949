package graphics

import (
	"errors"
	"fmt"
)

// ErrInvalidHandle is returned when a program that failed to build, or was
// destroyed, is used.
var ErrInvalidHandle = errors.New("invalid shader program handle")

// ErrUniformNotFound is returned for a uniform the linked program does not
// have, either undeclared or optimized out. It is recoverable.
var ErrUniformNotFound = errors.New("uniform not found")

// CompileError reports a shader stage that failed to compile.
type CompileError struct {
	Stage Stage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile %s shader: %s", e.Stage, e.Log)
}

// LinkError reports a program that failed to link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to link program: %s", e.Log)
}
