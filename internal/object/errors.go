package object

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	TypeError       ErrorKind = "TypeError"
	ArityError      ErrorKind = "ArityError"
	IndexError      ErrorKind = "IndexError"
	ArithmeticError ErrorKind = "ArithmeticError"
	DatabaseError   ErrorKind = "DatabaseError"
	NativeError     ErrorKind = "NativeError"
	RecursionError  ErrorKind = "RecursionError"
)

// RuntimeError is the catchable error raised while evaluating a program.
// Line and Column are zero until the evaluator attaches the position of the
// node that raised it.
type RuntimeError struct {
	Kind    ErrorKind
	Message string
	Line    int
	Column  int
}

func NewError(kind ErrorKind, format string, a ...interface{}) *RuntimeError {
	return &RuntimeError{Kind: kind, Message: fmt.Sprintf(format, a...)}
}

func (re *RuntimeError) Error() string {
	if re.Line == 0 {
		return fmt.Sprintf("%s: %s", re.Kind, re.Message)
	}
	return fmt.Sprintf("%s [line %d:%d]: %s", re.Kind, re.Line, re.Column, re.Message)
}

// AsRuntimeError converts an error returned by native code. Runtime errors keep
// their kind, anything else becomes a NativeError.
func AsRuntimeError(err error) *RuntimeError {
	var rtErr *RuntimeError
	if errors.As(err, &rtErr) {
		return rtErr
	}
	return &RuntimeError{Kind: NativeError, Message: err.Error()}
}
