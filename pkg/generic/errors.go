package generic

import "fmt"

// StateError is raised when a Node is asked for something its sort does not
// carry, such as the type arguments of a wildcard or the source of a detached
// variable. Accessors panic with a *StateError, the same way the reflect
// package panics on a Kind mismatch.
type StateError struct {
	Op   string
	Sort Sort
	Msg  string
}

func (e *StateError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	}
	return fmt.Sprintf("%s: invalid for this sort (%s)", e.Op, e.Sort)
}

func invalidFor(op string, sort Sort) *StateError {
	return &StateError{Op: op, Sort: sort}
}

// UnsupportedShapeError is returned by a visitor that refuses a shape.
type UnsupportedShapeError struct {
	Visitor string
	Sort    Sort
	Node    string
}

func (e *UnsupportedShapeError) Error() string {
	return fmt.Sprintf("%s: unsupported %s: %s", e.Visitor, e.Sort, e.Node)
}

func unsupported(visitor string, n Node) *UnsupportedShapeError {
	return &UnsupportedShapeError{Visitor: visitor, Sort: n.Sort(), Node: n.String()}
}

// IllegalArgumentError reports a caller-supplied value that cannot be used,
// e.g. attaching a symbol that is not visible from the attachment site.
type IllegalArgumentError struct {
	Msg string
}

func (e *IllegalArgumentError) Error() string {
	return e.Msg
}

func illegalArgument(format string, args ...any) *IllegalArgumentError {
	return &IllegalArgumentError{Msg: fmt.Sprintf(format, args...)}
}

// UnknownVariableError is returned when a required substitution meets a type
// variable it has no mapping for. It always indicates a bug in the caller.
type UnknownVariableError struct {
	Symbol string
	Source string
}

func (e *UnknownVariableError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("unknown variable: %s", e.Symbol)
	}
	return fmt.Sprintf("unknown variable: %s declared by %s", e.Symbol, e.Source)
}

// ArityError is returned when a parameterized type is built with the wrong
// number of type arguments.
type ArityError struct {
	Type     string
	Expected int
	Actual   int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s: expected %d type arguments, got %d", e.Type, e.Expected, e.Actual)
}

// MalformedSignatureError marks a declaration whose stored generic signature
// could not be read. Its erasure stays usable; only generic queries fail.
type MalformedSignatureError struct {
	Erasure string
	Err     error
}

func (e *MalformedSignatureError) Error() string {
	return fmt.Sprintf("malformed generic signature for %s: %v", e.Erasure, e.Err)
}

func (e *MalformedSignatureError) Unwrap() error {
	return e.Err
}
