package di

import (
	"errors"
	"reflect"

	"github.com/sghaida/odic/di/resolution"
)

var (
	// ErrContainerDisposed is returned by every operation on a disposed
	// container.
	ErrContainerDisposed = errors.New("di: container disposed")

	// ErrLazyUnbound is returned when a Lazy was not produced by a container.
	ErrLazyUnbound = errors.New("di: lazy value is not bound to a container")
)

// The error taxonomy lives in the resolution package; these aliases let
// callers match errors without importing it.
type (
	CircularDependencyError   = resolution.CircularDependencyError
	ParameterResolutionError  = resolution.ParameterResolutionError
	ResolutionFailedError     = resolution.ResolutionFailedError
	AmbiguousConstructorError = resolution.AmbiguousConstructorError
	NoConstructorError        = resolution.NoConstructorError
	InvalidRegistrationError  = resolution.InvalidRegistrationError
	ConstructionError         = resolution.ConstructionError
	DepthExceededError        = resolution.DepthExceededError
	InvalidKeyError           = resolution.InvalidKeyError
)

// TypeMismatchError is returned when a resolved object is not of the type
// the caller asked for.
type TypeMismatchError struct {
	// Want is the requested type.
	Want reflect.Type

	// GotType is reflect.TypeOf(obj).String() for the resolved object.
	GotType string
}

// Error implements the error interface.
func (e TypeMismatchError) Error() string {
	// Example: di: resolved *app.Impl, want app.Other
	want := "<nil>"
	if e.Want != nil {
		want = e.Want.String()
	}
	return "di: resolved " + e.GotType + ", want " + want
}
