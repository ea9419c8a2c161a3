package resolution

import (
	"errors"
	"reflect"
	"strconv"
)

var (
	// ErrNilType is returned when a request or registration has no type.
	ErrNilType = errors.New("di: nil service type")

	// ErrFactoryPanic is wrapped around panics recovered from factories and
	// constructors.
	ErrFactoryPanic = errors.New("di: panic during factory execution")
)

// CircularDependencyError is returned when a registration is reached again
// while it is still being constructed.
type CircularDependencyError struct {
	// Registration is the registration found a second time.
	Registration Registration
	// Path is the ancestry at the point of detection.
	Path Path
}

// Error implements the error interface.
func (e CircularDependencyError) Error() string {
	// Example: di: circular dependency detected: *a.A -> *a.B -> *a.A
	return "di: circular dependency detected: " + e.Path.String() + " -> " + Describe(e.Registration)
}

// ParameterResolutionError is returned when a required factory parameter
// could not be resolved.
type ParameterResolutionError struct {
	Registration Registration
	Parameter    Parameter
	Path         Path
}

// Error implements the error interface.
func (e ParameterResolutionError) Error() string {
	// Example: di: cannot resolve parameter "db" (*sql.DB) of *app.Repo at <root>
	return "di: cannot resolve parameter " + strconv.Quote(e.Parameter.Name) +
		" (" + typeName(e.Parameter.Type) + ") of " + Describe(e.Registration) +
		" at " + e.Path.String()
}

// ResolutionFailedError is returned by mandatory entry points when the
// outermost result failed.
type ResolutionFailedError struct {
	Request Request
}

// Error implements the error interface.
func (e ResolutionFailedError) Error() string {
	// Example: di: unable to resolve app.Service("primary")
	return "di: unable to resolve " + e.Request.String()
}

// AmbiguousConstructorError is returned when more than one constructor shares
// the highest parameter count.
type AmbiguousConstructorError struct {
	Type       reflect.Type
	Parameters int
	Count      int
}

// Error implements the error interface.
func (e AmbiguousConstructorError) Error() string {
	// Example: di: ambiguous constructors for *app.Repo (2 with 3 parameters)
	return "di: ambiguous constructors for " + typeName(e.Type) +
		" (" + strconv.Itoa(e.Count) + " with " + strconv.Itoa(e.Parameters) + " parameters)"
}

// NoConstructorError is returned when a type registration has no usable
// constructor.
type NoConstructorError struct {
	Type reflect.Type
}

// Error implements the error interface.
func (e NoConstructorError) Error() string {
	return "di: no constructor available for " + typeName(e.Type)
}

// InvalidRegistrationError is returned when a registration is rejected.
type InvalidRegistrationError struct {
	Key    RegistrationKey
	Reason string
}

// Error implements the error interface.
func (e InvalidRegistrationError) Error() string {
	// Example: di: invalid registration app.Service("a"): already resolved and cached
	return "di: invalid registration " + e.Key.String() + ": " + e.Reason
}

// ConstructionError wraps an error returned by a factory or constructor.
type ConstructionError struct {
	Registration Registration
	Err          error
}

// Error implements the error interface.
func (e ConstructionError) Error() string {
	return "di: constructing " + Describe(e.Registration) + ": " + errString(e.Err)
}

// Unwrap returns the factory's error.
func (e ConstructionError) Unwrap() error { return e.Err }

// DepthExceededError is returned when a resolve call tree grows beyond the
// configured depth limit.
type DepthExceededError struct {
	Path  Path
	Limit int
}

// Error implements the error interface.
func (e DepthExceededError) Error() string {
	return "di: resolution depth limit " + strconv.Itoa(e.Limit) + " exceeded at " + e.Path.String()
}

// InvalidKeyError is returned when a registration name cannot be converted
// into a dictionary key type.
type InvalidKeyError struct {
	KeyType reflect.Type
	Name    string
	Err     error
}

// Error implements the error interface.
func (e InvalidKeyError) Error() string {
	// Example: di: name "blue" is not a valid app.Color: unknown color
	msg := "di: name " + strconv.Quote(e.Name) + " is not a valid " + typeName(e.KeyType)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the conversion error.
func (e InvalidKeyError) Unwrap() error { return e.Err }

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

func errString(err error) string {
	if err == nil {
		return "<nil>"
	}
	return err.Error()
}
