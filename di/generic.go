package di

import (
	"reflect"

	"github.com/sghaida/odic/di/registration"
	"github.com/sghaida/odic/di/resolution"
)

// RegistrationOption configures a registration built by the Register helpers.
type RegistrationOption = registration.Option

// Registration options, re-exported for callers that only import di.
var (
	Named                = registration.Named
	Singleton            = registration.Singleton
	Transient            = registration.Transient
	DisposeWithContainer = registration.DisposeWithContainer
	WithPriority         = registration.WithPriority
	WithConstructor      = registration.WithConstructor
	WithParameterNames   = registration.WithParameterNames
)

// TypeOf returns the reflect.Type for T, including interface types.
func TypeOf[T any]() reflect.Type { return resolution.TypeOf[T]() }

// ---- Registration ----

// RegisterType registers implementation I for service S. I is built through
// its constructor: the WithConstructor functions, or for a struct pointer
// without one, a zero struct with inject-tagged fields resolved.
func RegisterType[S, I any](r Registrar, opts ...RegistrationOption) error {
	reg, err := registration.Type(TypeOf[S](), TypeOf[I](), opts...)
	if err != nil {
		return err
	}
	return r.Register(reg)
}

// RegisterFactory registers fn as the factory for S. fn must be a function
// returning a value assignable to S, optionally followed by an error; its
// parameters are resolved from the container.
func RegisterFactory[S any](r Registrar, fn any, opts ...RegistrationOption) error {
	reg, err := registration.Factory(TypeOf[S](), fn, opts...)
	if err != nil {
		return err
	}
	return r.Register(reg)
}

// RegisterInstance registers a fixed instance for S.
func RegisterInstance[S any](r Registrar, obj S, opts ...RegistrationOption) error {
	reg, err := registration.Instance(TypeOf[S](), obj, opts...)
	if err != nil {
		return err
	}
	return r.Register(reg)
}

// ---- Resolution ----

// Resolve resolves the unnamed T.
func Resolve[T any](r Resolver) (T, error) {
	return ResolveNamed[T](r, "")
}

// ResolveNamed resolves T registered under name. A named request falls back
// to the unnamed registration of T.
//
// It returns ResolutionFailedError when nothing can satisfy the request and
// TypeMismatchError when the resolved object is not a T.
func ResolveNamed[T any](r Resolver, name string) (T, error) {
	obj, err := r.Resolve(TypeOf[T](), name)
	if err != nil {
		var zero T
		return zero, err
	}
	return as[T](obj)
}

// MustResolve resolves the unnamed T or panics.
func MustResolve[T any](r Resolver) T {
	return MustResolveNamed[T](r, "")
}

// MustResolveNamed resolves T under name or panics.
func MustResolveNamed[T any](r Resolver, name string) T {
	v, err := ResolveNamed[T](r, name)
	if err != nil {
		panic(err)
	}
	return v
}

// TryResolve resolves the unnamed T. ok is false when nothing can satisfy
// the request; err is reserved for fatal conditions such as cycles.
func TryResolve[T any](r Resolver) (T, bool, error) {
	return TryResolveNamed[T](r, "")
}

// TryResolveNamed is TryResolve for a named T.
func TryResolveNamed[T any](r Resolver, name string) (T, bool, error) {
	var zero T
	obj, ok, err := r.TryResolve(TypeOf[T](), name)
	if err != nil || !ok {
		return zero, false, err
	}
	v, err := as[T](obj)
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}

// ResolveAll resolves every registration of T.
func ResolveAll[T any](r Resolver) ([]T, error) {
	objs, err := r.ResolveAll(TypeOf[T]())
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(objs))
	for _, obj := range objs {
		v, err := as[T](obj)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// HasRegistration reports whether T is registered under exactly name.
func HasRegistration[T any](r Resolver, name string) bool {
	return r.HasRegistration(TypeOf[T](), name)
}

// as converts a resolved object to T. A nil object yields the zero T.
func as[T any](obj any) (T, error) {
	var zero T
	if obj == nil {
		return zero, nil
	}
	v, ok := obj.(T)
	if !ok {
		return zero, TypeMismatchError{
			Want:    TypeOf[T](),
			GotType: reflect.TypeOf(obj).String(),
		}
	}
	return v, nil
}
