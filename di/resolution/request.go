package resolution

import (
	"reflect"
	"strconv"
)

// Request asks for an instance of ServiceType, optionally disambiguated by
// Name. Path is the ancestry that led to this request.
//
// Request is a value type; stages derive new requests instead of mutating.
type Request struct {
	ServiceType reflect.Type
	Name        string
	Path        Path
}

// NewRequest builds a top-level request with an empty path.
func NewRequest(serviceType reflect.Type, name string) Request {
	return Request{ServiceType: serviceType, Name: name}
}

// WithPath returns a copy of r carrying path.
func (r Request) WithPath(path Path) Request {
	r.Path = path
	return r
}

// WithServiceType returns a copy of r asking for t instead.
func (r Request) WithServiceType(t reflect.Type) Request {
	r.ServiceType = t
	return r
}

// WithName returns a copy of r with the given name.
func (r Request) WithName(name string) Request {
	r.Name = name
	return r
}

// Key returns the registry slot this request targets.
func (r Request) Key() RegistrationKey {
	return RegistrationKey{ServiceType: r.ServiceType, Name: r.Name}
}

// String renders the request as type or type("name").
func (r Request) String() string {
	return describe(r.ServiceType, r.Name)
}

func describe(t reflect.Type, name string) string {
	s := "<nil>"
	if t != nil {
		s = t.String()
	}
	if name == "" {
		return s
	}
	return s + "(" + strconv.Quote(name) + ")"
}

// IsReferenceType reports whether t is a type the engine constructs.
//
// Scalars, strings, arrays and struct values are rejected by the core
// resolver; only pointer-like kinds form service graphs.
func IsReferenceType(t reflect.Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}

// TypeOf returns the reflect.Type of T, including interface types.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
