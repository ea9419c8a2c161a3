package registration

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/sghaida/odic/di/resolution"
)

var (
	// ErrNotFunc is returned when a constructor or factory is not a function.
	ErrNotFunc = errors.New("di: constructor must be a function")

	// ErrBadSignature is returned when a function does not return T or (T, error).
	ErrBadSignature = errors.New("di: constructor must return T or (T, error)")

	// ErrVariadic is returned for variadic constructors.
	ErrVariadic = errors.New("di: variadic constructors are not supported")

	// ErrTooManyNames is returned when more parameter names than parameters
	// are supplied.
	ErrTooManyNames = errors.New("di: more parameter names than parameters")
)

// InjectTag is the struct tag read by the struct constructor.
const InjectTag = "inject"

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Constructor is a reflected function producing an instance from resolved
// parameters.
type Constructor struct {
	fn         reflect.Value
	out        reflect.Type
	params     []resolution.Parameter
	returnsErr bool
}

// NewConstructor inspects fn, which must be func(...) T or
// func(...) (T, error). names label the parameters in order.
func NewConstructor(fn any, names ...string) (Constructor, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return Constructor{}, ErrNotFunc
	}
	t := v.Type()
	if t.IsVariadic() {
		return Constructor{}, ErrVariadic
	}
	switch {
	case t.NumOut() == 1:
	case t.NumOut() == 2 && t.Out(1) == errorType:
	default:
		return Constructor{}, ErrBadSignature
	}
	if len(names) > t.NumIn() {
		return Constructor{}, ErrTooManyNames
	}

	params := make([]resolution.Parameter, t.NumIn())
	for i := range params {
		params[i].Type = t.In(i)
		if i < len(names) {
			params[i].Name = names[i]
		}
	}
	return Constructor{
		fn:         v,
		out:        t.Out(0),
		params:     params,
		returnsErr: t.NumOut() == 2,
	}, nil
}

// Out returns the constructed type.
func (c Constructor) Out() reflect.Type { return c.out }

// Parameters returns the declared parameters.
func (c Constructor) Parameters() []resolution.Parameter { return c.params }

// RequiresParameterResolution implements resolution.FactoryAdapter.
func (c Constructor) RequiresParameterResolution() bool { return len(c.params) > 0 }

// Execute implements resolution.FactoryAdapter. Panics are recovered into
// errors wrapping resolution.ErrFactoryPanic.
func (c Constructor) Execute(args []any) (obj any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			obj = nil
			err = fmt.Errorf("%w: %v", resolution.ErrFactoryPanic, rec)
		}
	}()

	in, err := callArgs(c.params, args)
	if err != nil {
		return nil, err
	}
	out := c.fn.Call(in)
	if c.returnsErr {
		if e, _ := out[1].Interface().(error); e != nil {
			return nil, e
		}
	}
	return out[0].Interface(), nil
}

func callArgs(params []resolution.Parameter, args []any) ([]reflect.Value, error) {
	if len(args) != len(params) {
		return nil, errors.New("di: argument count does not match parameters")
	}
	in := make([]reflect.Value, len(params))
	for i, p := range params {
		v, err := argValue(p, args[i])
		if err != nil {
			return nil, err
		}
		in[i] = v
	}
	return in, nil
}

func argValue(p resolution.Parameter, arg any) (reflect.Value, error) {
	if arg == nil {
		return reflect.Zero(p.Type), nil
	}
	v := reflect.ValueOf(arg)
	if !v.Type().AssignableTo(p.Type) {
		return reflect.Value{}, errors.New("di: argument of type " + v.Type().String() +
			" is not assignable to parameter " + p.Type.String())
	}
	return v, nil
}

// structConstructor allocates a zero struct and fills exported fields tagged
// with InjectTag.
type structConstructor struct {
	typ    reflect.Type // pointer to struct
	fields []int
	params []resolution.Parameter
}

// canConstructStruct reports whether t is a pointer to struct.
func canConstructStruct(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct
}

func newStructConstructor(t reflect.Type) *structConstructor {
	sc := &structConstructor{typ: t}
	elem := t.Elem()
	for i := 0; i < elem.NumField(); i++ {
		f := elem.Field(i)
		name, ok := f.Tag.Lookup(InjectTag)
		if !ok || !f.IsExported() {
			continue
		}
		sc.fields = append(sc.fields, i)
		sc.params = append(sc.params, resolution.Parameter{Name: name, Type: f.Type})
	}
	return sc
}

func (s *structConstructor) RequiresParameterResolution() bool { return len(s.params) > 0 }

func (s *structConstructor) Parameters() []resolution.Parameter { return s.params }

func (s *structConstructor) Execute(args []any) (obj any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			obj = nil
			err = fmt.Errorf("%w: %v", resolution.ErrFactoryPanic, rec)
		}
	}()

	in, err := callArgs(s.params, args)
	if err != nil {
		return nil, err
	}
	ptr := reflect.New(s.typ.Elem())
	for i, idx := range s.fields {
		ptr.Elem().Field(idx).Set(in[i])
	}
	return ptr.Interface(), nil
}

// selectConstructor ranks ctors by parameter count. The single constructor
// with the most parameters wins; a tie at the top is ambiguous.
func selectConstructor(impl reflect.Type, ctors []Constructor) (resolution.FactoryAdapter, error) {
	if len(ctors) == 0 {
		if canConstructStruct(impl) {
			return newStructConstructor(impl), nil
		}
		return nil, resolution.NoConstructorError{Type: impl}
	}

	best, count := -1, 0
	var chosen Constructor
	for _, c := range ctors {
		n := len(c.params)
		switch {
		case n > best:
			best, count, chosen = n, 1, c
		case n == best:
			count++
		}
	}
	if count > 1 {
		return nil, resolution.AmbiguousConstructorError{Type: impl, Parameters: best, Count: count}
	}
	return chosen, nil
}

// instanceAdapter returns a fixed object.
type instanceAdapter struct{ obj any }

func (instanceAdapter) RequiresParameterResolution() bool { return false }

func (instanceAdapter) Parameters() []resolution.Parameter { return nil }

func (a instanceAdapter) Execute([]any) (any, error) { return a.obj, nil }
