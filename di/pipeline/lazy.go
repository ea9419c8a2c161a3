package pipeline

import (
	"reflect"

	"github.com/sghaida/odic/di/resolution"
)

// Deferred is implemented (with pointer receivers) by lazy wrapper types.
// The lazy stage allocates the wrapper and binds an evaluation function.
type Deferred interface {
	// DeferredType is the type resolved on first evaluation.
	DeferredType() reflect.Type
	// BindDeferred installs the evaluation function.
	BindDeferred(eval func() (any, error))
}

var deferredType = reflect.TypeOf((*Deferred)(nil)).Elem()

// lazyStage answers requests for Deferred wrapper types with an unevaluated
// wrapper. Evaluation resolves the wrapped type against the inner stage with
// the path captured at request time.
type lazyStage struct {
	inner Stage
}

func (s *lazyStage) Resolve(req resolution.Request) (resolution.Result, error) {
	t := req.ServiceType
	if t == nil || t.Kind() != reflect.Pointer || !t.Implements(deferredType) {
		return s.inner.Resolve(req)
	}

	wrapper := reflect.New(t.Elem()).Interface().(Deferred)
	target := req.WithServiceType(wrapper.DeferredType())
	inner := s.inner
	wrapper.BindDeferred(func() (any, error) {
		res, err := inner.Resolve(target)
		if err != nil {
			return nil, err
		}
		if !res.IsSuccess {
			return nil, resolution.ResolutionFailedError{Request: target}
		}
		return res.ResolvedObject, nil
	})
	return resolution.Success(req.Path, wrapper), nil
}

func (s *lazyStage) Registration(req resolution.Request) (resolution.Registration, bool) {
	return s.inner.Registration(req)
}
