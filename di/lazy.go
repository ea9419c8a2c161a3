package di

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/sghaida/odic/di/pipeline"
	"github.com/sghaida/odic/di/resolution"
)

// Lazy defers the resolution of T until Value is first called. Request it as
// *Lazy[T]: as a constructor parameter or through Resolve[*Lazy[T]].
//
// The wrapped request keeps the path it was created under, so a cycle through
// a lazy value is still reported when the value is evaluated.
type Lazy[T any] struct {
	once sync.Once
	eval func() (any, error)

	evaluated atomic.Bool
	value     T
	err       error
}

// DeferredType implements pipeline.Deferred.
func (l *Lazy[T]) DeferredType() reflect.Type { return resolution.TypeOf[T]() }

// BindDeferred implements pipeline.Deferred.
func (l *Lazy[T]) BindDeferred(eval func() (any, error)) { l.eval = eval }

// Value resolves T on the first call and returns the same result afterwards.
func (l *Lazy[T]) Value() (T, error) {
	l.once.Do(func() {
		defer l.evaluated.Store(true)
		if l.eval == nil {
			l.err = ErrLazyUnbound
			return
		}
		obj, err := l.eval()
		if err != nil {
			l.err = err
			return
		}
		l.value, l.err = as[T](obj)
	})
	return l.value, l.err
}

// MustValue is Value that panics on error.
func (l *Lazy[T]) MustValue() T {
	v, err := l.Value()
	if err != nil {
		panic(err)
	}
	return v
}

// IsEvaluated reports whether Value has run.
func (l *Lazy[T]) IsEvaluated() bool { return l.evaluated.Load() }

var _ pipeline.Deferred = (*Lazy[any])(nil)
