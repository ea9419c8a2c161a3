package di

import (
	"errors"
	"io"
	"reflect"

	"github.com/sirupsen/logrus"

	"github.com/sghaida/odic/di/resolution"
)

// Disposable is implemented by instances that release resources on
// container disposal. io.Closer is honoured as well.
type Disposable interface {
	Dispose() error
}

// Dispose releases every cached instance whose registration is cacheable and
// marked dispose-with-container, in registry order. Each instance is disposed
// once even when several registrations share it. Errors are joined.
//
// Dispose is idempotent; after it returns every other operation fails with
// ErrContainerDisposed.
func (c *Container) Dispose() error {
	var err error
	c.disposeOnce.Do(func() {
		c.disposed.Store(true)
		err = c.disposeInstances()
	})
	return err
}

// IsDisposed reports whether Dispose has been called.
func (c *Container) IsDisposed() bool { return c.disposed.Load() }

func (c *Container) disposeInstances() error {
	var errs []error
	seen := map[any]struct{}{}

	for _, reg := range c.registry.All() {
		if !reg.Cacheable() || !reg.DisposeWithContainer() {
			continue
		}
		// only instances this container actually cached
		obj, ok := c.cache.GetExact(reg.CacheKey())
		if !ok {
			continue
		}
		if id, ok := identity(obj); ok {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
		}

		log := c.log.WithField("service", resolution.Describe(reg))
		if derr := disposeOne(obj); derr != nil {
			log.WithError(derr).Warn("dispose failed")
			errs = append(errs, derr)
			continue
		}
		log.Debug("disposed")
	}

	c.log.WithFields(logrus.Fields{"errors": len(errs)}).Debug("container disposed")
	return errors.Join(errs...)
}

func disposeOne(obj any) error {
	switch v := obj.(type) {
	case Disposable:
		return v.Dispose()
	case io.Closer:
		return v.Close()
	}
	return nil
}

type refIdentity struct {
	t reflect.Type
	p uintptr
}

// identity keys obj for the seen set. Reference kinds that cannot be map
// keys are keyed by type and pointer. Other non-comparable values have no
// identity and report false, so each of them is disposed.
func identity(obj any) (any, bool) {
	v := reflect.ValueOf(obj)
	if v.Comparable() {
		return obj, true
	}
	switch v.Kind() {
	case reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Pointer, reflect.UnsafePointer:
		return refIdentity{t: v.Type(), p: v.Pointer()}, true
	}
	return nil, false
}
