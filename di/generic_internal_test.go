package di

import (
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubResolver returns canned objects regardless of the request.
type stubResolver struct {
	obj any
	ok  bool
	err error
}

func (s stubResolver) Resolve(reflect.Type, string) (any, error) { return s.obj, s.err }

func (s stubResolver) TryResolve(reflect.Type, string) (any, bool, error) { return s.obj, s.ok, s.err }

func (s stubResolver) ResolveAll(reflect.Type) ([]any, error) { return []any{s.obj}, s.err }

func (s stubResolver) HasRegistration(reflect.Type, string) bool { return s.ok }

// TestAs verifies conversion, nil handling and mismatch reporting.
func TestAs(t *testing.T) {
	t.Parallel()

	v, err := as[io.Reader](nil)
	require.NoError(t, err)
	assert.Nil(t, v)

	n, err := as[int](7)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	_, err = as[io.Reader](42)
	var tm TypeMismatchError
	require.ErrorAs(t, err, &tm)
	assert.Equal(t, "int", tm.GotType)
	assert.Equal(t, "di: resolved int, want io.Reader", err.Error())
}

// TestGenericHelpers_TypeMismatch verifies each helper surfaces TypeMismatchError.
func TestGenericHelpers_TypeMismatch(t *testing.T) {
	t.Parallel()

	r := stubResolver{obj: "not a reader", ok: true}
	var tm TypeMismatchError

	_, err := Resolve[io.Reader](r)
	assert.ErrorAs(t, err, &tm)

	_, ok, err := TryResolve[io.Reader](r)
	assert.False(t, ok)
	assert.ErrorAs(t, err, &tm)

	_, err = ResolveAll[io.Reader](r)
	assert.ErrorAs(t, err, &tm)

	assert.Panics(t, func() { MustResolve[io.Reader](r) })
}

// TestGenericHelpers_PropagateErrors verifies resolver errors pass through untouched.
func TestGenericHelpers_PropagateErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	r := stubResolver{err: boom}

	_, err := Resolve[io.Reader](r)
	assert.ErrorIs(t, err, boom)
	_, _, err = TryResolve[io.Reader](r)
	assert.ErrorIs(t, err, boom)
	_, err = ResolveAll[io.Reader](r)
	assert.ErrorIs(t, err, boom)
}

// TestIdentity verifies the disposal identity key for comparable and non-comparable values.
func TestIdentity(t *testing.T) {
	t.Parallel()

	p := &struct{ n int }{}
	a, ok := identity(p)
	require.True(t, ok)
	b, _ := identity(p)
	assert.Equal(t, a, b)

	m := map[string]int{}
	a, ok = identity(m)
	require.True(t, ok)
	b, _ = identity(m)
	assert.Equal(t, a, b)
	c, _ := identity(map[string]int{})
	assert.NotEqual(t, a, c)

	// a struct holding a slice has no identity
	_, ok = identity(struct{ s []int }{s: []int{1}})
	assert.False(t, ok)
}
