package di_test

import (
	"errors"
	"io"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sghaida/odic/di"
)

// TestDispose_ClosesCachedInstances verifies io.Closer and Disposable instances are released once.
func TestDispose_ClosesCachedInstances(t *testing.T) {
	t.Parallel()

	c := newContainer()
	d := &disposer{}
	require.NoError(t, di.RegisterType[*DB, *DB](c, di.WithConstructor(newDB)))
	require.NoError(t, di.RegisterFactory[*disposer](c, func() *disposer { return d }))

	db := di.MustResolve[*DB](c)
	_ = di.MustResolve[*disposer](c)

	require.NoError(t, c.Dispose())
	assert.Equal(t, int32(1), db.closed.Load())
	assert.Equal(t, int32(1), d.calls.Load())
	assert.True(t, c.IsDisposed())

	// idempotent
	require.NoError(t, c.Dispose())
	assert.Equal(t, int32(1), db.closed.Load())
}

// TestDispose_SharedInstanceOnce verifies an instance reachable through two registrations is disposed once.
func TestDispose_SharedInstanceOnce(t *testing.T) {
	t.Parallel()

	c := newContainer()
	db := &DB{}
	require.NoError(t, di.RegisterFactory[*DB](c, func() *DB { return db }))
	require.NoError(t, di.RegisterFactory[*DB](c, func() *DB { return db }, di.Named("replica")))

	_ = di.MustResolve[*DB](c)
	_ = di.MustResolveNamed[*DB](c, "replica")

	require.NoError(t, c.Dispose())
	assert.Equal(t, int32(1), db.closed.Load())
}

// TestDispose_SkipsUnresolvedAndTransient verifies only cached, dispose-marked instances are released.
func TestDispose_SkipsUnresolvedAndTransient(t *testing.T) {
	t.Parallel()

	c := newContainer()
	transient := &DB{}
	kept := &DB{}
	require.NoError(t, di.RegisterFactory[*DB](c, func() *DB { return transient }, di.Transient()))
	require.NoError(t, di.RegisterFactory[*DB](c, func() *DB { return kept }, di.Named("kept"), di.DisposeWithContainer(false)))
	require.NoError(t, di.RegisterFactory[*DB](c, newDB, di.Named("never-resolved")))

	_ = di.MustResolve[*DB](c)
	_ = di.MustResolveNamed[*DB](c, "kept")

	require.NoError(t, c.Dispose())
	assert.Equal(t, int32(0), transient.closed.Load())
	assert.Equal(t, int32(0), kept.closed.Load())
}

// TestDispose_Instances verifies instance registrations are disposed only when asked to and once cached.
func TestDispose_Instances(t *testing.T) {
	t.Parallel()

	c := newContainer()
	owned := &DB{}
	borrowed := &DB{}
	idle := &DB{}
	require.NoError(t, di.RegisterInstance[*DB](c, owned, di.Named("owned"), di.DisposeWithContainer(true)))
	require.NoError(t, di.RegisterInstance[*DB](c, borrowed, di.Named("borrowed")))
	require.NoError(t, di.RegisterInstance[*DB](c, idle, di.Named("idle"), di.DisposeWithContainer(true)))

	_ = di.MustResolveNamed[*DB](c, "owned")
	_ = di.MustResolveNamed[*DB](c, "borrowed")

	require.NoError(t, c.Dispose())
	assert.Equal(t, int32(1), owned.closed.Load())
	assert.Equal(t, int32(0), borrowed.closed.Load())
	assert.Equal(t, int32(0), idle.closed.Load(), "never resolved, so never cached")
}

// TestDispose_ValueInstancesEachDisposed verifies distinct non-comparable values are not merged.
func TestDispose_ValueInstancesEachDisposed(t *testing.T) {
	t.Parallel()

	c := newContainer()
	var calls atomic.Int32
	require.NoError(t, di.RegisterInstance[io.Closer](c, valueCloser{calls: &calls, tags: []string{"a"}},
		di.Named("a"), di.DisposeWithContainer(true)))
	require.NoError(t, di.RegisterInstance[io.Closer](c, valueCloser{calls: &calls, tags: []string{"b"}},
		di.Named("b"), di.DisposeWithContainer(true)))

	_ = di.MustResolveNamed[io.Closer](c, "a")
	_ = di.MustResolveNamed[io.Closer](c, "b")

	require.NoError(t, c.Dispose())
	assert.Equal(t, int32(2), calls.Load())
}

// TestDispose_JoinsErrors verifies every failure is reported and disposal continues.
func TestDispose_JoinsErrors(t *testing.T) {
	t.Parallel()

	c := newContainer()
	errA, errB := errors.New("a failed"), errors.New("b failed")
	a, b, ok := &disposer{err: errA}, &disposer{err: errB}, &disposer{}
	require.NoError(t, di.RegisterInstance[*disposer](c, a, di.Named("a"), di.DisposeWithContainer(true)))
	require.NoError(t, di.RegisterInstance[*disposer](c, ok, di.Named("ok"), di.DisposeWithContainer(true)))
	require.NoError(t, di.RegisterInstance[*disposer](c, b, di.Named("b"), di.DisposeWithContainer(true)))
	for _, name := range []string{"a", "ok", "b"} {
		_ = di.MustResolveNamed[*disposer](c, name)
	}

	err := c.Dispose()
	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Equal(t, int32(1), ok.calls.Load())
}

// TestDispose_OperationsFail verifies a disposed container rejects every operation.
func TestDispose_OperationsFail(t *testing.T) {
	t.Parallel()

	c := newContainer()
	registerShop(t, c)
	require.NoError(t, c.Dispose())

	_, err := di.Resolve[*DB](c)
	assert.ErrorIs(t, err, di.ErrContainerDisposed)

	_, _, err = di.TryResolve[*DB](c)
	assert.ErrorIs(t, err, di.ErrContainerDisposed)

	_, err = di.ResolveAll[*DB](c)
	assert.ErrorIs(t, err, di.ErrContainerDisposed)

	assert.ErrorIs(t, di.RegisterFactory[*Logger](c, newLogger), di.ErrContainerDisposed)
	assert.False(t, di.HasRegistration[*DB](c, ""))

	_, err = c.CreateChildContainer()
	assert.ErrorIs(t, err, di.ErrContainerDisposed)
}

// valueCloser is a non-comparable value type; the slice keeps it out of map keys.
type valueCloser struct {
	calls *atomic.Int32
	tags  []string
}

func (v valueCloser) Close() error {
	v.calls.Add(1)
	return nil
}
