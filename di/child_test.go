package di_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sghaida/odic/di"
)

func newChild(t *testing.T, parent *di.Container) *di.Container {
	t.Helper()
	child, err := parent.CreateChildContainer()
	require.NoError(t, err)
	return child
}

// TestChild_FallsBackToParent verifies parent registrations are visible and parent-owned.
func TestChild_FallsBackToParent(t *testing.T) {
	t.Parallel()

	parent := newContainer()
	registerShop(t, parent)

	a, b := newChild(t, parent), newChild(t, parent)
	assert.Same(t, parent, a.Parent())
	assert.Equal(t, parent.Options(), a.Options())
	assert.NotEqual(t, parent.ID(), a.ID())

	fromA := di.MustResolve[BasketGetter](a)
	fromB := di.MustResolve[BasketGetter](b)
	assert.Same(t, fromA, fromB, "instances of parent registrations are cached by the parent")
	assert.Same(t, fromA, di.MustResolve[BasketGetter](parent))

	assert.True(t, di.HasRegistration[BasketGetter](a, ""))
}

// TestChild_Overrides verifies a child registration shadows the parent's.
func TestChild_Overrides(t *testing.T) {
	t.Parallel()

	parent := newContainer()
	require.NoError(t, di.RegisterInstance[*Logger](parent, &Logger{Level: "parent"}))

	child := newChild(t, parent)
	require.NoError(t, di.RegisterInstance[*Logger](child, &Logger{Level: "child"}))

	assert.Equal(t, "child", di.MustResolve[*Logger](child).Level)
	assert.Equal(t, "parent", di.MustResolve[*Logger](parent).Level)
}

// TestChild_ParentDependenciesResolveInParent verifies a parent registration's parameters come from the parent.
func TestChild_ParentDependenciesResolveInParent(t *testing.T) {
	t.Parallel()

	parent := newContainer()
	registerShop(t, parent)

	child := newChild(t, parent)
	require.NoError(t, di.RegisterInstance[*Logger](child, &Logger{Level: "child"}))

	bs := di.MustResolve[BasketGetter](child).(*BasketService)
	assert.Equal(t, "child", di.MustResolve[*Logger](child).Level)
	assert.Equal(t, "info", bs.Logger.Level)
}

// TestChild_UnregisteredTypesOwnedByChild verifies synthesized types register in the requesting container.
func TestChild_UnregisteredTypesOwnedByChild(t *testing.T) {
	t.Parallel()

	parent := newContainer()
	registerShop(t, parent)

	child := newChild(t, parent)
	h := di.MustResolve[*Handler](child)
	require.NotNil(t, h.Checkout)

	assert.True(t, di.HasRegistration[*Handler](child, ""))
	assert.False(t, di.HasRegistration[*Handler](parent, ""))
}

// TestChild_ResolveAllMergesParent verifies child names shadow parent names in ResolveAll.
func TestChild_ResolveAllMergesParent(t *testing.T) {
	t.Parallel()

	parent := newContainer()
	require.NoError(t, di.RegisterInstance[Notifier](parent, &channel{name: "parent-default"}))
	require.NoError(t, di.RegisterInstance[Notifier](parent, &channel{name: "parent-email"}, di.Named("email")))

	child := newChild(t, parent)
	require.NoError(t, di.RegisterInstance[Notifier](child, &channel{name: "child-sms"}, di.Named("sms")))
	require.NoError(t, di.RegisterInstance[Notifier](child, &channel{name: "child-default"}))

	all, err := di.ResolveAll[Notifier](child)
	require.NoError(t, err)

	var got []string
	for _, n := range all {
		got = append(got, n.Channel())
	}
	assert.Equal(t, []string{"child-sms", "child-default", "parent-email"}, got)
}

// TestChild_SelfRegistration verifies a child answers Resolver with itself.
func TestChild_SelfRegistration(t *testing.T) {
	t.Parallel()

	parent := newContainer()
	child := newChild(t, parent)

	r := di.MustResolve[di.Resolver](child)
	assert.Same(t, child, r)
}

// TestChild_EventsGoToRequestingContainer verifies construction events follow the call's entry container.
func TestChild_EventsGoToRequestingContainer(t *testing.T) {
	t.Parallel()

	parent := newContainer()
	registerShop(t, parent)
	parentEvents := 0
	parent.OnServiceResolved(func(di.ServiceResolved) { parentEvents++ })

	child := newChild(t, parent)
	childEvents := 0
	child.OnServiceResolved(func(di.ServiceResolved) { childEvents++ })

	_ = di.MustResolve[*Checkout](child)
	assert.Equal(t, 4, childEvents, "DB, Logger, BasketService, Checkout")
	assert.Equal(t, 0, parentEvents)

	_ = di.MustResolve[*Checkout](parent)
	assert.Equal(t, 1, parentEvents, "only the transient Checkout is new")
}

// TestChild_DisposeIsLocal verifies disposing a child leaves parent-owned instances alone.
func TestChild_DisposeIsLocal(t *testing.T) {
	t.Parallel()

	parent := newContainer()
	registerShop(t, parent)

	child := newChild(t, parent)
	ownDB := &DB{}
	require.NoError(t, di.RegisterFactory[*DB](child, func() *DB { return ownDB }, di.Named("own")))

	shared := di.MustResolve[*DB](child)
	_ = di.MustResolveNamed[*DB](child, "own")

	require.NoError(t, child.Dispose())
	assert.Equal(t, int32(1), ownDB.closed.Load())
	assert.Equal(t, int32(0), shared.closed.Load())

	// the parent keeps working
	assert.Same(t, shared, di.MustResolve[*DB](parent))
	require.NoError(t, parent.Dispose())
	assert.Equal(t, int32(1), shared.closed.Load())
}

// TestChild_DictionaryIncludesParentNames verifies a child's dictionary holds the parent's named registrations.
func TestChild_DictionaryIncludesParentNames(t *testing.T) {
	t.Parallel()

	parent := newContainer()
	require.NoError(t, di.RegisterFactory[Notifier](parent, func() *channel { return &channel{name: "parent-email"} }, di.Named("email")))
	require.NoError(t, di.RegisterFactory[Notifier](parent, func() *channel { return &channel{name: "parent-sms"} }, di.Named("sms")))

	child := newChild(t, parent)
	require.NoError(t, di.RegisterFactory[Notifier](child, func() *channel { return &channel{name: "child-sms"} }, di.Named("sms")))

	m := di.MustResolve[map[string]Notifier](child)
	require.Len(t, m, 2)
	assert.Same(t, di.MustResolveNamed[Notifier](child, "email"), m["email"])
	assert.Same(t, di.MustResolveNamed[Notifier](parent, "email"), m["email"], "cached by the parent")
	assert.Equal(t, "child-sms", m["sms"].Channel())

	all, err := di.ResolveAll[Notifier](child)
	require.NoError(t, err)
	assert.Len(t, all, len(m))
}

// TestChild_ReregisterAfterParentResolved verifies a resolved name is frozen in its container but not in a child.
func TestChild_ReregisterAfterParentResolved(t *testing.T) {
	t.Parallel()

	parent := newContainer()
	require.NoError(t, di.RegisterFactory[Notifier](parent, func() *channel { return &channel{name: "parent-a"} }, di.Named("a")))
	fromParent := di.MustResolveNamed[Notifier](parent, "a")

	err := di.RegisterFactory[Notifier](parent, func() *channel { return &channel{name: "again"} }, di.Named("a"))
	var ir di.InvalidRegistrationError
	require.ErrorAs(t, err, &ir)

	child := newChild(t, parent)
	require.NoError(t, di.RegisterFactory[Notifier](child, func() *channel { return &channel{name: "child-a"} }, di.Named("a")))

	assert.Equal(t, "child-a", di.MustResolveNamed[Notifier](child, "a").Channel())
	assert.Same(t, fromParent, di.MustResolveNamed[Notifier](parent, "a"))
}
