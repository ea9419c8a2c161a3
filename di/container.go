package di

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sghaida/odic/di/cache"
	"github.com/sghaida/odic/di/pipeline"
	"github.com/sghaida/odic/di/registration"
	"github.com/sghaida/odic/di/resolution"
)

// ServiceResolved is raised once per constructed instance. Instances served
// from the cache do not raise it.
type ServiceResolved = pipeline.Event

// Resolver resolves services. *Container implements it, and so do the
// path-aware resolvers handed out during construction.
type Resolver interface {
	Resolve(t reflect.Type, name string) (any, error)
	TryResolve(t reflect.Type, name string) (any, bool, error)
	ResolveAll(t reflect.Type) ([]any, error)
	HasRegistration(t reflect.Type, name string) bool
}

// Registrar accepts registrations.
type Registrar interface {
	Register(reg resolution.Registration) error
}

var (
	resolverType  = resolution.TypeOf[Resolver]()
	registrarType = resolution.TypeOf[Registrar]()
)

// Container owns one registry, one instance cache and the pipeline composed
// over them. A child container has its own registry and cache and falls
// back to its parent for registrations it lacks.
type Container struct {
	id     string
	opts   Options
	parent *Container

	registry *registration.Registry
	cache    *cache.Cache
	pipeline pipeline.Stage

	baseLog logrus.FieldLogger
	log     logrus.FieldLogger

	// regMu serializes the re-registration check with the registry write.
	regMu sync.Mutex

	handlersMu sync.RWMutex
	handlers   []func(ServiceResolved)

	disposed    atomic.Bool
	disposeOnce sync.Once
}

// NewContainer builds a root container. Without WithOptions it uses
// DefaultOptions.
func NewContainer(opts ...Option) *Container {
	c := &Container{opts: DefaultOptions()}
	for _, o := range opts {
		if o != nil {
			o(c)
		}
	}
	return c.init()
}

func (c *Container) init() *Container {
	c.id = uuid.NewString()
	c.registry = registration.NewRegistry()
	c.cache = cache.New()
	if c.baseLog == nil {
		c.baseLog = defaultLogger(c.opts.LogLevel)
	}
	c.log = c.baseLog.WithField("container", c.id)
	c.pipeline = c.buildPipeline(true, c.notify)

	if c.opts.SelfRegister {
		c.selfRegister()
	}
	c.log.WithField("parent", c.parentID()).Debug("container created")
	return c
}

// buildPipeline composes this container's stages. innermost is false when
// the pipeline serves a child's fallback.
func (c *Container) buildPipeline(innermost bool, notify pipeline.Notifier) pipeline.Stage {
	return pipeline.Build(c.pipelineConfig(innermost, notify))
}

// Stages lists the resolution stages of this container, innermost first.
func (c *Container) Stages() []string {
	return c.pipelineConfig(true, nil).StageNames()
}

func (c *Container) pipelineConfig(innermost bool, notify pipeline.Notifier) pipeline.Config {
	cfg := pipeline.Config{
		Registry:          c.registry,
		Cache:             c.cache,
		Caching:           c.opts.Caching,
		UnregisteredTypes: c.opts.UnregisteredTypes,
		CircularDetection: c.opts.CircularDetection,
		Lazy:              c.opts.Lazy,
		NamedDictionaries: c.opts.NamedDictionaries,
		Optional:          c.opts.Optional,
		Innermost:         innermost,
		MaxDepth:          c.opts.MaxDepth,
		Notify:            notify,
		Logger:            c.log,
	}
	if c.parent != nil {
		cfg.Parent = c.parent.buildPipeline(false, notify)
	}
	if c.opts.SelfRegister {
		cfg.ResolverTypes = []reflect.Type{resolverType}
		cfg.BindResolver = func(path resolution.Path) any {
			return &pathResolver{c: c, path: path}
		}
	}
	return cfg
}

// selfRegister records the container as its own Resolver and Registrar.
func (c *Container) selfRegister() {
	for _, t := range []reflect.Type{resolverType, registrarType} {
		reg, err := registration.Instance(t, c)
		if err != nil {
			// *Container implements both interfaces
			panic(err)
		}
		if err := c.registry.Add(reg); err != nil {
			// the registry is fresh and the registration valid
			panic(err)
		}
	}
}

// ID returns the container's unique id, used as the "container" log field.
func (c *Container) ID() string { return c.id }

// Parent returns the parent container, or nil for a root.
func (c *Container) Parent() *Container { return c.parent }

// Options returns the options the container was built with.
func (c *Container) Options() Options { return c.opts }

func (c *Container) parentID() string {
	if c.parent == nil {
		return ""
	}
	return c.parent.id
}

// OnServiceResolved subscribes fn to ServiceResolved events for call trees
// entering this container.
func (c *Container) OnServiceResolved(fn func(ServiceResolved)) {
	if fn == nil {
		return
	}
	c.handlersMu.Lock()
	defer c.handlersMu.Unlock()
	c.handlers = append(c.handlers, fn)
}

func (c *Container) notify(ev ServiceResolved) {
	c.handlersMu.RLock()
	hs := c.handlers
	c.handlersMu.RUnlock()
	for _, h := range hs {
		h(ev)
	}
}

// CreateChildContainer returns a container with the same options and logger,
// a fresh registry and cache, and c as its parent.
func (c *Container) CreateChildContainer() (*Container, error) {
	if c.disposed.Load() {
		return nil, ErrContainerDisposed
	}
	child := &Container{
		opts:    c.opts,
		parent:  c,
		baseLog: c.baseLog,
	}
	return child.init(), nil
}

// Register adds reg to the container's registry.
//
// Replacing a cacheable registration whose instance is already cached is
// rejected, since later requests would keep receiving the stale instance.
func (c *Container) Register(reg resolution.Registration) error {
	if c.disposed.Load() {
		return ErrContainerDisposed
	}
	if reg == nil || reg.ServiceType() == nil {
		return resolution.ErrNilType
	}
	key := reg.Key()
	if reg.DisposeWithContainer() && !reg.Cacheable() {
		return InvalidRegistrationError{Key: key, Reason: "dispose-with-container requires a cacheable registration"}
	}

	c.regMu.Lock()
	defer c.regMu.Unlock()

	if existing, ok := c.registry.Lookup(key); ok && existing.Cacheable() && c.cache.HasExact(existing.CacheKey()) {
		return InvalidRegistrationError{Key: key, Reason: "already resolved and cached"}
	}
	if err := c.registry.Add(reg); err != nil {
		return err
	}
	c.log.WithFields(logrus.Fields{
		"service":   key.String(),
		"cacheable": reg.Cacheable(),
		"priority":  reg.Priority(),
	}).Debug("registered")
	return nil
}

// Resolve resolves t under name, failing when nothing can satisfy it.
func (c *Container) Resolve(t reflect.Type, name string) (any, error) {
	return c.resolveMandatory(resolution.NewRequest(t, name))
}

// TryResolve resolves t under name. ok is false when nothing can satisfy
// the request; err reports fatal conditions such as cycles.
func (c *Container) TryResolve(t reflect.Type, name string) (any, bool, error) {
	return c.resolve(resolution.NewRequest(t, name))
}

// ResolveAll resolves every registration of t: this container's first, then
// the parent's registrations under names this container does not define.
func (c *Container) ResolveAll(t reflect.Type) ([]any, error) {
	return c.resolveAll(t, resolution.Path{})
}

// HasRegistration reports whether this container or an ancestor holds a
// registration for exactly (t, name). Having no error return, it reports
// false on a disposed container instead of failing with
// ErrContainerDisposed.
func (c *Container) HasRegistration(t reflect.Type, name string) bool {
	if c.disposed.Load() || t == nil {
		return false
	}
	key := resolution.RegistrationKey{ServiceType: t, Name: name}
	for cur := c; cur != nil; cur = cur.parent {
		if cur.registry.HasRegistration(key) {
			return true
		}
	}
	return false
}

// Registrations returns this container's own registrations in registry order.
func (c *Container) Registrations() []resolution.Registration {
	return c.registry.All()
}

func (c *Container) resolve(req resolution.Request) (any, bool, error) {
	if c.disposed.Load() {
		return nil, false, ErrContainerDisposed
	}
	res, err := c.pipeline.Resolve(req)
	if err != nil {
		c.log.WithError(err).WithField("service", req.String()).Debug("resolution failed")
		return nil, false, err
	}
	if !res.IsSuccess {
		return nil, false, nil
	}
	return res.ResolvedObject, true, nil
}

func (c *Container) resolveMandatory(req resolution.Request) (any, error) {
	obj, ok, err := c.resolve(req)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ResolutionFailedError{Request: req}
	}
	return obj, nil
}

func (c *Container) resolveAll(t reflect.Type, path resolution.Path) ([]any, error) {
	if c.disposed.Load() {
		return nil, ErrContainerDisposed
	}
	if t == nil {
		return nil, resolution.ErrNilType
	}

	var out []any
	seen := map[string]bool{}
	for cur := c; cur != nil; cur = cur.parent {
		for _, reg := range cur.registry.GetAll(t) {
			if seen[reg.Name()] {
				continue
			}
			seen[reg.Name()] = true

			// Resolved through the owning container: the child's registry
			// would answer a parent-only name with its unnamed fallback.
			req := resolution.Request{ServiceType: t, Name: reg.Name(), Path: path}
			obj, err := cur.resolveMandatory(req)
			if err != nil {
				return nil, err
			}
			out = append(out, obj)
		}
	}
	return out, nil
}

// pathResolver resolves on behalf of a registration under construction.
// Requests carry the captured path, so a cycle closed through a stored
// resolver is still detected.
type pathResolver struct {
	c    *Container
	path resolution.Path
}

func (r *pathResolver) Resolve(t reflect.Type, name string) (any, error) {
	return r.c.resolveMandatory(resolution.Request{ServiceType: t, Name: name, Path: r.path})
}

func (r *pathResolver) TryResolve(t reflect.Type, name string) (any, bool, error) {
	return r.c.resolve(resolution.Request{ServiceType: t, Name: name, Path: r.path})
}

func (r *pathResolver) ResolveAll(t reflect.Type) ([]any, error) {
	return r.c.resolveAll(t, r.path)
}

func (r *pathResolver) HasRegistration(t reflect.Type, name string) bool {
	return r.c.HasRegistration(t, name)
}

var (
	_ Resolver  = (*Container)(nil)
	_ Registrar = (*Container)(nil)
	_ Resolver  = (*pathResolver)(nil)
)
