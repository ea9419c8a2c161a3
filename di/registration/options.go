package registration

// Priorities of the built-in variants. A slot holding several registrations
// answers with the highest priority.
const (
	PrioritySynthetic = 0
	PriorityType      = 10
	PriorityFactory   = 20
	PriorityInstance  = 30
)

// Option configures a registration.
type Option func(*settings)

type settings struct {
	name         string
	cacheable    *bool
	dispose      *bool
	priority     *int
	ctors        []ctorSpec
	factoryNames []string
}

type ctorSpec struct {
	fn    any
	names []string
}

// Named registers under name.
func Named(name string) Option {
	return func(s *settings) { s.name = name }
}

// Singleton marks the registration cacheable: one instance per owning
// container.
func Singleton() Option {
	return func(s *settings) { s.cacheable = boolPtr(true) }
}

// Transient marks the registration non-cacheable. Unless overridden, a
// transient registration is not disposed with the container.
func Transient() Option {
	return func(s *settings) { s.cacheable = boolPtr(false) }
}

// DisposeWithContainer controls whether the owning container disposes the
// cached instance.
func DisposeWithContainer(dispose bool) Option {
	return func(s *settings) { s.dispose = boolPtr(dispose) }
}

// WithPriority overrides the variant's default priority.
func WithPriority(p int) Option {
	return func(s *settings) { s.priority = &p }
}

// WithConstructor adds a constructor for a type registration. names are the
// parameter names, in order; missing names are left empty.
func WithConstructor(fn any, names ...string) Option {
	return func(s *settings) { s.ctors = append(s.ctors, ctorSpec{fn: fn, names: names}) }
}

// WithParameterNames names the parameters of a factory delegate.
func WithParameterNames(names ...string) Option {
	return func(s *settings) { s.factoryNames = names }
}

func apply(opts []Option) *settings {
	s := &settings{}
	for _, o := range opts {
		if o != nil {
			o(s)
		}
	}
	return s
}

// resolve fills lifetime defaults: cacheable unless told otherwise, and
// disposal follows cacheability unless set explicitly.
func (s *settings) resolve(defaultCacheable, defaultDispose bool) (cacheable, dispose bool) {
	cacheable = defaultCacheable
	if s.cacheable != nil {
		cacheable = *s.cacheable
	}
	dispose = defaultDispose && cacheable
	if s.dispose != nil {
		dispose = *s.dispose
	}
	return cacheable, dispose
}

func (s *settings) priorityOr(def int) int {
	if s.priority != nil {
		return *s.priority
	}
	return def
}

func boolPtr(b bool) *bool { return &b }
