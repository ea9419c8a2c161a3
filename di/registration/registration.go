package registration

import (
	"reflect"
	"sync"

	"github.com/sghaida/odic/di/resolution"
)

// base carries the capability fields shared by every variant.
type base struct {
	serviceType reflect.Type
	implType    reflect.Type
	name        string
	cacheable   bool
	dispose     bool
	priority    int
}

func (b *base) ServiceType() reflect.Type { return b.serviceType }

func (b *base) Name() string { return b.name }

func (b *base) Cacheable() bool { return b.cacheable }

func (b *base) DisposeWithContainer() bool { return b.dispose }

func (b *base) Priority() int { return b.priority }

// ImplementationType returns the type the registration produces.
func (b *base) ImplementationType() reflect.Type { return b.implType }

func (b *base) Key() resolution.RegistrationKey {
	return resolution.RegistrationKey{ServiceType: b.serviceType, Name: b.name}
}

func (b *base) CacheKey() resolution.CacheKey {
	return resolution.CacheKey{ImplementationType: b.implType, Name: b.name}
}

func (b *base) validate() error {
	if b.serviceType == nil || b.implType == nil {
		return resolution.ErrNilType
	}
	if !b.implType.AssignableTo(b.serviceType) {
		return b.invalid(b.implType.String() + " is not assignable to " + b.serviceType.String())
	}
	if b.dispose && !b.cacheable {
		return b.invalid("dispose-with-container requires a cacheable registration")
	}
	return nil
}

func (b *base) invalid(reason string) error {
	return resolution.InvalidRegistrationError{Key: b.Key(), Reason: reason}
}

// TypeRegistration produces instances of an implementation type through its
// highest-ranked constructor.
type TypeRegistration struct {
	base
	ctors []Constructor

	once    sync.Once
	adapter resolution.FactoryAdapter
	err     error
}

// Type registers impl as the producer of service. Type registrations are
// cacheable and disposed with the container unless configured otherwise.
func Type(service, impl reflect.Type, opts ...Option) (*TypeRegistration, error) {
	s := apply(opts)
	cacheable, dispose := s.resolve(true, true)
	r := &TypeRegistration{base: base{
		serviceType: service,
		implType:    impl,
		name:        s.name,
		cacheable:   cacheable,
		dispose:     dispose,
		priority:    s.priorityOr(PriorityType),
	}}
	if err := r.validate(); err != nil {
		return nil, err
	}
	for _, spec := range s.ctors {
		c, err := NewConstructor(spec.fn, spec.names...)
		if err != nil {
			return nil, r.invalid(err.Error())
		}
		if !c.Out().AssignableTo(impl) {
			return nil, r.invalid("constructor returns " + c.Out().String() + ", not " + impl.String())
		}
		r.ctors = append(r.ctors, c)
	}
	return r, nil
}

// Synthetic builds the ad-hoc registration used when an unregistered
// pointer-to-struct type is requested.
func Synthetic(impl reflect.Type) (*TypeRegistration, error) {
	if !canConstructStruct(impl) {
		return nil, resolution.NoConstructorError{Type: impl}
	}
	return Type(impl, impl, WithPriority(PrioritySynthetic))
}

// FactoryAdapter selects the constructor once; ambiguity surfaces on every
// call.
func (r *TypeRegistration) FactoryAdapter(resolution.Request) (resolution.FactoryAdapter, error) {
	r.once.Do(func() {
		r.adapter, r.err = selectConstructor(r.implType, r.ctors)
	})
	return r.adapter, r.err
}

// FactoryRegistration produces instances through a delegate.
type FactoryRegistration struct {
	base
	ctor Constructor
}

// Factory registers fn as the producer of service. fn must be
// func(deps...) T or func(deps...) (T, error) with T assignable to service.
func Factory(service reflect.Type, fn any, opts ...Option) (*FactoryRegistration, error) {
	s := apply(opts)
	cacheable, dispose := s.resolve(true, true)
	r := &FactoryRegistration{base: base{
		serviceType: service,
		name:        s.name,
		cacheable:   cacheable,
		dispose:     dispose,
		priority:    s.priorityOr(PriorityFactory),
	}}
	c, err := NewConstructor(fn, s.factoryNames...)
	if err != nil {
		return nil, r.invalid(err.Error())
	}
	r.ctor = c
	r.implType = c.Out()
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// FactoryAdapter returns the delegate.
func (r *FactoryRegistration) FactoryAdapter(resolution.Request) (resolution.FactoryAdapter, error) {
	return r.ctor, nil
}

// InstanceRegistration returns one pre-built object. It is always cacheable.
type InstanceRegistration struct {
	base
	obj any
}

// Instance registers obj for service. Instances are not disposed with the
// container unless DisposeWithContainer(true) is given.
func Instance(service reflect.Type, obj any, opts ...Option) (*InstanceRegistration, error) {
	s := apply(opts)
	dispose := false
	if s.dispose != nil {
		dispose = *s.dispose
	}
	r := &InstanceRegistration{
		base: base{
			serviceType: service,
			implType:    reflect.TypeOf(obj),
			name:        s.name,
			cacheable:   true,
			dispose:     dispose,
			priority:    s.priorityOr(PriorityInstance),
		},
		obj: obj,
	}
	if s.cacheable != nil && !*s.cacheable {
		return nil, r.invalid("instance registrations are always cacheable")
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Object returns the registered instance.
func (r *InstanceRegistration) Object() any { return r.obj }

// FactoryAdapter returns an adapter yielding the instance.
func (r *InstanceRegistration) FactoryAdapter(resolution.Request) (resolution.FactoryAdapter, error) {
	return instanceAdapter{obj: r.obj}, nil
}

var (
	_ resolution.Registration = (*TypeRegistration)(nil)
	_ resolution.Registration = (*FactoryRegistration)(nil)
	_ resolution.Registration = (*InstanceRegistration)(nil)
)
