package resolution

import "reflect"

// RegistrationKey identifies a registry slot.
type RegistrationKey struct {
	ServiceType reflect.Type
	Name        string
}

// String renders the key as type or type("name").
func (k RegistrationKey) String() string { return describe(k.ServiceType, k.Name) }

// CacheKey identifies a cached instance.
//
// It is keyed by the concrete implementation type rather than the requested
// service type, so one instance is found through any type it satisfies.
type CacheKey struct {
	ImplementationType reflect.Type
	Name               string
}

// String renders the key as type or type("name").
func (k CacheKey) String() string { return describe(k.ImplementationType, k.Name) }

// Registration describes how to produce instances for one service identity.
//
// Implementations must be comparable (pointer receivers): paths detect
// cycles by registration identity.
type Registration interface {
	ServiceType() reflect.Type
	Name() string
	Key() RegistrationKey
	CacheKey() CacheKey

	// Cacheable reports whether a produced instance is reused.
	Cacheable() bool
	// DisposeWithContainer reports whether the owning container disposes
	// the cached instance.
	DisposeWithContainer() bool
	// Priority breaks ties between registrations sharing a key; higher wins.
	Priority() int

	FactoryAdapter(req Request) (FactoryAdapter, error)
}

// Parameter is one declared input of a factory.
type Parameter struct {
	Name string
	Type reflect.Type
}

// Request derives the nested request that satisfies p.
func (p Parameter) Request(path Path) Request {
	return Request{ServiceType: p.Type, Name: p.Name, Path: path}
}

// FactoryAdapter executes a registration's factory.
type FactoryAdapter interface {
	// RequiresParameterResolution is false for fixed instances and
	// delegates without inputs.
	RequiresParameterResolution() bool
	Parameters() []Parameter
	Execute(args []any) (any, error)
}

// Provider is the registry capability the engine consumes.
type Provider interface {
	CanFulfilRequest(req Request) bool
	Get(req Request) (Registration, bool)
	GetAll(serviceType reflect.Type) []Registration
	HasRegistration(key RegistrationKey) bool
}

// Describe renders a registration for diagnostics.
func Describe(reg Registration) string {
	if reg == nil {
		return "<nil>"
	}
	return describe(reg.ServiceType(), reg.Name())
}
