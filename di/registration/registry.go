package registration

import (
	"reflect"
	"sort"
	"sync"

	"github.com/sghaida/odic/di/resolution"
)

// Registry is a thread-safe store of registrations implementing
// resolution.Provider.
//
// Each key holds its registrations ordered by priority, highest first.
// Reads go through a sync.Map; writes take a coarse lock around the
// remove-then-add sequence so a slot never exposes a half-updated list.
type Registry struct {
	mu    sync.Mutex
	slots sync.Map // resolution.RegistrationKey -> []resolution.Registration
	order []resolution.RegistrationKey
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add stores reg. A registration with the same priority under the same key
// is replaced; others stay behind it as lower- or higher-priority entries.
func (r *Registry) Add(reg resolution.Registration) error {
	if reg == nil || reg.ServiceType() == nil {
		return resolution.ErrNilType
	}
	key := reg.Key()

	r.mu.Lock()
	defer r.mu.Unlock()

	var current []resolution.Registration
	if v, ok := r.slots.Load(key); ok {
		current = v.([]resolution.Registration)
	} else {
		r.order = append(r.order, key)
	}

	next := make([]resolution.Registration, 0, len(current)+1)
	for _, existing := range current {
		if existing.Priority() != reg.Priority() {
			next = append(next, existing)
		}
	}
	next = append(next, reg)
	sort.SliceStable(next, func(i, j int) bool { return next[i].Priority() > next[j].Priority() })

	r.slots.Store(key, next)
	return nil
}

// Lookup returns the winning registration for key, without name fallback.
func (r *Registry) Lookup(key resolution.RegistrationKey) (resolution.Registration, bool) {
	v, ok := r.slots.Load(key)
	if !ok {
		return nil, false
	}
	regs := v.([]resolution.Registration)
	if len(regs) == 0 {
		return nil, false
	}
	return regs[0], true
}

// Get implements resolution.Provider: the exact name first, then the
// unnamed registration for the same type.
func (r *Registry) Get(req resolution.Request) (resolution.Registration, bool) {
	if req.ServiceType == nil {
		return nil, false
	}
	if reg, ok := r.Lookup(req.Key()); ok {
		return reg, true
	}
	if req.Name != "" {
		return r.Lookup(resolution.RegistrationKey{ServiceType: req.ServiceType})
	}
	return nil, false
}

// CanFulfilRequest implements resolution.Provider.
func (r *Registry) CanFulfilRequest(req resolution.Request) bool {
	_, ok := r.Get(req)
	return ok
}

// HasRegistration implements resolution.Provider.
func (r *Registry) HasRegistration(key resolution.RegistrationKey) bool {
	_, ok := r.Lookup(key)
	return ok
}

// GetAll implements resolution.Provider: the winning registration of every
// key for serviceType, in insertion order.
func (r *Registry) GetAll(serviceType reflect.Type) []resolution.Registration {
	var out []resolution.Registration
	for _, key := range r.keys() {
		if key.ServiceType != serviceType {
			continue
		}
		if reg, ok := r.Lookup(key); ok {
			out = append(out, reg)
		}
	}
	return out
}

// All returns the winning registration of every key, in insertion order.
func (r *Registry) All() []resolution.Registration {
	keys := r.keys()
	out := make([]resolution.Registration, 0, len(keys))
	for _, key := range keys {
		if reg, ok := r.Lookup(key); ok {
			out = append(out, reg)
		}
	}
	return out
}

// Len returns the number of occupied keys.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

func (r *Registry) keys() []resolution.RegistrationKey {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]resolution.RegistrationKey, len(r.order))
	copy(out, r.order)
	return out
}

var _ resolution.Provider = (*Registry)(nil)
