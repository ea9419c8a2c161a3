// Package cache stores instances produced by cacheable registrations.
//
// Entries are keyed by resolution.CacheKey, the concrete implementation type
// plus name. TryGet falls back, on a miss, to stored keys of the same name
// whose type is a supertype of the requested one and whose instance is
// assignable to it, preferring the most specific match. The resolution
// pipeline looks up exact keys only, so one registration never receives an
// instance built for another.
package cache

import (
	"cmp"
	"reflect"
	"slices"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/sghaida/odic/di/resolution"
)

// DefaultMemoSize bounds the memo of fallback matches.
const DefaultMemoSize = 256

// Cache is a thread-safe key to instance map.
type Cache struct {
	entries sync.Map // resolution.CacheKey -> any

	// memo remembers which stored key answered a non-exact lookup. It is
	// purged on every Add.
	memo *lru.Cache[resolution.CacheKey, resolution.CacheKey]
}

// New returns an empty cache.
func New() *Cache {
	memo, err := lru.New[resolution.CacheKey, resolution.CacheKey](DefaultMemoSize)
	if err != nil {
		// only returned for a non-positive size
		panic(err)
	}
	return &Cache{memo: memo}
}

// Add stores instance for reg when reg is cacheable, under reg's cache key
// and, if the runtime type differs, under the runtime type as well.
//
// The first insertion for a key wins. Add returns the retained instance,
// which differs from instance when another caller stored first.
func (c *Cache) Add(reg resolution.Registration, instance any) any {
	if reg == nil || !reg.Cacheable() || instance == nil {
		return instance
	}
	key := reg.CacheKey()
	retained, _ := c.entries.LoadOrStore(key, instance)

	if rt := reflect.TypeOf(instance); rt != key.ImplementationType {
		c.entries.LoadOrStore(resolution.CacheKey{ImplementationType: rt, Name: key.Name}, retained)
	}
	c.memo.Purge()
	return retained
}

// TryGet returns the instance stored under key or, failing that, the
// instance under the most specific supertype key of the same name that is
// itself assignable to key's type.
func (c *Cache) TryGet(key resolution.CacheKey) (any, bool) {
	if key.ImplementationType == nil {
		return nil, false
	}
	if v, ok := c.entries.Load(key); ok {
		return v, true
	}
	if hit, ok := c.memo.Get(key); ok {
		if v, ok := c.entries.Load(hit); ok {
			return v, true
		}
	}

	candidates := c.candidates(key)
	if len(candidates) == 0 {
		return nil, false
	}
	best := candidates[0]
	v, ok := c.entries.Load(best)
	if ok {
		c.memo.Add(key, best)
	}
	return v, ok
}

// Has reports whether TryGet would find an instance.
func (c *Cache) Has(key resolution.CacheKey) bool {
	_, ok := c.TryGet(key)
	return ok
}

// GetExact returns the instance stored under exactly key.
func (c *Cache) GetExact(key resolution.CacheKey) (any, bool) {
	return c.entries.Load(key)
}

// HasExact reports whether an instance is stored under exactly key.
func (c *Cache) HasExact(key resolution.CacheKey) bool {
	_, ok := c.entries.Load(key)
	return ok
}

// Len returns the number of stored keys.
func (c *Cache) Len() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func instanceOf(obj any, t reflect.Type) bool {
	rt := reflect.TypeOf(obj)
	return rt != nil && rt.AssignableTo(t)
}

// candidates returns the supertype keys matching key, most specific first.
func (c *Cache) candidates(key resolution.CacheKey) []resolution.CacheKey {
	var out []resolution.CacheKey
	c.entries.Range(func(k, v any) bool {
		ck := k.(resolution.CacheKey)
		if ck.Name != key.Name || ck == key {
			return true
		}
		if key.ImplementationType.AssignableTo(ck.ImplementationType) && instanceOf(v, key.ImplementationType) {
			out = append(out, ck)
		}
		return true
	})
	slices.SortFunc(out, func(a, b resolution.CacheKey) int {
		return CompareSpecificity(a.ImplementationType, b.ImplementationType)
	})
	return out
}

// CompareSpecificity orders types from most to least specific: concrete
// types before interfaces, interfaces with more methods before fewer, then
// by name for a stable order.
func CompareSpecificity(a, b reflect.Type) int {
	if a == b {
		return 0
	}
	ai, bi := a.Kind() == reflect.Interface, b.Kind() == reflect.Interface
	switch {
	case !ai && bi:
		return -1
	case ai && !bi:
		return 1
	case ai && bi:
		if c := cmp.Compare(b.NumMethod(), a.NumMethod()); c != 0 {
			return c
		}
	}
	return cmp.Compare(a.String(), b.String())
}
