package pipeline

import (
	"github.com/sghaida/odic/di/cache"
	"github.com/sghaida/odic/di/resolution"
)

// cachingStage serves cacheable registrations from the instance cache and
// stores fresh instances on the way out.
type cachingStage struct {
	inner Stage
	cache *cache.Cache
}

func (s *cachingStage) Resolve(req resolution.Request) (resolution.Result, error) {
	reg, ok := s.inner.Registration(req)
	cacheable := ok && reg.Cacheable()
	if cacheable {
		// exact keys only: a supertype match may hold another registration's instance
		if obj, hit := s.cache.GetExact(reg.CacheKey()); hit {
			return resolution.Success(req.Path, obj), nil
		}
	}

	res, err := s.inner.Resolve(req)
	if err != nil || !res.IsSuccess {
		return res, err
	}
	if cacheable {
		// A racing resolution may already have stored its own instance;
		// this caller still receives the one it constructed.
		s.cache.Add(reg, res.ResolvedObject)
	}
	return res, nil
}

func (s *cachingStage) Registration(req resolution.Request) (resolution.Registration, bool) {
	return s.inner.Registration(req)
}
