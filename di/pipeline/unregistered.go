package pipeline

import (
	"reflect"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/sghaida/odic/di/cache"
	"github.com/sghaida/odic/di/registration"
	"github.com/sghaida/odic/di/resolution"
)

// unregisteredStage resolves pointer-to-struct types nobody registered by
// synthesizing a type registration for them.
//
// Synthetic registrations are memoized per type so a type keeps one
// identity on the resolution path while it is being constructed.
type unregisteredStage struct {
	inner    Stage
	registry Registrar
	cache    *cache.Cache // nil when caching is disabled
	creator  *InstanceCreator
	log      logrus.FieldLogger

	synthetic sync.Map // reflect.Type -> *registration.TypeRegistration
}

func (s *unregisteredStage) Resolve(req resolution.Request) (resolution.Result, error) {
	res, err := s.inner.Resolve(req)
	if err != nil || res.IsSuccess {
		return res, err
	}
	reg, ok := s.synthesize(req.ServiceType)
	if !ok {
		return res, nil
	}

	res, err = s.creator.Create(req, reg)
	if err != nil || !res.IsSuccess {
		return res, err
	}

	if !s.registry.HasRegistration(reg.Key()) {
		if err := s.registry.Add(reg); err != nil {
			return resolution.Failure(req.Path), err
		}
		s.log.WithField("service", req.ServiceType.String()).Debug("registered unregistered type")
	}
	if s.cache != nil {
		s.cache.Add(reg, res.ResolvedObject)
	}
	return res, nil
}

func (s *unregisteredStage) Registration(req resolution.Request) (resolution.Registration, bool) {
	if reg, ok := s.inner.Registration(req); ok {
		return reg, true
	}
	return s.synthesize(req.ServiceType)
}

func (s *unregisteredStage) synthesize(t reflect.Type) (resolution.Registration, bool) {
	if t == nil {
		return nil, false
	}
	if v, ok := s.synthetic.Load(t); ok {
		return v.(resolution.Registration), true
	}
	reg, err := registration.Synthetic(t)
	if err != nil {
		return nil, false
	}
	v, _ := s.synthetic.LoadOrStore(t, reg)
	return v.(resolution.Registration), true
}
