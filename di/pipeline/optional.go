package pipeline

import (
	"reflect"

	"github.com/sghaida/odic/di/resolution"
)

// optionalStage turns every failed result from the inner stages into a
// success carrying the zero value of the requested type. Errors still
// propagate.
type optionalStage struct {
	inner Stage
}

func (s *optionalStage) Resolve(req resolution.Request) (resolution.Result, error) {
	res, err := s.inner.Resolve(req)
	if err != nil || res.IsSuccess || req.ServiceType == nil {
		return res, err
	}
	return resolution.Success(req.Path, reflect.Zero(req.ServiceType).Interface()), nil
}

func (s *optionalStage) Registration(req resolution.Request) (resolution.Registration, bool) {
	return s.inner.Registration(req)
}
