package pipeline

import (
	"reflect"
	"slices"

	"github.com/sghaida/odic/di/resolution"
)

// dynamicStage hands out path-aware resolvers. A resolver requested during
// another registration's construction is bound to the current path, so a
// cycle closed later through that resolver is still detected.
//
// Top-level requests (empty path) pass through to the inner stages, where
// the self-registered container answers them.
type dynamicStage struct {
	inner Stage
	types []reflect.Type
	bind  func(path resolution.Path) any
}

func (s *dynamicStage) Resolve(req resolution.Request) (resolution.Result, error) {
	if !req.Path.IsEmpty() && slices.Contains(s.types, req.ServiceType) {
		return resolution.Success(req.Path, s.bind(req.Path)), nil
	}
	return s.inner.Resolve(req)
}

func (s *dynamicStage) Registration(req resolution.Request) (resolution.Registration, bool) {
	return s.inner.Registration(req)
}
