package pipeline

import "github.com/sghaida/odic/di/resolution"

// circularStage fails a request whose registration is already on the path.
type circularStage struct {
	inner Stage
}

func (s *circularStage) Resolve(req resolution.Request) (resolution.Result, error) {
	if reg, ok := s.inner.Registration(req); ok && req.Path.Contains(reg) {
		return resolution.Failure(req.Path), resolution.CircularDependencyError{Registration: reg, Path: req.Path}
	}
	return s.inner.Resolve(req)
}

func (s *circularStage) Registration(req resolution.Request) (resolution.Registration, bool) {
	return s.inner.Registration(req)
}
