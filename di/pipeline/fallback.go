package pipeline

import (
	"github.com/sirupsen/logrus"

	"github.com/sghaida/odic/di/resolution"
)

// fallbackStage retries failed requests against the parent container's
// resolver.
type fallbackStage struct {
	inner  Stage
	parent Stage
	log    logrus.FieldLogger
}

func (s *fallbackStage) Resolve(req resolution.Request) (resolution.Result, error) {
	res, err := s.inner.Resolve(req)
	if err != nil || res.IsSuccess {
		return res, err
	}
	s.log.WithField("service", req.String()).Debug("falling back to parent container")
	return s.parent.Resolve(req)
}

func (s *fallbackStage) Registration(req resolution.Request) (resolution.Registration, bool) {
	if reg, ok := s.inner.Registration(req); ok {
		return reg, true
	}
	return s.parent.Registration(req)
}
