package pipeline

import (
	"reflect"

	"github.com/sghaida/odic/di/resolution"
)

// RegisteredNameParameter is the reserved parameter name that receives the
// name of the registration being constructed.
const RegisteredNameParameter = "registeredName"

var stringType = reflect.TypeOf("")

// registeredNameStage answers string parameters named
// RegisteredNameParameter with the name of the registration at the top of
// the path. Nothing is looked up.
type registeredNameStage struct {
	inner Stage
}

func (s *registeredNameStage) Resolve(req resolution.Request) (resolution.Result, error) {
	if req.ServiceType == stringType && req.Name == RegisteredNameParameter {
		if top, ok := req.Path.Top(); ok {
			return resolution.Success(req.Path, top.Name()), nil
		}
	}
	return s.inner.Resolve(req)
}

func (s *registeredNameStage) Registration(req resolution.Request) (resolution.Registration, bool) {
	return s.inner.Registration(req)
}
