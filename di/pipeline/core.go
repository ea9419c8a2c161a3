package pipeline

import (
	"github.com/sirupsen/logrus"

	"github.com/sghaida/odic/di/resolution"
)

// coreResolver is the terminal stage: registry lookup plus construction.
type coreResolver struct {
	provider resolution.Provider
	creator  *InstanceCreator
}

func (c *coreResolver) Resolve(req resolution.Request) (resolution.Result, error) {
	if req.ServiceType == nil {
		return resolution.Failure(req.Path), resolution.ErrNilType
	}
	reg, ok := c.Registration(req)
	if !ok {
		return resolution.Failure(req.Path), nil
	}
	return c.creator.Create(req, reg)
}

// Registration rejects non-reference types before consulting the registry.
func (c *coreResolver) Registration(req resolution.Request) (resolution.Registration, bool) {
	if !resolution.IsReferenceType(req.ServiceType) {
		return nil, false
	}
	return c.provider.Get(req)
}

// InstanceCreator builds an instance from a registration, resolving the
// factory's parameters through the outermost stage.
type InstanceCreator struct {
	outer    Stage
	maxDepth int
	notify   Notifier
	log      logrus.FieldLogger
}

// Create constructs an instance for req using reg.
func (c *InstanceCreator) Create(req resolution.Request, reg resolution.Registration) (resolution.Result, error) {
	adapter, err := reg.FactoryAdapter(req)
	if err != nil {
		return resolution.Failure(req.Path), err
	}

	path := req.Path.CreateChild(reg)
	if c.maxDepth > 0 && path.Len() > c.maxDepth {
		return resolution.Failure(req.Path), resolution.DepthExceededError{Path: path, Limit: c.maxDepth}
	}

	var args []any
	if adapter.RequiresParameterResolution() {
		params := adapter.Parameters()
		args = make([]any, len(params))
		for i, p := range params {
			res, err := c.outer.Resolve(p.Request(path))
			if err != nil {
				return resolution.Failure(path), err
			}
			if !res.IsSuccess {
				return resolution.Failure(path), resolution.ParameterResolutionError{
					Registration: reg,
					Parameter:    p,
					Path:         path,
				}
			}
			args[i] = res.ResolvedObject
		}
	}

	obj, err := adapter.Execute(args)
	if err != nil {
		return resolution.Failure(path), resolution.ConstructionError{Registration: reg, Err: err}
	}

	c.log.WithFields(logrus.Fields{
		"service": resolution.Describe(reg),
		"path":    req.Path.String(),
	}).Debug("constructed instance")

	if c.notify != nil {
		c.notify(Event{Request: req, Registration: reg, Instance: obj})
	}
	return resolution.Success(path, obj), nil
}
