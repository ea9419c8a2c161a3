package pipeline

import (
	"io"
	"reflect"

	"github.com/sirupsen/logrus"

	"github.com/sghaida/odic/di/cache"
	"github.com/sghaida/odic/di/resolution"
)

// Stage is one link of the resolution pipeline.
type Stage interface {
	// Resolve answers req. A failed Result with a nil error means the
	// request cannot be satisfied; an error is fatal to the call tree.
	Resolve(req resolution.Request) (resolution.Result, error)

	// Registration returns the registration that would answer req.
	Registration(req resolution.Request) (resolution.Registration, bool)
}

// Registrar is the registry capability the pipeline needs: lookups plus the
// ability to record synthetic registrations.
type Registrar interface {
	resolution.Provider
	Add(reg resolution.Registration) error
}

// Event is raised once per constructed instance. Cache hits do not raise it.
type Event struct {
	Request      resolution.Request
	Registration resolution.Registration
	Instance     any
}

// Notifier receives events.
type Notifier func(Event)

// Config selects and wires the stages Build installs.
type Config struct {
	Registry Registrar
	Cache    *cache.Cache

	// Parent answers requests this container cannot; nil for a root.
	Parent Stage

	Caching           bool
	UnregisteredTypes bool
	CircularDetection bool
	Lazy              bool
	NamedDictionaries bool
	Optional          bool

	// Innermost is true for the container a request entered; resolvers
	// built for a parent on behalf of a child set it to false.
	Innermost bool

	// MaxDepth bounds the resolution path length; 0 disables the bound.
	MaxDepth int

	// ResolverTypes are the service types answered by BindResolver when
	// requested during another registration's construction.
	ResolverTypes []reflect.Type
	BindResolver  func(path resolution.Path) any

	Notify Notifier
	Logger logrus.FieldLogger
}

// Build folds the configured stages around the core resolver and returns
// the outermost stage.
func Build(cfg Config) Stage {
	if cfg.Logger == nil {
		cfg.Logger = discardLogger()
	}
	outer := &lateBound{}
	creator := &InstanceCreator{
		outer:    outer,
		maxDepth: cfg.MaxDepth,
		notify:   cfg.Notify,
		log:      cfg.Logger,
	}

	var s Stage = &coreResolver{provider: cfg.Registry, creator: creator}
	for _, st := range cfg.stages(creator) {
		s = st.wrap(s)
	}
	outer.target = s
	return s
}

// StageNames lists the stages Build installs for cfg, innermost first. The
// core resolver is not listed.
func (cfg Config) StageNames() []string {
	stages := cfg.stages(nil)
	names := make([]string, len(stages))
	for i, st := range stages {
		names[i] = st.name
	}
	return names
}

type stageCtor struct {
	name string
	wrap func(Stage) Stage
}

// stages lists the enabled stage constructors, innermost first.
func (cfg Config) stages(creator *InstanceCreator) []stageCtor {
	var out []stageCtor

	if cfg.Caching && cfg.Cache != nil {
		out = append(out, stageCtor{"caching", func(in Stage) Stage {
			return &cachingStage{inner: in, cache: cfg.Cache}
		}})
	}
	if cfg.Parent != nil {
		out = append(out, stageCtor{"fallback", func(in Stage) Stage {
			return &fallbackStage{inner: in, parent: cfg.Parent, log: cfg.Logger}
		}})
	}
	if cfg.UnregisteredTypes && cfg.Innermost {
		var c *cache.Cache
		if cfg.Caching {
			c = cfg.Cache
		}
		out = append(out, stageCtor{"unregistered", func(in Stage) Stage {
			return &unregisteredStage{inner: in, registry: cfg.Registry, cache: c, creator: creator, log: cfg.Logger}
		}})
	}
	if cfg.CircularDetection {
		out = append(out, stageCtor{"circular", func(in Stage) Stage { return &circularStage{inner: in} }})
	}
	if cfg.Lazy {
		out = append(out, stageCtor{"lazy", func(in Stage) Stage { return &lazyStage{inner: in} }})
	}
	out = append(out, stageCtor{"registeredName", func(in Stage) Stage { return &registeredNameStage{inner: in} }})
	if cfg.NamedDictionaries {
		out = append(out, stageCtor{"dictionary", func(in Stage) Stage {
			return &dictionaryStage{inner: in, provider: cfg.Registry, parent: cfg.Parent}
		}})
	}
	if cfg.Optional {
		out = append(out, stageCtor{"optional", func(in Stage) Stage { return &optionalStage{inner: in} }})
	}
	if cfg.BindResolver != nil && len(cfg.ResolverTypes) > 0 {
		types := append([]reflect.Type(nil), cfg.ResolverTypes...)
		out = append(out, stageCtor{"dynamic", func(in Stage) Stage {
			return &dynamicStage{inner: in, types: types, bind: cfg.BindResolver}
		}})
	}
	return out
}

// lateBound forwards to a target assigned after the pipeline is folded.
type lateBound struct {
	target Stage
}

func (l *lateBound) Resolve(req resolution.Request) (resolution.Result, error) {
	return l.target.Resolve(req)
}

func (l *lateBound) Registration(req resolution.Request) (resolution.Registration, bool) {
	return l.target.Registration(req)
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
