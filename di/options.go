package di

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultMaxDepth bounds resolution paths unless configured otherwise.
const DefaultMaxDepth = 1024

// ErrNegativeMaxDepth is returned when Options.MaxDepth is below zero.
var ErrNegativeMaxDepth = errors.New("di: maxDepth must not be negative")

// Options selects the pipeline stages a container installs.
//
// Options can be loaded from YAML:
//
//	caching: true
//	unregisteredTypes: false
//	circularDetection: true
//	namedDictionaries: true
//	lazy: true
//	optional: false
//	selfRegister: true
//	maxDepth: 256
//	logLevel: debug
type Options struct {
	// Caching installs the instance cache stage.
	Caching bool `yaml:"caching"`
	// UnregisteredTypes lets the innermost container construct
	// pointer-to-struct types that were never registered.
	UnregisteredTypes bool `yaml:"unregisteredTypes"`
	// CircularDetection fails requests that revisit a registration on the
	// current path.
	CircularDetection bool `yaml:"circularDetection"`
	// NamedDictionaries answers map[K]V requests with every named V.
	NamedDictionaries bool `yaml:"namedDictionaries"`
	// Lazy answers *Lazy[T] requests with an unevaluated wrapper.
	Lazy bool `yaml:"lazy"`
	// Optional turns failed resolutions into zero values.
	Optional bool `yaml:"optional"`
	// SelfRegister registers the container as Resolver and Registrar and
	// hands out path-aware resolvers during construction.
	SelfRegister bool `yaml:"selfRegister"`

	// MaxDepth bounds the resolution path. 0 removes the bound; with
	// CircularDetection off a real cycle then recurses until the stack is
	// exhausted.
	MaxDepth int `yaml:"maxDepth"`

	// LogLevel is a logrus level name used by the default logger.
	LogLevel string `yaml:"logLevel"`
}

// DefaultOptions enables every stage except optional resolution.
func DefaultOptions() Options {
	return Options{
		Caching:           true,
		UnregisteredTypes: true,
		CircularDetection: true,
		NamedDictionaries: true,
		Lazy:              true,
		Optional:          false,
		SelfRegister:      true,
		MaxDepth:          DefaultMaxDepth,
		LogLevel:          logrus.WarnLevel.String(),
	}
}

// Validate checks the numeric and level fields.
func (o Options) Validate() error {
	if o.MaxDepth < 0 {
		return ErrNegativeMaxDepth
	}
	if o.LogLevel != "" {
		if _, err := logrus.ParseLevel(o.LogLevel); err != nil {
			return err
		}
	}
	return nil
}

// LoadOptions decodes YAML options from r on top of DefaultOptions. Unknown
// keys are rejected; an empty document yields the defaults.
func LoadOptions(r io.Reader) (Options, error) {
	opts := DefaultOptions()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return Options{}, err
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// ParseOptions decodes YAML options from data.
func ParseOptions(data []byte) (Options, error) {
	return LoadOptions(bytes.NewReader(data))
}

// LoadOptionsFile reads YAML options from path.
func LoadOptionsFile(path string) (Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return Options{}, err
	}
	defer f.Close()
	return LoadOptions(f)
}

// Option configures a Container.
type Option func(*Container)

// WithOptions replaces the container's Options.
func WithOptions(o Options) Option {
	return func(c *Container) { c.opts = o }
}

// WithLogger sets the logger. Without it a logrus logger writing to stderr
// at Options.LogLevel is used.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Container) { c.baseLog = l }
}

// WithOnServiceResolved subscribes fn to ServiceResolved events.
func WithOnServiceResolved(fn func(ServiceResolved)) Option {
	return func(c *Container) {
		if fn != nil {
			c.handlers = append(c.handlers, fn)
		}
	}
}

func defaultLogger(level string) logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.WarnLevel)
	if lvl, err := logrus.ParseLevel(level); err == nil {
		l.SetLevel(lvl)
	}
	return l
}
