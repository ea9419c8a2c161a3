// Package di is a reflection-based dependency injection container.
//
// A Container holds registrations and resolves services by type and optional
// name. Resolution runs through a pipeline of stages, each answering the
// requests it understands and delegating the rest:
//
//   - instance caching for singleton registrations
//   - fallback to a parent container
//   - construction of unregistered struct pointers
//   - circular dependency detection
//   - *Lazy[T] values evaluated on demand
//   - the reserved "registeredName" parameter
//   - map[K]V dictionaries of every named V
//   - optional resolution, answering failures with zero values
//   - path-aware Resolver values handed to constructors
//
// Which stages are installed is controlled by Options, which can be loaded
// from YAML.
//
// Quick start
//
//	c := di.NewContainer()
//	_ = di.RegisterType[Store, *pgStore](c, di.WithConstructor(newPgStore))
//	_ = di.RegisterInstance[*Config](c, cfg)
//	store, err := di.Resolve[Store](c)
//
// Child containers (CreateChildContainer) own their registrations and cached
// instances and fall back to the parent for anything they lack. Dispose closes
// the cached instances registered with DisposeWithContainer.
//
// Import
//
//	"github.com/sghaida/odic/di"
package di
