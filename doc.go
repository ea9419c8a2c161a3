// Package odic is a dependency injection container for Go.
//
// The container resolves services through a composable pipeline of stages
// folded around a core resolver. Registrations come in three shapes: a type
// built through its constructor, a factory function, or a fixed instance.
//
// Subpackages:
//   - di: Container, options, generic entry points, Lazy[T], disposal
//   - di/resolution: requests, paths, results, registration contracts, errors
//   - di/registration: the registration variants and the registry
//   - di/cache: the specificity-ordered instance cache
//   - di/pipeline: the resolution stages and the instance creator
//   - examples/container: a runnable composition root
//   - cmd/odic: inspects an options file and the stages it enables
package odic
