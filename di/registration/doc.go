// Package registration provides the registration variants and the registry
// the resolution engine consumes.
//
// Go has no runtime constructor discovery, so type registrations list their
// constructors explicitly as functions; parameter types come from the
// function signature and parameter names are supplied alongside. A type
// registration without constructors for a pointer-to-struct implementation
// falls back to allocating the struct and injecting its exported fields
// tagged `inject:"name"`.
//
//	reg, err := registration.Type(
//		reflect.TypeOf((*Store)(nil)).Elem(),
//		reflect.TypeOf(&SQLStore{}),
//		registration.WithConstructor(NewSQLStore, "db", "logger"),
//	)
//
// Variants:
//
//   - Type: implementation type plus ranked constructors (most parameters
//     wins, ties are an error).
//   - Factory: a delegate whose signature lists its dependencies.
//   - Instance: a pre-built object; always cacheable.
//   - Synthetic: the ad-hoc type registration used for unregistered types.
package registration
