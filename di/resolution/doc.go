// Package resolution holds the data model shared by every part of the
// resolution engine.
//
// A Request names the service identity being asked for (type plus optional
// name) and carries the Path of registrations already traversed to reach it.
// Stages answer a Request with a Result. A failed Result means "cannot
// satisfy" and is recoverable; fatal conditions (cycles, construction errors)
// travel as the error value next to it.
//
// Registration, FactoryAdapter and Provider are capability interfaces: the
// engine consumes them without owning how registrations are built or stored.
package resolution
