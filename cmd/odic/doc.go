// Command odic inspects container options files.
//
// Usage:
//
//	odic stages  [-c container.yaml]
//	odic options [-c container.yaml] [-o effective.yaml]
//
// stages prints the resolution stages a container built from the options
// would run, innermost first, one per line. options prints the effective
// options with defaults filled in, or writes them to -o so they can be
// committed next to the service that loads them. Without -c the default
// options are used.
//
// The exit code is 1 when the options cannot be loaded or written.
package main
