// Package pipeline implements the resolution pipeline: an ordered list of
// stages folded around a core resolver.
//
// Every stage implements Stage and wraps an inner Stage. A stage may answer a
// request itself, delegate inward, or delegate and transform the answer on
// the way out. Build composes the stages, innermost to outermost:
//
//  1. caching
//  2. fallback to the parent container
//  3. unregistered type resolution (innermost container only)
//  4. circular dependency prevention
//  5. lazy instances
//  6. registered name injection
//  7. named instance dictionaries
//  8. optional resolution
//  9. dynamic self-recursion (path-aware resolvers)
//
// The instance creator resolves factory parameters through the outermost
// stage, not the core, so nested requests pass through cycle detection and
// every other stage. Because the outermost stage only exists after the fold,
// the creator holds a late-bound cell whose target is assigned last.
package pipeline
