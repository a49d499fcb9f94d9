// Package errs provides standardized error types for the fulfillment core.
//
// Every type follows the same pattern: a sentinel variable (e.g.
// ErrObjectNotFound), a struct carrying the details, constructors with and
// without an underlying cause, an Error() formatter and an Unwrap() that
// returns the sentinel so call sites can classify with errors.Is.
//
// Domain-specific failures (illegal transitions, stock shortages, conservation
// violations) live next to their aggregates; this package covers the generic
// validation and lookup cases shared by all of them.
package errs
