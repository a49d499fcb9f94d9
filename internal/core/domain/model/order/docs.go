// Package order contains the Order aggregate and everything it owns: line
// items, the append-only state ledger, audit operations and returned items.
//
// The aggregate enforces the pipeline's structural invariants: exactly one
// open state entry at any time, table-driven transition legality gated on
// operator roles, frozen line prices in protected states, cart mutations only
// outside them. Pricing arithmetic and stock effects live in the domain
// services and are driven by the application layer; this package only holds
// the state they act on.
package order
