// Package kernel provides the domain primitives shared by every aggregate in
// the fulfillment core.
//
// It contains:
//   - UUID: an identifier value object wrapping github.com/google/uuid
//   - Money: a fixed-point amount value object wrapping shopspring/decimal,
//     used for all prices and totals so repeated recomputation never drifts
//
// Both types are immutable and safe for concurrent use. Zero values are
// invalid for UUID and mean "unset" for Money; constructors produce the
// valid forms.
package kernel
