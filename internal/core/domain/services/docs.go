// Package services provides domain services that orchestrate business operations
// across multiple domain entities in the fulfillment system. It implements complex
// business workflows that don't naturally belong to a single aggregate root.
//
// The package includes:
//   - PricingEngine: line item pricing and idempotent order total recomputation
//   - StockControl: the single writer of stock quantities, with audit movements
//   - PartialDeliveryReconciler: delivered/returned line splits with conservation checks
//
// Domain services coordinate between aggregates, implementing business logic that
// spans multiple bounded contexts following Domain-Driven Design principles.
package services
