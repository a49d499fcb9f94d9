// Package product contains the Product aggregate with its variants, pricing
// phases (base, promo, liquidation, test, upsell tiers), stock levels and the
// immutable StockMovement audit trail.
package product
