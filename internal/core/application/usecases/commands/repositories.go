// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// ProductRepoFactory provides access to product repository within a transaction.
	ProductRepoFactory interface {
		ProductRepository() ports.ProductRepository
	}

	// ReturnRepoFactory provides access to returned item repository within a transaction.
	ReturnRepoFactory interface {
		ReturnRepository() ports.ReturnRepository
	}

	// MovementRepoFactory provides access to stock movement repository within a transaction.
	MovementRepoFactory interface {
		MovementRepository() ports.MovementRepository
	}

	// OperatorRepoFactory provides access to operator repository within a transaction.
	OperatorRepoFactory interface {
		OperatorRepository() ports.OperatorRepository
	}

	// OrderUoW manages transactions for operations touching only the order
	// aggregate and the acting operator. Used by pure state transitions.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		OperatorRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// PricingUoW manages transactions for cart mutations that reprice the
	// order against the product catalog without touching stock.
	PricingUoW interface {
		TxManager
		OrderRepoFactory
		ProductRepoFactory
		OperatorRepoFactory
	}

	// PricingUoWFactory creates new pricing unit of work instances.
	PricingUoWFactory interface {
		Create() PricingUoW
	}

	// StockUoW manages transactions that mutate stock: confirmation
	// decrements and return reintegrations. These load products under
	// row-level locks and append audit movements.
	StockUoW interface {
		TxManager
		OrderRepoFactory
		ProductRepoFactory
		MovementRepoFactory
		ReturnRepoFactory
		OperatorRepoFactory
	}

	// StockUoWFactory creates new stock unit of work instances.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   products, _ := uow.ProductRepository().GetBatchForUpdate(ctx, ids)
	//   // ... mutate stock, append movements
	//
	//   err = uow.Commit(ctx)
	StockUoWFactory interface {
		Create() StockUoW
	}
)
