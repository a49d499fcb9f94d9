package productrepo

import (
	"context"
	"errors"
	"sort"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/product"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements ProductRepository using GORM.
type GormProductRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormProductRepository creates a new GORM product repository.
func NewGormProductRepository(db *gorm.DB, tracker aggregateTracker) *GormProductRepository {
	return &GormProductRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new product with its variants.
func (r *GormProductRepository) Add(ctx context.Context, aggregate *product.Product) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing product. Variant rows are upserted so stock
// changes land without touching unrelated variants.
func (r *GormProductRepository) Update(ctx context.Context, aggregate *product.Product) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	tx := r.db.WithContext(ctx)

	result := tx.Model(&ProductDTO{}).Where("id = ?", dto.ID).Select(
		"name", "base_price", "current_price", "promo_price", "promo_active",
		"liquidation", "liquidation_price", "test_phase", "upsell",
		"upsell_tier1", "upsell_tier2", "upsell_tier3", "upsell_tier4",
		"stock_quantity", "active",
	).Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if len(dto.Variants) > 0 {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"color", "size", "stock_quantity", "active"}),
		}).Create(&dto.Variants).Error
		if err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a product by ID without locking.
func (r *GormProductRepository) Get(ctx context.Context, id kernel.UUID) (*product.Product, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate retrieves a product holding FOR UPDATE row locks on the
// product and its variants until the transaction ends.
func (r *GormProductRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*product.Product, error) {
	return r.get(ctx, id, true)
}

func (r *GormProductRepository) get(ctx context.Context, id kernel.UUID, lock bool) (*product.Product, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	tx := r.db.WithContext(ctx)
	if lock {
		tx = tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}

	var dto ProductDTO
	err := tx.Preload("Variants", func(db *gorm.DB) *gorm.DB {
		if lock {
			db = db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
		}
		return db.Order("color, size")
	}).First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("product", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetBatch retrieves several products without locking.
func (r *GormProductRepository) GetBatch(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]*product.Product, error) {
	return r.getBatch(ctx, ids, false)
}

// GetBatchForUpdate retrieves several products under FOR UPDATE locks,
// acquiring them in id order so concurrent confirmations sharing products
// cannot deadlock on lock ordering.
func (r *GormProductRepository) GetBatchForUpdate(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]*product.Product, error) {
	return r.getBatch(ctx, ids, true)
}

func (r *GormProductRepository) getBatch(ctx context.Context, ids []kernel.UUID, lock bool) (map[kernel.UUID]*product.Product, error) {
	sorted := make([]kernel.UUID, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].String() < sorted[j].String()
	})

	catalog := make(map[kernel.UUID]*product.Product, len(sorted))
	for _, id := range sorted {
		aggregate, err := r.get(ctx, id, lock)
		if err != nil {
			return nil, err
		}
		catalog[id] = aggregate
	}
	return catalog, nil
}
