package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"licensing-core/storage/cache"
	"licensing-core/types"
)

// CatalogRepo serves read-only reference data: clients, the software
// catalog and the discount table. System and version lookups go through
// an optional Redis cache; a nil cache means plain Postgres reads.
type CatalogRepo struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewCatalogRepo(db *gorm.DB, c *cache.Cache) *CatalogRepo {
	return &CatalogRepo{db: db, cache: c}
}

func (r *CatalogRepo) GetClient(ctx context.Context, id string) (*types.Client, error) {
	var client types.Client
	err := r.db.WithContext(ctx).First(&client, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *CatalogRepo) GetSystem(ctx context.Context, id string) (*types.SoftwareSystem, error) {
	var system types.SoftwareSystem
	if r.cache.GetJSON(ctx, "catalog:system:"+id, &system) {
		return &system, nil
	}

	err := r.db.WithContext(ctx).First(&system, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.cache.SetJSON(ctx, "catalog:system:"+id, &system)
	return &system, nil
}

func (r *CatalogRepo) GetVersion(ctx context.Context, systemID, versionID string) (*types.SoftwareVersion, error) {
	key := "catalog:version:" + systemID + ":" + versionID
	var version types.SoftwareVersion
	if r.cache.GetJSON(ctx, key, &version) {
		return &version, nil
	}

	err := r.db.WithContext(ctx).
		Where("id = ? AND software_system_id = ?", versionID, systemID).
		First(&version).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.cache.SetJSON(ctx, key, &version)
	return &version, nil
}

// ListByType feeds the discount resolver. Uncached: the table is small
// and windows are date-sensitive.
func (r *CatalogRepo) ListByType(ctx context.Context, discountType types.DiscountType) ([]types.Discount, error) {
	var discounts []types.Discount
	err := r.db.WithContext(ctx).
		Where("discount_type = ?", discountType).
		Find(&discounts).Error
	return discounts, err
}
