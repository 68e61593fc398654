package repository

import (
	"context"

	"github.com/btlam02/gis-app/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BridgeRepository interface {
	Create(ctx context.Context, bridge *entity.Bridge) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Bridge, error)
	FindAll(ctx context.Context) ([]*entity.Bridge, error)
	Update(ctx context.Context, bridge *entity.Bridge) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type bridgeRepository struct {
	db *gorm.DB
}

func NewBridgeRepository(db *gorm.DB) BridgeRepository {
	return &bridgeRepository{db: db}
}

// Create persists the bridge and its segments in one transaction so a
// half-written bridge never becomes visible.
func (r *bridgeRepository) Create(ctx context.Context, bridge *entity.Bridge) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(bridge).Error
	})
}

func (r *bridgeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Bridge, error) {
	var bridge entity.Bridge
	err := r.db.WithContext(ctx).
		Preload("Segments", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order")
		}).
		First(&bridge, "id = ?", id).Error
	if err != nil {
		return nil, err
	}

	return &bridge, nil
}

func (r *bridgeRepository) FindAll(ctx context.Context) ([]*entity.Bridge, error) {
	var bridges []*entity.Bridge
	err := r.db.WithContext(ctx).
		Preload("Segments", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order")
		}).
		Order("name").
		Find(&bridges).Error
	if err != nil {
		return nil, err
	}

	return bridges, nil
}

func (r *bridgeRepository) Update(ctx context.Context, bridge *entity.Bridge) error {
	return r.db.WithContext(ctx).Omit("Segments").Save(bridge).Error
}

func (r *bridgeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entity.BridgeSegment{}, "bridge_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Bridge{}, "id = ?", id).Error
	})
}

func (r *bridgeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Bridge{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
