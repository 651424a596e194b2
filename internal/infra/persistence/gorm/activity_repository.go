package gormpersistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rkSlalom/ae-infinity-api/internal/domain"
)

// GormActivityRepository is the GORM implementation of ActivityRepository.
// Rows are append-only; the worker is the only writer.
type GormActivityRepository struct {
	db *gorm.DB
}

func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	if db == nil {
		panic("database connection cannot be nil for GormActivityRepository")
	}
	return &GormActivityRepository{db: db}
}

func (r *GormActivityRepository) Save(ctx context.Context, entry *domain.ListActivity) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("gorm: save activity (list: %s, action: %s): %w", entry.ListID, entry.Action, err)
	}
	return nil
}

func (r *GormActivityRepository) FindByList(ctx context.Context, listID uuid.UUID, limit int) ([]domain.ListActivity, error) {
	var entries []domain.ListActivity
	err := r.db.WithContext(ctx).
		Where("list_id = ?", listID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find activity for list %s: %w", listID, err)
	}
	return entries, nil
}
