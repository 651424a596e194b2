package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rkSlalom/ae-infinity-api/internal/domain"
	"github.com/rkSlalom/ae-infinity-api/internal/repository"
)

// GormRoleRepository reads the role reference data. Roles are seeded at
// migration time and never written on the request path.
type GormRoleRepository struct {
	db *gorm.DB
}

func NewGormRoleRepository(db *gorm.DB) *GormRoleRepository {
	if db == nil {
		panic("database connection cannot be nil for GormRoleRepository")
	}
	return &GormRoleRepository{db: db}
}

func (r *GormRoleRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Role, error) {
	var role domain.Role
	err := r.db.WithContext(ctx).First(&role, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRoleNotFound
		}
		return nil, fmt.Errorf("gorm: find role by id %s: %w", id, err)
	}
	return &role, nil
}

func (r *GormRoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	var role domain.Role
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRoleNotFound
		}
		return nil, fmt.Errorf("gorm: find role by name %q: %w", name, err)
	}
	return &role, nil
}

func (r *GormRoleRepository) FindAll(ctx context.Context) ([]domain.Role, error) {
	var roles []domain.Role
	err := r.db.WithContext(ctx).Order("priority_order ASC").Find(&roles).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find all roles: %w", err)
	}
	return roles, nil
}
