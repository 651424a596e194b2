package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/rkSlalom/ae-infinity-api/internal/domain"
	"github.com/rkSlalom/ae-infinity-api/internal/repository"
)

// RoleService exposes the role reference data so clients can render the
// sharing dialog.
type RoleService struct {
	roleRepo repository.RoleRepository
}

func NewRoleService(roleRepo repository.RoleRepository) *RoleService {
	if roleRepo == nil {
		panic("RoleRepository cannot be nil for RoleService")
	}
	return &RoleService{roleRepo: roleRepo}
}

// Roles returns every role in priority order.
func (s *RoleService) Roles(ctx context.Context) ([]domain.Role, error) {
	roles, err := s.roleRepo.FindAll(ctx)
	if err != nil {
		logrus.WithError(err).Error("Roles: failed to load roles")
		return nil, ErrInternalServer
	}
	return roles, nil
}
