package setup

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/rkSlalom/ae-infinity-api/internal/domain"
)

// MigrateDB migrates the schema and seeds the role reference data.
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("cannot migrate database with nil DB connection")
	}

	err := db.AutoMigrate(
		&domain.User{},
		&domain.Role{},
		&domain.List{},
		&domain.ListItem{},
		&domain.Collaboration{},
		&domain.ListActivity{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto-migrate tables: %w", err)
	}

	if err := SeedRoles(db); err != nil {
		return fmt.Errorf("failed to seed roles: %w", err)
	}

	logrus.Info("Database migration completed successfully")
	return nil
}

// SeedRoles inserts the four built-in roles if they do not exist yet. Seeding
// is idempotent: existing rows are left untouched so manual tweaks survive
// restarts.
func SeedRoles(db *gorm.DB) error {
	roles := []domain.Role{
		{
			Name:        domain.RoleOwner,
			Description: "Full control over the list and its collaborators",
			CanCreateItems: true, CanEditItems: true, CanDeleteItems: true,
			CanMarkPurchased: true, CanEditListDetails: true,
			CanManageCollaborators: true, CanDeleteList: true, CanArchiveList: true,
			PriorityOrder: 1,
		},
		{
			Name:        domain.RoleEditor,
			Description: "Can manage all items on the list",
			CanCreateItems: true, CanEditItems: true, CanDeleteItems: true,
			CanMarkPurchased: true,
			PriorityOrder:    2,
		},
		{
			Name:        domain.RoleEditorLimited,
			Description: "Can manage only items they created themselves",
			CanCreateItems: true, CanEditItems: true, CanDeleteItems: true,
			CanEditOwnItemsOnly: true, CanMarkPurchased: true,
			PriorityOrder: 3,
		},
		{
			Name:          domain.RoleViewer,
			Description:   "Read-only access to the list",
			PriorityOrder: 4,
		},
	}

	for _, role := range roles {
		var existing domain.Role
		err := db.Where("name = ?", role.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("check role %q: %w", role.Name, err)
		}
		role.ID = uuid.New()
		if err := db.Create(&role).Error; err != nil {
			return fmt.Errorf("create role %q: %w", role.Name, err)
		}
		logrus.WithField("role", role.Name).Info("Seeded role")
	}
	return nil
}
