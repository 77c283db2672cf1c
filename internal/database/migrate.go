package database

import (
	"github.com/kochwerk/kitchenplan/backend/internal/models"
	"gorm.io/gorm"
)

// Migrate brings the schema up to date for all engine entities.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Location{},
		&models.Dish{},
		&models.CompositionEdge{},
		&models.MenuSlotAssignment{},
		&models.OrderLine{},
		&models.LocationPortionOverride{},
	)
}
