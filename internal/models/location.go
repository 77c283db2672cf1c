package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Location is a delivery site that places weekly orders.
type Location struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Name      string         `gorm:"size:255;not null" json:"name"`
}

func (Location) TableName() string {
	return "locations"
}

// LocationPortionOverride replaces a dish's default portion size for one
// location (e.g. a site that serves smaller soup portions). Absent an
// override, projection falls back to the dish default.
type LocationPortionOverride struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	LocationID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_location_dish_override,priority:1" json:"location_id"`
	DishID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_location_dish_override,priority:2" json:"dish_id"`
	PortionSize float64   `gorm:"not null" json:"portion_size"`
	Unit        Unit      `gorm:"size:10;not null" json:"unit"`
}

func (LocationPortionOverride) TableName() string {
	return "location_portion_overrides"
}
