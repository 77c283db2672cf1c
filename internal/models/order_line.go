package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderLine records a location's request for portions of a dish on a
// delivery date, filed under the meal slot the ordering UI presented. The
// natural key (location, delivery date, slot, dish) is expected to be
// unique; the write layer rejects conflicts and the aggregation engine
// reports any residual duplicates from legacy data as integrity warnings.
//
// The composite index is deliberately non-unique so that historical rows
// predating write-time enforcement can still be loaded and surfaced.
type OrderLine struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	LocationID   uuid.UUID `gorm:"type:uuid;not null;index:idx_order_natural_key,priority:1" json:"location_id"`
	DeliveryDate time.Time `gorm:"type:date;not null;index:idx_order_natural_key,priority:2" json:"delivery_date"`
	SlotKey      string    `gorm:"size:50;not null;index:idx_order_natural_key,priority:3" json:"slot_key"`
	DishID       uuid.UUID `gorm:"type:uuid;not null;index:idx_order_natural_key,priority:4" json:"dish_id"`
	Portions     int       `gorm:"not null;check:portions >= 0" json:"portions"`
}

func (OrderLine) TableName() string {
	return "order_lines"
}
