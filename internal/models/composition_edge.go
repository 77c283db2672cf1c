package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ComponentRole is the functional grouping a component fills on the plate.
type ComponentRole string

const (
	RoleSalad      ComponentRole = "salad"
	RoleWarmVeggie ComponentRole = "warm_veggie"
	RoleOther      ComponentRole = "other"
)

// ComponentRoles lists all roles in their canonical order.
var ComponentRoles = []ComponentRole{RoleSalad, RoleWarmVeggie, RoleOther}

// CompositionEdge allocates a percentage of a main dish's role total to a
// component dish. Percentage is a fraction of the main dish's total
// allocation for the role, not of the whole plate. Sums above 100 within a
// (main dish, role) pair are a data-entry error that is surfaced, never
// clamped.
type CompositionEdge struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
	MainDishID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"main_dish_id"`
	ComponentDishID uuid.UUID      `gorm:"type:uuid;not null;index" json:"component_dish_id"`
	Role            ComponentRole  `gorm:"size:20;not null" json:"role"`
	Percentage      float64        `gorm:"not null" json:"percentage"`
}

func (CompositionEdge) TableName() string {
	return "composition_edges"
}
