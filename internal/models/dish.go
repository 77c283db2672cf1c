package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DishCategory classifies a dish for menu planning.
type DishCategory string

const (
	CategorySoup       DishCategory = "soup"
	CategoryHotMain    DishCategory = "hot_main"
	CategorySalad      DishCategory = "salad"
	CategoryWarmVeggie DishCategory = "warm_veggie"
	CategoryOther      DishCategory = "other"
)

// Unit is the base measurement unit of a dish's serving. Mass dishes are
// tracked in grams, volume dishes in milliliters. The unit kind is fixed at
// creation and never changes for the life of the dish.
type Unit string

const (
	UnitGram       Unit = "g"
	UnitMilliliter Unit = "ml"
)

// Dish is a producible menu item. The nullable role totals define the
// denominator quantity (in the component's base unit) that percentage-based
// composition edges of that role are computed against; a dish with no role
// total for a role has no composite allocation for it.
type Dish struct {
	ID                     uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
	DeletedAt              gorm.DeletedAt  `gorm:"index" json:"-"`
	Name                   string          `gorm:"size:255;not null" json:"name"`
	Category               DishCategory    `gorm:"size:50;not null" json:"category"`
	DefaultPortionSize     float64         `json:"default_portion_size"`
	Unit                   Unit            `gorm:"size:10;not null" json:"unit"`
	PricePerPortion        decimal.Decimal `gorm:"type:numeric(10,2)" json:"price_per_portion"`
	SaladTotalPortion      *float64        `json:"salad_total_portion,omitempty"`
	WarmVeggieTotalPortion *float64        `json:"warm_veggie_total_portion,omitempty"`
	OtherTotalPortion      *float64        `json:"other_total_portion,omitempty"`
}

func (Dish) TableName() string {
	return "dishes"
}

// RoleTotalPortion returns the composition denominator for a role, or zero
// when the dish carries no allocation for it.
func (d *Dish) RoleTotalPortion(role ComponentRole) float64 {
	var total *float64
	switch role {
	case RoleSalad:
		total = d.SaladTotalPortion
	case RoleWarmVeggie:
		total = d.WarmVeggieTotalPortion
	case RoleOther:
		total = d.OtherTotalPortion
	}
	if total == nil {
		return 0
	}
	return *total
}
