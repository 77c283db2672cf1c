package api

import (
	"github.com/google/uuid"
	"github.com/kochwerk/kitchenplan/backend/internal/models"
	"github.com/shopspring/decimal"
)

// CreateDishRequest creates a dish. The unit kind is fixed here for the life
// of the dish.
type CreateDishRequest struct {
	Name                   string              `json:"name" binding:"required"`
	Category               models.DishCategory `json:"category" binding:"required,oneof=soup hot_main salad warm_veggie other"`
	DefaultPortionSize     float64             `json:"default_portion_size" binding:"gte=0"`
	Unit                   models.Unit         `json:"unit" binding:"required,oneof=g ml"`
	PricePerPortion        decimal.Decimal     `json:"price_per_portion"`
	SaladTotalPortion      *float64            `json:"salad_total_portion"`
	WarmVeggieTotalPortion *float64            `json:"warm_veggie_total_portion"`
	OtherTotalPortion      *float64            `json:"other_total_portion"`
}

// UpdateDishRequest updates dish attributes. The unit is deliberately not
// updatable.
type UpdateDishRequest struct {
	Name                   string              `json:"name" binding:"required"`
	Category               models.DishCategory `json:"category" binding:"required,oneof=soup hot_main salad warm_veggie other"`
	DefaultPortionSize     float64             `json:"default_portion_size" binding:"gte=0"`
	PricePerPortion        decimal.Decimal     `json:"price_per_portion"`
	SaladTotalPortion      *float64            `json:"salad_total_portion"`
	WarmVeggieTotalPortion *float64            `json:"warm_veggie_total_portion"`
	OtherTotalPortion      *float64            `json:"other_total_portion"`
}

type CreateCompositionEdgeRequest struct {
	ComponentDishID uuid.UUID            `json:"component_dish_id" binding:"required"`
	Role            models.ComponentRole `json:"role" binding:"required,oneof=salad warm_veggie other"`
	Percentage      float64              `json:"percentage" binding:"required,gt=0,lte=100"`
}

type CreateLocationRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpsertPortionOverrideRequest struct {
	LocationID  uuid.UUID   `json:"location_id" binding:"required"`
	DishID      uuid.UUID   `json:"dish_id" binding:"required"`
	PortionSize float64     `json:"portion_size" binding:"required,gt=0"`
	Unit        models.Unit `json:"unit" binding:"required,oneof=g ml"`
}

type UpsertMenuAssignmentRequest struct {
	WeekID    string    `json:"week_id" binding:"required"`
	DayOfWeek int       `json:"day_of_week" binding:"required,gte=1,lte=7"`
	SlotKey   string    `json:"slot_key" binding:"required"`
	DishID    uuid.UUID `json:"dish_id" binding:"required"`
}

type CreateOrderLineRequest struct {
	LocationID   uuid.UUID `json:"location_id" binding:"required"`
	DeliveryDate string    `json:"delivery_date" binding:"required"`
	SlotKey      string    `json:"slot_key" binding:"required"`
	DishID       uuid.UUID `json:"dish_id" binding:"required"`
	Portions     int       `json:"portions" binding:"gte=0"`
}

type UpdateOrderLineRequest struct {
	Portions int `json:"portions" binding:"gte=0"`
}
