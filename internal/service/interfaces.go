package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kochwerk/kitchenplan/backend/internal/models"
)

// SnapshotReader is the read-only view of catalog, menu, and order data the
// aggregation engine computes from. Implementations must behave as
// idempotent query sources: the engine never writes through this interface,
// and recomputing against an unchanged snapshot yields identical output.
type SnapshotReader interface {
	// GetDish returns the dish with the given id.
	GetDish(ctx context.Context, id uuid.UUID) (*models.Dish, error)

	// ListComponents returns the composition edges whose main dish is
	// mainDishID.
	ListComponents(ctx context.Context, mainDishID uuid.UUID) ([]models.CompositionEdge, error)

	// GetMenuSlotAssignments returns all slot assignments for a planning week.
	GetMenuSlotAssignments(ctx context.Context, weekID string) ([]models.MenuSlotAssignment, error)

	// ListOrderLines returns order lines with delivery dates in [from, to],
	// optionally scoped to one location.
	ListOrderLines(ctx context.Context, from, to time.Time, locationID *uuid.UUID) ([]models.OrderLine, error)

	// GetLocationPortionOverride returns the portion override for a
	// (location, dish) pair, or nil when none is configured.
	GetLocationPortionOverride(ctx context.Context, locationID, dishID uuid.UUID) (*models.LocationPortionOverride, error)

	// GetLocation returns the location with the given id.
	GetLocation(ctx context.Context, id uuid.UUID) (*models.Location, error)
}
