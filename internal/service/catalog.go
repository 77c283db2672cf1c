package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kochwerk/kitchenplan/backend/internal/models"
	"gorm.io/gorm"
)

// CatalogService is the GORM-backed SnapshotReader. All methods are plain
// reads; the engine treats them as an idempotent query source.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

var _ SnapshotReader = (*CatalogService)(nil)

func (s *CatalogService) GetDish(ctx context.Context, id uuid.UUID) (*models.Dish, error) {
	var dish models.Dish
	if err := s.db.WithContext(ctx).First(&dish, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &dish, nil
}

func (s *CatalogService) ListComponents(ctx context.Context, mainDishID uuid.UUID) ([]models.CompositionEdge, error) {
	var edges []models.CompositionEdge
	if err := s.db.WithContext(ctx).
		Where("main_dish_id = ?", mainDishID).
		Order("role, percentage DESC, id").
		Find(&edges).Error; err != nil {
		return nil, err
	}
	return edges, nil
}

func (s *CatalogService) GetMenuSlotAssignments(ctx context.Context, weekID string) ([]models.MenuSlotAssignment, error) {
	var assignments []models.MenuSlotAssignment
	if err := s.db.WithContext(ctx).
		Where("week_id = ?", weekID).
		Order("day_of_week, slot_key").
		Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

func (s *CatalogService) ListOrderLines(ctx context.Context, from, to time.Time, locationID *uuid.UUID) ([]models.OrderLine, error) {
	// Compare with bound time values rather than formatted strings so the
	// same query works on PostgreSQL date columns and SQLite test databases.
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	query := s.db.WithContext(ctx).
		Where("delivery_date >= ? AND delivery_date < ?", start, end)
	if locationID != nil {
		query = query.Where("location_id = ?", *locationID)
	}
	var lines []models.OrderLine
	if err := query.Order("delivery_date, location_id, slot_key, dish_id, id").Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *CatalogService) GetLocationPortionOverride(ctx context.Context, locationID, dishID uuid.UUID) (*models.LocationPortionOverride, error) {
	var override models.LocationPortionOverride
	err := s.db.WithContext(ctx).
		Where("location_id = ? AND dish_id = ?", locationID, dishID).
		First(&override).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &override, nil
}

func (s *CatalogService) GetLocation(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	var location models.Location
	if err := s.db.WithContext(ctx).First(&location, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &location, nil
}
