package service_test

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kochwerk/kitchenplan/backend/internal/models"
)

// memoryReader is an in-memory SnapshotReader for engine tests. Unlike the
// database-backed reader it happily holds duplicate order-line keys, which
// the duplicate-detection tests rely on.
type memoryReader struct {
	dishes      map[uuid.UUID]models.Dish
	locations   map[uuid.UUID]models.Location
	edges       []models.CompositionEdge
	assignments []models.MenuSlotAssignment
	orderLines  []models.OrderLine
	overrides   []models.LocationPortionOverride
}

func newMemoryReader() *memoryReader {
	return &memoryReader{
		dishes:    make(map[uuid.UUID]models.Dish),
		locations: make(map[uuid.UUID]models.Location),
	}
}

func (m *memoryReader) putDish(dish models.Dish) models.Dish {
	if dish.ID == uuid.Nil {
		dish.ID = uuid.New()
	}
	m.dishes[dish.ID] = dish
	return dish
}

func (m *memoryReader) putLocation(name string) models.Location {
	location := models.Location{ID: uuid.New(), Name: name}
	m.locations[location.ID] = location
	return location
}

func (m *memoryReader) addEdge(mainID, componentID uuid.UUID, role models.ComponentRole, percentage float64) {
	m.edges = append(m.edges, models.CompositionEdge{
		ID:              uuid.New(),
		MainDishID:      mainID,
		ComponentDishID: componentID,
		Role:            role,
		Percentage:      percentage,
	})
}

func (m *memoryReader) planSlot(date time.Time, slotKey string, dishID uuid.UUID) {
	weekID, day := models.WeekOf(date)
	m.assignments = append(m.assignments, models.MenuSlotAssignment{
		ID:        uuid.New(),
		WeekID:    weekID,
		DayOfWeek: day,
		SlotKey:   slotKey,
		DishID:    dishID,
	})
}

func (m *memoryReader) addOrderLine(locationID uuid.UUID, date time.Time, slotKey string, dishID uuid.UUID, portions int) models.OrderLine {
	line := models.OrderLine{
		ID:           uuid.New(),
		LocationID:   locationID,
		DeliveryDate: date,
		SlotKey:      slotKey,
		DishID:       dishID,
		Portions:     portions,
	}
	m.orderLines = append(m.orderLines, line)
	return line
}

func (m *memoryReader) addOverride(locationID, dishID uuid.UUID, portionSize float64, unit models.Unit) {
	m.overrides = append(m.overrides, models.LocationPortionOverride{
		ID:          uuid.New(),
		LocationID:  locationID,
		DishID:      dishID,
		PortionSize: portionSize,
		Unit:        unit,
	})
}

func (m *memoryReader) GetDish(_ context.Context, id uuid.UUID) (*models.Dish, error) {
	dish, ok := m.dishes[id]
	if !ok {
		return nil, fmt.Errorf("dish %s not found", id)
	}
	return &dish, nil
}

func (m *memoryReader) ListComponents(_ context.Context, mainDishID uuid.UUID) ([]models.CompositionEdge, error) {
	var edges []models.CompositionEdge
	for _, edge := range m.edges {
		if edge.MainDishID == mainDishID {
			edges = append(edges, edge)
		}
	}
	return edges, nil
}

func (m *memoryReader) GetMenuSlotAssignments(_ context.Context, weekID string) ([]models.MenuSlotAssignment, error) {
	var assignments []models.MenuSlotAssignment
	for _, a := range m.assignments {
		if a.WeekID == weekID {
			assignments = append(assignments, a)
		}
	}
	return assignments, nil
}

func (m *memoryReader) ListOrderLines(_ context.Context, from, to time.Time, locationID *uuid.UUID) ([]models.OrderLine, error) {
	fromDay := from.Format("2006-01-02")
	toDay := to.Format("2006-01-02")
	var lines []models.OrderLine
	for _, line := range m.orderLines {
		day := line.DeliveryDate.Format("2006-01-02")
		if day < fromDay || day > toDay {
			continue
		}
		if locationID != nil && line.LocationID != *locationID {
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (m *memoryReader) GetLocationPortionOverride(_ context.Context, locationID, dishID uuid.UUID) (*models.LocationPortionOverride, error) {
	for _, override := range m.overrides {
		if override.LocationID == locationID && override.DishID == dishID {
			o := override
			return &o, nil
		}
	}
	return nil, nil
}

func (m *memoryReader) GetLocation(_ context.Context, id uuid.UUID) (*models.Location, error) {
	location, ok := m.locations[id]
	if !ok {
		return nil, fmt.Errorf("location %s not found", id)
	}
	return &location, nil
}

func floatPtr(v float64) *float64 {
	return &v
}
