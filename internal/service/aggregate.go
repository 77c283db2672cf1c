package service

import (
	"sort"

	"github.com/google/uuid"
	"github.com/kochwerk/kitchenplan/backend/internal/models"
)

// NaturalKey is the expected-unique identity of an order line. Two rows
// sharing a natural key are a data-integrity defect: they are still summed
// (totals stay conservative) but reported for operator review.
type NaturalKey struct {
	LocationID   uuid.UUID `json:"location_id"`
	DeliveryDate string    `json:"delivery_date"`
	SlotKey      string    `json:"slot_key"`
	DishID       uuid.UUID `json:"dish_id"`
}

// AggregatedOrder is the portion total for one (location, dish) pair.
// Aggregation is always keyed by dish identity; the slot keys the underlying
// lines were filed under are carried along purely for reconciliation.
type AggregatedOrder struct {
	LocationID   uuid.UUID
	DishID       uuid.UUID
	Portions     int
	SlotPortions map[string]int
	SlotRowIDs   map[string][]uuid.UUID
	RowIDs       []uuid.UUID
}

// DuplicateGroup lists the rows that share one natural key.
type DuplicateGroup struct {
	Key      NaturalKey
	RowIDs   []uuid.UUID
	Portions []int
}

// AggregateOrders groups raw order lines into per-(location, dish) portion
// totals and detects duplicate natural keys. Lines with zero portions carry
// no demand and are dropped. The function is pure; output ordering is
// deterministic for a given input set regardless of input order.
func AggregateOrders(lines []models.OrderLine) ([]AggregatedOrder, []DuplicateGroup) {
	type aggKey struct {
		locationID uuid.UUID
		dishID     uuid.UUID
	}

	sorted := append([]models.OrderLine{}, lines...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ID.String() < sorted[j].ID.String()
	})

	totals := make(map[aggKey]*AggregatedOrder)
	byNaturalKey := make(map[NaturalKey]*DuplicateGroup)

	for _, line := range sorted {
		nk := NaturalKey{
			LocationID:   line.LocationID,
			DeliveryDate: dateString(line.DeliveryDate),
			SlotKey:      line.SlotKey,
			DishID:       line.DishID,
		}
		group, seen := byNaturalKey[nk]
		if !seen {
			byNaturalKey[nk] = &DuplicateGroup{Key: nk, RowIDs: []uuid.UUID{line.ID}, Portions: []int{line.Portions}}
		} else {
			group.RowIDs = append(group.RowIDs, line.ID)
			group.Portions = append(group.Portions, line.Portions)
		}

		if line.Portions == 0 {
			continue
		}

		key := aggKey{locationID: line.LocationID, dishID: line.DishID}
		agg, ok := totals[key]
		if !ok {
			agg = &AggregatedOrder{
				LocationID:   line.LocationID,
				DishID:       line.DishID,
				SlotPortions: make(map[string]int),
				SlotRowIDs:   make(map[string][]uuid.UUID),
			}
			totals[key] = agg
		}
		agg.Portions += line.Portions
		agg.SlotPortions[line.SlotKey] += line.Portions
		agg.SlotRowIDs[line.SlotKey] = append(agg.SlotRowIDs[line.SlotKey], line.ID)
		agg.RowIDs = append(agg.RowIDs, line.ID)
	}

	aggregated := make([]AggregatedOrder, 0, len(totals))
	for _, agg := range totals {
		aggregated = append(aggregated, *agg)
	}
	sort.SliceStable(aggregated, func(i, j int) bool {
		if aggregated[i].LocationID != aggregated[j].LocationID {
			return aggregated[i].LocationID.String() < aggregated[j].LocationID.String()
		}
		return aggregated[i].DishID.String() < aggregated[j].DishID.String()
	})

	var duplicates []DuplicateGroup
	for _, group := range byNaturalKey {
		if len(group.RowIDs) > 1 {
			duplicates = append(duplicates, *group)
		}
	}
	sort.SliceStable(duplicates, func(i, j int) bool {
		a, b := duplicates[i].Key, duplicates[j].Key
		if a.LocationID != b.LocationID {
			return a.LocationID.String() < b.LocationID.String()
		}
		if a.DeliveryDate != b.DeliveryDate {
			return a.DeliveryDate < b.DeliveryDate
		}
		if a.SlotKey != b.SlotKey {
			return a.SlotKey < b.SlotKey
		}
		return a.DishID.String() < b.DishID.String()
	})

	return aggregated, duplicates
}
