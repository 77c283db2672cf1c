package service

import (
	"sort"

	"github.com/google/uuid"
)

// DayMenu maps each slot key to the dish the published menu plans for it on
// one day.
type DayMenu map[string]uuid.UUID

// OffMenuOrder is an ordered dish that does not match the planned dish of
// the slot it was filed under. Its portions are reported separately and
// never merged into the planned dish's production total.
type OffMenuOrder struct {
	LocationID    uuid.UUID
	DishID        uuid.UUID
	SlotKey       string
	Portions      int
	PlannedDishID *uuid.UUID
}

// ReconcileDay cross-checks aggregated orders against the day's menu and
// partitions them into on-menu rows and off-menu reports. A portion counts
// as on-menu only when the dish it names is the dish the menu assigns to the
// slot it was ordered under; sharing a slot key with the planned dish is
// never enough.
func ReconcileDay(menu DayMenu, rows []AggregatedOrder) ([]AggregatedOrder, []OffMenuOrder) {
	var onMenu []AggregatedOrder
	var offMenu []OffMenuOrder

	for _, row := range rows {
		slots := make([]string, 0, len(row.SlotPortions))
		for slot := range row.SlotPortions {
			slots = append(slots, slot)
		}
		sort.Strings(slots)

		matched := AggregatedOrder{
			LocationID:   row.LocationID,
			DishID:       row.DishID,
			SlotPortions: make(map[string]int),
			SlotRowIDs:   make(map[string][]uuid.UUID),
		}
		for _, slot := range slots {
			portions := row.SlotPortions[slot]
			planned, slotOnMenu := menu[slot]
			if slotOnMenu && planned == row.DishID {
				matched.Portions += portions
				matched.SlotPortions[slot] = portions
				// Only the lines filed under matched slots belong to the
				// on-menu row; off-menu lines are reported separately.
				matched.SlotRowIDs[slot] = row.SlotRowIDs[slot]
				matched.RowIDs = append(matched.RowIDs, row.SlotRowIDs[slot]...)
				continue
			}
			off := OffMenuOrder{
				LocationID: row.LocationID,
				DishID:     row.DishID,
				SlotKey:    slot,
				Portions:   portions,
			}
			if slotOnMenu {
				off.PlannedDishID = uuidPtr(planned)
			}
			offMenu = append(offMenu, off)
		}
		if matched.Portions > 0 {
			onMenu = append(onMenu, matched)
		}
	}

	return onMenu, offMenu
}
