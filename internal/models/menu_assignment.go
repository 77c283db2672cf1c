package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MenuSlotAssignment schedules one dish for a meal slot on a given day of a
// planning week. At most one dish may be assigned per (week, day, slot); the
// slot key structures the ordering UI and is never a dish identifier.
type MenuSlotAssignment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	WeekID    string    `gorm:"size:10;not null;uniqueIndex:idx_menu_week_day_slot,priority:1" json:"week_id"`
	DayOfWeek int       `gorm:"not null;uniqueIndex:idx_menu_week_day_slot,priority:2" json:"day_of_week"`
	SlotKey   string    `gorm:"size:50;not null;uniqueIndex:idx_menu_week_day_slot,priority:3" json:"slot_key"`
	DishID    uuid.UUID `gorm:"type:uuid;not null" json:"dish_id"`
}

func (MenuSlotAssignment) TableName() string {
	return "menu_slot_assignments"
}

// WeekOf maps a calendar date to its ISO-8601 planning week and day. Days are
// numbered 1 (Monday) through 7 (Sunday) to match the menu authoring UI.
func WeekOf(date time.Time) (weekID string, dayOfWeek int) {
	year, week := date.ISOWeek()
	day := int(date.Weekday())
	if day == 0 {
		day = 7
	}
	return fmt.Sprintf("%d-W%02d", year, week), day
}

// DateOf is the inverse of WeekOf: the calendar date of a day within an ISO
// planning week.
func DateOf(weekID string, dayOfWeek int) (time.Time, error) {
	var year, week int
	if _, err := fmt.Sscanf(weekID, "%d-W%d", &year, &week); err != nil {
		return time.Time{}, fmt.Errorf("invalid week id %q: %w", weekID, err)
	}
	if dayOfWeek < 1 || dayOfWeek > 7 {
		return time.Time{}, fmt.Errorf("day of week must be 1..7, got %d", dayOfWeek)
	}

	// January 4 is always in ISO week 1.
	jan4 := time.Date(year, 1, 4, 0, 0, 0, 0, time.UTC)
	jan4Day := int(jan4.Weekday())
	if jan4Day == 0 {
		jan4Day = 7
	}
	week1Monday := jan4.AddDate(0, 0, 1-jan4Day)
	return week1Monday.AddDate(0, 0, (week-1)*7+dayOfWeek-1), nil
}
