package api

import (
	"testing"
	"time"

	"github.com/kochwerk/kitchenplan/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderLine(t *testing.T) {
	router, db := setupTestRouter(t)
	dish := createTestDish(t, db, "Goulash", 320, models.UnitGram)
	location := createTestLocation(t, db, "Westend Kitchen")

	w := doJSON(t, router, "POST", "/api/v1/order-lines", map[string]interface{}{
		"location_id":   location.ID,
		"delivery_date": "2026-09-09",
		"slot_key":      "hot_main",
		"dish_id":       dish.ID,
		"portions":      65,
	})
	require.Equal(t, 201, w.Code)

	var line models.OrderLine
	decodeBody(t, w, &line)
	assert.Equal(t, 65, line.Portions)
	assert.Equal(t, dish.ID, line.DishID)
}

func TestCreateOrderLineDuplicateKeyConflicts(t *testing.T) {
	router, db := setupTestRouter(t)
	dish := createTestDish(t, db, "Goulash", 320, models.UnitGram)
	location := createTestLocation(t, db, "Westend Kitchen")

	payload := map[string]interface{}{
		"location_id":   location.ID,
		"delivery_date": "2026-09-09",
		"slot_key":      "hot_main",
		"dish_id":       dish.ID,
		"portions":      65,
	}
	w := doJSON(t, router, "POST", "/api/v1/order-lines", payload)
	require.Equal(t, 201, w.Code)
	var first models.OrderLine
	decodeBody(t, w, &first)

	payload["portions"] = 10
	w = doJSON(t, router, "POST", "/api/v1/order-lines", payload)
	require.Equal(t, 409, w.Code)

	var response map[string]interface{}
	decodeBody(t, w, &response)
	assert.Equal(t, first.ID.String(), response["existing_line_id"])

	// A different slot for the same dish is a distinct key.
	payload["slot_key"] = "special"
	w = doJSON(t, router, "POST", "/api/v1/order-lines", payload)
	assert.Equal(t, 201, w.Code)
}

func TestCreateOrderLineAfterCutoff(t *testing.T) {
	router, db := setupTestRouter(t)
	dish := createTestDish(t, db, "Goulash", 320, models.UnitGram)
	location := createTestLocation(t, db, "Westend Kitchen")

	// The clock is frozen at 2026-09-01; with a two-day cutoff, delivery on
	// 2026-09-02 is already closed.
	w := doJSON(t, router, "POST", "/api/v1/order-lines", map[string]interface{}{
		"location_id":   location.ID,
		"delivery_date": "2026-09-02",
		"slot_key":      "hot_main",
		"dish_id":       dish.ID,
		"portions":      65,
	})
	assert.Equal(t, 422, w.Code)
}

func TestCreateOrderLineUnknownDish(t *testing.T) {
	router, db := setupTestRouter(t)
	location := createTestLocation(t, db, "Westend Kitchen")

	w := doJSON(t, router, "POST", "/api/v1/order-lines", map[string]interface{}{
		"location_id":   location.ID,
		"delivery_date": "2026-09-09",
		"slot_key":      "hot_main",
		"dish_id":       "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		"portions":      65,
	})
	assert.Equal(t, 404, w.Code)
}

func TestListOrderLinesByDateAndLocation(t *testing.T) {
	router, db := setupTestRouter(t)
	dish := createTestDish(t, db, "Goulash", 320, models.UnitGram)
	westend := createTestLocation(t, db, "Westend Kitchen")
	nord := createTestLocation(t, db, "Nord Cafeteria")

	seed := []models.OrderLine{
		{LocationID: westend.ID, DeliveryDate: time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC), SlotKey: "hot_main", DishID: dish.ID, Portions: 65},
		{LocationID: nord.ID, DeliveryDate: time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC), SlotKey: "hot_main", DishID: dish.ID, Portions: 30},
		{LocationID: westend.ID, DeliveryDate: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC), SlotKey: "hot_main", DishID: dish.ID, Portions: 20},
	}
	for i := range seed {
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	w := doJSON(t, router, "GET", "/api/v1/order-lines?date=2026-09-09", nil)
	require.Equal(t, 200, w.Code)
	var lines []models.OrderLine
	decodeBody(t, w, &lines)
	assert.Len(t, lines, 2)

	w = doJSON(t, router, "GET", "/api/v1/order-lines?date=2026-09-09&location_id="+westend.ID.String(), nil)
	require.Equal(t, 200, w.Code)
	lines = nil
	decodeBody(t, w, &lines)
	require.Len(t, lines, 1)
	assert.Equal(t, 65, lines[0].Portions)
}

func TestUpdateOrderLinePortions(t *testing.T) {
	router, db := setupTestRouter(t)
	dish := createTestDish(t, db, "Goulash", 320, models.UnitGram)
	location := createTestLocation(t, db, "Westend Kitchen")

	line := models.OrderLine{
		LocationID:   location.ID,
		DeliveryDate: time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC),
		SlotKey:      "hot_main",
		DishID:       dish.ID,
		Portions:     65,
	}
	require.NoError(t, db.Create(&line).Error)

	w := doJSON(t, router, "PUT", "/api/v1/order-lines/"+line.ID.String(), map[string]interface{}{
		"portions": 70,
	})
	require.Equal(t, 200, w.Code)

	var updated models.OrderLine
	require.NoError(t, db.First(&updated, "id = ?", line.ID).Error)
	assert.Equal(t, 70, updated.Portions)
}

func TestUpdateOrderLineAfterCutoff(t *testing.T) {
	router, db := setupTestRouter(t)
	dish := createTestDish(t, db, "Goulash", 320, models.UnitGram)
	location := createTestLocation(t, db, "Westend Kitchen")

	line := models.OrderLine{
		LocationID:   location.ID,
		DeliveryDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		SlotKey:      "hot_main",
		DishID:       dish.ID,
		Portions:     65,
	}
	require.NoError(t, db.Create(&line).Error)

	w := doJSON(t, router, "PUT", "/api/v1/order-lines/"+line.ID.String(), map[string]interface{}{
		"portions": 70,
	})
	assert.Equal(t, 422, w.Code)

	w = doJSON(t, router, "DELETE", "/api/v1/order-lines/"+line.ID.String(), nil)
	assert.Equal(t, 422, w.Code)
}

func TestDeleteOrderLine(t *testing.T) {
	router, db := setupTestRouter(t)
	dish := createTestDish(t, db, "Goulash", 320, models.UnitGram)
	location := createTestLocation(t, db, "Westend Kitchen")

	line := models.OrderLine{
		LocationID:   location.ID,
		DeliveryDate: time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC),
		SlotKey:      "hot_main",
		DishID:       dish.ID,
		Portions:     65,
	}
	require.NoError(t, db.Create(&line).Error)

	w := doJSON(t, router, "DELETE", "/api/v1/order-lines/"+line.ID.String(), nil)
	require.Equal(t, 204, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.OrderLine{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
