package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/kochwerk/kitchenplan/backend/internal/models"
	"github.com/kochwerk/kitchenplan/backend/internal/service"
	"github.com/kochwerk/kitchenplan/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_ReadsBackSeededData(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()

	location := models.Location{Name: "North Canteen"}
	require.NoError(t, db.Create(&location).Error)

	salad := models.Dish{Name: "Coleslaw", Category: models.CategorySalad, DefaultPortionSize: 150, Unit: models.UnitGram}
	require.NoError(t, db.Create(&salad).Error)

	main := models.Dish{
		Name:               "Schnitzel",
		Category:           models.CategoryHotMain,
		DefaultPortionSize: 320,
		Unit:               models.UnitGram,
		SaladTotalPortion:  floatPtr(320),
	}
	require.NoError(t, db.Create(&main).Error)

	require.NoError(t, db.Create(&models.CompositionEdge{
		MainDishID:      main.ID,
		ComponentDishID: salad.ID,
		Role:            models.RoleSalad,
		Percentage:      50,
	}).Error)

	catalog := service.NewCatalogService(db)

	dish, err := catalog.GetDish(ctx, main.ID)
	require.NoError(t, err)
	assert.Equal(t, "Schnitzel", dish.Name)
	require.NotNil(t, dish.SaladTotalPortion)
	assert.InDelta(t, 320, *dish.SaladTotalPortion, 1e-9)

	edges, err := catalog.ListComponents(ctx, main.ID)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, salad.ID, edges[0].ComponentDishID)

	got, err := catalog.GetLocation(ctx, location.ID)
	require.NoError(t, err)
	assert.Equal(t, "North Canteen", got.Name)
}

func TestCatalogService_ListOrderLinesByDateAndLocation(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()

	north := models.Location{Name: "North Canteen"}
	south := models.Location{Name: "South Canteen"}
	require.NoError(t, db.Create(&north).Error)
	require.NoError(t, db.Create(&south).Error)

	dish := models.Dish{Name: "Goulash", Category: models.CategoryHotMain, DefaultPortionSize: 350, Unit: models.UnitGram}
	require.NoError(t, db.Create(&dish).Error)

	monday := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)
	for _, line := range []models.OrderLine{
		{LocationID: north.ID, DeliveryDate: monday, SlotKey: "hot_main", DishID: dish.ID, Portions: 10},
		{LocationID: south.ID, DeliveryDate: monday, SlotKey: "hot_main", DishID: dish.ID, Portions: 4},
		{LocationID: north.ID, DeliveryDate: tuesday, SlotKey: "hot_main", DishID: dish.ID, Portions: 7},
	} {
		require.NoError(t, db.Create(&line).Error)
	}

	catalog := service.NewCatalogService(db)

	mondayLines, err := catalog.ListOrderLines(ctx, monday, monday, nil)
	require.NoError(t, err)
	assert.Len(t, mondayLines, 2)

	northLines, err := catalog.ListOrderLines(ctx, monday, tuesday, &north.ID)
	require.NoError(t, err)
	assert.Len(t, northLines, 2)
	for _, line := range northLines {
		assert.Equal(t, north.ID, line.LocationID)
	}
}

func TestCatalogService_OverrideAbsentIsNilNotError(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()

	location := models.Location{Name: "North Canteen"}
	require.NoError(t, db.Create(&location).Error)
	dish := models.Dish{Name: "Lentil Soup", Category: models.CategorySoup, DefaultPortionSize: 300, Unit: models.UnitMilliliter}
	require.NoError(t, db.Create(&dish).Error)

	catalog := service.NewCatalogService(db)

	override, err := catalog.GetLocationPortionOverride(ctx, location.ID, dish.ID)
	require.NoError(t, err)
	assert.Nil(t, override)

	require.NoError(t, db.Create(&models.LocationPortionOverride{
		LocationID:  location.ID,
		DishID:      dish.ID,
		PortionSize: 250,
		Unit:        models.UnitMilliliter,
	}).Error)

	override, err = catalog.GetLocationPortionOverride(ctx, location.ID, dish.ID)
	require.NoError(t, err)
	require.NotNil(t, override)
	assert.InDelta(t, 250, override.PortionSize, 1e-9)
}

func TestCatalogService_MenuAssignmentsForWeek(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()

	dish := models.Dish{Name: "Schnitzel", Category: models.CategoryHotMain, DefaultPortionSize: 320, Unit: models.UnitGram}
	require.NoError(t, db.Create(&dish).Error)

	date := time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC)
	weekID, day := models.WeekOf(date)
	require.NoError(t, db.Create(&models.MenuSlotAssignment{
		WeekID: weekID, DayOfWeek: day, SlotKey: "hot_main", DishID: dish.ID,
	}).Error)

	catalog := service.NewCatalogService(db)
	assignments, err := catalog.GetMenuSlotAssignments(ctx, weekID)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, dish.ID, assignments[0].DishID)
}
