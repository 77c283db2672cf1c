package service_test

import (
	"context"
	"testing"

	"github.com/kochwerk/kitchenplan/backend/internal/models"
	"github.com/kochwerk/kitchenplan/backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompositionResolver_RoleTotalTimesPercentage(t *testing.T) {
	reader := newMemoryReader()
	salad := reader.putDish(models.Dish{Name: "Coleslaw", Category: models.CategorySalad, DefaultPortionSize: 150, Unit: models.UnitGram})
	main := reader.putDish(models.Dish{
		Name:               "Schnitzel",
		Category:           models.CategoryHotMain,
		DefaultPortionSize: 320,
		Unit:               models.UnitGram,
		SaladTotalPortion:  floatPtr(320),
	})
	reader.addEdge(main.ID, salad.ID, models.RoleSalad, 50)

	resolver := service.NewCompositionResolver(reader)
	components, diags, err := resolver.Resolve(context.Background(), &main)
	require.NoError(t, err)
	assert.Empty(t, diags)

	require.Len(t, components, 1)
	assert.Equal(t, salad.ID, components[0].Component.ID)
	assert.Equal(t, models.RoleSalad, components[0].Role)
	// 320 g role total at 50%, not 50% of the component's own 150 g portion.
	assert.InDelta(t, 160, components[0].QuantityPerPortion, 1e-9)
}

func TestCompositionResolver_FullAllocationSumsToRoleTotal(t *testing.T) {
	reader := newMemoryReader()
	a := reader.putDish(models.Dish{Name: "Green Salad", Category: models.CategorySalad, Unit: models.UnitGram})
	b := reader.putDish(models.Dish{Name: "Potato Salad", Category: models.CategorySalad, Unit: models.UnitGram})
	c := reader.putDish(models.Dish{Name: "Carrot Salad", Category: models.CategorySalad, Unit: models.UnitGram})
	main := reader.putDish(models.Dish{
		Name:              "Roast",
		Category:          models.CategoryHotMain,
		Unit:              models.UnitGram,
		SaladTotalPortion: floatPtr(240),
	})
	reader.addEdge(main.ID, a.ID, models.RoleSalad, 50)
	reader.addEdge(main.ID, b.ID, models.RoleSalad, 30)
	reader.addEdge(main.ID, c.ID, models.RoleSalad, 20)

	resolver := service.NewCompositionResolver(reader)
	components, diags, err := resolver.Resolve(context.Background(), &main)
	require.NoError(t, err)
	assert.Empty(t, diags)

	var sum float64
	for _, component := range components {
		sum += component.QuantityPerPortion
	}
	assert.InDelta(t, 240, sum, 1e-9)
}

func TestCompositionResolver_PercentagesOverHundredComputedLiterally(t *testing.T) {
	reader := newMemoryReader()
	a := reader.putDish(models.Dish{Name: "Cucumber Salad", Category: models.CategorySalad, Unit: models.UnitGram})
	b := reader.putDish(models.Dish{Name: "Bean Salad", Category: models.CategorySalad, Unit: models.UnitGram})
	main := reader.putDish(models.Dish{
		Name:              "Goulash",
		Category:          models.CategoryHotMain,
		Unit:              models.UnitGram,
		SaladTotalPortion: floatPtr(200),
	})
	reader.addEdge(main.ID, a.ID, models.RoleSalad, 80)
	reader.addEdge(main.ID, b.ID, models.RoleSalad, 40)

	resolver := service.NewCompositionResolver(reader)
	components, diags, err := resolver.Resolve(context.Background(), &main)
	require.NoError(t, err)

	// Not normalized: 80% and 40% of 200 g stay 160 g and 80 g.
	var sum float64
	for _, component := range components {
		sum += component.QuantityPerPortion
	}
	assert.InDelta(t, 240, sum, 1e-9)

	require.Len(t, diags, 1)
	assert.Equal(t, service.DiagDataIntegrity, diags[0].Kind)
	assert.Contains(t, diags[0].Message, "120.0%")
}

func TestCompositionResolver_RoleTotalWithoutComponents(t *testing.T) {
	reader := newMemoryReader()
	main := reader.putDish(models.Dish{
		Name:                   "Stew",
		Category:               models.CategoryHotMain,
		Unit:                   models.UnitGram,
		WarmVeggieTotalPortion: floatPtr(180),
	})

	resolver := service.NewCompositionResolver(reader)
	components, diags, err := resolver.Resolve(context.Background(), &main)
	require.NoError(t, err)

	assert.Empty(t, components)
	require.Len(t, diags, 1)
	assert.Equal(t, service.DiagConfiguration, diags[0].Kind)
	assert.Equal(t, models.RoleWarmVeggie, diags[0].Role)
	assert.Contains(t, diags[0].Message, "no components assigned")
}

func TestCompositionResolver_ComponentsWithoutRoleTotal(t *testing.T) {
	reader := newMemoryReader()
	salad := reader.putDish(models.Dish{Name: "Beet Salad", Category: models.CategorySalad, Unit: models.UnitGram})
	main := reader.putDish(models.Dish{Name: "Casserole", Category: models.CategoryHotMain, Unit: models.UnitGram})
	reader.addEdge(main.ID, salad.ID, models.RoleSalad, 100)

	resolver := service.NewCompositionResolver(reader)
	components, diags, err := resolver.Resolve(context.Background(), &main)
	require.NoError(t, err)

	// Resolves to zero and is reported as a configuration gap, not assumed.
	assert.Empty(t, components)
	require.Len(t, diags, 1)
	assert.Equal(t, service.DiagConfiguration, diags[0].Kind)
	assert.Contains(t, diags[0].Message, "no total portion")
}

func TestCompositionResolver_NoEdgesNoFabricatedDefaults(t *testing.T) {
	reader := newMemoryReader()
	main := reader.putDish(models.Dish{Name: "Plain Soup", Category: models.CategorySoup, DefaultPortionSize: 300, Unit: models.UnitMilliliter})

	resolver := service.NewCompositionResolver(reader)
	components, diags, err := resolver.Resolve(context.Background(), &main)
	require.NoError(t, err)
	assert.Empty(t, components)
	assert.Empty(t, diags)
}

func TestCompositionResolver_CycleFails(t *testing.T) {
	reader := newMemoryReader()
	side := reader.putDish(models.Dish{Name: "Side", Category: models.CategoryOther, Unit: models.UnitGram})
	main := reader.putDish(models.Dish{
		Name:              "Main",
		Category:          models.CategoryHotMain,
		Unit:              models.UnitGram,
		OtherTotalPortion: floatPtr(100),
	})
	reader.addEdge(main.ID, side.ID, models.RoleOther, 100)
	reader.addEdge(side.ID, main.ID, models.RoleOther, 100)

	resolver := service.NewCompositionResolver(reader)
	_, _, err := resolver.Resolve(context.Background(), &main)

	var cycleErr *service.CompositionCycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, main.ID, cycleErr.Path[0])
	assert.Equal(t, main.ID, cycleErr.Path[len(cycleErr.Path)-1])
}
