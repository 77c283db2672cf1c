package main

import (
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kochwerk/kitchenplan/backend/config"
	"github.com/kochwerk/kitchenplan/backend/internal/database"
	"github.com/kochwerk/kitchenplan/backend/internal/models"
)

// seedDish describes one catalog entry, optionally with components.
type seedDish struct {
	name        string
	category    models.DishCategory
	portionSize float64
	unit        models.Unit
	price       string
	saladTotal  *float64
	components  []seedComponent
}

type seedComponent struct {
	name       string
	role       models.ComponentRole
	percentage float64
}

func f(v float64) *float64 { return &v }

var dishes = []seedDish{
	{name: "Tomato Soup", category: models.CategorySoup, portionSize: 250, unit: models.UnitMilliliter, price: "2.20"},
	{name: "Lentil Soup", category: models.CategorySoup, portionSize: 250, unit: models.UnitMilliliter, price: "2.40"},
	{name: "Potato Salad", category: models.CategorySalad, portionSize: 150, unit: models.UnitGram, price: "1.80"},
	{name: "Coleslaw", category: models.CategorySalad, portionSize: 150, unit: models.UnitGram, price: "1.60"},
	{name: "Goulash", category: models.CategoryHotMain, portionSize: 320, unit: models.UnitGram, price: "4.50"},
	{
		name: "Schnitzel Plate", category: models.CategoryHotMain, portionSize: 320, unit: models.UnitGram,
		price: "5.20", saladTotal: f(320),
		components: []seedComponent{
			{name: "Potato Salad", role: models.RoleSalad, percentage: 50},
			{name: "Coleslaw", role: models.RoleSalad, percentage: 50},
		},
	},
}

var locations = []string{"Westend Kitchen", "Nord Cafeteria", "Hafen Bistro"}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	byName, err := seedCatalog(db)
	if err != nil {
		log.Fatalf("Failed to seed catalog: %v", err)
	}
	if err := seedWeek(db, byName); err != nil {
		log.Fatalf("Failed to seed menu and orders: %v", err)
	}
	log.Println("Seed data loaded")
}

func seedCatalog(db *gorm.DB) (map[string]models.Dish, error) {
	byName := make(map[string]models.Dish, len(dishes))
	for _, d := range dishes {
		dish := models.Dish{
			Name:               d.name,
			Category:           d.category,
			DefaultPortionSize: d.portionSize,
			Unit:               d.unit,
			PricePerPortion:    decimal.RequireFromString(d.price),
			SaladTotalPortion:  d.saladTotal,
		}
		if err := db.Where("name = ?", d.name).FirstOrCreate(&dish).Error; err != nil {
			return nil, fmt.Errorf("dish %q: %w", d.name, err)
		}
		byName[d.name] = dish
	}

	for _, d := range dishes {
		for _, comp := range d.components {
			component, ok := byName[comp.name]
			if !ok {
				return nil, fmt.Errorf("component %q of %q not in catalog", comp.name, d.name)
			}
			edge := models.CompositionEdge{
				MainDishID:      byName[d.name].ID,
				ComponentDishID: component.ID,
				Role:            comp.role,
				Percentage:      comp.percentage,
			}
			err := db.Where("main_dish_id = ? AND component_dish_id = ? AND role = ?",
				edge.MainDishID, edge.ComponentDishID, edge.Role).FirstOrCreate(&edge).Error
			if err != nil {
				return nil, fmt.Errorf("edge %q -> %q: %w", d.name, comp.name, err)
			}
		}
	}
	return byName, nil
}

// seedWeek plans next week's menu and files sample orders against it.
func seedWeek(db *gorm.DB, byName map[string]models.Dish) error {
	monday := nextMonday(time.Now().UTC())
	weekID, _ := models.WeekOf(monday)

	plan := map[string]string{
		"soup":     "Tomato Soup",
		"hot_main": "Schnitzel Plate",
	}

	for _, name := range locations {
		location := models.Location{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&location).Error; err != nil {
			return fmt.Errorf("location %q: %w", name, err)
		}

		for day := 1; day <= 5; day++ {
			date, err := models.DateOf(weekID, day)
			if err != nil {
				return err
			}
			for slot, dishName := range plan {
				assignment := models.MenuSlotAssignment{
					WeekID:    weekID,
					DayOfWeek: day,
					SlotKey:   slot,
					DishID:    byName[dishName].ID,
				}
				err := db.Where("week_id = ? AND day_of_week = ? AND slot_key = ?",
					weekID, day, slot).FirstOrCreate(&assignment).Error
				if err != nil {
					return fmt.Errorf("menu slot %s/%d/%s: %w", weekID, day, slot, err)
				}

				line := models.OrderLine{
					LocationID:   location.ID,
					DeliveryDate: date,
					SlotKey:      slot,
					DishID:       byName[dishName].ID,
					Portions:     40 + 5*day,
				}
				err = db.Where("location_id = ? AND delivery_date = ? AND slot_key = ? AND dish_id = ?",
					line.LocationID, line.DeliveryDate, line.SlotKey, line.DishID).
					FirstOrCreate(&line).Error
				if err != nil {
					return fmt.Errorf("order line %s/%s: %w", name, slot, err)
				}
			}
		}
	}
	return nil
}

func nextMonday(now time.Time) time.Time {
	day := now
	for day.Weekday() != time.Monday {
		day = day.AddDate(0, 0, 1)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
}
