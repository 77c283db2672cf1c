package service

import "github.com/kochwerk/kitchenplan/backend/internal/models"

// All internal quantity math runs in the base unit (grams or milliliters).
// Conversion to the kitchen-facing unit happens only when a sheet row is
// emitted.

// DisplayUnit returns the presentation unit for a base unit.
func DisplayUnit(unit models.Unit) string {
	if unit == models.UnitMilliliter {
		return "L"
	}
	return "kg"
}

// DisplayQuantity converts a base-unit quantity to its presentation unit
// (grams to kilograms, milliliters to liters).
func DisplayQuantity(base float64, unit models.Unit) (float64, string) {
	return base / 1000, DisplayUnit(unit)
}
