package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/kochwerk/kitchenplan/backend/internal/models"
)

// ProductionSheetRow is one line of the production sheet: how much of a dish
// (or of one of its components) a location needs on the sheet's date.
// Component rows carry the component dish and role; main-dish rows leave
// them empty. Quantities are in presentation units (kg or L).
type ProductionSheetRow struct {
	DishID            uuid.UUID            `json:"dish_id"`
	DishName          string               `json:"dish_name"`
	ComponentDishID   *uuid.UUID           `json:"component_dish_id,omitempty"`
	ComponentDishName string               `json:"component_dish_name,omitempty"`
	Role              models.ComponentRole `json:"role,omitempty"`
	LocationID        uuid.UUID            `json:"location_id"`
	LocationName      string               `json:"location_name"`
	Portions          int                  `json:"portions"`
	Quantity          float64              `json:"quantity"`
	Unit              string               `json:"unit"`
	OffMenuWarnings   []Diagnostic         `json:"off_menu_warnings,omitempty"`
}

// ProductionSheet is the per-day production requirement across all
// locations, plus every diagnostic the computation raised.
type ProductionSheet struct {
	Date        string               `json:"date"`
	Rows        []ProductionSheetRow `json:"rows"`
	Diagnostics []Diagnostic         `json:"diagnostics"`
}

// ProductionService runs the aggregation engine for one delivery date. It is
// a pure, synchronous batch computation over the snapshot its reader
// exposes: no hidden state, no writes, and identical output on every rerun
// against the same snapshot.
type ProductionService struct {
	reader   SnapshotReader
	resolver *CompositionResolver
}

func NewProductionService(reader SnapshotReader) *ProductionService {
	return &ProductionService{
		reader:   reader,
		resolver: NewCompositionResolver(reader),
	}
}

// ComputeProductionSheet turns the date's placed orders into per-dish,
// per-location production quantities. Orders are aggregated by dish
// identity, reconciled against the published menu (off-menu portions are
// reported, never cooked into the planned dish's total), expanded into
// composite components, and projected into mass or volume using the
// location's portion override or the dish default.
func (s *ProductionService) ComputeProductionSheet(ctx context.Context, date time.Time) (*ProductionSheet, error) {
	sheet := &ProductionSheet{Date: dateString(date)}

	weekID, dayOfWeek := models.WeekOf(date)
	assignments, err := s.reader.GetMenuSlotAssignments(ctx, weekID)
	if err != nil {
		return nil, fmt.Errorf("loading menu for week %s: %w", weekID, err)
	}
	menu := make(DayMenu)
	for _, a := range assignments {
		if a.DayOfWeek == dayOfWeek {
			menu[a.SlotKey] = a.DishID
		}
	}

	lines, err := s.reader.ListOrderLines(ctx, date, date, nil)
	if err != nil {
		return nil, fmt.Errorf("loading order lines for %s: %w", dateString(date), err)
	}

	aggregated, duplicates := AggregateOrders(lines)
	for _, dup := range duplicates {
		diag, err := s.duplicateDiagnostic(ctx, dup)
		if err != nil {
			return nil, err
		}
		sheet.Diagnostics = append(sheet.Diagnostics, diag)
	}

	onMenu, offMenu := ReconcileDay(menu, aggregated)

	offMenuDiags := make([]Diagnostic, 0, len(offMenu))
	for _, off := range offMenu {
		diag, err := s.offMenuDiagnostic(ctx, date, off)
		if err != nil {
			return nil, err
		}
		offMenuDiags = append(offMenuDiags, diag)
	}
	sheet.Diagnostics = append(sheet.Diagnostics, offMenuDiags...)

	// Group the on-menu totals by dish so composition resolution and its
	// diagnostics run once per dish rather than once per location.
	byDish := make(map[uuid.UUID][]AggregatedOrder)
	var dishOrder []uuid.UUID
	for _, row := range onMenu {
		if _, seen := byDish[row.DishID]; !seen {
			dishOrder = append(dishOrder, row.DishID)
		}
		byDish[row.DishID] = append(byDish[row.DishID], row)
	}

	for _, dishID := range dishOrder {
		rows, diags, err := s.projectDish(ctx, date, dishID, byDish[dishID], menu, offMenuDiags)
		if err != nil {
			return nil, err
		}
		sheet.Rows = append(sheet.Rows, rows...)
		sheet.Diagnostics = append(sheet.Diagnostics, diags...)
	}

	sortSheetRows(sheet.Rows)
	sortDiagnostics(sheet.Diagnostics)
	return sheet, nil
}

// ListDiagnostics runs the sheet computation and returns only its findings:
// configuration gaps, percentage-sum violations, duplicate order keys, and
// off-menu orders for the date.
func (s *ProductionService) ListDiagnostics(ctx context.Context, date time.Time) ([]Diagnostic, error) {
	sheet, err := s.ComputeProductionSheet(ctx, date)
	if err != nil {
		return nil, err
	}
	return sheet.Diagnostics, nil
}

// projectDish emits the main-dish row per location plus one row per resolved
// component. A cyclic composition or missing portion size excludes the
// affected rows and reports a diagnostic instead of failing the sheet.
func (s *ProductionService) projectDish(ctx context.Context, date time.Time, dishID uuid.UUID, rows []AggregatedOrder, menu DayMenu, offMenuDiags []Diagnostic) ([]ProductionSheetRow, []Diagnostic, error) {
	dish, err := s.reader.GetDish(ctx, dishID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading dish %s: %w", dishID, err)
	}

	components, diags, err := s.resolver.Resolve(ctx, dish)
	if err != nil {
		var cycleErr *CompositionCycleError
		if errors.As(err, &cycleErr) {
			return nil, []Diagnostic{{
				Kind:     DiagCompositionCycle,
				Message:  cycleErr.Error(),
				DishID:   uuidPtr(dish.ID),
				DishName: dish.Name,
				Date:     dateString(date),
			}}, nil
		}
		return nil, nil, err
	}

	plannedSlots := slotsPlannedFor(menu, dishID)

	var out []ProductionSheetRow
	for _, row := range rows {
		location, err := s.reader.GetLocation(ctx, row.LocationID)
		if err != nil {
			return nil, nil, fmt.Errorf("loading location %s: %w", row.LocationID, err)
		}

		size, unit, sizeErr := s.portionSize(ctx, dish, row.LocationID)
		if sizeErr != nil {
			// Only a genuine configuration gap becomes a diagnostic; a
			// failing reader must fail the computation, not zero the row.
			var configErr *ConfigurationError
			if !errors.As(sizeErr, &configErr) {
				return nil, nil, sizeErr
			}
			diags = append(diags, Diagnostic{
				Kind:         DiagConfiguration,
				Message:      sizeErr.Error(),
				DishID:       uuidPtr(dish.ID),
				DishName:     dish.Name,
				LocationID:   uuidPtr(row.LocationID),
				LocationName: location.Name,
				Date:         dateString(date),
			})
		} else {
			quantity, displayUnit := DisplayQuantity(float64(row.Portions)*size, unit)
			out = append(out, ProductionSheetRow{
				DishID:          dish.ID,
				DishName:        dish.Name,
				LocationID:      row.LocationID,
				LocationName:    location.Name,
				Portions:        row.Portions,
				Quantity:        quantity,
				Unit:            displayUnit,
				OffMenuWarnings: offMenuWarningsFor(offMenuDiags, plannedSlots, row.LocationID),
			})
		}

		for _, component := range components {
			base := float64(row.Portions) * component.QuantityPerPortion
			if base == 0 {
				continue
			}
			quantity, displayUnit := DisplayQuantity(base, component.Component.Unit)
			out = append(out, ProductionSheetRow{
				DishID:            dish.ID,
				DishName:          dish.Name,
				ComponentDishID:   uuidPtr(component.Component.ID),
				ComponentDishName: component.Component.Name,
				Role:              component.Role,
				LocationID:        row.LocationID,
				LocationName:      location.Name,
				Portions:          row.Portions,
				Quantity:          quantity,
				Unit:              displayUnit,
			})
		}
	}

	for i := range diags {
		if diags[i].Date == "" {
			diags[i].Date = dateString(date)
		}
	}
	return out, diags, nil
}

// portionSize returns the per-portion size and unit for a dish at a
// location: the location override when present, the dish default otherwise.
// A dish with neither is a configuration error and contributes nothing.
func (s *ProductionService) portionSize(ctx context.Context, dish *models.Dish, locationID uuid.UUID) (float64, models.Unit, error) {
	override, err := s.reader.GetLocationPortionOverride(ctx, locationID, dish.ID)
	if err != nil {
		return 0, "", fmt.Errorf("loading portion override: %w", err)
	}
	if override != nil && override.PortionSize > 0 {
		return override.PortionSize, override.Unit, nil
	}
	if dish.DefaultPortionSize > 0 {
		return dish.DefaultPortionSize, dish.Unit, nil
	}
	return 0, "", &ConfigurationError{
		DishID:   dish.ID,
		DishName: dish.Name,
		Reason:   "no default portion size and no location override configured",
	}
}

func (s *ProductionService) duplicateDiagnostic(ctx context.Context, dup DuplicateGroup) (Diagnostic, error) {
	diag := Diagnostic{
		Kind:       DiagDataIntegrity,
		DishID:     uuidPtr(dup.Key.DishID),
		LocationID: uuidPtr(dup.Key.LocationID),
		Date:       dup.Key.DeliveryDate,
		SlotKey:    dup.Key.SlotKey,
		RowIDs:     dup.RowIDs,
	}
	dish, err := s.reader.GetDish(ctx, dup.Key.DishID)
	if err != nil {
		return Diagnostic{}, fmt.Errorf("loading dish %s: %w", dup.Key.DishID, err)
	}
	location, err := s.reader.GetLocation(ctx, dup.Key.LocationID)
	if err != nil {
		return Diagnostic{}, fmt.Errorf("loading location %s: %w", dup.Key.LocationID, err)
	}
	diag.DishName = dish.Name
	diag.LocationName = location.Name
	diag.Message = fmt.Sprintf("%d order lines share the key (%s, %s, %s, %s); portions were summed but the rows need deduplication",
		len(dup.RowIDs), location.Name, dup.Key.DeliveryDate, dup.Key.SlotKey, dish.Name)
	return diag, nil
}

func (s *ProductionService) offMenuDiagnostic(ctx context.Context, date time.Time, off OffMenuOrder) (Diagnostic, error) {
	dish, err := s.reader.GetDish(ctx, off.DishID)
	if err != nil {
		return Diagnostic{}, fmt.Errorf("loading dish %s: %w", off.DishID, err)
	}
	location, err := s.reader.GetLocation(ctx, off.LocationID)
	if err != nil {
		return Diagnostic{}, fmt.Errorf("loading location %s: %w", off.LocationID, err)
	}
	message := fmt.Sprintf("%d portion(s) of %q ordered by %s under slot %q on %s, which is not the planned dish for that slot",
		off.Portions, dish.Name, location.Name, off.SlotKey, dateString(date))
	if off.PlannedDishID == nil {
		message = fmt.Sprintf("%d portion(s) of %q ordered by %s under slot %q on %s, but the menu plans nothing for that slot",
			off.Portions, dish.Name, location.Name, off.SlotKey, dateString(date))
	}
	return Diagnostic{
		Kind:         DiagReconciliation,
		Message:      message,
		DishID:       uuidPtr(off.DishID),
		DishName:     dish.Name,
		LocationID:   uuidPtr(off.LocationID),
		LocationName: location.Name,
		Date:         dateString(date),
		SlotKey:      off.SlotKey,
		Portions:     off.Portions,
	}, nil
}

// slotsPlannedFor inverts the day menu for one dish.
func slotsPlannedFor(menu DayMenu, dishID uuid.UUID) map[string]bool {
	slots := make(map[string]bool)
	for slot, planned := range menu {
		if planned == dishID {
			slots[slot] = true
		}
	}
	return slots
}

// offMenuWarningsFor attaches to a main-dish row the off-menu reports filed
// at the same location under a slot this dish is planned in, so the sheet
// reader sees what was kept out of the figure.
func offMenuWarningsFor(offMenuDiags []Diagnostic, plannedSlots map[string]bool, locationID uuid.UUID) []Diagnostic {
	var warnings []Diagnostic
	for _, diag := range offMenuDiags {
		if diag.LocationID != nil && *diag.LocationID == locationID && plannedSlots[diag.SlotKey] {
			warnings = append(warnings, diag)
		}
	}
	return warnings
}

func sortSheetRows(rows []ProductionSheetRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.DishName != b.DishName {
			return a.DishName < b.DishName
		}
		if (a.ComponentDishID == nil) != (b.ComponentDishID == nil) {
			return a.ComponentDishID == nil
		}
		if a.ComponentDishName != b.ComponentDishName {
			return a.ComponentDishName < b.ComponentDishName
		}
		if a.LocationName != b.LocationName {
			return a.LocationName < b.LocationName
		}
		return a.LocationID.String() < b.LocationID.String()
	})
}
