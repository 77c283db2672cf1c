package service

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/kochwerk/kitchenplan/backend/internal/models"
)

// DiagnosticKind is the error-taxonomy bucket a diagnostic belongs to.
// Configuration errors and composition cycles exclude the affected row from
// totals; integrity and reconciliation warnings never alter computed totals
// and exist for a human to resolve upstream.
type DiagnosticKind string

const (
	DiagConfiguration    DiagnosticKind = "configuration_error"
	DiagCompositionCycle DiagnosticKind = "composition_cycle"
	DiagDataIntegrity    DiagnosticKind = "data_integrity_warning"
	DiagReconciliation   DiagnosticKind = "reconciliation_warning"
)

// Diagnostic is a single reportable finding from an engine run. Optional
// fields are populated when the finding concerns a specific dish, location,
// slot, or set of order rows.
type Diagnostic struct {
	Kind         DiagnosticKind       `json:"kind"`
	Message      string               `json:"message"`
	DishID       *uuid.UUID           `json:"dish_id,omitempty"`
	DishName     string               `json:"dish_name,omitempty"`
	Role         models.ComponentRole `json:"role,omitempty"`
	LocationID   *uuid.UUID           `json:"location_id,omitempty"`
	LocationName string               `json:"location_name,omitempty"`
	Date         string               `json:"date,omitempty"`
	SlotKey      string               `json:"slot_key,omitempty"`
	Portions     int                  `json:"portions,omitempty"`
	RowIDs       []uuid.UUID          `json:"row_ids,omitempty"`
}

func uuidPtr(id uuid.UUID) *uuid.UUID {
	return &id
}

func dateString(t time.Time) string {
	return t.Format("2006-01-02")
}

// sortDiagnostics orders diagnostics deterministically so repeated runs over
// the same snapshot produce identical output.
func sortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.DishName != b.DishName {
			return a.DishName < b.DishName
		}
		if a.LocationName != b.LocationName {
			return a.LocationName < b.LocationName
		}
		if a.SlotKey != b.SlotKey {
			return a.SlotKey < b.SlotKey
		}
		return a.Message < b.Message
	})
}
