package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ConfigurationError marks a dish whose reference data is incomplete: a
// missing portion size, or composition edges without a role total to compute
// against. The affected row is excluded from numeric totals and reported in
// diagnostics; the rest of the computation proceeds.
type ConfigurationError struct {
	DishID   uuid.UUID
	DishName string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("dish %q (%s): %s", e.DishName, e.DishID, e.Reason)
}

// CompositionCycleError reports a component graph that refers back to an
// ancestor. Composition is expected to be a flat one-level expansion;
// resolution fails for the dish rather than looping.
type CompositionCycleError struct {
	Path []uuid.UUID
}

func (e *CompositionCycleError) Error() string {
	ids := make([]string, len(e.Path))
	for i, id := range e.Path {
		ids[i] = id.String()
	}
	return "composition cycle detected: " + strings.Join(ids, " -> ")
}
