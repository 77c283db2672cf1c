package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/kochwerk/kitchenplan/backend/internal/models"
)

// ResolvedComponent is one flattened component of a main dish: the quantity
// of the component, in its own base unit, that accompanies a single portion
// of the main dish.
type ResolvedComponent struct {
	Component          models.Dish
	Role               models.ComponentRole
	Percentage         float64
	QuantityPerPortion float64
}

// CompositionResolver expands a main dish into its percentage-allocated
// components. Quantities are computed against the main dish's role total
// (roleTotal * percentage / 100), never against the component's own default
// portion size.
type CompositionResolver struct {
	reader SnapshotReader
}

func NewCompositionResolver(reader SnapshotReader) *CompositionResolver {
	return &CompositionResolver{reader: reader}
}

// Resolve returns the flattened component list for a main dish along with
// any diagnostics the expansion produced. Percentage sums above 100 are
// computed literally and flagged; roles with a configured total but no
// components, and components without a role total, are reported rather than
// silently dropped. A cyclic component graph fails with a
// *CompositionCycleError.
func (r *CompositionResolver) Resolve(ctx context.Context, main *models.Dish) ([]ResolvedComponent, []Diagnostic, error) {
	edges, err := r.reader.ListComponents(ctx, main.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("listing components for dish %s: %w", main.ID, err)
	}

	if err := r.ensureAcyclic(ctx, main.ID, edges, []uuid.UUID{main.ID}); err != nil {
		return nil, nil, err
	}

	byRole := make(map[models.ComponentRole][]models.CompositionEdge)
	for _, edge := range edges {
		byRole[edge.Role] = append(byRole[edge.Role], edge)
	}

	var components []ResolvedComponent
	var diags []Diagnostic

	for _, role := range models.ComponentRoles {
		roleEdges := byRole[role]
		total := main.RoleTotalPortion(role)

		if total > 0 && len(roleEdges) == 0 {
			diags = append(diags, Diagnostic{
				Kind:     DiagConfiguration,
				Message:  fmt.Sprintf("role %s configured with total portion %.0f but no components assigned", role, total),
				DishID:   uuidPtr(main.ID),
				DishName: main.Name,
				Role:     role,
			})
			continue
		}
		if len(roleEdges) > 0 && total <= 0 {
			diags = append(diags, Diagnostic{
				Kind:     DiagConfiguration,
				Message:  fmt.Sprintf("role %s has %d component(s) but no total portion to compute against", role, len(roleEdges)),
				DishID:   uuidPtr(main.ID),
				DishName: main.Name,
				Role:     role,
			})
			continue
		}
		if len(roleEdges) == 0 {
			continue
		}

		var pctSum float64
		for _, edge := range roleEdges {
			pctSum += edge.Percentage
		}
		if pctSum > 100 {
			// Computed literally on purpose: the inflated total is the
			// signal operators need to fix the percentages upstream.
			diags = append(diags, Diagnostic{
				Kind:     DiagDataIntegrity,
				Message:  fmt.Sprintf("role %s percentages sum to %.1f%%, exceeding 100%%", role, pctSum),
				DishID:   uuidPtr(main.ID),
				DishName: main.Name,
				Role:     role,
			})
		}

		for _, edge := range roleEdges {
			component, err := r.reader.GetDish(ctx, edge.ComponentDishID)
			if err != nil {
				return nil, nil, fmt.Errorf("loading component dish %s: %w", edge.ComponentDishID, err)
			}
			components = append(components, ResolvedComponent{
				Component:          *component,
				Role:               role,
				Percentage:         edge.Percentage,
				QuantityPerPortion: total * edge.Percentage / 100,
			})
		}
	}

	sort.SliceStable(components, func(i, j int) bool {
		if components[i].Role != components[j].Role {
			return roleRank(components[i].Role) < roleRank(components[j].Role)
		}
		if components[i].Component.Name != components[j].Component.Name {
			return components[i].Component.Name < components[j].Component.Name
		}
		return components[i].Component.ID.String() < components[j].Component.ID.String()
	})

	return components, diags, nil
}

// ensureAcyclic walks the component graph below the given edges and fails if
// any component refers back to an ancestor. Components are not expected to
// have nested compositions at all, but a bad edit must never loop the
// resolver.
func (r *CompositionResolver) ensureAcyclic(ctx context.Context, mainID uuid.UUID, edges []models.CompositionEdge, path []uuid.UUID) error {
	for _, edge := range edges {
		for _, ancestor := range path {
			if edge.ComponentDishID == ancestor {
				return &CompositionCycleError{Path: append(append([]uuid.UUID{}, path...), edge.ComponentDishID)}
			}
		}
		childEdges, err := r.reader.ListComponents(ctx, edge.ComponentDishID)
		if err != nil {
			return fmt.Errorf("listing components for dish %s: %w", edge.ComponentDishID, err)
		}
		if len(childEdges) == 0 {
			continue
		}
		if err := r.ensureAcyclic(ctx, mainID, childEdges, append(path, edge.ComponentDishID)); err != nil {
			return err
		}
	}
	return nil
}

func roleRank(role models.ComponentRole) int {
	for i, r := range models.ComponentRoles {
		if r == role {
			return i
		}
	}
	return len(models.ComponentRoles)
}
