package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceLine prices the ordered portions of one dish for one location.
// Invoicing always bills the ordered dish, never its sub-components, and
// never consults the menu: off-menu orders were still delivered and paid
// for.
type InvoiceLine struct {
	DishID          uuid.UUID       `json:"dish_id"`
	DishName        string          `json:"dish_name"`
	Portions        int             `json:"portions"`
	PricePerPortion decimal.Decimal `json:"price_per_portion"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

// LocationInvoice is the rollup for one location over the requested range.
type LocationInvoice struct {
	LocationID   uuid.UUID       `json:"location_id"`
	LocationName string          `json:"location_name"`
	Lines        []InvoiceLine   `json:"lines"`
	Total        decimal.Decimal `json:"total"`
}

// InvoiceRollup is the full invoicing result for a date range.
type InvoiceRollup struct {
	From       string            `json:"from"`
	To         string            `json:"to"`
	Locations  []LocationInvoice `json:"locations"`
	GrandTotal decimal.Decimal   `json:"grand_total"`
}

// InvoiceService prices aggregated orders. It shares the order aggregator
// with the production engine but performs no composition expansion and no
// menu reconciliation.
type InvoiceService struct {
	reader SnapshotReader
}

func NewInvoiceService(reader SnapshotReader) *InvoiceService {
	return &InvoiceService{reader: reader}
}

// ComputeInvoiceRollup sums portions per (location, dish) over [from, to],
// prices each line at the dish's price per portion, and rolls the lines up
// into per-location totals and a grand total.
func (s *InvoiceService) ComputeInvoiceRollup(ctx context.Context, from, to time.Time, locationID *uuid.UUID) (*InvoiceRollup, error) {
	lines, err := s.reader.ListOrderLines(ctx, from, to, locationID)
	if err != nil {
		return nil, fmt.Errorf("loading order lines from %s to %s: %w", dateString(from), dateString(to), err)
	}

	aggregated, _ := AggregateOrders(lines)

	byLocation := make(map[uuid.UUID]*LocationInvoice)
	grandTotal := decimal.Zero
	for _, row := range aggregated {
		dish, err := s.reader.GetDish(ctx, row.DishID)
		if err != nil {
			return nil, fmt.Errorf("loading dish %s: %w", row.DishID, err)
		}

		invoice, ok := byLocation[row.LocationID]
		if !ok {
			location, err := s.reader.GetLocation(ctx, row.LocationID)
			if err != nil {
				return nil, fmt.Errorf("loading location %s: %w", row.LocationID, err)
			}
			invoice = &LocationInvoice{
				LocationID:   row.LocationID,
				LocationName: location.Name,
				Total:        decimal.Zero,
			}
			byLocation[row.LocationID] = invoice
		}

		lineTotal := dish.PricePerPortion.Mul(decimal.NewFromInt(int64(row.Portions)))
		invoice.Lines = append(invoice.Lines, InvoiceLine{
			DishID:          dish.ID,
			DishName:        dish.Name,
			Portions:        row.Portions,
			PricePerPortion: dish.PricePerPortion,
			LineTotal:       lineTotal,
		})
		invoice.Total = invoice.Total.Add(lineTotal)
		grandTotal = grandTotal.Add(lineTotal)
	}

	rollup := &InvoiceRollup{
		From:       dateString(from),
		To:         dateString(to),
		GrandTotal: grandTotal,
	}
	for _, invoice := range byLocation {
		sort.SliceStable(invoice.Lines, func(i, j int) bool {
			if invoice.Lines[i].DishName != invoice.Lines[j].DishName {
				return invoice.Lines[i].DishName < invoice.Lines[j].DishName
			}
			return invoice.Lines[i].DishID.String() < invoice.Lines[j].DishID.String()
		})
		rollup.Locations = append(rollup.Locations, *invoice)
	}
	sort.SliceStable(rollup.Locations, func(i, j int) bool {
		if rollup.Locations[i].LocationName != rollup.Locations[j].LocationName {
			return rollup.Locations[i].LocationName < rollup.Locations[j].LocationName
		}
		return rollup.Locations[i].LocationID.String() < rollup.Locations[j].LocationID.String()
	})

	return rollup, nil
}
