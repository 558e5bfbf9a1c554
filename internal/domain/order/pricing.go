package order

import (
	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PriceBook maps product info IDs to their current unit price
type PriceBook map[uuid.UUID]decimal.Decimal

// Price returns the unit price for a product info
func (p PriceBook) Price(productInfoID uuid.UUID) (decimal.Decimal, bool) {
	price, ok := p[productInfoID]
	return price, ok
}

// LineTotal is quantity times unit price
func LineTotal(unit decimal.Decimal, quantity int) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt(int64(quantity)))
}

// ComputeTotal sums quantity times current unit price over all items.
// Every item must have a price in the book.
func ComputeTotal(items []OrderedItem, prices PriceBook) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, item := range items {
		price, ok := prices.Price(item.ProductInfoID)
		if !ok {
			return decimal.Zero, shared.NewInvalidStateError("product info %s is no longer available", item.ProductInfoID)
		}
		total = total.Add(LineTotal(price, item.Quantity))
	}
	return total.Round(2), nil
}
