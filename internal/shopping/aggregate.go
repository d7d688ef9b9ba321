package shopping

import (
	"context"
	"errors"
	"sort"

	"foodgram/internal/recipe"
)

// ErrEmptyCart is returned when a shopping list is requested for an empty cart.
var ErrEmptyCart = errors.New("shopping cart is empty")

// Item is one line of a shopping list: an ingredient identity and its total amount.
type Item struct {
	Name            string
	MeasurementUnit string
	Amount          int
}

// CartSource is the slice of the recipe store the shopping list needs.
type CartSource interface {
	CartSize(ctx context.Context, userID int64) (int, error)
	CartIngredients(ctx context.Context, userID int64) ([]recipe.CartIngredient, error)
}

// Build loads the user's cart and aggregates it into a shopping list.
func Build(ctx context.Context, src CartSource, userID int64) ([]Item, error) {
	n, err := src.CartSize(ctx, userID)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrEmptyCart
	}
	rows, err := src.CartIngredients(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Aggregate(rows), nil
}

// Aggregate sums amounts per (name, unit) pair. Two catalog entries sharing
// a name and unit collapse into one item. Items are sorted by name, then unit.
func Aggregate(rows []recipe.CartIngredient) []Item {
	type key struct{ name, unit string }
	totals := make(map[key]int, len(rows))
	for _, r := range rows {
		totals[key{r.Name, r.MeasurementUnit}] += r.Amount
	}

	items := make([]Item, 0, len(totals))
	for k, amount := range totals {
		items = append(items, Item{Name: k.name, MeasurementUnit: k.unit, Amount: amount})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].MeasurementUnit < items[j].MeasurementUnit
	})
	return items
}
