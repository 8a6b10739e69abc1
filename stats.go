package warehouse

import (
	"cmp"
	"slices"
)

// Stats are the headline figures of the inventory.
type Stats struct {
	TotalItems    int   `json:"totalItems"`
	TotalQuantity int   `json:"totalQuantity"`
	TotalValue    Money `json:"totalValue"`
	LowStockCount int   `json:"lowStockCount"`
}

// Summarize computes the statistics of reconciled items, valuing them in the
// given currency.
func Summarize(items []Item, currency string) Stats {
	st := Stats{TotalItems: len(items), TotalValue: M(0, currency)}
	for _, it := range items {
		st.TotalQuantity += it.Quantity
		st.TotalValue = st.TotalValue.Add(it.Value(currency))
		if it.LowStock() {
			st.LowStockCount++
		}
	}
	return st
}

// CategoryTotal is the stock of one category.
type CategoryTotal struct {
	Category string `json:"category"`
	Items    int    `json:"items"`
	Quantity int    `json:"quantity"`
}

// CategoryTotals groups reconciled items by category, largest quantity first.
func CategoryTotals(items []Item) []CategoryTotal {
	index := make(map[string]int)
	var out []CategoryTotal
	for _, it := range items {
		i, ok := index[it.Category]
		if !ok {
			i = len(out)
			index[it.Category] = i
			out = append(out, CategoryTotal{Category: it.Category})
		}
		out[i].Items++
		out[i].Quantity += it.Quantity
	}
	slices.SortStableFunc(out, func(a, b CategoryTotal) int { return cmp.Compare(b.Quantity, a.Quantity) })
	return out
}

// LowStock returns the reconciled items at or below their safety stock.
func LowStock(items []Item) []Item {
	var out []Item
	for _, it := range items {
		if it.LowStock() {
			out = append(out, it)
		}
	}
	return out
}

// Activity counts the inbound and outbound entries of a ledger.
func Activity(logs []LogEntry) (in, out int) {
	for _, e := range logs {
		switch e.Type {
		case In:
			in++
		case Out:
			out++
		}
	}
	return in, out
}
