package warehouse

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// SerializedCategory is the category of items tracked unit by unit.
const SerializedCategory = "탱크"

// Mode is the stock keeping mode of an item.
type Mode int

const (
	Bulk Mode = iota
	Serialized
)

func (m Mode) String() string {
	if m == Serialized {
		return "serialized"
	}
	return "bulk"
}

// ModeOf returns the stock keeping mode selected by a category.
func ModeOf(category string) Mode {
	c := strings.TrimSpace(category)
	if c == SerializedCategory || strings.EqualFold(c, "tank") || strings.EqualFold(c, "serialized") {
		return Serialized
	}
	return Bulk
}

// Item is a catalog entry.
//
// Quantity is authoritative for bulk items only. For serialized items it is
// whatever was last stored and Reconcile replaces it with the count of
// available assets.
type Item struct {
	ID          string          `json:"id" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	Category    string          `json:"category"`
	Quantity    int             `json:"quantity"`
	SafetyStock int             `json:"safetyStock" validate:"gte=0"`
	Price       decimal.Decimal `json:"price"`
	LastUpdated time.Time       `json:"lastUpdated"`
}

// Mode returns the stock keeping mode of the item.
func (it Item) Mode() Mode { return ModeOf(it.Category) }

// LowStock reports whether the quantity reached the safety stock.
func (it Item) LowStock() bool { return it.Quantity <= it.SafetyStock }

// Value returns the stock value of the item in the given currency.
func (it Item) Value(currency string) Money {
	return M(it.Price, currency).Mul(it.Quantity)
}
