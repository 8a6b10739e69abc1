package warehouse

import "time"

// Status is the custody status of a serialized unit.
type Status string

const (
	Available Status = "AVAILABLE"
	Shipped   Status = "SHIPPED"
)

// Asset is one physical unit of a serialized item.
type Asset struct {
	ID           string    `json:"id" validate:"required"`
	ItemID       string    `json:"itemId" validate:"required"`
	SignalNumber string    `json:"signalNumber" validate:"required"`
	Status       Status    `json:"status" validate:"status"`
	PartnerID    string    `json:"partnerId,omitempty"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// Available reports whether the unit is in stock.
func (a Asset) Available() bool { return a.Status == Available }
