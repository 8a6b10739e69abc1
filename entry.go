package warehouse

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Direction is the direction of a stock movement.
type Direction string

const (
	In  Direction = "IN"
	Out Direction = "OUT"
)

// ParseDirection parses "in" or "out", case-insensitively.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToUpper(strings.TrimSpace(s))); d {
	case In, Out:
		return d, nil
	}
	return "", fmt.Errorf("unknown direction %q, want IN or OUT", s)
}

// Notes written by the engine itself.
const (
	NoteBaseline            = "기초 재고 등록"
	NoteInboundRegistration = "입고 및 시그널 넘버 등록"
	NoteDeletionPrefix      = "데이터 삭제: "
)

// LogEntry is one immutable ledger record.
//
// ItemName and PartnerName are copies taken when the event happened so that
// later renames or deletions do not rewrite history.
type LogEntry struct {
	ID           string    `json:"id" validate:"required"`
	ItemID       string    `json:"itemId" validate:"required"`
	ItemName     string    `json:"itemName"`
	AssetID      string    `json:"assetId,omitempty"`
	SignalNumber string    `json:"signalNumber,omitempty"`
	PartnerID    string    `json:"partnerId,omitempty"`
	PartnerName  string    `json:"partnerName,omitempty"`
	Type         Direction `json:"type" validate:"direction"`
	Quantity     int       `json:"quantity"`
	Timestamp    time.Time `json:"timestamp"`
	Note         string    `json:"note,omitempty"`
}

// IsCorrection reports whether the entry records a data correction (an asset
// removed from the registry) rather than a physical movement.
func (e LogEntry) IsCorrection() bool { return strings.HasPrefix(e.Note, NoteDeletionPrefix) }

// IsBaseline reports whether the entry records the initial registration of a unit.
func (e LogEntry) IsBaseline() bool { return e.Note == NoteBaseline }

// Signed returns the quantity signed by direction: positive for IN.
func (e LogEntry) Signed() int {
	if e.Type == Out {
		return -e.Quantity
	}
	return e.Quantity
}

func (e LogEntry) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", e.ID)
	w.Append("itemId", e.ItemID)
	w.Append("itemName", e.ItemName)
	w.Optional("assetId", e.AssetID)
	w.Optional("signalNumber", e.SignalNumber)
	w.Optional("partnerId", e.PartnerID)
	w.Optional("partnerName", e.PartnerName)
	w.Append("type", e.Type)
	w.Append("quantity", e.Quantity)
	w.Append("timestamp", e.Timestamp)
	w.Optional("note", e.Note)
	return w.MarshalJSON()
}

var _ json.Marshaler = LogEntry{}
