package warehouse

import (
	"fmt"
	"strings"
)

// Transaction is a request to move stock in or out of the warehouse.
type Transaction struct {
	ItemID    string
	Type      Direction
	Quantity  int // ignored for serialized items, always 1
	PartnerID string
	Note      string
	AssetID   string // required for serialized items
}

// ProcessTransaction applies an inbound or outbound movement and appends
// exactly one entry to the ledger.
//
// For a serialized item the asset designated by AssetID changes status: OUT
// ships an AVAILABLE asset and IN brings a SHIPPED asset back in stock. In
// both cases the partner becomes the holder of the asset. For a bulk item the
// quantity is added (IN) or subtracted (OUT) without any floor, so it may
// become negative.
//
// On error nothing changes.
func (s *Store) ProcessTransaction(tx Transaction) (LogEntry, error) {
	if tx.Type != In && tx.Type != Out {
		return LogEntry{}, fmt.Errorf("%w: unknown direction %q", ErrInvalid, tx.Type)
	}
	partner, err := s.resolvePartner(tx.PartnerID)
	if err != nil {
		return LogEntry{}, fmt.Errorf("%s %q: %w %q", tx.Type, tx.ItemID, err, tx.PartnerID)
	}
	i := s.state.itemIndex(tx.ItemID)
	if i < 0 {
		return LogEntry{}, fmt.Errorf("%s: %w %q", tx.Type, ErrUnknownItem, tx.ItemID)
	}
	item := s.state.Items[i]

	next := s.state.clone()
	entry := LogEntry{
		ItemID:      item.ID,
		ItemName:    item.Name,
		PartnerID:   partner.ID,
		PartnerName: partner.Name,
		Type:        tx.Type,
		Quantity:    tx.Quantity,
		Note:        tx.Note,
	}

	switch item.Mode() {
	case Serialized:
		if tx.AssetID == "" {
			return LogEntry{}, fmt.Errorf("%s %q: %w", tx.Type, item.Name, ErrSignalRequired)
		}
		j := next.assetIndex(tx.AssetID)
		if j < 0 || next.Assets[j].ItemID != item.ID {
			return LogEntry{}, fmt.Errorf("%s %q: %w %q", tx.Type, item.Name, ErrUnknownAsset, tx.AssetID)
		}
		a := next.Assets[j]
		switch tx.Type {
		case Out:
			if !a.Available() {
				return LogEntry{}, fmt.Errorf("%s %q: signal %s: %w", tx.Type, item.Name, a.SignalNumber, ErrAssetNotAvailable)
			}
			a.Status = Shipped
		case In:
			if a.Available() {
				return LogEntry{}, fmt.Errorf("%s %q: signal %s: %w", tx.Type, item.Name, a.SignalNumber, ErrAssetAlreadyAvailable)
			}
			if _, dup := next.AvailableBySignal(a.SignalNumber); dup {
				return LogEntry{}, fmt.Errorf("%s %q: signal %s: %w", tx.Type, item.Name, a.SignalNumber, ErrDuplicateSignal)
			}
			a.Status = Available
		}
		a.PartnerID = partner.ID
		next.Assets[j] = a
		entry.AssetID = a.ID
		entry.SignalNumber = a.SignalNumber
		entry.Quantity = 1

	default:
		if tx.Quantity <= 0 {
			return LogEntry{}, fmt.Errorf("%s %q: %w, got %d", tx.Type, item.Name, ErrInvalidQuantity, tx.Quantity)
		}
		next.Items[i].Quantity += entry.Signed()
	}

	now := s.now()
	entry.ID = s.ids.NewID(logPrefix)
	entry.Timestamp = now
	next.touch(i, now)
	next.prepend(entry)
	s.commit(next)
	return entry, nil
}

// FindAvailableAsset returns the AVAILABLE asset of an item carrying this
// signal number.
func (s *Store) FindAvailableAsset(itemID, signal string) (Asset, bool) {
	signal = strings.TrimSpace(signal)
	for _, a := range s.state.Assets {
		if a.ItemID == itemID && a.SignalNumber == signal && a.Available() {
			return a, true
		}
	}
	return Asset{}, false
}

// findShippedAsset returns the most recently registered SHIPPED asset of an
// item carrying this signal number.
func (s *Store) findShippedAsset(itemID, signal string) (Asset, bool) {
	var found Asset
	ok := false
	for _, a := range s.state.Assets {
		if a.ItemID == itemID && a.SignalNumber == signal && a.Status == Shipped {
			if !ok || !a.RegisteredAt.Before(found.RegisteredAt) {
				found, ok = a, true
			}
		}
	}
	return found, ok
}

// ShipSignal ships the available unit of an item identified by its signal
// number, as read by a scanner or typed by hand.
func (s *Store) ShipSignal(itemID, signal, partnerID, note string) (LogEntry, error) {
	if _, err := s.resolvePartner(partnerID); err != nil {
		return LogEntry{}, fmt.Errorf("%s %q: %w %q", Out, itemID, err, partnerID)
	}
	if _, ok := s.state.Item(itemID); !ok {
		return LogEntry{}, fmt.Errorf("%s: %w %q", Out, ErrUnknownItem, itemID)
	}
	signal = strings.TrimSpace(signal)
	if signal == "" {
		return LogEntry{}, fmt.Errorf("%s %q: %w", Out, itemID, ErrSignalRequired)
	}
	a, ok := s.FindAvailableAsset(itemID, signal)
	if !ok {
		return LogEntry{}, fmt.Errorf("%s %q: signal %s is not in stock: %w", Out, itemID, signal, ErrAssetNotAvailable)
	}
	return s.ProcessTransaction(Transaction{ItemID: itemID, Type: Out, PartnerID: partnerID, Note: note, AssetID: a.ID})
}

// ReceiveSignal brings a unit of an item in. A unit that was shipped under
// this signal number comes back in stock from the partner, any other signal
// number is registered as a new unit like RegisterAsset does, and the note
// follows NoteInboundRegistration in its entry.
func (s *Store) ReceiveSignal(itemID, signal, partnerID, note string) (LogEntry, error) {
	signal = strings.TrimSpace(signal)
	if a, ok := s.findShippedAsset(itemID, signal); ok && signal != "" {
		return s.ProcessTransaction(Transaction{ItemID: itemID, Type: In, PartnerID: partnerID, Note: note, AssetID: a.ID})
	}
	_, e, err := s.registerAsset(itemID, signal, partnerID, note)
	return e, err
}
