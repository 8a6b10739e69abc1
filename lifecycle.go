package warehouse

import (
	"fmt"
	"slices"
	"strings"
)

// RegisterAsset creates a new AVAILABLE unit of a serialized item and records
// its arrival in the ledger.
//
// The partner is optional: without one the unit is part of the baseline stock
// (NoteBaseline), with one it is an inbound delivery (NoteInboundRegistration).
// A signal number may be registered again once its previous unit has shipped
// or been deleted, but never while another unit carrying it is AVAILABLE.
func (s *Store) RegisterAsset(itemID, signal, partnerID string) (Asset, LogEntry, error) {
	return s.registerAsset(itemID, signal, partnerID, "")
}

// registerAsset is RegisterAsset with a note appended to the inbound note.
func (s *Store) registerAsset(itemID, signal, partnerID, note string) (Asset, LogEntry, error) {
	signal = strings.TrimSpace(signal)
	if signal == "" {
		return Asset{}, LogEntry{}, fmt.Errorf("register: %w", ErrSignalRequired)
	}
	i := s.state.itemIndex(itemID)
	if i < 0 {
		return Asset{}, LogEntry{}, fmt.Errorf("register %s: %w %q", signal, ErrUnknownItem, itemID)
	}
	item := s.state.Items[i]
	if item.Mode() != Serialized {
		return Asset{}, LogEntry{}, fmt.Errorf("register %s: %w: %q is a bulk item", signal, ErrInvalid, item.Name)
	}
	var partner Partner
	if partnerID != "" {
		p, ok := s.state.Partner(partnerID)
		if !ok {
			return Asset{}, LogEntry{}, fmt.Errorf("register %s: %w %q", signal, ErrUnknownPartner, partnerID)
		}
		partner = p
	}
	if dup, ok := s.state.AvailableBySignal(signal); ok {
		return Asset{}, LogEntry{}, fmt.Errorf("register %s: %w (unit %s)", signal, ErrDuplicateSignal, dup.ID)
	}

	now := s.now()
	asset := Asset{
		ID:           s.ids.NewID(assetPrefix),
		ItemID:       item.ID,
		SignalNumber: signal,
		Status:       Available,
		PartnerID:    partner.ID,
		RegisteredAt: now,
	}
	entry := LogEntry{
		ID:           s.ids.NewID(logPrefix),
		ItemID:       item.ID,
		ItemName:     item.Name,
		AssetID:      asset.ID,
		SignalNumber: signal,
		PartnerID:    partner.ID,
		PartnerName:  partner.Name,
		Type:         In,
		Quantity:     1,
		Timestamp:    now,
		Note:         NoteBaseline,
	}
	if partner.ID != "" {
		entry.Note = NoteInboundRegistration
		if note = strings.TrimSpace(note); note != "" {
			entry.Note += ": " + note
		}
	}

	next := s.state.clone()
	next.Assets = append(next.Assets, asset)
	next.touch(i, now)
	next.prepend(entry)
	s.commit(next)
	return asset, entry, nil
}

// PlanDeleteAsset prepares the permanent removal of a unit from the registry.
func (s *Store) PlanDeleteAsset(assetID string) (Plan, error) {
	a, ok := s.state.Asset(assetID)
	if !ok {
		return Plan{}, fmt.Errorf("delete asset: %w %q", ErrUnknownAsset, assetID)
	}
	it, ok := s.state.Item(a.ItemID)
	if !ok {
		it = Item{ID: a.ItemID, Name: UnknownItemName}
	}
	return Plan{Kind: DeleteAssetPlan, Revision: s.revision, Item: it, Asset: a}, nil
}

// deleteAsset removes the asset and records the correction in the ledger.
func (s *Store) deleteAsset(a Asset) LogEntry {
	name := UnknownItemName
	if it, ok := s.state.Item(a.ItemID); ok {
		name = it.Name
	}
	entry := LogEntry{
		ID:           s.ids.NewID(deletePrefix),
		ItemID:       a.ItemID,
		ItemName:     name,
		AssetID:      a.ID,
		SignalNumber: a.SignalNumber,
		Type:         Out,
		Quantity:     1,
		Timestamp:    s.now(),
		Note:         NoteDeletionPrefix + a.SignalNumber,
	}
	next := s.state.clone()
	next.Assets = slices.DeleteFunc(next.Assets, func(x Asset) bool { return x.ID == a.ID })
	next.prepend(entry)
	s.commit(next)
	return entry
}
