package warehouse

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// AddItem adds an item to the catalog. An empty ID is generated.
func (s *Store) AddItem(it Item) (Item, error) {
	if it.ID == "" {
		it.ID = s.ids.NewID(itemPrefix)
	}
	if err := checkItem(&it); err != nil {
		return Item{}, fmt.Errorf("add item: %w", err)
	}
	if s.state.itemIndex(it.ID) >= 0 {
		return Item{}, fmt.Errorf("add item: %w %q", ErrDuplicateID, it.ID)
	}
	it.LastUpdated = s.now()
	next := s.state.clone()
	next.Items = append(next.Items, it)
	s.commit(next)
	return it, nil
}

// UpdateItem replaces the catalog entry with the same ID. It does not write to
// the ledger: edits of the stored quantity are corrections, not movements.
func (s *Store) UpdateItem(it Item) (Item, error) {
	i := s.state.itemIndex(it.ID)
	if i < 0 {
		return Item{}, fmt.Errorf("update item: %w %q", ErrUnknownItem, it.ID)
	}
	if err := checkItem(&it); err != nil {
		return Item{}, fmt.Errorf("update item: %w", err)
	}
	it.LastUpdated = s.now()
	next := s.state.clone()
	next.Items[i] = it
	s.commit(next)
	return it, nil
}

// AddPartner adds a partner to the directory. An empty ID is generated.
func (s *Store) AddPartner(p Partner) (Partner, error) {
	if p.ID == "" {
		p.ID = s.ids.NewID(partnerPrefix)
	}
	p.Name = strings.TrimSpace(p.Name)
	if err := Validate(p); err != nil {
		return Partner{}, fmt.Errorf("add partner: %w", err)
	}
	if s.state.partnerIndex(p.ID) >= 0 {
		return Partner{}, fmt.Errorf("add partner: %w %q", ErrDuplicateID, p.ID)
	}
	next := s.state.clone()
	next.Partners = append(next.Partners, p)
	s.commit(next)
	return p, nil
}

// UpdatePartner replaces the partner with the same ID. Past ledger entries
// keep the name the partner had at the time.
func (s *Store) UpdatePartner(p Partner) (Partner, error) {
	i := s.state.partnerIndex(p.ID)
	if i < 0 {
		return Partner{}, fmt.Errorf("update partner: %w %q", ErrUnknownPartner, p.ID)
	}
	p.Name = strings.TrimSpace(p.Name)
	if err := Validate(p); err != nil {
		return Partner{}, fmt.Errorf("update partner: %w", err)
	}
	next := s.state.clone()
	next.Partners[i] = p
	s.commit(next)
	return p, nil
}

// DeletePartner removes a partner from the directory. Assets and ledger
// entries referring to it are left as they are.
func (s *Store) DeletePartner(id string) error {
	if s.state.partnerIndex(id) < 0 {
		return fmt.Errorf("delete partner: %w %q", ErrUnknownPartner, id)
	}
	next := s.state.clone()
	next.Partners = slices.DeleteFunc(next.Partners, func(p Partner) bool { return p.ID == id })
	s.commit(next)
	return nil
}

// checkItem normalizes and validates a catalog entry.
func checkItem(it *Item) error {
	it.Name = strings.TrimSpace(it.Name)
	it.Category = strings.TrimSpace(it.Category)
	if err := Validate(*it); err != nil {
		return err
	}
	if it.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative, got %s", ErrInvalid, it.Price)
	}
	return nil
}

// SearchItems returns the items whose ID, name or category contains term,
// ignoring case. An empty term matches every item.
func SearchItems(items []Item, term string) []Item {
	term = strings.TrimSpace(term)
	if term == "" {
		return items
	}
	fold := cases.Fold()
	needle := fold.String(term)
	var out []Item
	for _, it := range items {
		if strings.Contains(fold.String(it.ID), needle) ||
			strings.Contains(fold.String(it.Name), needle) ||
			strings.Contains(fold.String(it.Category), needle) {
			out = append(out, it)
		}
	}
	return out
}
