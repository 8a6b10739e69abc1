package warehouse

import (
	"log"
	"time"
)

// UnknownItemName is recorded in the ledger when the item of an event no longer exists.
const UnknownItemName = "알 수 없는 품목"

// Observer is notified after every commit with the new revision and state.
// The state must not be modified.
type Observer func(revision int, st State)

// Store owns the inventory state and exposes its mutation entry points.
//
// Every mutation validates its input against the current state, builds the
// next state and commits it in one step, so readers and observers never see a
// partially applied operation. A Store is not safe for concurrent use, callers
// serving concurrent requests must serialize them.
type Store struct {
	state     State
	revision  int
	ids       IDGenerator
	now       func() time.Time
	observers []Observer
}

// Option configures a Store.
type Option func(*Store)

// WithIDs sets the identifier generator.
func WithIDs(g IDGenerator) Option { return func(s *Store) { s.ids = g } }

// WithClock sets the function giving the current time.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// NewStore returns a Store holding initial.
func NewStore(initial State, opts ...Option) *Store {
	s := &Store{state: initial.clone(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.ids == nil {
		g, err := NewSnowflakeIDs(1)
		if err != nil {
			log.Printf("falling back to random ids: %v", err)
			s.ids = UUIDs{}
		} else {
			s.ids = g
		}
	}
	return s
}

// Subscribe registers an observer called synchronously after every commit.
func (s *Store) Subscribe(o Observer) { s.observers = append(s.observers, o) }

// State returns the committed state. It must not be modified.
func (s *Store) State() State { return s.state }

// Revision returns the number of commits since the Store was created.
func (s *Store) Revision() int { return s.revision }

// Items returns the reconciled items.
func (s *Store) Items() []Item { return s.state.Reconciled() }

// Item returns the reconciled item with this id.
func (s *Store) Item(id string) (Item, bool) { return s.state.ReconciledItem(id) }

func (s *Store) Partners() []Partner { return s.state.Partners }
func (s *Store) Assets() []Asset     { return s.state.Assets }
func (s *Store) Logs() []LogEntry    { return s.state.Logs }

// commit makes next the current state and notifies the observers.
func (s *Store) commit(next State) {
	s.state = next
	s.revision++
	for _, o := range s.observers {
		o(s.revision, next)
	}
}

// resolvePartner returns the partner with this id or ErrUnknownPartner.
func (s *Store) resolvePartner(id string) (Partner, error) {
	if id == "" {
		return Partner{}, ErrUnknownPartner
	}
	p, ok := s.state.Partner(id)
	if !ok {
		return Partner{}, ErrUnknownPartner
	}
	return p, nil
}
