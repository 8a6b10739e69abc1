package storage

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/etnz/warehouse"
)

// Persister saves committed states in the background.
//
// Observe hands over the latest state and returns immediately. When several
// commits happen while a save is running only the most recent state is saved
// next. Flush waits for the latest state to be saved.
type Persister struct {
	slots   Slots
	timeout time.Duration

	mu        sync.Mutex
	cond      *sync.Cond
	pending   *warehouse.State
	requested int // latest revision observed
	saved     int // latest revision saved
	err       error
	closed    bool
	kick      chan struct{}
	done      chan struct{}
}

// NewPersister starts saving to slots.
func NewPersister(slots Slots) *Persister {
	p := &Persister{
		slots:   slots,
		timeout: 30 * time.Second,
		kick:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	p.cond = sync.NewCond(&p.mu)
	go p.run()
	return p
}

// Observe is a warehouse.Observer.
func (p *Persister) Observe(revision int, st warehouse.State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.pending = &st
	p.requested = revision
	select {
	case p.kick <- struct{}{}:
	default: // a save is already scheduled, it will pick this state.
	}
}

func (p *Persister) run() {
	for range p.kick {
		p.mu.Lock()
		st, rev := p.pending, p.requested
		p.pending = nil
		p.mu.Unlock()
		if st == nil {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		err := Save(ctx, p.slots, *st)
		cancel()
		if err != nil {
			log.Printf("cannot save revision %d: %v", rev, err)
		}

		p.mu.Lock()
		p.saved, p.err = rev, err
		p.cond.Broadcast()
		p.mu.Unlock()
	}
	close(p.done)
	p.mu.Lock()
	p.cond.Broadcast()
	p.mu.Unlock()
}

// Flush waits until the latest observed state is saved and returns the error
// of that save.
func (p *Persister) Flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.saved < p.requested && !p.stopped() {
		p.cond.Wait()
	}
	return p.err
}

// stopped reports whether the saving goroutine exited. p.mu must be held.
func (p *Persister) stopped() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Close saves the pending state, stops the background goroutine and closes
// the slots.
func (p *Persister) Close() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.kick)
	}
	p.mu.Unlock()
	<-p.done

	p.mu.Lock()
	err := p.err
	p.mu.Unlock()
	if cerr := p.slots.Close(); err == nil {
		err = cerr
	}
	return err
}
