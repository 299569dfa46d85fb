// Package ledger holds the ordered transaction collection of the running process.
package ledger

import (
	"fmt"
	"sync"

	"cashflow/internal/core"
)

// Store is the single source of truth for transactions. Every mutation is a
// read-modify-write over one consistent snapshot taken under the lock, so two
// concurrent updates can never both start from the same stale state.
//
// Only the latest undoable mutation can be reverted; any later mutation
// supersedes it.
type Store struct {
	mu       sync.Mutex
	items    []core.Transaction
	revision uint64
	undo     func(current []core.Transaction) []core.Transaction
	undoDesc string
}

func New(items []core.Transaction) *Store {
	return &Store{items: clone(items)}
}

func clone(items []core.Transaction) []core.Transaction {
	out := make([]core.Transaction, len(items))
	copy(out, items)
	for i := range out {
		if r := out[i].Recurrence; r != nil {
			rc := *r
			out[i].Recurrence = &rc
		}
	}
	return out
}

// Snapshot returns a copy of every transaction in insertion order.
func (s *Store) Snapshot() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.items)
}

// Revision increases by one on every successful mutation.
func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// Query returns copies of the transactions matching pred.
func (s *Store) Query(pred func(core.Transaction) bool) []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Transaction
	for _, tx := range s.items {
		if pred(tx) {
			out = append(out, tx)
		}
	}
	return clone(out)
}

// Update replaces the collection with fn's result. fn receives a private copy
// and must not retain it. Returning an error leaves the store unchanged.
func (s *Store) Update(fn func([]core.Transaction) ([]core.Transaction, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := fn(clone(s.items))
	if err != nil {
		return err
	}
	s.commit(next)
	return nil
}

// UpdateUndoable behaves like Update and lets Undo restore the collection as
// it was before fn ran.
func (s *Store) UpdateUndoable(desc string, fn func([]core.Transaction) ([]core.Transaction, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := clone(s.items)
	next, err := fn(clone(s.items))
	if err != nil {
		return err
	}
	s.commit(next)
	s.undo = func([]core.Transaction) []core.Transaction { return prev }
	s.undoDesc = desc
	return nil
}

func (s *Store) commit(next []core.Transaction) {
	s.items = next
	s.revision++
	s.undo = nil
	s.undoDesc = ""
}

// Add appends tx.
func (s *Store) Add(tx core.Transaction) {
	_ = s.Update(func(items []core.Transaction) ([]core.Transaction, error) {
		return append(items, tx), nil
	})
}

// Upsert replaces the transaction with tx.ID in place, or appends it.
func (s *Store) Upsert(tx core.Transaction) {
	_ = s.Update(func(items []core.Transaction) ([]core.Transaction, error) {
		for i := range items {
			if items[i].ID == tx.ID {
				items[i] = tx
				return items, nil
			}
		}
		return append(items, tx), nil
	})
}

// Remove deletes the transactions with the given IDs and returns them. The
// removed set can be re-inserted with Undo until another mutation happens.
func (s *Store) Remove(ids ...string) ([]core.Transaction, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var removed []core.Transaction
	kept := make([]core.Transaction, 0, len(s.items))
	for _, tx := range s.items {
		if want[tx.ID] {
			removed = append(removed, tx)
			continue
		}
		kept = append(kept, tx)
	}
	if len(removed) == 0 {
		return nil, fmt.Errorf("remove %v: %w", ids, core.ErrNotFound)
	}
	s.commit(kept)

	captured := clone(removed)
	s.undo = func(current []core.Transaction) []core.Transaction {
		return append(current, captured...)
	}
	s.undoDesc = fmt.Sprintf("delete %d transaction(s)", len(removed))
	return clone(removed), nil
}

// Undo reverts the latest undoable mutation and reports what it undid.
func (s *Store) Undo() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.undo == nil {
		return "", core.ErrNothingToUndo
	}
	restore, desc := s.undo, s.undoDesc
	s.commit(restore(clone(s.items)))
	return desc, nil
}

// CanUndo reports whether Undo would do anything.
func (s *Store) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.undo != nil
}

// Replace swaps the whole collection, e.g. after an import.
func (s *Store) Replace(items []core.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commit(clone(items))
}
