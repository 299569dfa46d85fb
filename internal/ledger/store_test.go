package ledger

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"cashflow/internal/core"
)

func ids(txs []core.Transaction) []string {
	out := make([]string, len(txs))
	for i, tx := range txs {
		out[i] = tx.ID
	}
	return out
}

func equalIDs(t *testing.T, got []core.Transaction, want ...string) {
	t.Helper()
	g := ids(got)
	if len(g) != len(want) {
		t.Fatalf("ids = %v, want %v", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("ids = %v, want %v", g, want)
		}
	}
}

func TestStore_AddUpsertSnapshot(t *testing.T) {
	s := New([]core.Transaction{{ID: "a", Name: "A"}})
	s.Add(core.Transaction{ID: "b", Name: "B"})
	s.Upsert(core.Transaction{ID: "a", Name: "A2"})
	s.Upsert(core.Transaction{ID: "c", Name: "C"})

	snap := s.Snapshot()
	equalIDs(t, snap, "a", "b", "c")
	if snap[0].Name != "A2" {
		t.Fatalf("Upsert did not replace in place: %+v", snap[0])
	}
	if s.Revision() != 3 {
		t.Fatalf("Revision() = %d, want 3", s.Revision())
	}

	snap[0].Name = "mutated"
	if s.Snapshot()[0].Name != "A2" {
		t.Fatal("Snapshot() leaked internal state")
	}
}

func TestStore_SnapshotCopiesRecurrence(t *testing.T) {
	s := New([]core.Transaction{{ID: "a", Recurrence: &core.Recurrence{Frequency: core.Monthly, NextDate: "2024-01-01"}}})
	snap := s.Snapshot()
	snap[0].Recurrence.NextDate = "2099-01-01"
	if s.Snapshot()[0].Recurrence.NextDate != "2024-01-01" {
		t.Fatal("recurrence pointer shared with caller")
	}
}

func TestStore_RemoveAndUndo(t *testing.T) {
	s := New([]core.Transaction{{ID: "a"}, {ID: "b"}, {ID: "c"}})

	removed, err := s.Remove("b", "c")
	if err != nil {
		t.Fatal(err)
	}
	equalIDs(t, removed, "b", "c")
	equalIDs(t, s.Snapshot(), "a")

	if _, err := s.Undo(); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	equalIDs(t, s.Snapshot(), "a", "b", "c")

	if _, err := s.Undo(); !errors.Is(err, core.ErrNothingToUndo) {
		t.Fatalf("second Undo() error = %v", err)
	}
}

func TestStore_UndoSuperseded(t *testing.T) {
	s := New([]core.Transaction{{ID: "a"}, {ID: "b"}})
	if _, err := s.Remove("a"); err != nil {
		t.Fatal(err)
	}
	s.Add(core.Transaction{ID: "c"})

	if s.CanUndo() {
		t.Fatal("a later mutation should supersede the undo")
	}
	if _, err := s.Undo(); !errors.Is(err, core.ErrNothingToUndo) {
		t.Fatalf("Undo() error = %v", err)
	}
}

func TestStore_RemoveMissing(t *testing.T) {
	s := New([]core.Transaction{{ID: "a"}})
	if _, err := s.Remove("zzz"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("Remove() error = %v", err)
	}
	if s.Revision() != 0 {
		t.Fatal("failed Remove() bumped the revision")
	}
}

func TestStore_UpdateUndoable(t *testing.T) {
	s := New([]core.Transaction{{ID: "a", PlannedAmount: 10}})
	err := s.UpdateUndoable("set budget", func(items []core.Transaction) ([]core.Transaction, error) {
		items[0].PlannedAmount = 99
		return append(items, core.Transaction{ID: "b"}), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	desc, err := s.Undo()
	if err != nil || desc != "set budget" {
		t.Fatalf("Undo() = %q, %v", desc, err)
	}
	snap := s.Snapshot()
	equalIDs(t, snap, "a")
	if snap[0].PlannedAmount != 10 {
		t.Fatalf("planned = %v, want 10", snap[0].PlannedAmount)
	}
}

func TestStore_UpdateErrorLeavesState(t *testing.T) {
	s := New([]core.Transaction{{ID: "a"}})
	boom := errors.New("boom")
	err := s.Update(func(items []core.Transaction) ([]core.Transaction, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Update() error = %v", err)
	}
	equalIDs(t, s.Snapshot(), "a")
}

func TestStore_ConcurrentUpdates(t *testing.T) {
	s := New(nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Add(core.Transaction{ID: fmt.Sprintf("t%d", i)})
		}(i)
	}
	wg.Wait()
	if n := len(s.Snapshot()); n != 50 {
		t.Fatalf("lost updates: %d transactions, want 50", n)
	}
}

func TestStore_Query(t *testing.T) {
	s := New([]core.Transaction{{ID: "a", Category: "X"}, {ID: "b", Category: "Y"}, {ID: "c", Category: "X"}})
	got := s.Query(func(tx core.Transaction) bool { return tx.Category == "X" })
	equalIDs(t, got, "a", "c")
}
