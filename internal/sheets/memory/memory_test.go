package memory

import (
	"context"
	"testing"

	"cashflow/internal/aggregate"
	"cashflow/internal/core"
)

func TestStore_WriteMonthlyReport(t *testing.T) {
	s := New()
	if s.Last() != nil {
		t.Fatal("new store should have no report")
	}

	buckets := aggregate.MonthlyRollup([]core.Transaction{
		{ID: "1", Type: core.Income, ActualAmount: 10, Date: "2024-01-05"},
	})
	for i, want := range []string{"mem:1", "mem:2"} {
		ref, err := s.WriteMonthlyReport(context.Background(), buckets)
		if err != nil {
			t.Fatal(err)
		}
		if ref != want {
			t.Errorf("write %d ref = %s, want %s", i, ref, want)
		}
	}
	if got := s.Last(); len(got) != 2 || got[1][0] != "2024-01" {
		t.Errorf("Last() = %v", got)
	}
}
