package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"cashflow/internal/core"
	applog "cashflow/internal/log"
	"cashflow/internal/period"
	"cashflow/internal/rollover"
)

type fakeStarter struct {
	settings core.PeriodSettings
	calls    []rollover.Mode
	err      error
}

func (f *fakeStarter) Settings() core.PeriodSettings { return f.settings }

func (f *fakeStarter) StartNewPeriod(_ context.Context, mode rollover.Mode) (rollover.Result, error) {
	f.calls = append(f.calls, mode)
	if f.err != nil {
		return rollover.Result{}, f.err
	}
	next, _ := period.ShiftMonth(f.settings.StartDate, period.Next)
	f.settings.StartDate, f.settings.EndDate = next.Start, next.End
	return rollover.Result{Target: next}, nil
}

func TestPeriodScheduler_Tick(t *testing.T) {
	tests := []struct {
		name    string
		today   time.Time
		err     error
		want    bool
		wantEnd core.Day
	}{
		{"period still running", time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC), nil, false, "2024-03-31"},
		{"period ended", time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), nil, true, "2024-04-30"},
		{"start fails", time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), errors.New("boom"), false, "2024-03-31"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			starter := &fakeStarter{
				settings: core.PeriodSettings{StartDate: "2024-03-01", EndDate: "2024-03-31"},
				err:      tt.err,
			}
			s := NewPeriodScheduler(starter, DefaultSchedulerConfig(), applog.Discard().Slog())
			s.now = func() time.Time { return tt.today }

			if got := s.Tick(context.Background()); got != tt.want {
				t.Errorf("Tick() = %v, want %v", got, tt.want)
			}
			if starter.settings.EndDate != tt.wantEnd {
				t.Errorf("EndDate = %s, want %s", starter.settings.EndDate, tt.wantEnd)
			}
		})
	}
}

func TestPeriodScheduler_TickUsesConfiguredMode(t *testing.T) {
	starter := &fakeStarter{settings: core.PeriodSettings{StartDate: "2024-01-01", EndDate: "2024-01-31"}}
	s := NewPeriodScheduler(starter, SchedulerConfig{Schedule: "0 0 1 * *", Mode: rollover.ModeBlank}, nil)
	s.now = func() time.Time { return time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC) }

	s.Tick(context.Background())
	if len(starter.calls) != 1 || starter.calls[0] != rollover.ModeBlank {
		t.Errorf("calls = %v, want one blank start", starter.calls)
	}
}

func TestPeriodScheduler_StartStop(t *testing.T) {
	ctx := context.Background()
	starter := &fakeStarter{settings: core.PeriodSettings{StartDate: "2024-01-01", EndDate: "2024-01-31"}}

	t.Run("invalid schedule", func(t *testing.T) {
		s := NewPeriodScheduler(starter, SchedulerConfig{Schedule: "not a cron", Mode: rollover.ModeRollover}, nil)
		if err := s.Start(ctx); err == nil {
			t.Fatal("expected error for invalid schedule")
		}
		if s.IsRunning() {
			t.Error("scheduler should not be running")
		}
	})

	t.Run("invalid mode", func(t *testing.T) {
		s := NewPeriodScheduler(starter, SchedulerConfig{Schedule: "0 0 1 * *", Mode: "sideways"}, nil)
		if err := s.Start(ctx); !errors.Is(err, core.ErrInvalidMode) {
			t.Errorf("error = %v, want ErrInvalidMode", err)
		}
	})

	t.Run("lifecycle", func(t *testing.T) {
		s := NewPeriodScheduler(starter, DefaultSchedulerConfig(), nil)
		if err := s.Start(ctx); err != nil {
			t.Fatalf("Start: %v", err)
		}
		if !s.IsRunning() {
			t.Error("IsRunning should be true after Start")
		}
		if err := s.Start(ctx); err == nil {
			t.Error("second Start should fail")
		}

		stopCtx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := s.Stop(stopCtx); err != nil {
			t.Fatalf("Stop: %v", err)
		}
		if s.IsRunning() {
			t.Error("IsRunning should be false after Stop")
		}
		if err := s.Stop(stopCtx); err != nil {
			t.Errorf("second Stop should be a no-op: %v", err)
		}
	})
}
