package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"cashflow/internal/core"
	applog "cashflow/internal/log"
	"cashflow/internal/rollover"
)

// PeriodStarter is the part of BudgetService the scheduler drives.
type PeriodStarter interface {
	Settings() core.PeriodSettings
	StartNewPeriod(ctx context.Context, mode rollover.Mode) (rollover.Result, error)
}

// SchedulerConfig holds configuration for the period scheduler
type SchedulerConfig struct {
	// Schedule is a standard five-field cron expression (default: "0 0 1 * *")
	Schedule string

	// Mode is applied to every automatic period start (default: rollover)
	Mode rollover.Mode
}

func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Schedule: "0 0 1 * *",
		Mode:     rollover.ModeRollover,
	}
}

// PeriodScheduler starts a new period on a cron schedule, but only once the
// active period has ended. A user who already moved ahead is left alone.
type PeriodScheduler struct {
	starter PeriodStarter
	config  SchedulerConfig
	now     func() time.Time
	logger  *slog.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

func NewPeriodScheduler(starter PeriodStarter, config SchedulerConfig, logger *slog.Logger) *PeriodScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PeriodScheduler{
		starter: starter,
		config:  config,
		now:     time.Now,
		logger:  logger.With(applog.FieldComponent, applog.ComponentScheduler),
	}
}

// Start registers the job and starts the cron runner. Returns an error if
// already running or if the schedule does not parse.
func (p *PeriodScheduler) Start(ctx context.Context) error {
	if _, err := rollover.ParseMode(string(p.config.Mode)); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return fmt.Errorf("period scheduler is already running")
	}

	c := cron.New()
	if _, err := c.AddFunc(p.config.Schedule, func() { p.Tick(ctx) }); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", p.config.Schedule, err)
	}
	c.Start()
	p.cron = c
	p.running = true

	p.logger.InfoContext(ctx, "Period scheduler started",
		"schedule", p.config.Schedule,
		applog.FieldMode, p.config.Mode)
	return nil
}

// Stop halts the cron runner and waits for a running job to finish.
func (p *PeriodScheduler) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	c := p.cron
	p.running = false
	p.mu.Unlock()

	select {
	case <-c.Stop().Done():
		p.logger.InfoContext(ctx, "Period scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		p.logger.WarnContext(ctx, "Period scheduler stop timed out")
		return ctx.Err()
	}
}

func (p *PeriodScheduler) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Tick runs one scheduled check. It reports whether a new period was started.
func (p *PeriodScheduler) Tick(ctx context.Context) bool {
	today := core.DayOf(p.now())
	active := p.starter.Settings()
	if active.EndDate >= today {
		p.logger.DebugContext(ctx, "Active period still running, skipping",
			applog.FieldPeriodEnd, active.EndDate)
		return false
	}

	res, err := p.starter.StartNewPeriod(ctx, p.config.Mode)
	if err != nil {
		p.logger.ErrorContext(ctx, "Automatic period start failed",
			applog.FieldOperation, applog.OpRollover,
			applog.FieldError, err)
		return false
	}
	p.logger.InfoContext(ctx, "Automatic period start",
		applog.FieldPeriodStart, res.Target.Start,
		applog.FieldPeriodEnd, res.Target.End,
		applog.FieldAdded, len(res.Added))
	return true
}
