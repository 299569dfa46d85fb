package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"cashflow/internal/accounts"
	"cashflow/internal/advisor"
	"cashflow/internal/aggregate"
	"cashflow/internal/cache"
	"cashflow/internal/core"
	"cashflow/internal/ledger"
	applog "cashflow/internal/log"
	"cashflow/internal/period"
	"cashflow/internal/recurrence"
	"cashflow/internal/rollover"
	"cashflow/internal/sheets"
	"cashflow/internal/snapshot"
	"cashflow/internal/storage"
)

// publishQueueSize bounds the snapshot-changed notices waiting for the broker.
const publishQueueSize = 64

var (
	ErrAdvisorUnavailable = errors.New("advisor not configured")
	ErrNoReportWriter     = errors.New("report destination not configured")
)

// Publisher announces that the persisted snapshot moved to a new revision.
type Publisher interface {
	PublishSnapshotChanged(ctx context.Context, revision uint64, reason string) error
}

// BudgetService orchestrates the ledger, the per-user collections and their persistence.
type BudgetService struct {
	store     storage.BlobStore
	publisher Publisher
	advisor   advisor.Advisor
	reports   sheets.ReportWriter
	dashboard *cache.LRUCache[Dashboard]
	engine    *rollover.Engine
	logger    *slog.Logger
	events    *applog.StructuredLogger
	now       func() time.Time
	newID     core.IDFunc
	currency  string

	ledger *ledger.Store

	mu         sync.RWMutex
	goals      []core.SavingsGoal
	accounts   []core.Account
	categories []core.Category
	settings   core.PeriodSettings
	stateRev   uint64

	// serializes snapshot writes so revisions follow mutation order
	persistMu sync.Mutex

	notices   chan notice
	pending   sync.WaitGroup
	publishWG sync.WaitGroup
	closed    bool
}

type notice struct {
	ctx      context.Context
	revision uint64
	reason   string
}

type Option func(*BudgetService)

func WithClock(now func() time.Time) Option {
	return func(s *BudgetService) { s.now = now }
}

func WithIDFunc(fn core.IDFunc) Option {
	return func(s *BudgetService) { s.newID = fn }
}

// WithPublisher enables snapshot-changed notifications.
func WithPublisher(p Publisher) Option {
	return func(s *BudgetService) { s.publisher = p }
}

func WithAdvisor(a advisor.Advisor) Option {
	return func(s *BudgetService) { s.advisor = a }
}

func WithReportWriter(w sheets.ReportWriter) Option {
	return func(s *BudgetService) { s.reports = w }
}

// WithDashboardCache memoizes dashboards per ledger revision and day.
func WithDashboardCache(c *cache.LRUCache[Dashboard]) Option {
	return func(s *BudgetService) { s.dashboard = c }
}

func WithLogger(l *applog.Logger) Option {
	return func(s *BudgetService) {
		s.logger = l.Slog()
		s.events = applog.NewStructuredLogger(l)
	}
}

// WithBaseCurrency sets the currency used when no period settings were ever stored.
func WithBaseCurrency(code string) Option {
	return func(s *BudgetService) { s.currency = code }
}

func NewBudgetService(store storage.BlobStore, opts ...Option) *BudgetService {
	s := &BudgetService{
		store:    store,
		now:      time.Now,
		newID:    core.NewID,
		currency: core.DefaultCurrency,
	}
	WithLogger(applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentLedger))(s)
	for _, opt := range opts {
		opt(s)
	}
	s.engine = rollover.NewEngine(s.newID)
	s.apply(snapshot.Default(s.now()))
	s.settings.BaseCurrency = s.currency
	if s.publisher != nil {
		s.notices = make(chan notice, publishQueueSize)
		s.publishWG.Add(1)
		go s.publishLoop()
	}
	return s
}

// Close stops accepting notices and waits for queued ones to be published.
func (s *BudgetService) Close() {
	s.persistMu.Lock()
	if s.closed {
		s.persistMu.Unlock()
		return
	}
	s.closed = true
	if s.notices != nil {
		close(s.notices)
	}
	s.persistMu.Unlock()
	s.publishWG.Wait()
}

// Flush blocks until every queued notice was handed to the publisher.
func (s *BudgetService) Flush() {
	s.pending.Wait()
}

// apply swaps all five collections under one write lock, so no reader
// sees the new ledger next to the old settings or accounts.
func (s *BudgetService) apply(snap snapshot.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ledger == nil {
		s.ledger = ledger.New(snap.Transactions)
	} else {
		s.ledger.Replace(snap.Transactions)
	}
	s.goals = snap.Goals
	s.accounts = snap.Accounts
	s.categories = snap.Categories
	s.settings = snap.PeriodSettings
	s.bumpState()
}

// Load replaces the in-memory state with what the blob store holds. Keys
// that are missing or malformed fall back to their defaults.
func (s *BudgetService) Load(ctx context.Context) error {
	blobs, rev, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	snap, warns := snapshot.FromBlobs(blobs, s.now())
	for _, w := range warns {
		s.logger.WarnContext(ctx, "Discarded stored collection", "key", w.Key, applog.FieldReason, w.Reason)
	}
	if _, ok := blobs[snapshot.KeyPeriodSettings]; !ok {
		snap.PeriodSettings.BaseCurrency = s.currency
	}
	txs, filled := accounts.Backfill(snap.Transactions, snap.Accounts)
	snap.Transactions = txs
	s.apply(snap)

	s.logger.InfoContext(ctx, "Snapshot loaded",
		applog.FieldRevision, rev,
		applog.FieldTxCount, len(txs),
		applog.FieldPeriodStart, snap.PeriodSettings.StartDate,
		applog.FieldPeriodEnd, snap.PeriodSettings.EndDate)

	if filled > 0 {
		s.logger.InfoContext(ctx, "Assigned legacy transactions to default account", "count", filled)
		s.persist(ctx, "backfill", snapshot.KeyTransactions)
	}
	return nil
}

// Snapshot returns the full current state as of one instant.
func (s *BudgetService) Snapshot() snapshot.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot.Snapshot{
		Transactions:   s.ledger.Snapshot(),
		Goals:          append([]core.SavingsGoal(nil), s.goals...),
		PeriodSettings: s.settings,
		Accounts:       append([]core.Account(nil), s.accounts...),
		Categories:     append([]core.Category(nil), s.categories...),
	}
}

// persist writes the given collections and queues a notice of the new
// revision. Failures are logged and never returned: the in-memory state
// stays authoritative.
func (s *BudgetService) persist(ctx context.Context, reason string, keys ...string) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	blobs, err := snapshot.Blobs(s.Snapshot())
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to encode snapshot", applog.FieldReason, reason, applog.FieldError, err)
		return
	}
	subset := make(map[string][]byte, len(keys))
	for _, k := range keys {
		subset[k] = blobs[k]
	}
	rev, err := s.store.Save(ctx, subset)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist snapshot",
			applog.FieldReason, reason,
			applog.FieldOperation, applog.OpPersist,
			applog.FieldError, err)
		return
	}

	s.enqueue(ctx, rev, reason)
}

// enqueue hands the notice to publishLoop without waiting for the broker.
// Requires persistMu.
func (s *BudgetService) enqueue(ctx context.Context, rev uint64, reason string) {
	if s.notices == nil || s.closed {
		s.logger.DebugContext(ctx, "Publisher not available, skipping snapshot change", applog.FieldRevision, rev)
		return
	}
	s.pending.Add(1)
	select {
	case s.notices <- notice{ctx: context.WithoutCancel(ctx), revision: rev, reason: reason}:
	default:
		s.pending.Done()
		s.logger.WarnContext(ctx, "Publish queue full, dropping snapshot change", applog.FieldRevision, rev)
	}
}

func (s *BudgetService) publishLoop() {
	defer s.publishWG.Done()
	for n := range s.notices {
		if err := s.publisher.PublishSnapshotChanged(n.ctx, n.revision, n.reason); err != nil {
			s.logger.ErrorContext(n.ctx, "Failed to publish snapshot change",
				applog.FieldRevision, n.revision,
				applog.FieldOperation, applog.OpPublish,
				applog.FieldError, err)
			// Don't fail the request - state is saved locally
		}
		s.pending.Done()
	}
}

func (s *BudgetService) bumpState() {
	s.stateRev++
	if s.dashboard != nil {
		s.dashboard.Purge()
	}
}

// Settings returns the active period settings.
func (s *BudgetService) Settings() core.PeriodSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func (s *BudgetService) defaultAccountID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if acc, ok := accounts.Default(s.accounts); ok {
		return acc.ID
	}
	return ""
}

// Dashboard is everything the overview screen shows for the active period.
type Dashboard struct {
	Period         period.Range               `json:"period"`
	Summary        aggregate.Summary          `json:"summary"`
	Insights       aggregate.Insights         `json:"insights"`
	Breakdown      []aggregate.CategoryShare  `json:"breakdown"`
	BudgetVsActual []aggregate.CategoryBudget `json:"budgetVsActual"`
	Upcoming       []recurrence.Occurrence    `json:"upcoming"`
	NetWorth       decimal.Decimal            `json:"netWorth"`
	CanUndo        bool                       `json:"canUndo"`
}

// Dashboard computes the period overview. Results are cached per ledger
// revision, state revision and calendar day.
func (s *BudgetService) Dashboard(ctx context.Context) Dashboard {
	now := s.now()
	s.mu.RLock()
	key := fmt.Sprintf("%d/%d/%s", s.ledger.Revision(), s.stateRev, core.DayOf(now))
	s.mu.RUnlock()

	if s.dashboard != nil {
		if d, ok := s.dashboard.Get(key); ok {
			d.CanUndo = s.ledger.CanUndo()
			return d
		}
	}

	snap := s.Snapshot()
	r := period.Of(snap.PeriodSettings)
	periodTxs := period.Filter(snap.Transactions, r)
	summary := aggregate.Summarize(periodTxs)
	d := Dashboard{
		Period:         r,
		Summary:        summary,
		Insights:       aggregate.SpendingInsights(summary.Balance, r.End, now),
		Breakdown:      aggregate.CategoryBreakdown(periodTxs),
		BudgetVsActual: aggregate.BudgetVsActual(periodTxs),
		Upcoming:       recurrence.Upcoming(snap.Transactions, r.Start, r.End),
		NetWorth:       accounts.NetWorth(snap.Accounts, snap.Transactions),
	}
	if s.dashboard != nil {
		s.dashboard.Set(key, d)
	}
	s.logger.DebugContext(ctx, "Dashboard computed", applog.FieldTxCount, len(periodTxs))
	d.CanUndo = s.ledger.CanUndo()
	return d
}

// Transactions lists the transactions of the active period in ledger order.
func (s *BudgetService) Transactions() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return period.Filter(s.ledger.Snapshot(), period.Of(s.settings))
}

// AllTransactions lists the whole ledger.
func (s *BudgetService) AllTransactions() []core.Transaction {
	return s.ledger.Snapshot()
}

// SaveTransaction creates tx, or replaces the transaction with the same ID.
// New transactions get an ID and, when none is given, the default account.
func (s *BudgetService) SaveTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	op := applog.OpUpdate
	if tx.ID == "" {
		tx.ID = s.newID(core.PrefixManual)
		op = applog.OpCreate
	}
	if tx.AccountID == "" {
		tx.AccountID = s.defaultAccountID()
	}
	s.ledger.Upsert(tx)

	s.logger.InfoContext(ctx, "Transaction saved",
		"id", tx.ID,
		applog.FieldOperation, op,
		applog.FieldCategory, tx.Category)
	s.persist(ctx, "transaction "+op, snapshot.KeyTransactions)
	return tx, nil
}

// DeleteTransactions removes the given transactions; the removal can be undone.
func (s *BudgetService) DeleteTransactions(ctx context.Context, ids ...string) (int, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("delete transactions: %w", core.ErrNotFound)
	}
	removed, err := s.ledger.Remove(ids...)
	if err != nil {
		return 0, err
	}
	s.persist(ctx, "transaction delete", snapshot.KeyTransactions)
	return len(removed), nil
}

// Undo reverts the latest undoable ledger mutation.
func (s *BudgetService) Undo(ctx context.Context) (string, error) {
	desc, err := s.ledger.Undo()
	if err != nil {
		return "", err
	}
	s.logger.InfoContext(ctx, "Undone", applog.FieldOperation, applog.OpUndo, "action", desc)
	s.persist(ctx, "undo", snapshot.KeyTransactions)
	return desc, nil
}

// SetPeriod replaces the active range.
func (s *BudgetService) SetPeriod(ctx context.Context, r period.Range) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("set period: %w", err)
	}
	s.setRange(r)
	s.persist(ctx, "period", snapshot.KeyPeriodSettings)
	return nil
}

func (s *BudgetService) setRange(r period.Range) {
	s.mu.Lock()
	s.setRangeLocked(r)
	s.mu.Unlock()
}

// setRangeLocked requires s.mu held for writing.
func (s *BudgetService) setRangeLocked(r period.Range) {
	s.settings.StartDate, s.settings.EndDate = r.Start, r.End
	s.bumpState()
}

// Navigate moves the active period one calendar month.
func (s *BudgetService) Navigate(ctx context.Context, dir period.Direction) (period.Range, error) {
	s.mu.Lock()
	r, err := period.ShiftMonth(s.settings.StartDate, dir)
	if err == nil {
		s.setRangeLocked(r)
	}
	s.mu.Unlock()
	if err != nil {
		return period.Range{}, err
	}
	s.logger.InfoContext(ctx, "Period changed",
		applog.FieldOperation, applog.OpNavigate,
		applog.FieldPeriodStart, r.Start,
		applog.FieldPeriodEnd, r.End)
	s.persist(ctx, "period", snapshot.KeyPeriodSettings)
	return r, nil
}

// StartNewPeriod moves to the month after the active one, either clearing it
// or carrying the current plan over, and makes it the active period.
func (s *BudgetService) StartNewPeriod(ctx context.Context, mode rollover.Mode) (rollover.Result, error) {
	return s.StartPeriod(ctx, mode, period.Range{})
}

// StartPeriod is StartNewPeriod with an explicit target. A zero target means
// the calendar month after the active period.
func (s *BudgetService) StartPeriod(ctx context.Context, mode rollover.Mode, target period.Range) (rollover.Result, error) {
	if target != (period.Range{}) {
		if err := target.Validate(); err != nil {
			return rollover.Result{}, fmt.Errorf("start new period: %w", err)
		}
	}

	var res rollover.Result
	err := func() error {
		s.mu.Lock()
		defer s.mu.Unlock()
		cur := period.Of(s.settings)
		if target == (period.Range{}) {
			next, err := period.ShiftMonth(cur.Start, period.Next)
			if err != nil {
				return err
			}
			target = next
		}
		err := s.ledger.Update(func(items []core.Transaction) ([]core.Transaction, error) {
			var err error
			res, err = s.engine.Apply(items, rollover.Request{Current: cur, Target: target, Mode: mode})
			return res.Transactions, err
		})
		if err != nil {
			return err
		}
		s.setRangeLocked(target)
		return nil
	}()
	if err != nil {
		return rollover.Result{}, fmt.Errorf("start new period: %w", err)
	}

	s.events.LogPeriodStarted(ctx, string(target.Start), string(target.End), string(mode),
		len(res.Added), res.Removed, res.Skipped)
	if res.Fallbacks > 0 {
		s.logger.WarnContext(ctx, "Copies placed on period start", "count", res.Fallbacks)
	}
	s.persist(ctx, "new period", snapshot.KeyTransactions, snapshot.KeyPeriodSettings)
	return res, nil
}
