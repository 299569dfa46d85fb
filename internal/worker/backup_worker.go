// Package worker contains background consumers of snapshot notifications.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"cashflow/internal/amqp"
	"cashflow/internal/backup"
	"cashflow/internal/snapshot"
	"cashflow/internal/storage"
)

// BackupWorker copies the persisted snapshot to every backup target.
type BackupWorker struct {
	store   storage.BlobStore
	targets []backup.Target
	now     func() time.Time

	mu           sync.Mutex
	lastRevision uint64
}

func NewBackupWorker(store storage.BlobStore, targets []backup.Target) *BackupWorker {
	return &BackupWorker{
		store:   store,
		targets: targets,
		now:     time.Now,
	}
}

// LastRevision is the newest revision successfully written to all targets.
func (w *BackupWorker) LastRevision() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastRevision
}

// HandleSnapshotChanged backs up the current snapshot unless msg is older
// than what was already backed up. Returning an error requeues the message.
func (w *BackupWorker) HandleSnapshotChanged(ctx context.Context, msg *amqp.SnapshotChangedMessage) error {
	if msg.Revision <= w.LastRevision() {
		slog.DebugContext(ctx, "Skipping stale snapshot notification",
			"revision", msg.Revision,
			"last_backed_up", w.LastRevision())
		return nil
	}

	slog.InfoContext(ctx, "Processing snapshot notification",
		"revision", msg.Revision,
		"reason", msg.Reason)

	return w.Run(ctx)
}

// Run backs up whatever is in storage now. Many notifications coalesce into
// one run because the stored revision already covers the earlier ones.
func (w *BackupWorker) Run(ctx context.Context) error {
	blobs, rev, err := w.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot blobs: %w", err)
	}
	if rev == 0 {
		slog.InfoContext(ctx, "Storage is empty, nothing to back up")
		return nil
	}
	if rev <= w.LastRevision() {
		return nil
	}

	snap, warnings := snapshot.FromBlobs(blobs, w.now())
	for _, warn := range warnings {
		slog.WarnContext(ctx, "Snapshot collection replaced with defaults",
			"key", warn.Key,
			"reason", warn.Reason)
	}
	data, err := snapshot.Encode(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, target := range w.targets {
		g.Go(func() error {
			start := time.Now()
			if err := target.Save(gctx, data); err != nil {
				slog.ErrorContext(gctx, "Backup failed",
					"target", target.Name(),
					"revision", rev,
					"error", err)
				return fmt.Errorf("%s: %w", target.Name(), err)
			}
			slog.InfoContext(gctx, "Backup written",
				"target", target.Name(),
				"revision", rev,
				"bytes", len(data),
				"duration_ms", time.Since(start).Milliseconds())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("backup revision %d: %w", rev, err)
	}

	w.mu.Lock()
	if rev > w.lastRevision {
		w.lastRevision = rev
	}
	w.mu.Unlock()
	return nil
}

// RestoreFrom loads the document held by the named target and writes it to
// storage, replacing every collection. It returns the new storage revision.
func (w *BackupWorker) RestoreFrom(ctx context.Context, name string) (uint64, error) {
	var target backup.Target
	for _, t := range w.targets {
		if t.Name() == name {
			target = t
		}
	}
	if target == nil {
		return 0, fmt.Errorf("restore: unknown target %q", name)
	}

	data, err := target.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("restore from %s: %w", name, err)
	}
	snap, warnings, err := snapshot.Restore(data, w.now())
	if err != nil {
		return 0, fmt.Errorf("restore from %s: %w", name, err)
	}
	for _, warn := range warnings {
		slog.WarnContext(ctx, "Restored collection replaced with defaults",
			"key", warn.Key,
			"reason", warn.Reason)
	}
	blobs, err := snapshot.Blobs(snap)
	if err != nil {
		return 0, fmt.Errorf("restore from %s: %w", name, err)
	}
	rev, err := w.store.Save(ctx, blobs)
	if err != nil {
		return 0, fmt.Errorf("restore from %s: %w", name, err)
	}

	// The restored state came from this target, so it needs no backup.
	w.mu.Lock()
	if rev > w.lastRevision {
		w.lastRevision = rev
	}
	w.mu.Unlock()

	slog.InfoContext(ctx, "Snapshot restored",
		"target", name,
		"revision", rev,
		"transactions", len(snap.Transactions))
	return rev, nil
}
