package workers

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-plan-engine/internal/core/domain"
)

// SnapshotSource is the in-memory collection the worker persists.
type SnapshotSource interface {
	Snapshot() ([]byte, error)
	Restore(data []byte) error
}

// SnapshotWorker writes the user collection to a SnapshotStore in the
// background. Requests coalesce: any number of Enqueue calls made while a
// write is pending result in a single write of the latest state.
type SnapshotWorker struct {
	source SnapshotSource
	store  domain.SnapshotStore
	logger *zap.Logger
	jobs   chan struct{}

	mu sync.Mutex
}

func NewSnapshotWorker(source SnapshotSource, store domain.SnapshotStore, logger *zap.Logger) *SnapshotWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotWorker{
		source: source,
		store:  store,
		logger: logger,
		jobs:   make(chan struct{}, 1),
	}
}

func (w *SnapshotWorker) Start(ctx context.Context) {
	go func() {
		w.logger.Info("snapshot worker started")
		for {
			select {
			case <-w.jobs:
				w.processJob(ctx)
			case <-ctx.Done():
				w.logger.Info("snapshot worker shutting down")
				return
			}
		}
	}()
}

// Enqueue never blocks.
func (w *SnapshotWorker) Enqueue() {
	select {
	case w.jobs <- struct{}{}:
	default:
	}
}

// Flush writes the current state synchronously.
func (w *SnapshotWorker) Flush(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	data, err := w.source.Snapshot()
	if err != nil {
		return err
	}
	return w.store.Save(ctx, data)
}

// Restore loads the last snapshot into the source. A missing snapshot is
// not an error: the collection simply starts empty.
func (w *SnapshotWorker) Restore(ctx context.Context) error {
	data, err := w.store.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrSnapshotNotFound) {
			w.logger.Info("no snapshot found, starting empty")
			return nil
		}
		return err
	}

	if err := w.source.Restore(data); err != nil {
		return err
	}

	w.logger.Info("snapshot restored", zap.Int("bytes", len(data)))
	return nil
}

func (w *SnapshotWorker) processJob(ctx context.Context) {
	if err := w.Flush(ctx); err != nil {
		w.logger.Error("snapshot flush failed", zap.Error(err))
		return
	}
	w.logger.Debug("snapshot flushed")
}
