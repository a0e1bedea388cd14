package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/polkiloo/pos80/internal/domain/model"
)

// PrintFacade exposes the subset of application functionality required by the watcher.
type PrintFacade interface {
	OrdersToPrint(ctx context.Context, limit int) ([]model.Order, error)
	PrintTicket(ctx context.Context, order model.Order) error
	MarkPrinted(ctx context.Context, orderID string) error
}

// PrintWatcher polls the store for orders never sent to a printer, prints each
// ticket once and records the dispatch durably on the order.
type PrintWatcher struct {
	facade       PrintFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	mu       sync.Mutex
	cancel   context.CancelFunc
	group    *errgroup.Group
	inFlight map[string]struct{}
	// printed holds orders marked since the fetch numbered by its value
	// started; older fetches may still list them as pending.
	printed  map[string]uint64
	fetchSeq uint64
}

// NewPrintWatcher constructs the watcher worker pool.
func NewPrintWatcher(facade PrintFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *PrintWatcher {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &PrintWatcher{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		inFlight:     make(map[string]struct{}),
		printed:      make(map[string]uint64),
	}
}

// Start launches polling and the workers. The watcher outlives ctx
// cancellation until Stop is called.
func (w *PrintWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.group != nil {
		return nil
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	g, gctx := errgroup.WithContext(runCtx)
	jobs := make(chan model.Order, w.batchSize)

	g.Go(func() error {
		defer close(jobs)
		w.poll(gctx, jobs)
		return nil
	})
	for i := 0; i < w.workers; i++ {
		g.Go(func() error {
			w.work(gctx, jobs)
			return nil
		})
	}

	w.cancel = cancel
	w.group = g
	w.inFlight = make(map[string]struct{})
	w.printed = make(map[string]uint64)
	w.logger.Info("print watcher started",
		slog.Duration("interval", w.pollInterval),
		slog.Int("workers", w.workers),
		slog.Int("batch", w.batchSize))
	return nil
}

// Stop cancels polling and waits for in-progress prints to return.
func (w *PrintWatcher) Stop(context.Context) error {
	w.mu.Lock()
	cancel, g := w.cancel, w.group
	w.cancel, w.group = nil, nil
	w.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	err := g.Wait()
	w.logger.Info("print watcher stopped")
	return err
}

func (w *PrintWatcher) poll(ctx context.Context, jobs chan<- model.Order) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		w.fetchAndDispatch(ctx, jobs)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (w *PrintWatcher) fetchAndDispatch(ctx context.Context, jobs chan<- model.Order) {
	seq := w.beginFetch()
	orders, err := w.facade.OrdersToPrint(ctx, w.batchSize)
	w.forgetPrinted(seq)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Warn("fetch orders to print failed", slog.String("error", err.Error()))
		}
		return
	}
	for _, order := range orders {
		if !w.claim(order.ID) {
			continue
		}
		select {
		case <-ctx.Done():
			w.release(order.ID, false)
			return
		case jobs <- order:
		}
	}
}

func (w *PrintWatcher) work(ctx context.Context, jobs <-chan model.Order) {
	for {
		select {
		case <-ctx.Done():
			return
		case order, ok := <-jobs:
			if !ok {
				return
			}
			w.release(order.ID, w.handleOrder(ctx, order))
		}
	}
}

// handleOrder leaves the order undispatched when printing fails so that the
// next poll tries again.
func (w *PrintWatcher) handleOrder(ctx context.Context, order model.Order) bool {
	if err := w.facade.PrintTicket(ctx, order); err != nil {
		w.logger.Warn("order ticket not printed",
			slog.String("order", order.ID),
			slog.String("code", order.TrackingCode),
			slog.String("error", err.Error()))
		return false
	}
	if err := w.facade.MarkPrinted(ctx, order.ID); err != nil {
		w.logger.Error("mark order printed failed", slog.String("order", order.ID), slog.String("error", err.Error()))
		return true
	}
	w.logger.Info("order ticket printed", slog.String("order", order.ID), slog.String("code", order.TrackingCode))
	return true
}

func (w *PrintWatcher) beginFetch() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.fetchSeq++
	return w.fetchSeq
}

// forgetPrinted drops orders marked before fetch seq started: that fetch and
// every later one already reflect the durable mark.
func (w *PrintWatcher) forgetPrinted(seq uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for id, at := range w.printed {
		if at < seq {
			delete(w.printed, id)
		}
	}
}

func (w *PrintWatcher) claim(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, busy := w.inFlight[id]; busy {
		return false
	}
	if _, done := w.printed[id]; done {
		return false
	}
	w.inFlight[id] = struct{}{}
	return true
}

func (w *PrintWatcher) release(id string, printed bool) {
	w.mu.Lock()
	delete(w.inFlight, id)
	if printed {
		w.printed[id] = w.fetchSeq
	}
	w.mu.Unlock()
}
