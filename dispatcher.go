package pressfront

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/eringen/pressfront/resolve"
)

// Dispatcher runs follow-up actions in the background. Dispatch never
// blocks: when every worker slot is taken or the same link is already being
// prefetched, the action is dropped. Failures are logged at debug level and
// otherwise ignored.
type Dispatcher struct {
	actions resolve.Actions
	sem     *semaphore.Weighted
	timeout time.Duration
	log     *zap.Logger
	metrics *Metrics

	mu       sync.Mutex
	inflight map[string]struct{}
	closed   bool
	wg       sync.WaitGroup
}

// NewDispatcher creates a Dispatcher running at most workers jobs at once,
// each bounded by timeout.
func NewDispatcher(actions resolve.Actions, workers int, timeout time.Duration, log *zap.Logger, m *Metrics) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		actions:  actions,
		sem:      semaphore.NewWeighted(int64(workers)),
		timeout:  timeout,
		log:      log,
		metrics:  m,
		inflight: make(map[string]struct{}),
	}
}

// Dispatch starts every action and returns immediately.
func (d *Dispatcher) Dispatch(actions ...resolve.Action) {
	for _, a := range actions {
		d.start(a)
	}
}

func (d *Dispatcher) start(a resolve.Action) {
	if a.Kind != resolve.ActionPrefetch {
		d.log.Debug("unknown follow-up action", zap.String("kind", string(a.Kind)))
		return
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	if _, busy := d.inflight[a.Link]; busy {
		d.mu.Unlock()
		d.metrics.prefetchOutcome("coalesced")
		return
	}
	if !d.sem.TryAcquire(1) {
		d.mu.Unlock()
		d.metrics.prefetchOutcome("dropped")
		return
	}
	d.inflight[a.Link] = struct{}{}
	d.wg.Add(1)
	d.mu.Unlock()

	id := uuid.NewString()
	go func() {
		defer d.wg.Done()
		defer d.sem.Release(1)
		defer func() {
			d.mu.Lock()
			delete(d.inflight, a.Link)
			d.mu.Unlock()
		}()

		ctx := context.Background()
		if d.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d.timeout)
			defer cancel()
		}
		start := time.Now()
		if err := d.actions.Fetch(ctx, a.Link); err != nil {
			d.metrics.prefetchOutcome("failed")
			d.log.Debug("prefetch failed", zap.String("job", id), zap.String("link", a.Link), zap.Error(err))
			return
		}
		d.metrics.prefetchOutcome("ok")
		d.log.Debug("prefetched", zap.String("job", id), zap.String("link", a.Link), zap.Duration("took", time.Since(start)))
	}()
}

// Close stops accepting actions and waits for running jobs or ctx.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
