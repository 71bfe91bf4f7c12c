package output

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/Kimeiga/kiokun-data-sub000/pkg/dict"
	"go.uber.org/zap"
)

// errPoolClosed is returned if a record is handed to the pool after close.
var errPoolClosed = errors.New("write pool closed")

// writeFunc persists one record at its target path.
type writeFunc func(rec *dict.UnifiedRecord, path string) error

type writeTask struct {
	rec  *dict.UnifiedRecord
	path string
}

// writePool fans record writes out over a fixed number of goroutines and
// aggregates the outcome. Records share no mutable state, so no ordering
// between writes is enforced. A failed record is counted and logged, not
// fatal; the first failure is retained for the run's error.
type writePool struct {
	write   writeFunc
	log     *zap.Logger
	tasks   chan writeTask
	wg      sync.WaitGroup
	workers int

	written atomic.Int64
	failed  atomic.Int64

	mu       sync.Mutex
	firstErr error

	closeMu sync.Mutex
	closed  bool
}

func newWritePool(workers int, write writeFunc, log *zap.Logger) *writePool {
	if workers <= 0 {
		workers = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &writePool{
		write:   write,
		log:     log,
		tasks:   make(chan writeTask, workers*2),
		workers: workers,
	}
}

// start begins the worker goroutines. They drain records until ctx is done
// or close is called.
func (p *writePool) start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case t, ok := <-p.tasks:
					if !ok {
						return
					}
					p.run(t)
				}
			}
		}()
	}
}

func (p *writePool) run(t writeTask) {
	if err := p.write(t.rec, t.path); err != nil {
		p.failed.Add(1)
		p.log.Warn("record write failed",
			zap.String("headword", t.rec.Headword),
			zap.String("path", t.path),
			zap.Error(err))
		p.mu.Lock()
		if p.firstErr == nil {
			p.firstErr = err
		}
		p.mu.Unlock()
		return
	}
	p.written.Add(1)
}

// submit enqueues one record for writing. Returns errPoolClosed after close.
func (p *writePool) submit(rec *dict.UnifiedRecord, path string) error {
	p.closeMu.Lock()
	defer p.closeMu.Unlock()
	if p.closed {
		return errPoolClosed
	}
	p.tasks <- writeTask{rec: rec, path: path}
	return nil
}

// close stops accepting records and waits for in-flight writes to finish.
func (p *writePool) close() {
	p.closeMu.Lock()
	if p.closed {
		p.closeMu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.closeMu.Unlock()
	p.wg.Wait()
}

// result reports the totals. Only meaningful after close.
func (p *writePool) result() (written, failed int, firstErr error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return int(p.written.Load()), int(p.failed.Load()), p.firstErr
}
