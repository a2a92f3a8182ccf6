package service

import (
	"context"
	"sync"
	"time"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

type snapshot struct {
	seq   uint64
	lines []domain.CartLine
}

type writeReport func(seq uint64, duration time.Duration, err error)

// persister writes cart snapshots to the store from a single goroutine.
// Only the newest pending snapshot is kept, so a write never lands after a
// write for a later dispatch.
type persister struct {
	store   port.KeyValueStore
	key     string
	timeout time.Duration
	report  writeReport

	mu        sync.Mutex
	pending   *snapshot
	scheduled uint64
	attempted uint64
	progress  chan struct{}
	closed    bool

	wake      chan struct{}
	done      chan struct{}
	startOnce sync.Once
}

func newPersister(store port.KeyValueStore, key string, timeout time.Duration, report writeReport) *persister {
	return &persister{
		store:    store,
		key:      key,
		timeout:  timeout,
		report:   report,
		progress: make(chan struct{}),
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

func (p *persister) start() {
	p.startOnce.Do(func() {
		go p.run()
	})
}

// schedule queues lines for writing and returns the sequence assigned to them.
// It returns false once the persister is closed.
func (p *persister) schedule(lines []domain.CartLine) (uint64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return 0, false
	}

	p.scheduled++
	p.pending = &snapshot{seq: p.scheduled, lines: lines}

	select {
	case p.wake <- struct{}{}:
	default:
	}
	return p.scheduled, true
}

func (p *persister) run() {
	defer close(p.done)

	for range p.wake {
		for {
			p.mu.Lock()
			snap := p.pending
			p.pending = nil
			p.mu.Unlock()

			if snap == nil {
				break
			}
			p.write(snap)
		}
	}
}

func (p *persister) write(snap *snapshot) {
	start := time.Now()

	value, err := domain.MarshalLines(snap.lines)
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		err = p.store.Set(ctx, p.key, value)
		cancel()
	}

	if p.report != nil {
		p.report(snap.seq, time.Since(start), err)
	}

	p.mu.Lock()
	p.attempted = snap.seq
	close(p.progress)
	p.progress = make(chan struct{})
	p.mu.Unlock()
}

// flush waits until every scheduled snapshot has been written or superseded.
func (p *persister) flush(ctx context.Context) error {
	p.start()

	for {
		p.mu.Lock()
		if p.attempted >= p.scheduled {
			p.mu.Unlock()
			return nil
		}
		progress := p.progress
		p.mu.Unlock()

		select {
		case <-progress:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// close stops accepting snapshots and waits for the pending one to be written.
func (p *persister) close(ctx context.Context) error {
	p.start()

	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.wake)
	}
	p.mu.Unlock()

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
