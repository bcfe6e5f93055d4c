package fetcher

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// fetchTask is one unit of work handed to the worker pool: a single position to
// retrieve, the offset of that position within the originating request, and the
// per-call channel the outcome must be reported on. The context is the one passed to
// the enclosing Fetch call, so cancellation reaches retrievals already offloaded.
type fetchTask[T any] struct {
	ctx      context.Context
	position int
	slot     int
	results  chan<- fetchOutcome[T]
}

// fetchOutcome is the report a worker produces for exactly one task, success or
// failure. The slot carries the request offset so the collecting side can place the
// sample without caring which worker finished first.
type fetchOutcome[T any] struct {
	slot     int
	position int
	sample   T
	err      error
}

// ConcurrentFetcher materializes batches from a randomly indexable source using a fixed
// pool of workers running retrievals in parallel. The pool and its task channel are
// owned by the fetcher instance and reused across calls; only the result channel is
// created per call and discarded after a full drain, so no state survives between
// fetches. Workers complete in whatever order the source allows — the input order of
// the batch is restored afterwards by writing each sample into a result slot keyed by
// its offset in the request, never by relying on completion order.
//
// A single fetch call is in flight per instance at any time: the call path is
// serialized internally, so a second caller blocks until the first batch is fully
// collected. Independent instances share nothing and may run fully in parallel.
// The source must tolerate up to the configured worker count of simultaneous GetItem
// calls; that contract is imposed on the collaborator, not enforced here.
type ConcurrentFetcher[T, B any] struct {
	source     IndexedSource[T]
	collator   Collator[T, B]
	workers    int
	skipFailed bool
	logger     zerolog.Logger

	mu     sync.Mutex
	closed bool
	tasks  chan fetchTask[T]
	wg     sync.WaitGroup
}

// NewConcurrentFetcher constructs a fetcher over the provided indexed source and starts
// its worker pool. The worker count is taken from WithWorkers and fixed for the
// fetcher's lifetime; the pool is started once here and never recreated per batch.
// The returned fetcher owns goroutines and must be released with Close when no longer
// needed. Construction fails only when mandatory dependencies are missing.
func NewConcurrentFetcher[T, B any](source IndexedSource[T], collator Collator[T, B], opts ...Option) (*ConcurrentFetcher[T, B], error) {
	if source == nil {
		return nil, ErrEmptySource
	}

	if collator == nil {
		return nil, ErrEmptyCollator
	}

	s := newSettings(opts...)

	f := &ConcurrentFetcher[T, B]{
		source:     source,
		collator:   collator,
		workers:    s.workers,
		skipFailed: s.skipFailed,
		logger:     s.logger,
		tasks:      make(chan fetchTask[T], s.workers),
	}

	// Start the fixed worker set. Each worker lives for the fetcher's lifetime and
	// drains tasks from whichever fetch call is currently active.
	f.wg.Add(f.workers)
	for id := 0; id < f.workers; id++ {
		go f.worker(id)
	}

	return f, nil
}

// worker is the loop run by each execution slot. It takes one pending task at a time,
// performs the blocking single-position retrieval against the source, and reports the
// outcome on the task's result channel. Failures are reported like successes so the
// collecting side can count outcomes, and additionally logged with the failing position
// and worker identity. The loop exits when the task channel is closed.
func (f *ConcurrentFetcher[T, B]) worker(id int) {
	defer f.wg.Done()

	for task := range f.tasks {
		sample, err := f.source.GetItem(task.ctx, task.position)
		if err != nil {
			f.logger.Error().
				Err(err).
				Int("worker", id).
				Int("position", task.position).
				Msg("sample retrieval failed")
		}

		task.results <- fetchOutcome[T]{
			slot:     task.slot,
			position: task.position,
			sample:   sample,
			err:      err,
		}
	}
}

// Fetch retrieves the samples for the requested positions in parallel and collates them
// in request order. The call submits one task per position to the shared pending queue,
// then blocks until every outcome has been reported back — a hard barrier: no result is
// considered final while any retrieval is outstanding. Each returned sample is placed
// into the result slot matching its request offset, which restores the input order
// regardless of completion order.
//
// Failure policy: by default any failed retrieval fails the whole call with an
// aggregate error naming every failed position, and no batch is returned. With
// WithSkipFailed enabled, failed positions are omitted instead and the collated batch
// may be shorter than the request, with no error signaled beyond the worker log line.
func (f *ConcurrentFetcher[T, B]) Fetch(ctx context.Context, positions []int) (B, error) {
	var zero B

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return zero, ErrFetcherClosed
	}

	// The result channel is scoped to this call and sized to hold every outcome, so
	// workers never block on reporting and the pool drains the pending queue freely.
	results := make(chan fetchOutcome[T], len(positions))

	for slot, position := range positions {
		f.tasks <- fetchTask[T]{
			ctx:      ctx,
			position: position,
			slot:     slot,
			results:  results,
		}
	}

	// Collect exactly one outcome per submitted task. Completion order is arbitrary;
	// the slot index re-establishes the request order as outcomes arrive.
	slots := make([]T, len(positions))
	filled := make([]bool, len(positions))

	var failures []error
	for range positions {
		outcome := <-results
		if outcome.err != nil {
			failures = append(failures, fmt.Errorf("position %d: %w", outcome.position, outcome.err))
			continue
		}

		slots[outcome.slot] = outcome.sample
		filled[outcome.slot] = true
	}

	if len(failures) > 0 && !f.skipFailed {
		return zero, errors.Join(failures...)
	}

	// Under the skip-failed policy the unfilled slots are dropped while the surviving
	// samples keep their relative request order.
	samples := slots
	if len(failures) > 0 {
		samples = make([]T, 0, len(positions)-len(failures))
		for slot, ok := range filled {
			if ok {
				samples = append(samples, slots[slot])
			}
		}
	}

	return f.collator.Collate(samples)
}

// Close shuts down the worker pool and waits for every worker to exit. It is safe to
// call once any in-flight fetch has returned; subsequent Fetch calls fail with
// ErrFetcherClosed. Closing an already closed fetcher is a no-op.
func (f *ConcurrentFetcher[T, B]) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}

	f.closed = true
	close(f.tasks)
	f.wg.Wait()

	return nil
}
