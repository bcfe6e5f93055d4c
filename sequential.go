package fetcher

import (
	"context"
	"errors"
)

// SequentialFetcher materializes batches by pulling successive samples from a one-shot
// sequential cursor. It is the only stateful fetcher variant: once the source signals
// exhaustion the fetcher enters a terminal ended state, and every subsequent fetch call
// fails with ErrExhausted without consulting the source again. This stickiness is
// deliberate — a sequential cursor may not be safely re-queried after it has reported
// the end of its data.
type SequentialFetcher[T, B any] struct {
	source        IterableSource[T]
	collator      Collator[T, B]
	dropLast      bool
	autoCollation bool
	ended         bool
}

// NewSequentialFetcher constructs a fetcher over the provided sequential source.
// It applies all provided functional options and validates required dependencies.
// The function returns an error only when mandatory configuration is missing.
func NewSequentialFetcher[T, B any](source IterableSource[T], collator Collator[T, B], opts ...Option) (*SequentialFetcher[T, B], error) {
	if source == nil {
		return nil, ErrEmptySource
	}

	if collator == nil {
		return nil, ErrEmptyCollator
	}

	s := newSettings(opts...)

	return &SequentialFetcher[T, B]{
		source:        source,
		collator:      collator,
		dropLast:      s.dropLast,
		autoCollation: s.autoCollation,
	}, nil
}

// Fetch pulls up to len(positions) successive samples from the cursor and collates
// them. The positions themselves carry no addressing meaning for a sequential source;
// only their count matters. When the source runs out mid-batch the partial samples are
// either collated and returned or discarded under the drop-last policy, and once zero
// samples remain the call fails with ErrExhausted. With automatic collation disabled
// the call pulls exactly one sample regardless of the batch size.
func (f *SequentialFetcher[T, B]) Fetch(ctx context.Context, positions []int) (B, error) {
	var zero B

	// Terminal state check: a cursor that has reported exhaustion is never touched
	// again, so repeated calls after the end are cheap and side-effect free.
	if f.ended {
		return zero, ErrExhausted
	}

	if !f.autoCollation {
		sample, err := f.source.Next(ctx)
		if errors.Is(err, ErrExhausted) {
			f.ended = true
			return zero, ErrExhausted
		}
		if err != nil {
			return zero, err
		}

		return f.collator.Collate([]T{sample})
	}

	// Pull one sample per requested position, stopping early if the source runs out
	// first. Exhaustion mid-batch marks the terminal state immediately; the decision
	// about the partial samples already pulled is made below.
	samples := make([]T, 0, len(positions))
	for range positions {
		sample, err := f.source.Next(ctx)
		if errors.Is(err, ErrExhausted) {
			f.ended = true
			break
		}
		if err != nil {
			// Retrieval failures are not exhaustion: propagate unmodified and leave
			// the fetcher running so the caller decides whether to retry or abort.
			return zero, err
		}

		samples = append(samples, sample)
	}

	// A short batch is surfaced only when the drop-last policy allows it; an empty one
	// never is. Either way the samples pulled for a dropped batch are discarded.
	if len(samples) == 0 || (f.dropLast && len(samples) < len(positions)) {
		return zero, ErrExhausted
	}

	return f.collator.Collate(samples)
}
