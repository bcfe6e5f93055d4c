package fetcher

import "context"

// IndexedFetcher materializes batches synchronously from a randomly indexable source.
// It holds no state between calls: every fetch is an independent retrieval of the
// requested positions, using the source's bulk capability when it was detected at
// construction and falling back to one retrieval per position otherwise. Source
// failures propagate unmodified — an indexed fetcher has no notion of exhaustion, since
// positions are assumed valid and addressable at any time.
type IndexedFetcher[T, B any] struct {
	source        IndexedSource[T]
	bulk          BulkSource[T]
	collator      Collator[T, B]
	autoCollation bool
}

// NewIndexedFetcher constructs a fetcher over the provided indexed source. The source's
// bulk capability is probed exactly once here and the result drives the retrieval
// strategy for the fetcher's whole lifetime. Disabling automatic collation requires the
// bulk capability, because the position batch is then handed to the source as one
// composite request; construction fails with ErrBulkUnsupported when it is absent.
func NewIndexedFetcher[T, B any](source IndexedSource[T], collator Collator[T, B], opts ...Option) (*IndexedFetcher[T, B], error) {
	if source == nil {
		return nil, ErrEmptySource
	}

	if collator == nil {
		return nil, ErrEmptyCollator
	}

	s := newSettings(opts...)

	bulk, _ := source.(BulkSource[T])
	if !s.autoCollation && bulk == nil {
		return nil, ErrBulkUnsupported
	}

	return &IndexedFetcher[T, B]{
		source:        source,
		bulk:          bulk,
		collator:      collator,
		autoCollation: s.autoCollation,
	}, nil
}

// Fetch retrieves the samples for the requested positions and collates them in request
// order. With a bulk-capable source the full position list is forwarded to the source
// in a single call, order preserved; otherwise the positions are retrieved one by one
// in list order and assembled locally. Any source failure aborts the call immediately
// and propagates to the caller unmodified.
func (f *IndexedFetcher[T, B]) Fetch(ctx context.Context, positions []int) (B, error) {
	var zero B

	if f.bulk != nil {
		samples, err := f.bulk.GetItems(ctx, positions)
		if err != nil {
			return zero, err
		}

		return f.collator.Collate(samples)
	}

	samples := make([]T, 0, len(positions))
	for _, position := range positions {
		sample, err := f.source.GetItem(ctx, position)
		if err != nil {
			return zero, err
		}

		samples = append(samples, sample)
	}

	return f.collator.Collate(samples)
}
