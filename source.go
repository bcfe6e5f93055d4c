package fetcher

import "context"

// IterableSource describes a sample source that can only be consumed as a one-shot
// sequential cursor. Each call to Next advances the cursor by one sample; once the
// underlying data runs out the source reports ErrExhausted and must not be queried
// again. Sources implementing only this interface cannot serve position-based fetchers.
type IterableSource[T any] interface {
	// Next returns the next sample from the cursor, or ErrExhausted once the source has
	// no further data. Any other error indicates a retrieval failure for the current
	// cursor location and is propagated to the caller unmodified.
	Next(ctx context.Context) (T, error)
}

// IndexedSource describes a sample source that supports random access: any position can
// be retrieved at any time, independently of previous retrievals. Sources used with the
// concurrent fetcher must additionally tolerate GetItem being called from multiple
// goroutines at once; the fetcher imposes that contract but cannot enforce it.
type IndexedSource[T any] interface {
	// GetItem retrieves the single sample stored at the given position. Positions are
	// assumed valid; out-of-range handling belongs to the source itself.
	GetItem(ctx context.Context, position int) (T, error)
}

// BulkSource describes an indexed source that can additionally retrieve many positions
// in one call. When present, the synchronous indexed fetcher prefers this capability
// over issuing one retrieval per position.
type BulkSource[T any] interface {
	IndexedSource[T]

	// GetItems retrieves the samples for all given positions in a single call.
	// The returned slice must preserve the order of the requested positions.
	GetItems(ctx context.Context, positions []int) ([]T, error)
}

// Capability records which retrieval styles a sample source supports for a given sample
// type. It is computed once at fetcher construction and never re-probed per call.
type Capability struct {
	// Sequential reports that the source can be consumed as a one-shot cursor.
	Sequential bool
	// Indexed reports that the source supports single-position random access.
	Indexed bool
	// Bulk reports that the source can retrieve many positions in one call.
	Bulk bool
}

// ProbeSource inspects the provided source and reports the retrieval capabilities it
// exposes for samples of type T. The probe is a set of interface checks performed once;
// fetcher constructors use the result to select a retrieval strategy for their whole
// lifetime instead of inspecting the source on every fetch call.
func ProbeSource[T any](source any) Capability {
	var capability Capability

	if _, ok := source.(IterableSource[T]); ok {
		capability.Sequential = true
	}

	if _, ok := source.(IndexedSource[T]); ok {
		capability.Indexed = true
	}

	if _, ok := source.(BulkSource[T]); ok {
		capability.Bulk = true
	}

	return capability
}

// SliceSource is an in-memory sample source backed by a plain slice. It exposes every
// capability: sequential iteration over the remaining elements, single-position access,
// and bulk access. The indexed capabilities are safe for concurrent use because reads
// never mutate the slice; the sequential cursor is a separate mutable offset and is
// intended for a single consumer.
type SliceSource[T any] struct {
	samples []T
	cursor  int
}

// NewSliceSource constructs a SliceSource over the provided samples. The slice is
// retained, not copied, so callers must not mutate it while the source is in use.
func NewSliceSource[T any](samples []T) *SliceSource[T] {
	return &SliceSource[T]{samples: samples}
}

// Next returns the sample at the cursor and advances it, or ErrExhausted once every
// element has been consumed.
func (s *SliceSource[T]) Next(_ context.Context) (T, error) {
	if s.cursor >= len(s.samples) {
		var zero T
		return zero, ErrExhausted
	}

	sample := s.samples[s.cursor]
	s.cursor++

	return sample, nil
}

// GetItem returns the sample stored at the given position.
func (s *SliceSource[T]) GetItem(_ context.Context, position int) (T, error) {
	return s.samples[position], nil
}

// GetItems returns the samples for all given positions, preserving the request order.
func (s *SliceSource[T]) GetItems(_ context.Context, positions []int) ([]T, error) {
	samples := make([]T, 0, len(positions))
	for _, position := range positions {
		samples = append(samples, s.samples[position])
	}

	return samples, nil
}
