package fetcher

import "context"

// Fetcher is a generic interface defining a contract for types that materialize a batch
// of training samples from an underlying sample source. It specifies a single method,
// Fetch, which turns a batch of requested positions into one collated batch artifact.
// The generic type B is the collated batch type produced by the configured Collator,
// allowing implementations to hand back whatever artifact the consumer trains on.
// Every implementation preserves the request order: element i of the materialized batch
// corresponds to positions[i], regardless of how retrieval was scheduled internally.
type Fetcher[B any] interface {
	// Fetch retrieves the samples identified by the provided positions and returns them
	// as one collated batch. It fails with ErrExhausted when no further samples are
	// available under the implementation's exhaustion policy; any other error is a
	// collaborator failure propagated unmodified. The context parameter enables
	// cancellation and timeout management across every retrieval the call performs.
	Fetch(ctx context.Context, positions []int) (B, error)
}

// New constructs the fetcher variant best suited to the provided source, selected once
// from the source's probed capabilities rather than re-inspected on every call.
// An indexable source yields an indexed fetcher, or a concurrent indexed fetcher when
// the options request more than one worker. A source that only supports sequential
// iteration yields a sequential fetcher, for which the worker option is ignored.
// The function returns ErrUnsupportedSource when the source exposes no capability for
// the requested sample type, and propagates any validation error from the selected
// variant's own constructor.
func New[T, B any](source any, collator Collator[T, B], opts ...Option) (Fetcher[B], error) {
	if source == nil {
		return nil, ErrEmptySource
	}

	capability := ProbeSource[T](source)

	settings := newSettings(opts...)

	switch {
	case capability.Indexed && settings.workers > 1:
		return NewConcurrentFetcher[T, B](source.(IndexedSource[T]), collator, opts...)
	case capability.Indexed:
		return NewIndexedFetcher[T, B](source.(IndexedSource[T]), collator, opts...)
	case capability.Sequential:
		return NewSequentialFetcher[T, B](source.(IterableSource[T]), collator, opts...)
	default:
		return nil, ErrUnsupportedSource
	}
}
