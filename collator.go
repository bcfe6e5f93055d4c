package fetcher

// Collator defines the contract for merging an ordered sequence of samples into one
// batch artifact of type B. Users may implement custom collators (tensor stacking,
// struct-of-arrays transposition, padding to a common length, etc.) to control exactly
// how the consumer's batch is assembled. Every fetcher variant, including the
// concurrent one, hands the collator a plain slice of samples already arranged in the
// request's position order; the collator never sees positions and never reorders.
type Collator[T, B any] interface {
	// Collate merges the ordered samples into a single batch artifact. An error aborts
	// the enclosing fetch call and is propagated to the caller unmodified.
	Collate(samples []T) (B, error)
}

// SliceCollator is the built-in collator used when the consumer wants the ordered
// samples back as-is. It performs no copying and no transformation, which makes it the
// natural choice for consumers that stack or transpose batches themselves downstream.
type SliceCollator[T any] struct{}

// Collate returns the ordered samples unchanged.
func (SliceCollator[T]) Collate(samples []T) ([]T, error) {
	return samples, nil
}
