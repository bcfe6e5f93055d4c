package fetcher

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// failingIterableSource returns a fixed error on every pull, standing in for a source
// whose cursor breaks mid-stream rather than ending cleanly.
type failingIterableSource struct{ err error }

func (s *failingIterableSource) Next(context.Context) (string, error) {
	return "", s.err
}

// TestSequentialFetcher verifies the sequential fetcher's exhaustion policy: how short
// tail batches are handled under both drop-last settings, and that the terminal ended
// state is sticky — once exhaustion has been signaled the source is never queried again.
func TestSequentialFetcher(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	batch := []int{0, 1, 2, 3}

	// DropLastDiscardsShortTail verifies that a source holding fewer samples than one
	// full batch produces zero successful batches when the drop-last policy is enabled.
	// The three available samples are pulled, found short of the requested four, and
	// discarded without ever reaching the collator.
	t.Run("DropLastDiscardsShortTail", func(t *testing.T) {
		source := &iterableOnlySource[string]{src: NewSliceSource(samplesFor(3))}

		f, err := NewSequentialFetcher[string, []string](source, SliceCollator[string]{}, WithDropLast(true))
		assert.NoError(t, err, "Failed to create sequential fetcher")

		result, fetchErr := f.Fetch(ctx, batch)
		assert.ErrorIs(t, fetchErr, ErrExhausted, "Short tail with drop-last must signal exhaustion")
		assert.Nil(t, result, "Discarded partial samples must never be surfaced")
	})

	// ShortTailEmitted verifies the opposite policy: with drop-last disabled, the same
	// three-sample source yields exactly one successful batch of length three, and only
	// then signals exhaustion.
	t.Run("ShortTailEmitted", func(t *testing.T) {
		source := &iterableOnlySource[string]{src: NewSliceSource(samplesFor(3))}

		f, err := NewSequentialFetcher[string, []string](source, SliceCollator[string]{})
		assert.NoError(t, err, "Failed to create sequential fetcher")

		result, fetchErr := f.Fetch(ctx, batch)
		assert.NoError(t, fetchErr, "Short tail without drop-last must be emitted")
		assert.Equal(t, []string{"sample-0", "sample-1", "sample-2"}, result, "Tail batch content mismatch")

		_, fetchErr = f.Fetch(ctx, batch)
		assert.ErrorIs(t, fetchErr, ErrExhausted, "Second fetch after the tail must signal exhaustion")
	})

	// StickyExhaustion verifies that the ended state is terminal: after the first
	// exhaustion signal, repeated fetch calls keep signaling exhaustion without a
	// single additional pull against the source's cursor.
	t.Run("StickyExhaustion", func(t *testing.T) {
		source := &iterableOnlySource[string]{src: NewSliceSource(samplesFor(2))}

		f, err := NewSequentialFetcher[string, []string](source, SliceCollator[string]{}, WithDropLast(true))
		assert.NoError(t, err, "Failed to create sequential fetcher")

		_, fetchErr := f.Fetch(ctx, batch)
		assert.ErrorIs(t, fetchErr, ErrExhausted, "Expected exhaustion on the first fetch")

		pullsAtEnd := source.calls
		for i := 0; i < 3; i++ {
			_, fetchErr = f.Fetch(ctx, batch)
			assert.ErrorIs(t, fetchErr, ErrExhausted, "Every fetch after the end must signal exhaustion")
		}
		assert.Equal(t, pullsAtEnd, source.calls, "The cursor must not be queried once ended")
	})

	// FullBatches verifies the happy path over a source holding an exact multiple of
	// the batch size: every batch comes back full and in pull order.
	t.Run("FullBatches", func(t *testing.T) {
		source := &iterableOnlySource[string]{src: NewSliceSource(samplesFor(8))}

		f, err := NewSequentialFetcher[string, []string](source, SliceCollator[string]{}, WithDropLast(true))
		assert.NoError(t, err, "Failed to create sequential fetcher")

		first, fetchErr := f.Fetch(ctx, batch)
		assert.NoError(t, fetchErr, "First full batch must succeed")
		assert.Equal(t, []string{"sample-0", "sample-1", "sample-2", "sample-3"}, first, "First batch mismatch")

		second, fetchErr := f.Fetch(ctx, batch)
		assert.NoError(t, fetchErr, "Second full batch must succeed")
		assert.Equal(t, []string{"sample-4", "sample-5", "sample-6", "sample-7"}, second, "Second batch mismatch")

		_, fetchErr = f.Fetch(ctx, batch)
		assert.ErrorIs(t, fetchErr, ErrExhausted, "A fully drained source must signal exhaustion")
	})

	// SingleSampleMode verifies the batching-disabled mode: each fetch pulls exactly
	// one sample from the cursor no matter how many positions the batch nominally
	// carries, and the collator receives that single sample.
	t.Run("SingleSampleMode", func(t *testing.T) {
		source := &iterableOnlySource[string]{src: NewSliceSource(samplesFor(2))}

		f, err := NewSequentialFetcher[string, []string](source, SliceCollator[string]{}, WithAutoCollation(false))
		assert.NoError(t, err, "Failed to create sequential fetcher")

		result, fetchErr := f.Fetch(ctx, batch)
		assert.NoError(t, fetchErr, "Single-sample fetch must succeed")
		assert.Equal(t, []string{"sample-0"}, result, "Exactly one sample must be pulled per call")
		assert.Equal(t, 1, source.calls, "Batching disabled must pull exactly one sample")

		result, fetchErr = f.Fetch(ctx, batch)
		assert.NoError(t, fetchErr, "Second single-sample fetch must succeed")
		assert.Equal(t, []string{"sample-1"}, result, "Cursor must advance one sample per call")

		_, fetchErr = f.Fetch(ctx, batch)
		assert.ErrorIs(t, fetchErr, ErrExhausted, "Drained cursor must signal exhaustion")
	})

	// SourceErrorPropagates verifies that a genuine retrieval failure is not treated as
	// exhaustion: it reaches the caller unmodified and leaves the fetcher running.
	t.Run("SourceErrorPropagates", func(t *testing.T) {
		errBroken := errors.New("cursor broken")

		f, err := NewSequentialFetcher[string, []string](&failingIterableSource{err: errBroken}, SliceCollator[string]{})
		assert.NoError(t, err, "Failed to create sequential fetcher")

		_, fetchErr := f.Fetch(ctx, batch)
		assert.ErrorIs(t, fetchErr, errBroken, "Source failures must propagate unmodified")
		assert.NotErrorIs(t, fetchErr, ErrExhausted, "A retrieval failure is not exhaustion")
	})

	// ConstructionValidation verifies that the constructor rejects missing mandatory
	// dependencies instead of deferring the failure to the first fetch call.
	t.Run("ConstructionValidation", func(t *testing.T) {
		_, err := NewSequentialFetcher[string, []string](nil, SliceCollator[string]{})
		assert.ErrorIs(t, err, ErrEmptySource, "Expected empty source error")

		_, err = NewSequentialFetcher[string, []string](&iterableOnlySource[string]{src: NewSliceSource(samplesFor(1))}, nil)
		assert.ErrorIs(t, err, ErrEmptyCollator, "Expected empty collator error")
	})
}
