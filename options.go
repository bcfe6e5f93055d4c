package fetcher

import "github.com/rs/zerolog"

// Option defines the functional options pattern used to configure fetcher instances.
// The same option set is shared by every fetcher variant; options that do not apply to
// a given variant are simply ignored by it.
type Option func(s *settings)

// settings holds the resolved configuration applied to a fetcher at construction time.
// All fields are fixed once the constructor returns and are never modified afterward.
type settings struct {
	workers       int
	dropLast      bool
	autoCollation bool
	skipFailed    bool
	logger        zerolog.Logger
}

// newSettings resolves the provided options against the defaults: one worker, short
// tail batches emitted rather than dropped, automatic collation enabled, per-position
// failures propagated rather than skipped, and a no-op logger.
func newSettings(opts ...Option) settings {
	s := settings{
		workers:       1,
		autoCollation: true,
		logger:        zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&s)
	}

	if s.workers < 1 {
		s.workers = 1
	}

	return s
}

// WithWorkers option configures how many workers the concurrent fetcher runs in
// parallel against the source. The count is fixed for the fetcher's lifetime and bounds
// both the worker pool and the number of simultaneous retrievals the source must
// tolerate. Values below one are treated as one; non-concurrent variants ignore it.
func WithWorkers(count int) Option {
	return func(s *settings) {
		s.workers = count
	}
}

// WithDropLast option configures the drop-last policy of the sequential fetcher.
// When enabled, a tail batch shorter than the requested position count is discarded and
// the fetch fails with ErrExhausted instead; the partial samples are never surfaced.
// When disabled, the short tail batch is collated and returned as a final batch.
func WithDropLast(drop bool) Option {
	return func(s *settings) {
		s.dropLast = drop
	}
}

// WithAutoCollation option controls whether the fetcher batches multiple positions into
// one call. When enabled, each fetch pulls one sample per requested position and
// collates them. When disabled, the position batch is treated as a single composite
// request: the sequential fetcher pulls exactly one sample per call, and the indexed
// fetcher issues one bulk retrieval whose result is collated whole.
func WithAutoCollation(enabled bool) Option {
	return func(s *settings) {
		s.autoCollation = enabled
	}
}

// WithSkipFailed option selects the concurrent fetcher's failure policy. By default a
// failed single-position retrieval fails the whole fetch call with an aggregate error
// naming every failed position. With skipping enabled, failures are only logged and the
// affected positions are silently omitted, so the returned batch may be shorter than
// the request — callers choosing this policy accept under-reported failures.
func WithSkipFailed(skip bool) Option {
	return func(s *settings) {
		s.skipFailed = skip
	}
}

// WithLogger option assigns the logger used by the concurrent fetcher to report
// per-worker retrieval failures, including the failing position and worker identity.
// When no logger is provided, a no-op logger is used and failures are not reported
// outside the fetch call's own return value.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}
