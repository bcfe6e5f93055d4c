package fetcher

import "errors"

// ErrExhausted signals that a fetcher has no further samples to produce under its own
// exhaustion policy. It is a control signal comparable to io.EOF, not a defect: callers
// observe it once a sequential source runs dry, or when a short tail batch is discarded
// under the drop-last policy. Every other error returned by a fetcher is a genuine
// failure propagated unmodified from a collaborator.
var ErrExhausted = errors.New("sample source exhausted")

// ErrEmptySource is returned when attempting to create a fetcher without providing a
// sample source. The source is mandatory for all fetcher operations — construction
// fails if it is missing.
var ErrEmptySource = errors.New("sample source is empty")

// ErrEmptyCollator is returned when attempting to create a fetcher without providing a
// collator. Every fetch call ends by handing the ordered samples to the collator, so
// construction fails if one is missing.
var ErrEmptyCollator = errors.New("collator is empty")

// ErrEmptyRedisClient is returned when attempting to create a redis sample source
// without providing a Redis client. The Redis client is mandatory for all source
// operations — construction fails if it is missing.
var ErrEmptyRedisClient = errors.New("redis client is empty")

// ErrEmptyRedisKey is returned when attempting to create a redis sample source without
// naming the list that holds the samples. A source without a key has nothing to read.
var ErrEmptyRedisKey = errors.New("redis key is empty")

// ErrUnsupportedSource is returned by the New factory when the provided source exposes
// neither sequential iteration nor indexed retrieval for the requested sample type.
var ErrUnsupportedSource = errors.New("source supports neither iteration nor indexed retrieval")

// ErrBulkUnsupported is returned when an indexed fetcher is configured with automatic
// collation disabled but the source has no bulk retrieval capability. Without automatic
// collation the whole position batch is treated as one composite key, which requires a
// single bulk call against the source.
var ErrBulkUnsupported = errors.New("composite position retrieval requires bulk support")

// ErrFetcherClosed is returned when Fetch is called on a concurrent fetcher whose
// worker pool has already been shut down through Close.
var ErrFetcherClosed = errors.New("fetcher is closed")
