package fetcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// The script defaultBulkCommand is a Lua script that retrieves many list positions from
// Redis in a single round trip. It LINDEXes each requested position against the sample
// list and returns the values in the order the positions were supplied, which is the
// order the fetch layer expects bulk retrieval to preserve. Positions are assumed to be
// in range; a missing position truncates the reply and is surfaced as a count mismatch.
var defaultBulkCommand = redis.NewScript(`
local key = KEYS[1]
local samples = {}

for i = 1, #ARGV do
	samples[i] = redis.call('LINDEX', key, tonumber(ARGV[i]))
end

return samples
`)

// RedisSource is a sample source backed by a single Redis list. It exposes every
// retrieval capability the fetch layer understands: a destructive sequential cursor
// (LPOP from the head of the list), single-position random access (LINDEX), and bulk
// random access via a Lua script issued in one round trip. Stored values are decoded
// into samples of type T through the configured transcoder. The source is safe for
// concurrent single-position retrieval because go-redis clients are goroutine-safe,
// which makes it usable behind the concurrent fetcher without extra coordination.
type RedisSource[T any] struct {
	transcoder  Transcoder[T]
	rdb         redis.UniversalClient
	bulkCommand *redis.Script
	key         string
}

// sourceOptions type defines the functional options pattern used to configure a
// RedisSource instance.
type sourceOptions[T any] func(s *RedisSource[T])

// WithClient option assigns the redis client used by the RedisSource to communicate
// with redis. This client executes every command and Lua script the source issues.
// Providing a valid redis client is required for the source to function correctly.
func WithClient[T any](rdb redis.UniversalClient) sourceOptions[T] {
	return func(s *RedisSource[T]) {
		s.rdb = rdb
	}
}

// WithKey option names the redis list holding the stored samples. All retrieval
// operations — sequential, single-position, and bulk — address this one list.
// Providing a key is required for the source to function correctly.
func WithKey[T any](key string) sourceOptions[T] {
	return func(s *RedisSource[T]) {
		s.key = key
	}
}

// WithTranscoder option configures the transcoder used to decode stored sample data.
// The transcoder transforms raw redis strings into the target sample type, letting
// callers control deserialization behavior. When omitted, the source falls back to the
// built-in JSON transcoder.
func WithTranscoder[T any](t Transcoder[T]) sourceOptions[T] {
	return func(s *RedisSource[T]) {
		s.transcoder = t
	}
}

// WithBulkScript option specifies the Lua script used for bulk position retrieval.
// If no script is provided through this option, the RedisSource falls back to its
// default LINDEX-based script. This option allows callers to customize bulk retrieval
// without modifying the source itself.
func WithBulkScript[T any](src *redis.Script) sourceOptions[T] {
	return func(s *RedisSource[T]) {
		s.bulkCommand = src
	}
}

// NewRedisSource constructs a fully configured RedisSource instance. It applies all
// provided functional options, validates required dependencies, and initializes default
// values for any optional configuration not explicitly set. The function returns an
// error only when mandatory configuration is missing.
func NewRedisSource[T any](opts ...sourceOptions[T]) (*RedisSource[T], error) {
	source := &RedisSource[T]{}

	for _, opt := range opts {
		opt(source)
	}

	if source.rdb == nil {
		return nil, ErrEmptyRedisClient
	}

	if source.key == "" {
		return nil, ErrEmptyRedisKey
	}

	if source.bulkCommand == nil {
		source.bulkCommand = defaultBulkCommand
	}

	if source.transcoder == nil {
		source.transcoder = &defaultTranscoder[T]{}
	}

	return source, nil
}

// Next pops the sample at the head of the list and advances the cursor, making the
// source consumable as a one-shot sequential stream. An empty list signals the end of
// the data as ErrExhausted; the cursor is destructive, so exhaustion is permanent for
// the stored data. Decoding failures propagate to the caller rather than being skipped,
// because a sequential consumer cannot re-request a popped value.
func (s *RedisSource[T]) Next(ctx context.Context) (T, error) {
	var zero T

	value, err := s.rdb.LPop(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return zero, ErrExhausted
	}
	if err != nil {
		return zero, err
	}

	return s.transcoder.Decode(value)
}

// GetItem retrieves the sample stored at the given list position without consuming it.
// Positions are assumed valid; an out-of-range position surfaces the redis.Nil error
// unmodified so the fetch layer can propagate it as a retrieval failure.
func (s *RedisSource[T]) GetItem(ctx context.Context, position int) (T, error) {
	var zero T

	value, err := s.rdb.LIndex(ctx, s.key, int64(position)).Result()
	if err != nil {
		return zero, err
	}

	return s.transcoder.Decode(value)
}

// GetItems retrieves the samples for all given positions in one round trip by running
// the configured Lua script against the sample list. The script returns values in the
// requested position order, and each value is decoded through the transcoder before
// being appended, so the assembled slice preserves that order exactly. A reply shorter
// than the request indicates a missing position and fails the whole call.
func (s *RedisSource[T]) GetItems(ctx context.Context, positions []int) ([]T, error) {
	args := make([]interface{}, 0, len(positions))
	for _, position := range positions {
		args = append(args, position)
	}

	result, err := s.bulkCommand.Run(ctx, s.rdb, []string{s.key}, args...).Result()
	if err != nil {
		return nil, err
	}

	values, ok := result.([]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected bulk reply type %T", result)
	}

	samples := make([]T, 0, len(positions))
	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected bulk element type %T", value)
		}

		sample, decodeErr := s.transcoder.Decode(raw)
		if decodeErr != nil {
			return nil, decodeErr
		}

		samples = append(samples, sample)
	}

	if len(samples) != len(positions) {
		return nil, fmt.Errorf("bulk retrieval returned %d of %d samples", len(samples), len(positions))
	}

	return samples, nil
}
