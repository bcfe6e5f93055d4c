package fetcher

import (
	"github.com/goccy/go-json"
)

// Transcoder defines the contract for bidirectional conversion between a sample of type
// T and its string representation. Users may implement custom transcoders (protobuf,
// msgpack, custom compression, etc.) to control exactly how samples are serialized into
// the backing store and reconstructed on retrieval. The interface is intentionally
// minimal and string-based because Redis stores values as strings.
type Transcoder[T any] interface {
	// Encode converts a sample of type T into a string suitable for storage.
	// The implementation fully controls the format, encoding, and optional compression.
	Encode(T) (string, error)

	// Decode reconstructs a sample of type T from the string previously produced by
	// Encode. It must perfectly reverse the Encode operation for the same transcoder.
	Decode(string) (T, error)
}

// defaultTranscoder is the built-in transcoder used when the user does not provide a
// custom one. It performs straightforward JSON serialization with no additional
// compression, keeping stored samples human-readable — a good fit for development and
// debugging. Users who need a smaller storage footprint or a different format should
// supply their own transcoder.
type defaultTranscoder[T any] struct{}

// Encode serializes the provided sample into its JSON string representation.
// Any error produced during serialization is returned to the caller for handling.
func (defaultTranscoder[T]) Encode(src T) (string, error) {
	bytes, err := json.Marshal(src)

	return string(bytes), err
}

// Decode reconstructs a sample of type T from its JSON string representation.
// On failure the zero value of T is returned alongside the decoding error.
func (defaultTranscoder[T]) Decode(src string) (T, error) {
	var sample T

	if err := json.Unmarshal([]byte(src), &sample); err != nil {
		return sample, err
	}

	return sample, nil
}
