// Package wire defines the two payload shapes pkg/collectives
// serializes onto pkg/transport's opaque byte strings: a single
// encoded application value ("raw"), and an ordered list of
// already-encoded values ("list-of-blobs"), used by gather/scatter.
//
// msgpack is the chosen byte format (see DESIGN.md): a language-neutral
// stand-in for the original Python implementation's pickle framing.
package wire

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// EncodeValue serializes a single application value.
func EncodeValue(v any) ([]byte, error) {
	b, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("wire: encode value: %w", err)
	}
	return b, nil
}

// DecodeValue deserializes a single application value into out, which
// must be a pointer.
func DecodeValue(b []byte, out any) error {
	if err := msgpack.Unmarshal(b, out); err != nil {
		return fmt.Errorf("wire: decode value: %w", err)
	}
	return nil
}

// EncodeBlobs serializes an ordered sequence of already-encoded blobs
// into a single frame, the list-of-blobs shape gather/scatter exchange.
func EncodeBlobs(blobs [][]byte) ([]byte, error) {
	b, err := msgpack.Marshal(blobs)
	if err != nil {
		return nil, fmt.Errorf("wire: encode blobs: %w", err)
	}
	return b, nil
}

// DecodeBlobs deserializes a list-of-blobs frame back into its
// constituent blobs, each still in encoded form.
func DecodeBlobs(b []byte) ([][]byte, error) {
	var blobs [][]byte
	if err := msgpack.Unmarshal(b, &blobs); err != nil {
		return nil, fmt.Errorf("wire: decode blobs: %w", err)
	}
	return blobs, nil
}
