// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"io"

	"github.com/jmaccarl/pngshrink/internal/errors"
)

// ChunkedReader accumulates bytes from a source into a fixed-capacity buffer,
// one source read per call. A chunk becomes consumable when the buffer fills
// or the source is exhausted; until then ReadNext asks to be called again.
//
// The reader never reads past what the caller consumes: after a chunk has
// been handed off, Reset rewinds the cursor and the next fill starts over.
type ChunkedReader struct {
	src io.Reader
	buf []byte

	// totalRead is the cursor: the count of valid bytes at the front of buf.
	totalRead int
	// total counts every byte delivered across the reader's lifetime.
	total int64
	eof   bool
}

// NewChunkedReader wraps src with a chunk buffer of the given capacity in
// bytes. Capacity must be at least 1.
func NewChunkedReader(src io.Reader, capacity int) (*ChunkedReader, error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}

	return &ChunkedReader{
		src: src,
		buf: make([]byte, capacity),
	}, nil
}

// ReadNext performs a single read against the source, appending at the
// cursor. The returned result distinguishes three outcomes:
//
//   - Suspend set: the buffer is not full yet and the source has more;
//     call ReadNext again to keep filling.
//   - Suspend clear with non-empty Bytes: a chunk is ready (either the
//     buffer filled or the source just ended on a partial fill).
//   - Suspend clear with empty Bytes: the source is exhausted.
//
// A source read error makes the reader unusable and is returned as-is,
// wrapped with context.
func (r *ChunkedReader) ReadNext() (ReadResult, error) {
	if r.eof {
		return ReadResult{Bytes: r.buf[:r.totalRead]}, nil
	}
	if r.totalRead == len(r.buf) {
		return ReadResult{Bytes: r.buf}, nil
	}

	n, err := r.src.Read(r.buf[r.totalRead:])
	if n > 0 {
		r.totalRead += n
		r.total += int64(n)
	}

	if err == io.EOF {
		r.eof = true
		return ReadResult{Bytes: r.buf[:r.totalRead]}, nil
	}
	if err != nil {
		return ReadResult{}, errors.Wrap(err, "read chunk")
	}

	if r.totalRead == len(r.buf) {
		return ReadResult{Bytes: r.buf}, nil
	}

	// Partial fill, including reads that made no progress at all.
	return ReadResult{Bytes: r.buf[:r.totalRead], Suspend: true}, nil
}

// Reset marks the buffer consumed so the next ReadNext starts a fresh chunk.
// Exhaustion is sticky: once the source reported EOF, later chunks stay
// empty.
func (r *ChunkedReader) Reset() {
	r.totalRead = 0
}

// Buffered returns the count of valid bytes currently in the chunk buffer.
func (r *ChunkedReader) Buffered() int { return r.totalRead }

// Capacity returns the size of the chunk buffer.
func (r *ChunkedReader) Capacity() int { return len(r.buf) }

// Total returns the number of bytes delivered from the source over the
// reader's lifetime, across all Resets.
func (r *ChunkedReader) Total() int64 { return r.total }
