// SPDX-License-Identifier: EPL-2.0

package stream

// ReadResult describes the state of the chunk buffer after one read attempt.
type ReadResult struct {
	// Bytes is the valid prefix of the chunk buffer. It aliases the reader's
	// internal storage and is only valid until the next ReadNext or Reset.
	Bytes []byte
	// Suspend reports that the buffer is neither full nor finished: the
	// caller should read again before consuming Bytes.
	Suspend bool
}

// Flusher is implemented by sinks that can push buffered output downstream.
// Writers handed to the encoder are flushed after every emitted row when they
// implement it.
type Flusher interface {
	Flush() error
}
