// SPDX-License-Identifier: EPL-2.0

// Package stream provides the byte- and row-level primitives of the
// shrinking pipeline.
//
// This package contains the low-level building blocks:
//   - ChunkedReader for cooperative fixed-capacity source reads
//   - SampleRow for in-place nearest-index row decimation
//   - ReadResult and Flusher shared types
//
// # Chunked Reading
//
// The ChunkedReader owns a fixed buffer and fills it one source read at a
// time:
//
//	r, _ := stream.NewChunkedReader(src, 1024)
//	for {
//	    res, err := r.ReadNext()
//	    if err != nil {
//	        return err
//	    }
//	    if res.Suspend {
//	        continue // buffer not full yet
//	    }
//	    // consume res.Bytes, then:
//	    r.Reset()
//	}
//
// A result with Suspend clear and empty Bytes means the source is exhausted.
// The reader reads exactly as much as one chunk ahead of its consumer, which
// keeps peak memory at the chunk capacity regardless of input size.
//
// # Row Sampling
//
// SampleRow decimates a decoded image row in place, keeping every
// sampleRate-th pixel and every sampleRate-th row:
//
//	n := stream.SampleRow(row, rowBytes, channels, y, rate)
//	if n > 0 {
//	    // row[:n] holds the decimated row
//	}
//
// Decimation is pure nearest-index selection. There is no interpolation or
// averaging: pixel k of the output is pixel k*rate of the input, byte for
// byte.
//
// # Memory Model
//
// Both primitives work in place on caller-provided buffers. The pipeline as
// a whole holds one chunk buffer and one row at a time; nothing in this
// package allocates per call.
package stream
