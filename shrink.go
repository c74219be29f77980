// SPDX-License-Identifier: EPL-2.0

package pngshrink

import (
	"io"

	"github.com/jmaccarl/pngshrink/stream"
)

// DefaultChunkSize is the read buffer size Shrink uses when the caller has
// no reason to pick one.
const DefaultChunkSize = 1024

// Result describes one finished (or aborted) shrink run.
type Result struct {
	// Width and Height are the source image dimensions in pixels, zero if
	// the run failed before the header was parsed.
	Width, Height int
	// OutWidth and OutHeight are the output dimensions in pixels.
	OutWidth, OutHeight int
	// RowsWritten is the number of image rows encoded to the output.
	RowsWritten int
	// BytesRead is the total number of bytes consumed from the source.
	BytesRead int64
	// BytesWritten is the total number of bytes written to the output.
	BytesWritten int64
}

// Shrink is a high-level convenience function that reads a PNG stream from
// src, keeps every sampleRate-th pixel in both directions, and writes the
// shrunk PNG stream to dst.
//
// The function builds the full processing loop:
//  1. Reads src in chunks of chunkSize bytes through a ChunkedReader
//  2. Feeds each chunk to a Pipeline, which decodes progressively
//  3. Subsamples every completed row in place and re-encodes it
//  4. Stops at the source trailer, or on the first error
//
// Parameters:
//   - src: the compressed PNG source
//   - dst: destination for the shrunk PNG stream
//   - sampleRate: keep one pixel out of this many per dimension (1 keeps
//     the image as is; the rate must not exceed the smaller dimension)
//   - chunkSize: read buffer size in bytes (e.g. DefaultChunkSize);
//     memory use is this buffer plus one image row
//
// Returns a Result with the geometry and byte counts, populated as far as
// the run got. On error, bytes already shrunk remain in dst: the output is
// a well-formed stream prefix without a trailer, and Result says how much
// was read and written.
//
// Example:
//
//	in, _ := os.Open("large.png")
//	out, _ := os.Create("small.png")
//	res, err := pngshrink.Shrink(in, out, 4, pngshrink.DefaultChunkSize)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// res.OutWidth x res.OutHeight is a quarter of the source per side
func Shrink(src io.Reader, dst io.Writer, sampleRate, chunkSize int) (Result, error) {
	counter := &countingWriter{w: dst}

	pipe, err := NewPipeline(counter, sampleRate)
	if err != nil {
		return Result{}, err
	}
	defer pipe.Close()

	reader, err := stream.NewChunkedReader(src, chunkSize)
	if err != nil {
		return Result{}, err
	}

	runErr := NewDriver(reader, pipe).Run()

	source, target := pipe.Source(), pipe.Target()
	res := Result{
		Width:        source.Width,
		Height:       source.Height,
		OutWidth:     target.Width,
		OutHeight:    target.Height,
		RowsWritten:  pipe.RowsWritten(),
		BytesRead:    reader.Total(),
		BytesWritten: counter.n,
	}
	return res, runErr
}

// countingWriter counts bytes on their way to the sink and forwards Flush
// when the sink buffers.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

func (c *countingWriter) Flush() error {
	if f, ok := c.w.(stream.Flusher); ok {
		return f.Flush()
	}
	return nil
}
