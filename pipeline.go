// SPDX-License-Identifier: EPL-2.0

package pngshrink

import (
	"io"

	"github.com/jmaccarl/pngshrink/formats/png"
	"github.com/jmaccarl/pngshrink/internal/errors"
	"github.com/jmaccarl/pngshrink/stream"
)

// Pipeline binds a progressive PNG decoder to a row sampler and a streaming
// PNG encoder. Compressed input goes in through Feed in arbitrary pieces;
// every time a full image row comes out of the decoder it is subsampled in
// place and the kept pixels are re-encoded onto the output writer, so the
// shrunk stream grows while the source is still arriving.
//
// A pipeline holds no image-sized state: one decoder row pair plus the
// encoder's compression buffer.
type Pipeline struct {
	out        io.Writer
	sampleRate int

	dec *png.Decoder
	enc *png.Encoder

	source      png.Header
	headerSeen  bool
	rowWidth    int
	channels    int
	outRowBytes int
	rowsOut     int
}

// NewPipeline returns a pipeline that keeps every sampleRate-th pixel in
// both directions and writes the shrunk stream to out. Output geometry is
// decided when the source header arrives.
//
// Close the pipeline when done with it, even after an error.
func NewPipeline(out io.Writer, sampleRate int) (*Pipeline, error) {
	if sampleRate < 1 {
		return nil, errors.Wrapf(ErrInvalidSampleRate, "got %d", sampleRate)
	}

	p := &Pipeline{out: out, sampleRate: sampleRate}
	p.dec = png.NewDecoder(png.Hooks{
		Header: p.onHeader,
		Row:    p.onRow,
		End:    p.onEnd,
	})
	return p, nil
}

// Feed pushes the next piece of the compressed source into the pipeline.
// Rows completed by this piece are sampled and written out before Feed
// returns. Errors are terminal: the pipeline accepts no input after one.
func (p *Pipeline) Feed(chunk []byte) error {
	return p.dec.Feed(chunk)
}

// Done reports whether the source stream was decoded to its end and the
// shrunk output is complete.
func (p *Pipeline) Done() bool {
	return p.dec.Done()
}

// Close releases the pipeline. Closing before the source stream is complete
// returns the decode error for the unfinished stream; the output is left as
// written so far, without a trailer.
func (p *Pipeline) Close() error {
	return p.dec.Close()
}

// Source returns the header of the input stream, or the zero Header before
// one arrived.
func (p *Pipeline) Source() png.Header {
	return p.source
}

// Target returns the header of the output stream, with the shrunk geometry,
// or the zero Header before the source header arrived.
func (p *Pipeline) Target() png.Header {
	if p.enc == nil {
		return png.Header{}
	}
	return p.enc.Header()
}

// RowsWritten returns the number of rows encoded so far.
func (p *Pipeline) RowsWritten() int {
	return p.rowsOut
}

// onHeader checks the sample rate against the source geometry and opens the
// output stream. The output keeps every sampleRate-th pixel, at least one
// per dimension.
func (p *Pipeline) onHeader(h png.Header) error {
	if p.headerSeen {
		return ErrDuplicateHeader
	}
	if p.sampleRate > h.Width || p.sampleRate > h.Height {
		return errors.Wrapf(ErrSampleRateRange, "rate %d, image %dx%d", p.sampleRate, h.Width, h.Height)
	}

	out := png.Header{
		Width:     max(h.Width/p.sampleRate, 1),
		Height:    max(h.Height/p.sampleRate, 1),
		BitDepth:  h.BitDepth,
		ColorType: h.ColorType,
	}
	enc, err := png.NewEncoder(p.out, out)
	if err != nil {
		return err
	}

	p.enc = enc
	p.source = h
	p.headerSeen = true
	p.rowWidth = h.RowBytes
	p.channels = h.Channels
	p.outRowBytes = enc.Header().RowBytes

	// The output header is observable before any pixel data arrives.
	if f, ok := p.out.(stream.Flusher); ok {
		return errors.Wrap(f.Flush(), "flush header")
	}
	return nil
}

// onRow samples one decoded row in place and streams the kept prefix to the
// encoder. Off-stride rows are dropped. The sampler keeps a rounded-up pixel
// count, so rows and columns past the output geometry are trimmed here.
func (p *Pipeline) onRow(row []byte, index, _ int) error {
	if !p.headerSeen {
		return ErrMissingContext
	}

	if stream.SampleRow(row, p.rowWidth, p.channels, index, p.sampleRate) == 0 {
		return nil
	}
	if p.rowsOut >= p.enc.Header().Height {
		return nil
	}

	if err := p.enc.WriteRow(row[:p.outRowBytes]); err != nil {
		return err
	}
	p.rowsOut++
	return p.enc.Flush()
}

// onEnd finishes the output stream once the source trailer is verified.
func (p *Pipeline) onEnd() error {
	if !p.headerSeen {
		return ErrMissingContext
	}
	return p.enc.Close()
}
