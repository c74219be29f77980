// SPDX-License-Identifier: EPL-2.0

package png

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/jmaccarl/pngshrink/internal/errors"
	"github.com/jmaccarl/pngshrink/stream"
)

// Encoder writes a PNG stream one row at a time. The signature and IHDR go
// out at construction; each row is deflated as it arrives; Flush emits the
// compressed bytes gathered so far as an IDAT chunk, so a crash mid-image
// leaves a well-formed prefix behind. Close finishes the pixel stream and
// writes IEND.
//
// Rows are written with filter type None. Peak memory is one deflate window
// plus the bytes compressed since the last Flush.
type Encoder struct {
	w   io.Writer
	hdr Header

	zbuf bytes.Buffer
	zw   *zlib.Writer

	rows   int
	closed bool
}

// NewEncoder validates the header, writes the PNG signature and IHDR to w,
// and returns an encoder expecting exactly hdr.Height rows. Channels and
// RowBytes are derived from the color type; values in hdr are ignored.
func NewEncoder(w io.Writer, hdr Header) (*Encoder, error) {
	if hdr.Width < 1 || hdr.Height < 1 {
		return nil, errors.Wrapf(ErrFormat, "non-positive dimension %dx%d", hdr.Width, hdr.Height)
	}
	if hdr.BitDepth != 8 {
		return nil, errors.Wrapf(ErrUnsupported, "bit depth %d", hdr.BitDepth)
	}
	if hdr.Compression != 0 || hdr.Filter != 0 || hdr.Interlace != 0 {
		return nil, errors.Wrap(ErrUnsupported, "non-zero compression, filter or interlace method")
	}
	channels, ok := channelCount(hdr.ColorType)
	if !ok {
		return nil, errors.Wrapf(ErrUnsupported, "color type %d", hdr.ColorType)
	}
	hdr.Channels = channels
	hdr.RowBytes = hdr.Width * channels

	e := &Encoder{w: w, hdr: hdr}

	zw, err := zlib.NewWriterLevel(&e.zbuf, zlib.DefaultCompression)
	if err != nil {
		return nil, errors.Wrap(err, "init pixel stream")
	}
	e.zw = zw

	if _, err := io.WriteString(e.w, pngSignature); err != nil {
		return nil, errors.Wrap(err, "write signature")
	}

	var ihdr [13]byte
	binary.BigEndian.PutUint32(ihdr[0:4], uint32(hdr.Width))
	binary.BigEndian.PutUint32(ihdr[4:8], uint32(hdr.Height))
	ihdr[8] = uint8(hdr.BitDepth)
	ihdr[9] = uint8(hdr.ColorType)
	ihdr[10] = uint8(hdr.Compression)
	ihdr[11] = uint8(hdr.Filter)
	ihdr[12] = uint8(hdr.Interlace)
	if err := e.writeChunk("IHDR", ihdr[:]); err != nil {
		return nil, err
	}

	return e, nil
}

// Header returns the header the encoder was created with, including the
// derived Channels and RowBytes.
func (e *Encoder) Header() Header { return e.hdr }

// WriteRow appends one unfiltered row of exactly RowBytes bytes. Rows past
// the header height are refused.
func (e *Encoder) WriteRow(row []byte) error {
	if e.closed {
		return ErrClosed
	}
	if len(row) != e.hdr.RowBytes {
		return errors.Wrapf(ErrRowLength, "got %d bytes, header needs %d", len(row), e.hdr.RowBytes)
	}
	if e.rows >= e.hdr.Height {
		return ErrTooManyRows
	}

	var filter [1]byte // type None
	if _, err := e.zw.Write(filter[:]); err != nil {
		return errors.Wrap(err, "deflate row")
	}
	if _, err := e.zw.Write(row); err != nil {
		return errors.Wrap(err, "deflate row")
	}
	e.rows++

	return nil
}

// Flush sync-flushes the deflate stream, emits everything compressed so far
// as one IDAT chunk, and pushes the sink's buffers downstream when the sink
// implements stream.Flusher.
func (e *Encoder) Flush() error {
	if e.closed {
		return ErrClosed
	}
	if err := e.zw.Flush(); err != nil {
		return errors.Wrap(err, "flush pixel stream")
	}
	if err := e.emit(); err != nil {
		return err
	}
	return e.flushSink()
}

// Close finishes the pixel stream, writes the final IDAT and IEND, and
// flushes the sink. It fails if fewer than the header height rows were
// written. Close is idempotent; WriteRow and Flush refuse a closed encoder.
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	if e.rows != e.hdr.Height {
		return errors.Wrapf(ErrMissingRows, "wrote %d of %d", e.rows, e.hdr.Height)
	}

	if err := e.zw.Close(); err != nil {
		return errors.Wrap(err, "close pixel stream")
	}
	if err := e.emit(); err != nil {
		return err
	}
	if err := e.writeChunk("IEND", nil); err != nil {
		return err
	}
	e.closed = true

	return e.flushSink()
}

// emit drains the compressed buffer into an IDAT chunk. An empty buffer
// emits no chunk.
func (e *Encoder) emit() error {
	if e.zbuf.Len() == 0 {
		return nil
	}
	if err := e.writeChunk("IDAT", e.zbuf.Bytes()); err != nil {
		return err
	}
	e.zbuf.Reset()
	return nil
}

func (e *Encoder) flushSink() error {
	f, ok := e.w.(stream.Flusher)
	if !ok {
		return nil
	}
	if err := f.Flush(); err != nil {
		return errors.Wrap(err, "flush sink")
	}
	return nil
}

// writeChunk frames one chunk: length, type, payload, CRC-32 of type and
// payload.
func (e *Encoder) writeChunk(typ string, data []byte) error {
	var head [8]byte
	binary.BigEndian.PutUint32(head[:4], uint32(len(data)))
	copy(head[4:], typ)

	crc := crc32.NewIEEE()
	crc.Write(head[4:8])
	crc.Write(data)
	var tail [4]byte
	binary.BigEndian.PutUint32(tail[:], crc.Sum32())

	if _, err := e.w.Write(head[:]); err != nil {
		return errors.Wrapf(err, "write %s chunk", typ)
	}
	if _, err := e.w.Write(data); err != nil {
		return errors.Wrapf(err, "write %s chunk", typ)
	}
	if _, err := e.w.Write(tail[:]); err != nil {
		return errors.Wrapf(err, "write %s chunk", typ)
	}
	return nil
}
