package png

import (
	"encoding/binary"
	"hash"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/jmaccarl/pngshrink/internal/errors"
)

// Decoder is a push decoder. Callers feed it arbitrary byte chunks and the
// registered hooks fire as soon as the header, each reconstructed row, and
// the trailer become decodable; the caller never sees partially decoded
// state between feeds.
//
// Internally the chunk walker runs on its own goroutine, because inflating
// in Go is a pull API. The handoff is fully synchronous: Feed returns only
// after the parser has consumed the chunk and parked again, so at every
// point observable by the caller exactly one side is running. A Decoder is
// not safe for concurrent use.
type Decoder struct {
	feed   chan []byte
	idle   chan struct{}
	result chan error

	// parked records that the parser's park signal was consumed and it is
	// blocked waiting on the feed channel.
	parked   bool
	finished bool
	err      error
}

// NewDecoder starts a decoder with the given hooks. Nil hooks are skipped.
// The decoder holds one row buffer pair and a fixed inflate window; it never
// buffers the whole image.
func NewDecoder(hooks Hooks) *Decoder {
	d := &Decoder{
		feed:   make(chan []byte),
		idle:   make(chan struct{}),
		result: make(chan error, 1),
	}

	p := &parser{
		src:   &feeder{feed: d.feed, idle: d.idle},
		crc:   crc32.NewIEEE(),
		hooks: hooks,
	}
	go func() { d.result <- p.run() }()

	return d
}

// Feed pushes one chunk into the decoder and blocks until the parser has
// consumed it, running every hook it unlocked along the way. The chunk is
// fully consumed when Feed returns, so the caller may reuse its backing
// array immediately. Feeding an empty chunk is a no-op.
//
// A hook error aborts the decode and is returned unchanged. After the
// stream has completed or failed, Feed keeps returning the terminal result.
func (d *Decoder) Feed(chunk []byte) error {
	if d.finished {
		return d.err
	}
	if len(chunk) == 0 {
		return nil
	}

	if !d.parked && !d.waitParked() {
		return d.err
	}

	d.feed <- chunk
	d.parked = false

	if d.waitParked() {
		return nil
	}
	return d.err
}

// Done reports whether the stream was decoded through IEND successfully.
func (d *Decoder) Done() bool { return d.finished && d.err == nil }

// Close releases the parser goroutine. Closing a decoder that has not seen
// a complete stream surfaces the decode failure, typically a truncation
// error from ending inside the bitstream. Close is idempotent and further
// calls return the same result.
func (d *Decoder) Close() error {
	if d.finished {
		return d.err
	}
	if !d.parked && !d.waitParked() {
		return d.err
	}

	d.parked = false
	close(d.feed)
	d.err = <-d.result
	d.finished = true

	return d.err
}

// waitParked blocks until the parser either parks for more input (true) or
// finishes (false, with the terminal state recorded).
func (d *Decoder) waitParked() bool {
	select {
	case <-d.idle:
		d.parked = true
		return true
	case err := <-d.result:
		d.finished = true
		d.err = err
		return false
	}
}

// feeder adapts the push side to the parser's pull side. The parser reads
// from it and parks on the idle channel whenever it runs dry; a closed feed
// channel reads as EOF, which the parser treats as truncation when it still
// needs bytes.
type feeder struct {
	feed <-chan []byte
	idle chan<- struct{}

	cur    []byte
	closed bool
}

func (f *feeder) Read(p []byte) (int, error) {
	for len(f.cur) == 0 {
		if f.closed {
			return 0, io.EOF
		}
		f.idle <- struct{}{}
		chunk, ok := <-f.feed
		if !ok {
			f.closed = true
			return 0, io.EOF
		}
		f.cur = chunk
	}

	n := copy(p, f.cur)
	f.cur = f.cur[n:]
	return n, nil
}

// parser walks the chunk stream: signature, IHDR, ancillary chunks, the
// IDAT payload run, IEND. It lives on the decoder's goroutine.
type parser struct {
	src   *feeder
	crc   hash.Hash32
	hooks Hooks

	hdr        Header
	stage      int
	idatLength uint32
	tmp        [13]byte
}

func (p *parser) run() error {
	if err := p.checkSignature(); err != nil {
		return err
	}
	if err := p.readHeader(); err != nil {
		return err
	}
	if p.hooks.Header != nil {
		if err := p.hooks.Header(p.hdr); err != nil {
			return err
		}
	}

	if err := p.readRows(); err != nil {
		return err
	}
	if err := p.readTrailer(); err != nil {
		return err
	}

	if p.hooks.End != nil {
		if err := p.hooks.End(); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) readFull(buf []byte) error {
	if _, err := io.ReadFull(p.src, buf); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return errors.Wrap(err, "truncated stream")
	}
	return nil
}

func (p *parser) checkSignature() error {
	if err := p.readFull(p.tmp[:8]); err != nil {
		return err
	}
	if string(p.tmp[:8]) != pngSignature {
		return ErrNotPNG
	}
	return nil
}

// readHeader walks chunks up to and including the first IDAT chunk header,
// parsing IHDR and skipping everything ancillary. On return the parser is
// positioned at the first byte of pixel data.
func (p *parser) readHeader() error {
	for {
		if err := p.readFull(p.tmp[:8]); err != nil {
			return err
		}
		length := binary.BigEndian.Uint32(p.tmp[:4])
		p.crc.Reset()
		p.crc.Write(p.tmp[4:8])

		switch string(p.tmp[4:8]) {
		case "IHDR":
			if p.stage != psStart {
				return errors.Wrap(ErrChunkOrder, "duplicate IHDR")
			}
			p.stage = psSeenIHDR
			if err := p.parseIHDR(length); err != nil {
				return err
			}
		case "IDAT":
			if p.stage != psSeenIHDR {
				return errors.Wrap(ErrChunkOrder, "IDAT before IHDR")
			}
			if length > 0x7fffffff {
				return errors.Wrapf(ErrFormat, "bad chunk length %d", length)
			}
			p.stage = psSeenIDAT
			p.idatLength = length
			return nil
		case "IEND":
			return errors.Wrap(ErrFormat, "no pixel data")
		default:
			if p.stage == psStart {
				return errors.Wrap(ErrChunkOrder, "chunk before IHDR")
			}
			if err := p.skipChunk(length); err != nil {
				return err
			}
		}
	}
}

func (p *parser) parseIHDR(length uint32) error {
	if length != 13 {
		return errors.Wrap(ErrFormat, "bad IHDR length")
	}
	if err := p.readFull(p.tmp[:13]); err != nil {
		return err
	}
	p.crc.Write(p.tmp[:13])

	w := int32(binary.BigEndian.Uint32(p.tmp[0:4]))
	h := int32(binary.BigEndian.Uint32(p.tmp[4:8]))
	if w <= 0 || h <= 0 {
		return errors.Wrap(ErrFormat, "non-positive dimension")
	}

	hdr := Header{
		Width:       int(w),
		Height:      int(h),
		BitDepth:    int(p.tmp[8]),
		ColorType:   int(p.tmp[9]),
		Compression: int(p.tmp[10]),
		Filter:      int(p.tmp[11]),
		Interlace:   int(p.tmp[12]),
	}
	if hdr.Compression != 0 {
		return errors.Wrap(ErrUnsupported, "compression method")
	}
	if hdr.Filter != 0 {
		return errors.Wrap(ErrUnsupported, "filter method")
	}
	if hdr.Interlace != 0 {
		return errors.Wrap(ErrUnsupported, "interlace method")
	}
	if hdr.BitDepth != 8 {
		return errors.Wrapf(ErrUnsupported, "bit depth %d", hdr.BitDepth)
	}

	channels, ok := channelCount(hdr.ColorType)
	if !ok {
		return errors.Wrapf(ErrUnsupported, "color type %d", hdr.ColorType)
	}
	hdr.Channels = channels

	rowBytes := int64(hdr.Width) * int64(channels)
	if rowBytes > (1<<31)-1 || rowBytes != int64(int(rowBytes)) {
		return errors.Wrap(ErrUnsupported, "dimension overflow")
	}
	hdr.RowBytes = int(rowBytes)

	p.hdr = hdr
	return p.verifyChecksum()
}

// skipChunk consumes and discards a chunk payload of known length, still
// holding it to its checksum.
func (p *parser) skipChunk(length uint32) error {
	if length > 0x7fffffff {
		return errors.Wrapf(ErrFormat, "bad chunk length %d", length)
	}

	var ignored [512]byte
	for length > 0 {
		n := min(len(ignored), int(length))
		if err := p.readFull(ignored[:n]); err != nil {
			return err
		}
		p.crc.Write(ignored[:n])
		length -= uint32(n)
	}
	return p.verifyChecksum()
}

// readRows inflates the pixel stream and reconstructs rows one at a time,
// handing each to the row hook. The previous row is snapshotted before the
// hook runs, so the hook may mutate the row it was given without corrupting
// the next row's filter input.
func (p *parser) readRows() error {
	zr, err := zlib.NewReader(p)
	if err != nil {
		return errors.Wrap(err, "open pixel stream")
	}

	bpp := p.hdr.Channels
	// The +1 is for the per-row filter type, which is at cr[0].
	cr := make([]byte, 1+p.hdr.RowBytes)
	pr := make([]byte, 1+p.hdr.RowBytes)

	for y := 0; y < p.hdr.Height; y++ {
		if _, err := io.ReadFull(zr, cr); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return errors.Wrap(ErrFormat, "not enough pixel data")
			}
			return errors.Wrapf(err, "row %d", y)
		}
		if err := defilter(cr[0], cr[1:], pr[1:], bpp); err != nil {
			return err
		}
		copy(pr, cr)

		if p.hooks.Row != nil {
			if err := p.hooks.Row(cr[1:], y, 0); err != nil {
				return err
			}
		}
	}

	// One read past the last row must hit the end of the zlib stream; this
	// also forces the Adler-32 verification.
	var extra [1]byte
	if _, err := io.ReadFull(zr, extra[:]); err != io.EOF {
		if err != nil {
			return errors.Wrap(err, "pixel stream trailer")
		}
		return errors.Wrap(ErrFormat, "too much pixel data")
	}

	return zr.Close()
}

// readTrailer verifies the tail of the stream: the final IDAT checksum, any
// trailing ancillary chunks, and IEND.
func (p *parser) readTrailer() error {
	if p.idatLength != 0 {
		return errors.Wrap(ErrFormat, "extra compressed data")
	}
	if err := p.verifyChecksum(); err != nil {
		return err
	}

	for {
		if err := p.readFull(p.tmp[:8]); err != nil {
			return err
		}
		length := binary.BigEndian.Uint32(p.tmp[:4])
		p.crc.Reset()
		p.crc.Write(p.tmp[4:8])

		switch string(p.tmp[4:8]) {
		case "IEND":
			if length != 0 {
				return errors.Wrap(ErrFormat, "bad IEND length")
			}
			p.stage = psSeenIEND
			return p.verifyChecksum()
		case "IHDR", "IDAT":
			return errors.Wrapf(ErrChunkOrder, "%s after pixel data", p.tmp[4:8])
		default:
			if err := p.skipChunk(length); err != nil {
				return err
			}
		}
	}
}

// Read presents the payloads of consecutive IDAT chunks as one continuous
// stream for the inflate layer, verifying each chunk's checksum as it is
// exhausted. Reads never cross past IDAT payload bytes, so the chunk walk
// stays aligned however far ahead the inflater buffers.
func (p *parser) Read(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}
	for p.idatLength == 0 {
		if err := p.verifyChecksum(); err != nil {
			return 0, err
		}
		if err := p.readFull(p.tmp[:8]); err != nil {
			return 0, err
		}
		p.idatLength = binary.BigEndian.Uint32(p.tmp[:4])
		if string(p.tmp[4:8]) != "IDAT" {
			return 0, errors.Wrap(ErrFormat, "not enough pixel data")
		}
		if p.idatLength > 0x7fffffff {
			return 0, errors.Wrapf(ErrFormat, "bad chunk length %d", p.idatLength)
		}
		p.crc.Reset()
		p.crc.Write(p.tmp[4:8])
	}

	n, err := p.src.Read(b[:min(len(b), int(p.idatLength))])
	p.crc.Write(b[:n])
	p.idatLength -= uint32(n)
	return n, err
}

func (p *parser) verifyChecksum() error {
	var sum [4]byte
	if err := p.readFull(sum[:]); err != nil {
		return err
	}
	if binary.BigEndian.Uint32(sum[:]) != p.crc.Sum32() {
		return ErrChecksum
	}
	return nil
}
