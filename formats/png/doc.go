// SPDX-License-Identifier: EPL-2.0

// Package png provides progressive PNG decoding and streaming PNG encoding.
//
// Unlike whole-image codecs, both directions here are incremental: the
// decoder accepts arbitrary byte chunks and fires callbacks as rows become
// decodable, and the encoder accepts one row at a time and can flush partial
// output. Neither side ever holds more than two rows of pixel data.
//
// # Supported Streams
//
// Currently supported:
//   - Bit depth 8 (one byte per channel)
//   - Color types: grayscale, truecolor, grayscale+alpha, truecolor+alpha
//   - Non-interlaced only
//   - Any number of IDAT chunks; ancillary chunks are checksummed and
//     skipped
//
// Palette images, other bit depths and Adam7 interlacing fail with
// ErrUnsupported at header time rather than producing broken output.
//
// # Progressive Decoding
//
// Construct a Decoder with hooks, then push chunks at it as they arrive:
//
//	dec := png.NewDecoder(png.Hooks{
//	    Header: func(h png.Header) error { ... },
//	    Row:    func(row []byte, index, pass int) error { ... },
//	    End:    func() error { ... },
//	})
//	defer dec.Close()
//
//	for chunk := range chunks {
//	    if err := dec.Feed(chunk); err != nil {
//	        return err
//	    }
//	    if dec.Done() {
//	        break
//	    }
//	}
//
// Every hook a chunk unlocks has finished by the time Feed returns. The row
// hook's slice is decoder-owned scratch: mutating it is allowed, retaining
// it is not.
//
// # Streaming Encoding
//
// The encoder writes the signature and IHDR up front and one IDAT chunk per
// Flush:
//
//	enc, err := png.NewEncoder(w, hdr)
//	for _, row := range rows {
//	    if err := enc.WriteRow(row); err != nil { ... }
//	    if err := enc.Flush(); err != nil { ... }
//	}
//	err = enc.Close()
//
// Flushing after every row trades compression ratio for bounded memory and
// incremental output, which is the point of this package. A true low-memory
// mode would also shrink the deflate window; that is left to the zlib
// defaults for now.
//
// # Error Handling
//
// The package defines sentinel errors for the failure classes:
//   - ErrNotPNG: the stream does not begin with the PNG signature
//   - ErrFormat: structurally invalid data
//   - ErrChecksum: a chunk failed CRC verification
//   - ErrChunkOrder: chunks out of the mandated order
//   - ErrUnsupported: valid PNG outside this package's scope
//
// Match them with errors.Is; most are wrapped with positional detail.
// Errors returned by hooks are passed through Feed verbatim.
package png
