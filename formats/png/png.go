package png

// pngSignature is the 8-byte magic prefix of every PNG stream.
const pngSignature = "\x89PNG\r\n\x1a\n"

// Color types, as per the PNG spec.
const (
	ctGray           = 0
	ctTrueColor      = 2
	ctPaletted       = 3
	ctGrayAlpha      = 4
	ctTrueColorAlpha = 6
)

// Per-row filter types, as per the PNG spec.
const (
	ftNone    = 0
	ftSub     = 1
	ftUp      = 2
	ftAverage = 3
	ftPaeth   = 4
)

// Decoding stages. The PNG specification says that the IHDR, IDAT and IEND
// chunks must appear in that order, and that IDAT chunks are consecutive.
// https://www.w3.org/TR/PNG/#5ChunkOrdering
const (
	psStart = iota
	psSeenIHDR
	psSeenIDAT
	psSeenIEND
)

// Header carries the IHDR fields of a PNG stream plus the row geometry
// derived from them. Width and Height are in pixels; RowBytes is the byte
// length of one unfiltered row (Width times Channels at 8 bits per channel).
type Header struct {
	Width, Height int
	BitDepth      int
	ColorType     int
	Compression   int
	Filter        int
	Interlace     int

	Channels int
	RowBytes int
}

// Hooks are the decoder's callbacks. A nil hook is skipped. Any error a hook
// returns aborts the decode and surfaces unchanged from Feed.
type Hooks struct {
	// Header runs once, after the IHDR chunk has been parsed and validated
	// and before any pixel data is inflated.
	Header func(h Header) error
	// Row runs once per reconstructed image row, top to bottom. The slice is
	// scratch owned by the decoder: the hook may mutate it, but must not
	// retain it past the call. pass is always 0 for non-interlaced streams.
	Row func(row []byte, index, pass int) error
	// End runs once, after the IEND chunk has been verified.
	End func() error
}

// channelCount maps a color type to its channel count at bit depth 8.
func channelCount(colorType int) (int, bool) {
	switch colorType {
	case ctGray:
		return 1, true
	case ctTrueColor:
		return 3, true
	case ctGrayAlpha:
		return 2, true
	case ctTrueColorAlpha:
		return 4, true
	}
	return 0, false
}
