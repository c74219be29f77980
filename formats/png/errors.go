package png

import "github.com/jmaccarl/pngshrink/internal/errors"

var (
	// ErrNotPNG reports that the stream does not start with the PNG
	// signature.
	ErrNotPNG = errors.New("not a PNG stream")
	// ErrFormat reports structurally invalid PNG data.
	ErrFormat = errors.New("invalid PNG data")
	// ErrChecksum reports a chunk whose CRC does not match its contents.
	ErrChecksum = errors.New("invalid chunk checksum")
	// ErrChunkOrder reports chunks appearing out of the mandated order.
	ErrChunkOrder = errors.New("chunk out of order")
	// ErrUnsupported reports valid PNG features outside this package's
	// scope: bit depths other than 8, palette images, interlacing.
	ErrUnsupported = errors.New("unsupported PNG feature")

	// ErrClosed reports a write to an already finalized encoder.
	ErrClosed = errors.New("encoder already closed")
	// ErrRowLength reports a row whose length does not match the header.
	ErrRowLength = errors.New("row length does not match the header")
	// ErrTooManyRows reports more rows written than the header height.
	ErrTooManyRows = errors.New("more rows than the header height")
	// ErrMissingRows reports an encoder closed before all rows were written.
	ErrMissingRows = errors.New("fewer rows than the header height")
)
