package png

import (
	"bytes"
	"errors"
	"image/color"
	"testing"

	"github.com/jmaccarl/pngshrink/internal/imagetest"
)

func TestEncoder_RoundTrip(t *testing.T) {
	t.Parallel()

	const w, h = 5, 4

	tests := []struct {
		name      string
		colorType int
		channels  int
		pixel     func(x, y int) []byte
		want      func(x, y int) color.NRGBA
	}{
		{
			name:      "gray",
			colorType: ctGray,
			channels:  1,
			pixel: func(x, y int) []byte {
				return []byte{imagetest.GradientGray(x, y)}
			},
			want: func(x, y int) color.NRGBA {
				g := imagetest.GradientGray(x, y)
				return color.NRGBA{R: g, G: g, B: g, A: 255}
			},
		},
		{
			name:      "truecolor",
			colorType: ctTrueColor,
			channels:  3,
			pixel: func(x, y int) []byte {
				c := imagetest.GradientRGB(x, y)
				return c[:]
			},
			want: func(x, y int) color.NRGBA {
				c := imagetest.GradientRGB(x, y)
				return color.NRGBA{R: c[0], G: c[1], B: c[2], A: 255}
			},
		},
		{
			name:      "truecolor with alpha",
			colorType: ctTrueColorAlpha,
			channels:  4,
			pixel: func(x, y int) []byte {
				c := imagetest.GradientRGBA(x, y)
				return c[:]
			},
			want: func(x, y int) color.NRGBA {
				c := imagetest.GradientRGBA(x, y)
				return color.NRGBA{R: c[0], G: c[1], B: c[2], A: c[3]}
			},
		},
		{
			name:      "gray with alpha",
			colorType: ctGrayAlpha,
			channels:  2,
			pixel: func(x, y int) []byte {
				return []byte{uint8(16*x + y), uint8(255 - 10*x)}
			},
			want: func(x, y int) color.NRGBA {
				g, a := uint8(16*x+y), uint8(255-10*x)
				return color.NRGBA{R: g, G: g, B: g, A: a}
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			enc, err := NewEncoder(&buf, Header{
				Width: w, Height: h,
				BitDepth:  8,
				ColorType: tt.colorType,
			})
			if err != nil {
				t.Fatalf("NewEncoder() error = %v", err)
			}

			row := make([]byte, w*tt.channels)
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					copy(row[x*tt.channels:], tt.pixel(x, y))
				}
				if err := enc.WriteRow(row); err != nil {
					t.Fatalf("WriteRow(%d) error = %v", y, err)
				}
			}
			if err := enc.Close(); err != nil {
				t.Fatalf("Close() error = %v", err)
			}

			img, err := imagetest.Decode(buf.Bytes())
			if err != nil {
				t.Fatalf("decoding encoder output: %v", err)
			}
			bounds := img.Bounds()
			if bounds.Dx() != w || bounds.Dy() != h {
				t.Fatalf("decoded size = %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), w, h)
			}
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					if got, want := imagetest.PixelAt(img, x, y), tt.want(x, y); got != want {
						t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
					}
				}
			}
		})
	}
}

func TestNewEncoder_DerivesGeometry(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	enc, err := NewEncoder(&buf, Header{
		Width: 10, Height: 3,
		BitDepth:  8,
		ColorType: ctTrueColor,
		Channels:  99, // ignored
		RowBytes:  -1, // ignored
	})
	if err != nil {
		t.Fatalf("NewEncoder() error = %v", err)
	}

	hdr := enc.Header()
	if hdr.Channels != 3 || hdr.RowBytes != 30 {
		t.Errorf("derived (channels=%d, rowBytes=%d), want (3, 30)", hdr.Channels, hdr.RowBytes)
	}
}

func TestNewEncoder_RejectsHeaders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hdr  Header
		want error
	}{
		{"zero width", Header{Width: 0, Height: 5, BitDepth: 8, ColorType: ctGray}, ErrFormat},
		{"zero height", Header{Width: 5, Height: 0, BitDepth: 8, ColorType: ctGray}, ErrFormat},
		{"sixteen bit", Header{Width: 5, Height: 5, BitDepth: 16, ColorType: ctGray}, ErrUnsupported},
		{"palette", Header{Width: 5, Height: 5, BitDepth: 8, ColorType: ctPaletted}, ErrUnsupported},
		{"interlaced", Header{Width: 5, Height: 5, BitDepth: 8, ColorType: ctGray, Interlace: 1}, ErrUnsupported},
		{"bad compression", Header{Width: 5, Height: 5, BitDepth: 8, ColorType: ctGray, Compression: 1}, ErrUnsupported},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			_, err := NewEncoder(&buf, tt.hdr)
			if !errors.Is(err, tt.want) {
				t.Errorf("NewEncoder() error = %v, want %v", err, tt.want)
			}
			if buf.Len() != 0 {
				t.Errorf("rejected header still wrote %d bytes", buf.Len())
			}
		})
	}
}

func TestEncoder_WriteRowErrors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	enc, err := NewEncoder(&buf, Header{Width: 4, Height: 2, BitDepth: 8, ColorType: ctGray})
	if err != nil {
		t.Fatalf("NewEncoder() error = %v", err)
	}

	if err := enc.WriteRow(make([]byte, 3)); !errors.Is(err, ErrRowLength) {
		t.Errorf("short row error = %v, want ErrRowLength", err)
	}
	if err := enc.WriteRow(make([]byte, 5)); !errors.Is(err, ErrRowLength) {
		t.Errorf("long row error = %v, want ErrRowLength", err)
	}

	row := make([]byte, 4)
	for i := 0; i < 2; i++ {
		if err := enc.WriteRow(row); err != nil {
			t.Fatalf("WriteRow() error = %v", err)
		}
	}
	if err := enc.WriteRow(row); !errors.Is(err, ErrTooManyRows) {
		t.Errorf("extra row error = %v, want ErrTooManyRows", err)
	}
}

// Closing short of the header height must fail, but the encoder stays open
// so the caller can supply the missing rows and close again.
func TestEncoder_CloseMissingRows(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	enc, err := NewEncoder(&buf, Header{Width: 3, Height: 2, BitDepth: 8, ColorType: ctGray})
	if err != nil {
		t.Fatalf("NewEncoder() error = %v", err)
	}

	row := []byte{1, 2, 3}
	if err := enc.WriteRow(row); err != nil {
		t.Fatalf("WriteRow() error = %v", err)
	}
	if err := enc.Close(); !errors.Is(err, ErrMissingRows) {
		t.Fatalf("early Close() error = %v, want ErrMissingRows", err)
	}

	if err := enc.WriteRow(row); err != nil {
		t.Fatalf("WriteRow() after failed close error = %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if _, err := imagetest.Decode(buf.Bytes()); err != nil {
		t.Errorf("decoding encoder output: %v", err)
	}
}

func TestEncoder_ClosedIsTerminal(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	enc, err := NewEncoder(&buf, Header{Width: 2, Height: 1, BitDepth: 8, ColorType: ctGray})
	if err != nil {
		t.Fatalf("NewEncoder() error = %v", err)
	}
	if err := enc.WriteRow([]byte{7, 8}); err != nil {
		t.Fatalf("WriteRow() error = %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	size := buf.Len()
	if err := enc.Close(); err != nil {
		t.Errorf("second Close() = %v, want nil", err)
	}
	if buf.Len() != size {
		t.Error("second Close() wrote more bytes")
	}

	if err := enc.WriteRow([]byte{7, 8}); !errors.Is(err, ErrClosed) {
		t.Errorf("WriteRow() after Close error = %v, want ErrClosed", err)
	}
	if err := enc.Flush(); !errors.Is(err, ErrClosed) {
		t.Errorf("Flush() after Close error = %v, want ErrClosed", err)
	}
}

// Flush must leave a well-formed stream prefix in the sink: everything up to
// and including an IDAT with the rows so far, and no trailer yet.
func TestEncoder_FlushWritesPrefix(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	enc, err := NewEncoder(&buf, Header{Width: 4, Height: 4, BitDepth: 8, ColorType: ctGray})
	if err != nil {
		t.Fatalf("NewEncoder() error = %v", err)
	}

	row := []byte{1, 2, 3, 4}
	for i := 0; i < 2; i++ {
		if err := enc.WriteRow(row); err != nil {
			t.Fatalf("WriteRow() error = %v", err)
		}
	}
	if err := enc.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	prefix := buf.Bytes()
	if !bytes.HasPrefix(prefix, []byte(pngSignature)) {
		t.Error("flushed prefix does not start with the PNG signature")
	}
	if !bytes.Contains(prefix, []byte("IDAT")) {
		t.Error("flushed prefix holds no IDAT chunk")
	}
	if bytes.Contains(prefix, []byte("IEND")) {
		t.Error("flushed prefix already holds IEND")
	}

	for i := 0; i < 2; i++ {
		if err := enc.WriteRow(row); err != nil {
			t.Fatalf("WriteRow() error = %v", err)
		}
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !bytes.HasSuffix(buf.Bytes(), buildChunk("IEND", nil)) {
		t.Error("closed stream does not end with IEND")
	}
}

// flushRecorder counts how often the encoder pushes the sink.
type flushRecorder struct {
	bytes.Buffer
	flushes int
}

func (f *flushRecorder) Flush() error {
	f.flushes++
	return nil
}

func TestEncoder_FlushesSink(t *testing.T) {
	t.Parallel()

	var sink flushRecorder
	enc, err := NewEncoder(&sink, Header{Width: 2, Height: 2, BitDepth: 8, ColorType: ctGray})
	if err != nil {
		t.Fatalf("NewEncoder() error = %v", err)
	}

	row := []byte{9, 9}
	if err := enc.WriteRow(row); err != nil {
		t.Fatalf("WriteRow() error = %v", err)
	}
	if err := enc.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if sink.flushes != 1 {
		t.Errorf("sink flushed %d times after Flush, want 1", sink.flushes)
	}

	if err := enc.WriteRow(row); err != nil {
		t.Fatalf("WriteRow() error = %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if sink.flushes != 2 {
		t.Errorf("sink flushed %d times after Close, want 2", sink.flushes)
	}
}
