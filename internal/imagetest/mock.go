// SPDX-License-Identifier: EPL-2.0

package imagetest

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"github.com/jmaccarl/pngshrink/internal/errors"
)

// This package builds PNG fixtures with the standard library codec and
// re-decodes outputs with it, so tests verify against an independent
// reference implementation rather than against the code under test.

// BuildGray encodes a width x height grayscale PNG (color type 0) whose
// pixel at (x, y) is shade(x, y).
func BuildGray(width, height int, shade func(x, y int) uint8) []byte {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetGray(x, y, color.Gray{Y: shade(x, y)})
		}
	}
	return encode(img)
}

// BuildRGB encodes a truecolor PNG (color type 2). All pixels are opaque,
// which is what makes the reference encoder pick the alphaless format.
func BuildRGB(width, height int, rgb func(x, y int) [3]uint8) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := rgb(x, y)
			img.SetNRGBA(x, y, color.NRGBA{R: c[0], G: c[1], B: c[2], A: 0xff})
		}
	}
	return encode(img)
}

// BuildRGBA encodes a truecolor+alpha PNG (color type 6). The pixel function
// must return a non-opaque alpha for at least one pixel, otherwise the
// reference encoder silently downgrades to color type 2.
func BuildRGBA(width, height int, rgba func(x, y int) [4]uint8) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := rgba(x, y)
			img.SetNRGBA(x, y, color.NRGBA{R: c[0], G: c[1], B: c[2], A: c[3]})
		}
	}
	return encode(img)
}

// BuildPaletted encodes a palette PNG (color type 3), which the streaming
// codec deliberately refuses.
func BuildPaletted(width, height int) []byte {
	palette := color.Palette{
		color.NRGBA{A: 0xff},
		color.NRGBA{R: 0xff, A: 0xff},
		color.NRGBA{G: 0xff, A: 0xff},
		color.NRGBA{B: 0xff, A: 0xff},
	}
	img := image.NewPaletted(image.Rect(0, 0, width, height), palette)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetColorIndex(x, y, uint8((x+y)%len(palette)))
		}
	}
	return encode(img)
}

// BuildGray16 encodes a 16-bit grayscale PNG, also outside the streaming
// codec's scope.
func BuildGray16(width, height int) []byte {
	img := image.NewGray16(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetGray16(x, y, color.Gray16{Y: uint16(x*257 + y)})
		}
	}
	return encode(img)
}

// GradientGray is a canned shade function with distinct nearby pixels.
func GradientGray(x, y int) uint8 { return uint8(x + 2*y) }

// GradientRGB is a canned truecolor pixel function that encodes the
// coordinates into the channels, so tests can tell exactly which source
// pixel ended up where.
func GradientRGB(x, y int) [3]uint8 {
	return [3]uint8{uint8(x), uint8(y), uint8(x + y)}
}

// GradientRGBA is like GradientRGB with a varying alpha. Pixel (0, 0) is
// fully transparent, which keeps the reference encoder honest about writing
// color type 6.
func GradientRGBA(x, y int) [4]uint8 {
	return [4]uint8{uint8(x), uint8(y), uint8(x ^ y), uint8(x + y)}
}

// Decode re-decodes data with the reference codec.
func Decode(data []byte) (image.Image, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "reference decode")
	}
	return img, nil
}

// PixelAt returns the pixel at (x, y) in 8-bit non-premultiplied form.
func PixelAt(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func encode(img image.Image) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		// Encoding a valid in-memory image never fails.
		panic(err)
	}
	return buf.Bytes()
}
