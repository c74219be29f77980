// SPDX-License-Identifier: EPL-2.0

// Package pngshrink shrinks PNG images while they stream, without ever
// holding a decoded image in memory.
//
// The package reads a PNG source in fixed-size chunks, decodes it
// progressively, keeps every n-th pixel in both directions, and re-encodes
// the kept pixels to the output as soon as each row completes. Peak memory
// is one read chunk plus a single image row, independent of image size.
//
// # Quick Start
//
// The simplest way to shrink an image is using Shrink:
//
//	in, _ := os.Open("large.png")
//	out, _ := os.Create("small.png")
//
//	// Keep every 4th pixel per dimension
//	res, err := pngshrink.Shrink(in, out, 4, pngshrink.DefaultChunkSize)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// res.OutWidth x res.OutHeight is a quarter of the source per side
//
// # Processing Model
//
// Shrink builds a loop of three pieces:
//   - stream.ChunkedReader fills one fixed buffer from the source
//   - Pipeline feeds each chunk to a progressive PNG decoder, subsamples
//     every completed row in place, and re-encodes it immediately
//   - Driver runs the read-feed loop until the stream completes
//
// For more control, wire the pieces yourself:
//
//	pipe, _ := pngshrink.NewPipeline(out, 4)
//	defer pipe.Close()
//
//	reader, _ := stream.NewChunkedReader(in, 1024)
//	err := pngshrink.NewDriver(reader, pipe).Run()
//
// # Sampling
//
// Sampling keeps the pixel at every multiple of the sample rate, top-left
// anchored: output pixel (i, j) is source pixel (i*rate, j*rate). Output
// dimensions are the source dimensions divided by the rate, rounded down,
// at least 1. The rate must not exceed the smaller source dimension.
//
// There is no interpolation. Dropped pixels do not influence kept ones, so
// a rate of 1 reproduces the image exactly.
//
// # Supported Streams
//
// The codec under formats/png handles 8-bit grayscale, grayscale+alpha,
// truecolor and truecolor+alpha streams without interlacing. Palette
// images, 16-bit channels and Adam7 interlacing are refused up front.
//
// # Failure Behavior
//
// All errors are terminal; nothing retries. A source that ends mid-stream
// is reported as an error, never as a silent success, and the output is
// left as written so far: a well-formed stream prefix without a trailer.
//
// See the individual subpackages for more detailed documentation.
package pngshrink
