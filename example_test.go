// SPDX-License-Identifier: EPL-2.0

package pngshrink_test

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/jmaccarl/pngshrink"
	"github.com/jmaccarl/pngshrink/formats/png"
	"github.com/jmaccarl/pngshrink/stream"
)

// buildImage encodes a small grayscale PNG in memory for demonstration.
func buildImage(width, height int) []byte {
	var buf bytes.Buffer
	enc, _ := png.NewEncoder(&buf, png.Header{
		Width:     width,
		Height:    height,
		BitDepth:  8,
		ColorType: 0, // grayscale
	})
	row := make([]byte, width)
	for y := 0; y < height; y++ {
		for x := range row {
			row[x] = uint8(x * y)
		}
		enc.WriteRow(row)
	}
	enc.Close()
	return buf.Bytes()
}

// Example_basicUsage demonstrates the most common use case: shrinking a
// PNG stream by keeping every 2nd pixel.
func Example_basicUsage() {
	// Create a PNG in memory for demonstration (use os.Open in real code)
	source := buildImage(8, 6)

	output := new(bytes.Buffer)
	res, err := pngshrink.Shrink(bytes.NewReader(source), output, 2, pngshrink.DefaultChunkSize)
	if err != nil {
		fmt.Printf("shrink error: %v\n", err)
		return
	}

	fmt.Printf("Shrunk %dx%d to %dx%d\n", res.Width, res.Height, res.OutWidth, res.OutHeight)
	fmt.Printf("Rows written: %d\n", res.RowsWritten)
	// Output:
	// Shrunk 8x6 to 4x3
	// Rows written: 3
}

// Example_pipeline shows feeding a pipeline by hand, the way a network
// handler would as packets arrive.
func Example_pipeline() {
	source := buildImage(10, 10)

	output := new(bytes.Buffer)
	pipe, err := pngshrink.NewPipeline(output, 5)
	if err != nil {
		fmt.Printf("pipeline error: %v\n", err)
		return
	}
	defer pipe.Close()

	// Feed 32 bytes at a time until the stream completes
	for data := source; len(data) > 0 && !pipe.Done(); {
		n := min(32, len(data))
		if err := pipe.Feed(data[:n]); err != nil {
			fmt.Printf("feed error: %v\n", err)
			return
		}
		data = data[n:]
	}

	target := pipe.Target()
	fmt.Printf("Complete: %v\n", pipe.Done())
	fmt.Printf("Output: %dx%d\n", target.Width, target.Height)
	// Output:
	// Complete: true
	// Output: 2x2
}

// Example_driver wires the chunked reader, pipeline and driver explicitly,
// which is what Shrink does internally.
func Example_driver() {
	source := buildImage(9, 9)

	output := new(bytes.Buffer)
	pipe, _ := pngshrink.NewPipeline(output, 3)
	defer pipe.Close()

	reader, _ := stream.NewChunkedReader(bytes.NewReader(source), 64)

	if err := pngshrink.NewDriver(reader, pipe).Run(); err != nil {
		fmt.Printf("run error: %v\n", err)
		return
	}

	fmt.Printf("Whole source consumed: %v\n", reader.Total() == int64(len(source)))
	fmt.Printf("Rows written: %d\n", pipe.RowsWritten())
	// Output:
	// Whole source consumed: true
	// Rows written: 3
}

// Example_chunkSizes shows that the chunk size changes memory use, never
// the output bytes.
func Example_chunkSizes() {
	source := buildImage(12, 12)

	tiny := new(bytes.Buffer)
	pngshrink.Shrink(bytes.NewReader(source), tiny, 2, 16)

	big := new(bytes.Buffer)
	pngshrink.Shrink(bytes.NewReader(source), big, 2, 4096)

	fmt.Printf("Identical output: %v\n", bytes.Equal(tiny.Bytes(), big.Bytes()))
	// Output: Identical output: true
}

// Example_rateTooLarge shows the error for a sample rate no image row can
// satisfy.
func Example_rateTooLarge() {
	source := buildImage(4, 4)

	output := new(bytes.Buffer)
	_, err := pngshrink.Shrink(bytes.NewReader(source), output, 5, 16)

	if errors.Is(err, pngshrink.ErrSampleRateRange) {
		fmt.Println("Detected: sample rate exceeds the image dimensions")
	} else if err != nil {
		fmt.Printf("Other error: %v\n", err)
	}
	// Output: Detected: sample rate exceeds the image dimensions
}
