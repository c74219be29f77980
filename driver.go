package pngshrink

import (
	"github.com/jmaccarl/pngshrink/stream"
)

// driverState tracks where the read-feed loop is. States only move forward
// out of the two terminal values.
type driverState int

const (
	stateReading driverState = iota
	stateFeeding
	stateSuspended
	stateDone
	stateFailed
)

// Driver runs the read-feed loop: fill a chunk from the source, hand it to
// the pipeline, reuse the buffer for the next chunk. A short read suspends
// back to reading until the chunk fills or the source ends; the loop stops
// when the pipeline reports the stream complete or the source runs dry.
//
// A source that ends mid-stream is an error, never a silent success.
type Driver struct {
	reader *stream.ChunkedReader
	pipe   *Pipeline

	state    driverState
	suspends int
}

// NewDriver couples a chunked reader to a pipeline.
func NewDriver(reader *stream.ChunkedReader, pipe *Pipeline) *Driver {
	return &Driver{reader: reader, pipe: pipe}
}

// Run drives the loop to a terminal state. It returns nil once the pipeline
// has seen the complete source stream, and the first error otherwise: a
// failed source read, a pipeline error, or the source ending early.
func (d *Driver) Run() error {
	for {
		d.state = stateReading
		res, err := d.reader.ReadNext()
		if err != nil {
			d.state = stateFailed
			return err
		}
		if res.Suspend {
			d.state = stateSuspended
			d.suspends++
			continue
		}

		if len(res.Bytes) > 0 {
			d.state = stateFeeding
			if err := d.pipe.Feed(res.Bytes); err != nil {
				d.state = stateFailed
				return err
			}
			d.reader.Reset()
		}

		if d.pipe.Done() {
			d.state = stateDone
			return nil
		}
		if len(res.Bytes) == 0 {
			// Source exhausted with the stream unfinished. Closing the
			// pipeline surfaces the decoder's own truncation error.
			d.state = stateFailed
			if err := d.pipe.Close(); err != nil {
				return err
			}
			return ErrTruncated
		}
	}
}

// Suspends returns how often a read came back short and the loop went back
// for more.
func (d *Driver) Suspends() int {
	return d.suspends
}
