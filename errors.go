// SPDX-License-Identifier: EPL-2.0

package pngshrink

import "github.com/jmaccarl/pngshrink/internal/errors"

var (
	// ErrInvalidSampleRate reports a sample rate below 1.
	ErrInvalidSampleRate = errors.New("sample rate must be at least 1")
	// ErrSampleRateRange reports a sample rate larger than the smaller
	// image dimension, which would leave no pixels to keep.
	ErrSampleRateRange = errors.New("sample rate exceeds the image dimensions")
	// ErrMissingContext reports pixel data or a trailer arriving before any
	// stream header.
	ErrMissingContext = errors.New("pixel data before any header")
	// ErrDuplicateHeader reports a second header in one stream.
	ErrDuplicateHeader = errors.New("second header in one stream")
	// ErrTruncated reports a source that ended before the image was
	// complete and the codec did not flag the short stream itself.
	ErrTruncated = errors.New("source exhausted before the image completed")
)
