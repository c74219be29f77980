package stream

import "github.com/jmaccarl/pngshrink/internal/errors"

var (
	ErrInvalidCapacity = errors.New("chunk capacity must be at least 1")
)
