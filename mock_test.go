package pngshrink

import "io"

// dripSource is a test helper that serves a byte slice a few bytes at a
// time, the way a slow socket hands out data.
type dripSource struct {
	data    []byte
	pos     int
	portion int
}

// newDripSource creates a source that returns at most portion bytes per
// Read call.
func newDripSource(data []byte, portion int) *dripSource {
	return &dripSource{data: data, portion: portion}
}

func (s *dripSource) Read(p []byte) (int, error) {
	if s.pos >= len(s.data) {
		return 0, io.EOF
	}

	n := len(s.data) - s.pos
	if n > s.portion {
		n = s.portion
	}
	if n > len(p) {
		n = len(p)
	}

	copy(p, s.data[s.pos:s.pos+n])
	s.pos += n

	return n, nil
}

// failingSource serves a prefix successfully, then fails every Read.
type failingSource struct {
	prefix []byte
	pos    int
	err    error
}

func newFailingSource(prefix []byte, err error) *failingSource {
	return &failingSource{prefix: prefix, err: err}
}

func (s *failingSource) Read(p []byte) (int, error) {
	if s.pos >= len(s.prefix) {
		return 0, s.err
	}

	n := copy(p, s.prefix[s.pos:])
	s.pos += n

	return n, nil
}
