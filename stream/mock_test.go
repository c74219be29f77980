package stream

import "io"

// chunkySource is a test helper that serves a byte slice in fixed portions,
// the way a slow file or socket hands out data.
type chunkySource struct {
	data    []byte
	pos     int
	portion int
	// eofWithData makes the final Read return io.EOF together with the last
	// bytes instead of reporting it on the following call.
	eofWithData bool
}

// newChunkySource creates a source that returns at most portion bytes per
// Read call.
func newChunkySource(data []byte, portion int) *chunkySource {
	return &chunkySource{data: data, portion: portion}
}

func (s *chunkySource) Read(p []byte) (int, error) {
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

	if s.eofWithData && s.pos >= len(s.data) {
		return n, io.EOF
	}

	return n, nil
}

// errSource serves a prefix successfully, then fails every Read with err.
type errSource struct {
	prefix []byte
	pos    int
	err    error
}

func newErrSource(prefix []byte, err error) *errSource {
	return &errSource{prefix: prefix, err: err}
}

func (s *errSource) Read(p []byte) (int, error) {
	if s.pos >= len(s.prefix) {
		return 0, s.err
	}

	n := copy(p, s.prefix[s.pos:])
	s.pos += n

	return n, nil
}

// stallSource makes its first Read return (0, nil) and then delegates.
type stallSource struct {
	inner   io.Reader
	stalled bool
}

func (s *stallSource) Read(p []byte) (int, error) {
	if !s.stalled {
		s.stalled = true
		return 0, nil
	}

	return s.inner.Read(p)
}
