package stream

// SampleRow decimates one image row in place by the given sample rate and
// reports how many bytes of the row now hold sampled data.
//
// Rows whose index is not a multiple of sampleRate are dropped entirely and
// the return is 0. For retained rows, every sampleRate-th pixel (a group of
// channels bytes) is packed toward the front of row, and the return counts
// one group per stride step: ceil(rowWidth/(sampleRate*channels))*channels.
//
// The final stride step is bounds-checked against a full trailing group
// (i+channels < rowWidth) while the write position still advances, so the
// last counted group can keep the bytes the row already had at that offset.
// Consumers that read only whole output pixels (rowWidth/sampleRate groups)
// never observe that slot.
//
// rowWidth is in bytes and must not exceed len(row); sampleRate and channels
// must be at least 1. The caller guarantees all of this, typically because
// the header hook has already validated the geometry.
func SampleRow(row []byte, rowWidth, channels, rowIndex, sampleRate int) int {
	if rowIndex%sampleRate != 0 {
		return 0
	}

	writePos := 0
	stride := sampleRate * channels

	for i := 0; i < rowWidth; i += stride {
		if i+channels < rowWidth {
			copy(row[writePos:writePos+channels], row[i:i+channels])
		}
		writePos += channels
	}

	return writePos
}
