package png

import "github.com/jmaccarl/pngshrink/internal/errors"

// defilter reconstructs one row in place. cdat is the filtered row, pdat the
// reconstructed previous row (all zeros for the first row), both without
// their leading filter byte. bpp is the byte stride between corresponding
// bytes of horizontally adjacent pixels.
func defilter(filter byte, cdat, pdat []byte, bpp int) error {
	switch filter {
	case ftNone:
		// No-op.
	case ftSub:
		for i := bpp; i < len(cdat); i++ {
			cdat[i] += cdat[i-bpp]
		}
	case ftUp:
		for i, p := range pdat {
			cdat[i] += p
		}
	case ftAverage:
		// The first pixel has no left neighbor, so only the row above
		// contributes.
		for i := 0; i < bpp; i++ {
			cdat[i] += pdat[i] / 2
		}
		for i := bpp; i < len(cdat); i++ {
			cdat[i] += uint8((int(cdat[i-bpp]) + int(pdat[i])) / 2)
		}
	case ftPaeth:
		for i := 0; i < bpp; i++ {
			cdat[i] += paeth(0, pdat[i], 0)
		}
		for i := bpp; i < len(cdat); i++ {
			cdat[i] += paeth(cdat[i-bpp], pdat[i], pdat[i-bpp])
		}
	default:
		return errors.Wrapf(ErrFormat, "bad filter type %d", filter)
	}

	return nil
}

// paeth implements the Paeth predictor: the neighbor (left, above, upper
// left) closest to a+b-c, with ties broken in that order.
func paeth(a, b, c uint8) uint8 {
	pc := int(c)
	pa := int(b) - pc
	pb := int(a) - pc
	pc = abs(pa + pb)
	pa = abs(pa)
	pb = abs(pb)
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
