package gds

import (
	"math"

	errs "github.com/matzehuels/gdsr/pkg/errors"
)

// EncodeReal converts v to the stream's 8-byte excess-64 base-16 real.
//
// Byte 0 holds the sign bit and a 7-bit exponent biased by 64, the remaining
// seven bytes hold a 56-bit mantissa m with value = m / 2^56 * 16^(exp-64).
// Zero encodes as eight zero bytes. NaN, infinities and values whose
// exponent does not fit the 7-bit field are rejected.
func EncodeReal(v float64) ([8]byte, error) {
	var out [8]byte
	if v == 0 {
		return out, nil
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return out, errs.New(errs.ErrCodeInvalidInput, "cannot encode %v as a stream real", v)
	}

	var sign byte
	if v < 0 {
		sign = 0x80
		v = -v
	}

	// v = frac * 2^e with frac in [0.5, 1). The base-16 exponent is the
	// smallest exp with v < 16^exp.
	_, e := math.Frexp(v)
	exp := ceilDiv4(e)

	mant := math.Round(math.Ldexp(v, 56-4*exp))
	if mant >= 1<<56 {
		// Rounding carried into the next hex digit.
		exp++
		mant = math.Round(math.Ldexp(v, 56-4*exp))
	}

	biased := exp + 64
	if biased < 0 || biased > 127 {
		return out, errs.New(errs.ErrCodeInvalidInput, "value %g out of stream real range", v)
	}

	m := uint64(mant)
	out[0] = sign | byte(biased)
	for i := 7; i >= 1; i-- {
		out[i] = byte(m)
		m >>= 8
	}
	return out, nil
}

// DecodeReal converts an 8-byte stream real to a float64.
func DecodeReal(b [8]byte) float64 {
	var m uint64
	for _, c := range b[1:] {
		m = m<<8 | uint64(c)
	}
	if m == 0 {
		return 0
	}
	exp := int(b[0]&0x7F) - 64
	v := math.Ldexp(float64(m), 4*exp-56)
	if b[0]&0x80 != 0 {
		v = -v
	}
	return v
}

func ceilDiv4(e int) int {
	if e >= 0 {
		return (e + 3) / 4
	}
	return -((-e) / 4)
}
