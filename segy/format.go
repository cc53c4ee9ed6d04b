package segy

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Format is the reel header data sample format code. It selects both the
// per-sample byte width and the decode algorithm for trace data.
type Format int

const (
	// FormatIBMFloat is 4-byte IBM (base-16) floating point, the tape-era
	// default. Decoded to IEEE float32.
	FormatIBMFloat Format = 1

	// FormatInt32 is 4-byte two's complement fixed point.
	FormatInt32 Format = 2

	// FormatInt16 is 2-byte two's complement fixed point.
	FormatInt16 Format = 3

	// FormatFixedGain is 4-byte fixed point with gain code: a 16-bit mantissa
	// paired with a signed-byte exponent in each 4-byte group.
	FormatFixedGain Format = 4

	// FormatIEEEFloat is native 4-byte IEEE floating point. SU files are
	// always this format.
	FormatIEEEFloat Format = 5

	// FormatInt8 is 1-byte two's complement fixed point.
	FormatInt8 Format = 8
)

func (f Format) String() string {
	switch f {
	case FormatIBMFloat:
		return "ibm float32"
	case FormatInt32:
		return "int32"
	case FormatInt16:
		return "int16"
	case FormatFixedGain:
		return "int32 with gain code"
	case FormatIEEEFloat:
		return "ieee float32"
	case FormatInt8:
		return "int8"
	}
	return fmt.Sprintf("format %d", int(f))
}

// SampleWidth returns the on-disk bytes per sample, or 0 for an unsupported
// format code.
func (f Format) SampleWidth() int {
	switch f {
	case FormatIBMFloat, FormatInt32, FormatFixedGain, FormatIEEEFloat:
		return 4
	case FormatInt16:
		return 2
	case FormatInt8:
		return 1
	}
	return 0
}

func (f Format) valid() bool {
	return f.SampleWidth() != 0
}

// Decode converts one trace's raw sample bytes into float32 values. The byte
// order is the file's resolved order; for the word-based formats (IBM float
// and fixed-gain) the 4-byte group is read through that order before any bit
// extraction, so a byte-swapped file never double-handles its words.
func (f Format) Decode(raw []byte, order binary.ByteOrder) ([]float32, error) {
	w := f.SampleWidth()
	if w == 0 {
		return nil, fmt.Errorf("%w: code %d", ErrUnsupportedFormat, int(f))
	}
	if len(raw)%w != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of the %d-byte sample", ErrShortRead, len(raw), w)
	}

	out := make([]float32, len(raw)/w)
	switch f {
	case FormatIEEEFloat:
		for i := range out {
			out[i] = math.Float32frombits(order.Uint32(raw[4*i:]))
		}
	case FormatIBMFloat:
		for i := range out {
			out[i] = ibmToFloat32(order.Uint32(raw[4*i:]))
		}
	case FormatInt32:
		for i := range out {
			out[i] = float32(int32(order.Uint32(raw[4*i:])))
		}
	case FormatInt16:
		for i := range out {
			out[i] = float32(int16(order.Uint16(raw[2*i:])))
		}
	case FormatInt8:
		for i := range out {
			out[i] = float32(int8(raw[i]))
		}
	case FormatFixedGain:
		// Each 4-byte group is a two-subfield record: big-endian int16
		// mantissa in the high half, signed exponent in the low byte.
		for i := range out {
			word := order.Uint32(raw[4*i:])
			mantissa := int16(word >> 16)
			exponent := int8(word)
			out[i] = float32(math.Pow(float64(mantissa), float64(exponent)))
		}
	}
	return out, nil
}

// ibmToFloat32 converts one IBM System/360 single precision word to IEEE.
// Sign is bit 31, the base-16 exponent sits in bits 24-30 biased by 64, and
// the low 24 bits are the mantissa scaled by 2^-24:
//
//	value = (1 - 2*sign) * mantissa/2^24 * 16^(exponent-64)
func ibmToFloat32(word uint32) float32 {
	mantissa := float64(word&0x00ffffff) / float64(1<<24)
	exponent := int(word>>24&0x7f) - 64
	value := mantissa * math.Pow(16, float64(exponent))
	if word&0x80000000 != 0 {
		value = -value
	}
	return float32(value)
}

// encodeIEEE packs samples as big-endian IEEE float32 into dst, which must
// hold 4*len(samples) bytes. Export always writes this representation
// regardless of the source format.
func encodeIEEE(dst []byte, samples []float32) {
	for i, s := range samples {
		binary.BigEndian.PutUint32(dst[4*i:], math.Float32bits(s))
	}
}
