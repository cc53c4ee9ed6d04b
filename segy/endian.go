package segy

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

// Endian selects how the file's byte order is determined at open time.
type Endian int

const (
	// EndianAuto samples decoded trace data to pick the byte order.
	EndianAuto Endian = iota

	// EndianNative declares the file to use the machine's byte order.
	EndianNative

	// EndianForeign declares the file to use the opposite of the machine's
	// byte order.
	EndianForeign

	// EndianLittle declares the file little-endian.
	EndianLittle

	// EndianBig declares the file big-endian, the order the standard mandates.
	EndianBig
)

func (e Endian) String() string {
	switch e {
	case EndianAuto:
		return "auto"
	case EndianNative:
		return "native"
	case EndianForeign:
		return "foreign"
	case EndianLittle:
		return "little"
	case EndianBig:
		return "big"
	}
	return "unknown"
}

// machineByteOrder probes how this machine packs a 16-bit 1.
func machineByteOrder() binary.ByteOrder {
	var probe [2]byte
	*(*uint16)(unsafe.Pointer(&probe[0])) = 1
	if probe[0] == 1 {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func oppositeOrder(o binary.ByteOrder) binary.ByteOrder {
	if o == binary.LittleEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// resolveByteOrder turns the Endian option into the concrete byte order used
// for trace data decoding. EndianAuto falls through to the sampling
// heuristic.
func (d *Dataset) resolveByteOrder(e Endian) binary.ByteOrder {
	switch e {
	case EndianBig:
		return binary.BigEndian
	case EndianLittle:
		return binary.LittleEndian
	case EndianNative:
		return d.machine
	case EndianForeign:
		return oppositeOrder(d.machine)
	}
	return d.detectByteOrder()
}

// detectByteOrder scans traces from the front until one decodes to a usable
// mean amplitude, then keeps whichever byte order yields the smaller base-2
// exponent of that mean. Seismic amplitudes misread under the wrong order
// blow up to implausible exponents, which is what the comparison keys on.
// All-zero or pathological files defeat the heuristic; pass an explicit
// Endian to bypass it. When no trace qualifies the standard's big-endian
// order is kept.
func (d *Dataset) detectByteOrder() binary.ByteOrder {
	for t := 0; t < d.ntr; t++ {
		raw, err := d.readRawTrace(t)
		if err != nil {
			break
		}

		big, err := d.format.Decode(raw, binary.BigEndian)
		if err != nil {
			break
		}
		little, err := d.format.Decode(raw, binary.LittleEndian)
		if err != nil {
			break
		}

		meanBig := traceMean(big)
		meanLittle := traceMean(little)
		if !usableMean(meanBig) && !usableMean(meanLittle) {
			continue
		}

		if exponentMagnitude(meanLittle) < exponentMagnitude(meanBig) {
			d.logf("endian auto-detect: trace %d means big=%g little=%g, picking little-endian", t+1, meanBig, meanLittle)
			return binary.LittleEndian
		}
		d.logf("endian auto-detect: trace %d means big=%g little=%g, picking big-endian", t+1, meanBig, meanLittle)
		return binary.BigEndian
	}

	logrus.Debug("endian auto-detect: no usable trace, keeping big-endian")
	return binary.BigEndian
}

func traceMean(samples []float32) float64 {
	wide := make([]float64, len(samples))
	for i, s := range samples {
		wide[i] = float64(s)
	}
	return stat.Mean(wide, nil)
}

func usableMean(m float64) bool {
	return m != 0 && !math.IsNaN(m)
}

// exponentMagnitude is |ilogb(m)|, with unusable means pushed past any
// plausible exponent so the comparison never picks them.
func exponentMagnitude(m float64) int {
	if !usableMean(m) || math.IsInf(m, 0) {
		return math.MaxInt32
	}
	e := math.Ilogb(m)
	if e < 0 {
		return -e
	}
	return e
}
