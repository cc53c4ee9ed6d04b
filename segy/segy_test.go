package segy

import (
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildSEGY writes a synthetic SEG-Y file: text header, reel header with the
// given format, and one trace record per row of traces. fldr, when non-nil,
// supplies the field record number per trace.
func buildSEGY(t *testing.T, path string, format Format, traces [][]float32, fldr []int) {
	t.Helper()
	require.NotEmpty(t, traces)
	ns := len(traces[0])

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	text, err := encodeTextHeader("C 1 CLIENT GO-SEGY TEST REEL\nC 2 SYNTHETIC DATA")
	require.NoError(t, err)
	_, err = f.Write(text)
	require.NoError(t, err)

	reel := ReelHeader{"jobid": 1, "lino": 1, "hns": ns, "format": int(format), "hdt": 4000}
	_, err = f.Write(reel.pack())
	require.NoError(t, err)

	for i, samples := range traces {
		hdr := TraceHeader{"tracl": i + 1, "trid": 1, "ns": ns, "dt": 4000}
		if fldr != nil {
			hdr["fldr"] = fldr[i]
		}
		_, err = f.Write(hdr.pack())
		require.NoError(t, err)
		_, err = f.Write(packSamples(t, format, samples))
		require.NoError(t, err)
	}
}

// buildSU writes a synthetic headerless SU file with the given byte order
// for the float32 samples.
func buildSU(t *testing.T, path string, traces [][]float32, order binary.ByteOrder) {
	t.Helper()
	require.NotEmpty(t, traces)
	ns := len(traces[0])

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	for i, samples := range traces {
		hdr := TraceHeader{"tracl": i + 1, "trid": 1, "ns": ns, "dt": 2000}
		_, err = f.Write(hdr.pack())
		require.NoError(t, err)

		buf := make([]byte, 4*len(samples))
		for j, s := range samples {
			order.PutUint32(buf[4*j:], math.Float32bits(s))
		}
		_, err = f.Write(buf)
		require.NoError(t, err)
	}
}

// packSamples encodes samples in the on-disk big-endian representation of
// the given format. Values must be representable in the target type.
func packSamples(t *testing.T, format Format, samples []float32) []byte {
	t.Helper()
	switch format {
	case FormatIEEEFloat:
		buf := make([]byte, 4*len(samples))
		encodeIEEE(buf, samples)
		return buf
	case FormatInt32:
		buf := make([]byte, 4*len(samples))
		for i, s := range samples {
			binary.BigEndian.PutUint32(buf[4*i:], uint32(int32(s)))
		}
		return buf
	case FormatInt16:
		buf := make([]byte, 2*len(samples))
		for i, s := range samples {
			binary.BigEndian.PutUint16(buf[2*i:], uint16(int16(s)))
		}
		return buf
	case FormatInt8:
		buf := make([]byte, len(samples))
		for i, s := range samples {
			buf[i] = byte(int8(s))
		}
		return buf
	case FormatIBMFloat:
		buf := make([]byte, 4*len(samples))
		for i, s := range samples {
			binary.BigEndian.PutUint32(buf[4*i:], ibmFromFloat(t, s))
		}
		return buf
	}
	t.Fatalf("packSamples: no encoder for %v", format)
	return nil
}

// ibmFromFloat builds an IBM word for the limited value set the tests use.
func ibmFromFloat(t *testing.T, v float32) uint32 {
	t.Helper()
	known := map[float32]uint32{
		0:    0x00000000,
		0.5:  0x40800000,
		1:    0x41100000,
		-1:   0xC1100000,
		2:    0x41200000,
		16:   0x42100000,
		100:  0x42640000,
		-100: 0xC2640000,
	}
	w, ok := known[v]
	require.True(t, ok, "no IBM encoding for %v in test table", v)
	return w
}

func rampTraces(ntr, ns int, base float32) [][]float32 {
	traces := make([][]float32, ntr)
	for i := range traces {
		traces[i] = make([]float32, ns)
		for j := range traces[i] {
			traces[i][j] = base + float32(i*ns+j)
		}
	}
	return traces
}

func TestOpenDerivesGeometry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geom.segy")
	traces := rampTraces(6, 25, 1)
	buildSEGY(t, path, FormatIEEEFloat, traces, nil)

	d, err := Open(path)
	require.NoError(t, err)
	defer d.Close()

	assert.Equal(t, 25, d.Ns())
	assert.Equal(t, 6, d.Ntr())
	assert.Equal(t, 4, d.SampleWidth())
	assert.Equal(t, FormatIEEEFloat, d.Format())
	assert.False(t, d.IsSU())
	assert.Contains(t, d.TextHeader(), "GO-SEGY TEST REEL")
	assert.Equal(t, 25, d.ReelHeader().Hns())

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, fi.Size(), d.FileSize())

	// ntr must equal the literal number of fixed-stride records that fit.
	stride := int64(TraceHeaderLength + 25*4)
	assert.Equal(t, int64(d.Ntr()), (d.FileSize()-PreambleLength)/stride)
}

func TestTraceReads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reads.segy")
	traces := rampTraces(4, 10, 0)
	buildSEGY(t, path, FormatIEEEFloat, traces, nil)

	d, err := Open(path)
	require.NoError(t, err)
	defer d.Close()

	got, err := d.Trace(2)
	require.NoError(t, err)
	assert.Equal(t, traces[2], got)

	// Negative indices count from the end.
	last, err := d.Trace(-1)
	require.NoError(t, err)
	assert.Equal(t, traces[3], last)

	_, err = d.Trace(4)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTraceOutOfRange))
}

func TestTracesSlicing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slices.segy")
	traces := rampTraces(10, 5, 0)
	buildSEGY(t, path, FormatIEEEFloat, traces, nil)

	d, err := Open(path)
	require.NoError(t, err)
	defer d.Close()

	// Half-open [2:5] returns exactly traces 2, 3, 4 in order.
	got, err := d.Traces(2, 5, 1)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, traces[2], got[0])
	assert.Equal(t, traces[3], got[1])
	assert.Equal(t, traces[4], got[2])

	// One selected trace is still a 1-row matrix.
	one, err := d.Traces(7, 8, 1)
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, traces[7], one[0])

	// Negative bounds and steps follow the usual slicing rules.
	tail, err := d.Traces(-3, 10, 1)
	require.NoError(t, err)
	require.Len(t, tail, 3)
	assert.Equal(t, traces[7], tail[0])

	every, err := d.Traces(0, 10, 3)
	require.NoError(t, err)
	require.Len(t, every, 4)
	assert.Equal(t, traces[9], every[3])

	// Out-of-range slice bounds clamp instead of failing.
	clamped, err := d.Traces(8, 99, 1)
	require.NoError(t, err)
	assert.Len(t, clamped, 2)
}

func TestOpenSU(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.su")
	traces := rampTraces(5, 12, 1)
	buildSU(t, path, traces, binary.BigEndian)

	d, err := Open(path, WithSU())
	require.NoError(t, err)
	defer d.Close()

	assert.True(t, d.IsSU())
	assert.Equal(t, FormatIEEEFloat, d.Format())
	assert.Equal(t, 12, d.Ns())
	assert.Equal(t, 5, d.Ntr())
	assert.Empty(t, d.TextHeader())
	assert.Nil(t, d.ReelHeader())

	got, err := d.Trace(0)
	require.NoError(t, err)
	assert.Equal(t, traces[0], got)
}

func TestOpenBootstrapsNsFromTraceHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nohns.segy")
	traces := rampTraces(3, 8, 1)
	buildSEGY(t, path, FormatIEEEFloat, traces, nil)

	// Zero out hns in the reel header so ns must come from trace header 1.
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	require.NoError(t, err)
	hnsOffset := int64(TextHeaderLength + 3*4 + 4*2)
	_, err = f.WriteAt([]byte{0, 0}, hnsOffset)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	d, err := Open(path)
	require.NoError(t, err)
	defer d.Close()
	assert.Equal(t, 8, d.Ns())
	assert.Equal(t, 3, d.Ntr())
}

func TestOpenRejectsUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "badformat.segy")
	traces := rampTraces(2, 4, 1)
	buildSEGY(t, path, FormatIEEEFloat, traces, nil)

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	require.NoError(t, err)
	formatOffset := int64(TextHeaderLength + 3*4 + 6*2)
	_, err = f.WriteAt([]byte{0, 7}, formatOffset)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = Open(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestFindTraces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "find.segy")
	traces := rampTraces(6, 5, 0)
	buildSEGY(t, path, FormatIEEEFloat, traces, []int{1, 1, 2, 3, 3, 3})

	d, err := Open(path)
	require.NoError(t, err)
	defer d.Close()

	got, err := d.FindTraces("fldr", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, got)

	got, err = d.FindTraces("fldr", 3, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 5, 6}, got)

	got, err = d.FindTraces("fldr", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)

	_, err = d.FindTraces("nosuchfield", 0, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownField))
}

func TestTraceHeaderView(t *testing.T) {
	path := filepath.Join(t.TempDir(), "headers.segy")
	traces := rampTraces(4, 6, 0)
	buildSEGY(t, path, FormatIEEEFloat, traces, []int{10, 20, 30, 40})

	d, err := Open(path)
	require.NoError(t, err)
	defer d.Close()

	view := d.Headers()
	assert.Equal(t, 4, view.Count())

	h, err := view.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 2, h["tracl"])
	assert.Equal(t, 20, h["fldr"])
	assert.Equal(t, 6, h.Ns())
	assert.Equal(t, 4000, h["dt"])

	hs, err := view.Slice(1, 3, 1)
	require.NoError(t, err)
	require.Len(t, hs, 2)
	assert.Equal(t, 20, hs[0]["fldr"])
	assert.Equal(t, 30, hs[1]["fldr"])

	_, err = view.Get(99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTraceOutOfRange))
}

func TestEnsembleIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shots.segy")
	traces := rampTraces(6, 4, 0)
	buildSEGY(t, path, FormatIEEEFloat, traces, []int{1, 1, 2, 3, 3, 3})

	d, err := Open(path)
	require.NoError(t, err)
	defer d.Close()

	idx, err := EnsembleIndex(d, "fldr")
	require.NoError(t, err)
	assert.Equal(t, map[int]int{1: 0, 2: 2, 3: 3}, idx)

	_, err = EnsembleIndex(d, "bogus")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownField))
}

func TestNormalize(t *testing.T) {
	a := []float32{2, -4, 1}
	b := []float32{0, 0, 0}
	Normalize(a, b)

	assert.InDelta(t, 0.5, a[0], 1e-6)
	assert.InDelta(t, -1, a[1], 1e-6)
	assert.InDelta(t, 0.25, a[2], 1e-6)
	assert.Equal(t, []float32{0, 0, 0}, b)
}

func TestOpenWithoutMmap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nommap.segy")
	traces := rampTraces(3, 7, 1)
	buildSEGY(t, path, FormatIEEEFloat, traces, nil)

	d, err := Open(path, WithoutMmap())
	require.NoError(t, err)
	defer d.Close()

	got, err := d.Trace(1)
	require.NoError(t, err)
	assert.Equal(t, traces[1], got)

	// Close twice must stay safe; reads after Close fail cleanly.
	require.NoError(t, d.Close())
	require.NoError(t, d.Close())

	_, err = d.Trace(0)
	assert.True(t, errors.Is(err, ErrNotOpen))
	_, err = d.Headers().Get(0)
	assert.True(t, errors.Is(err, ErrNotOpen))
}

func TestOpenFixedPointFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixed.segy")
	traces := [][]float32{{-7, 0, 12345}, {100, -100, 7}}
	buildSEGY(t, path, FormatInt32, traces, nil)

	d, err := Open(path)
	require.NoError(t, err)
	defer d.Close()

	assert.Equal(t, FormatInt32, d.Format())
	got, err := d.Trace(0)
	require.NoError(t, err)
	assert.Equal(t, traces[0], got)
}
