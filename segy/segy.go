// Package segy reads and writes SEG-Y seismic trace data files and their
// headerless Seismic Unix (SU) variant.
//
// The documents used and referenced in this package:
//   - SEG-Y rev 0: https://seg.org/Portals/0/SEG/News%20and%20Resources/Technical%20Standards/seg_y_rev0.pdf
//   - Seismic Unix segy.h header conventions: https://github.com/JohnWStockwellJr/SeisUnix
//
// A file is opened once, cheap metadata (trace count, samples per trace,
// sample format, byte order) is derived up front, and every subsequent trace
// or header access is an offset-addressed read against a memory map, so
// multi-gigabyte files can be picked at randomly without loading them.
package segy

import (
	"encoding/binary"
	"fmt"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// Options is the construction surface for Open. Use the With... functional
// options rather than filling it directly.
type Options struct {
	// Verbose promotes the library's structural diagnostics to info level.
	Verbose bool

	// MajorHeadersOnly is retained for compatibility with older callers and
	// has no behavioral effect.
	MajorHeadersOnly bool

	// SU opens the file as headerless Seismic Unix data: no 3600-byte
	// preamble, IEEE float32 samples, sample count from the first trace
	// header.
	SU bool

	// Endian overrides byte order detection for trace data.
	Endian Endian

	// DisableMmap skips memory mapping and uses plain file reads.
	DisableMmap bool
}

// Option configures Open.
type Option func(*Options)

// WithVerbose promotes structural diagnostics to info level.
func WithVerbose() Option { return func(o *Options) { o.Verbose = true } }

// WithSU opens the file as headerless Seismic Unix data.
func WithSU() Option { return func(o *Options) { o.SU = true } }

// WithEndian overrides trace data byte order detection.
func WithEndian(e Endian) Option { return func(o *Options) { o.Endian = e } }

// WithoutMmap disables memory mapping.
func WithoutMmap() Option { return func(o *Options) { o.DisableMmap = true } }

// WithMajorHeadersOnly is a compatibility no-op retained for callers of the
// original interface.
func WithMajorHeadersOnly() Option { return func(o *Options) { o.MajorHeadersOnly = true } }

// Dataset is an open SEG-Y or SU file plus the metadata derived at open
// time. All trace lengths are assumed uniform across the file; that is a
// hard constraint of the format family, not something that is validated.
type Dataset struct {
	filename string
	size     int64
	r        blockReader
	su       bool
	verbose  bool

	textHeader string
	reelHeader ReelHeader
	format     Format

	ns          int
	ntr         int
	sampleWidth int

	machine binary.ByteOrder
	order   binary.ByteOrder

	headers *TraceHeaderView
}

// Open opens filename, ingests the text and reel headers (unless SU),
// derives the trace geometry from the file size and resolves the byte order.
// Any structural failure here is fatal: a Dataset is never returned half
// constructed.
func Open(filename string, opts ...Option) (*Dataset, error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}

	r, err := openBlockReader(filename, o.DisableMmap)
	if err != nil {
		return nil, err
	}

	d := &Dataset{
		filename: filename,
		size:     r.Size(),
		r:        r,
		su:       o.SU,
		verbose:  o.Verbose,
		machine:  machineByteOrder(),
	}

	if err := d.ingestHeaders(); err != nil {
		r.Close()
		return nil, err
	}

	d.headers = &TraceHeaderView{d: d}
	d.order = d.resolveByteOrder(o.Endian)

	d.logf("opened %s: ns=%s ntr=%s format=%s",
		filename,
		color.CyanString("%d", d.ns),
		color.CyanString("%d", d.ntr),
		d.format)

	return d, nil
}

// ingestHeaders reads the preamble (for full SEG-Y), establishes ns either
// from the reel header or from the first trace header, and derives the
// sample width and trace count from the file size.
func (d *Dataset) ingestHeaders() error {
	if d.su {
		// SU carries no preamble and is always IEEE float32.
		d.format = FormatIEEEFloat
	} else {
		text := make([]byte, TextHeaderLength)
		if err := readFull(d.r, text, 0); err != nil {
			return fmt.Errorf("text header: %w", err)
		}
		decoded, err := decodeTextHeader(text)
		if err != nil {
			return fmt.Errorf("text header: %w", err)
		}
		d.textHeader = decoded

		reel := make([]byte, reelHeaderPacked)
		if err := readFull(d.r, reel, TextHeaderLength); err != nil {
			return fmt.Errorf("reel header: %w", err)
		}
		d.reelHeader = decodeReelHeader(reel)
		d.format = d.reelHeader.Format()
		if !d.format.valid() {
			return fmt.Errorf("%w: reel header format code %d", ErrUnsupportedFormat, int(d.format))
		}
		d.ns = d.reelHeader.Hns()
	}
	d.sampleWidth = d.format.SampleWidth()

	if d.ns <= 0 {
		// No reel-level sample count: bootstrap it from the first trace
		// header, which is always present.
		raw := make([]byte, traceHeaderPacked)
		if err := readFull(d.r, raw, headerOffset(1, 0, d.sampleWidth, d.su)); err != nil {
			return fmt.Errorf("bootstrap trace header: %w", err)
		}
		d.ns = decodeTraceHeader(raw).Ns()
		if d.ns <= 0 {
			return fmt.Errorf("%w: no usable sample count in reel or trace header", ErrShortRead)
		}
		logrus.Debugf("sample count %d bootstrapped from first trace header", d.ns)
	}

	preamble := int64(0)
	if !d.su {
		preamble = PreambleLength
	}
	stride := int64(TraceHeaderLength + d.ns*d.sampleWidth)
	d.ntr = int((d.size - preamble) / stride)
	return nil
}

// Close releases the memory map and the file handle. It is safe to call
// more than once.
func (d *Dataset) Close() error {
	if d.r == nil {
		return nil
	}
	err := d.r.Close()
	d.r = nil
	return err
}

// Filename returns the path the dataset was opened from.
func (d *Dataset) Filename() string { return d.filename }

// FileSize returns the file size in bytes.
func (d *Dataset) FileSize() int64 { return d.size }

// Ns returns the samples per trace, constant across the file.
func (d *Dataset) Ns() int { return d.ns }

// Ntr returns the trace count derived from the file size.
func (d *Dataset) Ntr() int { return d.ntr }

// SampleWidth returns the on-disk bytes per sample.
func (d *Dataset) SampleWidth() int { return d.sampleWidth }

// IsSU reports whether the file was opened as headerless Seismic Unix data.
func (d *Dataset) IsSU() bool { return d.su }

// Format returns the data sample format code (FormatIEEEFloat for SU).
func (d *Dataset) Format() Format { return d.format }

// TextHeader returns the decoded 3200-byte text header, empty for SU.
func (d *Dataset) TextHeader() string { return d.textHeader }

// ReelHeader returns the reel header field map, nil for SU.
func (d *Dataset) ReelHeader() ReelHeader { return d.reelHeader }

// ByteOrder returns the resolved trace data byte order.
func (d *Dataset) ByteOrder() binary.ByteOrder { return d.order }

// Headers returns the lazy trace header view.
func (d *Dataset) Headers() *TraceHeaderView { return d.headers }

// Trace reads and decodes the samples of the 0-based trace i. Negative
// indices count from the end; an out-of-range index is an error, never a
// clamp.
func (d *Dataset) Trace(i int) ([]float32, error) {
	i, err := d.normalizeIndex(i)
	if err != nil {
		return nil, err
	}
	raw, err := d.readRawTrace(i)
	if err != nil {
		return nil, err
	}
	return d.format.Decode(raw, d.order)
}

// Traces expands (start, stop, step) with the usual slice semantics,
// including negative bounds and steps, and decodes each selected trace into
// one row of the result. A one-trace slice still yields a 1-row matrix; use
// Trace for the vector form.
func (d *Dataset) Traces(start, stop, step int) ([][]float32, error) {
	idx := sliceIndices(start, stop, step, d.ntr)

	out := make([][]float32, 0, len(idx))
	for _, i := range idx {
		raw, err := d.readRawTrace(i)
		if err != nil {
			return nil, err
		}
		samples, err := d.format.Decode(raw, d.order)
		if err != nil {
			return nil, err
		}
		out = append(out, samples)
	}
	return out, nil
}

// FindTraces scans every trace header in order and collects the 1-based
// numbers of traces whose field value lies in [min, max], ascending. This is
// a full linear scan; no index is maintained.
func (d *Dataset) FindTraces(field string, min, max int) ([]int, error) {
	if _, ok := traceFieldIndex[field]; !ok {
		return nil, errUnknownField(field)
	}

	var found []int
	for i := 0; i < d.ntr; i++ {
		h, err := d.headers.Get(i)
		if err != nil {
			return nil, err
		}
		if v := h[field]; v >= min && v <= max {
			found = append(found, i+1)
		}
	}
	return found, nil
}

// readRawTrace returns the on-disk sample bytes of the 0-based trace i,
// uncorrected and undecoded.
func (d *Dataset) readRawTrace(i int) ([]byte, error) {
	if d.r == nil {
		return nil, ErrNotOpen
	}
	raw := make([]byte, d.ns*d.sampleWidth)
	off := dataOffset(i+1, d.ns, d.sampleWidth, d.su)
	if err := readFull(d.r, raw, off); err != nil {
		return nil, fmt.Errorf("trace %d data: %w", i, err)
	}
	return raw, nil
}

func (d *Dataset) normalizeIndex(i int) (int, error) {
	if i < 0 {
		i += d.ntr
	}
	if i < 0 || i >= d.ntr {
		return 0, fmt.Errorf("%w: %d of %d", ErrTraceOutOfRange, i, d.ntr)
	}
	return i, nil
}

func (d *Dataset) logf(format string, args ...interface{}) {
	if d.verbose {
		logrus.Infof(format, args...)
		return
	}
	logrus.Debugf(format, args...)
}

// sliceIndices expands (start, stop, step) over a sequence of length n into
// a concrete list of in-range indices: negative bounds count from the end,
// out-of-range bounds clamp, a zero step means 1, and a negative step walks
// backwards from the high bound.
func sliceIndices(start, stop, step, n int) []int {
	if step == 0 {
		step = 1
	}

	clamp := func(i, lo, hi int) int {
		if i < lo {
			return lo
		}
		if i > hi {
			return hi
		}
		return i
	}

	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}

	var idx []int
	if step > 0 {
		start = clamp(start, 0, n)
		stop = clamp(stop, 0, n)
		for i := start; i < stop; i += step {
			idx = append(idx, i)
		}
	} else {
		start = clamp(start, -1, n-1)
		stop = clamp(stop, -1, n-1)
		for i := start; i > stop; i += step {
			idx = append(idx, i)
		}
	}
	return idx
}
