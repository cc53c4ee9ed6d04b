package segy

import (
	"encoding/binary"
	"fmt"
)

// ReelHeader maps the 27 reel header field names to their values. Keys are
// the SU names from the fixed schema; decoding and packing go through the
// ordered field table, the map itself carries no layout knowledge.
type ReelHeader map[string]int

// Format returns the data sample format code.
func (h ReelHeader) Format() Format { return Format(h["format"]) }

// Hns returns the reel-level default samples per trace, 0 when unset.
func (h ReelHeader) Hns() int { return h["hns"] }

// decodeReelHeader unpacks the 60 defined bytes of a reel header. All fields
// are big-endian: three 32-bit then twenty-four 16-bit values.
func decodeReelHeader(raw []byte) ReelHeader {
	h := make(ReelHeader, len(reelFields))
	off := 0
	for i, name := range reelFields {
		if i < reelLongFields {
			h[name] = int(int32(binary.BigEndian.Uint32(raw[off:])))
			off += 4
		} else {
			h[name] = int(int16(binary.BigEndian.Uint16(raw[off:])))
			off += 2
		}
	}
	return h
}

// pack serializes the header to the full 400 bytes, zero padding the 340
// undefined ones.
func (h ReelHeader) pack() []byte {
	buf := make([]byte, ReelHeaderLength)
	off := 0
	for i, name := range reelFields {
		if i < reelLongFields {
			binary.BigEndian.PutUint32(buf[off:], uint32(int32(h[name])))
			off += 4
		} else {
			binary.BigEndian.PutUint16(buf[off:], uint16(int16(h[name])))
			off += 2
		}
	}
	return buf
}

// TraceHeader maps the 71 trace header field names to their values.
type TraceHeader map[string]int

// Ns returns the per-trace sample count, trace header field 39.
func (h TraceHeader) Ns() int { return h["ns"] }

// decodeTraceHeader unpacks the 180 defined bytes of a trace header.
func decodeTraceHeader(raw []byte) TraceHeader {
	h := make(TraceHeader, len(traceFields))
	off := 0
	for i, name := range traceFields {
		if traceFieldWidth(i) == 4 {
			h[name] = int(int32(binary.BigEndian.Uint32(raw[off:])))
			off += 4
		} else {
			h[name] = int(int16(binary.BigEndian.Uint16(raw[off:])))
			off += 2
		}
	}
	return h
}

// pack serializes the header to the full 240 bytes, zero padding the 60
// undefined ones.
func (h TraceHeader) pack() []byte {
	buf := make([]byte, TraceHeaderLength)
	off := 0
	for i, name := range traceFields {
		if traceFieldWidth(i) == 4 {
			binary.BigEndian.PutUint32(buf[off:], uint32(int32(h[name])))
			off += 4
		} else {
			binary.BigEndian.PutUint16(buf[off:], uint16(int16(h[name])))
			off += 2
		}
	}
	return buf
}

// TraceHeaderView is a lazy, length-known sequence over the dataset's trace
// headers. Nothing is materialized up front; every Get seeks to the header
// block and decodes the 180 defined bytes on demand.
type TraceHeaderView struct {
	d *Dataset
}

// Count returns the number of trace headers in the file.
func (v *TraceHeaderView) Count() int { return v.d.ntr }

// Get decodes the header of the 0-based trace i. Negative indices count from
// the end.
func (v *TraceHeaderView) Get(i int) (TraceHeader, error) {
	i, err := v.d.normalizeIndex(i)
	if err != nil {
		return nil, err
	}
	if v.d.r == nil {
		return nil, ErrNotOpen
	}

	raw := make([]byte, traceHeaderPacked)
	off := headerOffset(i+1, v.d.ns, v.d.sampleWidth, v.d.su)
	if err := readFull(v.d.r, raw, off); err != nil {
		return nil, fmt.Errorf("trace %d header: %w", i, err)
	}
	return decodeTraceHeader(raw), nil
}

// Slice expands (start, stop, step) with the usual slice semantics and
// decodes each selected header in order.
func (v *TraceHeaderView) Slice(start, stop, step int) ([]TraceHeader, error) {
	idx := sliceIndices(start, stop, step, v.d.ntr)

	headers := make([]TraceHeader, 0, len(idx))
	for _, i := range idx {
		h, err := v.Get(i)
		if err != nil {
			return nil, err
		}
		headers = append(headers, h)
	}
	return headers, nil
}
