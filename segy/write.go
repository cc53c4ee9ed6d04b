package segy

import (
	"bufio"
	"fmt"
	"os"
)

// ExportHeaders carries optional header material for WriteSEGY. Any zero
// field falls back to the source dataset's own headers.
type ExportHeaders struct {
	Text  string
	Reel  ReelHeader
	Trace []TraceHeader
}

// WriteSEGY writes traces to a new SEG-Y file at path: EBCDIC text header,
// packed reel header, then one 240-byte header plus samples per trace.
// Samples are always written as big-endian IEEE float32 (format 5) no matter
// what format the source was; the IBM conversion is never reversed.
//
// The output file is fresh and exclusively owned. A failure mid-write leaves
// a truncated file behind, nothing is recovered or renamed.
func (d *Dataset) WriteSEGY(path string, traces [][]float32, hdrs *ExportHeaders) error {
	if hdrs == nil {
		hdrs = &ExportHeaders{}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	text := hdrs.Text
	if text == "" {
		text = d.textHeader
	}
	enc, err := encodeTextHeader(text)
	if err != nil {
		return fmt.Errorf("text header: %w", err)
	}
	if _, err := w.Write(enc); err != nil {
		return err
	}

	reel := hdrs.Reel
	if reel == nil {
		reel = d.exportReelHeader(traces)
	}
	if _, err := w.Write(reel.pack()); err != nil {
		return err
	}

	if err := d.writeTraceRecords(w, traces, hdrs.Trace); err != nil {
		return err
	}
	return w.Flush()
}

// WriteSU writes traces to a new SU file at path: the same per-trace loop as
// WriteSEGY with no text or reel header preamble.
func (d *Dataset) WriteSU(path string, traces [][]float32, traceHeaders []TraceHeader) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	if err := d.writeTraceRecords(w, traces, traceHeaders); err != nil {
		return err
	}
	return w.Flush()
}

// WriteFlat dumps the raw on-disk data bytes of every trace back to back,
// without headers or numeric conversion. A byte-for-byte passthrough of the
// data region only.
func (d *Dataset) WriteFlat(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	for i := 0; i < d.ntr; i++ {
		raw, err := d.readRawTrace(i)
		if err != nil {
			return err
		}
		if _, err := w.Write(raw); err != nil {
			return err
		}
	}
	return w.Flush()
}

// writeTraceRecords emits the header+samples record for every trace. Headers
// default per trace to the source dataset's own; traces past the source's
// count get a minimal synthesized header.
func (d *Dataset) writeTraceRecords(w *bufio.Writer, traces [][]float32, headers []TraceHeader) error {
	sampleBuf := make([]byte, 0)
	for i, samples := range traces {
		h, err := d.exportTraceHeader(i, len(samples), headers)
		if err != nil {
			return err
		}
		if _, err := w.Write(h.pack()); err != nil {
			return err
		}

		if cap(sampleBuf) < 4*len(samples) {
			sampleBuf = make([]byte, 4*len(samples))
		}
		sampleBuf = sampleBuf[:4*len(samples)]
		encodeIEEE(sampleBuf, samples)
		if _, err := w.Write(sampleBuf); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dataset) exportTraceHeader(i, ns int, headers []TraceHeader) (TraceHeader, error) {
	if i < len(headers) {
		return headers[i], nil
	}
	if i < d.ntr {
		return d.headers.Get(i)
	}
	return TraceHeader{"tracl": i + 1, "trid": 1, "ns": ns}, nil
}

// exportReelHeader is the source reel header with the format forced to IEEE,
// or a minimal fresh one when the source has none (SU input).
func (d *Dataset) exportReelHeader(traces [][]float32) ReelHeader {
	h := make(ReelHeader, len(reelFields))
	for k, v := range d.reelHeader {
		h[k] = v
	}
	h["format"] = int(FormatIEEEFloat)
	if h["hns"] <= 0 {
		ns := d.ns
		if len(traces) > 0 {
			ns = len(traces[0])
		}
		h["hns"] = ns
	}
	return h
}
