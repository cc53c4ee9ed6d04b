package segy

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Normalize scales each trace in place so its largest absolute amplitude
// becomes 1. All-zero traces are left untouched.
func Normalize(traces ...[]float32) {
	wide := make([]float64, 0)
	for _, trace := range traces {
		if cap(wide) < len(trace) {
			wide = make([]float64, len(trace))
		}
		wide = wide[:len(trace)]
		for i, s := range trace {
			wide[i] = float64(s)
		}

		peak := floats.Norm(wide, math.Inf(1))
		if peak == 0 {
			continue
		}
		for i := range trace {
			trace[i] = float32(float64(trace[i]) / peak)
		}
	}
}

// EnsembleIndex maps every distinct value of a trace header field (a shot
// number in fldr, say) to the 0-based index of the first trace bearing it.
// Experimental convenience over the header view, it scans every header once
// and keeps no state on the dataset.
func EnsembleIndex(d *Dataset, field string) (map[int]int, error) {
	if _, ok := traceFieldIndex[field]; !ok {
		return nil, errUnknownField(field)
	}

	index := make(map[int]int)
	for i := 0; i < d.ntr; i++ {
		h, err := d.headers.Get(i)
		if err != nil {
			return nil, err
		}
		v := h[field]
		if _, seen := index[v]; !seen {
			index[v] = i
		}
	}
	return index, nil
}
