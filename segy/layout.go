package segy

// Record sizes fixed by the SEG-Y rev 0 standard. Every offset in a SEG-Y
// file is a multiple-free sum of these three numbers and the trace length.
const (
	// TextHeaderLength is the EBCDIC "card image" header at the top of the file.
	TextHeaderLength = 3200

	// ReelHeaderLength is the binary reel header following the text header.
	// Only the first 60 bytes carry defined fields, the rest is padding.
	ReelHeaderLength = 400

	// TraceHeaderLength precedes every trace's samples. Only the first 180
	// bytes carry defined fields.
	TraceHeaderLength = 240

	// PreambleLength is the fixed file-level header region absent in SU files.
	PreambleLength = TextHeaderLength + ReelHeaderLength

	reelHeaderPacked  = 60
	traceHeaderPacked = 180
)

// reelFields lists the 27 reel header fields in on-disk order using the
// Seismic Unix naming convention. The first reelLongFields are 32-bit, the
// remaining ones 16-bit, all big-endian.
var reelFields = []string{
	"jobid", "lino", "reno",
	"ntrpr", "nart", "hdt", "dto", "hns", "nso", "format", "fold",
	"tsort", "vscode", "hsfs", "hsfe", "hslen", "hstyp", "schn",
	"hstas", "hstae", "htatyp", "hcorr", "bgrcv", "rcvm", "mfeet",
	"polyt", "vpol",
}

const reelLongFields = 3

// traceFields lists the 71 trace header fields in on-disk order. The field
// widths run in groups: 7 longs, 4 shorts, 8 longs, 2 shorts, 4 longs and
// 46 shorts, which together occupy the 180 defined bytes.
var traceFields = []string{
	"tracl", "tracr", "fldr", "tracf", "ep", "cdp", "cdpt",
	"trid", "nvs", "nhs", "duse",
	"offset", "gelev", "selev", "sdepth", "gdel", "sdel", "swdep", "gwdep",
	"scalel", "scalco",
	"sx", "sy", "gx", "gy",
	"counit", "wevel", "swevel", "sut", "gut", "sstat", "gstat", "tstat",
	"laga", "lagb", "delrt", "muts", "mute", "ns", "dt", "gain", "igc",
	"igi", "corr", "sfs", "sfe", "slen", "styp", "stas", "stae", "tatyp",
	"afilf", "afils", "nofilf", "nofils", "lcf", "hcf", "lcs", "hcs",
	"year", "day", "hour", "minute", "sec", "timbas", "trwf", "grnors",
	"grnofr", "grnlof", "gaps", "otrav",
}

var traceFieldGroups = []struct{ count, width int }{
	{7, 4}, {4, 2}, {8, 4}, {2, 2}, {4, 4}, {46, 2},
}

type fieldSpec struct {
	offset int
	width  int
}

// traceFieldIndex maps a trace header field name to its byte offset and
// width within the 240-byte header.
var traceFieldIndex = buildTraceFieldIndex()

func buildTraceFieldIndex() map[string]fieldSpec {
	idx := make(map[string]fieldSpec, len(traceFields))
	off, n := 0, 0
	for _, g := range traceFieldGroups {
		for i := 0; i < g.count; i++ {
			idx[traceFields[n]] = fieldSpec{offset: off, width: g.width}
			off += g.width
			n++
		}
	}
	return idx
}

// traceFieldWidth returns the byte width of the i'th trace header field.
func traceFieldWidth(i int) int {
	n := 0
	for _, g := range traceFieldGroups {
		if i < n+g.count {
			return g.width
		}
		n += g.count
	}
	return 0
}

// headerOffset returns the absolute byte offset of the header block of the
// 1-based trace t. There is deliberately no bounds check against the trace
// count: an out-of-range trace number simply produces an offset past EOF and
// the read fails there. The arithmetic must be exact, any off-by-one here
// corrupts every field of every subsequent trace.
func headerOffset(t, ns, sampleWidth int, su bool) int64 {
	stride := int64(TraceHeaderLength + ns*sampleWidth)
	off := stride * int64(t-1)
	if !su {
		off += PreambleLength
	}
	return off
}

// dataOffset returns the absolute byte offset of the sample block of the
// 1-based trace t.
func dataOffset(t, ns, sampleWidth int, su bool) int64 {
	return headerOffset(t, ns, sampleWidth, su) + TraceHeaderLength
}
