package main

import (
	"os"

	"github.com/cheggaaa/pb/v3"
	"github.com/jddeal/go-segy/segy"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagFrom   int
	flagTo     int
	flagStep   int
	flagSU     bool
	flagNoMmap bool
	flagOut    string
)

var rootCmd = &cobra.Command{
	Use:   "segy-export",
	Short: "Bulk re-export of SEG-Y / SU trace data",
	Long: `segy-export reads a SEG-Y or SU file and re-writes a selection of its
traces as SEG-Y (IEEE float32), SU, or a flat raw sample dump.`,
}

var segyCmd = &cobra.Command{
	Use:   "segy <input>",
	Short: "Export traces to a new SEG-Y file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return export(args[0], func(d *segy.Dataset, traces [][]float32, hdrs []segy.TraceHeader) error {
			return d.WriteSEGY(flagOut, traces, &segy.ExportHeaders{Trace: hdrs})
		})
	},
}

var suCmd = &cobra.Command{
	Use:   "su <input>",
	Short: "Export traces to a new SU file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return export(args[0], func(d *segy.Dataset, traces [][]float32, hdrs []segy.TraceHeader) error {
			return d.WriteSU(flagOut, traces, hdrs)
		})
	},
}

var flatCmd = &cobra.Command{
	Use:   "flat <input>",
	Short: "Dump the raw data region of every trace, back to back",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := open(args[0])
		if err != nil {
			return err
		}
		defer d.Close()
		return d.WriteFlat(flagOut)
	},
}

func open(path string) (*segy.Dataset, error) {
	opts := []segy.Option{}
	if flagSU {
		opts = append(opts, segy.WithSU())
	}
	if flagNoMmap {
		opts = append(opts, segy.WithoutMmap())
	}
	return segy.Open(path, opts...)
}

// export reads the selected traces with a progress bar, then hands them and
// their headers to the writer.
func export(path string, write func(*segy.Dataset, [][]float32, []segy.TraceHeader) error) error {
	d, err := open(path)
	if err != nil {
		return err
	}
	defer d.Close()

	to := flagTo
	if to == 0 {
		to = d.Ntr()
	}

	headers, err := d.Headers().Slice(flagFrom, to, flagStep)
	if err != nil {
		return err
	}

	bar := pb.StartNew(len(headers))
	traces := make([][]float32, 0, len(headers))
	step := flagStep
	if step == 0 {
		step = 1
	}
	for i := flagFrom; len(traces) < len(headers); i += step {
		trace, err := d.Trace(i)
		if err != nil {
			return err
		}
		traces = append(traces, trace)
		bar.Increment()
	}
	bar.Finish()

	logrus.Infof("writing %d traces to %s", len(traces), flagOut)
	return write(d, traces, headers)
}

func main() {
	for _, cmd := range []*cobra.Command{segyCmd, suCmd, flatCmd} {
		cmd.Flags().IntVar(&flagFrom, "from", 0, "first trace of the selection (0-based, negatives from the end)")
		cmd.Flags().IntVar(&flagTo, "to", 0, "end of the selection, exclusive (0 means all)")
		cmd.Flags().IntVar(&flagStep, "step", 1, "selection stride")
		cmd.Flags().BoolVar(&flagSU, "su", false, "open the input as headerless SU data")
		cmd.Flags().BoolVar(&flagNoMmap, "no-mmap", false, "disable memory mapping")
		cmd.Flags().StringVarP(&flagOut, "out", "o", "out.segy", "output path")
		rootCmd.AddCommand(cmd)
	}

	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
