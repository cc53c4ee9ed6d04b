package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/jddeal/go-segy/segy"
	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"
)

var cli struct {
	Args struct {
		Filename string
	} `positional-args:"yes" required:"yes"`
	LogLevel   string `short:"l" long:"log-level" description:"logging level" choice:"error" choice:"info" choice:"debug" choice:"trace" default:"info"`
	SU         bool   `long:"su" description:"open the file as headerless Seismic Unix data"`
	Endian     string `long:"endian" description:"byte order of the trace data" choice:"auto" choice:"native" choice:"foreign" choice:"little" choice:"big" default:"auto"`
	NoMmap     bool   `long:"no-mmap" description:"disable memory mapping, use plain reads"`
	ShowText   bool   `long:"show-text-header" description:"dumps out the 3200-byte text header"`
	DumpTraces int    `short:"t" long:"trace-headers" description:"dump the headers of the first N traces"`
}

var endianNames = map[string]segy.Endian{
	"auto":    segy.EndianAuto,
	"native":  segy.EndianNative,
	"foreign": segy.EndianForeign,
	"little":  segy.EndianLittle,
	"big":     segy.EndianBig,
}

func main() {

	// parse the input args
	_, err := flags.Parse(&cli)
	if err != nil {
		os.Exit(1)
	}

	// set the logging level
	errorLevels := map[string]logrus.Level{
		"error": logrus.ErrorLevel,
		"info":  logrus.InfoLevel,
		"debug": logrus.DebugLevel,
		"trace": logrus.TraceLevel,
	}
	logrus.SetLevel(errorLevels[cli.LogLevel])

	opts := []segy.Option{segy.WithEndian(endianNames[cli.Endian])}
	if cli.SU {
		opts = append(opts, segy.WithSU())
	}
	if cli.NoMmap {
		opts = append(opts, segy.WithoutMmap())
	}

	logrus.Info(color.CyanString("opening %s", cli.Args.Filename))
	d, err := segy.Open(cli.Args.Filename, opts...)
	if err != nil {
		logrus.Fatal(err)
	}
	defer d.Close()

	fmt.Printf("file:      %s (%d bytes)\n", d.Filename(), d.FileSize())
	fmt.Printf("traces:    %s\n", color.CyanString("%d", d.Ntr()))
	fmt.Printf("samples:   %s per trace, %d bytes each\n", color.CyanString("%d", d.Ns()), d.SampleWidth())
	fmt.Printf("format:    %s\n", d.Format())
	fmt.Printf("byteorder: %v\n", d.ByteOrder())

	if cli.ShowText && !d.IsSU() {
		fmt.Println(d.TextHeader())
	}

	if reel := d.ReelHeader(); reel != nil {
		fmt.Println("reel header:")
		printFields(map[string]int(reel))
	}

	n := cli.DumpTraces
	if n > d.Ntr() {
		n = d.Ntr()
	}
	for i := 0; i < n; i++ {
		h, err := d.Headers().Get(i)
		if err != nil {
			logrus.Fatal(err)
		}
		fmt.Printf("trace %d header:\n", i+1)
		printFields(map[string]int(h))
	}
}

// printFields dumps the non-zero fields of a header map, sorted by name.
func printFields(fields map[string]int) {
	names := make([]string, 0, len(fields))
	for name, v := range fields {
		if v != 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-8s %s\n", name, color.CyanString("%d", fields[name]))
	}
}
