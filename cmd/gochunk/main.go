package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/chararch/gochunk"
	"github.com/chararch/gochunk/file"
	"github.com/chararch/gochunk/internal/logs"
	"github.com/chararch/gochunk/ops"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	op         string
	in         string
	col        int
	header     bool
	tsv        bool
	window     int
	minPeriods int
	workers    int
	transport  string
	progress   bool
	config     string
	env        string
	logLevel   string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	o := &options{}
	fs := flag.NewFlagSet("gochunk", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.op, "op", ops.NameApply, "operation: apply (square every value) or rolling (window mean)")
	fs.StringVar(&o.in, "in", "", "input csv file")
	fs.IntVar(&o.col, "col", 0, "zero based column holding the values")
	fs.BoolVar(&o.header, "header", false, "skip the first csv line")
	fs.BoolVar(&o.tsv, "tsv", false, "input is tab separated")
	fs.IntVar(&o.window, "window", 3, "rolling window size")
	fs.IntVar(&o.minPeriods, "min-periods", 0, "values needed for a rolling result, 0 means the window size")
	fs.IntVar(&o.workers, "workers", 0, "number of workers (overrides config)")
	fs.StringVar(&o.transport, "transport", "", "auto, inline or shared-file (overrides config)")
	fs.BoolVar(&o.progress, "progress", false, "draw progress bars on stderr")
	fs.StringVar(&o.config, "config", "", "config file")
	fs.StringVar(&o.env, "env", ".env", "env file, read when it exists")
	fs.StringVar(&o.logLevel, "log-level", "warn", "debug, info, warn, error or off")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if o.in == "" {
		return nil, fmt.Errorf("-in is required")
	}
	return o, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		fmt.Fprintf(stderr, "invalid arguments: %v\n", err)
		return 2
	}
	gochunk.SetLogger(logs.NewConsoleLogger(stderr, logs.ParseLevel(o.logLevel)))

	cfg, err := gochunk.LoadConfig(gochunk.LoadOptions{ConfigFile: o.config, EnvFile: o.env})
	if err != nil {
		fmt.Fprintf(stderr, "load config failed: %v\n", err)
		return 3
	}
	if o.workers > 0 {
		cfg.Workers = o.workers
	}
	if o.transport != "" {
		cfg.Transport = o.transport
	}
	if o.progress {
		cfg.Progress = true
	}
	engine, err := gochunk.NewEngineFromConfig(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "create engine failed: %v\n", err)
		return 3
	}
	defer engine.Close()

	cd := file.ColumnDescriptor{
		FileStore: &file.LocalFileSystem{},
		FileName:  o.in,
		Header:    o.header,
		Column:    o.col,
	}
	if o.tsv {
		cd.Delimiter = '\t'
	}
	values, err := file.ReadFloatColumn(cd)
	if err != nil {
		fmt.Fprintf(stderr, "read %v failed: %v\n", o.in, err)
		return 1
	}

	ctx := context.Background()
	var result []float64
	switch o.op {
	case ops.NameApply:
		items := make([]interface{}, len(values))
		for i, v := range values {
			items[i] = v
		}
		out, err := engine.RunNamed(ctx, ops.NameApply, items, square)
		if err != nil {
			fmt.Fprintf(stderr, "apply failed: %+v\n", err)
			return 1
		}
		for _, v := range out.([]interface{}) {
			result = append(result, v.(float64))
		}
	case ops.NameRolling:
		out, err := engine.RunNamed(ctx, ops.NameRolling, ops.NewRolling(values, o.window, o.minPeriods), ops.Mean)
		if err != nil {
			fmt.Fprintf(stderr, "rolling failed: %+v\n", err)
			return 1
		}
		result = out.([]float64)
	default:
		fmt.Fprintf(stderr, "unknown operation: %v\n", o.op)
		return 2
	}

	w := bufio.NewWriter(stdout)
	defer w.Flush()
	for _, v := range result {
		w.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		w.WriteByte('\n')
	}
	return 0
}

func square(item interface{}, args ...interface{}) (interface{}, error) {
	v := item.(float64)
	return v * v, nil
}
