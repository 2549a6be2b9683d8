package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/shapefit"
)

// options is everything a run needs. A YAML run file decodes into it and
// explicitly set flags override the file.
type options struct {
	Search     shapefit.Config `yaml:"search"`
	Targets    []string        `yaml:"targets"`
	Out        string          `yaml:"out"`
	Seed       uint64          `yaml:"seed"`
	Workers    int             `yaml:"workers"`
	Jobs       int             `yaml:"jobs"`
	Resize     int             `yaml:"resize"`
	Background string          `yaml:"background"`
	Plot       bool            `yaml:"plot"`
	Diff       bool            `yaml:"diff"`
	Verbose    bool            `yaml:"verbose"`
}

func defaultOptions() options {
	return options{
		Search:     shapefit.DefaultConfig(),
		Out:        ".",
		Jobs:       1,
		Resize:     256,
		Background: "auto",
	}
}

// kindsValue is a flag.Value for a comma-separated list of shape kinds.
type kindsValue []shapefit.Kind

func (v *kindsValue) String() string {
	if v == nil {
		return ""
	}
	names := make([]string, len(*v))
	for i, k := range *v {
		names[i] = k.String()
	}
	return strings.Join(names, ",")
}

func (v *kindsValue) Set(s string) error {
	var kinds []shapefit.Kind
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		k, err := shapefit.ParseKind(name)
		if err != nil {
			return err
		}
		kinds = append(kinds, k)
	}
	*v = kinds
	return nil
}

// bindFlags registers every overridable flag on fs, writing into o.
func bindFlags(fs *flag.FlagSet, o *options) {
	c := &o.Search
	fs.StringVar(&o.Out, "out", o.Out, "output directory")
	fs.IntVar(&c.MaxIterations, "iterations", c.MaxIterations, "maximum shapes to try committing")
	fs.IntVar(&c.PopulationSize, "population", c.PopulationSize, "candidates per generation")
	fs.IntVar(&c.EliteCount, "elites", c.EliteCount, "candidates kept unchanged between generations")
	fs.IntVar(&c.GenerationCap, "generations", c.GenerationCap, "generations per shape search")
	fs.IntVar(&c.MutationMagnitude, "mutation", c.MutationMagnitude, "largest coordinate change when evolving")
	fs.IntVar(&c.MinSize, "min-size", c.MinSize, "smallest shape side in pixels")
	fs.IntVar(&c.MaxSize, "max-size", c.MaxSize, "largest shape side in pixels")
	fs.IntVar(&c.Margin, "margin", c.Margin, "pixels shapes may extend past the canvas")
	fs.Float64Var(&c.SimilarityThreshold, "similarity", c.SimilarityThreshold, "stop below this normalized difference (0 disables)")
	fs.Var((*kindsValue)(&c.Kinds), "kinds", "comma-separated shape kinds (default all)")
	fs.Uint64Var(&o.Seed, "seed", o.Seed, "random seed (0 picks one)")
	fs.IntVar(&o.Workers, "workers", o.Workers, "scoring goroutines per target (0 = GOMAXPROCS)")
	fs.IntVar(&o.Jobs, "jobs", o.Jobs, "targets processed at once")
	fs.IntVar(&o.Resize, "resize", o.Resize, "scale targets so the longer side is at most this (0 keeps size)")
	fs.StringVar(&o.Background, "background", o.Background, "starting canvas: auto (average color) or #rrggbb")
	fs.BoolVar(&o.Plot, "plot", o.Plot, "write a difference trace chart per target")
	fs.BoolVar(&o.Diff, "diff", o.Diff, "write a per-pixel difference image per target")
	fs.BoolVar(&o.Verbose, "v", o.Verbose, "log every generation")
}

// overrides copies the flag named name from src to dst.
var overrides = map[string]func(dst, src *options){
	"out":         func(d, s *options) { d.Out = s.Out },
	"iterations":  func(d, s *options) { d.Search.MaxIterations = s.Search.MaxIterations },
	"population":  func(d, s *options) { d.Search.PopulationSize = s.Search.PopulationSize },
	"elites":      func(d, s *options) { d.Search.EliteCount = s.Search.EliteCount },
	"generations": func(d, s *options) { d.Search.GenerationCap = s.Search.GenerationCap },
	"mutation":    func(d, s *options) { d.Search.MutationMagnitude = s.Search.MutationMagnitude },
	"min-size":    func(d, s *options) { d.Search.MinSize = s.Search.MinSize },
	"max-size":    func(d, s *options) { d.Search.MaxSize = s.Search.MaxSize },
	"margin":      func(d, s *options) { d.Search.Margin = s.Search.Margin },
	"similarity":  func(d, s *options) { d.Search.SimilarityThreshold = s.Search.SimilarityThreshold },
	"kinds":       func(d, s *options) { d.Search.Kinds = s.Search.Kinds },
	"seed":        func(d, s *options) { d.Seed = s.Seed },
	"workers":     func(d, s *options) { d.Workers = s.Workers },
	"jobs":        func(d, s *options) { d.Jobs = s.Jobs },
	"resize":      func(d, s *options) { d.Resize = s.Resize },
	"background":  func(d, s *options) { d.Background = s.Background },
	"plot":        func(d, s *options) { d.Plot = s.Plot },
	"diff":        func(d, s *options) { d.Diff = s.Diff },
	"v":           func(d, s *options) { d.Verbose = s.Verbose },
}

// parseArgs builds the run options from defaults, the optional run file
// named by -config and the command line, in that order.
func parseArgs(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("shapefit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: shapefit [flags] target...")
		fs.PrintDefaults()
	}

	configPath := fs.String("config", "", "YAML run file")
	flagged := defaultOptions()
	bindFlags(fs, &flagged)
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	o := defaultOptions()
	if *configPath != "" {
		if err := loadRunFile(*configPath, &o); err != nil {
			return options{}, err
		}
	}
	fs.Visit(func(f *flag.Flag) {
		if apply, ok := overrides[f.Name]; ok {
			apply(&o, &flagged)
		}
	})
	o.Targets = append(o.Targets, fs.Args()...)

	if len(o.Targets) == 0 {
		fs.Usage()
		return options{}, fmt.Errorf("no target images given")
	}
	if o.Jobs < 1 {
		return options{}, fmt.Errorf("jobs %d must be positive", o.Jobs)
	}
	if err := o.Search.Validate(); err != nil {
		return options{}, err
	}
	return o, nil
}

// loadRunFile decodes the YAML file at path over o. Fields absent from the
// file keep their current values. Relative targets are resolved against the
// file's directory.
func loadRunFile(path string, o *options) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("read run file: %w", err)
	}
	if err := yaml.Unmarshal(data, o); err != nil {
		return fmt.Errorf("parse run file %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for i, t := range o.Targets {
		if !filepath.IsAbs(t) {
			o.Targets[i] = filepath.Join(dir, t)
		}
	}
	return nil
}
