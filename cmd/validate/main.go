// Command validate loads a dataset document, runs the consistency validator,
// and prints a statistics block plus itemized findings. Exit status is 0 when
// there are no errors (warnings permitted) and 1 otherwise, so a CI pipeline
// can gate on the authored dataset.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	osfs "github.com/hack-pad/hackpadfs/os"

	"github.com/kittclouds/tapedeck/pkg/catalog"
	"github.com/kittclouds/tapedeck/pkg/graph"
	"github.com/kittclouds/tapedeck/pkg/validator"
)

type config struct {
	Dataset string `env:"TAPEDECK_DATASET" envDefault:"data/story.json"`
	Strict  bool   `env:"TAPEDECK_STRICT" envDefault:"false"`
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("parse environment: %v", err)
	}
	flag.StringVar(&cfg.Dataset, "dataset", cfg.Dataset, "path to the dataset document")
	flag.BoolVar(&cfg.Strict, "strict", cfg.Strict, "treat warnings as errors")
	flag.Parse()

	report, err := run(cfg.Dataset)
	if err != nil {
		log.Fatalf("validate: %v", err)
	}

	printReport(cfg.Dataset, report)

	verdict := report.Verdict()
	if verdict == validator.Fail {
		os.Exit(1)
	}
	if cfg.Strict && verdict == validator.PassWithWarnings {
		os.Exit(1)
	}
}

func run(dataset string) (*validator.Report, error) {
	abs, err := filepath.Abs(dataset)
	if err != nil {
		return nil, err
	}
	fsys := osfs.NewFS()
	path, err := fsys.FromOSPath(abs)
	if err != nil {
		return nil, err
	}

	ds, err := catalog.Load(fsys, path)
	if err != nil {
		return nil, err
	}
	return validator.Check(ds, graph.Build(ds)), nil
}

func printReport(dataset string, report *validator.Report) {
	stats := report.Stats
	fmt.Printf("dataset: %s\n", dataset)
	fmt.Printf("decisions: %d  options: %d  effects: %d  consumers: %d\n",
		stats.Decisions, stats.Options, stats.Effects, stats.Consumers)
	fmt.Printf("broken: %d  ghost effects: %d  unused: %d\n",
		stats.Broken, stats.Ghosts, stats.Unused)

	for _, f := range report.Errors {
		fmt.Printf("ERROR %s %s: %s\n", f.Code, f.Subject, f.Message)
	}
	for _, f := range report.Warnings {
		fmt.Printf("WARN  %s %s: %s\n", f.Code, f.Subject, f.Message)
	}

	fmt.Printf("verdict: %s\n", report.Verdict())
}
