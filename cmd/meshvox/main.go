// Command meshvox builds solids described in a scene file, then slices,
// probes and voxelizes their meshes and prints a JSON report.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"reflect"
	"syscall"
	"time"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/segmentio/encoding/json"
)

// The meshvox version number. Set at build.
var version = "v0.1.0"

// Keeps the config field names intact under obfuscation so the cli package
// generates readable options.
var _ = reflect.TypeOf(config{})

type config struct {
	Scene     string `cli:""        env:"MESHVOX_SCENE"      help:"Path of the scene file to evaluate."`
	LogLevel  string `cli:""        env:"MESHVOX_LOG_LEVEL"  help:"Log level (debug|info|warning|error)."`
	LogIndent bool   `cli:""        env:"MESHVOX_LOG_INDENT" help:"Indent logs and the report."`
	Metrics   bool   `cli:""        env:"MESHVOX_METRICS"    help:"Print collected metrics to stderr when done."`
	Example   bool   `cli:",hidden" env:"-"                  help:"Print an example scene file."`
	Version   bool   `cli:""        env:"-"                  help:"Show version."`
	Help      bool   `cli:""        env:"-"                  help:"Show help."`
}

func main() {
	conf := config{
		LogLevel: logs.InfoLevel.String(),
	}

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Voxelizes the solids of a scene file.").
		Options(&conf)
	cli.Load()

	if conf.Version {
		fmt.Println(version)
		os.Exit(0)
	}
	if conf.Example {
		fmt.Println(ExampleSceneFile)
		os.Exit(0)
	}

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	if conf.LogIndent {
		logs.Encoder = indentJSON
	}
	errors.Encoder = json.Marshal

	if conf.Scene == "" {
		logs.Fatal(errors.New("no scene file given"))
	}

	sc, err := readScene(conf.Scene)
	if err != nil {
		logs.Fatal(err)
	}

	start := time.Now()
	logs.WithTag("scene", conf.Scene).
		WithTag("parts", len(sc.Part)).
		Info("evaluating scene")

	report := NewApp(sc).Evaluate(ctx, sc)

	logs.WithTag("scene", conf.Scene).
		WithTag("parts", len(report.Parts)).
		WithTag("errors", len(report.Errors)).
		WithTag("duration", time.Since(start)).
		Info("scene evaluated")

	if err := writeReport(os.Stdout, report, conf.LogIndent); err != nil {
		logs.Fatal(err)
	}

	if conf.Metrics {
		if err := writeMetrics(os.Stderr, prometheus.DefaultGatherer); err != nil {
			logs.Warn(err)
		}
	}

	if len(report.Errors) != 0 {
		os.Exit(1)
	}
}

func indentJSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

func writeReport(w io.Writer, r Report, indent bool) error {
	encode := json.Marshal
	if indent {
		encode = indentJSON
	}

	b, err := encode(r)
	if err != nil {
		return errors.New("encoding report failed").Wrap(err)
	}
	if _, err := w.Write(append(b, '\n')); err != nil {
		return errors.New("writing report failed").Wrap(err)
	}
	return nil
}

// writeMetrics writes every metric family of g in the Prometheus text
// format.
func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return errors.New("gathering metrics failed").Wrap(err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return errors.New("writing metrics failed").
				WithTag("family", mf.GetName()).
				Wrap(err)
		}
	}
	return nil
}
