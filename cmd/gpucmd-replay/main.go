// Command gpucmd-replay records a TOML draw script with gpucmd and flushes it
// to a backend, printing what the recorder kept and what the backend did.
//
//	gpucmd-replay run --script frame.toml --backend trace --verbose
//	gpucmd-replay run --script frame.toml --backend halgpu --metrics
//	gpucmd-replay backends
package main

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/codegangsta/cli"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/gogpu/gpucmd"
	"github.com/gogpu/gpucmd/backend/halgpu"
	"github.com/gogpu/gpucmd/backend/trace"
)

// halBackendName selects the HAL backend on a noop device. It is not in the
// registry because it needs a device and per-surface textures.
const halBackendName = "halgpu"

func main() {
	app := cli.NewApp()
	app.Name = "gpucmd-replay"
	app.Usage = "replay a draw script through the gpucmd recorder"
	app.Commands = []cli.Command{
		{
			Name:  "run",
			Usage: "record and flush a script",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "script, s",
					Usage: "TOML script to replay",
				},
				cli.StringFlag{
					Name:  "backend, b",
					Value: "trace",
					Usage: "registered backend name, or " + halBackendName,
				},
				cli.StringFlag{
					Name:  "mode",
					Usage: "flush mode override: precompute or interleaved",
				},
				cli.BoolFlag{
					Name:  "metrics",
					Usage: "print recorder counters after the flush",
				},
				cli.BoolFlag{
					Name:  "verbose, v",
					Usage: "print the trace backend transcript",
				},
				cli.BoolFlag{
					Name:  "debug",
					Usage: "enable debug logging to stderr",
				},
			},
			Action: func(c *cli.Context) error {
				if c.Bool("debug") {
					gpucmd.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
						Level: slog.LevelDebug,
					})))
				}
				return run(os.Stdout, runConfig{
					script:  c.String("script"),
					backend: c.String("backend"),
					mode:    c.String("mode"),
					metrics: c.Bool("metrics"),
					verbose: c.Bool("verbose"),
				})
			},
		},
		{
			Name:  "backends",
			Usage: "list available backends",
			Action: func(c *cli.Context) error {
				for _, name := range append(gpucmd.Backends(), halBackendName) {
					fmt.Println(name)
				}
				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "gpucmd-replay:", err)
		os.Exit(1)
	}
}

type runConfig struct {
	script  string
	backend string
	mode    string
	metrics bool
	verbose bool
}

func run(w io.Writer, cfg runConfig) error {
	if cfg.script == "" {
		return fmt.Errorf("--script is required")
	}
	s, err := loadScript(cfg.script)
	if err != nil {
		return err
	}
	return replay(w, s, cfg)
}

// replay records s, flushes it to the configured backend and reports.
func replay(w io.Writer, s *script, cfg runConfig) error {
	if cfg.mode != "" {
		s.Mode = cfg.mode
	}

	var (
		backend    gpucmd.Backend
		newSurface surfaceFactory = synthSurface
		hal        *halgpu.Backend
		tr         *trace.Backend
	)
	if cfg.backend == halBackendName {
		hb, fallback, cleanup, err := openNoopBackend()
		if err != nil {
			return err
		}
		defer cleanup()
		hal, tr, backend = hb, fallback, hb
		newSurface = func(def surfaceDef) (gpucmd.Surface, error) {
			return hal.NewTexture(def.Name, def.Width, def.Height, def.Stencil)
		}
	} else {
		b, err := gpucmd.NewBackend(cfg.backend)
		if err != nil {
			return err
		}
		backend = b
		tr, _ = b.(*trace.Backend)
	}

	reg := prometheus.NewRegistry()
	p, err := newPlayer(s, newSurface, gpucmd.WithMetrics(gpucmd.NewMetrics(reg)))
	if err != nil {
		return err
	}
	stats, err := p.record(s)
	if err != nil {
		return err
	}
	p.flush(backend, &stats)
	if hal != nil {
		if err := hal.Submit(); err != nil {
			return fmt.Errorf("submit: %w", err)
		}
	}

	printStats(w, stats)
	if hal != nil {
		hs := hal.Stats()
		fmt.Fprintf(w, "hal: passes=%d copies=%d forwarded=%d submits=%d\n",
			hs.Passes, hs.Copies, hs.Forwarded, hs.Submits)
	}
	if cfg.verbose && tr != nil {
		if _, err := tr.WriteTo(w); err != nil {
			return err
		}
	}
	if cfg.metrics {
		return writeMetrics(w, reg)
	}
	return nil
}

func printStats(w io.Writer, stats replayStats) {
	fmt.Fprintf(w, "requests=%d dropped=%d records=%d\n", stats.Requests, stats.Dropped, stats.Records)

	kinds := make([]gpucmd.CommandType, 0, len(stats.ByKind))
	for k := range stats.ByKind {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	for _, k := range kinds {
		fmt.Fprintf(w, "  %-16s %d\n", k, stats.ByKind[k])
	}
	if stats.Issued > 0 {
		fmt.Fprintf(w, "batches: draws=%d vertices=%d\n", stats.Issued, stats.Vertices)
	}
}

func writeMetrics(w io.Writer, reg *prometheus.Registry) error {
	mfs, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

func bounds(s gpucmd.Surface) image.Rectangle {
	return image.Rect(0, 0, s.Width(), s.Height())
}
