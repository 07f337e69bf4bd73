// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/lpr/cache"
	"github.com/katalvlaran/lpr/config"
	"github.com/katalvlaran/lpr/logging"
	"github.com/katalvlaran/lpr/lpfile"
	"github.com/katalvlaran/lpr/metrics"
	"github.com/katalvlaran/lpr/model"
	"github.com/katalvlaran/lpr/solver"
)

type flags struct {
	configPath string
	metricsOut string
	noCache    bool
}

// app is the per-invocation wiring built from the loaded configuration.
type app struct {
	out      io.Writer
	svc      *solver.Service
	logger   *slog.Logger
	level    *slog.LevelVar
	recorder *metrics.Recorder
	cache    *cache.Relaxations
}

func newRootCmd(out io.Writer) *cobra.Command {
	var f flags
	root := &cobra.Command{
		Use:           "lpr",
		Short:         "Linear and integer programming solver",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&f.configPath, "config", "", "configuration file (yaml, toml or json)")
	root.PersistentFlags().StringVar(&f.metricsOut, "metrics-out", "", "write Prometheus metrics to this textfile after the run")
	root.PersistentFlags().BoolVar(&f.noCache, "no-cache", false, "disable the relaxation cache")

	commands := []struct {
		use, short string
		run        func(context.Context, *app, model.Model) (any, error)
	}{
		{"solve", "Solve the LP relaxation", runSolve},
		{"bnb", "Branch-and-bound over integer variables", runBranchAndBound},
		{"cut", "Gomory cutting-plane method", runCuttingPlane},
		{"knapsack", "0/1 knapsack branch-and-bound", runKnapsack},
		{"dual", "Sensitivity analysis and duality", runDual},
	}
	for _, c := range commands {
		run := c.run
		root.AddCommand(&cobra.Command{
			Use:   c.use + " FILE",
			Short: c.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp(cmd.Context(), f, out)
				if err != nil {
					return err
				}
				defer a.close(f.metricsOut)

				m, err := lpfile.ParseFile(args[0])
				if err != nil {
					return err
				}
				v, err := run(cmd.Context(), a, m)
				if v != nil {
					if encErr := a.encode(v); encErr != nil && err == nil {
						err = encErr
					}
				}

				return err
			},
		})
	}

	return root
}

// newApp wires one invocation. With a config file, edits made while a long
// search runs are applied in place: solver limits through Service.Configure
// and the log level through the handler's LevelVar.
func newApp(ctx context.Context, f flags, out io.Writer) (*app, error) {
	loader := config.NewLoader()
	cfg, err := loader.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	logger, level := logging.NewFromConfig(cfg.Log)
	a := &app{out: out, logger: logger, level: level}

	opts := []solver.Option{solver.WithConfig(cfg.Solver), solver.WithLogger(logger)}
	if cfg.Metrics.Enabled || f.metricsOut != "" {
		a.recorder = metrics.New(cfg.Metrics.Namespace)
		opts = append(opts, solver.WithMetrics(a.recorder))
	}
	if cfg.Cache.Enabled && !f.noCache {
		if a.cache, err = cache.New(ctx, cfg.Cache); err != nil {
			return nil, err
		}
		opts = append(opts, solver.WithCache(a.cache))
	}
	a.svc = solver.New(opts...)
	if f.configPath != "" {
		loader.Watch(logger, a.reload)
	}

	return a, nil
}

// reload applies the parts of cfg that can change mid-run.
func (a *app) reload(cfg config.Config) {
	a.svc.Configure(cfg.Solver)
	a.level.Set(logging.ParseLevel(cfg.Log.Level))
}

func (a *app) encode(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

func (a *app) close(metricsOut string) {
	if a.cache != nil {
		_ = a.cache.Close()
	}
	if metricsOut == "" || a.recorder == nil {
		return
	}
	if err := prometheus.WriteToTextfile(metricsOut, a.recorder.Registry()); err != nil {
		a.logger.Error("metrics textfile", "path", metricsOut, "error", err)
	}
}
