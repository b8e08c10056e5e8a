package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/convmon/internal/config"
	"github.com/san-kum/convmon/internal/gui"
	"github.com/san-kum/convmon/internal/kinetic"
	"github.com/san-kum/convmon/internal/logging"
	"github.com/san-kum/convmon/internal/monitor"
	"github.com/san-kum/convmon/internal/viz"
)

type options struct {
	configFile string
	preset     string
	logLevel   string
	seed       int64
	ticks      int
	nodes      int
	theme      string

	// bench
	runs int
	frac float64
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(&options{}).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(o *options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "convmon",
		Short:        "live convergence monitor for a decentralized swarm",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLive(cmd, o)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&o.configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&o.preset, "preset", "", "use preset configuration")
	pf.StringVar(&o.logLevel, "log-level", config.DefaultLogLevel, "log level (trace, debug, info, warn, error)")
	pf.Int64Var(&o.seed, "seed", 0, "random seed (0 picks one from the clock)")
	pf.IntVar(&o.ticks, "ticks", 0, "stop after this many ticks (0 runs until quit)")
	pf.IntVar(&o.nodes, "nodes", kinetic.DefaultNodes, "number of nodes")
	rootCmd.Flags().StringVar(&o.theme, "theme", "neon", "color theme (neon, retro, minimal)")

	windowCmd := &cobra.Command{
		Use:   "window",
		Short: "show the monitor in a graphical window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWindow(cmd, o)
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "run an ensemble headless and report convergence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd, o)
		},
	}
	benchCmd.Flags().IntVar(&o.runs, "runs", 8, "number of ensemble members")
	benchCmd.Flags().Float64Var(&o.frac, "frac", 0.1, "fraction of history in each ratio window")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "presets:")
			for _, p := range config.ListPresets() {
				fmt.Fprintf(out, "  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(windowCmd, benchCmd, presetsCmd)
	return rootCmd
}

// resolveConfig layers defaults, then the preset, then the config file, then
// any flag the user set explicitly.
func resolveConfig(cmd *cobra.Command, o *options) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if o.preset != "" {
		cfg = config.GetPreset(o.preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", o.preset, config.ListPresets())
		}
	}
	if o.configFile != "" {
		loaded, err := config.Load(o.configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = o.seed
	}
	if flags.Changed("ticks") {
		cfg.Ticks = o.ticks
	}
	if flags.Changed("nodes") {
		cfg.Nodes = o.nodes
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func buildDriver(cfg *config.Config, logger *slog.Logger) (*monitor.Driver, error) {
	eng, err := kinetic.New(cfg.Params())
	if err != nil {
		return nil, err
	}
	edges, err := cfg.Edges()
	if err != nil {
		return nil, err
	}
	return monitor.NewDriver(eng, monitor.NewChart(edges, cfg.AxisPolicy()), logger), nil
}

// setup resolves the config, prints the startup banner and builds the driver.
func setup(cmd *cobra.Command, o *options) (*config.Config, *monitor.Driver, *slog.Logger, error) {
	cfg, err := resolveConfig(cmd, o)
	if err != nil {
		return nil, nil, nil, err
	}
	logger := logging.NewLogger(cfg.LogLevel, cmd.ErrOrStderr())
	logger.Debug("config resolved",
		"nodes", cfg.Nodes, "alpha", cfg.Alpha, "noise_std", cfg.NoiseStd,
		"seed", cfg.Seed, "interval", cfg.Interval, "ticks", cfg.Ticks)

	driver, err := buildDriver(cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	banner(cmd.OutOrStdout(), cfg.Nodes)
	return cfg, driver, logger, nil
}

func banner(w io.Writer, nodes int) {
	fmt.Fprintf(w, "[*] MONITOR ONLINE: Tracking %d nodes.\n", nodes)
}

func runLive(cmd *cobra.Command, o *options) error {
	cfg, driver, logger, err := setup(cmd, o)
	if err != nil {
		return err
	}

	m := viz.NewModel(driver, viz.Options{
		Interval: cfg.Interval,
		Ticks:    cfg.Ticks,
		Nodes:    cfg.Nodes,
		Theme:    o.theme,
	})
	final, err := viz.Run(cmd.Context(), m)
	if err != nil {
		logger.Error("monitor stopped", "tick", final.Frame(), "err", err)
		return err
	}
	logger.Info("monitor closed", "ticks", final.Frame())
	return nil
}

func runWindow(cmd *cobra.Command, o *options) error {
	cfg, driver, logger, err := setup(cmd, o)
	if err != nil {
		return err
	}
	err = gui.Run(cmd.Context(), driver, gui.Options{
		Interval: cfg.Interval,
		Ticks:    cfg.Ticks,
		Nodes:    cfg.Nodes,
	})
	if err != nil {
		logger.Error("window stopped", "tick", driver.Ticks(), "err", err)
		return err
	}
	return nil
}

func runBench(cmd *cobra.Command, o *options) error {
	cfg, err := resolveConfig(cmd, o)
	if err != nil {
		return err
	}
	if o.runs < 1 {
		return fmt.Errorf("runs must be at least 1, got %d", o.runs)
	}
	ticks := cfg.Ticks
	if ticks == 0 {
		ticks = 500
	}
	logger := logging.NewLogger(cfg.LogLevel, cmd.ErrOrStderr())
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "benchmarking %d runs x %d ticks, %d nodes\n\n", o.runs, ticks, cfg.Nodes)

	start := time.Now()
	results, err := kinetic.NewEnsemble(cfg.Params(), o.runs, cfg.Seed).Run(cmd.Context(), ticks)
	if err != nil {
		return err
	}
	logger.Debug("ensemble finished", "runs", len(results), "elapsed", time.Since(start))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tFIRST\tLAST\tRATIO")
	for _, r := range results {
		first, last := r.History[0], r.History[len(r.History)-1]
		fmt.Fprintf(w, "%d\t%.5f\t%.5f\t%.4f\n", r.Seed, first, last, kinetic.ConvergenceRatio(r.History, o.frac))
	}
	w.Flush()
	fmt.Fprintln(out)

	mean := kinetic.MeanHistory(results)
	logMean := make([]float64, 0, len(mean))
	for _, v := range mean {
		if v > 0 {
			logMean = append(logMean, math.Log10(v))
		}
	}
	if len(logMean) > 0 {
		graph := asciigraph.Plot(logMean,
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("log10 mean velocity (ensemble mean)"),
		)
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "ensemble ratio: %.4f\n", kinetic.ConvergenceRatio(mean, o.frac))
	fmt.Fprintf(out, "elapsed: %v\n", time.Since(start).Round(time.Millisecond))
	return nil
}
