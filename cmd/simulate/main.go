package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"regressdemo/internal/config"
	"regressdemo/internal/experiment"
	"regressdemo/internal/logging"
	"regressdemo/internal/population"
	"regressdemo/internal/report"
)

type options struct {
	configPath string
	rounds     int
	weight     float64
	seed       uint64
	noLog      bool
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "simulate",
		Short:         "Reshuffle a population's environment round by round and report regression to the mean",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return runRounds(out, cfg, opts.noLog)
		},
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "configs/default.yaml", "path to config file")
	flags.IntVar(&opts.rounds, "rounds", 0, "number of reshuffles (overrides config)")
	flags.Float64Var(&opts.weight, "weight", 0, "genetic weight fraction in [0, 1] (overrides config)")
	flags.Uint64Var(&opts.seed, "seed", 0, "random seed, 0 for unseeded (overrides config)")
	root.Flags().BoolVar(&opts.noLog, "no-log", false, "skip writing CSV/JSONL round logs")

	root.AddCommand(newSweepCmd(out, opts))
	return root
}

func newSweepCmd(out io.Writer, opts *options) *cobra.Command {
	var trials, workers int

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Measure mean change of the extremes across genetic weights over many seeded trials",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("trials") {
				cfg.Sweep.Trials = trials
			}
			if cmd.Flags().Changed("workers") {
				cfg.Sweep.Workers = workers
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runSweep(ctx, out, cfg)
		},
	}
	cmd.Flags().IntVar(&trials, "trials", 0, "trials per weight (overrides config)")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent trials (overrides config)")
	return cmd
}

// loadConfig reads the config file and applies flag overrides.
// A missing default config file falls back to built-in defaults.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cmd.Flags().Changed("config") {
		cfg, err = config.Load(opts.configPath)
	} else {
		cfg, err = config.LoadOrDefault(opts.configPath)
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("rounds") {
		cfg.Run.Rounds = opts.rounds
		cfg.Sweep.Rounds = opts.rounds
	}
	if flags.Changed("weight") {
		cfg.SetGeneticWeight(opts.weight)
	}
	if flags.Changed("seed") {
		cfg.Seed = opts.seed
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newSession(cfg *config.Config) (*population.Session, error) {
	src := population.NewNormalSource(cfg.Population.Mean, cfg.Population.StdDev, cfg.Seed)
	return population.NewSession(cfg.Population.Size, src,
		population.WithWeight(cfg.GeneticWeight()),
		population.WithRankSize(cfg.Population.RankSize),
	)
}

func runRounds(out io.Writer, cfg *config.Config, noLog bool) error {
	log, err := logging.New(os.Stderr, cfg.Logging.Level)
	if err != nil {
		return err
	}

	session, err := newSession(cfg)
	if err != nil {
		return err
	}

	log.Info("session created",
		"size", session.Len(), "weight", session.Weight(), "seed", cfg.Seed, "rounds", cfg.Run.Rounds)

	if !noLog && cfg.Logging.EveryRound {
		rl, err := logging.NewRoundLogger(cfg.Logging.CSVPath, cfg.Logging.JSONPath, log)
		if err != nil {
			return fmt.Errorf("creating round logger: %w", err)
		}
		if err := rl.Init(); err != nil {
			return fmt.Errorf("initializing round logger: %w", err)
		}
		defer func() {
			if err := rl.Close(); err != nil {
				log.Warn("closing round logger", "err", err)
			}
		}()
		rl.Attach(session)
	}

	startTime := time.Now()
	printRound(out, session)
	for r := 0; r < cfg.Run.Rounds; r++ {
		session.Reshuffle()
		printRound(out, session)
	}
	log.Debug("rounds complete", "elapsed", time.Since(startTime))
	return nil
}

func printRound(out io.Writer, s *population.Session) {
	fmt.Fprintf(out, "=== Round %d | %s\n", s.Round(), report.FormatWeight(s.Weight()))
	fmt.Fprintf(out, "New Top Five:    %s\n", report.FormatIDs(s.TopIDs()))
	fmt.Fprintf(out, "New Bottom Five: %s\n", report.FormatIDs(s.BottomIDs()))
	if !s.Deltas().Empty() {
		for _, line := range report.DeltaLines(s.Deltas()) {
			fmt.Fprintln(out, line)
		}
	}
	current, previous, ok := s.Statistics()
	fmt.Fprintln(out, report.FormatStatistics(current, previous, ok))
	fmt.Fprintln(out)
}

func runSweep(ctx context.Context, out io.Writer, cfg *config.Config) error {
	log, err := logging.New(os.Stderr, cfg.Logging.Level)
	if err != nil {
		return err
	}

	sw := experiment.Sweep{
		Size:     cfg.Population.Size,
		Mean:     cfg.Population.Mean,
		StdDev:   cfg.Population.StdDev,
		RankSize: cfg.Population.RankSize,
		Weights:  cfg.Sweep.Weights,
		Trials:   cfg.Sweep.Trials,
		Rounds:   cfg.Sweep.Rounds,
		BaseSeed: cfg.Seed,
		Workers:  cfg.Sweep.Workers,
	}

	log.Info("sweep started",
		"weights", len(sw.Weights), "trials", sw.Trials, "rounds", sw.Rounds, "workers", sw.Workers)
	startTime := time.Now()

	results, err := sw.Run(ctx)
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}
	log.Info("sweep complete", "elapsed", time.Since(startTime))

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("weight", "trials", "prev top change", "std", "prev bottom change", "std")
	for _, r := range results {
		t.Row(
			fmt.Sprintf("%.2f", r.Weight),
			fmt.Sprint(r.Trials),
			fmt.Sprintf("%+.2f", r.TopChange.Mean),
			fmt.Sprintf("%.2f", r.TopChange.StdDev),
			fmt.Sprintf("%+.2f", r.BottomChange.Mean),
			fmt.Sprintf("%.2f", r.BottomChange.StdDev),
		)
	}
	fmt.Fprintln(out, t.String())
	return nil
}
