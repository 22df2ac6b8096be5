package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"regressdemo/internal/config"
	"regressdemo/internal/logging"
	"regressdemo/internal/population"
	"regressdemo/internal/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		seed       uint64
		percent    float64
		logFile    string
	)

	cmd := &cobra.Command{
		Use:           "play",
		Short:         "Interactive regression-to-the-mean demo: slide the genetic weight, reshuffle the environment",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				cfg *config.Config
				err error
			)
			if cmd.Flags().Changed("config") {
				cfg, err = config.Load(configPath)
			} else {
				cfg, err = config.LoadOrDefault(configPath)
			}
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = seed
			}
			if cmd.Flags().Changed("percent") {
				cfg.SetGeneticWeight(population.FromPercent(percent))
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			session, err := newSession(cfg)
			if err != nil {
				return err
			}

			// the terminal belongs to the UI, so console logs go to a file or nowhere
			log, closeLog, err := openLog(logFile, cfg.Logging.Level)
			if err != nil {
				return err
			}
			defer closeLog()

			if cfg.Logging.EveryRound {
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
			session.Subscribe(func(ev population.Event) {
				log.Debug("session event", "kind", ev.Kind.String(), "round", ev.Round, "weight", ev.Weight)
			})

			return tui.Run(session)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "configs/default.yaml", "path to config file")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed, 0 for unseeded (overrides config)")
	cmd.Flags().Float64Var(&percent, "percent", 50, "initial genetic weight in percent (overrides config)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write console logs to this file")
	return cmd
}

func newSession(cfg *config.Config) (*population.Session, error) {
	src := population.NewNormalSource(cfg.Population.Mean, cfg.Population.StdDev, cfg.Seed)
	return population.NewSession(cfg.Population.Size, src,
		population.WithWeight(cfg.GeneticWeight()),
		population.WithRankSize(cfg.Population.RankSize),
	)
}

func openLog(path, level string) (*slog.Logger, func(), error) {
	if path == "" {
		log, err := logging.New(io.Discard, level)
		return log, func() {}, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	log, err := logging.New(f, level)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return log, func() { f.Close() }, nil
}
