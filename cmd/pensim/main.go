package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pensim/plan-comparator/internal/calculation"
	"github.com/pensim/plan-comparator/internal/config"
	"github.com/pensim/plan-comparator/internal/histdata"
	"github.com/pensim/plan-comparator/internal/output"
	"github.com/pensim/plan-comparator/internal/recorder"
	"github.com/pensim/plan-comparator/pkg/logger"
)

var (
	flagConfig   string
	flagData     string
	flagSeed     int64
	flagTrials   int
	flagFormat   string
	flagJournal  string
	flagLogLevel string
)

func main() {
	root := &cobra.Command{
		Use:   "pensim",
		Short: "Bootstrap comparison of defined-benefit and defined-contribution pension plans",
		Long: `pensim resamples historical economic observations to estimate the
outcome distribution of two competing pension schemes: a fixed-formula
annuity with inflation-linked COLA, and a market-exposed investment
account with age-banded allocation and systematic withdrawal.`,
		SilenceUsage: true,
	}

	simulate := &cobra.Command{
		Use:   "simulate",
		Short: "Run a Monte Carlo batch and print the aggregate statistics",
		RunE:  runSimulate,
	}
	simulate.Flags().StringVarP(&flagConfig, "config", "c", "", "path to YAML configuration (required)")
	simulate.Flags().StringVar(&flagData, "data", "", "path to observations CSV (overrides config)")
	simulate.Flags().Int64Var(&flagSeed, "seed", 0, "random seed (overrides config)")
	simulate.Flags().IntVar(&flagTrials, "trials", 0, "number of trials (overrides config)")
	simulate.Flags().StringVarP(&flagFormat, "format", "f", "console", "output format: console or csv")
	simulate.Flags().StringVar(&flagJournal, "journal", "", "SQLite path to record the run (optional)")
	simulate.Flags().StringVar(&flagLogLevel, "log-level", "info", "log level: debug, info, warn, error")
	_ = simulate.MarkFlagRequired("config")
	root.AddCommand(simulate)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	log, err := logger.New(logger.Config{Level: flagLogLevel, Format: "console"})
	if err != nil {
		return err
	}

	parser := config.NewInputParser()
	cfg, err := parser.LoadFromFile(flagConfig)
	if err != nil {
		return err
	}
	if flagSeed != 0 {
		cfg.Simulation.Seed = flagSeed
	}
	if flagTrials != 0 {
		cfg.Simulation.Trials = flagTrials
	}

	dataPath := cfg.Data.ObservationsFile
	if flagData != "" {
		dataPath = flagData
	}
	if dataPath == "" {
		return fmt.Errorf("no observations file: set data.observations_file or --data")
	}

	store, err := histdata.LoadCSV(dataPath)
	if err != nil {
		return err
	}
	for _, issue := range store.ValidateQuality() {
		log.Warn().Str("issue", issue).Msg("data quality")
	}
	log.Info().Int("observations", len(store.Observations)).Str("source", store.Source).Msg("historical data loaded")

	engine, err := calculation.NewEngine(store.Observations, cfg, calculation.NewZerologLogger(log))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := engine.Run(ctx)
	if err != nil {
		return err
	}

	if flagJournal != "" {
		rec, err := recorder.NewSQLiteRecorder(flagJournal)
		if err != nil {
			return err
		}
		defer rec.Close()
		runID := recorder.NewRunID()
		if err := rec.RecordRun(recorder.RunRecord{
			ID:        runID,
			CreatedAt: time.Now().UTC(),
			Config:    cfg,
			Result:    result,
		}); err != nil {
			return fmt.Errorf("record run: %w", err)
		}
		log.Info().Str("run_id", runID).Str("journal", flagJournal).Msg("run recorded")
	}

	formatter, err := output.GetFormatterByName(flagFormat)
	if err != nil {
		return err
	}
	data, err := formatter.Format(result)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
