package main

import (
	"os"

	"slosweep/internal/config"
	"slosweep/internal/sweep"
)

// newSweepWriters sets up round and outcome writers based on flags and
// env vars. It returns the writers and a cleanup function to close any
// resources.
func newSweepWriters(cfg *config.SweepConfig, sweepID string, printOnly, useTUI bool, logFile string) (sweep.RoundWriter, sweep.OutcomeWriter, func(), error) {
	cleanup := func() {}

	rw, ow, baseCleanup, err := baseWriters(cfg, sweepID, printOnly, useTUI)
	if err != nil {
		return nil, nil, nil, err
	}
	cleanup = baseCleanup
	if logFile == "" {
		return rw, ow, cleanup, nil
	}

	fw, err := sweep.NewFileWriter(logFile, logFile+".outcomes")
	if err != nil {
		baseCleanup()
		return nil, nil, nil, err
	}
	mw := sweep.NewMultiWriter(
		[]sweep.RoundWriter{rw, fw},
		[]sweep.OutcomeWriter{ow, fw},
	)
	cleanup = func() {
		fw.Close()
		baseCleanup()
	}
	return mw, mw, cleanup, nil
}

// baseWriters chooses the underlying writers based on the TUI flag,
// print-only flag, and env vars.
func baseWriters(cfg *config.SweepConfig, sweepID string, printOnly, useTUI bool) (sweep.RoundWriter, sweep.OutcomeWriter, func(), error) {
	if useTUI {
		tw := sweep.NewTUIWriter(cfg.P95SLOMS, cfg.ErrorSLO, cfg.MaxConcurrency)
		return tw, tw, func() { tw.Close() }, nil
	}

	cw := sweep.NewColorStdoutWriter(cfg.P95SLOMS, cfg.ErrorSLO, cfg.MaxConcurrency)
	endpoint := os.Getenv("GREPTIMEDB_ENDPOINT")
	if printOnly || endpoint == "" {
		return cw, cw, func() {}, nil
	}

	database := os.Getenv("GREPTIMEDB_DATABASE")
	if database == "" {
		database = "public"
	}
	gw, err := sweep.NewGreptimeDBWriter(endpoint, database, sweepID)
	if err != nil {
		return nil, nil, nil, err
	}
	mw := sweep.NewMultiWriter(
		[]sweep.RoundWriter{cw, gw},
		[]sweep.OutcomeWriter{cw},
	)
	return mw, mw, func() {}, nil
}
