package detsim

import (
	"log/slog"
	"os"
)

var (
	Debug  = false // set to true for verbose debug output, see SetDebug
	Logger = newLogger(os.Stderr, slog.LevelInfo)
	// Compile time check that the gonum backed sampler implements Sampler
	_ Sampler = (*distSampler)(nil)
)
