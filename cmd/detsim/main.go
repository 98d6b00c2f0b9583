package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/spf13/cobra"

	"github.com/lukaszgryglicki/detsim/internal/detsim"
)

var (
	// Build variables set by ldflags
	buildVersion string
	buildCommit  string
	buildTime    string

	debug      bool
	cpuProfile string
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var profFile *os.File
	cmd := &cobra.Command{
		Use:   "detsim",
		Short: "Detector exposure simulator",
		Long: `detsim turns ideal electron images into noisy, quantized detector frames
(shot noise, dark current, read noise, full well, bias, gain, ADC).`,
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			detsim.SetDebug(debug || os.Getenv("DEBUG") != "")
			if cpuProfile == "" {
				return nil
			}
			f, err := os.Create(cpuProfile)
			if err != nil {
				return fmt.Errorf("failed to create cpu profile: %w", err)
			}
			if err := pprof.StartCPUProfile(f); err != nil {
				_ = f.Close()
				return fmt.Errorf("failed to start cpu profile: %w", err)
			}
			profFile = f
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if profFile != nil {
				pprof.StopCPUProfile()
				_ = profFile.Close()
			}
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging (also DEBUG env var)")
	cmd.PersistentFlags().StringVar(&cpuProfile, "cpuprofile", "", "Write a CPU profile to this file")

	cmd.AddCommand(versionCmd())
	cmd.AddCommand(exposeCmd())
	cmd.AddCommand(ptcCmd())
	cmd.AddCommand(runsCmd())
	cmd.AddCommand(convertCmd())
	return cmd
}

func versionString() string {
	v := buildVersion
	if v == "" {
		v = "dev"
	}
	if buildCommit != "" {
		v += " (" + buildCommit + ")"
	}
	if buildTime != "" {
		v += " built " + buildTime
	}
	return v
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("detsim %s %s/%s %s\n", versionString(), runtime.GOOS, runtime.GOARCH, runtime.Version())
		},
	}
}
