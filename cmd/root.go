package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/vsm-sim/vsm-sim/sim"
)

var (
	// CLI flags for the simulation run
	scenarioPath string // Path to a YAML scenario file (empty = built-in demo)
	seed         int64  // Seed for deterministic routing/quality/arrival draws
	ticks        int    // Number of ticks to simulate
	logLevel     string // Log verbosity level
	countTransit bool   // Include transit-only ticks in the display clock
	windowSize   int    // Metrics window size (most recent completions)
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "vsm-sim",
	Short: "Discrete-tick value stream mapping simulator",
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the value stream simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		runID := uuid.NewString()
		logrus.Infof("Starting run %s: scenario=%q seed=%d ticks=%d", runID, scenarioPath, seed, ticks)

		scenario := defaultScenario()
		if scenarioPath != "" {
			scenario, err = sim.LoadScenario(scenarioPath)
			if err != nil {
				logrus.Fatalf("unable to read scenario: %v", err)
			}
		}
		if err := scenario.Validate(); err != nil {
			logrus.Fatalf("invalid scenario: %v", err)
		}

		scenario.Run.Seed = seed
		scenario.Run.CountTransitInClock = countTransit
		if windowSize > 0 {
			scenario.Run.MetricsWindowSize = windowSize
		}

		stations, edges := scenario.Build()
		s := sim.NewSimulator(stations, edges, scenario.Run)
		s.Run(ticks)

		printReport(s)
		logrus.Infof("Run %s complete.", runID)
	},
}

// printReport displays aggregated metrics at the end of the simulation.
func printReport(s *sim.Simulator) {
	snap := s.Snapshot()
	m := snap.Metrics

	fmt.Println("=== Value Stream Metrics ===")
	fmt.Printf("Ticks (raw/display)  : %d / %d\n", snap.Tick, snap.DisplayTick)
	fmt.Printf("Completed            : %d\n", snap.CompletedTotal)
	fmt.Printf("WIP                  : %d\n", s.WIP())
	if m.SampleSize > 0 {
		fmt.Printf("Avg Lead Time        : %.2f ticks (n=%d)\n", m.AvgLeadTime, m.SampleSize)
		fmt.Printf("P95 Lead Time        : %.2f ticks\n", m.P95LeadTime)
		fmt.Printf("Avg Value-Added Time : %.2f ticks\n", m.AvgValueAddedTime)
		fmt.Printf("PCE                  : %.1f%%\n", m.PCE)
		fmt.Printf("Throughput           : %.2f items/hour\n", m.Throughput)
	}
	for _, st := range s.Stations {
		stats := snap.StationStats[st.ID]
		fmt.Printf("  %-12s processed=%-5d failed=%-5d", st.ID, stats.Processed, stats.Failed)
		for _, adv := range snap.StationAdvisories[st.ID] {
			fmt.Printf(" [%s]", adv)
		}
		fmt.Println()
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to a YAML scenario file (empty = built-in demo)")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for deterministic simulation")
	runCmd.Flags().IntVar(&ticks, "ticks", sim.TicksPerDay, "Number of ticks to simulate")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().BoolVar(&countTransit, "count-transit-in-clock", false, "Include transit-only ticks in the display clock")
	runCmd.Flags().IntVar(&windowSize, "metrics-window", 0, "Metrics window size (0 = default)")

	rootCmd.AddCommand(runCmd)
}
