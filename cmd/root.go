package cmd

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/OpenRailAssociation/dac-migration-dss-popupsim-sub003/sim"
	"github.com/OpenRailAssociation/dac-migration-dss-popupsim-sub003/sim/scenario"
	"github.com/OpenRailAssociation/dac-migration-dss-popupsim-sub003/sim/trace"
)

var (
	// CLI flags
	scenarioPath string  // Path to the scenario YAML
	until        float64 // Simulation horizon (virtual minutes)
	seed         int64   // Seed override (-1 keeps the scenario's seed)
	logLevel     string  // Log verbosity level
	traceLevel   string  // Event-trace verbosity (none, events)
	traceOut     string  // Path for the event-trace JSON
	summaryOut   string  // Path for the summary JSON
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "popupsim",
	Short: "Discrete-event simulator for pop-up DAC retrofit workshops",
}

// runCmd executes a scenario using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a yard scenario",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if scenarioPath == "" {
			logrus.Fatalf("Scenario file not provided. Exiting simulation.")
		}
		if !trace.IsValidLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level: %s", traceLevel)
		}

		scn, err := scenario.Load(scenarioPath)
		if err != nil {
			logrus.Fatalf("unable to load scenario: %v", err)
		}
		if seed >= 0 {
			scn.Seed = seed
		}

		logrus.Infof("Starting simulation: %d trains, %d wagons, horizon=%.1fmin, seed=%d",
			len(scn.Trains), scn.WagonCount(), until, scn.Seed)

		startTime := time.Now()

		log := trace.NewLog(trace.Level(traceLevel))
		s, err := sim.New(scn, traceRecorder{log})
		if err != nil {
			logrus.Fatalf("unable to build simulation: %v", err)
		}
		s.Run(until)
		s.Metrics.Print(s.CurrentTime(), s.Yard.Locos, s.Yard.Workshops)
		fmt.Printf("Wall-clock time      : %v\n", time.Since(startTime))

		if traceOut != "" {
			if err := log.WriteFile(traceOut); err != nil {
				logrus.Fatalf("unable to write trace: %v", err)
			}
			logrus.Infof("Event trace written to %s (%d events)", traceOut, len(log.Events))
		}
		if summaryOut != "" {
			if err := writeSummary(summaryOut, trace.Summarize(log)); err != nil {
				logrus.Fatalf("unable to write summary: %v", err)
			}
			logrus.Infof("Summary written to %s", summaryOut)
		}

		logrus.Info("Simulation complete.")
	},
}

// validateCmd checks a scenario file without running it
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a scenario file without running it",
	Run: func(cmd *cobra.Command, args []string) {
		if scenarioPath == "" {
			logrus.Fatalf("Scenario file not provided.")
		}
		if _, err := scenario.Load(scenarioPath); err != nil {
			fmt.Fprintf(os.Stderr, "scenario invalid:\n%v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s: OK\n", scenarioPath)
	},
}

// traceRecorder bridges the live event stream into a trace.Log.
type traceRecorder struct {
	log *trace.Log
}

func (r traceRecorder) Record(ev sim.Event) {
	r.log.Append(trace.EventRecord{
		Time:       ev.Time,
		Kind:       string(ev.Kind),
		Train:      ev.Train,
		Wagon:      ev.Wagon,
		Rake:       ev.Rake,
		Track:      ev.Track,
		Workshop:   ev.Workshop,
		Locomotive: ev.Locomotive,
		Detail:     ev.Detail,
	})
}

func writeSummary(path string, s *trace.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to the scenario YAML file")
	runCmd.Flags().Float64Var(&until, "until", math.Inf(1), "Simulation horizon in virtual minutes (default: run to completion)")
	runCmd.Flags().Int64Var(&seed, "seed", -1, "Override the scenario's random seed (-1 keeps it)")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&traceLevel, "trace", "none", "Event-trace level (none, events)")
	runCmd.Flags().StringVar(&traceOut, "trace-out", "", "Write the event trace as JSON to this path")
	runCmd.Flags().StringVar(&summaryOut, "summary-json", "", "Write a run summary as JSON to this path")

	validateCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to the scenario YAML file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
}
