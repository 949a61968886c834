package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/protosim/protosim/sim"
	"github.com/protosim/protosim/sim/latency"
	"github.com/protosim/protosim/sim/trace"
	"github.com/protosim/protosim/sim/wiring"
)

var (
	// CLI flags for the run command. Each one overrides the config file only when set explicitly.
	configPath    string    // YAML scenario file
	protocolName  string    // Root protocol family
	groupSize     int       // Number of nodes
	seed          int64     // Seed for the latency and placement RNG
	latencyModel  string    // Latency model name
	latencyValues []float64 // Candidate delays (ms) for discrete-random
	delay         float64   // Constant delay (ms) for fixed
	geoData       string    // Geo population file for geo
	pinger        int       // Pinging node (ping)
	rounds        int       // Ping rounds
	sender        int       // Broadcasting node (echo-broadcast)
	value         string    // Broadcast value (echo-broadcast)
	traceLevel    string    // none | deliveries
	logLevel      string    // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "protosim",
	Short: "Deterministic discrete-event simulator for distributed protocols",
}

// runCmd builds a simulation from the config file and flags, runs it to quiescence and prints metrics.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a protocol simulation",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err := resolveConfig(cmd.Flags())
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Infof("Starting %s simulation with %d node(s), latency=%q, seed=%d",
			cfg.Protocol, cfg.GroupSize, cfg.Latency.Model, cfg.Seed)

		startTime := time.Now()
		s, err := wiring.Build(cfg, wiring.DefaultRegistry())
		if err != nil {
			logrus.Fatalf("building simulation: %v", err)
		}
		if err := s.Run(); err != nil {
			logrus.Fatalf("simulation aborted: %v", err)
		}
		report(s)

		logrus.Infof("Simulation complete in %s.", time.Since(startTime))
	},
}

// resolveConfig loads the scenario file (or defaults) and applies explicitly set flags on top.
func resolveConfig(flags *pflag.FlagSet) (wiring.Config, error) {
	cfg := wiring.DefaultConfig()
	if configPath != "" {
		loaded, err := wiring.LoadConfig(configPath)
		if err != nil {
			return wiring.Config{}, err
		}
		cfg = loaded
	}

	if flags.Changed("protocol") {
		cfg.Protocol = protocolName
	}
	if flags.Changed("group-size") {
		cfg.GroupSize = groupSize
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("latency") {
		// Switching models drops the parameters of the file's model.
		if latencyModel != cfg.Latency.Model {
			cfg.Latency = latency.Config{Model: latencyModel}
		}
	}
	if flags.Changed("latency-values") {
		cfg.Latency.Values = latencyValues
	}
	if flags.Changed("delay") {
		cfg.Latency.Delay = delay
	}
	if flags.Changed("geo-data") {
		cfg.Latency.GeoData = geoData
	}
	if flags.Changed("pinger") {
		cfg.Params.Pinger = sim.NodeID(pinger)
	}
	if flags.Changed("rounds") {
		cfg.Params.Rounds = rounds
	}
	if flags.Changed("sender") {
		cfg.Params.Sender = sim.NodeID(sender)
	}
	if flags.Changed("value") {
		cfg.Params.Value = value
	}
	if flags.Changed("trace") {
		cfg.Trace = traceLevel
	}
	return cfg, nil
}

// report prints the run metrics and, when tracing was enabled, a per-path delivery summary.
func report(s *sim.Simulator) {
	s.Metrics().Print()
	if !s.Trace.Enabled() {
		return
	}
	summary := trace.Summarize(s.Trace)
	fmt.Println("=== Delivery Trace ===")
	fmt.Printf("Recorded Deliveries  : %d\n", summary.TotalDeliveries)
	for _, path := range sortedKeys(summary.PerPath) {
		fmt.Printf("  %-40s : %d\n", path, summary.PerPath[path])
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
	registerRunFlags(runCmd.Flags())

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(protocolsCmd)
}

// registerRunFlags binds the run flags to their package variables, resetting them to defaults.
func registerRunFlags(fs *pflag.FlagSet) {
	defaults := wiring.DefaultConfig()

	fs.StringVar(&configPath, "config", "", "YAML scenario file (flags override its values)")
	fs.StringVar(&protocolName, "protocol", defaults.Protocol, "Root protocol (see 'protosim protocols')")
	fs.IntVar(&groupSize, "group-size", defaults.GroupSize, "Number of nodes")
	fs.Int64Var(&seed, "seed", defaults.Seed, "Seed for latency sampling and geo placement")
	fs.StringVar(&latencyModel, "latency", defaults.Latency.Model, "Latency model (fixed, discrete-random, geo)")
	fs.Float64SliceVar(&latencyValues, "latency-values", latency.DefaultDiscreteValues, "Comma-separated delays in ms for discrete-random")
	fs.Float64Var(&delay, "delay", 0, "Constant delay in ms for fixed")
	fs.StringVar(&geoData, "geo-data", "", "JSON/YAML population file for geo")
	fs.IntVar(&pinger, "pinger", int(defaults.Params.Pinger), "Pinging node (ping)")
	fs.IntVar(&rounds, "rounds", defaults.Params.Rounds, "Number of ping rounds (ping)")
	fs.IntVar(&sender, "sender", int(defaults.Params.Sender), "Broadcasting node (echo-broadcast)")
	fs.StringVar(&value, "value", defaults.Params.Value, "Broadcast value (echo-broadcast)")
	fs.StringVar(&traceLevel, "trace", string(trace.TraceLevelNone), "Trace level (none, deliveries)")
	fs.StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
}
