package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	dataDir string

	problemName string
	x0          float64
	horizon     int
	params      map[string]string

	stateMin    float64
	stateMax    float64
	stateStep   float64
	controlMin  float64
	controlMax  float64
	controlStep float64

	workers    int
	logLevel   string
	configFile string
	preset     string
	save       bool
	withTables bool

	outFile  string
	jsonFile string
)

// main registers the gridopt commands and flags and executes the root command.
// It exits the process with status 1 if command execution returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:          "gridopt",
		Short:        "grid-based dynamic programming for finite-horizon optimal control",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gridopt", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	solveCmd := &cobra.Command{
		Use:   "solve",
		Short: "solve a problem and print the optimal trajectory",
		Args:  cobra.NoArgs,
		RunE:  runSolve,
	}
	addProblemFlags(solveCmd)
	solveCmd.Flags().BoolVar(&save, "save", true, "store the run in the data directory")
	solveCmd.Flags().StringVar(&jsonFile, "json", "", "also write the result as JSON to this file")
	solveCmd.Flags().BoolVar(&withTables, "tables", false, "include cost-to-go and policy tables in the JSON output")

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "compare the grid solution with the closed-form LQR solution",
		Args:  cobra.NoArgs,
		RunE:  runCompare,
	}
	addProblemFlags(compareCmd)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time the backward recursion for several worker counts",
		Args:  cobra.NoArgs,
		RunE:  runBench,
	}
	addProblemFlags(benchCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "plot a stored trajectory in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	plotCmd := &cobra.Command{
		Use:   "plot-png [run_id]",
		Short: "render a stored trajectory to an image",
		Args:  cobra.ExactArgs(1),
		RunE:  plotPNG,
	}
	plotCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default <run_id>.png)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	problemsCmd := &cobra.Command{
		Use:   "problems",
		Short: "list available problems and their default parameters",
		Args:  cobra.NoArgs,
		RunE:  listProblems,
	}

	rootCmd.AddCommand(solveCmd, compareCmd, benchCmd, listCmd, showCmd, exportJSONCmd, plotCmd, presetsCmd, problemsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addProblemFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&problemName, "problem", "linear-quadratic", "problem name")
	f.Float64Var(&x0, "x0", 8, "initial state")
	f.IntVar(&horizon, "horizon", 2, "horizon length")
	f.StringToStringVar(&params, "param", nil, "problem parameter override (name=value)")
	f.Float64Var(&stateMin, "state-min", -50, "state grid minimum")
	f.Float64Var(&stateMax, "state-max", 50, "state grid maximum")
	f.Float64Var(&stateStep, "state-step", 0.02, "state grid step")
	f.Float64Var(&controlMin, "control-min", -10, "control grid minimum")
	f.Float64Var(&controlMax, "control-max", 10, "control grid maximum")
	f.Float64Var(&controlStep, "control-step", 0.02, "control grid step")
	f.IntVar(&workers, "workers", 0, "workers per time step (0 = GOMAXPROCS)")
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
}
