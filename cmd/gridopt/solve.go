package main

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/gridopt/internal/config"
	"github.com/san-kum/gridopt/internal/dp"
	"github.com/san-kum/gridopt/internal/experiment"
	"github.com/san-kum/gridopt/internal/export"
	"github.com/san-kum/gridopt/internal/logging"
	"github.com/san-kum/gridopt/internal/problems"
)

// resolveConfig layers the defaults, a preset, a config file and explicitly set flags, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	}

	flags := cmd.Flags()
	if flags.Changed("problem") {
		cfg.Problem = problemName
	}
	if flags.Changed("x0") {
		cfg.X0 = x0
	}
	if flags.Changed("horizon") {
		cfg.Horizon = horizon
	}
	if flags.Changed("state-min") {
		cfg.StateGrid.Min = stateMin
	}
	if flags.Changed("state-max") {
		cfg.StateGrid.Max = stateMax
	}
	if flags.Changed("state-step") {
		cfg.StateGrid.Step = stateStep
	}
	if flags.Changed("control-min") {
		cfg.ControlGrid.Min = controlMin
	}
	if flags.Changed("control-max") {
		cfg.ControlGrid.Max = controlMax
	}
	if flags.Changed("control-step") {
		cfg.ControlGrid.Step = controlStep
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("log-level") || cfg.LogLevel == "" {
		cfg.LogLevel = logLevel
	}

	if len(params) > 0 {
		if cfg.Params == nil {
			cfg.Params = make(map[string]float64, len(params))
		}
		for name, raw := range params {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("param %s: %w", name, err)
			}
			cfg.Params[name] = v
		}
	}

	return cfg, cfg.Validate()
}

func newExperiment(cmd *cobra.Command) (*experiment.Experiment, *config.Config, *slog.Logger, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, nil, err
	}
	logger := logging.New(level)

	exp, err := experiment.New(cfg, problems.NewRegistry(), logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return exp, cfg, logger, nil
}

func runSolve(cmd *cobra.Command, args []string) error {
	exp, cfg, logger, err := newExperiment(cmd)
	if err != nil {
		return err
	}

	out, err := exp.Run()
	if err != nil {
		return err
	}
	res := out.Result

	fields := []field{
		{"problem", cfg.Problem},
		{"x0", fmt.Sprintf("%g", cfg.X0)},
		{"horizon", strconv.Itoa(cfg.Horizon)},
		{"grid", fmt.Sprintf("%d states x %d controls", exp.StateGrid().Len(), exp.ControlGrid().Len())},
		{"cost", fmt.Sprintf("%.6g", res.Cost)},
		{"states", formatSeries(res.States)},
		{"controls", formatSeries(res.Controls)},
	}
	fields = append(fields, metricFields(out.Metrics)...)
	fmt.Println(panel("optimal trajectory", fields))
	fmt.Printf("completed in %v\n", out.Elapsed)

	if jsonFile != "" {
		data := export.ExportData{
			Problem:  cfg.Problem,
			Params:   exp.Problem().GetParams(),
			X0:       cfg.X0,
			Horizon:  cfg.Horizon,
			Cost:     res.Cost,
			States:   res.States,
			Controls: res.Controls,
			Metrics:  out.Metrics,
		}
		if withTables {
			data.Tables = export.Tables(exp.StateGrid(), res)
		}
		if err := export.ExportJSON(jsonFile, data); err != nil {
			return fmt.Errorf("failed to write json: %w", err)
		}
		fmt.Printf("wrote %s\n", jsonFile)
	}

	if !save {
		return nil
	}

	st := newStore()
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(exp.Metadata(out), res)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	logger.Debug("run saved", "id", runID, "dir", dataDir)
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	exp, cfg, _, err := newExperiment(cmd)
	if err != nil {
		return err
	}

	ref, err := exp.Reference()
	if err != nil {
		return err
	}
	out, err := exp.Run()
	if err != nil {
		return err
	}
	res := out.Result

	fmt.Println(panel("grid dp vs closed form", []field{
		{"problem", cfg.Problem},
		{"dp cost", fmt.Sprintf("%.6g", res.Cost)},
		{"lqr cost", fmt.Sprintf("%.6g", ref.Cost)},
		{"gap", fmt.Sprintf("%.3g", res.Cost-ref.Cost)},
	}))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "K\tX_DP\tX_LQR\tU_DP\tU_LQR")
	for k := range res.States {
		u, uRef := "-", "-"
		if k < len(res.Controls) {
			u = fmt.Sprintf("%.4f", res.Controls[k])
			uRef = fmt.Sprintf("%.4f", ref.Controls[k])
		}
		fmt.Fprintf(w, "%d\t%.4f\t%.4f\t%s\t%s\n", k, res.States[k], ref.States[k], u, uRef)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if gap := math.Abs(res.Cost - ref.Cost); gap > 0.01*math.Abs(ref.Cost) {
		fmt.Println(warnStyle.Render("gap exceeds 1% of the reference cost; refine the grids"))
	}
	return nil
}

func runBench(cmd *cobra.Command, args []string) error {
	exp, cfg, _, err := newExperiment(cmd)
	if err != nil {
		return err
	}

	counts := []int{1, 2, 4, dp.DefaultWorkers()}
	if cmd.Flags().Changed("workers") {
		counts = []int{cfg.Workers}
	}

	fmt.Printf("benchmarking %s: %d states x %d controls, horizon %d\n",
		cfg.Problem, exp.StateGrid().Len(), exp.ControlGrid().Len(), cfg.Horizon)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WORKERS\tTIME\tCELLS/S")

	cells := float64(exp.StateGrid().Len() * exp.ControlGrid().Len() * cfg.Horizon)
	for _, n := range counts {
		solver := dp.NewSolver(exp.Problem(), exp.StateGrid(), exp.ControlGrid(), dp.WithWorkers(n))
		start := time.Now()
		if _, err := solver.Backward(cfg.Horizon); err != nil {
			return err
		}
		elapsed := time.Since(start)
		fmt.Fprintf(w, "%d\t%v\t%.3g\n", n, elapsed, cells/elapsed.Seconds())
	}
	return w.Flush()
}
