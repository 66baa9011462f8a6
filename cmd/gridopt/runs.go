package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/gridopt/internal/config"
	"github.com/san-kum/gridopt/internal/export"
	"github.com/san-kum/gridopt/internal/problems"
	"github.com/san-kum/gridopt/internal/storage"
)

func newStore() *storage.Store {
	return storage.New(dataDir)
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := newStore().List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPROBLEM\tTIME\tX0\tN\tGRID\tCOST")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%d\t%dx%d\t%.6g\n",
			run.ID,
			run.Problem,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.X0,
			run.Horizon,
			run.States.Points,
			run.Controls.Points,
			run.Cost,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := newStore()
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	states, controls, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	fields := []field{
		{"problem", meta.Problem},
		{"x0", fmt.Sprintf("%g", meta.X0)},
		{"horizon", fmt.Sprintf("%d", meta.Horizon)},
		{"cost", fmt.Sprintf("%.6g", meta.Cost)},
		{"elapsed", meta.Elapsed.String()},
	}
	fields = append(fields, metricFields(meta.Metrics)...)
	fmt.Println(panel(meta.ID, fields))

	if len(states) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(states,
			asciigraph.Height(12),
			asciigraph.Width(70),
			asciigraph.Caption("state x_k"),
		))
	}
	if len(controls) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(controls,
			asciigraph.Height(12),
			asciigraph.Width(70),
			asciigraph.Caption("control u_k"),
		))
	} else if len(controls) == 1 {
		fmt.Println(subtleStyle.Render(fmt.Sprintf("single control u_0 = %g", controls[0])))
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := newStore()
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	states, controls, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	data := export.ExportData{
		Problem:  meta.Problem,
		Params:   meta.Params,
		X0:       meta.X0,
		Horizon:  meta.Horizon,
		Cost:     meta.Cost,
		States:   states,
		Controls: controls,
		Metrics:  meta.Metrics,
	}

	if outFile == "" {
		return export.WriteJSON(os.Stdout, data)
	}
	if err := export.ExportJSON(outFile, data); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", outFile)
	return nil
}

func plotPNG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := newStore()
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	states, controls, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	path := outFile
	if path == "" {
		path = runID + ".png"
	}
	title := fmt.Sprintf("%s (x0=%g, N=%d, J=%.4g)", meta.Problem, meta.X0, meta.Horizon, meta.Cost)
	if err := export.PlotPNG(path, title, states, controls); err != nil {
		return err
	}
	fmt.Printf("plot saved to %s\n", path)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tPROBLEM\tX0\tN\tSTATES\tCONTROLS")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%g\t%d\t%g:%g:%g\t%g:%g:%g\n",
			name, p.Problem, p.X0, p.Horizon,
			p.StateGrid.Min, p.StateGrid.Step, p.StateGrid.Max,
			p.ControlGrid.Min, p.ControlGrid.Step, p.ControlGrid.Max,
		)
	}
	return w.Flush()
}

func listProblems(cmd *cobra.Command, args []string) error {
	registry := problems.NewRegistry()
	for _, name := range registry.Names() {
		def, err := registry.Get(name, nil)
		if err != nil {
			return err
		}
		fmt.Printf("%s  %s\n", titleStyle.Render(name), subtleStyle.Render(formatParams(def.GetParams())))
	}
	return nil
}

func formatParams(params map[string]float64) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%g", name, params[name])
	}
	return strings.Join(parts, " ")
}
