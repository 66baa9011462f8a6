package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/gridopt/internal/dp"
)

func solved(t *testing.T) (dp.Grid, *dp.Result) {
	t.Helper()
	states, _ := dp.NewGrid([]float64{0, 1, 2})
	controls, _ := dp.NewGrid([]float64{-1, 0, 1})
	p := dp.Funcs{
		Dynamics: func(x, u float64, k int) float64 { return x + u },
		Stage:    func(x, u float64, k int) float64 { return u * u },
		Terminal: func(x float64, k int) float64 { return (x - 2) * (x - 2) },
	}
	res, err := dp.Solve(p, 0, 2, states, controls)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	return states, res
}

func TestWriteJSON(t *testing.T) {
	states, res := solved(t)

	var buf bytes.Buffer
	err := WriteJSON(&buf, ExportData{
		Problem:  "test",
		Horizon:  2,
		Cost:     res.Cost,
		States:   res.States,
		Controls: res.Controls,
		Tables:   Tables(states, res),
	})
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var got ExportData
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(got.States) != 3 || len(got.Controls) != 2 {
		t.Errorf("expected 3 states and 2 controls, got %d and %d", len(got.States), len(got.Controls))
	}
	if got.Tables == nil || len(got.Tables.CostToGo) != 3 || len(got.Tables.CostToGo[0]) != 3 {
		t.Fatalf("unexpected tables: %+v", got.Tables)
	}
	if len(got.Tables.Policy[0]) != 2 {
		t.Errorf("expected 2 policy columns, got %d", len(got.Tables.Policy[0]))
	}
}

func TestWriteJSON_EmptyControls(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, ExportData{States: []float64{1}}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"controls": []`)) {
		t.Errorf("expected empty control array, got %s", buf.String())
	}
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	if err := ExportJSON(path, ExportData{Problem: "test", States: []float64{1, 2}, Controls: []float64{1}}); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file: %v", err)
	}
}

func TestPlotPNG(t *testing.T) {
	_, res := solved(t)
	path := filepath.Join(t.TempDir(), "trajectory.png")

	if err := PlotPNG(path, "test", res.States, res.Controls); err != nil {
		t.Fatalf("plot failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected png: %v", err)
	}
	if info.Size() == 0 {
		t.Error("png is empty")
	}

	if err := PlotPNG(path, "empty", nil, nil); err == nil {
		t.Error("expected error for empty data")
	}
}
