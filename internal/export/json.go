package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/gridopt/internal/dp"
)

type ExportData struct {
	Problem  string             `json:"problem"`
	Params   map[string]float64 `json:"params,omitempty"`
	X0       float64            `json:"x0"`
	Horizon  int                `json:"horizon"`
	Cost     float64            `json:"cost"`
	States   []float64          `json:"states"`
	Controls []float64          `json:"controls"`
	Metrics  map[string]float64 `json:"metrics,omitempty"`
	Tables   *TableData         `json:"tables,omitempty"`
}

// TableData holds the cost-to-go and policy tables as [state][time] rows.
type TableData struct {
	StateGrid []float64   `json:"state_grid"`
	CostToGo  [][]float64 `json:"cost_to_go"`
	Policy    [][]float64 `json:"policy"`
}

// Tables converts a result's tables for export.
func Tables(states dp.Grid, res *dp.Result) *TableData {
	td := &TableData{
		StateGrid: states.Points(),
		CostToGo:  make([][]float64, res.CostToGo.Rows()),
		Policy:    make([][]float64, res.Policy.Rows()),
	}
	for i := range td.CostToGo {
		td.CostToGo[i] = res.CostToGo.Row(i)
		td.Policy[i] = res.Policy.Row(i)
	}
	return td
}

func WriteJSON(w io.Writer, data ExportData) error {
	if data.Controls == nil {
		data.Controls = []float64{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path string, data ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := WriteJSON(file, data); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
