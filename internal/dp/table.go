package dp

import "math"

// Table is a dense row-major matrix indexed by (state index, time index).
// Cells start unset (NaN).
type Table struct {
	rows int
	cols int
	data []float64
}

// NewTable allocates a rows x cols table with every cell unset.
func NewTable(rows, cols int) *Table {
	t := &Table{
		rows: rows,
		cols: cols,
		data: make([]float64, rows*cols),
	}
	for i := range t.data {
		t.data[i] = math.NaN()
	}
	return t
}

// Rows returns the number of state indices.
func (t *Table) Rows() int { return t.rows }

// Cols returns the number of time indices.
func (t *Table) Cols() int { return t.cols }

// At returns the value stored for state index i at time k.
func (t *Table) At(i, k int) float64 {
	return t.data[i*t.cols+k]
}

// Set stores v for state index i at time k.
func (t *Table) Set(i, k int, v float64) {
	t.data[i*t.cols+k] = v
}

// Column returns a copy of the values at time k, ordered by state index.
func (t *Table) Column(k int) []float64 {
	col := make([]float64, t.rows)
	for i := range col {
		col[i] = t.data[i*t.cols+k]
	}
	return col
}

// Row returns a copy of the values for state index i, ordered by time.
func (t *Table) Row(i int) []float64 {
	row := make([]float64, t.cols)
	copy(row, t.data[i*t.cols:(i+1)*t.cols])
	return row
}

// Filled reports whether every cell has been written with a finite value.
func (t *Table) Filled() bool {
	for _, v := range t.data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
