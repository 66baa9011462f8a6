package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/gridopt/internal/dp"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Problem   string             `json:"problem"`
	Params    map[string]float64 `json:"params,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	X0        float64            `json:"x0"`
	Horizon   int                `json:"horizon"`
	States    GridInfo           `json:"state_grid"`
	Controls  GridInfo           `json:"control_grid"`
	Cost      float64            `json:"cost"`
	Elapsed   time.Duration      `json:"elapsed_ns"`
	Metrics   map[string]float64 `json:"metrics"`
}

type GridInfo struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Points int     `json:"points"`
}

func DescribeGrid(g dp.Grid) GridInfo {
	return GridInfo{Min: g.Min(), Max: g.Max(), Points: g.Len()}
}

// Save writes a run directory holding metadata.json and trajectory.csv.
// ID and Timestamp are filled in when empty.
func (s *Store) Save(meta RunMetadata, result *dp.Result) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("%s_%d", meta.Problem, meta.Timestamp.UnixNano())
	}
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeMetadata(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeTrajectory(filepath.Join(runDir, trajectoryFile), result); err != nil {
		return "", err
	}

	return meta.ID, nil
}

func writeMetadata(path string, meta RunMetadata) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}

func writeTrajectory(path string, result *dp.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(file)
	if err := w.Write([]string{"k", "x", "u"}); err != nil {
		file.Close()
		return err
	}

	for k, x := range result.States {
		row := []string{strconv.Itoa(k), strconv.FormatFloat(x, 'g', -1, 64), ""}
		if k < len(result.Controls) {
			row[2] = strconv.FormatFloat(result.Controls[k], 'g', -1, 64)
		}
		if err := w.Write(row); err != nil {
			file.Close()
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}

// List returns all readable runs, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadTrajectory reads back the realized states and controls of a run.
func (s *Store) LoadTrajectory(runID string) (states, controls []float64, err error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, nil, err
	}

	states = make([]float64, 0, len(records))
	controls = make([]float64, 0, len(records))
	for i, record := range records {
		if i == 0 {
			continue
		}
		if len(record) != 3 {
			return nil, nil, fmt.Errorf("%s line %d: expected 3 fields, got %d", trajectoryFile, i+1, len(record))
		}

		x, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%s line %d: %w", trajectoryFile, i+1, err)
		}
		states = append(states, x)

		if record[2] == "" {
			continue
		}
		u, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%s line %d: %w", trajectoryFile, i+1, err)
		}
		controls = append(controls, u)
	}

	return states, controls, nil
}
