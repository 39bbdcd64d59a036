// Package storage keeps recorded frame sequences on disk, one directory per
// run holding metadata.json and frames.csv.
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

	"github.com/san-kum/ledpanel/internal/anim"
	"github.com/san-kum/ledpanel/internal/color"
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
	Animation string             `json:"animation"`
	Params    anim.Values        `json:"params"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Frames    int                `json:"frames"`
	Pixels    int                `json:"pixels"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes a new run. ID, Timestamp, Frames and Pixels of meta are
// filled in from the recording.
func (s *Store) Save(meta RunMetadata, frames []anim.Frame, times []float64) (string, error) {
	if len(times) != len(frames) {
		return "", fmt.Errorf("storage: %d frames but %d times", len(frames), len(times))
	}
	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%d", meta.Animation, now.UnixNano())
	meta.Timestamp = now
	meta.Frames = len(frames)
	if len(frames) > 0 {
		meta.Pixels = len(frames[0])
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "frames.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	header := make([]string, 0, meta.Pixels+1)
	header = append(header, "time")
	for i := 0; i < meta.Pixels; i++ {
		header = append(header, fmt.Sprintf("p%d", i))
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for i, f := range frames {
		if len(f) != meta.Pixels {
			return "", fmt.Errorf("storage: frame %d has %d pixels, want %d", i, len(f), meta.Pixels)
		}
		row := make([]string, 0, len(f)+1)
		row = append(row, strconv.FormatFloat(times[i], 'f', 6, 64))
		for _, c := range f {
			row = append(row, hex(c))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// List returns every readable run, oldest first.
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
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadFrames reads the recorded frames of a run and their timestamps.
func (s *Store) LoadFrames(runID string) ([]anim.Frame, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "frames.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []anim.Frame{}, []float64{}, nil
	}

	frames := make([]anim.Frame, 0, len(records)-1)
	times := make([]float64, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("storage: row %d: %w", i+1, err)
		}
		f := make(anim.Frame, len(record)-1)
		for j, cell := range record[1:] {
			c, err := parseHex(cell)
			if err != nil {
				return nil, nil, fmt.Errorf("storage: row %d pixel %d: %w", i+1, j, err)
			}
			f[j] = c
		}
		frames = append(frames, f)
		times = append(times, t)
	}
	return frames, times, nil
}

func hex(c color.RGB) string {
	return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
}

func parseHex(s string) (color.RGB, error) {
	if len(s) != 6 {
		return color.RGB{}, fmt.Errorf("bad pixel %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGB{}, fmt.Errorf("bad pixel %q", s)
	}
	return color.RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}
