package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/ledpanel/internal/anim"
	"github.com/san-kum/ledpanel/internal/color"
)

func sampleFrames() ([]anim.Frame, []float64) {
	return []anim.Frame{
			{{R: 255}, {G: 128}, {}},
			{{R: 1, G: 2, B: 3}, {}, {B: 255}},
		},
		[]float64{0.033333, 0.066667}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	frames, times := sampleFrames()
	meta := RunMetadata{
		Animation: "fire",
		Params:    anim.Values{"cooling": 55},
		Seed:      42,
		Dt:        1.0 / 30,
		Metrics:   map[string]float64{"lit": 0.5},
	}
	runID, err := st.Save(meta, frames, times)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	got, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.Animation != "fire" || got.Seed != 42 {
		t.Errorf("unexpected metadata %+v", got)
	}
	if got.Frames != 2 || got.Pixels != 3 {
		t.Errorf("expected 2 frames of 3 pixels, got %d of %d", got.Frames, got.Pixels)
	}
	if got.Params["cooling"] != 55 || got.Metrics["lit"] != 0.5 {
		t.Errorf("params or metrics lost: %v %v", got.Params, got.Metrics)
	}

	loaded, loadedTimes, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(loaded) != 2 || len(loadedTimes) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(loaded))
	}
	for i := range frames {
		if !loaded[i].Equal(frames[i]) {
			t.Errorf("frame %d: got %v, want %v", i, loaded[i], frames[i])
		}
	}
	if loadedTimes[1] != 0.066667 {
		t.Errorf("expected time 0.066667, got %f", loadedTimes[1])
	}
}

func TestStoreSave_Mismatch(t *testing.T) {
	st := New(t.TempDir())
	frames, _ := sampleFrames()
	if _, err := st.Save(RunMetadata{Animation: "x"}, frames, []float64{0}); err == nil {
		t.Error("expected error for missing times")
	}
	ragged := []anim.Frame{{{}, {}}, {{}}}
	if _, err := st.Save(RunMetadata{Animation: "x"}, ragged, []float64{0, 1}); err == nil {
		t.Error("expected error for ragged frames")
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	frames, times := sampleFrames()
	first, err := st.Save(RunMetadata{Animation: "wave"}, frames, times)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := st.Save(RunMetadata{Animation: "fire"}, frames, times); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != first {
		t.Errorf("expected oldest run first, got %s", runs[0].ID)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	frames, times := sampleFrames()
	runID, err := st.Save(RunMetadata{Animation: "sparkle"}, frames, times)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	for _, name := range []string{"metadata.json", "frames.csv"} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestLoadFrames_BadPixel(t *testing.T) {
	tmpDir := t.TempDir()
	runDir := filepath.Join(tmpDir, "broken")
	if err := os.MkdirAll(runDir, 0755); err != nil {
		t.Fatal(err)
	}
	csv := "time,p0\n0.1,zzzzzz\n"
	if err := os.WriteFile(filepath.Join(runDir, "frames.csv"), []byte(csv), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := New(tmpDir).LoadFrames("broken"); err == nil {
		t.Error("expected error for bad pixel")
	}
}

func TestExportJSON(t *testing.T) {
	frames, times := sampleFrames()
	var buf bytes.Buffer
	if err := ExportJSON(&buf, RunMetadata{Animation: "fire"}, frames, times); err != nil {
		t.Fatal(err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if data.Animation != "fire" || len(data.Frames) != 2 {
		t.Fatalf("unexpected export %+v", data)
	}
	if data.Frames[0][0] != (color.RGB{R: 255}).String() {
		t.Errorf("expected #ff0000, got %s", data.Frames[0][0])
	}
}
