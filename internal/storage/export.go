package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/ledpanel/internal/anim"
)

type ExportData struct {
	RunMetadata
	Times  []float64  `json:"times"`
	Frames [][]string `json:"frames"`
}

// ExportJSON writes a run with every pixel as a #rrggbb string.
func ExportJSON(w io.Writer, meta RunMetadata, frames []anim.Frame, times []float64) error {
	data := ExportData{
		RunMetadata: meta,
		Times:       times,
		Frames:      make([][]string, len(frames)),
	}
	for i, f := range frames {
		row := make([]string, len(f))
		for j, c := range f {
			row[j] = c.String()
		}
		data.Frames[i] = row
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
