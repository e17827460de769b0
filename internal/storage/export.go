package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/jakecoffman/cp/v2"
	"github.com/san-kum/softbody/internal/sim"
)

var frameHeader = []string{"frame", "time", "centroid_x", "centroid_y", "kinetic_energy", "dragging"}

// WriteFramesCSV writes one row per frame. Point columns (x, y, fx, fy per
// point) are emitted only when the first frame carries points.
func WriteFramesCSV(w io.Writer, frames []sim.Frame) error {
	cw := csv.NewWriter(w)

	n := 0
	if len(frames) > 0 {
		n = len(frames[0].Points)
	}

	header := append([]string{}, frameHeader...)
	for i := 0; i < n; i++ {
		header = append(header,
			fmt.Sprintf("x%d", i), fmt.Sprintf("y%d", i),
			fmt.Sprintf("fx%d", i), fmt.Sprintf("fy%d", i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, f := range frames {
		row := []string{
			strconv.Itoa(f.Index),
			formatFloat(f.Time),
			formatFloat(f.Centroid.X),
			formatFloat(f.Centroid.Y),
			formatFloat(f.KineticEnergy),
			strconv.FormatBool(f.Dragging),
		}
		for i := 0; i < n; i++ {
			var p, force cp.Vector
			if i < len(f.Points) {
				p = f.Points[i]
			}
			if i < len(f.Forces) {
				force = f.Forces[i]
			}
			row = append(row, formatFloat(p.X), formatFloat(p.Y), formatFloat(force.X), formatFloat(force.Y))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func ReadFramesCSV(r io.Reader) ([]sim.Frame, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Frame{}, nil
	}

	frames := make([]sim.Frame, 0, len(records)-1)
	for line, record := range records[1:] {
		if len(record) < len(frameHeader) {
			continue
		}
		f, err := parseFrame(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+2, err)
		}
		frames = append(frames, f)
	}
	return frames, nil
}

func parseFrame(record []string) (sim.Frame, error) {
	var f sim.Frame
	var err error

	if f.Index, err = strconv.Atoi(record[0]); err != nil {
		return f, err
	}
	vals := make([]float64, 4)
	for i := range vals {
		if vals[i], err = strconv.ParseFloat(record[i+1], 64); err != nil {
			return f, err
		}
	}
	f.Time = vals[0]
	f.Centroid = cp.Vector{X: vals[1], Y: vals[2]}
	f.KineticEnergy = vals[3]
	if f.Dragging, err = strconv.ParseBool(record[5]); err != nil {
		return f, err
	}

	rest := record[len(frameHeader):]
	if len(rest) < 4 {
		return f, nil
	}
	n := len(rest) / 4
	f.Points = make([]cp.Vector, n)
	f.Forces = make([]cp.Vector, n)
	for i := 0; i < n; i++ {
		var v [4]float64
		for j := range v {
			if v[j], err = strconv.ParseFloat(rest[i*4+j], 64); err != nil {
				return f, err
			}
		}
		f.Points[i] = cp.Vector{X: v[0], Y: v[1]}
		f.Forces[i] = cp.Vector{X: v[2], Y: v[3]}
	}
	return f, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

type ExportData struct {
	Meta   RunMetadata   `json:"meta"`
	Frames []exportFrame `json:"frames"`
}

type exportFrame struct {
	Index         int          `json:"frame"`
	Time          float64      `json:"time"`
	Centroid      [2]float64   `json:"centroid"`
	KineticEnergy float64      `json:"kinetic_energy"`
	Dragging      bool         `json:"dragging,omitempty"`
	Points        [][2]float64 `json:"points,omitempty"`
	Forces        [][2]float64 `json:"forces,omitempty"`
}

// ExportJSON writes a run's metadata and frames as one indented document.
func ExportJSON(w io.Writer, meta RunMetadata, frames []sim.Frame) error {
	data := ExportData{
		Meta:   meta,
		Frames: make([]exportFrame, len(frames)),
	}
	for i, f := range frames {
		data.Frames[i] = exportFrame{
			Index:         f.Index,
			Time:          f.Time,
			Centroid:      [2]float64{f.Centroid.X, f.Centroid.Y},
			KineticEnergy: f.KineticEnergy,
			Dragging:      f.Dragging,
			Points:        pairs(f.Points),
			Forces:        pairs(f.Forces),
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func pairs(vs []cp.Vector) [][2]float64 {
	if vs == nil {
		return nil
	}
	out := make([][2]float64, len(vs))
	for i, v := range vs {
		out[i] = [2]float64{v.X, v.Y}
	}
	return out
}
