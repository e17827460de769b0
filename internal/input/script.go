package input

import (
	"fmt"
	"os"
	"sort"

	"github.com/jakecoffman/cp/v2"
	"gopkg.in/yaml.v3"
)

// Step is one scheduled event in a script file.
type Step struct {
	Frame int     `yaml:"frame"`
	Kind  string  `yaml:"kind"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
}

// Script replays a fixed list of events by frame number.
type Script struct {
	byFrame map[int][]Event
	frames  []int
}

func NewScript(steps []Step) (*Script, error) {
	s := &Script{byFrame: make(map[int][]Event)}
	for i, st := range steps {
		if st.Frame < 0 {
			return nil, fmt.Errorf("step %d: negative frame %d", i, st.Frame)
		}
		kind, err := ParseKind(st.Kind)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		if _, seen := s.byFrame[st.Frame]; !seen {
			s.frames = append(s.frames, st.Frame)
		}
		s.byFrame[st.Frame] = append(s.byFrame[st.Frame], Event{Kind: kind, Pos: cp.Vector{X: st.X, Y: st.Y}})
	}
	sort.Ints(s.frames)
	return s, nil
}

// LoadScript reads a YAML list of steps.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var steps []Step
	if err := yaml.Unmarshal(data, &steps); err != nil {
		return nil, fmt.Errorf("parse script %s: %w", path, err)
	}
	return NewScript(steps)
}

func (s *Script) Poll(frame int) []Event {
	return s.byFrame[frame]
}

// Len is the number of scheduled events.
func (s *Script) Len() int {
	n := 0
	for _, evs := range s.byFrame {
		n += len(evs)
	}
	return n
}

// LastFrame is the highest frame with an event, or -1.
func (s *Script) LastFrame() int {
	if len(s.frames) == 0 {
		return -1
	}
	return s.frames[len(s.frames)-1]
}

// Queue is a Source fed by a live UI; every Poll drains whatever was pushed.
type Queue struct {
	pending []Event
}

func (q *Queue) Push(ev Event) { q.pending = append(q.pending, ev) }

func (q *Queue) Poll(int) []Event {
	out := q.pending
	q.pending = nil
	return out
}
