// Package input carries pointer events from a window or terminal into a body.
//
// Positions are already in simulation space when they reach this package;
// mapping from pixels or terminal cells is the caller's job.
package input

import (
	"fmt"

	"github.com/jakecoffman/cp/v2"
	"github.com/san-kum/softbody/internal/softbody"
)

type Kind int

const (
	Press Kind = iota
	Move
	Release
)

func (k Kind) String() string {
	switch k {
	case Press:
		return "press"
	case Move:
		return "move"
	case Release:
		return "release"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func ParseKind(s string) (Kind, error) {
	switch s {
	case "press":
		return Press, nil
	case "move":
		return Move, nil
	case "release":
		return Release, nil
	}
	return 0, fmt.Errorf("unknown event kind: %q", s)
}

type Event struct {
	Kind Kind
	Pos  cp.Vector // ignored for Release
}

func PressAt(pos cp.Vector) Event { return Event{Kind: Press, Pos: pos} }
func MoveTo(pos cp.Vector) Event  { return Event{Kind: Move, Pos: pos} }
func ReleaseEvent() Event         { return Event{Kind: Release} }

// Source yields the events that arrived before a given frame.
type Source interface {
	Poll(frame int) []Event
}

// Apply forwards one event into the body's drag API.
// It reports whether the body's drag state changed.
func Apply(b *softbody.Body, ev Event) bool {
	switch ev.Kind {
	case Press:
		return b.BeginDrag(ev.Pos)
	case Move:
		if _, ok := b.Dragged(); !ok {
			return false
		}
		b.SetDragTarget(ev.Pos)
		return false
	case Release:
		_, was := b.Dragged()
		b.EndDrag()
		return was
	}
	return false
}

// Drain polls src for frame and applies every event in order.
func Drain(b *softbody.Body, src Source, frame int) int {
	if src == nil {
		return 0
	}
	events := src.Poll(frame)
	for _, ev := range events {
		Apply(b, ev)
	}
	return len(events)
}
