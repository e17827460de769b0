package input

import "github.com/jakecoffman/cp/v2"

// Pointer turns a polled button state into edge events, for windowing
// libraries that report "is the button down" rather than press and release.
type Pointer struct {
	down bool
	last cp.Vector
}

// Sample compares the current button state and position against the last
// sample and returns the events that happened in between.
func (p *Pointer) Sample(down bool, pos cp.Vector) []Event {
	var out []Event
	switch {
	case down && !p.down:
		out = append(out, PressAt(pos))
	case down && pos != p.last:
		out = append(out, MoveTo(pos))
	case !down && p.down:
		out = append(out, ReleaseEvent())
	}
	p.down = down
	p.last = pos
	return out
}

func (p *Pointer) Down() bool { return p.down }
