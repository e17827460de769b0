package export

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/jakecoffman/cp/v2"
	"github.com/san-kum/softbody/internal/softbody"
)

func TestFrameSVG(t *testing.T) {
	points := []cp.Vector{{X: 10, Y: 10}, {X: 20, Y: 10}, {X: 15, Y: 20}}
	forces := []cp.Vector{{X: 1000, Y: 0}, {}, {X: 0, Y: -1000}}

	svg := FrameSVG(points, forces, softbody.Bounds{Width: 100, Height: 50}, DefaultSVGOptions())

	if err := xml.Unmarshal([]byte(svg), new(struct{})); err != nil {
		t.Fatalf("invalid svg: %v", err)
	}
	for _, want := range []string{
		`width="100" height="50"`,
		`stroke="#ff0000"`,
		`points="10.00,10.00 20.00,10.00 15.00,20.00"`,
		`<line x1="10.00" y1="10.00" x2="13.00" y2="10.00"/>`,
		`<line x1="15.00" y1="20.00" x2="15.00" y2="17.00"/>`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("missing %q in:\n%s", want, svg)
		}
	}
}

func TestFrameSVGWithoutForces(t *testing.T) {
	points := []cp.Vector{{X: 10, Y: 10}, {X: 20, Y: 10}, {X: 15, Y: 20}}
	svg := FrameSVG(points, nil, softbody.Bounds{Width: 100, Height: 50}, DefaultSVGOptions())
	if strings.Contains(svg, "<line") {
		t.Error("expected no force lines")
	}
}

func TestTrajectoryToSVG(t *testing.T) {
	if TrajectoryToSVG([]cp.Vector{{X: 1, Y: 1}}, 100, 100, "#fff") != "" {
		t.Error("expected empty output for a single point")
	}

	svg := TrajectoryToSVG([]cp.Vector{{X: 0, Y: 0}, {X: 10, Y: 10}}, 120, 120, "#00ff00")
	if !strings.Contains(svg, "M10.0,10.0 L110.0,110.0") {
		t.Errorf("unexpected path:\n%s", svg)
	}
}
