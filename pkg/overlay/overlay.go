// Package overlay draws the in-progress path over the viewport while a
// capture session runs: a line strip through the captured points and a
// marker on each point.
package overlay

import (
	"fmt"
	"image/color"
	"math"
	"sync"

	"github.com/chazu/aurora/pkg/graph"
	"github.com/chazu/aurora/pkg/view"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Style holds the overlay's colours and sizes.
type Style struct {
	LineColor  graph.RGBA `json:"line_color"`
	PointColor graph.RGBA `json:"point_color"`
	PointSize  float64    `json:"point_size"` // pixels, diameter
	LineWidth  float64    `json:"line_width"`
}

// DefaultStyle is a light grey strip with blue point markers.
func DefaultStyle() Style {
	return Style{
		LineColor:  graph.RGBA{R: 0.8, G: 0.8, B: 0.8, A: 1},
		PointColor: graph.RGBA{R: 0.2, G: 0.5, B: 1.0, A: 1},
		PointSize:  5,
		LineWidth:  1,
	}
}

// Overlay is a snapshot of captured world points plus the style used to
// draw them. It is safe for concurrent use: the capture session writes it
// while UI bindings render it.
type Overlay struct {
	Style Style

	mu     sync.RWMutex
	points []v3.Vec
}

// New returns an empty overlay with DefaultStyle.
func New() *Overlay {
	return &Overlay{Style: DefaultStyle()}
}

// SetPoints replaces the drawn points with a copy of pts.
func (o *Overlay) SetPoints(pts []v3.Vec) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.points = append(o.points[:0:0], pts...)
}

// Points returns a copy of the drawn points.
func (o *Overlay) Points() []v3.Vec {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return append([]v3.Vec(nil), o.points...)
}

// Len returns the number of drawn points.
func (o *Overlay) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.points)
}

// Pixel is a point in top-left-origin image coordinates.
type Pixel struct{ X, Y float64 }

// Project maps the points into image space for vp. Points the camera
// cannot see are dropped.
func (o *Overlay) Project(vp *view.Viewport) []Pixel {
	pts := o.Points()
	out := make([]Pixel, 0, len(pts))
	for _, p := range pts {
		x, y, ok := vp.Project(p)
		if !ok {
			continue
		}
		out = append(out, Pixel{X: x, Y: vp.Height - y})
	}
	return out
}

// toColor converts a linear [0,1] colour to 8-bit RGBA.
func toColor(c graph.RGBA) color.RGBA {
	ch := func(v float64) uint8 {
		return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
	}
	return color.RGBA{R: ch(c.R * c.A), G: ch(c.G * c.A), B: ch(c.B * c.A), A: ch(c.A)}
}

// cssColor formats c for an SVG style attribute.
func cssColor(c graph.RGBA) string {
	k := toColor(graph.RGBA{R: c.R, G: c.G, B: c.B, A: 1})
	return fmt.Sprintf("rgb(%d,%d,%d)", k.R, k.G, k.B)
}
