package scene

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// DefaultResolution is the number of samples per Bezier segment used when a
// curve is flattened.
const DefaultResolution = 12

// HandleType says how a Bezier handle is positioned.
type HandleType int

const (
	HandleFree   HandleType = iota // user-placed
	HandleAuto                     // smooth, computed from neighbours
	HandleVector                   // points at the adjacent control point
)

func (h HandleType) String() string {
	switch h {
	case HandleFree:
		return "free"
	case HandleAuto:
		return "auto"
	case HandleVector:
		return "vector"
	default:
		return "unknown"
	}
}

// BezierPoint is a control point with its two tangent handles.
type BezierPoint struct {
	Co              v3.Vec     `json:"co"`
	HandleLeft      v3.Vec     `json:"handle_left"`
	HandleRight     v3.Vec     `json:"handle_right"`
	HandleLeftType  HandleType `json:"handle_left_type"`
	HandleRightType HandleType `json:"handle_right_type"`
}

// Spline is a single Bezier spline.
type Spline struct {
	Points     []*BezierPoint `json:"points"`
	Resolution int            `json:"resolution"`
}

// Grow appends n control points at the origin.
func (s *Spline) Grow(n int) {
	for i := 0; i < n; i++ {
		s.Points = append(s.Points, &BezierPoint{})
	}
}

// RecalcHandles positions every auto and vector handle. An auto point's
// handles lie on the line through its neighbours, each a third of the way
// to the neighbour on its side.
func (s *Spline) RecalcHandles() {
	n := len(s.Points)
	for i, p := range s.Points {
		var prev, next *BezierPoint
		if i > 0 {
			prev = s.Points[i-1]
		}
		if i < n-1 {
			next = s.Points[i+1]
		}

		var dir v3.Vec
		switch {
		case prev != nil && next != nil:
			dir = next.Co.Sub(prev.Co)
		case next != nil:
			dir = next.Co.Sub(p.Co)
		case prev != nil:
			dir = p.Co.Sub(prev.Co)
		}
		if dir.Length() > 0 {
			dir = dir.Normalize()
		}

		if p.HandleLeftType == HandleAuto {
			d := 0.0
			if prev != nil {
				d = p.Co.Sub(prev.Co).Length() / 3
			} else if next != nil {
				d = next.Co.Sub(p.Co).Length() / 3
			}
			p.HandleLeft = p.Co.Sub(dir.MulScalar(d))
		} else if p.HandleLeftType == HandleVector && prev != nil {
			p.HandleLeft = p.Co.Add(prev.Co.Sub(p.Co).MulScalar(1.0 / 3))
		}

		if p.HandleRightType == HandleAuto {
			d := 0.0
			if next != nil {
				d = next.Co.Sub(p.Co).Length() / 3
			} else if prev != nil {
				d = p.Co.Sub(prev.Co).Length() / 3
			}
			p.HandleRight = p.Co.Add(dir.MulScalar(d))
		} else if p.HandleRightType == HandleVector && next != nil {
			p.HandleRight = p.Co.Add(next.Co.Sub(p.Co).MulScalar(1.0 / 3))
		}
	}
}

// Flatten samples the spline into a polyline with Resolution samples per
// segment. A single point yields itself.
func (s *Spline) Flatten() []v3.Vec {
	if len(s.Points) == 0 {
		return nil
	}
	res := s.Resolution
	if res <= 0 {
		res = DefaultResolution
	}
	out := []v3.Vec{s.Points[0].Co}
	for i := 1; i < len(s.Points); i++ {
		a, b := s.Points[i-1], s.Points[i]
		for k := 1; k <= res; k++ {
			out = append(out, cubic(a.Co, a.HandleRight, b.HandleLeft, b.Co, float64(k)/float64(res)))
		}
	}
	return out
}

func cubic(p0, p1, p2, p3 v3.Vec, t float64) v3.Vec {
	u := 1 - t
	return p0.MulScalar(u * u * u).
		Add(p1.MulScalar(3 * u * u * t)).
		Add(p2.MulScalar(3 * u * t * t)).
		Add(p3.MulScalar(t * t * t))
}

// CurveData is a curve data block holding Bezier splines.
type CurveData struct {
	Block
	Is3D    bool      `json:"is_3d"`
	Splines []*Spline `json:"splines"`
}

// NewSpline appends an empty Bezier spline.
func (c *CurveData) NewSpline() *Spline {
	s := &Spline{Resolution: DefaultResolution}
	c.Splines = append(c.Splines, s)
	return s
}

// PointCount returns the control point count over all splines.
func (c *CurveData) PointCount() int {
	n := 0
	for _, s := range c.Splines {
		n += len(s.Points)
	}
	return n
}
