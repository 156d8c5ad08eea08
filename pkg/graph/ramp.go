package graph

import "sort"

// RampStop is one colour stop of a ColorRamp.
type RampStop struct {
	Position float64 `json:"position"`
	Color    RGBA    `json:"color"`
}

// ColorRamp is an ordered list of stops interpolated linearly.
type ColorRamp struct {
	Stops []*RampStop `json:"stops"`
}

// NewColorRamp returns the default two-stop ramp, black at 0 and white at 1.
func NewColorRamp() *ColorRamp {
	return &ColorRamp{Stops: []*RampStop{
		{Position: 0, Color: Black},
		{Position: 1, Color: White},
	}}
}

// Stop returns the i-th stop in position order, or nil.
func (r *ColorRamp) Stop(i int) *RampStop {
	if i < 0 || i >= len(r.Stops) {
		return nil
	}
	return r.Stops[i]
}

// Add inserts a stop at pos whose colour is the ramp's current value there,
// keeping stops sorted. It returns the new stop.
func (r *ColorRamp) Add(pos float64) *RampStop {
	s := &RampStop{Position: pos, Color: r.Evaluate(pos)}
	r.Stops = append(r.Stops, s)
	r.sort()
	return s
}

// Evaluate returns the colour at fac, clamped to the outer stops.
func (r *ColorRamp) Evaluate(fac float64) RGBA {
	if len(r.Stops) == 0 {
		return Black
	}
	stops := r.sorted()
	if fac <= stops[0].Position {
		return stops[0].Color
	}
	last := stops[len(stops)-1]
	if fac >= last.Position {
		return last.Color
	}
	for i := 1; i < len(stops); i++ {
		a, b := stops[i-1], stops[i]
		if fac > b.Position {
			continue
		}
		span := b.Position - a.Position
		if span <= 0 {
			return b.Color
		}
		return a.Color.Lerp(b.Color, (fac-a.Position)/span)
	}
	return last.Color
}

func (r *ColorRamp) sort() {
	sort.SliceStable(r.Stops, func(i, j int) bool {
		return r.Stops[i].Position < r.Stops[j].Position
	})
}

// sorted returns the stops in position order without reordering r, since
// callers may hold indices while editing positions.
func (r *ColorRamp) sorted() []*RampStop {
	out := append([]*RampStop(nil), r.Stops...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})
	return out
}
