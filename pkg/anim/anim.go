// Package anim holds keyframe animation data attached to appearance
// resources: an action of F-curves, each a sorted list of keyframes on one
// channel of a property, optionally repeated by modifiers.
package anim

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Interpolation is how a segment between two keyframes is evaluated.
type Interpolation int

const (
	InterpBezier Interpolation = iota // smooth ease, the insert default
	InterpLinear
	InterpConstant
)

func (i Interpolation) String() string {
	switch i {
	case InterpBezier:
		return "bezier"
	case InterpLinear:
		return "linear"
	case InterpConstant:
		return "constant"
	default:
		return "unknown"
	}
}

// Keyframe is a value pinned at a frame. Interpolation applies to the
// segment that starts at this key.
type Keyframe struct {
	Frame         float64       `json:"frame"`
	Value         float64       `json:"value"`
	Interpolation Interpolation `json:"interpolation"`
}

// Modifier post-processes F-curve evaluation.
type Modifier interface {
	// Remap maps the requested frame into the curve's keyed range.
	Remap(frame, first, last float64) float64
}

// Cycles repeats the keyed range before and after itself indefinitely.
type Cycles struct{}

// Remap folds frame into [first, last).
func (Cycles) Remap(frame, first, last float64) float64 {
	period := last - first
	if period <= 0 {
		return frame
	}
	return first + math.Mod(math.Mod(frame-first, period)+period, period)
}

// FCurve animates a single channel (Index) of the property at DataPath.
type FCurve struct {
	DataPath  string     `json:"data_path"`
	Index     int        `json:"index"`
	Keyframes []Keyframe `json:"keyframes"`
	Modifiers []Modifier `json:"-"`
}

// Insert adds a key at frame, replacing any key already there.
func (fc *FCurve) Insert(frame, value float64) {
	for i := range fc.Keyframes {
		if fc.Keyframes[i].Frame == frame {
			fc.Keyframes[i].Value = value
			return
		}
	}
	fc.Keyframes = append(fc.Keyframes, Keyframe{Frame: frame, Value: value, Interpolation: InterpBezier})
	sort.Slice(fc.Keyframes, func(i, j int) bool {
		return fc.Keyframes[i].Frame < fc.Keyframes[j].Frame
	})
}

// SetInterpolation changes every key's interpolation.
func (fc *FCurve) SetInterpolation(ip Interpolation) {
	for i := range fc.Keyframes {
		fc.Keyframes[i].Interpolation = ip
	}
}

// AddModifier appends m to the modifier stack.
func (fc *FCurve) AddModifier(m Modifier) {
	fc.Modifiers = append(fc.Modifiers, m)
}

// HasCycles reports whether a Cycles modifier is present.
func (fc *FCurve) HasCycles() bool {
	for _, m := range fc.Modifiers {
		if _, ok := m.(Cycles); ok {
			return true
		}
	}
	return false
}

// Evaluate returns the curve's value at frame.
func (fc *FCurve) Evaluate(frame float64) float64 {
	keys := fc.Keyframes
	if len(keys) == 0 {
		return 0
	}
	first, last := keys[0].Frame, keys[len(keys)-1].Frame
	for _, m := range fc.Modifiers {
		frame = m.Remap(frame, first, last)
	}
	if frame <= first {
		return keys[0].Value
	}
	if frame >= last {
		return keys[len(keys)-1].Value
	}
	i := sort.Search(len(keys), func(i int) bool { return keys[i].Frame > frame })
	a, b := keys[i-1], keys[i]
	t := (frame - a.Frame) / (b.Frame - a.Frame)
	switch a.Interpolation {
	case InterpConstant:
		return a.Value
	case InterpLinear:
		return a.Value + (b.Value-a.Value)*t
	default:
		// Smoothstep stands in for auto-clamped bezier handles.
		s := t * t * (3 - 2*t)
		return a.Value + (b.Value-a.Value)*s
	}
}

// Action is a named set of F-curves.
type Action struct {
	Name    string    `json:"name"`
	FCurves []*FCurve `json:"fcurves"`
}

// Find returns the F-curve for (path, index), or nil.
func (a *Action) Find(path string, index int) *FCurve {
	for _, fc := range a.FCurves {
		if fc.DataPath == path && fc.Index == index {
			return fc
		}
	}
	return nil
}

// WithSuffix returns the F-curves whose data path ends with suffix.
func (a *Action) WithSuffix(suffix string) []*FCurve {
	var out []*FCurve
	for _, fc := range a.FCurves {
		if strings.HasSuffix(fc.DataPath, suffix) {
			out = append(out, fc)
		}
	}
	return out
}

// Data is the animation slot of an animatable resource. A nil *Data or a
// nil Action means the resource is not animated.
type Data struct {
	Action *Action `json:"action,omitempty"`
}

// Animated reports whether d carries an action.
func (d *Data) Animated() bool {
	return d != nil && d.Action != nil
}

// InsertVector keys every channel of a vector property at frame, creating
// the action and F-curves on first use. owner names the action.
func InsertVector(slot **Data, owner, path string, frame float64, value [3]float64) {
	if *slot == nil {
		*slot = &Data{}
	}
	d := *slot
	if d.Action == nil {
		d.Action = &Action{Name: fmt.Sprintf("%sAction", owner)}
	}
	for i, v := range value {
		fc := d.Action.Find(path, i)
		if fc == nil {
			fc = &FCurve{DataPath: path, Index: i}
			d.Action.FCurves = append(d.Action.FCurves, fc)
		}
		fc.Insert(frame, v)
	}
}
