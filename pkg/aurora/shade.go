package aurora

import (
	"fmt"
	"regexp"

	"github.com/chazu/aurora/pkg/graph"
	"github.com/chazu/aurora/pkg/scene"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// socketPath matches F-curve data paths that key a node input's default.
var socketPath = regexp.MustCompile(`^nodes\["([^"]+)"\]\.inputs\["([^"]+)"\]\.default_value$`)

// Pose writes the material's animated socket values at frame into its
// graph and returns a function restoring the previous values.
func Pose(mat *scene.Material, frame float64) (restore func(), err error) {
	type saved struct {
		sock *graph.Socket
		s    graph.Socket
	}
	var undo []saved
	restore = func() {
		for i := len(undo) - 1; i >= 0; i-- {
			*undo[i].sock = undo[i].s
		}
	}
	if !mat.Animation.Animated() {
		return restore, nil
	}
	for _, fc := range mat.Animation.Action.FCurves {
		m := socketPath.FindStringSubmatch(fc.DataPath)
		if m == nil {
			continue
		}
		node := mat.Graph.Lookup(m[1])
		if node == nil {
			restore()
			return func() {}, fmt.Errorf("pose %s: no node %q", mat.Name, m[1])
		}
		sock := node.Input(m[2])
		if sock == nil {
			restore()
			return func() {}, fmt.Errorf("pose %s: %w: %s.%s", mat.Name, graph.ErrUnknownSocket, m[1], m[2])
		}
		undo = append(undo, saved{sock, *sock})
		v := fc.Evaluate(frame)
		switch sock.Type {
		case graph.SocketVector:
			setAxis(&sock.Vector, fc.Index, v)
		case graph.SocketFloat:
			sock.Float = v
		case graph.SocketColor:
			setChannel(&sock.Color, fc.Index, v)
		}
	}
	return restore, nil
}

func setAxis(v *v3.Vec, i int, x float64) {
	switch i {
	case 0:
		v.X = x
	case 1:
		v.Y = x
	case 2:
		v.Z = x
	}
}

func setChannel(c *graph.RGBA, i int, x float64) {
	switch i {
	case 0:
		c.R = x
	case 1:
		c.G = x
	case 2:
		c.B = x
	case 3:
		c.A = x
	}
}

// Shade evaluates mat at one sample and frame.
func Shade(mat *scene.Material, s graph.Sample, frame float64) (graph.Shader, error) {
	restore, err := Pose(mat, frame)
	if err != nil {
		return graph.Shader{}, err
	}
	defer restore()
	return graph.Evaluate(mat.Graph, s)
}

// Swatch samples mat up the centre of its texture space, bottom to top,
// at frame. steps must be at least 2.
func Swatch(mat *scene.Material, frame float64, steps int) ([]graph.Shader, error) {
	if steps < 2 {
		return nil, fmt.Errorf("swatch: steps = %d, want >= 2", steps)
	}
	restore, err := Pose(mat, frame)
	if err != nil {
		return nil, err
	}
	defer restore()

	out := make([]graph.Shader, steps)
	for i := range out {
		y := float64(i) / float64(steps-1)
		sh, err := graph.Evaluate(mat.Graph, graph.Sample{Generated: v3.Vec{X: 0.5, Y: y, Z: 0.5}})
		if err != nil {
			return nil, err
		}
		out[i] = sh
	}
	return out, nil
}
