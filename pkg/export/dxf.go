// Package export writes scene curves to CAD formats.
package export

import (
	"errors"
	"fmt"

	"github.com/chazu/aurora/pkg/scene"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
)

// ErrNoPath is returned for curves without control points.
var ErrNoPath = errors.New("export: curve has no points")

// Layer names.
const (
	LayerPath    = "AURORA_PATH"
	LayerHandles = "AURORA_HANDLES"
)

// Options controls what PathDXF draws.
type Options struct {
	// Handles draws each control point's tangent handles as two lines on
	// LayerHandles.
	Handles bool
}

// Stats counts what was drawn.
type Stats struct {
	PathLines   int
	HandleLines int
}

// PathDrawing draws every spline of c as its flattened polyline on
// LayerPath.
func PathDrawing(c *scene.CurveData, opts Options) (*drawing.Drawing, Stats, error) {
	var st Stats
	if c == nil || c.PointCount() == 0 {
		return nil, st, ErrNoPath
	}

	d := dxf.NewDrawing()
	if _, err := d.AddLayer(LayerPath, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return nil, st, err
	}
	if opts.Handles {
		if _, err := d.AddLayer(LayerHandles, color.Cyan, dxf.DefaultLineType, false); err != nil {
			return nil, st, err
		}
	}

	line := func(a, b v3.Vec) error {
		_, err := d.Line(a.X, a.Y, a.Z, b.X, b.Y, b.Z)
		return err
	}

	for _, sp := range c.Splines {
		pts := sp.Flatten()
		for i := 1; i < len(pts); i++ {
			if err := line(pts[i-1], pts[i]); err != nil {
				return nil, st, err
			}
			st.PathLines++
		}
	}

	if opts.Handles {
		if err := d.ChangeLayer(LayerHandles); err != nil {
			return nil, st, err
		}
		for _, sp := range c.Splines {
			for _, p := range sp.Points {
				for _, h := range []v3.Vec{p.HandleLeft, p.HandleRight} {
					if h == p.Co {
						continue
					}
					if err := line(p.Co, h); err != nil {
						return nil, st, err
					}
					st.HandleLines++
				}
			}
		}
	}
	return d, st, nil
}

// PathDXF writes c to the DXF file name.
func PathDXF(name string, c *scene.CurveData, opts Options) (Stats, error) {
	d, st, err := PathDrawing(c, opts)
	if err != nil {
		return st, err
	}
	if err := d.SaveAs(name); err != nil {
		return st, fmt.Errorf("export: %s: %w", name, err)
	}
	return st, nil
}
