package overlay

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
	"github.com/chazu/aurora/pkg/view"
)

// WriteSVG draws the overlay for vp as a standalone SVG document.
func (o *Overlay) WriteSVG(w io.Writer, vp *view.Viewport) error {
	pixels := o.Project(vp)
	canvas := svg.New(w)
	canvas.Start(int(vp.Width), int(vp.Height))

	if len(pixels) > 1 {
		xs := make([]int, len(pixels))
		ys := make([]int, len(pixels))
		for i, p := range pixels {
			xs[i], ys[i] = int(math.Round(p.X)), int(math.Round(p.Y))
		}
		canvas.Polyline(xs, ys, fmt.Sprintf("fill:none;stroke:%s;stroke-opacity:%g;stroke-width:%g",
			cssColor(o.Style.LineColor), o.Style.LineColor.A, o.Style.LineWidth))
	}

	r := int(math.Max(1, math.Round(o.Style.PointSize/2)))
	style := fmt.Sprintf("fill:%s;fill-opacity:%g", cssColor(o.Style.PointColor), o.Style.PointColor.A)
	for _, p := range pixels {
		canvas.Circle(int(math.Round(p.X)), int(math.Round(p.Y)), r, style)
	}

	canvas.End()
	return nil
}
