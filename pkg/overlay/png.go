package overlay

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/chazu/aurora/pkg/view"
	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dkit"
)

// Render rasterizes the overlay for vp onto a transparent image.
func (o *Overlay) Render(vp *view.Viewport) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, int(vp.Width), int(vp.Height)))
	pixels := o.Project(vp)
	gc := draw2dimg.NewGraphicContext(img)

	if len(pixels) > 1 {
		gc.SetStrokeColor(toColor(o.Style.LineColor))
		gc.SetLineWidth(o.Style.LineWidth)
		gc.MoveTo(pixels[0].X, pixels[0].Y)
		for _, p := range pixels[1:] {
			gc.LineTo(p.X, p.Y)
		}
		gc.Stroke()
	}

	gc.SetFillColor(toColor(o.Style.PointColor))
	for _, p := range pixels {
		draw2dkit.Circle(gc, p.X, p.Y, o.Style.PointSize/2)
		gc.Fill()
	}
	return img
}

// WritePNG encodes Render(vp) as PNG.
func (o *Overlay) WritePNG(w io.Writer, vp *view.Viewport) error {
	if err := png.Encode(w, o.Render(vp)); err != nil {
		return fmt.Errorf("encode overlay: %w", err)
	}
	return nil
}

// SavePNG writes Render(vp) to path.
func (o *Overlay) SavePNG(path string, vp *view.Viewport) error {
	if err := draw2dimg.SaveToPngFile(path, o.Render(vp)); err != nil {
		return fmt.Errorf("save overlay %s: %w", path, err)
	}
	return nil
}
