package capture

import (
	"github.com/chazu/aurora/pkg/scene"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// SyncPath makes curve's first spline pass through pts with automatic
// handles and returns it. A nil curve is created as CurveObjectName and
// linked into sc. The spline grows to fit pts and never shrinks.
func SyncPath(sc *scene.Scene, curve *scene.Object, pts []v3.Vec) *scene.Object {
	if curve == nil {
		data := sc.NewCurveData(CurveDataName)
		data.NewSpline()
		curve = sc.NewObject(CurveObjectName, data)
		sc.Link(curve)
	}
	spline := curve.Curve.Splines[0]
	if missing := len(pts) - len(spline.Points); missing > 0 {
		spline.Grow(missing)
	}
	for i, p := range pts {
		bp := spline.Points[i]
		bp.Co = p
		bp.HandleLeftType = scene.HandleAuto
		bp.HandleRightType = scene.HandleAuto
	}
	spline.RecalcHandles()
	return curve
}
