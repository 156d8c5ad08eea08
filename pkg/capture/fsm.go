package capture

import (
	"github.com/chazu/aurora/pkg/view"
)

// State is a session's lifecycle stage.
type State int

const (
	StateInactive State = iota
	StateCapturing
	StateFinished
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateCapturing:
		return "capturing"
	case StateFinished:
		return "finished"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Input classifies an event for dispatch.
type Input int

const (
	InputOther Input = iota
	InputPrimaryPress
	InputSecondary
	InputConfirm
	InputCancel
)

func (i Input) String() string {
	switch i {
	case InputPrimaryPress:
		return "primary-press"
	case InputSecondary:
		return "secondary"
	case InputConfirm:
		return "confirm"
	case InputCancel:
		return "cancel"
	default:
		return "other"
	}
}

// Event is a pointer or key event. X and Y are region coordinates with
// the origin at the bottom-left, used by pointer inputs only.
type Event struct {
	Input Input
	X, Y  float64
}

// Result tells the host how the session consumed an event.
type Result int

const (
	ResultRunning Result = iota
	ResultPassThrough
	ResultFinished
	ResultCancelled
)

func (r Result) String() string {
	switch r {
	case ResultRunning:
		return "running"
	case ResultPassThrough:
		return "pass-through"
	case ResultFinished:
		return "finished"
	case ResultCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Mouse buttons as numbered by DOM pointer events.
const (
	ButtonPrimary   = 0
	ButtonSecondary = 2
)

// ButtonInput classifies a pointer button event. The secondary button
// finishes on press or release; the primary button only adds on press.
func ButtonInput(button int, pressed bool) Input {
	switch {
	case button == ButtonPrimary && pressed:
		return InputPrimaryPress
	case button == ButtonSecondary:
		return InputSecondary
	default:
		return InputOther
	}
}

// KeyInput classifies a key by its DOM key name.
func KeyInput(key string) Input {
	switch key {
	case "Enter", "Return", "NumpadEnter":
		return InputConfirm
	case "Escape", "Esc":
		return InputCancel
	default:
		return InputOther
	}
}

type transitionKey struct {
	state State
	input Input
}

type handler func(*Session, Event) Result

var transitions = map[transitionKey]handler{
	{StateCapturing, InputPrimaryPress}: (*Session).addPoint,
	{StateCapturing, InputSecondary}:    (*Session).finish,
	{StateCapturing, InputConfirm}:      (*Session).finish,
	{StateCapturing, InputCancel}:       (*Session).cancel,
}

// addPoint unprojects the click onto z = 0. Clicks whose ray misses the
// ground are ignored.
func (s *Session) addPoint(ev Event) Result {
	p, ok := view.IntersectGround(s.host.Viewport().Unproject(ev.X, ev.Y))
	if !ok {
		s.log.Debug("click missed ground plane", "x", ev.X, "y", ev.Y)
		return ResultRunning
	}
	s.points = append(s.points, p)
	s.overlay.SetPoints(s.points)
	s.rebuildCurve()
	s.log.Debug("path point added", "index", len(s.points)-1, "x", p.X, "y", p.Y)
	return ResultRunning
}

// rebuildCurve syncs the backing curve with the captured points.
func (s *Session) rebuildCurve() {
	s.curve = SyncPath(s.host.Scene(), s.curve, s.points)
}

func (s *Session) finish(Event) Result {
	s.host.RemoveOverlay(s.overlay)
	if s.curve != nil {
		sc := s.host.Scene()
		sc.DeselectAll()
		sc.Select(s.curve, true)
		if err := sc.SetActive(s.curve); err != nil {
			s.log.Warn("activate captured path", "err", err)
		}
	}
	s.host.SetCursor(CursorDefault)
	s.host.Report(ReportInfo, MsgFinished)
	s.state = StateFinished
	s.log.Info("path capture finished", "points", len(s.points))
	return ResultFinished
}

func (s *Session) cancel(Event) Result {
	s.host.RemoveOverlay(s.overlay)
	if s.curve != nil {
		sc := s.host.Scene()
		data := s.curve.Curve
		sc.RemoveObject(s.curve)
		if data.Users() == 0 {
			sc.RemoveCurveData(data)
		}
		s.curve = nil
	}
	s.host.SetCursor(CursorDefault)
	s.host.Report(ReportInfo, MsgCancelled)
	s.state = StateCancelled
	s.log.Info("path capture cancelled")
	return ResultCancelled
}
