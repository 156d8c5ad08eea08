// Package capture turns clicks in a 3D viewport into a Bezier path lying on
// the ground plane. A Session is an explicit state machine: every event is
// dispatched through a table keyed by the current state and the event's
// input class.
package capture

import (
	"errors"
	"log/slog"

	"github.com/chazu/aurora/pkg/overlay"
	"github.com/chazu/aurora/pkg/scene"
	"github.com/chazu/aurora/pkg/view"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrWrongContext is returned by Begin when the host is not showing a 3D
// view.
var ErrWrongContext = errors.New("capture: active space must be a 3D view")

// Names given to the data block and object backing the captured path.
const (
	CurveDataName   = "AuroraPath"
	CurveObjectName = "AuroraCurve"
)

// Messages reported to the host.
const (
	MsgWrongContext = "Active space must be a 3D View."
	MsgInstructions = "Click to add points. Enter/Right-click to finish. Esc to cancel."
	MsgFinished     = "Path created."
	MsgCancelled    = "Path drawing cancelled."
)

// SpaceKind identifies the editor the host is showing.
type SpaceKind int

const (
	SpaceView3D SpaceKind = iota
	SpaceProperties
	SpaceNodeEditor
)

// Cursor is the pointer shape requested from the host.
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorCrosshair
)

// ReportLevel classifies messages sent to the host.
type ReportLevel int

const (
	ReportInfo ReportLevel = iota
	ReportWarning
)

func (l ReportLevel) String() string {
	if l == ReportWarning {
		return "warning"
	}
	return "info"
}

// Host is everything a session needs from the editor it runs in.
type Host interface {
	SpaceKind() SpaceKind
	Viewport() *view.Viewport
	Scene() *scene.Scene
	SetCursor(Cursor)
	Redraw()
	Report(level ReportLevel, msg string)
	InstallOverlay(*overlay.Overlay)
	RemoveOverlay(*overlay.Overlay)
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// Session is one interactive capture, from Begin until it finishes or is
// cancelled.
type Session struct {
	host    Host
	state   State
	points  []v3.Vec
	curve   *scene.Object
	overlay *overlay.Overlay
	log     *slog.Logger
}

// Begin starts a capture session on host. If the host is not showing a 3D
// view it reports a warning and returns ErrWrongContext without changing
// anything.
func Begin(host Host, opts ...Option) (*Session, error) {
	if host.SpaceKind() != SpaceView3D {
		host.Report(ReportWarning, MsgWrongContext)
		return nil, ErrWrongContext
	}
	s := &Session{
		host:    host,
		state:   StateCapturing,
		overlay: overlay.New(),
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	host.InstallOverlay(s.overlay)
	host.SetCursor(CursorCrosshair)
	host.Report(ReportInfo, MsgInstructions)
	s.log.Debug("path capture started")
	return s, nil
}

// State returns the current state.
func (s *Session) State() State { return s.state }

// Done reports whether the session has reached a terminal state.
func (s *Session) Done() bool {
	return s.state == StateFinished || s.state == StateCancelled
}

// Points returns a copy of the captured points in click order.
func (s *Session) Points() []v3.Vec {
	return append([]v3.Vec(nil), s.points...)
}

// Curve returns the curve object built so far, or nil before the first
// valid click and after cancellation.
func (s *Session) Curve() *scene.Object { return s.curve }

// Overlay returns the overlay the session draws into.
func (s *Session) Overlay() *overlay.Overlay { return s.overlay }

// Handle dispatches ev and reports what the host should do with it.
func (s *Session) Handle(ev Event) Result {
	if s.state == StateCapturing {
		s.host.Redraw()
	}
	h, ok := transitions[transitionKey{s.state, ev.Input}]
	if !ok {
		return ResultPassThrough
	}
	return h(s, ev)
}
