package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/chazu/aurora/pkg/aurora"
	"github.com/chazu/aurora/pkg/capture"
	"github.com/chazu/aurora/pkg/config"
	"github.com/chazu/aurora/pkg/engine"
	"github.com/chazu/aurora/pkg/export"
	"github.com/chazu/aurora/pkg/graph"
	"github.com/chazu/aurora/pkg/kernel"
	"github.com/chazu/aurora/pkg/kernel/sdfx"
	"github.com/chazu/aurora/pkg/overlay"
	"github.com/chazu/aurora/pkg/scene"
	"github.com/chazu/aurora/pkg/tessellate"
	"github.com/chazu/aurora/pkg/view"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"
	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// ErrCaptureActive is reported when a capture is started while another one
// is still running.
var ErrCaptureActive = errors.New("a path capture is already running")

// Frontend event names.
const (
	EventRedraw = "aurora:redraw"
	EventReport = "aurora:report"
)

// MsgSelectCurve is shown while no curve is active.
const MsgSelectCurve = "Select a Curve object to generate."

// App is the Wails backend. Bound methods are called concurrently by the
// runtime and serialized on mu.
type App struct {
	ctx context.Context
	log *slog.Logger

	mu       sync.Mutex
	engine   *engine.Engine
	scene    *scene.Scene
	compiler *aurora.Compiler
	viewport *view.Viewport
	space    capture.SpaceKind
	params   aurora.Params

	session  *capture.Session
	overlay  *overlay.Overlay // installed by the running session
	cursor   capture.Cursor
	last     ReportData
	artifact *aurora.Artifact
}

// AppOption configures an App.
type AppOption func(*App)

// WithLogger sets the application logger.
func WithLogger(l *slog.Logger) AppOption {
	return func(a *App) { a.log = l }
}

// OperatorResult is what the two user-facing operations return.
type OperatorResult struct {
	OK     bool   `json:"ok"`
	Status string `json:"status"`
}

// ReportData is a message for the status bar.
type ReportData struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// PanelState drives the side panel.
type PanelState struct {
	Params     aurora.Params `json:"params"`
	CanCompile bool          `json:"canCompile"`
	Hint       string        `json:"hint"`
	Capturing  bool          `json:"capturing"`
	Cursor     string        `json:"cursor"`
	Last       ReportData    `json:"last"`
}

// MeshData is the JSON mesh format sent to the frontend.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
}

// PreviewResult is the evaluated scene.
type PreviewResult struct {
	Meshes []MeshData `json:"meshes"`
	Errors []string   `json:"errors"`
}

// EvalErrorData is a JSON-serializable preset error.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// PresetResult is returned by LoadPreset.
type PresetResult struct {
	OperatorResult
	Errors []EvalErrorData `json:"errors"`
}

// NewApp creates an App with an empty scene, default parameters, and an
// 800x600 viewport.
func NewApp(opts ...AppOption) *App {
	a := &App{
		log:      slog.Default(),
		engine:   engine.NewEngine(),
		scene:    scene.New(),
		viewport: view.NewViewport(800, 600),
		space:    capture.SpaceView3D,
		params:   aurora.DefaultParams(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.compiler = aurora.NewCompiler(a.scene, aurora.WithLogger(a.log))
	return a
}

// startup is called by Wails; the context is kept for runtime events.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

func (a *App) emit(name string, data ...any) {
	if a.ctx != nil {
		runtime.EventsEmit(a.ctx, name, data...)
	}
}

// ---------------------------------------------------------------------------
// capture.Host
// ---------------------------------------------------------------------------

// host adapts App to capture.Host. Its methods run with a.mu held.
type host struct{ a *App }

var _ capture.Host = host{}

func (h host) SpaceKind() capture.SpaceKind { return h.a.space }
func (h host) Viewport() *view.Viewport     { return h.a.viewport }
func (h host) Scene() *scene.Scene          { return h.a.scene }
func (h host) SetCursor(c capture.Cursor)   { h.a.cursor = c }
func (h host) Redraw()                      { h.a.emit(EventRedraw) }

func (h host) Report(level capture.ReportLevel, msg string) {
	h.a.report(level.String(), msg)
}

func (h host) InstallOverlay(o *overlay.Overlay) { h.a.overlay = o }

func (h host) RemoveOverlay(o *overlay.Overlay) {
	if h.a.overlay == o {
		h.a.overlay = nil
	}
}

func (a *App) report(level, msg string) {
	a.last = ReportData{Level: level, Message: msg}
	if level == "warning" {
		a.log.Warn(msg)
	} else {
		a.log.Info(msg)
	}
	a.emit(EventReport, a.last)
}

// ---------------------------------------------------------------------------
// Editor context
// ---------------------------------------------------------------------------

var spaceNames = map[string]capture.SpaceKind{
	"VIEW_3D":     capture.SpaceView3D,
	"PROPERTIES":  capture.SpaceProperties,
	"NODE_EDITOR": capture.SpaceNodeEditor,
}

// SetSpace records which editor the frontend is showing.
func (a *App) SetSpace(name string) error {
	k, ok := spaceNames[name]
	if !ok {
		return fmt.Errorf("unknown space %q", name)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.space = k
	return nil
}

// Resize sets the viewport size in pixels.
func (a *App) Resize(width, height float64) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid viewport size %gx%g", width, height)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.viewport.Width, a.viewport.Height = width, height
	return nil
}

// SetCamera replaces the viewport camera.
func (a *App) SetCamera(c view.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.viewport.Camera = c
}

// Panel returns the side panel state.
func (a *App) Panel() PanelState {
	a.mu.Lock()
	defer a.mu.Unlock()
	ps := PanelState{
		Params:    a.params,
		Capturing: a.capturing(),
		Cursor:    "default",
		Last:      a.last,
	}
	if a.cursor == capture.CursorCrosshair {
		ps.Cursor = "crosshair"
	}
	if act := a.scene.Active(); act != nil && act.Kind == scene.KindCurve {
		ps.CanCompile = true
	} else {
		ps.Hint = MsgSelectCurve
	}
	return ps
}

// ---------------------------------------------------------------------------
// Path capture
// ---------------------------------------------------------------------------

func (a *App) capturing() bool {
	return a.session != nil && !a.session.Done()
}

// BeginPathCapture starts an interactive path capture in the viewport.
func (a *App) BeginPathCapture() OperatorResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.capturing() {
		return OperatorResult{Status: ErrCaptureActive.Error()}
	}
	s, err := capture.Begin(host{a}, capture.WithLogger(a.log))
	if err != nil {
		return OperatorResult{Status: a.last.Message}
	}
	a.session = s
	return OperatorResult{OK: true, Status: a.last.Message}
}

// PointerEvent forwards a pointer button event. x and y are DOM client
// coordinates with the origin at the top-left of the viewport.
func (a *App) PointerEvent(x, y float64, button int, pressed bool) string {
	return a.handle(capture.Event{
		Input: capture.ButtonInput(button, pressed),
		X:     x,
		Y:     a.flipY(y),
	})
}

// KeyEvent forwards a key press by its DOM key name.
func (a *App) KeyEvent(key string) string {
	return a.handle(capture.Event{Input: capture.KeyInput(key)})
}

func (a *App) flipY(y float64) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.viewport.Height - y
}

func (a *App) handle(ev capture.Event) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.capturing() {
		return capture.ResultPassThrough.String()
	}
	return a.session.Handle(ev).String()
}

// OverlaySVG draws the running capture's overlay. It is empty when no
// capture is running.
func (a *App) OverlaySVG() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.overlay == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := a.overlay.WriteSVG(&buf, a.viewport); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// OverlayPNG returns the overlay as a PNG data URL.
func (a *App) OverlayPNG() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.overlay == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := a.overlay.WritePNG(&buf, a.viewport); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// ---------------------------------------------------------------------------
// Effect compile
// ---------------------------------------------------------------------------

// CompileEffect builds or rebuilds the aurora for the active curve.
func (a *App) CompileEffect(p aurora.Params) OperatorResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	art, err := a.compiler.Compile(p)
	switch {
	case errors.Is(err, aurora.ErrNoCurveSelected):
		a.report("warning", MsgSelectCurve)
		return OperatorResult{Status: MsgSelectCurve}
	case err != nil:
		a.report("warning", err.Error())
		return OperatorResult{Status: err.Error()}
	}
	a.params = p
	a.artifact = art
	a.report("info", art.Status)
	return OperatorResult{OK: true, Status: art.Status}
}

// Preview evaluates every mesh in the scene through its modifiers.
func (a *App) Preview() PreviewResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	res := PreviewResult{Meshes: []MeshData{}, Errors: []string{}}
	meshes, err := tessellate.Tessellate(a.scene)
	if err != nil {
		a.log.Error("tessellate", "err", err)
		res.Errors = append(res.Errors, "tessellation failed: "+err.Error())
		return res
	}
	color := hexColor(a.params.Color1)
	res.Meshes = lo.Map(meshes, func(m *kernel.Mesh, _ int) MeshData {
		return MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			Name:     m.Name,
			Color:    color,
		}
	})
	return res
}

// Swatch samples the last compiled material bottom to top at frame and
// returns CSS rgba() colours with emission normalized to [0, 1].
func (a *App) Swatch(frame float64, steps int) ([]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.artifact == nil {
		return []string{}, nil
	}
	shaders, err := aurora.Swatch(a.artifact.Material, frame, steps)
	if err != nil {
		return nil, err
	}
	strength := a.params.EmissionStrength
	return lo.Map(shaders, func(s graph.Shader, _ int) string {
		c := s.Emission
		if strength > 0 {
			c = graph.RGBA{R: c.R / strength, G: c.G / strength, B: c.B / strength}
		}
		return fmt.Sprintf("rgba(%d,%d,%d,%.3f)", channel(c.R), channel(c.G), channel(c.B), s.Alpha)
	}), nil
}

func channel(x float64) int {
	return int(lo.Clamp(x, 0, 1)*255 + 0.5)
}

func hexColor(c graph.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", channel(c.R), channel(c.G), channel(c.B))
}

// ---------------------------------------------------------------------------
// Presets and configuration
// ---------------------------------------------------------------------------

// LoadPreset evaluates a preset script. Its parameters become the panel's
// parameters, its path becomes the active curve, and its camera replaces
// the viewport camera.
func (a *App) LoadPreset(source string) PresetResult {
	res := PresetResult{Errors: []EvalErrorData{}}
	p, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		a.log.Error("preset evaluation", "err", err)
		res.Status = err.Error()
		res.Errors = append(res.Errors, EvalErrorData{Message: err.Error()})
		return res
	}
	if len(evalErrs) > 0 {
		res.Status = "preset has errors"
		for _, e := range evalErrs {
			res.Errors = append(res.Errors, EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message})
		}
		return res
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.apply(p.Params, p.Camera, p.Path)
	res.OK, res.Status = true, "Preset loaded."
	return res
}

// LoadConfig reads a .toml, .yaml or .aurora configuration file.
func (a *App) LoadConfig(path string) OperatorResult {
	f, err := config.Load(path)
	if err != nil {
		return OperatorResult{Status: err.Error()}
	}
	a.configure(f)
	return OperatorResult{OK: true, Status: "Configuration loaded."}
}

func (a *App) configure(f config.File) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.viewport.Width = float64(f.Viewport.Width)
	a.viewport.Height = float64(f.Viewport.Height)
	a.apply(f.Aurora, &f.Camera, f.Path)
}

// SaveConfig writes the current parameters, camera and viewport.
func (a *App) SaveConfig(path string) OperatorResult {
	a.mu.Lock()
	f := config.Default()
	f.Aurora = a.params
	f.Camera = a.viewport.Camera
	f.Viewport = config.Viewport{Width: int(a.viewport.Width), Height: int(a.viewport.Height)}
	a.mu.Unlock()

	if err := config.Save(path, f); err != nil {
		return OperatorResult{Status: err.Error()}
	}
	return OperatorResult{OK: true, Status: "Configuration saved."}
}

func (a *App) apply(p aurora.Params, cam *view.Camera, path []v3.Vec) {
	a.params = p
	if cam != nil {
		a.viewport.Camera = *cam
	}
	if len(path) == 0 {
		return
	}
	curve := capture.SyncPath(a.scene, nil, path)
	a.scene.DeselectAll()
	a.scene.Select(curve, true)
	if err := a.scene.SetActive(curve); err != nil {
		a.log.Warn("activate preset path", "err", err)
	}
}

// ---------------------------------------------------------------------------
// Export
// ---------------------------------------------------------------------------

// ExportSTL writes every evaluated mesh to a binary STL file.
func (a *App) ExportSTL(path string) OperatorResult {
	a.mu.Lock()
	meshes, err := tessellate.Tessellate(a.scene)
	a.mu.Unlock()
	if err == nil {
		err = sdfx.SaveSTL(path, meshes...)
	}
	if err != nil {
		return OperatorResult{Status: err.Error()}
	}
	return OperatorResult{OK: true, Status: fmt.Sprintf("Exported %d mesh(es) to %s.", len(meshes), path)}
}

// ExportPathDXF writes the active curve, with its handles, to a DXF file.
func (a *App) ExportPathDXF(path string) OperatorResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	act := a.scene.Active()
	if act == nil || act.Kind != scene.KindCurve {
		return OperatorResult{Status: MsgSelectCurve}
	}
	st, err := export.PathDXF(path, act.Curve, export.Options{Handles: true})
	if err != nil {
		return OperatorResult{Status: err.Error()}
	}
	return OperatorResult{OK: true, Status: fmt.Sprintf("Exported %d path segments to %s.", st.PathLines, path)}
}
