// Package engine evaluates aurora preset scripts. A preset is a small Lisp
// program, run in a sandboxed zygomys interpreter, that sets the Parameter
// Set and may supply a path and a camera:
//
//	(aurora :height 6 :color1 (rgba 0.1 1 0.7) :animate true)
//	(path (vec3 0 0 0) (vec3 10 0 0) (vec3 20 5 0))
package engine

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/chazu/aurora/pkg/aurora"
	"github.com/chazu/aurora/pkg/view"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError is a non-fatal error in user code: a parse error, a runtime
// error, or a parameter that failed validation.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Preset is what a script produces. Params starts at aurora.DefaultParams.
type Preset struct {
	Params aurora.Params
	Path   []v3.Vec     // nil when the script has no (path ...)
	Camera *view.Camera // nil when the script has no (camera ...)
}

// Engine evaluates presets. It is safe for concurrent use; every call gets
// a fresh sandbox.
type Engine struct {
	mu         sync.Mutex
	generation uint64
}

// NewEngine creates an Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate runs source and returns the preset it describes.
//
//   - success: preset, nil, nil
//   - bad script or invalid parameters: nil, eval errors, nil
//   - timeout, panic, or a superseded call: nil, nil, error
func (e *Engine) Evaluate(source string) (*Preset, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()
		p, evalErrs := evaluate(source)
		ch <- evalResult{preset: p, errors: evalErrs}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

func evaluate(source string) (*Preset, []EvalError) {
	p := &Preset{Params: aurora.DefaultParams()}
	if strings.TrimSpace(source) == "" {
		return p, nil
	}

	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env, p)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err)
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err)
	}
	if err := p.Params.Validate(); err != nil {
		return nil, validationErrors(err)
	}
	return p, nil
}

// validationErrors flattens a joined Params.Validate error.
func validationErrors(err error) []EvalError {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		var out []EvalError
		for _, e := range joined.Unwrap() {
			out = append(out, EvalError{Message: e.Error()})
		}
		return out
	}
	return []EvalError{{Message: err.Error()}}
}

// linePattern matches "Error on line N: ..." from the zygomys parser.
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches "line N: ...".
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into EvalErrors, pulling out
// the line number when the message has one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
