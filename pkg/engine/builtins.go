package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/aurora/pkg/graph"
	"github.com/chazu/aurora/pkg/view"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites preset source into something zygomys accepts:
//
//  1. :keyword becomes the string literal "__kw_keyword", so keywords need
//     no global symbols.
//  2. kebab-case identifiers become snake_case; zygomys reads a hyphen as
//     subtraction.
//  3. ; line comments become // comments.
//
// String literals are copied through untouched.
func preprocessSource(source string) string {
	out := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	for i := 0; i < len(b); {
		switch c := b[i]; {
		case c == '"':
			j := i + 1
			for j < len(b) && b[j] != '"' {
				if b[j] == '\\' && j+1 < len(b) {
					j++
				}
				j++
			}
			j = min(j+1, len(b))
			out = append(out, b[i:j]...)
			i = j

		case c == '`':
			j := i + 1
			for j < len(b) && b[j] != '`' {
				j++
			}
			j = min(j+1, len(b))
			out = append(out, b[i:j]...)
			i = j

		case c == ';':
			for i < len(b) && b[i] == ';' {
				i++
			}
			out = append(out, '/', '/')
			for i < len(b) && b[i] != '\n' {
				out = append(out, b[i])
				i++
			}

		case c == ':' && i+1 < len(b) && b[i+1] == '=':
			out = append(out, ':', '=')
			i += 2

		case c == ':' && i+1 < len(b) && isLetter(b[i+1]):
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			out = append(out, '"')
			out = append(out, kwPrefix...)
			out = append(out, b[i+1:j]...)
			out = append(out, '"')
			i = j

		case c == '-' && i > 0 && i+1 < len(b) && isIdentChar(b[i-1]) && isLetter(b[i+1]):
			out = append(out, '_')
			i++

		default:
			out = append(out, c)
			i++
		}
	}
	return string(out)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isIdentChar(c) || c == '-'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Go values carried through the interpreter
// ---------------------------------------------------------------------------

type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

type sexpColor struct {
	c graph.RGBA
}

func (c *sexpColor) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(rgba %g %g %g %g)", c.c.R, c.c.G, c.c.B, c.c.A)
}
func (c *sexpColor) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword arguments
// ---------------------------------------------------------------------------

// kwPrefix marks keyword strings produced by preprocessSource.
const kwPrefix = "__kw_"

func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs is an argument list split into keyword and positional parts.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	order      []string
	positional []zygo.Sexp
}

// parseArgs splits args. A trailing keyword with no value maps to nil.
func parseArgs(args []zygo.Sexp) kwArgs {
	res := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			res.positional = append(res.positional, args[i])
			continue
		}
		res.order = append(res.order, name)
		if i+1 < len(args) {
			res.kw[name] = args[i+1]
			i++
		} else {
			res.kw[name] = zygo.SexpNull
		}
	}
	return res
}

// ---------------------------------------------------------------------------
// Value extraction
// ---------------------------------------------------------------------------

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %s", s.SexpString(nil))
}

func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		if v.Val == math.Trunc(v.Val) {
			return int(v.Val), nil
		}
	}
	return 0, fmt.Errorf("expected integer, got %s", s.SexpString(nil))
}

func toBool(s zygo.Sexp) (bool, error) {
	switch v := s.(type) {
	case *zygo.SexpBool:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return false, nil
		}
	}
	return false, fmt.Errorf("expected true or false, got %s", s.SexpString(nil))
}

func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %s", s.SexpString(nil))
}

func toColor(s zygo.Sexp) (graph.RGBA, error) {
	if c, ok := s.(*sexpColor); ok {
		return c.c, nil
	}
	return graph.RGBA{}, fmt.Errorf("expected rgba, got %s", s.SexpString(nil))
}

// sexpListToSlice converts a list or array to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %s", s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Builtins
// ---------------------------------------------------------------------------

// paramSetters maps each aurora keyword to the field it assigns.
var paramSetters = map[string]func(p *Preset, s zygo.Sexp) error{
	"height": func(p *Preset, s zygo.Sexp) (err error) {
		p.Params.Height, err = toFloat64(s)
		return
	},
	"subdivisions": func(p *Preset, s zygo.Sexp) (err error) {
		p.Params.Resolution, err = toInt(s)
		return
	},
	"color1": func(p *Preset, s zygo.Sexp) (err error) {
		p.Params.Color1, err = toColor(s)
		return
	},
	"color2": func(p *Preset, s zygo.Sexp) (err error) {
		p.Params.Color2, err = toColor(s)
		return
	},
	"emission-strength": func(p *Preset, s zygo.Sexp) (err error) {
		p.Params.EmissionStrength, err = toFloat64(s)
		return
	},
	"noise-scale": func(p *Preset, s zygo.Sexp) (err error) {
		p.Params.NoiseScale, err = toFloat64(s)
		return
	},
	"noise-distortion": func(p *Preset, s zygo.Sexp) (err error) {
		p.Params.NoiseDistortion, err = toFloat64(s)
		return
	},
	"animate": func(p *Preset, s zygo.Sexp) (err error) {
		p.Params.Animate, err = toBool(s)
		return
	},
}

// registerBuiltins installs the preset vocabulary. Every builtin writes
// into p; later calls override earlier ones field by field.
//
// Source must go through preprocessSource first.
func registerBuiltins(env *zygo.Zlisp, p *Preset) {

	// (vec3 x y z)
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires 3 numbers, got %d", len(args))
		}
		var xyz [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %w", err)
			}
			xyz[i] = f
		}
		return &sexpVec3{vec: v3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}}, nil
	})

	// (rgba r g b) or (rgba r g b a)
	env.AddFunction("rgba", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 && len(args) != 4 {
			return zygo.SexpNull, fmt.Errorf("rgba requires 3 or 4 numbers, got %d", len(args))
		}
		ch := [4]float64{3: 1}
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("rgba: %w", err)
			}
			ch[i] = f
		}
		return &sexpColor{c: graph.RGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}}, nil
	})

	// (deg 90) converts degrees to radians.
	env.AddFunction("deg", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("deg requires 1 number")
		}
		f, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("deg: %w", err)
		}
		return &zygo.SexpFloat{Val: f * math.Pi / 180}, nil
	})

	// (aurora :height 5 :subdivisions 128 :color1 (rgba ...) ...)
	env.AddFunction("aurora", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) > 0 {
			return zygo.SexpNull, fmt.Errorf("aurora takes keyword arguments only")
		}
		for _, kw := range pa.order {
			set, ok := paramSetters[kw]
			if !ok {
				return zygo.SexpNull, fmt.Errorf("aurora: unknown keyword :%s", kw)
			}
			if err := set(p, pa.kw[kw]); err != nil {
				return zygo.SexpNull, fmt.Errorf("aurora: %s: %w", kw, err)
			}
		}
		return zygo.SexpNull, nil
	})

	// (path (vec3 ...) (vec3 ...) ...) or (path [(vec3 ...) ...])
	env.AddFunction("path", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		items := args
		if len(args) == 1 {
			if list, err := sexpListToSlice(args[0]); err == nil {
				items = list
			}
		}
		if len(items) == 0 {
			return zygo.SexpNull, fmt.Errorf("path requires at least one point")
		}
		pts := make([]v3.Vec, 0, len(items))
		for i, it := range items {
			v, err := toVec3(it)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("path: point %d: %w", i, err)
			}
			pts = append(pts, v)
		}
		p.Path = pts
		return zygo.SexpNull, nil
	})

	// (camera :position (vec3 ...) :rotation (vec3 ...) :fov (deg 50)
	//         :ortho false :ortho-scale 40)
	env.AddFunction("camera", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		cam := view.DefaultCamera()
		if p.Camera != nil {
			cam = *p.Camera
		}
		for _, kw := range pa.order {
			v := pa.kw[kw]
			var err error
			switch kw {
			case "position":
				cam.Position, err = toVec3(v)
			case "rotation":
				cam.Rotation, err = toVec3(v)
			case "fov":
				cam.FOV, err = toFloat64(v)
			case "ortho":
				cam.Ortho, err = toBool(v)
			case "ortho-scale":
				cam.OrthoScale, err = toFloat64(v)
			default:
				err = fmt.Errorf("unknown keyword :%s", kw)
			}
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("camera: %s: %w", kw, err)
			}
		}
		p.Camera = &cam
		return zygo.SexpNull, nil
	})
}
