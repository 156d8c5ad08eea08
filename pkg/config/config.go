// Package config reads and writes aurora configuration files. A file holds
// a Parameter Set, the viewport camera and size, an optional path, and the
// log level. The format follows the file extension: .toml, .yaml/.yml, or
// .aurora for a preset script.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/aurora/pkg/aurora"
	"github.com/chazu/aurora/pkg/engine"
	"github.com/chazu/aurora/pkg/view"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnsupportedFormat = errors.New("config: unsupported file format")
	ErrInvalid           = errors.New("config: invalid configuration")
)

// Format is a configuration encoding.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
	FormatPreset // read-only
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	case FormatPreset:
		return "preset"
	default:
		return "unknown"
	}
}

// FormatOf picks the format from a file name's extension.
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".aurora":
		return FormatPreset, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// Viewport is the drawing region size in pixels.
type Viewport struct {
	Width  int `json:"width" toml:"width" yaml:"width"`
	Height int `json:"height" toml:"height" yaml:"height"`
}

// Log configures the application logger.
type Log struct {
	Level string `json:"level" toml:"level" yaml:"level"` // debug, info, warn, error
}

// SlogLevel parses Level. An empty level is info.
func (l Log) SlogLevel() (slog.Level, error) {
	var lv slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := lv.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("%w: log level: %w", ErrInvalid, err)
	}
	return lv, nil
}

// File is the full configuration.
type File struct {
	Aurora   aurora.Params `json:"aurora" toml:"aurora" yaml:"aurora"`
	Camera   view.Camera   `json:"camera" toml:"camera" yaml:"camera"`
	Viewport Viewport      `json:"viewport" toml:"viewport" yaml:"viewport"`
	Path     []v3.Vec      `json:"path,omitempty" toml:"path,omitempty" yaml:"path,omitempty"`
	Log      Log           `json:"log" toml:"log" yaml:"log"`
}

// Default returns the configuration used when no file is given.
func Default() File {
	return File{
		Aurora:   aurora.DefaultParams(),
		Camera:   view.DefaultCamera(),
		Viewport: Viewport{Width: 1280, Height: 720},
		Log:      Log{Level: "info"},
	}
}

// Validate checks the Parameter Set, the viewport and the log level.
func (f File) Validate() error {
	var errs []error
	if err := f.Aurora.Validate(); err != nil {
		errs = append(errs, err)
	}
	if f.Viewport.Width <= 0 || f.Viewport.Height <= 0 {
		errs = append(errs, fmt.Errorf("%w: viewport %dx%d", ErrInvalid, f.Viewport.Width, f.Viewport.Height))
	}
	if !f.Camera.Ortho && !(f.Camera.FOV > 0) {
		errs = append(errs, fmt.Errorf("%w: camera fov %v", ErrInvalid, f.Camera.FOV))
	}
	if f.Camera.Ortho && !(f.Camera.OrthoScale > 0) {
		errs = append(errs, fmt.Errorf("%w: camera ortho_scale %v", ErrInvalid, f.Camera.OrthoScale))
	}
	if _, err := f.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Load reads the file at name over Default and validates the result.
func Load(name string) (File, error) {
	format, err := FormatOf(name)
	if err != nil {
		return File{}, err
	}
	fp, err := os.Open(name)
	if err != nil {
		return File{}, fmt.Errorf("config: %w", err)
	}
	defer fp.Close()
	f, err := Read(bufio.NewReader(fp), format)
	if err != nil {
		return File{}, fmt.Errorf("config: %s: %w", name, err)
	}
	return f, nil
}

// Read decodes r over Default and validates the result. Unknown keys are
// errors.
func Read(r io.Reader, format Format) (File, error) {
	f := Default()
	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return File{}, err
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return File{}, err
		}
	case FormatPreset:
		if err := readPreset(r, &f); err != nil {
			return File{}, err
		}
	default:
		return File{}, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
	if err := f.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

func readPreset(r io.Reader, f *File) error {
	src, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	p, evalErrs, err := engine.NewEngine().Evaluate(string(src))
	if err != nil {
		return err
	}
	if len(evalErrs) > 0 {
		errs := make([]error, len(evalErrs))
		for i, e := range evalErrs {
			errs[i] = e
		}
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	f.Aurora = p.Params
	f.Path = p.Path
	if p.Camera != nil {
		f.Camera = *p.Camera
	}
	return nil
}

// Save writes f to name in the format its extension names.
func Save(name string, f File) error {
	format, err := FormatOf(name)
	if err != nil {
		return err
	}
	fp, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := Write(fp, format, f); err != nil {
		fp.Close()
		return fmt.Errorf("config: %s: %w", name, err)
	}
	return fp.Close()
}

// Write encodes f. Presets cannot be written.
func Write(w io.Writer, format Format, f File) error {
	switch format {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(f)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("%w: cannot write %v", ErrUnsupportedFormat, format)
}
