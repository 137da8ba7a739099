// Package config reads batch job files.
//
// A job file lists the names to print and the parameters they share, in
// YAML or TOML:
//
//	preset: longneck
//	output: out
//	segments: 96
//	defaults:
//	  gap: 110
//	  text_color: navy
//	names: [Ada, Grace]
//	clips:
//	  - name: Linus
//	    preset: steinie
//	    bg_color: orange
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/bottleclip"
)

// Format is a job file encoding.
type Format string

// Supported formats.
const (
	YAML Format = "yaml"
	TOML Format = "toml"
)

// DefaultOutput is the output directory of a job that names none.
const DefaultOutput = "out"

var (
	// ErrUnknownFormat is returned for files that are neither YAML nor TOML.
	ErrUnknownFormat = errors.New("config: unknown job file format")

	// ErrNoClips is returned for jobs without names or clips.
	ErrNoClips = errors.New("config: job lists no clips")
)

// Overrides holds parameter values set by a job file. Nil fields keep the
// value inherited from the enclosing level.
type Overrides struct {
	RU        *float64 `yaml:"ru" toml:"ru"`
	RL        *float64 `yaml:"rl" toml:"rl"`
	HT        *float64 `yaml:"ht" toml:"ht"`
	Width     *float64 `yaml:"width" toml:"width"`
	Name      *string  `yaml:"name" toml:"name"`
	Gap       *float64 `yaml:"gap" toml:"gap"`
	Logo      *string  `yaml:"logo" toml:"logo"`
	Font      *string  `yaml:"font" toml:"font"`
	BgColor   *string  `yaml:"bg_color" toml:"bg_color"`
	TextColor *string  `yaml:"text_color" toml:"text_color"`
	LogoColor *string  `yaml:"logo_color" toml:"logo_color"`
}

// Apply returns p with every set field of o.
func (o Overrides) Apply(p bottleclip.Params) bottleclip.Params {
	setFloat(&p.RU, o.RU)
	setFloat(&p.RL, o.RL)
	setFloat(&p.HT, o.HT)
	setFloat(&p.Width, o.Width)
	setFloat(&p.Gap, o.Gap)
	setString(&p.Name, o.Name)
	setString(&p.Logo, o.Logo)
	setString(&p.Font, o.Font)
	setString(&p.BgColor, o.BgColor)
	setString(&p.TextColor, o.TextColor)
	setString(&p.LogoColor, o.LogoColor)
	return p
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// Clip is one explicitly configured clip.
type Clip struct {
	// Preset overrides the job preset for this clip.
	Preset string `yaml:"preset" toml:"preset"`

	Overrides `yaml:",inline"`
}

// Job is a decoded job file.
type Job struct {
	// Preset names the bottle form factor of every clip. Empty means the
	// dimensions come from the parameters alone.
	Preset string `yaml:"preset" toml:"preset"`

	// Output is the directory exports are written to.
	Output string `yaml:"output" toml:"output"`

	// Segments is the circle resolution of exported OpenSCAD files.
	Segments int `yaml:"segments" toml:"segments"`

	// Jobs bounds concurrent renders.
	Jobs int `yaml:"jobs" toml:"jobs"`

	// Defaults apply to every clip.
	Defaults Overrides `yaml:"defaults" toml:"defaults"`

	// Names adds one clip per entry with the defaults.
	Names []string `yaml:"names" toml:"names"`

	Clips []Clip `yaml:"clips" toml:"clips"`
}

// Load reads a job file, choosing the format by extension.
func Load(path string) (*Job, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	// #nosec G304 -- job path is provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	job, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return job, nil
}

// FormatOf returns the format of a job file from its extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// Decode reads a job in the given format. Unknown keys are errors.
func Decode(r io.Reader, format Format) (*Job, error) {
	var job Job
	switch format {
	case YAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&job); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	case TOML:
		dec := toml.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&job); err != nil {
			return nil, fmt.Errorf("config: parse toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if job.Output == "" {
		job.Output = DefaultOutput
	}
	return &job, nil
}

// Params expands the job into one parameter set per clip: names first, then
// clips, in file order.
//
// Each set starts from bottleclip.DefaultParams, takes the job defaults,
// then the clip's own overrides. A preset is applied last, so its bottle
// dimensions win over configured ones.
func (j *Job) Params() ([]bottleclip.Params, error) {
	if len(j.Names) == 0 && len(j.Clips) == 0 {
		return nil, ErrNoClips
	}

	base := j.Defaults.Apply(bottleclip.DefaultParams())
	out := make([]bottleclip.Params, 0, len(j.Names)+len(j.Clips))
	for _, name := range j.Names {
		p := base
		p.Name = name
		p, err := withPreset(j.Preset, p)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	for i, c := range j.Clips {
		preset := j.Preset
		if c.Preset != "" {
			preset = c.Preset
		}
		p, err := withPreset(preset, c.Overrides.Apply(base))
		if err != nil {
			return nil, fmt.Errorf("config: clip %d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func withPreset(name string, p bottleclip.Params) (bottleclip.Params, error) {
	if name == "" {
		return p, nil
	}
	preset, err := bottleclip.LookupPreset(name)
	if err != nil {
		return p, err
	}
	return preset.Apply(p), nil
}
