package openscad

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/gogpu/bottleclip"
)

// DefaultBinary is the renderer looked up on PATH when Runner.Binary is empty.
const DefaultBinary = "openscad"

// ErrNotFound is returned when the renderer binary cannot be located.
var ErrNotFound = errors.New("openscad: binary not found")

// RenderError reports a failed renderer run with the tail of its output.
type RenderError struct {
	Input  string
	Output string
	Err    error
}

func (e *RenderError) Error() string {
	msg := fmt.Sprintf("openscad: render %s: %v", e.Input, e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\n" + out
	}
	return msg
}

func (e *RenderError) Unwrap() error { return e.Err }

// Runner renders OpenSCAD files.
type Runner struct {
	// Binary is the renderer executable. Empty means DefaultBinary.
	Binary string

	// Args are extra arguments placed before the output flag, for example
	// "--backend=manifold".
	Args []string
}

func (r Runner) binary() string {
	if r.Binary == "" {
		return DefaultBinary
	}
	return r.Binary
}

// LookPath reports the resolved renderer path.
func (r Runner) LookPath() (string, error) {
	p, err := exec.LookPath(r.binary())
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, r.binary())
	}
	return p, nil
}

// Render runs the renderer on in and writes the mesh to out. The output
// format follows the extension of out.
func (r Runner) Render(ctx context.Context, in, out string) error {
	bin, err := r.LookPath()
	if err != nil {
		return err
	}

	args := append(append([]string(nil), r.Args...), "-o", out, in)
	cmd := exec.CommandContext(ctx, bin, args...)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	bottleclip.Logger().Debug("openscad render", "bin", bin, "in", in, "out", out)
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return &RenderError{Input: in, Output: tail(buf.String(), 20), Err: err}
	}
	return nil
}

// tail returns the last n lines of s.
func tail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
