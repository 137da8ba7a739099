package openscad

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/gogpu/bottleclip"
)

// fakeRenderer writes a shell script standing in for openscad. It copies
// the input to the output so tests can see which file was rendered.
func fakeRenderer(t *testing.T, body string) Runner {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script renderer")
	}
	bin := filepath.Join(t.TempDir(), "openscad")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(bin, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return Runner{Binary: bin}
}

const copyScript = `[ "$1" = "-o" ] || exit 2
cp "$3" "$2"`

func testParams() bottleclip.Params {
	p := bottleclip.DefaultParams()
	p.Name = "Ada"
	return p
}

func TestFileName(t *testing.T) {
	tests := []struct {
		name, color, want string
	}{
		{"Ada", "white", "ada-white"},
		{"", "black", "clip-black"},
		{"Jo Ann", "#FF0000", "jo_ann-ff0000"},
		{"Zoë", "navy", "zoë-navy"},
	}
	for _, tt := range tests {
		if got := FileName(tt.name, tt.color); got != tt.want {
			t.Errorf("FileName(%q, %q) = %q, want %q", tt.name, tt.color, got, tt.want)
		}
	}
}

func TestWritePasses(t *testing.T) {
	out := t.TempDir()
	e := &Exporter{Dir: "..", Segments: 48}
	files, err := e.WritePasses(context.Background(), testParams(), out)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d passes, want 2", len(files))
	}

	for _, f := range files {
		if f.STL != "" {
			t.Errorf("%s: STL = %q before rendering", f.Color, f.STL)
		}
		src, err := os.ReadFile(f.SCAD)
		if err != nil {
			t.Fatal(err)
		}
		s := string(src)
		if !strings.Contains(s, "$fn = 48;") {
			t.Errorf("%s: missing segment count", f.Color)
		}
		if !strings.Contains(s, `color("`+f.Color+`")`) {
			t.Errorf("%s: missing own color tag", f.Color)
		}
		for _, other := range files {
			if other.Color != f.Color && strings.Contains(s, `color("`+other.Color+`")`) {
				t.Errorf("%s: contains %s geometry", f.Color, other.Color)
			}
		}
		if strings.Contains(s, "import(") {
			t.Errorf("%s: svg logo was not inlined", f.Color)
		}
	}
	if got := filepath.Base(files[0].SCAD); got != "ada-white.scad" {
		t.Errorf("first pass = %s, want ada-white.scad", got)
	}
}

func TestWritePassesKeepsUnreadableImports(t *testing.T) {
	p := testParams()
	p.Logo = "logos/stann.dxf"
	p.LogoColor = "red"

	e := &Exporter{Dir: ".."}
	files, err := e.WritePasses(context.Background(), p, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 3 {
		t.Fatalf("got %d passes, want 3", len(files))
	}
	src, err := os.ReadFile(files[2].SCAD)
	if err != nil {
		t.Fatal(err)
	}
	root, _ := filepath.Abs("..")
	want := `import("` + filepath.ToSlash(filepath.Join(root, "logos/stann.dxf")) + `");`
	if !strings.Contains(string(src), want) {
		t.Errorf("logo pass does not contain %s:\n%s", want, src)
	}
}

func TestWritePassesSkipsEmptyPasses(t *testing.T) {
	steinie, err := bottleclip.LookupPreset("steinie")
	if err != nil {
		t.Fatal(err)
	}
	p := testParams()
	p.LogoColor = "red"

	out := t.TempDir()
	e := &Exporter{Dir: "..", Build: steinie.Build}
	files, err := e.WritePasses(context.Background(), p, out)
	if err != nil {
		t.Fatal(err)
	}
	// The preset drops the logo, so the red pass holds nothing.
	var colors []string
	for _, f := range files {
		colors = append(colors, f.Color)
	}
	if strings.Join(colors, ",") != "white,black" {
		t.Errorf("passes = %v, want [white black]", colors)
	}
	if _, err := os.Stat(filepath.Join(out, "ada-red.scad")); !os.IsNotExist(err) {
		t.Errorf("empty red pass was written (stat err %v)", err)
	}

	// Without a name the navy text pass is empty after lowering.
	p = testParams()
	p.Name = ""
	p.TextColor = "navy"
	files, err = e.WritePasses(context.Background(), p, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range files {
		if f.Color == "navy" {
			t.Error("blank text pass was written")
		}
	}
}

func TestExportPassesWithPreset(t *testing.T) {
	steinie, err := bottleclip.LookupPreset("steinie")
	if err != nil {
		t.Fatal(err)
	}
	p := testParams()
	p.LogoColor = "red"

	e := &Exporter{Dir: "..", Build: steinie.Build, Runner: fakeRenderer(t, copyScript)}
	files, err := e.ExportPasses(context.Background(), p, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d rendered passes, want 2", len(files))
	}
	for _, f := range files {
		if _, err := os.Stat(f.STL); err != nil {
			t.Errorf("%s: %v", f.Color, err)
		}
	}
}

func TestExportPasses(t *testing.T) {
	out := t.TempDir()
	e := &Exporter{Dir: "..", Runner: fakeRenderer(t, copyScript), Jobs: 1}
	files, err := e.ExportPasses(context.Background(), testParams(), out)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range files {
		want := strings.TrimSuffix(f.SCAD, ".scad") + ".stl"
		if f.STL != want {
			t.Errorf("%s: STL = %q, want %q", f.Color, f.STL, want)
		}
		scadSrc, err := os.ReadFile(f.SCAD)
		if err != nil {
			t.Fatal(err)
		}
		stl, err := os.ReadFile(f.STL)
		if err != nil {
			t.Fatalf("%s: %v", f.Color, err)
		}
		if string(stl) != string(scadSrc) {
			t.Errorf("%s: rendered the wrong source", f.Color)
		}
	}
}

func TestExportPassesRenderFailure(t *testing.T) {
	e := &Exporter{Dir: "..", Runner: fakeRenderer(t, "echo 'ERROR: Parser error' >&2\nexit 1")}
	_, err := e.ExportPasses(context.Background(), testParams(), t.TempDir())

	var re *RenderError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want *RenderError", err)
	}
	if !strings.Contains(re.Error(), "Parser error") {
		t.Errorf("error %q does not carry renderer output", re.Error())
	}
}

func TestRunnerNotFound(t *testing.T) {
	r := Runner{Binary: "no-such-openscad-binary"}
	err := r.Render(context.Background(), "in.scad", "out.stl")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRunnerCanceled(t *testing.T) {
	r := fakeRenderer(t, "sleep 5")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Render(ctx, "in.scad", "out.stl")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestTail(t *testing.T) {
	if got := tail("a\nb\nc\n", 2); got != "b\nc" {
		t.Errorf("tail = %q", got)
	}
	if got := tail("a", 5); got != "a" {
		t.Errorf("tail = %q", got)
	}
}
