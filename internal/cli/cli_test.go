package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/matzehuels/darkroom/pkg/border"
	"github.com/matzehuels/darkroom/pkg/errors"
	"github.com/matzehuels/darkroom/pkg/preset"
)

// syncWriter serializes writes from the spinner goroutine and the test.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })
	return &buf
}

// testEnv is a throwaway config with cache and presets under one temp dir.
type testEnv struct {
	dir    string
	config string
}

func newTestEnv(t *testing.T, extra string) testEnv {
	t.Helper()
	dir := t.TempDir()
	cfg := fmt.Sprintf("[cache]\ndir = %q\n\n[presets]\ndir = %q\n\n%s",
		filepath.Join(dir, "cache"), filepath.Join(dir, "presets"), extra)
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return testEnv{dir: dir, config: path}
}

func (e testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := captureStdout(t)
	captureStderr(t)
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(append([]string{"--config", e.config}, args...))
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestBorderCommand(t *testing.T) {
	env := newTestEnv(t, "")

	out, err := env.run(t, "border", "-p", "8x10", "-r", "3:2", "-b", "0.5")
	if err != nil {
		t.Fatalf("border: %v", err)
	}
	for _, want := range []string{"9.00 x 6.00 in", "share code:", "Blades"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestBorderCommandJSON(t *testing.T) {
	env := newTestEnv(t, "")

	out, err := env.run(t, "border", "--json", "--h-offset", "0.25", "--v-offset", "0.5")
	if err != nil {
		t.Fatalf("border --json: %v", err)
	}
	var calc border.PrintCalculation
	if err := json.Unmarshal([]byte(out), &calc); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if math.Abs(calc.PrintWidth-9) > 1e-9 || math.Abs(calc.Borders.Top-1.5) > 1e-9 {
		t.Errorf("print %v, top border %v; want 9 and 1.5", calc.PrintWidth, calc.Borders.Top)
	}
	if len(calc.Warnings) == 0 {
		t.Error("clamped offset raised no warning")
	}
}

func TestBorderCommandOffsetDirection(t *testing.T) {
	env := newTestEnv(t, "")

	tests := []struct {
		name         string
		args         []string
		wide, narrow func(border.Borders) float64
		wantWide     float64
		wantNarrow   float64
	}{
		{
			name:       "positive vertical widens top",
			args:       []string{"--landscape=false", "--v-offset", "0.5"},
			wide:       func(b border.Borders) float64 { return b.Top },
			narrow:     func(b border.Borders) float64 { return b.Bottom },
			wantWide:   2,
			wantNarrow: 1,
		},
		{
			name:       "positive horizontal widens right",
			args:       []string{"--h-offset", "0.5"},
			wide:       func(b border.Borders) float64 { return b.Right },
			narrow:     func(b border.Borders) float64 { return b.Left },
			wantWide:   2,
			wantNarrow: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"border", "--json", "-p", "8x10", "-r", "1:1", "-b", "0.5"}, tt.args...)
			out, err := env.run(t, args...)
			if err != nil {
				t.Fatal(err)
			}
			var calc border.PrintCalculation
			if err := json.Unmarshal([]byte(out), &calc); err != nil {
				t.Fatalf("decode %q: %v", out, err)
			}
			if math.Abs(tt.wide(calc.Borders)-tt.wantWide) > 1e-9 || math.Abs(tt.narrow(calc.Borders)-tt.wantNarrow) > 1e-9 {
				t.Errorf("borders = %+v, want %v on the offset side and %v opposite", calc.Borders, tt.wantWide, tt.wantNarrow)
			}
		})
	}
}

func TestBorderCommandNonFinite(t *testing.T) {
	env := newTestEnv(t, "")

	for _, args := range [][]string{
		{"border", "-p", "custom", "--paper-width", "NaN", "--paper-height", "10"},
		{"optimal", "-b", "NaN"},
	} {
		if _, err := env.run(t, args...); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("%v: error = %v, want %s", args, err, errors.ErrCodeInvalidInput)
		}
	}
}

func TestBorderCommandFromCode(t *testing.T) {
	env := newTestEnv(t, "")

	out, err := env.run(t, "border", "--json", "--code", "VGVzdC0wLTMtNTAtMC0xMDAwMC0xMg")
	if err != nil {
		t.Fatalf("border --code: %v", err)
	}
	var calc border.PrintCalculation
	if err := json.Unmarshal([]byte(out), &calc); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if math.Abs(calc.PrintWidth-9) > 1e-9 || math.Abs(calc.PrintHeight-6) > 1e-9 {
		t.Errorf("print = %vx%v, want 9x6", calc.PrintWidth, calc.PrintHeight)
	}

	_, err = env.run(t, "border", "--code", "!!!")
	if !errors.Is(err, errors.ErrCodeInvalidPreset) {
		t.Errorf("bad code error = %v, want %s", err, errors.ErrCodeInvalidPreset)
	}
}

func TestOptimalCommand(t *testing.T) {
	env := newTestEnv(t, "")

	out, err := env.run(t, "optimal", "-b", "0.6")
	if err != nil {
		t.Fatalf("optimal: %v", err)
	}
	if !strings.Contains(out, "Optimal minimum border") {
		t.Errorf("output missing headline:\n%s", out)
	}
}

func TestFeatureDisabled(t *testing.T) {
	env := newTestEnv(t, "[features]\noptimal_border = false\nexposure = false\n")

	tests := [][]string{
		{"optimal"},
		{"exposure", "stops", "-t", "10", "-s", "1"},
	}
	for _, args := range tests {
		t.Run(args[0], func(t *testing.T) {
			_, err := env.run(t, args...)
			if !errors.Is(err, errors.ErrCodeFeatureDisabled) {
				t.Errorf("error = %v, want %s", err, errors.ErrCodeFeatureDisabled)
			}
		})
	}
}

func TestPreviewCommandSVG(t *testing.T) {
	env := newTestEnv(t, "")
	path := filepath.Join(env.dir, "out", "print.svg")

	out, err := env.run(t, "preview", "-o", path, "--dimensions")
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read preview: %v", err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Errorf("%s is not an SVG", path)
	}
	if !strings.Contains(out, "fresh") {
		t.Errorf("first render not reported fresh:\n%s", out)
	}

	out, err = env.run(t, "preview", "-o", path, "--dimensions")
	if err != nil {
		t.Fatalf("second preview: %v", err)
	}
	if !strings.Contains(out, "cached") {
		t.Errorf("second render not reported cached:\n%s", out)
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		formats []string
		want    map[string]string
	}{
		{"default single", "", []string{"svg"}, map[string]string{"svg": "darkroom-preview.svg"}},
		{"explicit file", "print.svg", []string{"svg"}, map[string]string{"svg": "print.svg"}},
		{"adds extension", "print", []string{"png"}, map[string]string{"png": "print.png"}},
		{"base path", "out/print.svg", []string{"svg", "pdf"}, map[string]string{"svg": "out/print.svg", "pdf": "out/print.pdf"}},
		{"default several", "", []string{"svg", "json"}, map[string]string{"svg": "darkroom-preview.svg", "json": "darkroom-preview.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPaths(tt.output, tt.formats)
			if len(got) != len(tt.want) {
				t.Fatalf("outputPaths = %v, want %v", got, tt.want)
			}
			for f, p := range tt.want {
				if got[f] != p {
					t.Errorf("path[%s] = %q, want %q", f, got[f], p)
				}
			}
		})
	}
}

func TestPresetCommands(t *testing.T) {
	env := newTestEnv(t, "")

	out, err := env.run(t, "preset", "encode", "-n", "Test")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	p, err := preset.Decode(strings.TrimSpace(out))
	if err != nil {
		t.Fatalf("decode encoded %q: %v", out, err)
	}
	if p.Name != "Test" || p.PaperSize != "8x10" || !p.IsLandscape || !p.ShowBladeReadings {
		t.Errorf("encoded preset = %+v", p)
	}

	out, err = env.run(t, "preset", "decode", "VGVzdC0wLTMtNTAtMC0xMDAwMC0xMg")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(out, "Test") || !strings.Contains(out, "8x10") {
		t.Errorf("decode output:\n%s", out)
	}

	if _, err := env.run(t, "preset", "decode", "garbage"); err == nil {
		t.Error("strict decode of garbage succeeded")
	}
	out, err = env.run(t, "preset", "decode", "--lenient", "garbage")
	if err != nil || !strings.Contains(out, "Default") {
		t.Errorf("lenient decode = %q, %v", out, err)
	}

	out, err = env.run(t, "preset", "save", "-n", "Portrait", "-p", "11x14", "-r", "6:4.5")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.Contains(out, "Saved preset") {
		t.Errorf("save output:\n%s", out)
	}

	out, err = env.run(t, "preset", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "Portrait") || !strings.Contains(out, "11x14") {
		t.Errorf("list output:\n%s", out)
	}

	_, err = env.run(t, "preset", "get", "00000000-0000-0000-0000-000000000000")
	if !errors.Is(err, errors.ErrCodePresetNotFound) {
		t.Errorf("get missing = %v, want %s", err, errors.ErrCodePresetNotFound)
	}
}

func TestTablesCommand(t *testing.T) {
	env := newTestEnv(t, "")

	out, err := env.run(t, "tables")
	if err != nil {
		t.Fatalf("tables: %v", err)
	}
	for _, want := range []string{"Paper sizes", "Aspect ratios", "Easel slots", "Reciprocity factors", "16x20"} {
		if !strings.Contains(out, want) {
			t.Errorf("tables output missing %q", want)
		}
	}

	out, err = env.run(t, "tables", "films")
	if err != nil {
		t.Fatalf("tables films: %v", err)
	}
	if strings.Contains(out, "Paper sizes") || !strings.Contains(out, "HP5") {
		t.Errorf("tables films output:\n%s", out)
	}
}

func TestExposureCommands(t *testing.T) {
	env := newTestEnv(t, "")

	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"exposure", "stops", "-t", "10", "-s", "1"}, []string{"20.0s", "+1"}},
		{[]string{"exposure", "stops", "-t", "8", "--strip", "half", "--span", "1"}, []string{"4.0s", "16.0s", "+1/2"}},
		{[]string{"exposure", "resize", "--from", "8x10", "--to", "16x20", "-t", "12"}, []string{"48.0s", "+2"}},
		{[]string{"exposure", "reciprocity", "-t", "1", "--factor", "1.5"}, []string{"1.0s"}},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args[1:3], " "), func(t *testing.T) {
			out, err := env.run(t, tt.args...)
			if err != nil {
				t.Fatalf("%v: %v", tt.args, err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
		})
	}

	if _, err := env.run(t, "exposure", "reciprocity", "--film", "nope"); !errors.Is(err, errors.ErrCodeUnknownFilm) {
		t.Errorf("unknown film error = %v", err)
	}
	if _, err := env.run(t, "exposure", "stops", "--strip", "quarter"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad strip error = %v", err)
	}
}

func TestConfigCommands(t *testing.T) {
	env := newTestEnv(t, "[defaults]\npaper_size = \"11x14\"\n")

	out, err := env.run(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, `paper_size = "11x14"`) {
		t.Errorf("config show did not reflect the file:\n%s", out)
	}

	out, err = env.run(t, "config", "path")
	if err != nil || strings.TrimSpace(out) != env.config {
		t.Errorf("config path = %q, %v", out, err)
	}

	if _, err := env.run(t, "config", "init"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("init over existing file = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
	if _, err := env.run(t, "config", "init", "--force"); err != nil {
		t.Fatalf("init --force: %v", err)
	}
	out, _ = env.run(t, "config", "show")
	if !strings.Contains(out, `paper_size = "8x10"`) {
		t.Errorf("init --force did not write defaults:\n%s", out)
	}
}

func TestInvalidConfig(t *testing.T) {
	env := newTestEnv(t, "[presets]\nbackend = \"postgres\"\n")
	if _, err := env.run(t, "tables"); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeInvalidConfig)
	}
}
