package cli

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/gogpu/efield"
	"github.com/gogpu/efield/internal/observability"
)

// run executes a fresh root command in an empty directory so no
// efield.yaml is picked up.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	observability.ResetForTest()
	t.Cleanup(observability.ResetForTest)

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCmd_Version(t *testing.T) {
	out, err := run(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", out)
}

func TestBoundsCmd(t *testing.T) {
	out, err := run(t, "bounds", "--point", "1,2,5")
	require.NoError(t, err)
	assert.Equal(t, "top-left (0, 3)  bottom-right (2, 1)\n", out)

	out, err = run(t, "bounds", "--bounds", "-2,1,4,-3", "--center-origin", "--json")
	require.NoError(t, err)
	var b boundsJSON
	require.NoError(t, json.Unmarshal([]byte(out), &b))
	assert.Equal(t, boundsJSON{TopLeft: pointJSON{-3, 2}, BottomRight: pointJSON{3, -2}}, b)
}

func TestBoundsCmd_Invalid(t *testing.T) {
	_, err := run(t, "bounds", "--bounds", "1,1,-1,-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, efield.ErrInvalidBounds)

	_, err = run(t, "bounds", "--bounds", "1,2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want 4 comma-separated numbers")
}

func TestChargeFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"short point", []string{"--point", "1,2"}, "want 3 comma-separated numbers"},
		{"bad number", []string{"--point", "1,two,3"}, "--point \"1,two,3\""},
		{"degenerate line", []string{"--line", "0,0,1,1"}, "--line"},
		{"inverted ring", []string{"--ring", "0,0,2,1,1"}, "--ring"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, append([]string{"bounds"}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestChargeFlags_Build(t *testing.T) {
	f := chargeFlags{
		demo:    true,
		points:  []string{"0,0,1"},
		lines:   []string{" 1, 0, -1, 2"},
		circles: []string{"2,2,1,0.5"},
		rings:   []string{"-2,-2,1,2,-1"},
	}
	charges, err := f.build()
	require.NoError(t, err)

	demo := len(efield.DemoCharges())
	require.Len(t, charges, demo+4)
	kinds := []efield.Kind{efield.KindPoint, efield.KindLine, efield.KindCircle, efield.KindRing}
	for i, k := range kinds {
		assert.Equal(t, k, charges[demo+i].Kind())
	}
}

func TestDescribe(t *testing.T) {
	p, err := efield.NewPointCharge(efield.Pt(1, -2), 3)
	require.NoError(t, err)
	r, err := efield.NewRingCharge(efield.Pt(0, 0), 1, 2, -1)
	require.NoError(t, err)

	assert.Equal(t, "point charge q=3 at (1, -2)", describe(p))
	assert.Equal(t, "ring r=1..2 at (0, 0), σ=-1", describe(r))
}

func TestEquationsCmd(t *testing.T) {
	out, err := run(t, "equations", "--point", "0,0,2")
	require.NoError(t, err)
	assert.Contains(t, out, "#1 point charge q=2 at (0, 0)")
	assert.Contains(t, out, "|E| = 2*k/(x^2 + y^2)")

	out, err = run(t, "equations", "--format", "json", "--point", "0,0,2", "--line", "1,0,-1,1")
	require.NoError(t, err)
	var rows []equationJSON
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "point", rows[0].Kind)
	assert.Equal(t, "line", rows[1].Kind)
	assert.Equal(t, "0", rows[1].Y)

	out, err = run(t, "equations")
	require.NoError(t, err)
	assert.Equal(t, "no charges\n", out)

	_, err = run(t, "equations", "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")
}

func TestSampleCmd(t *testing.T) {
	out, err := run(t, "sample", "--point", "0,0,1", "--resolution", "4", "--arrows")
	require.NoError(t, err)

	var f frameJSON
	require.NoError(t, json.Unmarshal([]byte(out), &f))
	assert.Equal(t, 4, f.Cols)
	assert.Equal(t, 4, f.Rows)
	assert.Len(t, f.Samples, 16)
	assert.Len(t, f.Arrows, 16)
	assert.Greater(t, f.Max, 0.0)
	for _, a := range f.Arrows {
		assert.Regexp(t, `^#[0-9a-f]{6}$`, a.Color)
	}

	out, err = run(t, "sample", "--point", "0,0,1", "--resolution", "4", "--aspect", "2")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &f))
	assert.Equal(t, 2, f.Rows)
}

func TestSampleCmd_ConfigAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "efield.yaml")
	require.NoError(t, os.WriteFile(path, []byte("graph:\n  resolution: 3\n"), 0o600))

	out, err := run(t, "sample", "--config", path, "--point", "0,0,1")
	require.NoError(t, err)
	var f frameJSON
	require.NoError(t, json.Unmarshal([]byte(out), &f))
	assert.Equal(t, 3, f.Cols)

	t.Setenv("EFIELD_GRAPH_RESOLUTION", "5")
	out, err = run(t, "sample", "--point", "0,0,1")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &f))
	assert.Equal(t, 5, f.Cols)

	// Flags win over the environment.
	out, err = run(t, "sample", "--point", "0,0,1", "--resolution", "2")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &f))
	assert.Equal(t, 2, f.Cols)

	_, err = run(t, "sample", "--config", filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "error reading config file")

	_, err = run(t, "sample", "--resolution", "-1")
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestRenderCmd(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "field.png")
	_, err := run(t, "render", "--demo", "-o", path, "--width", "64", "--height", "48")
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 48, cfg.Height)
}

func TestRenderCmd_Stdout(t *testing.T) {
	out, err := run(t, "render", "--point", "0,0,1", "-o", "-", "--width", "32", "--height", "32", "--legend=false")
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader([]byte(out)))
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())

	_, err = run(t, "render", "-o", "-", "--background", "white")
	assert.ErrorContains(t, err, "invalid configuration")
}
