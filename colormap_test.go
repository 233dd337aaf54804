package efield

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGradientColor(t *testing.T) {
	tests := []struct {
		name string
		t    float64
		lo   RGB
		hi   RGB
		want RGB
	}{
		{"below range", -0.5, Green, Yellow, Green},
		{"start", 0, Green, Yellow, Green},
		{"end", 1, Green, Yellow, Yellow},
		{"above range", 3, Yellow, Red, Red},
		{"nan", math.NaN(), Yellow, Red, Yellow},
		{"quarter green to yellow", 0.25, Green, Yellow, RGB{63, 255, 0}},
		{"half yellow to red", 0.5, Yellow, Red, RGB{255, 127, 0}},
		{"truncates", 0.999, Green, Yellow, RGB{254, 255, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GradientColor(tt.t, tt.lo, tt.hi); got != tt.want {
				t.Errorf("GradientColor(%v) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}

func TestPercentileColor(t *testing.T) {
	const n = 1000
	tests := []struct {
		name string
		rank int
		want RGB
	}{
		{"lowest", 0, Green},
		{"median", n/2 - 1, Yellow},
		{"highest", n - 1, Red},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PercentileColor(tt.rank, n); got != tt.want {
				t.Errorf("PercentileColor(%d, %d) = %v, want %v", tt.rank, n, got, tt.want)
			}
		})
	}

	if got := PercentileColor(0, 0); got != Green {
		t.Errorf("PercentileColor(0, 0) = %v, want green", got)
	}
}

func TestRGBHex(t *testing.T) {
	if got := (RGB{255, 128, 0}).Hex(); got != "#ff8000" {
		t.Errorf("Hex() = %q, want #ff8000", got)
	}
}

func gridFromNet(net [][]float64) *Grid {
	cols, rows := len(net), len(net[0])
	g := &Grid{
		Cols:   cols,
		Rows:   rows,
		PosX:   newMatrix(cols, rows),
		PosY:   newMatrix(cols, rows),
		FieldX: newMatrix(cols, rows),
		FieldY: newMatrix(cols, rows),
		Net:    net,
	}
	for i := range cols {
		for j := range rows {
			g.PosX[i][j], g.PosY[i][j] = float64(i), float64(j)
			g.FieldX[i][j] = net[i][j]
		}
	}
	return g
}

func TestRanks(t *testing.T) {
	g := gridFromNet([][]float64{
		{3, 1},
		{1, 0},
		{9, 2},
	})
	want := [][]int{
		{4, 1},
		{2, 0},
		{5, 3},
	}
	if diff := cmp.Diff(want, Ranks(g)); diff != "" {
		t.Errorf("Ranks() mismatch (-want +got):\n%s", diff)
	}
}

func TestArrows(t *testing.T) {
	g := gridFromNet([][]float64{
		{0, 1},
		{2, 4},
	})
	g.FieldX[0][1], g.FieldY[0][1] = 0, 1
	g.FieldX[1][0], g.FieldY[1][0] = -2, 0

	arrows := Arrows(g, 10)
	if len(arrows) != 3 {
		t.Fatalf("len(Arrows()) = %d, want 3 (zero sample skipped)", len(arrows))
	}

	up := arrows[0]
	if up.Pos != Pt(0, 1) || up.Length != 2.5 || math.Abs(up.Angle-math.Pi/2) > 1e-15 {
		t.Errorf("arrows[0] = %+v, want pos (0,1), length 2.5, angle π/2", up)
	}
	left := arrows[1]
	if left.Length != 5 || left.Angle != math.Pi {
		t.Errorf("arrows[1] = %+v, want length 5, angle π", left)
	}
	strongest := arrows[2]
	if strongest.Length != 10 || strongest.Color != Red || strongest.Magnitude != 4 {
		t.Errorf("arrows[2] = %+v, want length 10, red", strongest)
	}
}

func TestArrows_GridColorEndpoints(t *testing.T) {
	const cols, rows = 40, 25
	net := make([][]float64, cols)
	for i := range net {
		net[i] = make([]float64, rows)
		for j := range net[i] {
			net[i][j] = float64(i*rows+j) + 1
		}
	}
	arrows := Arrows(gridFromNet(net), DefaultMaxArrowLength)

	if got := arrows[0].Color; got != Green {
		t.Errorf("weakest arrow colour = %v, want green", got)
	}
	if got := arrows[len(arrows)/2-1].Color; got != Yellow {
		t.Errorf("median arrow colour = %v, want yellow", got)
	}
	if got := arrows[len(arrows)-1].Color; got != Red {
		t.Errorf("strongest arrow colour = %v, want red", got)
	}
}
