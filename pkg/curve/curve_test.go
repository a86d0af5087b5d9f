package curve

import (
	"math"
	"testing"
)

func TestFitTwoPoints(t *testing.T) {
	path := Fit([]Point{{0, 20}, {0, 80}})

	cmds := path.Commands()
	if len(cmds) != 2 {
		t.Fatalf("got %d commands, want 2: %s", len(cmds), path.Data())
	}
	if cmds[0].Op != OpMove || cmds[1].Op != OpLine {
		t.Errorf("ops = %c%c, want ML", cmds[0].Op, cmds[1].Op)
	}
	if end, _ := path.End(); end != (Point{0, 80}) {
		t.Errorf("End() = %v, want (0,80)", end)
	}
	if got, want := path.Data(), "M0,20L0,80"; got != want {
		t.Errorf("Data() = %q, want %q", got, want)
	}
}

func TestFitEndpointExactness(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
	}{
		{"collinear", []Point{{0, 0}, {0, 6}, {0, 12}, {0, 18}}},
		{"zigzag", []Point{{3.7, -1.1}, {40, 13}, {-12.25, 77}, {91.3, 103.9}}},
		{"long", []Point{{0, 0}, {10, 30}, {-5, 60}, {20, 90}, {0, 120}, {33.3, 150.1}}},
		{"three", []Point{{0, 20}, {30, 50}, {0, 80}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := Fit(tt.points)
			start, ok := path.Start()
			if !ok {
				t.Fatal("empty path")
			}
			if start != tt.points[0] {
				t.Errorf("Start() = %v, want %v", start, tt.points[0])
			}
			end, _ := path.End()
			last := tt.points[len(tt.points)-1]
			if end != last {
				t.Errorf("End() = %v, want %v", end, last)
			}
			cmds := path.Commands()
			if cmds[len(cmds)-1].Op != OpLine {
				t.Errorf("last op = %c, want L", cmds[len(cmds)-1].Op)
			}
		})
	}
}

func TestFitData(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
		want   string
	}{
		{
			name:   "collinear",
			points: []Point{{0, 0}, {0, 6}, {0, 12}, {0, 18}},
			want:   "M0,0L0,1C0,2,0,4,0,6C0,8,0,10,0,12C0,14,0,16,0,17L0,18",
		},
		{
			name:   "three points",
			points: []Point{{0, 20}, {30, 50}, {0, 80}},
			want:   "M0,20L5,25C10,30,20,40,20,50C20,60,10,70,5,75L0,80",
		},
		{
			name:   "single point",
			points: []Point{{4, 2}},
			want:   "M4,2",
		},
		{
			name:   "no points",
			points: nil,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fit(tt.points).Data(); got != tt.want {
				t.Errorf("Data() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCurveReuseAlternatesLineFlag(t *testing.T) {
	c := NewCurve()
	c.Fit([]Point{{0, 0}, {10, 0}})
	if got, want := c.Path().Data(), "M0,0L10,0"; got != want {
		t.Fatalf("first fit = %q, want %q", got, want)
	}

	c.Fit([]Point{{0, 0}, {10, 0}})
	if got, want := c.Path().Data(), "M0,0L10,0L0,0L10,0Z"; got != want {
		t.Errorf("second fit = %q, want %q", got, want)
	}

	c.Fit([]Point{{5, 5}, {6, 6}})
	if got, want := c.Path().Data(), "M0,0L10,0L0,0L10,0ZM5,5L6,6"; got != want {
		t.Errorf("third fit = %q, want %q", got, want)
	}
}

func TestClosePathResetsPen(t *testing.T) {
	var p Path
	p.ClosePath()
	if len(p.Commands()) != 0 {
		t.Error("ClosePath on empty path should be a no-op")
	}

	p.MoveTo(1, 2)
	p.LineTo(5, 6)
	p.ClosePath()
	if got := p.Current(); got != (Point{1, 2}) {
		t.Errorf("Current() = %v, want (1,2)", got)
	}
	if got, want := p.Data(), "M1,2L5,6Z"; got != want {
		t.Errorf("Data() = %q, want %q", got, want)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{1.5, "1.5"},
		{-20, "-20"},
		{1.0 / 6, "0.16666666666666666"},
		{1e21, "1000000000000000000000"},
		{math.NaN(), "NaN"},
	}

	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
