package geom

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func TestVec2Arithmetic(t *testing.T) {
	a := V(3, 4)
	b := V(1, -2)

	if got := a.Add(b); !got.Equal(V(4, 2)) {
		t.Errorf("Add = %v", got)
	}
	if got := a.Sub(b); !got.Equal(V(2, 6)) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Mul(2); !got.Equal(V(6, 8)) {
		t.Errorf("Mul = %v", got)
	}
	if got := a.Div(2); !got.Equal(V(1.5, 2)) {
		t.Errorf("Div = %v", got)
	}
	if a.Len() != 5 {
		t.Errorf("Len = %v, want 5", a.Len())
	}
	if !b.Less(a) || a.Less(b) {
		t.Error("Less should order by coordinate sum")
	}
}

func TestVec2ITruncates(t *testing.T) {
	v := V(3.9, -3.9).Int()
	if v != (Vec2I{3, -3}) {
		t.Fatalf("Int() = %v, want {3 -3}", v)
	}
	if got := (Vec2I{7, -7}).Div(2); got != (Vec2I{3, -3}) {
		t.Errorf("Div = %v, want {3 -3}", got)
	}
	if got := (Vec2I{3, 3}).Mul(1.5); got != (Vec2I{4, 4}) {
		t.Errorf("Mul = %v, want {4 4}", got)
	}
	if got := (Vec2I{2, 5}).Float(); !got.Equal(V(2, 5)) {
		t.Errorf("Float = %v", got)
	}
}

func TestMoveTowards(t *testing.T) {
	tests := []struct {
		name    string
		cur     Vec2
		target  Vec2
		maxDist float64
		want    Vec2
	}{
		{"partial step", V(0, 0), V(10, 0), 4, V(4, 0)},
		{"lands exactly", V(0, 0), V(3, 4), 5, V(3, 4)},
		{"overshoot clamps", V(0, 0), V(3, 4), 50, V(3, 4)},
		{"zero step", V(1, 1), V(3, 4), 0, V(1, 1)},
		{"already there", V(2, 2), V(2, 2), 1, V(2, 2)},
		{"diagonal", V(0, 0), V(30, 40), 10, V(6, 8)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MoveTowards(tt.cur, tt.target, tt.maxDist)
			if !near(got.X, tt.want.X) || !near(got.Y, tt.want.Y) {
				t.Errorf("MoveTowards = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReached(t *testing.T) {
	if !Reached(V(0, 0), V(0, 0), 0, 0) {
		t.Error("standing on target should count as reached")
	}
	if Reached(V(0, 0), V(10, 0), 100, 0) {
		t.Error("zero delta must not reach a distant target")
	}
	if !Reached(V(0, 0), V(10, 0), 100, 0.1) {
		t.Error("step equal to distance should reach")
	}
	if Reached(V(0, 0), V(10, 0), 100, 0.05) {
		t.Error("half step should not reach")
	}
}

func TestLineSetDistance(t *testing.T) {
	got := LineSetDistance(V(116, 116), V(216, 116), 500)
	if !near(got.X, 616) || !near(got.Y, 116) {
		t.Errorf("LineSetDistance = %v, want {616 116}", got)
	}

	got = LineSetDistance(V(0, 0), V(300, 400), 100)
	if !near(got.X, 60) || !near(got.Y, 80) {
		t.Errorf("LineSetDistance = %v, want {60 80}", got)
	}

	if got := LineSetDistance(V(5, 5), V(5, 5), 100); !got.Equal(V(5, 5)) {
		t.Errorf("degenerate ray should return from, got %v", got)
	}
}

func TestRectOverlaps(t *testing.T) {
	base := Rect{X: 0, Y: 0, W: 10, H: 10}
	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"inside", Rect{2, 2, 2, 2}, true},
		{"partial", Rect{5, 5, 10, 10}, true},
		{"touching right edge", Rect{10, 0, 5, 5}, false},
		{"touching bottom edge", Rect{0, 10, 5, 5}, false},
		{"disjoint", Rect{20, 20, 5, 5}, false},
		{"empty", Rect{5, 5, 0, 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Overlaps(tt.other); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
			if got := tt.other.Overlaps(base); got != tt.want {
				t.Errorf("Overlaps (reversed) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectAccessors(t *testing.T) {
	r := RectAt(V(100, 100), V(32, 32))
	if r.Left() != 100 || r.Right() != 132 || r.Top() != 100 || r.Bottom() != 132 {
		t.Errorf("unexpected extents %+v", r)
	}
	if c := r.Center(); !c.Equal(V(116, 116)) {
		t.Errorf("Center = %v", c)
	}
	if !r.Contains(V(100, 100)) || r.Contains(V(132, 116)) {
		t.Error("Contains should include top-left edge and exclude bottom-right")
	}
}
