package geom

import (
	"math"
	"testing"
)

func TestRectContains(t *testing.T) {
	r := Rect{Left: 10, Top: 20, Width: 100, Height: 50}

	tests := []struct {
		name string
		p    Vec
		want bool
	}{
		{"center", Vec{60, 45}, true},
		{"left edge", Vec{10, 45}, true},
		{"right edge", Vec{110, 45}, true},
		{"outside left", Vec{9.9, 45}, false},
		{"outside below", Vec{60, 70.1}, false},
		{"corner", Vec{10, 20}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestRectNormalNearestSide(t *testing.T) {
	r := Rect{Left: 0, Top: 0, Width: 100, Height: 100}

	tests := []struct {
		name string
		p    Vec
		want Vec
	}{
		{"near left", Vec{5, 50}, Vec{-1, 0}},
		{"near right", Vec{95, 50}, Vec{1, 0}},
		{"near top", Vec{50, 5}, Vec{0, -1}},
		{"near bottom", Vec{50, 95}, Vec{0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Normal(tt.p); got != tt.want {
				t.Errorf("Normal(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestRectClosestPoint(t *testing.T) {
	r := Rect{Left: 0, Top: 0, Width: 10, Height: 10}

	if got := r.ClosestPoint(Vec{-5, 5}); got != (Vec{0, 5}) {
		t.Errorf("ClosestPoint left = %v, want {0 5}", got)
	}
	if got := r.ClosestPoint(Vec{20, 20}); got != (Vec{10, 10}) {
		t.Errorf("ClosestPoint corner = %v, want {10 10}", got)
	}
	// Interior points clamp to themselves.
	if got := r.ClosestPoint(Vec{3, 7}); got != (Vec{3, 7}) {
		t.Errorf("ClosestPoint interior = %v, want {3 7}", got)
	}
}

func TestCircleContainsAndNormal(t *testing.T) {
	c := Circle{Center: Vec{50, 50}, Radius: 10}

	if !c.Contains(Vec{55, 50}) {
		t.Error("point inside circle not contained")
	}
	if c.Contains(Vec{61, 50}) {
		t.Error("point outside circle contained")
	}

	n := c.Normal(Vec{60, 50})
	if !almostEqual(n.X, 1) || !almostEqual(n.Y, 0) {
		t.Errorf("Normal = %v, want {1 0}", n)
	}

	// Degenerate center query falls back to an upward normal.
	if got := c.Normal(Vec{50, 50}); got != (Vec{0, -1}) {
		t.Errorf("Normal at center = %v, want {0 -1}", got)
	}
}

func triangle() Polygon {
	return NewPolygon([]Vec{{0, 0}, {100, 0}, {50, 100}}, false)
}

func TestPolygonContains(t *testing.T) {
	pg := triangle()

	tests := []struct {
		name string
		p    Vec
		want bool
	}{
		{"centroid", Vec{50, 30}, true},
		{"outside bbox", Vec{200, 50}, false},
		{"inside bbox outside poly", Vec{2, 90}, false},
		{"near apex", Vec{50, 95}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pg.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestPolygonClosestEdgePoint(t *testing.T) {
	pg := NewPolygon([]Vec{{0, 0}, {10, 0}, {10, 10}, {0, 10}}, false)

	cp := pg.ClosestEdgePoint(Vec{5, -3})
	if !almostEqual(cp.X, 5) || !almostEqual(cp.Y, 0) {
		t.Errorf("ClosestEdgePoint = %v, want {5 0}", cp)
	}

	// Interior point projects to the nearest side.
	cp = pg.ClosestEdgePoint(Vec{5, 1})
	if !almostEqual(cp.Y, 0) {
		t.Errorf("ClosestEdgePoint interior = %v, want y=0", cp)
	}
}

func TestPolygonNormalPointsOutward(t *testing.T) {
	pg := NewPolygon([]Vec{{0, 0}, {10, 0}, {10, 10}, {0, 10}}, false)

	// Inside near the top edge: normal must push up and out.
	n := pg.Normal(Vec{5, 1})
	if n.Y >= 0 {
		t.Errorf("interior normal = %v, want upward push", n)
	}
	if !almostEqual(n.Len(), 1) {
		t.Errorf("normal not unit length: %v", n.Len())
	}

	// Outside below the bottom edge: normal points away from the polygon.
	n = pg.Normal(Vec{5, 13})
	if n.Y <= 0 {
		t.Errorf("exterior normal = %v, want downward", n)
	}
}

func TestPolygonDegenerateEdges(t *testing.T) {
	// Repeated vertices create zero-length edges which must be skipped.
	pg := NewPolygon([]Vec{{0, 0}, {0, 0}, {10, 0}, {5, 10}}, false)
	cp := pg.ClosestEdgePoint(Vec{5, -2})
	if math.IsNaN(cp.X) || math.IsNaN(cp.Y) {
		t.Fatalf("degenerate edge produced NaN: %v", cp)
	}
}

func TestShapeGlassFlag(t *testing.T) {
	shapes := []Shape{
		Rect{Width: 1, Height: 1, IsGlass: true},
		Circle{Radius: 1},
		NewPolygon([]Vec{{0, 0}, {1, 0}, {0, 1}}, true),
	}
	want := []bool{true, false, true}
	for i, s := range shapes {
		if s.Glass() != want[i] {
			t.Errorf("shape %d Glass() = %v, want %v", i, s.Glass(), want[i])
		}
	}
}
