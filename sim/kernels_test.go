package sim

import (
	"math"
	"testing"
)

func TestPoly6Kernel(t *testing.T) {
	k := newPoly6(16)

	if got := k.W(256); got != 0 {
		t.Errorf("W at support boundary = %v, want 0", got)
	}
	if got := k.W(300); got != 0 {
		t.Errorf("W outside support = %v, want 0", got)
	}
	if got := k.W(0); got <= 0 {
		t.Errorf("W(0) = %v, want > 0", got)
	}
	if k.W(64) >= k.W(0) {
		t.Error("W should decrease with distance")
	}

	// W(0) = coef * h^6.
	want := 315.0 / (64.0 * math.Pi * math.Pow(16, 9)) * math.Pow(256, 3)
	if got := k.W(0); math.Abs(got-want) > 1e-12 {
		t.Errorf("W(0) = %v, want %v", got, want)
	}
}

func TestSpikyKernel(t *testing.T) {
	k := newSpiky(16)

	if got := k.Grad(16); got != 0 {
		t.Errorf("Grad at support boundary = %v, want 0", got)
	}
	if got := k.Grad(0); got <= 0 {
		t.Errorf("Grad(0) = %v, want > 0", got)
	}
	if k.Grad(8) >= k.Grad(2) {
		t.Error("Grad should decrease with distance")
	}
}

func TestViscosityKernel(t *testing.T) {
	k := newViscosity(16)

	if got := k.Lap(16); got != 0 {
		t.Errorf("Lap at support boundary = %v, want 0", got)
	}

	// Linear in (h - r): Lap(0) should be twice Lap(8).
	if got, want := k.Lap(0), 2*k.Lap(8); math.Abs(got-want) > 1e-12 {
		t.Errorf("Lap(0) = %v, want %v", got, want)
	}
}

func TestCubicFalloff(t *testing.T) {
	tests := []struct {
		name string
		r, h float64
		want float64
	}{
		{"at zero", 0, 16, 1},
		{"at support", 16, 16, 0},
		{"beyond support", 20, 16, 0},
		{"halfway", 8, 16, 0.125},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cubicFalloff(tt.r, tt.h); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("cubicFalloff(%v, %v) = %v, want %v", tt.r, tt.h, got, tt.want)
			}
		})
	}
}
