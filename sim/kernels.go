package sim

import "math"

// SPH smoothing kernels. Each kernel precomputes its normalization constant
// for a fixed smoothing length h, since h never changes mid-simulation.

// poly6Kernel estimates density: W(r) = 315/(64*pi*h^9) * (h^2 - r^2)^3.
// Evaluated on squared distance to skip a sqrt in the density pass.
type poly6Kernel struct {
	hSq  float64
	coef float64
}

func newPoly6(h float64) poly6Kernel {
	return poly6Kernel{
		hSq:  h * h,
		coef: 315.0 / (64.0 * math.Pi * math.Pow(h, 9)),
	}
}

// W returns the kernel value for squared distance rSq, zero outside support.
func (k poly6Kernel) W(rSq float64) float64 {
	if rSq >= k.hSq {
		return 0
	}
	d := k.hSq - rSq
	return k.coef * d * d * d
}

// spikyKernel supplies the pressure gradient magnitude:
// dW/dr = -45/(pi*h^6) * (h - r)^2. Returned unsigned; callers apply the
// direction.
type spikyKernel struct {
	h    float64
	coef float64
}

func newSpiky(h float64) spikyKernel {
	return spikyKernel{
		h:    h,
		coef: 45.0 / (math.Pi * math.Pow(h, 6)),
	}
}

// Grad returns the gradient magnitude at distance r, zero outside support.
func (k spikyKernel) Grad(r float64) float64 {
	if r >= k.h {
		return 0
	}
	d := k.h - r
	return k.coef * d * d
}

// viscosityKernel supplies the viscosity laplacian:
// lap W = 45/(pi*h^6) * (h - r).
type viscosityKernel struct {
	h    float64
	coef float64
}

func newViscosity(h float64) viscosityKernel {
	return viscosityKernel{
		h:    h,
		coef: 45.0 / (math.Pi * math.Pow(h, 6)),
	}
}

// Lap returns the laplacian at distance r, zero outside support.
func (k viscosityKernel) Lap(r float64) float64 {
	if r >= k.h {
		return 0
	}
	return k.coef * (k.h - r)
}

// cubicFalloff is the surface-tension weight (1 - r/h)^3, zero outside
// support. Not a normalized SPH kernel; a cheap attraction profile.
func cubicFalloff(r, h float64) float64 {
	if r >= h {
		return 0
	}
	d := 1 - r/h
	return d * d * d
}
