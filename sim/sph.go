package sim

import (
	"math"
	"math/rand"

	"github.com/ripplesim/ripple/config"
	"github.com/ripplesim/ripple/geom"
)

// SPHModel is the smoothed-particle-hydrodynamics fluid. Each tick runs two
// full passes over all particles before any particle moves: first density and
// pressure, then forces from the neighbor lists captured in pass one. The
// split is required because every particle's pressure force depends on its
// neighbors' finalized densities; interleaving would make results
// order-dependent.
type SPHModel struct {
	cfg    *config.Config
	rng    *rand.Rand
	arena  arena
	spawn  spawner
	shapes []geom.Shape
	timer  Timer

	poly6 poly6Kernel
	spiky spikyKernel
	visc  viscosityKernel

	width, height float64
}

// NewSPHModel creates the model with kernels precomputed for the configured
// smoothing length.
func NewSPHModel(cfg *config.Config, rng *rand.Rand) *SPHModel {
	h := cfg.SPH.SmoothingLength
	return &SPHModel{
		cfg:    cfg,
		rng:    rng,
		spawn:  spawner{cfg: cfg, rng: rng},
		timer:  noopTimer{},
		poly6:  newPoly6(h),
		spiky:  newSpiky(h),
		visc:   newViscosity(h),
		width:  float64(cfg.Screen.Width),
		height: float64(cfg.Screen.Height),
	}
}

// SetTimer installs a phase timer for profiling.
func (m *SPHModel) SetTimer(t Timer) {
	if t == nil {
		t = noopTimer{}
	}
	m.timer = t
}

// SetScene installs collision geometry and discards all particles.
func (m *SPHModel) SetScene(shapes []geom.Shape) {
	m.shapes = shapes
	m.arena.clear()
}

// AddWater spawns count particles jittered around the pour point.
func (m *SPHModel) AddWater(x, y float64, count int) {
	m.spawn.burst(&m.arena, x, y, count)
}

// Reset clears all particles, keeping the scene.
func (m *SPHModel) Reset() {
	m.arena.clear()
}

// Particles exposes the live particle slice as a read-only render snapshot.
func (m *SPHModel) Particles() []Particle {
	return m.arena.parts
}

// Stats summarizes the current fluid state.
func (m *SPHModel) Stats() Stats {
	return particleStats(m.arena.parts)
}

// Update advances the model by dt seconds, splitting large deltas into
// sub-steps so stiffness cannot blow up the integration.
func (m *SPHModel) Update(dt float64) {
	for dt > 0 {
		step := math.Min(dt, m.cfg.SPH.MaxSubstep)
		m.step(step)
		dt -= step
	}
}

func (m *SPHModel) step(dt float64) {
	m.timer.StartPhase(phaseDensity)
	m.densityPressurePass()
	m.timer.StartPhase(phaseForces)
	m.forcePass()
	m.timer.StartPhase(phaseIntegrate)
	m.integratePass(dt)
}

// densityPressurePass computes density from the Poly6 kernel over all
// neighbors within the smoothing radius, then pressure from the ideal-gas
// equation of state. Neighbor lists are captured here for the force pass.
func (m *SPHModel) densityPressurePass() {
	sc := m.cfg.SPH
	parts := m.arena.parts
	h := sc.SmoothingLength
	hSq := m.cfg.Derived.SmoothingLengthSq

	for i := range parts {
		pi := &parts[i]
		pi.Density = 0
		pi.neighbors = pi.neighbors[:0]

		for j := range parts {
			if i == j {
				continue
			}
			// Cheap axis-aligned broad-phase reject.
			dx := pi.Pos.X - parts[j].Pos.X
			if dx > h || dx < -h {
				continue
			}
			dy := pi.Pos.Y - parts[j].Pos.Y
			if dy > h || dy < -h {
				continue
			}
			rSq := dx*dx + dy*dy
			if rSq >= hSq {
				continue
			}

			pi.neighbors = append(pi.neighbors, j)
			pi.Density += sc.KernelMass * m.poly6.W(rSq)
		}

		// Density floor avoids division blow-ups in the force pass.
		if pi.Density < sc.DensityFloor {
			pi.Density = sc.DensityFloor
		}

		pi.Pressure = sc.GasConstant * (pi.Density - sc.RestDensity)
		if pi.Pressure < sc.PressureMin {
			pi.Pressure = sc.PressureMin
		} else if pi.Pressure > sc.PressureMax {
			pi.Pressure = sc.PressureMax
		}
	}
}

// forcePass accumulates gravity, pressure, viscosity, surface tension, and
// the surface-cohesion heuristic using the neighbor lists from pass one.
func (m *SPHModel) forcePass() {
	sc := m.cfg.SPH
	parts := m.arena.parts
	h := sc.SmoothingLength

	for i := range parts {
		pi := &parts[i]
		pi.applyForce(geom.Vec{Y: m.cfg.Derived.GravityY * pi.Mass})

		var pressureF, viscosityF, tensionF geom.Vec
		var centroid geom.Vec
		n := len(pi.neighbors)

		// Dense clusters over-pressurize; scale the pressure force down as
		// the neighborhood fills up.
		scale := 0.5 * (1 + 0.5*math.Min(1, float64(n)/20))

		for _, j := range pi.neighbors {
			pj := &parts[j]
			dir := pi.Pos.Sub(pj.Pos)
			r := dir.Len()
			if r < 1e-4 {
				continue
			}
			dir = dir.Div(r)

			mag := -sc.KernelMass * (pi.Pressure + pj.Pressure) / (2 * pj.Density) * m.spiky.Grad(r)
			pressureF = pressureF.Add(dir.Scale(mag * scale))

			relVel := pj.Vel.Sub(pi.Vel)
			viscosityF = viscosityF.Add(relVel.Scale(sc.Viscosity * sc.KernelMass * m.visc.Lap(r) / pj.Density))

			tensionF = tensionF.Add(dir.Scale(sc.SurfaceTension * cubicFalloff(r, h)))

			centroid = centroid.Add(pj.Pos)
		}

		pressureF.X = clamp(pressureF.X, -sc.ForceClamp, sc.ForceClamp)
		pressureF.Y = clamp(pressureF.Y, -sc.ForceClamp, sc.ForceClamp)

		pi.applyForce(pressureF)
		pi.applyForce(viscosityF)
		pi.applyForce(tensionF)

		// Surface particles (few neighbors) are pulled toward their local
		// neighbor centroid to keep droplets from fragmenting.
		if n > 0 && n < sc.CohesionCutoff {
			centroid = centroid.Div(float64(n))
			pull := centroid.Sub(pi.Pos).Normalized().Scale(sc.CohesionPull / float64(n))
			pi.applyForce(pull)
		}
	}
}

func (m *SPHModel) integratePass(dt float64) {
	sc := m.cfg.SPH
	parts := m.arena.parts

	for i := range parts {
		p := &parts[i]
		integrate(p, dt, m.cfg.Particle.TrailLength)
		clampSpeed(p, sc.MaxSpeed)
		antiFreeze(p, m.rng, sc.RestSpeed, sc.JitterChance)
		collideBounds(p, m.width, m.height, sc.Restitution, sc.Friction)
		collideShapes(p, m.shapes, sc.Restitution, sc.Friction)
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
