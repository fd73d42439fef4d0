package sim

import (
	"math"
	"math/rand"

	"github.com/ripplesim/ripple/config"
	"github.com/ripplesim/ripple/geom"
)

// BasicModel is the cheap discrete-particle fluid approximation: gravity,
// cooldown-gated pairwise impulse resolution, and boundary/geometry
// collisions. Neighbor search is a naive O(n^2) pass with the cooldown
// deliberately trading exactness for stability and cost.
type BasicModel struct {
	cfg    *config.Config
	rng    *rand.Rand
	arena  arena
	spawn  spawner
	shapes []geom.Shape
	timer  Timer

	width, height float64
}

// NewBasicModel creates the model. The rng drives spawn jitter and the
// anti-freeze perturbation; seeding it makes runs reproducible.
func NewBasicModel(cfg *config.Config, rng *rand.Rand) *BasicModel {
	return &BasicModel{
		cfg:    cfg,
		rng:    rng,
		spawn:  spawner{cfg: cfg, rng: rng},
		timer:  noopTimer{},
		width:  float64(cfg.Screen.Width),
		height: float64(cfg.Screen.Height),
	}
}

// SetTimer installs a phase timer for profiling.
func (m *BasicModel) SetTimer(t Timer) {
	if t == nil {
		t = noopTimer{}
	}
	m.timer = t
}

// SetScene installs collision geometry and discards all particles.
func (m *BasicModel) SetScene(shapes []geom.Shape) {
	m.shapes = shapes
	m.arena.clear()
}

// AddWater spawns count particles jittered around the pour point.
func (m *BasicModel) AddWater(x, y float64, count int) {
	m.spawn.burst(&m.arena, x, y, count)
}

// Reset clears all particles, keeping the scene.
func (m *BasicModel) Reset() {
	m.arena.clear()
}

// Particles exposes the live particle slice as a read-only render snapshot.
func (m *BasicModel) Particles() []Particle {
	return m.arena.parts
}

// Stats summarizes the current fluid state.
func (m *BasicModel) Stats() Stats {
	return particleStats(m.arena.parts)
}

// Update advances the model by dt seconds.
func (m *BasicModel) Update(dt float64) {
	if dt <= 0 {
		return
	}

	bc := m.cfg.Basic
	parts := m.arena.parts
	gravity := geom.Vec{Y: m.cfg.Derived.GravityY * m.cfg.Particle.Mass}

	for i := range parts {
		parts[i].applyForce(gravity)
	}

	m.timer.StartPhase(phasePairs)
	m.resolvePairs(dt)

	m.timer.StartPhase(phaseIntegrate)
	for i := range parts {
		p := &parts[i]
		integrate(p, dt, m.cfg.Particle.TrailLength)
		clampSpeed(p, bc.MaxSpeed)
		antiFreeze(p, m.rng, bc.RestSpeed, bc.JitterChance)
		collideBounds(p, m.width, m.height, bc.Restitution, bc.Friction)
		collideShapes(p, m.shapes, bc.Restitution, bc.Friction)
	}
}

// resolvePairs runs the O(n^2) particle-particle collision pass. Each
// resolved pair receives a short cooldown before it may collide again; a
// particle on cooldown skips the rest of its sweep entirely.
func (m *BasicModel) resolvePairs(dt float64) {
	bc := m.cfg.Basic
	parts := m.arena.parts
	cooldown := bc.CooldownFactor * dt

	for i := range parts {
		if parts[i].cooldown > 0 {
			parts[i].cooldown -= dt
			continue
		}

		for j := range parts {
			if i == j || parts[j].cooldown > 0 {
				continue
			}

			pi, pj := &parts[i], &parts[j]
			minDist := pi.Radius + pj.Radius
			delta := pi.Pos.Sub(pj.Pos)
			distSq := delta.LenSq()
			if distSq >= minDist*minDist {
				continue
			}

			var n geom.Vec
			var dist float64
			if distSq > 0 {
				dist = math.Sqrt(distSq)
				n = delta.Div(dist)
			} else {
				// Coincident pair: push apart at a random angle instead of
				// dividing by zero.
				angle := m.rng.Float64() * 2 * math.Pi
				n = geom.Vec{X: math.Cos(angle), Y: math.Sin(angle)}
			}

			// Separate, half the penetration each.
			pen := minDist - dist
			pi.Pos = pi.Pos.Add(n.Scale(pen / 2))
			pj.Pos = pj.Pos.Sub(n.Scale(pen / 2))

			relVel := pi.Vel.Sub(pj.Vel)
			if vn := relVel.Dot(n); vn < 0 {
				// Impulse split equally between the pair.
				imp := -(1 + bc.PairRestitution) * vn / 2
				pi.Vel = pi.Vel.Add(n.Scale(imp))
				pj.Vel = pj.Vel.Sub(n.Scale(imp))
			}

			// Lateral damping along the tangent clusters the fluid visually.
			t := n.Perp()
			vt := relVel.Dot(t)
			damp := t.Scale(vt * bc.CohesionDamping / 2)
			pi.Vel = pi.Vel.Sub(damp)
			pj.Vel = pj.Vel.Add(damp)

			pi.cooldown = cooldown
			pj.cooldown = cooldown
			break
		}
	}
}
