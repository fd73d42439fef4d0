package sim

import (
	"math"
	"math/rand"

	"github.com/ripplesim/ripple/config"
	"github.com/ripplesim/ripple/geom"
)

// Particle is a single fluid particle. Density, pressure and the neighbor
// list are only meaningful under the SPH model; the pair cooldown only under
// the basic model.
type Particle struct {
	Pos    geom.Vec
	Vel    geom.Vec
	force  geom.Vec
	Mass   float64
	Radius float64

	Density  float64
	Pressure float64

	Color RGB
	Trail []geom.Vec // bounded FIFO of prior positions, cosmetic only

	cooldown  float64 // pair-collision cooldown, basic model
	neighbors []int   // neighbor indices captured in the SPH density pass
}

// applyForce accumulates a force for the next integration step.
func (p *Particle) applyForce(f geom.Vec) {
	p.force = p.force.Add(f)
}

// arena stores particles in a dense slice. Removal is swap-remove so the
// slice stays compact without preserving order; the models never depend on
// particle order across ticks beyond determinism of the sweep itself.
type arena struct {
	parts []Particle
}

func (a *arena) len() int { return len(a.parts) }

func (a *arena) clear() { a.parts = a.parts[:0] }

// dropOldest removes the n oldest particles (front of the slice) by shifting.
// Called only when the population cap is exceeded, so the O(n) shift is rare.
func (a *arena) dropOldest(n int) {
	if n <= 0 {
		return
	}
	if n >= len(a.parts) {
		a.parts = a.parts[:0]
		return
	}
	copy(a.parts, a.parts[n:])
	a.parts = a.parts[:len(a.parts)-n]
}

// particleStats summarizes a particle population for telemetry.
func particleStats(parts []Particle) Stats {
	s := Stats{Particles: len(parts), Speeds: make([]float64, len(parts))}
	for i := range parts {
		s.Speeds[i] = parts[i].Vel.Len()
	}
	return s
}

// spawner creates particles for injection events.
type spawner struct {
	cfg *config.Config
	rng *rand.Rand
}

// burst spawns count particles jittered around (x, y) into the arena,
// dropping the oldest particles if the population cap would be exceeded.
func (s spawner) burst(a *arena, x, y float64, count int) {
	if count <= 0 {
		count = s.cfg.Injection.ReleaseRate
	}
	if excess := a.len() + count - s.cfg.Particle.MaxCount; excess > 0 {
		a.dropOldest(excess)
	}
	inj := s.cfg.Injection
	for i := 0; i < count; i++ {
		px := x + (s.rng.Float64()*2-1)*inj.SpawnJitter
		py := y + (s.rng.Float64()*2-1)*inj.SpawnJitter
		a.parts = append(a.parts, Particle{
			Pos: geom.Vec{X: px, Y: py},
			Vel: geom.Vec{
				X: (s.rng.Float64()*2 - 1) * inj.VelJitterX,
				Y: -inj.VelJitterYUp + s.rng.Float64()*(inj.VelJitterYDown+inj.VelJitterYUp),
			},
			Mass:   s.cfg.Particle.Mass,
			Radius: s.cfg.Particle.Radius,
			Color:  s.jitterColor(),
		})
	}
}

// jitterColor varies the base water color per channel.
func (s spawner) jitterColor() RGB {
	v := s.cfg.Particle.ColorVariation
	jitter := func(c uint8) uint8 {
		n := int(c) + s.rng.Intn(2*v+1) - v
		if n < 0 {
			n = 0
		} else if n > 255 {
			n = 255
		}
		return uint8(n)
	}
	return RGB{R: jitter(waterColor.R), G: jitter(waterColor.G), B: jitter(waterColor.B)}
}

// integrate applies accumulated force with semi-implicit Euler and records
// the trail position. Forces are reset afterwards.
func integrate(p *Particle, dt float64, trailLen int) {
	acc := p.force.Div(p.Mass)
	p.Vel = p.Vel.Add(acc.Scale(dt))

	if trailLen > 0 {
		p.Trail = append(p.Trail, p.Pos)
		if len(p.Trail) > trailLen {
			copy(p.Trail, p.Trail[1:])
			p.Trail = p.Trail[:trailLen]
		}
	}

	p.Pos = p.Pos.Add(p.Vel.Scale(dt))
	p.force = geom.Vec{}
}

// clampSpeed caps the particle speed to bound stiffness-induced blow-up.
func clampSpeed(p *Particle, max float64) {
	if sq := p.Vel.LenSq(); sq > max*max {
		p.Vel = p.Vel.Scale(max / math.Sqrt(sq))
	}
}

// antiFreeze injects a tiny random velocity with the given chance when the
// particle is nearly stationary, so unstable rest states don't visually
// freeze.
func antiFreeze(p *Particle, rng *rand.Rand, restSpeed, chance float64) {
	if p.Vel.LenSq() < restSpeed*restSpeed && rng.Float64() < chance {
		angle := rng.Float64() * 2 * math.Pi
		p.Vel = p.Vel.Add(geom.Vec{X: math.Cos(angle), Y: math.Sin(angle)}.Scale(0.5))
	}
}

// collideBounds keeps the particle inside the screen rectangle, reflecting
// the perpendicular velocity component with restitution. The floor also
// applies horizontal friction.
func collideBounds(p *Particle, w, h, restitution, friction float64) {
	if p.Pos.X < p.Radius {
		p.Pos.X = p.Radius
		p.Vel.X *= -restitution
	} else if p.Pos.X > w-p.Radius {
		p.Pos.X = w - p.Radius
		p.Vel.X *= -restitution
	}

	if p.Pos.Y < p.Radius {
		p.Pos.Y = p.Radius
		p.Vel.Y *= -restitution
	} else if p.Pos.Y > h-p.Radius {
		p.Pos.Y = h - p.Radius
		p.Vel.Y *= -restitution
		p.Vel.X *= friction
	}
}

// reflect decomposes the velocity against the contact normal, reversing the
// normal component with restitution and damping the tangential component
// with friction.
func reflect(p *Particle, n geom.Vec, restitution, friction float64) {
	vn := p.Vel.Dot(n)
	if vn >= 0 {
		return
	}
	t := n.Perp()
	vt := p.Vel.Dot(t)
	p.Vel = n.Scale(-vn * restitution).Add(t.Scale(vt * friction))
}

// pushOutMargin keeps a resolved particle just clear of the surface.
const pushOutMargin = 0.1

// collideShapes resolves collisions against all scene geometry. Each variant
// pushes the particle out along its collision normal estimate; the polygon
// case corrects along the single nearest edge only.
func collideShapes(p *Particle, shapes []geom.Shape, restitution, friction float64) {
	for _, s := range shapes {
		switch g := s.(type) {
		case geom.Rect:
			collideRect(p, g, restitution, friction)
		case geom.Circle:
			collideCircle(p, g, restitution, friction)
		case geom.Polygon:
			collidePolygon(p, g, restitution, friction)
		}
	}
}

func collideRect(p *Particle, r geom.Rect, restitution, friction float64) {
	if r.Contains(p.Pos) {
		// Center inside: project out through the nearest side.
		n := r.Normal(p.Pos)
		switch {
		case n.X < 0:
			p.Pos.X = r.Left - p.Radius - pushOutMargin
		case n.X > 0:
			p.Pos.X = r.Right() + p.Radius + pushOutMargin
		case n.Y < 0:
			p.Pos.Y = r.Top - p.Radius - pushOutMargin
		default:
			p.Pos.Y = r.Bottom() + p.Radius + pushOutMargin
		}
		reflect(p, n, restitution, friction)
		return
	}

	cp := r.ClosestPoint(p.Pos)
	delta := p.Pos.Sub(cp)
	if distSq := delta.LenSq(); distSq > 0 && distSq < p.Radius*p.Radius {
		n := delta.Scale(1 / math.Sqrt(distSq))
		p.Pos = cp.Add(n.Scale(p.Radius + pushOutMargin))
		reflect(p, n, restitution, friction)
	}
}

func collideCircle(p *Particle, c geom.Circle, restitution, friction float64) {
	delta := p.Pos.Sub(c.Center)
	minDist := c.Radius + p.Radius
	distSq := delta.LenSq()
	if distSq >= minDist*minDist {
		return
	}

	n := c.Normal(p.Pos)
	p.Pos = c.Center.Add(n.Scale(minDist + pushOutMargin))
	reflect(p, n, restitution, friction)
}

func collidePolygon(p *Particle, pg geom.Polygon, restitution, friction float64) {
	if !pg.Contains(p.Pos) {
		return
	}

	cp := pg.ClosestEdgePoint(p.Pos)
	n := pg.Normal(p.Pos)
	p.Pos = cp.Add(n.Scale(p.Radius + pushOutMargin))
	reflect(p, n, restitution, friction)
}
