// Package sim implements the three interchangeable water simulation models:
// a discrete-particle model, a smoothed-particle-hydrodynamics model, and a
// grid-based cellular-automaton model. All three consume the same scene
// geometry and the same per-frame tick; exactly one is active at a time.
package sim

import "github.com/ripplesim/ripple/geom"

// Model is the per-frame contract shared by all three simulation engines.
// The driver calls SetScene once at start or reset, AddWater on injection
// events, and Update once per frame. Models are single-threaded and never
// mutate scene geometry.
type Model interface {
	// SetScene installs the collision geometry and discards prior fluid state.
	SetScene(shapes []geom.Shape)
	// AddWater injects water at a screen position. Particle models spawn
	// count particles with positional jitter; the grid model promotes the
	// containing cell and ignores count.
	AddWater(x, y float64, count int)
	// Update advances the simulation by dt seconds. Update(0) is a no-op.
	Update(dt float64)
	// Reset clears all fluid state while keeping the scene.
	Reset()
	// SetTimer installs a phase timer for per-phase profiling. A nil timer
	// disables phase reporting.
	SetTimer(t Timer)
	// Stats summarizes the current fluid state for telemetry.
	Stats() Stats
}

// Stats is a cheap summary of a model's fluid state. Particle models fill
// Particles and Speeds; the grid model fills WaterCells and TotalVolume.
type Stats struct {
	Particles   int
	WaterCells  int
	TotalVolume float64
	Speeds      []float64
}

// Timer receives phase boundaries during a model step. The telemetry
// package's PerfCollector satisfies it.
type Timer interface {
	StartPhase(name string)
}

// Phase names reported to the Timer.
const (
	phaseDensity   = "density"
	phaseForces    = "forces"
	phasePairs     = "pairs"
	phaseIntegrate = "integrate"
	phaseGridSweep = "grid_sweep"
)

type noopTimer struct{}

func (noopTimer) StartPhase(string) {}

// RGB is a cosmetic particle color.
type RGB struct {
	R, G, B uint8
}

// Base water color; particles jitter around it per channel at creation.
var waterColor = RGB{R: 10, G: 150, B: 255}

// WaterColor returns the base water color used for rendering.
func WaterColor() RGB { return waterColor }
