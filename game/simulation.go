package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/ripplesim/ripple/telemetry"
)

// Update advances the game by one frame in graphics mode: input, simulation
// steps, and telemetry. Draw is a separate call.
func (g *Game) Update() {
	g.handleInput()
	g.perfCollector.RecordFrame()

	if g.paused {
		return
	}

	dt := float64(rl.GetFrameTime())
	if dt > g.cfg.Physics.MaxFrameDT {
		// A stall (window drag, GC pause) must not turn into a huge impulse.
		dt = g.cfg.Physics.MaxFrameDT
	}
	if dt <= 0 {
		return
	}

	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step(dt)
	}
}

// UpdateHeadless advances the game with a fixed timestep and no input.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step(DT)
	}
}

// step runs one simulation tick: refill the injection budget, advance the
// active model, and flush telemetry windows.
func (g *Game) step(dt float64) {
	g.tick++
	g.refillInjectBudget(dt)

	g.perfCollector.StartTick()

	if g.modelKind == ModelGrid {
		// The lattice runs several sweeps per frame so flow keeps pace with
		// the particle models.
		for s := 0; s < g.cfg.Grid.Substeps; s++ {
			g.grid.Update(dt)
		}
	} else {
		g.activeModel().Update(dt)
	}

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perfCollector.EndTick()
}
