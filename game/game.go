// Package game drives the simulation: it owns the active model, the scene,
// injection rate limiting, telemetry, and the render loop.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/ripplesim/ripple/config"
	"github.com/ripplesim/ripple/geom"
	"github.com/ripplesim/ripple/scene"
	"github.com/ripplesim/ripple/sim"
	"github.com/ripplesim/ripple/telemetry"
	"github.com/ripplesim/ripple/ui"
)

// DT is the fixed simulation timestep in headless mode.
const DT = 1.0 / 60.0

// ModelKind selects the active simulation engine.
type ModelKind string

const (
	ModelBasic ModelKind = "basic"
	ModelSPH   ModelKind = "sph"
	ModelGrid  ModelKind = "grid"
)

// ModelKinds lists the engines in hotkey order (1, 2, 3).
var ModelKinds = []ModelKind{ModelBasic, ModelSPH, ModelGrid}

// Options configures game construction.
type Options struct {
	Cfg            *config.Config
	Seed           int64
	Model          ModelKind
	Scene          string
	LogStats       bool
	OutputDir      string
	Headless       bool
	StepsPerUpdate int
}

// Game holds the complete simulation state.
type Game struct {
	cfg *config.Config
	rng *rand.Rand

	basic *sim.BasicModel
	sph   *sim.SPHModel
	grid  *sim.GridModel

	modelKind ModelKind
	sceneIdx  int
	shapes    []geom.Shape

	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool

	tick           int
	paused         bool
	stepsPerUpdate int
	headless       bool

	// Injection rate limiting: events cost one unit from a budget refilled
	// at the configured rate.
	injectBudget float64

	panel *ui.Panel

	width, height float64
}

// NewGame creates a game instance from the given options.
func NewGame(opts Options) (*Game, error) {
	cfg := opts.Cfg
	if cfg == nil {
		var err error
		cfg, err = config.Load("")
		if err != nil {
			return nil, fmt.Errorf("loading default config: %w", err)
		}
	}

	rng := rand.New(rand.NewSource(opts.Seed))

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, err
	}

	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	g := &Game{
		cfg:            cfg,
		rng:            rng,
		basic:          sim.NewBasicModel(cfg, rng),
		sph:            sim.NewSPHModel(cfg, rng),
		grid:           sim.NewGridModel(cfg, rng),
		collector:      telemetry.NewCollector(cfg.Telemetry.StatsWindow, DT),
		perfCollector:  telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		outputManager:  om,
		logStats:       opts.LogStats,
		stepsPerUpdate: steps,
		headless:       opts.Headless,
		width:          float64(cfg.Screen.Width),
		height:         float64(cfg.Screen.Height),
	}

	if !opts.Headless {
		g.panel = ui.NewPanel(float32(g.width)-ui.PanelWidth-10, 10)
	}

	kind := opts.Model
	if kind == "" {
		kind = ModelBasic
	}
	g.setModel(kind)

	sceneName := opts.Scene
	if sceneName == "" {
		sceneName = scene.Empty
	}
	g.setSceneByName(sceneName)

	slog.Info("game created",
		"model", string(g.modelKind),
		"scene", g.sceneName(),
		"seed", opts.Seed,
		"headless", opts.Headless,
	)

	return g, nil
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int { return g.tick }

// Paused reports whether the simulation is paused.
func (g *Game) Paused() bool { return g.paused }

// Model returns the active model kind.
func (g *Game) Model() ModelKind { return g.modelKind }

// SceneName returns the active scene name.
func (g *Game) SceneName() string { return g.sceneName() }

func (g *Game) sceneName() string { return scene.Names[g.sceneIdx] }

// activeModel returns the currently selected simulation engine.
func (g *Game) activeModel() sim.Model {
	switch g.modelKind {
	case ModelSPH:
		return g.sph
	case ModelGrid:
		return g.grid
	default:
		return g.basic
	}
}

// setModel switches the active engine. Fluid state does not transfer between
// engines; the new model starts from the current scene with no water.
func (g *Game) setModel(kind ModelKind) {
	g.modelKind = kind
	m := g.activeModel()
	m.SetTimer(g.perfCollector)
	m.SetScene(g.shapes)
	slog.Info("model selected", "model", string(kind))
}

// setSceneByName rebuilds the named scene's geometry and resets the fluid.
func (g *Game) setSceneByName(name string) {
	idx := 0
	for i, n := range scene.Names {
		if n == name {
			idx = i
			break
		}
	}
	g.setScene(idx)
}

func (g *Game) setScene(idx int) {
	g.sceneIdx = idx
	g.shapes = scene.Build(scene.Names[idx], g.width, g.height)
	g.activeModel().SetScene(g.shapes)
	slog.Info("scene loaded", "scene", g.sceneName(), "shapes", len(g.shapes))
}

// nextScene cycles to the next scene in menu order.
func (g *Game) nextScene() {
	g.setScene((g.sceneIdx + 1) % len(scene.Names))
}

// reset clears the fluid, keeping the scene and model selection.
func (g *Game) reset() {
	g.activeModel().Reset()
	slog.Info("simulation reset", "model", string(g.modelKind))
}

// pour injects water at a screen position, subject to the injection rate
// limit. Returns whether the injection was accepted.
func (g *Game) pour(x, y float64) bool {
	if g.injectBudget < 1 {
		return false
	}
	g.injectBudget--

	count := g.cfg.Injection.ReleaseRate
	g.activeModel().AddWater(x, y, count)
	if g.modelKind == ModelGrid {
		count = 1
	}
	g.collector.RecordInjection(count)
	return true
}

// PourHeadless injects water at a position, subject to the same rate limit
// as interactive pouring. Intended for headless drivers.
func (g *Game) PourHeadless(x, y float64) bool {
	return g.pour(x, y)
}

// refillInjectBudget advances the rate limiter. The budget is capped at one
// second's worth so idle time cannot bank an injection burst.
func (g *Game) refillInjectBudget(dt float64) {
	rate := g.cfg.Injection.RatePerSec
	g.injectBudget += dt * rate
	if g.injectBudget > rate {
		g.injectBudget = rate
	}
}

// Close releases telemetry resources.
func (g *Game) Close() error {
	return g.outputManager.Close()
}
