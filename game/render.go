package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/ripplesim/ripple/geom"
	"github.com/ripplesim/ripple/sim"
	"github.com/ripplesim/ripple/ui"
)

var (
	backgroundColor = rl.NewColor(18, 18, 24, 255)
	solidColor      = rl.NewColor(110, 110, 120, 255)
	glassColor      = rl.Fade(rl.SkyBlue, 0.35)
)

// Draw renders one frame: scene geometry, fluid, HUD and control panel.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(backgroundColor)

	g.drawShapes()

	if g.modelKind == ModelGrid {
		g.drawGrid()
	} else {
		g.drawParticles()
	}

	g.drawHUD()
	g.drawPanel()

	rl.EndDrawing()
}

func (g *Game) drawShapes() {
	for _, s := range g.shapes {
		color := solidColor
		if s.Glass() {
			color = glassColor
		}
		switch shape := s.(type) {
		case geom.Rect:
			rl.DrawRectangle(int32(shape.Left), int32(shape.Top), int32(shape.Width), int32(shape.Height), color)
		case geom.Circle:
			rl.DrawCircleV(rl.Vector2{X: float32(shape.Center.X), Y: float32(shape.Center.Y)}, float32(shape.Radius), color)
		case geom.Polygon:
			points := make([]rl.Vector2, len(shape.Points))
			for i, p := range shape.Points {
				points[i] = rl.Vector2{X: float32(p.X), Y: float32(p.Y)}
			}
			rl.DrawTriangleFan(points, color)
		}
	}
}

func (g *Game) drawParticles() {
	var parts []sim.Particle
	if g.modelKind == ModelSPH {
		parts = g.sph.Particles()
	} else {
		parts = g.basic.Particles()
	}

	for i := range parts {
		p := &parts[i]
		color := rl.NewColor(p.Color.R, p.Color.G, p.Color.B, 255)

		// Trail fades from oldest to newest behind the particle.
		for t, tp := range p.Trail {
			alpha := 0.3 * float32(t+1) / float32(len(p.Trail))
			rl.DrawCircleV(
				rl.Vector2{X: float32(tp.X), Y: float32(tp.Y)},
				float32(p.Radius)*0.6,
				rl.Fade(color, alpha),
			)
		}

		rl.DrawCircleV(rl.Vector2{X: float32(p.Pos.X), Y: float32(p.Pos.Y)}, float32(p.Radius), color)
	}
}

func (g *Game) drawGrid() {
	cs := float32(g.grid.CellSize())
	wc := sim.WaterColor()
	base := rl.NewColor(wc.R, wc.G, wc.B, 255)

	// Solids first so interactively placed cells are visible.
	cols, rows := g.grid.Size()
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			if g.grid.StateAt(col, row) == sim.CellSolid {
				rl.DrawRectangle(int32(float32(col)*cs), int32(float32(row)*cs), int32(cs), int32(cs), solidColor)
			}
		}
	}

	g.grid.WaterCells(func(col, row int, level float32) {
		alpha := 0.3 + 0.7*level
		rl.DrawRectangle(int32(float32(col)*cs), int32(float32(row)*cs), int32(cs), int32(cs), rl.Fade(base, alpha))
	})
}

func (g *Game) drawHUD() {
	count := ""
	switch g.modelKind {
	case ModelGrid:
		cells := 0
		g.grid.WaterCells(func(int, int, float32) { cells++ })
		count = fmt.Sprintf("cells: %d", cells)
	case ModelSPH:
		count = fmt.Sprintf("particles: %d", len(g.sph.Particles()))
	default:
		count = fmt.Sprintf("particles: %d", len(g.basic.Particles()))
	}

	rl.DrawText(fmt.Sprintf("%s | %s | %s | %d fps", g.modelKind, g.sceneName(), count, rl.GetFPS()), 10, 10, 18, rl.RayWhite)
	rl.DrawText("drag: pour  space: pause  r: reset  n: scene  1/2/3: model", 10, 32, 14, rl.Gray)
	if g.modelKind == ModelGrid {
		rl.DrawText("right-drag: place solid", 10, 50, 14, rl.Gray)
	}
	if g.paused {
		rl.DrawText("PAUSED", 10, 70, 22, rl.Yellow)
	}
	if g.stepsPerUpdate > 1 {
		rl.DrawText(fmt.Sprintf("speed x%d", g.stepsPerUpdate), 10, 96, 14, rl.Gray)
	}
}

func (g *Game) drawPanel() {
	if g.panel == nil {
		return
	}

	actions := g.panel.Draw(ui.State{
		Model:       string(g.modelKind),
		Scene:       g.sceneName(),
		ReleaseRate: float32(g.cfg.Injection.ReleaseRate),
		Speed:       float32(g.stepsPerUpdate),
		Paused:      g.paused,
	})

	if rate := int(actions.ReleaseRate); rate != g.cfg.Injection.ReleaseRate && rate >= 1 {
		g.cfg.Injection.ReleaseRate = rate
	}
	if speed := int(actions.Speed); speed != g.stepsPerUpdate && speed >= 1 && speed <= 10 {
		g.stepsPerUpdate = speed
	}
	if actions.ModelIndex >= 0 && actions.ModelIndex < len(ModelKinds) {
		if kind := ModelKinds[actions.ModelIndex]; kind != g.modelKind {
			g.setModel(kind)
		}
	}
	if actions.NextScene {
		g.nextScene()
	}
	if actions.Reset {
		g.reset()
	}
	if actions.TogglePause {
		g.paused = !g.paused
	}
}
