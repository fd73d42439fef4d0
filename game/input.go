package game

import rl "github.com/gen2brain/raylib-go/raylib"

// handleInput processes mouse and keyboard input.
func (g *Game) handleInput() {
	// Pouring: hold left mouse to inject water at the cursor.
	if rl.IsMouseButtonDown(rl.MouseLeftButton) && !g.panelHovered() {
		pos := rl.GetMousePosition()
		g.pour(float64(pos.X), float64(pos.Y))
	}

	// Right mouse places solid cells in the grid model.
	if g.modelKind == ModelGrid && rl.IsMouseButtonDown(rl.MouseRightButton) {
		pos := rl.GetMousePosition()
		g.grid.AddSolid(float64(pos.X), float64(pos.Y))
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.reset()
	}
	if rl.IsKeyPressed(rl.KeyN) {
		g.nextScene()
	}

	// Model hotkeys
	if rl.IsKeyPressed(rl.KeyOne) {
		g.setModel(ModelBasic)
	}
	if rl.IsKeyPressed(rl.KeyTwo) {
		g.setModel(ModelSPH)
	}
	if rl.IsKeyPressed(rl.KeyThree) {
		g.setModel(ModelGrid)
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}
}

// panelHovered reports whether the cursor is over the control panel, so
// clicks on widgets don't also pour water.
func (g *Game) panelHovered() bool {
	if g.panel == nil {
		return false
	}
	pos := rl.GetMousePosition()
	return g.panel.Contains(pos.X, pos.Y)
}
