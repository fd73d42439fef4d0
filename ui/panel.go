// Package ui implements the immediate-mode control panel.
package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Panel dimensions.
const (
	PanelWidth  float32 = 230
	panelHeight float32 = 300
)

// Panel is the on-screen control panel drawn with raygui widgets.
type Panel struct {
	X, Y float32
}

// NewPanel creates a panel anchored at the given screen position.
func NewPanel(x, y float32) *Panel {
	return &Panel{X: x, Y: y}
}

// Contains reports whether the point lies inside the panel area.
func (p *Panel) Contains(x, y float32) bool {
	return x >= p.X && x <= p.X+PanelWidth && y >= p.Y && y <= p.Y+panelHeight
}

// State feeds the current values into the panel draw.
type State struct {
	Model       string
	Scene       string
	ReleaseRate float32
	Speed       float32
	Paused      bool
}

// Actions reports which widgets the user activated this frame. ModelIndex is
// -1 when no model button was clicked.
type Actions struct {
	ReleaseRate float32
	Speed       float32
	ModelIndex  int
	NextScene   bool
	Reset       bool
	TogglePause bool
}

// Draw renders the panel and returns the user's actions.
func (p *Panel) Draw(s State) Actions {
	actions := Actions{ReleaseRate: s.ReleaseRate, Speed: s.Speed, ModelIndex: -1}

	x, y := p.X, p.Y
	rl.DrawRectangle(int32(x)-10, int32(y)-10, int32(PanelWidth)+20, int32(panelHeight)+20, rl.Fade(rl.Black, 0.5))

	rl.DrawText("Water Controls", int32(x), int32(y), 20, rl.RayWhite)
	y += 30

	// Model buttons
	rl.DrawText(fmt.Sprintf("Model: %s", s.Model), int32(x), int32(y), 14, rl.LightGray)
	y += 20
	bw := (PanelWidth - 20) / 3
	for i, label := range []string{"Basic", "SPH", "Grid"} {
		if gui.Button(rl.Rectangle{X: x + float32(i)*(bw+10), Y: y, Width: bw, Height: 26}, label) {
			actions.ModelIndex = i
		}
	}
	y += 36

	// Scene cycling
	rl.DrawText(fmt.Sprintf("Scene: %s", s.Scene), int32(x), int32(y), 14, rl.LightGray)
	y += 20
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: PanelWidth, Height: 26}, "Next Scene") {
		actions.NextScene = true
	}
	y += 36

	// Release rate slider
	rl.DrawText("Release rate (particles/pour)", int32(x), int32(y), 14, rl.LightGray)
	y += 18
	actions.ReleaseRate = gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: PanelWidth - 50, Height: 20},
		"1", "50",
		s.ReleaseRate, 1, 50,
	)
	rl.DrawText(fmt.Sprintf("%d", int(s.ReleaseRate)), int32(x+PanelWidth-40), int32(y+2), 16, rl.RayWhite)
	y += 32

	// Simulation speed slider (ticks per frame)
	rl.DrawText("Speed (steps/frame)", int32(x), int32(y), 14, rl.LightGray)
	y += 18
	actions.Speed = gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: PanelWidth - 50, Height: 20},
		"1", "10",
		s.Speed, 1, 10,
	)
	rl.DrawText(fmt.Sprintf("x%d", int(s.Speed)), int32(x+PanelWidth-40), int32(y+2), 16, rl.RayWhite)
	y += 32

	// Pause and reset
	pauseLabel := "Pause"
	if s.Paused {
		pauseLabel = "Resume"
	}
	half := (PanelWidth - 10) / 2
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 30}, pauseLabel) {
		actions.TogglePause = true
	}
	if gui.Button(rl.Rectangle{X: x + half + 10, Y: y, Width: half, Height: 30}, "Reset") {
		actions.Reset = true
	}

	return actions
}
