// Package scene builds the static collision geometry for each named scene.
package scene

import "github.com/ripplesim/ripple/geom"

// Scene identifiers.
const (
	Empty     = "empty"
	Bucket    = "bucket"
	Pool      = "pool"
	Waterfall = "waterfall"
	Maze      = "maze"
	Fountain  = "fountain"
)

// Names lists all scenes in menu order.
var Names = []string{Empty, Bucket, Pool, Waterfall, Maze, Fountain}

// Build returns the collision geometry for the named scene sized to the given
// screen dimensions. Unknown names fall back to the empty scene.
func Build(name string, w, h float64) []geom.Shape {
	switch name {
	case Bucket:
		return bucket(w, h)
	case Pool:
		return pool(w, h)
	case Waterfall:
		return waterfall(w, h)
	case Maze:
		return maze(w, h)
	case Fountain:
		return fountain(w, h)
	default:
		return empty(w, h)
	}
}

// empty fences the visible area with walls just outside it so grid
// rasterization never leaks water off-screen.
func empty(w, h float64) []geom.Shape {
	const wall = 20.0
	return []geom.Shape{
		geom.Rect{Left: -wall, Top: -wall, Width: w + wall*2, Height: wall}, // top
		geom.Rect{Left: -wall, Top: h, Width: w + wall*2, Height: wall},     // bottom
		geom.Rect{Left: -wall, Top: 0, Width: wall, Height: h},              // left
		geom.Rect{Left: w, Top: 0, Width: wall, Height: h},                  // right
	}
}

func bucket(w, h float64) []geom.Shape {
	shapes := empty(w, h)

	// Big bucket, center bottom.
	const (
		bucketW = 200.0
		bucketH = 150.0
		wall    = 12.0
	)
	bx := w/2 - bucketW/2
	by := h - bucketH - 20
	shapes = append(shapes,
		geom.Rect{Left: bx, Top: by, Width: wall, Height: bucketH},
		geom.Rect{Left: bx + bucketW - wall, Top: by, Width: wall, Height: bucketH},
		geom.Rect{Left: bx, Top: by + bucketH - wall, Width: bucketW, Height: wall},
	)

	// Small glass container on the left.
	const (
		glassW = 100.0
		glassH = 80.0
		glassT = 6.0
	)
	gx, gy := 100.0, h-120
	shapes = append(shapes,
		geom.Rect{Left: gx, Top: gy, Width: glassT, Height: glassH, IsGlass: true},
		geom.Rect{Left: gx + glassW - glassT, Top: gy, Width: glassT, Height: glassH, IsGlass: true},
		geom.Rect{Left: gx, Top: gy + glassH - glassT, Width: glassW, Height: glassT, IsGlass: true},
	)

	// Bottle with a neck on the right.
	const (
		bottleW = 80.0
		bottleH = 160.0
		neckW   = 30.0
		neckH   = 60.0
	)
	ox, oy := w-200, h-200
	shapes = append(shapes,
		geom.Rect{Left: ox, Top: oy, Width: wall, Height: bottleH},
		geom.Rect{Left: ox + bottleW - wall, Top: oy, Width: wall, Height: bottleH},
		geom.Rect{Left: ox, Top: oy + bottleH - wall, Width: bottleW, Height: wall},
	)
	nx := ox + (bottleW-neckW)/2
	shapes = append(shapes,
		geom.Rect{Left: nx, Top: oy - neckH, Width: wall, Height: neckH},
		geom.Rect{Left: nx + neckW - wall, Top: oy - neckH, Width: wall, Height: neckH},
	)

	return shapes
}

func pool(w, h float64) []geom.Shape {
	shapes := empty(w, h)

	poolW := w - 200
	poolH := h / 2
	const wall = 15.0
	px := 100.0
	py := h - poolH - 50

	shapes = append(shapes,
		geom.Rect{Left: px, Top: py, Width: wall, Height: poolH},
		geom.Rect{Left: px + poolW - wall, Top: py, Width: wall, Height: poolH},
		geom.Rect{Left: px, Top: py + poolH - wall, Width: poolW, Height: wall},
	)

	// Center pillar.
	const pillarW = 30.0
	shapes = append(shapes,
		geom.Rect{Left: w/2 - pillarW/2, Top: py, Width: pillarW, Height: poolH - wall},
	)

	// Submerged platform.
	shapes = append(shapes,
		geom.Rect{Left: px + 100, Top: py + poolH - wall - 80, Width: 150, Height: 20},
	)

	// Floating object.
	shapes = append(shapes,
		geom.Circle{Center: geom.Vec{X: px + poolW - 100, Y: py + 100}, Radius: 40},
	)

	return shapes
}

func waterfall(w, h float64) []geom.Shape {
	shapes := empty(w, h)

	// Cascade platforms.
	const (
		platW = 300.0
		platH = 20.0
		gap   = 150.0
	)
	px, py := 50.0, 150.0
	for i := 0; i < 3; i++ {
		shapes = append(shapes, geom.Rect{Left: px, Top: py, Width: platW, Height: platH})
		px += gap
		py += 150
	}

	// Collection pool at the bottom.
	poolW := w - 200
	const (
		poolH = 120.0
		wall  = 15.0
	)
	bx := 100.0
	by := h - poolH - 20
	shapes = append(shapes,
		geom.Rect{Left: bx, Top: by, Width: wall, Height: poolH},
		geom.Rect{Left: bx + poolW - wall, Top: by, Width: wall, Height: poolH},
		geom.Rect{Left: bx, Top: by + poolH - wall, Width: poolW, Height: wall},
	)

	return shapes
}

func maze(w, h float64) []geom.Shape {
	shapes := empty(w, h)

	const (
		wall  = 15.0
		start = 100.0
	)

	horizontal := []geom.Rect{
		{Left: 50, Top: start, Width: 350, Height: wall},
		{Left: 500, Top: start, Width: 350, Height: wall},
		{Left: 200, Top: start + 150, Width: 300, Height: wall},
		{Left: 600, Top: start + 150, Width: 300, Height: wall},
		{Left: 50, Top: start + 300, Width: 350, Height: wall},
		{Left: 500, Top: start + 300, Width: 350, Height: wall},
		{Left: 200, Top: start + 450, Width: 700, Height: wall},
	}
	vertical := []geom.Rect{
		{Left: w/2 - wall/2, Top: start, Width: wall, Height: 150},
		{Left: 200, Top: start + 150, Width: wall, Height: 150},
		{Left: 500, Top: start + 150, Width: wall, Height: 150},
		{Left: w/2 - wall/2, Top: start + 300, Width: wall, Height: 150},
	}
	for _, r := range horizontal {
		shapes = append(shapes, r)
	}
	for _, r := range vertical {
		shapes = append(shapes, r)
	}

	// Collection basin at the bottom.
	const (
		basinW = 300.0
		basinH = 80.0
	)
	bx := w/2 - basinW/2
	by := h - basinH - 20
	shapes = append(shapes,
		geom.Rect{Left: bx, Top: by, Width: wall, Height: basinH},
		geom.Rect{Left: bx + basinW - wall, Top: by, Width: wall, Height: basinH},
		geom.Rect{Left: bx, Top: by + basinH - wall, Width: basinW, Height: wall},
	)

	return shapes
}

func fountain(w, h float64) []geom.Shape {
	shapes := empty(w, h)

	// Base pool.
	poolW := w - 200
	const (
		poolH = 80.0
		wall  = 15.0
	)
	px := 100.0
	py := h - poolH - 20
	shapes = append(shapes,
		geom.Rect{Left: px, Top: py, Width: wall, Height: poolH},
		geom.Rect{Left: px + poolW - wall, Top: py, Width: wall, Height: poolH},
		geom.Rect{Left: px, Top: py + poolH - wall, Width: poolW, Height: wall},
	)

	// Fountain tiers.
	shapes = append(shapes,
		geom.Circle{Center: geom.Vec{X: w / 2, Y: h - 200}, Radius: 120},
		geom.Circle{Center: geom.Vec{X: w / 2, Y: h - 350}, Radius: 80},
		geom.Circle{Center: geom.Vec{X: w / 2, Y: h - 450}, Radius: 40},
	)

	return shapes
}
