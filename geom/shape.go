package geom

import "math"

// Shape is the closed set of collision geometry variants: Rect, Circle and
// Polygon. Shapes are immutable after scene construction and shared read-only
// by all models. The glass flag is rendering metadata and has no effect on
// collision behavior.
type Shape interface {
	// Contains reports whether p lies inside the shape.
	Contains(p Vec) bool
	// Normal estimates the outward collision normal at p.
	Normal(p Vec) Vec
	// Glass reports whether the shape renders translucent.
	Glass() bool
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	Left, Top     float64
	Width, Height float64
	IsGlass       bool
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.Left + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

func (r Rect) Contains(p Vec) bool {
	return p.X >= r.Left && p.X <= r.Right() && p.Y >= r.Top && p.Y <= r.Bottom()
}

// ClosestPoint returns the point on or inside the rectangle nearest to p
// (p itself when p is inside).
func (r Rect) ClosestPoint(p Vec) Vec {
	return Vec{
		X: math.Min(math.Max(p.X, r.Left), r.Right()),
		Y: math.Min(math.Max(p.Y, r.Top), r.Bottom()),
	}
}

// Normal returns the outward normal of the side nearest to p.
func (r Rect) Normal(p Vec) Vec {
	leftDist := math.Abs(p.X - r.Left)
	rightDist := math.Abs(p.X - r.Right())
	topDist := math.Abs(p.Y - r.Top)
	bottomDist := math.Abs(p.Y - r.Bottom())

	min := leftDist
	n := Vec{-1, 0}
	if rightDist < min {
		min = rightDist
		n = Vec{1, 0}
	}
	if topDist < min {
		min = topDist
		n = Vec{0, -1}
	}
	if bottomDist < min {
		n = Vec{0, 1}
	}
	return n
}

func (r Rect) Glass() bool { return r.IsGlass }

// Circle is a circle with a center and radius.
type Circle struct {
	Center  Vec
	Radius  float64
	IsGlass bool
}

func (c Circle) Contains(p Vec) bool {
	return p.DistSq(c.Center) <= c.Radius*c.Radius
}

// Normal returns the radial outward normal at p. A point coincident with the
// center yields an upward normal.
func (c Circle) Normal(p Vec) Vec {
	d := p.Sub(c.Center)
	if d.LenSq() < 1e-8 {
		return Vec{0, -1}
	}
	return d.Normalized()
}

func (c Circle) Glass() bool { return c.IsGlass }

// Polygon is an arbitrary polygon with at least 3 vertices. The bounding box
// is precomputed for cheap containment rejection.
type Polygon struct {
	Points  []Vec
	IsGlass bool

	bounds Rect
}

// NewPolygon builds a polygon and caches its bounding box.
func NewPolygon(points []Vec, glass bool) Polygon {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return Polygon{
		Points:  points,
		IsGlass: glass,
		bounds:  Rect{Left: minX, Top: minY, Width: maxX - minX, Height: maxY - minY},
	}
}

// Bounds returns the cached bounding box.
func (pg Polygon) Bounds() Rect { return pg.bounds }

// Contains uses the ray casting algorithm with a bounding-box early reject.
func (pg Polygon) Contains(p Vec) bool {
	if !pg.bounds.Contains(p) {
		return false
	}
	inside := false
	j := len(pg.Points) - 1
	for i := 0; i < len(pg.Points); i++ {
		pi, pj := pg.Points[i], pg.Points[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) &&
			p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// ClosestEdgePoint returns the nearest point on the polygon's outline to p.
// Zero-length edges are skipped.
func (pg Polygon) ClosestEdgePoint(p Vec) Vec {
	best := pg.Points[0]
	bestDistSq := math.Inf(1)
	j := len(pg.Points) - 1
	for i := 0; i < len(pg.Points); i++ {
		a, b := pg.Points[j], pg.Points[i]
		j = i

		edge := b.Sub(a)
		lenSq := edge.LenSq()
		if lenSq < 1e-12 {
			continue
		}
		t := p.Sub(a).Dot(edge) / lenSq
		t = math.Min(math.Max(t, 0), 1)
		cp := a.Add(edge.Scale(t))
		if d := p.DistSq(cp); d < bestDistSq {
			bestDistSq = d
			best = cp
		}
	}
	return best
}

// Normal returns the push-out direction at p based on the nearest edge only.
// This corrects along a single edge rather than computing true penetration
// depth; concave polygons may be under-corrected, which is accepted.
func (pg Polygon) Normal(p Vec) Vec {
	cp := pg.ClosestEdgePoint(p)
	n := p.Sub(cp)
	if pg.Contains(p) {
		n = cp.Sub(p)
	}
	if n.LenSq() < 1e-12 {
		return Vec{0, -1}
	}
	return n.Normalized()
}

func (pg Polygon) Glass() bool { return pg.IsGlass }
