package sim

import (
	"math"
	"math/rand"
	"sort"

	"github.com/ripplesim/ripple/config"
	"github.com/ripplesim/ripple/geom"
)

// CellState labels a lattice cell in the grid model.
type CellState uint8

const (
	CellEmpty CellState = iota
	CellWater
	CellSolid
)

// ToCell maps a world position to lattice coordinates with an explicit floor,
// so negative positions round toward negative infinity rather than zero.
func ToCell(x, y, cellSize float64) (col, row int) {
	return int(math.Floor(x / cellSize)), int(math.Floor(y / cellSize))
}

// GridModel is the cellular-automaton water: a lattice of cells with a fill
// level in [0, 1], stepped by a double-buffered sweep that reads the old
// lattice and writes the new one. Only cells in the active set (plus their
// neighborhood) are visited, so still water costs nothing.
type GridModel struct {
	cfg  *config.Config
	rng  *rand.Rand
	cols int
	rows int

	state     []CellState
	nextState []CellState
	level     []float32
	nextLevel []float32

	// Diagnostic fields, refreshed per sweep: net flow out of each cell and
	// pre-clamp overfill. Not load-bearing for the flow rules.
	velX  []float32
	velY  []float32
	press []float32

	active map[int]struct{}
	sweep  []int // scratch: sorted active cells for the deterministic sweep
	timer  Timer

	solidBase []CellState // scene rasterization, restored on Reset
	tick      int
}

// NewGridModel creates the model sized from the configured cell size.
func NewGridModel(cfg *config.Config, rng *rand.Rand) *GridModel {
	cols, rows := cfg.Derived.GridCols, cfg.Derived.GridRows
	n := cols * rows
	return &GridModel{
		cfg:       cfg,
		rng:       rng,
		cols:      cols,
		rows:      rows,
		state:     make([]CellState, n),
		nextState: make([]CellState, n),
		level:     make([]float32, n),
		nextLevel: make([]float32, n),
		velX:      make([]float32, n),
		velY:      make([]float32, n),
		press:     make([]float32, n),
		active:    make(map[int]struct{}),
		solidBase: make([]CellState, n),
		timer:     noopTimer{},
	}
}

// SetTimer installs a phase timer for profiling.
func (m *GridModel) SetTimer(t Timer) {
	if t == nil {
		t = noopTimer{}
	}
	m.timer = t
}

// Size returns the lattice dimensions in cells.
func (m *GridModel) Size() (cols, rows int) { return m.cols, m.rows }

// CellSize returns the world size of one cell in pixels.
func (m *GridModel) CellSize() float64 { return m.cfg.Grid.CellSize }

// StateAt returns the state of a cell; out-of-range coordinates read as solid
// so the lattice border behaves like a wall.
func (m *GridModel) StateAt(col, row int) CellState {
	if col < 0 || col >= m.cols || row < 0 || row >= m.rows {
		return CellSolid
	}
	return m.state[row*m.cols+col]
}

// VelocityAt returns the net water transfer out of a cell during the last
// sweep, signed rightward/downward. Diagnostic only.
func (m *GridModel) VelocityAt(col, row int) (vx, vy float32) {
	if col < 0 || col >= m.cols || row < 0 || row >= m.rows {
		return 0, 0
	}
	idx := row*m.cols + col
	return m.velX[idx], m.velY[idx]
}

// PressureAt returns the pre-clamp overfill of a cell after the last sweep.
// Diagnostic only.
func (m *GridModel) PressureAt(col, row int) float32 {
	if col < 0 || col >= m.cols || row < 0 || row >= m.rows {
		return 0
	}
	return m.press[row*m.cols+col]
}

// LevelAt returns the fill level of a cell, zero out of range.
func (m *GridModel) LevelAt(col, row int) float32 {
	if col < 0 || col >= m.cols || row < 0 || row >= m.rows {
		return 0
	}
	return m.level[row*m.cols+col]
}

// WaterCells visits every water cell with its coordinates and level.
func (m *GridModel) WaterCells(fn func(col, row int, level float32)) {
	for row := 0; row < m.rows; row++ {
		base := row * m.cols
		for col := 0; col < m.cols; col++ {
			if m.state[base+col] == CellWater {
				fn(col, row, m.level[base+col])
			}
		}
	}
}

// TotalVolume sums the level of all water cells.
func (m *GridModel) TotalVolume() float64 {
	var total float64
	for i, st := range m.state {
		if st == CellWater {
			total += float64(m.level[i])
		}
	}
	return total
}

// Stats summarizes the current fluid state.
func (m *GridModel) Stats() Stats {
	s := Stats{}
	for i, st := range m.state {
		if st == CellWater {
			s.WaterCells++
			s.TotalVolume += float64(m.level[i])
		}
	}
	return s
}

// SetScene rasterizes the shapes onto the lattice as solid cells and clears
// all water.
func (m *GridModel) SetScene(shapes []geom.Shape) {
	for i := range m.solidBase {
		m.solidBase[i] = CellEmpty
	}
	for _, s := range shapes {
		m.rasterize(s)
	}
	m.Reset()
}

// rasterize marks cells covered by the shape as solid. Rects use index
// ranges directly; circles and polygons test cell centers within their
// bounding box.
func (m *GridModel) rasterize(s geom.Shape) {
	cs := m.cfg.Grid.CellSize

	switch g := s.(type) {
	case geom.Rect:
		c0, r0 := ToCell(g.Left, g.Top, cs)
		c1, r1 := ToCell(g.Right(), g.Bottom(), cs)
		for row := max(r0, 0); row <= r1 && row < m.rows; row++ {
			for col := max(c0, 0); col <= c1 && col < m.cols; col++ {
				m.solidBase[row*m.cols+col] = CellSolid
			}
		}
	case geom.Circle:
		c0, r0 := ToCell(g.Center.X-g.Radius, g.Center.Y-g.Radius, cs)
		c1, r1 := ToCell(g.Center.X+g.Radius, g.Center.Y+g.Radius, cs)
		rSq := g.Radius * g.Radius
		for row := max(r0, 0); row <= r1 && row < m.rows; row++ {
			for col := max(c0, 0); col <= c1 && col < m.cols; col++ {
				center := geom.Vec{X: (float64(col) + 0.5) * cs, Y: (float64(row) + 0.5) * cs}
				if center.DistSq(g.Center) <= rSq {
					m.solidBase[row*m.cols+col] = CellSolid
				}
			}
		}
	case geom.Polygon:
		bb := g.Bounds()
		c0, r0 := ToCell(bb.Left, bb.Top, cs)
		c1, r1 := ToCell(bb.Right(), bb.Bottom(), cs)
		for row := max(r0, 0); row <= r1 && row < m.rows; row++ {
			for col := max(c0, 0); col <= c1 && col < m.cols; col++ {
				center := geom.Vec{X: (float64(col) + 0.5) * cs, Y: (float64(row) + 0.5) * cs}
				if g.Contains(center) {
					m.solidBase[row*m.cols+col] = CellSolid
				}
			}
		}
	}
}

// AddWater promotes the containing cell to water at full level (count is a
// particle-model concept and is ignored). Solid cells are never overwritten.
func (m *GridModel) AddWater(x, y float64, count int) {
	col, row := ToCell(x, y, m.cfg.Grid.CellSize)
	if col < 0 || col >= m.cols || row < 0 || row >= m.rows {
		return
	}
	idx := row*m.cols + col
	if m.state[idx] == CellSolid {
		return
	}
	m.state[idx] = CellWater
	m.level[idx] = float32(math.Min(1, float64(m.level[idx])+1))
	m.activate(col, row)
}

// AddSolid marks the containing cell solid, displacing any water there.
func (m *GridModel) AddSolid(x, y float64) {
	col, row := ToCell(x, y, m.cfg.Grid.CellSize)
	if col < 0 || col >= m.cols || row < 0 || row >= m.rows {
		return
	}
	idx := row*m.cols + col
	m.state[idx] = CellSolid
	m.level[idx] = 0
	m.activate(col, row)
}

// activate marks the cell and its 3x3 neighborhood active so the next sweep
// visits them.
func (m *GridModel) activate(col, row int) {
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			c, r := col+dc, row+dr
			if c < 0 || c >= m.cols || r < 0 || r >= m.rows {
				continue
			}
			m.active[r*m.cols+c] = struct{}{}
		}
	}
}

// Reset clears all water and restores the rasterized scene.
func (m *GridModel) Reset() {
	copy(m.state, m.solidBase)
	for i := range m.level {
		m.level[i] = 0
		m.velX[i] = 0
		m.velY[i] = 0
		m.press[i] = 0
	}
	for k := range m.active {
		delete(m.active, k)
	}
	m.tick = 0
}

// Update runs one lattice sweep. dt gates the no-op case only; flow rates are
// per sweep, with the driver controlling sweeps per frame.
func (m *GridModel) Update(dt float64) {
	if dt <= 0 {
		return
	}
	m.tick++
	m.timer.StartPhase(phaseGridSweep)

	copy(m.nextState, m.state)
	copy(m.nextLevel, m.level)

	// Deterministic sweep order: top to bottom, right to left within a row.
	m.sweep = m.sweep[:0]
	for idx := range m.active {
		m.sweep = append(m.sweep, idx)
	}
	sort.Slice(m.sweep, func(a, b int) bool {
		ra, ca := m.sweep[a]/m.cols, m.sweep[a]%m.cols
		rb, cb := m.sweep[b]/m.cols, m.sweep[b]%m.cols
		if ra != rb {
			return ra < rb
		}
		return ca > cb
	})

	for _, idx := range m.sweep {
		m.velX[idx] = 0
		m.velY[idx] = 0
		m.press[idx] = 0
	}

	changed := 0
	for _, idx := range m.sweep {
		if m.state[idx] == CellWater && m.flowCell(idx) {
			changed++
		}
	}

	m.state, m.nextState = m.nextState, m.state
	m.level, m.nextLevel = m.nextLevel, m.level

	m.settle()

	if m.tick%m.cfg.Grid.BreakerPeriod == 0 {
		m.breakEquilibrium(changed)
	}
}

// flowCell moves water out of one cell, reading the old lattice and writing
// the new one. Returns whether the cell's level changed materially.
func (m *GridModel) flowCell(idx int) bool {
	gc := m.cfg.Grid
	col, row := idx%m.cols, idx/m.cols
	lvl := m.level[idx]
	if lvl <= 0 {
		return false
	}

	orig := m.nextLevel[idx]

	// Vertical first: an empty cell below takes everything, an under-full
	// water cell takes a rate-limited share.
	if below := idx + m.cols; row+1 < m.rows && m.state[below] != CellSolid {
		var moved float32
		switch m.state[below] {
		case CellEmpty:
			moved = m.nextLevel[idx]
		case CellWater:
			room := 1 - m.level[below]
			if room > 0 {
				moved = m.nextLevel[idx] * float32(gc.VerticalRate)
				if moved > room {
					moved = room
				}
			}
		}
		if moved > 0 {
			m.nextLevel[idx] -= moved
			m.nextLevel[below] += moved
			m.nextState[below] = CellWater
			m.velY[idx] += moved
			m.activate(col, row+1)
		}
	}

	// Horizontal equalization with whatever remains.
	rem := m.nextLevel[idx]
	if rem > float32(gc.SettleThreshold) {
		left, right := idx-1, idx+1
		leftOpen := col > 0 && m.state[left] != CellSolid
		rightOpen := col+1 < m.cols && m.state[right] != CellSolid

		switch {
		case leftOpen && rightOpen:
			avg := (rem + m.level[left] + m.level[right]) / 3
			rate := float32(gc.SpreadRate)
			if d := avg - m.level[left]; d > float32(gc.Deadband) {
				m.moveWater(idx, left, d*rate)
				m.activate(col-1, row)
			}
			if d := avg - m.level[right]; d > float32(gc.Deadband) {
				m.moveWater(idx, right, d*rate)
				m.activate(col+1, row)
			}
		case leftOpen:
			if d := (rem - m.level[left]) / 2; d > float32(gc.Deadband) {
				m.moveWater(idx, left, d*float32(gc.EdgeSpreadRate))
				m.activate(col-1, row)
			}
		case rightOpen:
			if d := (rem - m.level[right]) / 2; d > float32(gc.Deadband) {
				m.moveWater(idx, right, d*float32(gc.EdgeSpreadRate))
				m.activate(col+1, row)
			}
		}
	}

	diff := m.nextLevel[idx] - orig
	return diff > 1e-6 || diff < -1e-6
}

// moveWater transfers amount from src to dst in the write buffer, bounded by
// what src still holds.
func (m *GridModel) moveWater(src, dst int, amount float32) {
	if amount > m.nextLevel[src] {
		amount = m.nextLevel[src]
	}
	if amount <= 0 {
		return
	}
	m.nextLevel[src] -= amount
	m.nextLevel[dst] += amount
	m.nextState[dst] = CellWater

	switch dst - src {
	case 1:
		m.velX[src] += amount
	case -1:
		m.velX[src] -= amount
	case m.cols:
		m.velY[src] += amount
	}
}

// settle demotes near-empty cells, clamps over-full cells, and drops settled
// cells from the active set.
func (m *GridModel) settle() {
	gc := m.cfg.Grid
	snapshot := make([]int, 0, len(m.active))
	for idx := range m.active {
		snapshot = append(snapshot, idx)
	}
	sort.Ints(snapshot)

	for _, idx := range snapshot {
		switch m.state[idx] {
		case CellWater:
			if m.level[idx] <= float32(gc.SettleThreshold) {
				m.state[idx] = CellEmpty
				m.level[idx] = 0
				delete(m.active, idx)
			} else if m.level[idx] > 1 {
				m.press[idx] = m.level[idx] - 1
				m.level[idx] = 1
			}
		case CellEmpty:
			// Stays active for one more look in case a neighbor refills it.
			if !m.nearWater(idx) {
				delete(m.active, idx)
			}
		}
	}
}

// nearWater reports whether any 8-neighbor of idx holds water.
func (m *GridModel) nearWater(idx int) bool {
	col, row := idx%m.cols, idx/m.cols
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			c, r := col+dc, row+dr
			if c < 0 || c >= m.cols || r < 0 || r >= m.rows {
				continue
			}
			if m.state[r*m.cols+c] == CellWater {
				return true
			}
		}
	}
	return false
}

// breakEquilibrium perturbs a few random water cells when the lattice has
// converged, so large flat pools keep a faint shimmer instead of freezing.
func (m *GridModel) breakEquilibrium(changed int) {
	gc := m.cfg.Grid

	water := make([]int, 0, len(m.active))
	for idx := range m.active {
		if m.state[idx] == CellWater {
			water = append(water, idx)
		}
	}
	if len(water) < gc.BreakerMinWater {
		return
	}
	if float64(changed) > (1-gc.ConvergedFrac)*float64(len(water)) {
		return
	}

	sort.Ints(water)
	for i := 0; i < gc.BreakerCells; i++ {
		idx := water[m.rng.Intn(len(water))]
		delta := float32((m.rng.Float64()*2 - 1) * gc.BreakerAmp)
		lvl := m.level[idx] + delta
		if lvl < 0 {
			lvl = 0
		} else if lvl > 1 {
			lvl = 1
		}
		m.level[idx] = lvl
		m.activate(idx%m.cols, idx/m.cols)
	}
}
