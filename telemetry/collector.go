package telemetry

// Collector accumulates injection events within time windows and produces
// WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int
	dt                  float64

	windowStartTick int

	// Event counters for the current window
	injections     int
	particlesAdded int
}

// NewCollector creates a stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds.
// dt: seconds per tick, used for tick-to-time conversion.
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}
	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordInjection records one injection event that added count particles
// (or cells, under the grid model).
func (c *Collector) RecordInjection(count int) {
	c.injections++
	c.particlesAdded += count
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// FluidSample holds the fluid state sampled at window end.
type FluidSample struct {
	Model         string
	Scene         string
	ParticleCount int
	WaterCells    int
	TotalVolume   float64
	Speeds        []float64
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int, sample FluidSample) WindowStats {
	mean, std, p50, p90, max := ComputeSpeedStats(sample.Speeds)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Model: sample.Model,
		Scene: sample.Scene,

		ParticleCount: sample.ParticleCount,
		WaterCells:    sample.WaterCells,
		TotalVolume:   sample.TotalVolume,

		Injections:     c.injections,
		ParticlesAdded: c.particlesAdded,

		SpeedMean: mean,
		SpeedStd:  std,
		SpeedP50:  p50,
		SpeedP90:  p90,
		SpeedMax:  max,
	}

	c.windowStartTick = currentTick
	c.injections = 0
	c.particlesAdded = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int {
	return c.windowDurationTicks
}
