package game

import (
	"log/slog"

	"github.com/ripplesim/ripple/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and writes the
// window to the configured sinks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.sampleFluid())
	perfStats := g.perfCollector.Stats()

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// sampleFluid captures the active model's fluid state for the stats window.
func (g *Game) sampleFluid() telemetry.FluidSample {
	stats := g.activeModel().Stats()
	return telemetry.FluidSample{
		Model:         string(g.modelKind),
		Scene:         g.sceneName(),
		ParticleCount: stats.Particles,
		WaterCells:    stats.WaterCells,
		TotalVolume:   stats.TotalVolume,
		Speeds:        stats.Speeds,
	}
}
