package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated simulation statistics for a time window.
type WindowStats struct {
	WindowStartTick int     `csv:"-"`
	WindowEndTick   int     `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	Model string `csv:"model"`
	Scene string `csv:"scene"`

	// Fluid state at window end
	ParticleCount int     `csv:"particles"`
	WaterCells    int     `csv:"water_cells"`
	TotalVolume   float64 `csv:"total_volume"`

	// Events during window
	Injections     int `csv:"injections"`
	ParticlesAdded int `csv:"particles_added"`

	// Speed distribution (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`
	SpeedMax  float64 `csv:"speed_max"`
}

// ComputeSpeedStats calculates mean, standard deviation and percentiles from
// particle speeds. Returns zeros for an empty sample.
func ComputeSpeedStats(speeds []float64) (mean, std, p50, p90, max float64) {
	n := len(speeds)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	sorted := make([]float64, n)
	copy(sorted, speeds)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	if n > 1 {
		std = stat.StdDev(sorted, nil)
	}
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	max = sorted[n-1]
	return mean, std, p50, p90, max
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStartTick),
		slog.Int("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.String("model", s.Model),
		slog.String("scene", s.Scene),
		slog.Int("particles", s.ParticleCount),
		slog.Int("water_cells", s.WaterCells),
		slog.Float64("total_volume", s.TotalVolume),
		slog.Int("injections", s.Injections),
		slog.Int("particles_added", s.ParticlesAdded),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("speed_max", s.SpeedMax),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"model", s.Model,
		"scene", s.Scene,
		"particles", s.ParticleCount,
		"water_cells", s.WaterCells,
		"total_volume", s.TotalVolume,
		"injections", s.Injections,
		"particles_added", s.ParticlesAdded,
		"speed_mean", s.SpeedMean,
		"speed_std", s.SpeedStd,
		"speed_p50", s.SpeedP50,
		"speed_p90", s.SpeedP90,
		"speed_max", s.SpeedMax,
	)
}
