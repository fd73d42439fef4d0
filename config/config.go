// Package config provides configuration loading for the simulation.
//
// All tunables live in one immutable Config struct built from embedded
// defaults merged with an optional user YAML file. The struct is passed into
// model constructors; there is no process-wide mutable state, so tests can
// instantiate independently configured simulations side by side.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Particle  ParticleConfig  `yaml:"particle"`
	Injection InjectionConfig `yaml:"injection"`
	Basic     BasicConfig     `yaml:"basic"`
	SPH       SPHConfig       `yaml:"sph"`
	Grid      GridConfig      `yaml:"grid"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display and world dimensions. The simulation domain is
// the screen rectangle; particles are confined to it.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PhysicsConfig holds parameters shared by every model.
type PhysicsConfig struct {
	Gravity      float64 `yaml:"gravity"`       // m/s^2 before scaling
	GravityScale float64 `yaml:"gravity_scale"` // tuning multiplier applied to gravity
	MaxFrameDT   float64 `yaml:"max_frame_dt"`  // per-frame dt cap (stall protection)
}

// ParticleConfig holds per-particle creation parameters shared by the two
// particle models.
type ParticleConfig struct {
	Radius         float64 `yaml:"radius"`
	Mass           float64 `yaml:"mass"`
	MaxCount       int     `yaml:"max_count"`       // oldest particles are dropped beyond this
	TrailLength    int     `yaml:"trail_length"`    // cosmetic position history, 0 disables
	ColorVariation int     `yaml:"color_variation"` // per-channel jitter around the base water color
}

// InjectionConfig holds water injection (pointer-down) parameters.
type InjectionConfig struct {
	ReleaseRate    int     `yaml:"release_rate"`      // particles spawned per injection event
	SpawnJitter    float64 `yaml:"spawn_jitter"`      // positional jitter around the pour point, px
	VelJitterX     float64 `yaml:"vel_jitter_x"`      // initial vx in [-v, v]
	VelJitterYUp   float64 `yaml:"vel_jitter_y_up"`   // initial vy lower bound (negative = up)
	VelJitterYDown float64 `yaml:"vel_jitter_y_down"` // initial vy upper bound
	RatePerSec     float64 `yaml:"rate_per_sec"`      // injection events accepted per second
}

// BasicConfig holds tunables for the discrete-particle model.
type BasicConfig struct {
	Restitution     float64 `yaml:"restitution"`      // boundary and geometry bounce
	PairRestitution float64 `yaml:"pair_restitution"` // particle-particle impulse
	Friction        float64 `yaml:"friction"`         // tangential damping on surfaces
	CohesionDamping float64 `yaml:"cohesion_damping"` // lateral damping that clusters the fluid
	MaxSpeed        float64 `yaml:"max_speed"`        // hard velocity cap, units/s
	RestSpeed       float64 `yaml:"rest_speed"`       // below this, anti-freeze jitter may fire
	JitterChance    float64 `yaml:"jitter_chance"`    // probability of anti-freeze jitter per tick
	CooldownFactor  float64 `yaml:"cooldown_factor"`  // pair collision cooldown as a fraction of dt
}

// SPHConfig holds tunables for the smoothed-particle-hydrodynamics model.
type SPHConfig struct {
	SmoothingLength float64 `yaml:"smoothing_length"` // kernel support radius h
	GasConstant     float64 `yaml:"gas_constant"`     // equation-of-state stiffness
	RestDensity     float64 `yaml:"rest_density"`
	KernelMass      float64 `yaml:"kernel_mass"` // mass used inside kernel sums
	Viscosity       float64 `yaml:"viscosity"`
	SurfaceTension  float64 `yaml:"surface_tension"`
	CohesionPull    float64 `yaml:"cohesion_pull"`     // surface-particle centroid pull strength
	CohesionCutoff  int     `yaml:"cohesion_cutoff"`   // neighbor count below which cohesion applies
	DensityFloor    float64 `yaml:"density_floor"`     // density clamp floor
	PressureMin     float64 `yaml:"pressure_min"`      // pressure clamp bounds
	PressureMax     float64 `yaml:"pressure_max"`
	ForceClamp      float64 `yaml:"force_clamp"`       // per-axis pressure force clamp
	Restitution     float64 `yaml:"restitution"`
	Friction        float64 `yaml:"friction"`
	MaxSpeed        float64 `yaml:"max_speed"`
	RestSpeed       float64 `yaml:"rest_speed"`
	JitterChance    float64 `yaml:"jitter_chance"`
	MaxSubstep      float64 `yaml:"max_substep"` // dt cap per sub-step, seconds
}

// GridConfig holds tunables for the cellular-automaton model.
type GridConfig struct {
	CellSize        float64 `yaml:"cell_size"`         // px per cell
	VerticalRate    float64 `yaml:"vertical_rate"`     // fraction flowing into an under-full cell below
	SpreadRate      float64 `yaml:"spread_rate"`       // three-way horizontal equalization rate
	EdgeSpreadRate  float64 `yaml:"edge_spread_rate"`  // two-way rate when only one side is open
	Deadband        float64 `yaml:"deadband"`          // minimum imbalance before horizontal flow
	SettleThreshold float64 `yaml:"settle_threshold"`  // level at or below which a cell empties
	BreakerPeriod   int     `yaml:"breaker_period"`    // ticks between equilibrium-breaker runs
	BreakerCells    int     `yaml:"breaker_cells"`     // cells perturbed per breaker run
	BreakerAmp      float64 `yaml:"breaker_amp"`       // perturbation amplitude
	BreakerMinWater int     `yaml:"breaker_min_water"` // minimum active water cells to consider
	ConvergedFrac   float64 `yaml:"converged_frac"`    // unchanged fraction that counts as converged
	Substeps        int     `yaml:"substeps"`          // sweeps per driver frame
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // seconds per stats window
	PerfWindow  int     `yaml:"perf_window"`  // ticks averaged by the perf collector
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	GridCols          int     // Screen.Width / Grid.CellSize
	GridRows          int     // Screen.Height / Grid.CellSize
	SmoothingLengthSq float64 // SPH.SmoothingLength squared
	GravityY          float64 // Physics.Gravity * Physics.GravityScale
}

// Load loads configuration from a YAML file, merging over embedded defaults.
// An empty path uses defaults only.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into the same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	return cfg, nil
}

// MustLoad is like Load but panics on error. Intended for tests and tools.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return cfg
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.Grid.CellSize > 0 {
		c.Derived.GridCols = int(float64(c.Screen.Width) / c.Grid.CellSize)
		c.Derived.GridRows = int(float64(c.Screen.Height) / c.Grid.CellSize)
	}
	c.Derived.SmoothingLengthSq = c.SPH.SmoothingLength * c.SPH.SmoothingLength
	c.Derived.GravityY = c.Physics.Gravity * c.Physics.GravityScale
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
