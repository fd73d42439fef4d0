// Package main tunes the grid model's horizontal flow rates so pooled water
// levels out quickly without losing volume. It runs headless leveling
// scenarios under gonum's Nelder-Mead and writes the best rates back out as a
// config snippet.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/gonum/optimize"

	"github.com/ripplesim/ripple/config"
	"github.com/ripplesim/ripple/geom"
	"github.com/ripplesim/ripple/sim"
)

const (
	evalTicks   = 600 // sweeps per evaluation
	troughCells = 20  // interior width of the test trough, in cells
)

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxEvals := flag.Int("max-evals", 100, "Maximum number of evaluations")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	baseCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logFile, err := os.Create(filepath.Join(*outputDir, "calibrate_log.csv"))
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	logWriter := csv.NewWriter(logFile)
	defer logWriter.Flush()
	logWriter.Write([]string{"eval", "fitness", "spread_rate", "edge_spread_rate"})

	evalCount := 0
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			fitness := evaluate(baseCfg, x)
			evalCount++

			spread, edge := clampRates(x)
			logWriter.Write([]string{
				strconv.Itoa(evalCount),
				fmt.Sprintf("%.6f", fitness),
				fmt.Sprintf("%.4f", spread),
				fmt.Sprintf("%.4f", edge),
			})
			logWriter.Flush()

			fmt.Printf("Eval %d/%d: fitness=%.6f spread=%.3f edge=%.3f\n",
				evalCount, *maxEvals, fitness, spread, edge)
			return fitness
		},
	}

	initX := []float64{baseCfg.Grid.SpreadRate, baseCfg.Grid.EdgeSpreadRate}
	settings := &optimize.Settings{FuncEvaluations: *maxEvals}

	result, err := optimize.Minimize(problem, initX, settings, &optimize.NelderMead{})
	if err != nil {
		log.Fatalf("optimization failed: %v", err)
	}

	spread, edge := clampRates(result.X)
	fmt.Printf("Best: fitness=%.6f spread_rate=%.4f edge_spread_rate=%.4f\n",
		result.F, spread, edge)

	// Write the tuned config alongside the log.
	tuned := *baseCfg
	tuned.Grid.SpreadRate = spread
	tuned.Grid.EdgeSpreadRate = edge
	if err := tuned.WriteYAML(filepath.Join(*outputDir, "config_tuned.yaml")); err != nil {
		log.Fatalf("failed to write tuned config: %v", err)
	}
}

// clampRates maps raw optimizer values into sane flow rates.
func clampRates(x []float64) (spread, edge float64) {
	clamp := func(v float64) float64 {
		if v < 0.05 {
			return 0.05
		}
		if v > 1 {
			return 1
		}
		return v
	}
	return clamp(x[0]), clamp(x[1])
}

// evaluate scores one parameter vector: lower is better. A closed trough gets
// a full column of water at its center; after a fixed number of sweeps the
// score combines the remaining level imbalance with any volume lost.
func evaluate(base *config.Config, x []float64) float64 {
	spread, edge := clampRates(x)

	cfg := *base
	cfg.Grid.SpreadRate = spread
	cfg.Grid.EdgeSpreadRate = edge

	m := sim.NewGridModel(&cfg, rand.New(rand.NewSource(1)))

	cs := cfg.Grid.CellSize
	floorY := float64(cfg.Screen.Height) - 10*cs
	left := float64(cfg.Screen.Width)/2 - float64(troughCells)/2*cs
	width := float64(troughCells) * cs

	m.SetScene([]geom.Shape{
		geom.Rect{Left: left - cs, Top: floorY - 6*cs, Width: cs, Height: 7 * cs},
		geom.Rect{Left: left + width, Top: floorY - 6*cs, Width: cs, Height: 7 * cs},
		geom.Rect{Left: left - cs, Top: floorY, Width: width + 2*cs, Height: cs},
	})

	// Stack water in the middle of the trough.
	midX := left + width/2
	for i := 0; i < 4; i++ {
		m.AddWater(midX, floorY-(float64(i)+0.5)*cs, 0)
	}
	want := m.TotalVolume()

	for i := 0; i < evalTicks; i++ {
		m.Update(1.0 / 60.0)
	}

	// Level imbalance across the bottom row of the trough.
	var levels []float64
	row := int(floorY/cs) - 1
	for c := int(left / cs); c < int((left+width)/cs); c++ {
		levels = append(levels, float64(m.LevelAt(c, row)))
	}
	var mean float64
	for _, l := range levels {
		mean += l
	}
	mean /= float64(len(levels))
	var dev float64
	for _, l := range levels {
		dev += math.Abs(l - mean)
	}
	dev /= float64(len(levels))

	lost := math.Abs(want-m.TotalVolume()) / want
	return dev + 10*lost
}
