// Command curve-gen produces synthetic measurement curves for
// exercising the clustering pipeline: families of smooth trajectories
// through a shared convergence point, written as a series CSV and an
// optional PNG plot.
package main

import (
	"flag"
	"log"

	"github.com/banshee-data/trajectory.report/internal/report"
	"github.com/banshee-data/trajectory.report/internal/surge"
	"github.com/banshee-data/trajectory.report/internal/trajio"
)

var (
	curves     = flag.Int("curves", 50, "Number of curves to generate")
	measure    = flag.Int("measure", 100, "Measurement points per curve")
	xMin       = flag.Float64("x-min", 0, "Lower x edge")
	xMax       = flag.Float64("x-max", 5, "Upper x edge")
	yMin       = flag.Float64("y-min", 0, "Lower y edge")
	yMax       = flag.Float64("y-max", 2, "Upper y edge")
	dirMax     = flag.Int("direction-max", 2, "Maximum number of direction changes per curve")
	converge   = flag.Float64("converge-y", 1, "Y value all curves pass through at the starting edge")
	rightConv  = flag.Bool("right", false, "Converge at the right edge instead of the left")
	logScale   = flag.Bool("log-scale", false, "Space measurement points logarithmically")
	truncNorm  = flag.Bool("truncnorm", false, "Sample curve forces from a truncated normal")
	randLaunch = flag.Bool("random-launch", false, "Randomise the initial launch direction")
	seed       = flag.Uint64("seed", 1, "Random seed")
	outPath    = flag.String("out", "curves.csv", "Series CSV output path")
	plotPath   = flag.String("plot", "", "PNG plot output path (optional)")
)

func main() {
	flag.Parse()

	cfg := surge.Config{
		Curves:           *curves,
		XInterval:        [2]float64{*xMin, *xMax},
		YInterval:        [2]float64{*yMin, *yMax},
		Measure:          *measure,
		DirectionMaximum: *dirMax,
		ConvergencePoint: &[2]float64{*xMin, *converge},
		RightConvergence: *rightConv,
		LogScale:         *logScale,
		TruncNorm:        *truncNorm,
		RandomLaunch:     *randLaunch,
		Seed:             *seed,
	}

	generated, err := surge.Generate(cfg)
	if err != nil {
		log.Fatalf("curve generation failed: %v", err)
	}
	if len(generated) < *curves {
		log.Printf("generated %d of %d requested curves (others left the window)", len(generated), *curves)
	}

	if err := trajio.WriteCurves(*outPath, generated); err != nil {
		log.Fatalf("failed to write curves: %v", err)
	}
	log.Printf("wrote %d curves to %s", len(generated), *outPath)

	if *plotPath != "" {
		if err := report.WriteCurvePlot(*plotPath, "generated curves", generated); err != nil {
			log.Fatalf("failed to write plot: %v", err)
		}
		log.Printf("wrote plot to %s", *plotPath)
	}
}
