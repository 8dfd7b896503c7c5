// Package surge generates random smooth curves for function
// perturbation. Curves are projectile trajectories under a randomly
// sampled gravitational force whose direction flips at randomly sampled
// measurement points, with velocity and angle carried across flips so
// the result stays smooth. Constraints keep every curve inside a caller
// supplied y-axis window, optionally converging in a single point.
package surge

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
)

// Default x-axis percentile range outside which no gravity flips are
// placed, to avoid extreme bends near the boundaries.
var defaultChangeRange = [2]float64{0.1, 0.9}

// Config controls curve generation. Zero-value optional fields select
// the documented defaults.
type Config struct {
	// Curves is the number of curves requested. Must be at least one.
	Curves int
	// XInterval is the measurement range [left, right].
	XInterval [2]float64
	// YInterval is the window [lower, upper] curves must not leave.
	YInterval [2]float64
	// Measure is the number of equally spaced measurement points.
	// Must be at least two.
	Measure int
	// DirectionMaximum bounds the number of gravity flips per curve.
	DirectionMaximum int
	// ConvergencePoint, when set, is the point all curves pass through.
	// When nil each curve starts at a uniformly sampled y value.
	ConvergencePoint *[2]float64
	// LogScale spaces measurement points equally on a log10 x-axis.
	LogScale bool
	// TruncNorm samples gravity magnitudes from a mirrored truncated
	// normal instead of uniformly, keeping curves closer to their
	// starting level on average.
	TruncNorm bool
	// RandomLaunch starts each curve at a uniform angle in (-90°, 90°)
	// instead of a flat launch.
	RandomLaunch bool
	// RightConvergence flips the y measurements so curves converge on
	// the right side.
	RightConvergence bool
	// ChangeRange, when set, overrides the percentile window for
	// gravity flips.
	ChangeRange *[2]float64
	// StartForce, when set, is the x position before which no y
	// deviation from the starting point happens.
	StartForce *float64
	// Seed drives all random sampling; equal seeds reproduce equal
	// curve sets.
	Seed uint64
}

// Curve is one generated curve: x measurement points and y values.
type Curve struct {
	X []float64
	Y []float64
}

// Generate produces up to cfg.Curves random smooth curves. Candidate
// curves whose trajectory leaves the y window are rejected, so the
// generator over-produces internally and cuts the result to the request;
// with tight constraints fewer curves than requested can come back.
func Generate(cfg Config) ([]Curve, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))

	changeRange := defaultChangeRange
	if cfg.ChangeRange != nil {
		changeRange = *cfg.ChangeRange
	}

	x0, x1 := cfg.XInterval[0], cfg.XInterval[1]
	stepSize := (x1 - x0) / float64(cfg.Measure-1)
	steps := make([]float64, cfg.Measure)
	for i := range steps {
		steps[i] = x0 + float64(i)*stepSize
	}

	// Over-generate to compensate for out-of-window rejections.
	errorFactor := 2 * cfg.DirectionMaximum
	if cfg.RandomLaunch {
		errorFactor *= 2
	}
	if errorFactor < 1 {
		errorFactor = 1
	}
	attempts := cfg.Curves * errorFactor

	// A requested flat start is re-expressed as a measurement index once
	// per curve; on a log scale the threshold is mapped back to the
	// linear steps first.
	var flatValue float64
	hasFlat := cfg.StartForce != nil
	if hasFlat {
		flatValue = *cfg.StartForce
		if cfg.LogScale {
			logged := logSteps(cfg.XInterval, cfg.Measure)
			cut := len(logged) - 1
			for i, v := range logged {
				if v > flatValue {
					cut = i
					break
				}
			}
			flatValue = steps[cut]
		}
	}

	curves := make([]Curve, 0, cfg.Curves)
	for attempt := 0; attempt < attempts && len(curves) < cfg.Curves; attempt++ {
		c := generateOne(cfg, rng, steps, stepSize, changeRange, hasFlat, flatValue)
		if c == nil {
			continue
		}
		curves = append(curves, *c)
	}

	if cfg.LogScale {
		logged := logSteps(cfg.XInterval, cfg.Measure)
		for i := range curves {
			copy(curves[i].X, logged)
		}
	}
	if cfg.RightConvergence {
		for i := range curves {
			y := curves[i].Y
			for a, b := 0, len(y)-1; a < b; a, b = a+1, b-1 {
				y[a], y[b] = y[b], y[a]
			}
		}
	}
	return curves, nil
}

func (cfg Config) validate() error {
	if cfg.Curves < 1 {
		return fmt.Errorf("surge: curves must be >= 1, got %d", cfg.Curves)
	}
	if cfg.Measure < 2 {
		return fmt.Errorf("surge: measure must be >= 2, got %d", cfg.Measure)
	}
	if cfg.XInterval[0] >= cfg.XInterval[1] {
		return fmt.Errorf("surge: x interval [%g, %g] is not increasing", cfg.XInterval[0], cfg.XInterval[1])
	}
	if cfg.YInterval[0] >= cfg.YInterval[1] {
		return fmt.Errorf("surge: y interval [%g, %g] is not increasing", cfg.YInterval[0], cfg.YInterval[1])
	}
	if cfg.DirectionMaximum < 0 {
		return fmt.Errorf("surge: direction maximum must be >= 0, got %d", cfg.DirectionMaximum)
	}
	if cfg.LogScale && cfg.XInterval[0] <= 0 {
		return fmt.Errorf("surge: log scale needs a positive x interval, got left edge %g", cfg.XInterval[0])
	}
	if cfg.ChangeRange != nil {
		cr := *cfg.ChangeRange
		if cr[0] < 0 || cr[1] > 1 || cr[0] >= cr[1] {
			return fmt.Errorf("surge: change range [%g, %g] must be increasing within [0, 1]", cr[0], cr[1])
		}
	}
	return nil
}

// generateOne builds a single candidate curve, or nil when the
// trajectory leaves the y window.
func generateOne(cfg Config, rng *rand.Rand, steps []float64, stepSize float64, changeRange [2]float64, hasFlat bool, flatValue float64) *Curve {
	yLo, yHi := cfg.YInterval[0], cfg.YInterval[1]

	convergence := [2]float64{cfg.XInterval[0], 0}
	if cfg.ConvergencePoint != nil {
		convergence = *cfg.ConvergencePoint
	} else {
		convergence[1] = yLo + rng.Float64()*(yHi-yLo)
	}

	// Gravity flip points, restricted to the change-range percentiles
	// and shifted past the flat-start region when one is requested.
	var flatChange int
	lowerRange := int(float64(len(steps)) * changeRange[0])
	if hasFlat {
		flatChange = int(math.Floor(flatValue / stepSize))
		lowerRange += flatChange
	}
	higherRange := int(float64(len(steps)) * changeRange[1])
	changePoints := samplePoints(rng, lowerRange, higherRange, cfg.DirectionMaximum)
	if hasFlat {
		changePoints = append([]int{flatChange}, changePoints...)
	}

	direction := 1.0
	if rng.IntN(2) == 0 {
		direction = -1.0
	}
	velocity := 1.0
	launchAngle := 0.0
	if cfg.RandomLaunch {
		launchAngle = (rng.Float64()*180 - 90) * math.Pi / 180
	}

	forceMax := maxForce(cfg.XInterval[1], velocity, direction, launchAngle, cfg.YInterval, convergence)
	force := sampleForce(rng, cfg.TruncNorm, forceMax)

	startPoint := convergence
	lastPoint := convergence
	horizontalStart := 0.0
	counter := 0
	flatPending := hasFlat

	var pathX, pathY []float64
	parts := len(changePoints) + 1
	for part := 0; part < parts; part++ {
		var partialSteps []float64
		if len(changePoints) == 0 {
			partialSteps = steps[counter:]
		} else {
			partialSteps = steps[counter : changePoints[0]+1]
			counter = changePoints[0]
			changePoints = changePoints[1:]
			scale := float64(len(steps)) / float64(len(partialSteps))
			forceMax *= scale
			if flatPending {
				// Hold the curve flat until the start-force point.
				force = 0
				flatPending = false
			} else {
				force = sampleForce(rng, cfg.TruncNorm, forceMax)
			}
		}

		px, py, last, impactAngle, outVelocity := trajectory(force, velocity, direction, stepSize, startPoint, launchAngle, partialSteps, horizontalStart)
		pathX = append(pathX, px...)
		pathY = append(pathY, py...)
		lastPoint = last
		launchAngle = impactAngle
		velocity = outVelocity

		startPoint = lastPoint
		direction = -direction
		horizontalStart = convergence[0]
		forceMax = maxForce(cfg.XInterval[1]-lastPoint[0], velocity, direction, launchAngle, cfg.YInterval, lastPoint)
		force = sampleForce(rng, cfg.TruncNorm, forceMax)
	}
	pathX = append(pathX, lastPoint[0])
	pathY = append(pathY, lastPoint[1])

	for _, y := range pathY {
		if y < yLo || y > yHi {
			return nil
		}
	}
	return &Curve{X: pathX, Y: pathY}
}

// maxForce returns the largest gravitational magnitude that cannot push
// the projectile past the y window edge in its current direction before
// the remaining flight time runs out.
func maxForce(restDistance, velocity, direction, launchAngle float64, yInterval [2]float64, from [2]float64) float64 {
	restTime := restDistance / velocity
	edge := yInterval[0]
	if direction > 0 {
		edge = yInterval[1]
	}
	maxRange := edge - from[1]
	absMax := -direction * maxRange
	spread := velocity*math.Sin(launchAngle) - absMax
	return 2 * spread / (restTime * restTime)
}

func sampleForce(rng *rand.Rand, truncNorm bool, forceMax float64) float64 {
	if truncNorm {
		z := rng.NormFloat64()
		for math.Abs(z) > 2 {
			z = rng.NormFloat64()
		}
		return math.Abs(z) * forceMax / 2
	}
	return rng.Float64() * forceMax
}

// samplePoints draws a uniform count in [0, directionMaximum] of
// distinct indices from [lo, hi), sorted ascending.
func samplePoints(rng *rand.Rand, lo, hi, directionMaximum int) []int {
	if directionMaximum == 0 || hi <= lo {
		return nil
	}
	count := rng.IntN(directionMaximum + 1)
	if count > hi-lo {
		count = hi - lo
	}
	if count == 0 {
		return nil
	}
	pool := make([]int, hi-lo)
	for i := range pool {
		pool[i] = lo + i
	}
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	picked := append([]int(nil), pool[:count]...)
	sort.Ints(picked)
	return picked
}

// trajectory computes one partial projectile path under a constant
// force, returning the measurement points excluding the final one, the
// final point, and the impact angle and velocity that seed the next
// partial path so consecutive parts blend into one smooth curve.
func trajectory(force, velocity, direction, stepSize float64, start [2]float64, launchAngle float64, partialSteps []float64, horizontalStart float64) (xs, ys []float64, last [2]float64, impactAngle, finalVelocity float64) {
	horizontal := velocity * math.Cos(launchAngle)
	vertical := velocity * math.Sin(launchAngle)
	startVelocity := velocity

	xs = make([]float64, 0, len(partialSteps))
	ys = make([]float64, 0, len(partialSteps))
	xs = append(xs, start[0])
	ys = append(ys, start[1])

	displacement := horizontalStart
	for i := 1; i < len(partialSteps); i++ {
		displacement += stepSize
		t := displacement / horizontal
		vertical = startVelocity*math.Sin(launchAngle) - force*t
		velocityPart := startVelocity * math.Sin(launchAngle) * t
		forcePart := 0.5 * force * t * t
		verticalDisplacement := forcePart - velocityPart

		xs = append(xs, partialSteps[i])
		ys = append(ys, start[1]+direction*verticalDisplacement)
	}

	finalVelocity = math.Hypot(horizontal, vertical)
	impactAngle = math.Atan(-vertical / horizontal)

	last = [2]float64{xs[len(xs)-1], ys[len(ys)-1]}
	xs = xs[:len(xs)-1]
	ys = ys[:len(ys)-1]
	return xs, ys, last, impactAngle, finalVelocity
}

// logSteps returns measurement points equally spaced on a log10 x-axis.
func logSteps(xInterval [2]float64, measure int) []float64 {
	lo := math.Log10(xInterval[0])
	hi := math.Log10(xInterval[1])
	step := (hi - lo) / float64(measure-1)
	out := make([]float64, measure)
	for i := range out {
		out[i] = math.Pow(10, lo+float64(i)*step)
	}
	return out
}
