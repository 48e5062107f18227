package recognition

import "math"

// Normalization constants for the quality sub-scores. A Laplacian variance of
// 500, a contrast of 50, and a 100px crop side each count as fully adequate.
const (
	sharpnessNorm     = 500.0
	contrastNorm      = 50.0
	resolutionNorm    = 100.0
	optimalBrightness = 127.0
	neutralQuality    = 0.5
)

// Sub-score weights: sharpness 30%, brightness 25%, contrast 25%,
// resolution 20%.
const (
	sharpnessWeight  = 0.30
	brightnessWeight = 0.25
	contrastWeight   = 0.25
	resolutionWeight = 0.20
)

// AssessQuality converts face-crop statistics into a single normalized
// quality score in [0,1]. The result is deterministic for identical input.
// Degenerate input (non-positive dimensions or non-finite statistics) yields
// the neutral mid-range score rather than failing the match.
func AssessQuality(stats CropStats) float64 {
	if stats.Width <= 0 || stats.Height <= 0 {
		return neutralQuality
	}
	if !isFinite(stats.Sharpness) || !isFinite(stats.Brightness) || !isFinite(stats.Contrast) {
		return neutralQuality
	}

	sharpness := clamp01(stats.Sharpness / sharpnessNorm)
	brightness := clamp01(1.0 - math.Abs(stats.Brightness-optimalBrightness)/optimalBrightness)
	contrast := clamp01(stats.Contrast / contrastNorm)

	minSide := stats.Width
	if stats.Height < minSide {
		minSide = stats.Height
	}
	resolution := clamp01(float64(minSide) / resolutionNorm)

	score := sharpness*sharpnessWeight +
		brightness*brightnessWeight +
		contrast*contrastWeight +
		resolution*resolutionWeight

	return clamp01(score)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
