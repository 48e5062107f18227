package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// AngleWeights holds the per-angle weighting coefficients applied during
// cross-angle matching for one observed orientation. Weights must sum to 1.0.
type AngleWeights struct {
	Center float64 `yaml:"center"`
	Left   float64 `yaml:"left"`
	Right  float64 `yaml:"right"`
}

// YawRange is an inclusive yaw interval in degrees.
type YawRange struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// MatchingSettings is the immutable configuration value object consumed by the
// matching engine. It is resolved once at load time and never mutated at
// runtime; request handlers receive it by value.
type MatchingSettings struct {
	// minimum confidence (0-100) any accepted match must reach
	MinimumMatchConfidence float64 `yaml:"minimum_match_confidence"`

	// adaptive tolerance parameters
	BaseTolerance             float64 `yaml:"base_tolerance"`
	AccessoryToleranceBoost   float64 `yaml:"accessory_tolerance_boost"`
	LowQualityToleranceBoost  float64 `yaml:"low_quality_tolerance_boost"`
	LowQualityCutoff          float64 `yaml:"low_quality_cutoff"`
	SideProfileToleranceFloor float64 `yaml:"side_profile_tolerance_floor"`
	PartialFaceToleranceFloor float64 `yaml:"partial_face_tolerance_floor"`
	ToleranceMin              float64 `yaml:"tolerance_min"`
	ToleranceMax              float64 `yaml:"tolerance_max"`

	// per-orientation angle weights, keyed by orientation label
	OrientationWeights map[string]AngleWeights `yaml:"orientation_weights"`

	// orientation classification thresholds (degrees)
	CenterYawLimit  float64 `yaml:"center_yaw_limit"`
	ProfileYawOnset float64 `yaml:"profile_yaw_onset"`
	MaxYaw          float64 `yaml:"max_yaw"`

	// enrollment pose validation
	PoseStabilityFrames int                 `yaml:"pose_stability_frames"`
	PoseSeparation      float64             `yaml:"pose_separation"`
	MinCaptureQuality   float64             `yaml:"min_capture_quality"`
	StageYawRanges      map[string]YawRange `yaml:"stage_yaw_ranges"`

	// distance below which an enrolling subject is treated as an already
	// known person instead of a new record
	DuplicatePersonTolerance float64 `yaml:"duplicate_person_tolerance"`

	// mean eye-region intensity (0-255) below which dark eyewear is assumed
	EyewearDarknessThreshold float64 `yaml:"eyewear_darkness_threshold"`
}

// DefaultMatchingSettings returns the built-in settings.
func DefaultMatchingSettings() MatchingSettings {
	return MatchingSettings{
		MinimumMatchConfidence: 70.0,

		BaseTolerance:             0.60,
		AccessoryToleranceBoost:   0.08,
		LowQualityToleranceBoost:  0.05,
		LowQualityCutoff:          0.5,
		SideProfileToleranceFloor: 0.63,
		PartialFaceToleranceFloor: 0.68,
		ToleranceMin:              0.50,
		ToleranceMax:              0.75,

		OrientationWeights: map[string]AngleWeights{
			"center":  {Center: 0.6, Left: 0.2, Right: 0.2},
			"left":    {Center: 0.3, Left: 0.6, Right: 0.1},
			"right":   {Center: 0.3, Left: 0.1, Right: 0.6},
			"unknown": {Center: 0.34, Left: 0.33, Right: 0.33},
		},

		CenterYawLimit:  15.0,
		ProfileYawOnset: 25.0,
		MaxYaw:          90.0,

		PoseStabilityFrames: 5,
		PoseSeparation:      20.0,
		MinCaptureQuality:   0.6,
		StageYawRanges: map[string]YawRange{
			"center": {Min: -15, Max: 15},
			"left":   {Min: -90, Max: -25},
			"right":  {Min: 25, Max: 90},
		},

		DuplicatePersonTolerance: 0.5,

		EyewearDarknessThreshold: 50.0,
	}
}

// LoadMatchingSettings reads a YAML override file on top of the defaults.
func LoadMatchingSettings(path string) (MatchingSettings, error) {
	settings := DefaultMatchingSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		return MatchingSettings{}, fmt.Errorf("failed to read matching settings file '%s': %w", path, err)
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return MatchingSettings{}, fmt.Errorf("failed to parse matching settings file '%s': %w", path, err)
	}

	return settings, nil
}

// Validate checks invariants the matcher relies on: weight tables sum to 1.0,
// tolerances stay within [0,1], and the confidence floor is a percentage.
func (s MatchingSettings) Validate() error {
	if s.MinimumMatchConfidence < 0 || s.MinimumMatchConfidence > 100 {
		return fmt.Errorf("minimum_match_confidence must be between 0 and 100, got %v", s.MinimumMatchConfidence)
	}

	tolerances := map[string]float64{
		"base_tolerance":               s.BaseTolerance,
		"side_profile_tolerance_floor": s.SideProfileToleranceFloor,
		"partial_face_tolerance_floor": s.PartialFaceToleranceFloor,
		"tolerance_min":                s.ToleranceMin,
		"tolerance_max":                s.ToleranceMax,
		"duplicate_person_tolerance":   s.DuplicatePersonTolerance,
	}
	for name, v := range tolerances {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be between 0 and 1, got %v", name, v)
		}
	}
	if s.ToleranceMin > s.ToleranceMax {
		return fmt.Errorf("tolerance_min %v exceeds tolerance_max %v", s.ToleranceMin, s.ToleranceMax)
	}

	for orientation, w := range s.OrientationWeights {
		total := w.Center + w.Left + w.Right
		// allow small floating point error
		if math.Abs(total-1.0) > 0.01 {
			return fmt.Errorf("weights for orientation '%s' must sum to 1.0, got %v", orientation, total)
		}
	}

	if s.PoseStabilityFrames <= 0 {
		return fmt.Errorf("pose_stability_frames must be positive, got %d", s.PoseStabilityFrames)
	}
	if s.PoseSeparation <= 0 {
		return fmt.Errorf("pose_separation must be positive, got %v", s.PoseSeparation)
	}

	return nil
}
