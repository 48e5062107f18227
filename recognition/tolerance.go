package recognition

import "github.com/17hemanthkumar/workingpicme-sub001/config"

// ToleranceSelector maps observation conditions (orientation, quality,
// accessories, partial visibility) to a matching tolerance and the angle
// weighting coefficients used by the cross-angle matcher. It is constructed
// from the immutable settings value object and never mutated afterwards.
type ToleranceSelector struct {
	settings config.MatchingSettings
}

func NewToleranceSelector(settings config.MatchingSettings) *ToleranceSelector {
	return &ToleranceSelector{settings: settings}
}

// Select computes the adaptive tolerance for the given conditions. Additive
// adjustments (accessories, low quality) are applied independently, then the
// side-profile and partial-visibility floors, then the final clamp.
func (s *ToleranceSelector) Select(orientation AngleLabel, quality float64, hasAccessory, partialVisibility bool) (float64, config.AngleWeights) {
	tolerance := s.settings.BaseTolerance

	if hasAccessory {
		tolerance += s.settings.AccessoryToleranceBoost
	}
	if quality < s.settings.LowQualityCutoff {
		tolerance += s.settings.LowQualityToleranceBoost
	}

	if orientation == AngleLeft || orientation == AngleRight {
		if tolerance < s.settings.SideProfileToleranceFloor {
			tolerance = s.settings.SideProfileToleranceFloor
		}
	}
	if partialVisibility {
		if tolerance < s.settings.PartialFaceToleranceFloor {
			tolerance = s.settings.PartialFaceToleranceFloor
		}
	}

	if tolerance < s.settings.ToleranceMin {
		tolerance = s.settings.ToleranceMin
	}
	if tolerance > s.settings.ToleranceMax {
		tolerance = s.settings.ToleranceMax
	}

	return tolerance, s.WeightsFor(orientation)
}

// WeightsFor returns the angle weight table for an observed orientation.
// Unrecognized labels fall back to the even unknown weighting.
func (s *ToleranceSelector) WeightsFor(orientation AngleLabel) config.AngleWeights {
	if w, ok := s.settings.OrientationWeights[string(orientation)]; ok {
		return w
	}
	return s.settings.OrientationWeights[string(AngleUnknown)]
}

// MinimumConfidence returns the confidence floor (0-100) any accepted match
// must reach.
func (s *ToleranceSelector) MinimumConfidence() float64 {
	return s.settings.MinimumMatchConfidence
}

// NormalizeWeights redistributes the weight of absent stored angles
// proportionally across the angles a person actually has, so the weights
// always sum to 1.0 over the compared encodings. A person with a single
// stored angle ends up with weight 1.0 on it. All-absent input returns zero
// weights; the matcher treats such persons as having no candidates.
func NormalizeWeights(w config.AngleWeights, hasCenter, hasLeft, hasRight bool) config.AngleWeights {
	var total float64
	if hasCenter {
		total += w.Center
	}
	if hasLeft {
		total += w.Left
	}
	if hasRight {
		total += w.Right
	}

	if total <= 0 {
		// present angles all carry zero table weight (or none present);
		// spread evenly over whatever is stored
		var present float64
		if hasCenter {
			present++
		}
		if hasLeft {
			present++
		}
		if hasRight {
			present++
		}
		if present == 0 {
			return config.AngleWeights{}
		}
		even := 1.0 / present
		out := config.AngleWeights{}
		if hasCenter {
			out.Center = even
		}
		if hasLeft {
			out.Left = even
		}
		if hasRight {
			out.Right = even
		}
		return out
	}

	out := config.AngleWeights{}
	if hasCenter {
		out.Center = w.Center / total
	}
	if hasLeft {
		out.Left = w.Left / total
	}
	if hasRight {
		out.Right = w.Right / total
	}
	return out
}
