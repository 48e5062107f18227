package recognition

import "github.com/17hemanthkumar/workingpicme-sub001/config"

// AccessoryFlags carries occlusion signals relevant to tolerance adaptation.
// The flags only shift matching strictness; they never affect the embedding
// comparison itself, so false positives are harmless.
type AccessoryFlags struct {
	HasDarkEyewear bool `json:"has_dark_eyewear"`
}

// Rect is an axis-aligned bounding box in face-crop pixel space.
type Rect struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// AccessoryDetector flags dark eyewear from the mean intensity of the
// eye-region bounding box.
type AccessoryDetector struct {
	darknessThreshold float64
}

func NewAccessoryDetector(settings config.MatchingSettings) *AccessoryDetector {
	return &AccessoryDetector{darknessThreshold: settings.EyewearDarknessThreshold}
}

// Detect flags dark eyewear when the eye region is present and its mean
// intensity falls below the darkness threshold. With no eye landmarks there
// is no region to judge, so nothing is flagged.
func (d *AccessoryDetector) Detect(stats CropStats, lm Landmarks) AccessoryFlags {
	if _, ok := EyeRegionBox(lm); !ok {
		return AccessoryFlags{}
	}
	return AccessoryFlags{
		HasDarkEyewear: stats.EyeRegionIntensity < d.darknessThreshold,
	}
}

// EyeRegionBox computes the bounding box spanning both eye landmark sets.
// The external detection service samples the mean pixel intensity inside this
// box to produce CropStats.EyeRegionIntensity.
func EyeRegionBox(lm Landmarks) (Rect, bool) {
	points := make([]Point, 0, len(lm.LeftEye)+len(lm.RightEye))
	points = append(points, lm.LeftEye...)
	points = append(points, lm.RightEye...)
	if len(points) == 0 {
		return Rect{}, false
	}

	box := Rect{MinX: points[0].X, MinY: points[0].Y, MaxX: points[0].X, MaxY: points[0].Y}
	for _, p := range points[1:] {
		if p.X < box.MinX {
			box.MinX = p.X
		}
		if p.X > box.MaxX {
			box.MaxX = p.X
		}
		if p.Y < box.MinY {
			box.MinY = p.Y
		}
		if p.Y > box.MaxY {
			box.MaxY = p.Y
		}
	}
	return box, true
}
