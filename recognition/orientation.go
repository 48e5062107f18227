package recognition

import (
	"math"

	"github.com/17hemanthkumar/workingpicme-sub001/config"
)

// yawScale maps the normalized nose-offset ratio to degrees. A nose-bridge
// point displaced by one full inter-eye distance corresponds to a full
// profile turn.
const yawScale = 90.0

// OrientationClassifier converts landmark geometry into a yaw angle and a
// discrete orientation label.
type OrientationClassifier struct {
	centerLimit  float64
	profileOnset float64
	maxYaw       float64
}

func NewOrientationClassifier(settings config.MatchingSettings) *OrientationClassifier {
	return &OrientationClassifier{
		centerLimit:  settings.CenterYawLimit,
		profileOnset: settings.ProfileYawOnset,
		maxYaw:       settings.MaxYaw,
	}
}

// Classify estimates head yaw from the horizontal offset of the nose bridge
// relative to the midpoint of the outer eye corners, normalized by the
// inter-eye distance. Negative yaw means the head is turned left, positive
// right. Missing or degenerate landmarks yield (0, unknown) instead of an
// error.
func (c *OrientationClassifier) Classify(lm Landmarks) (float64, AngleLabel) {
	if len(lm.LeftEye) == 0 || len(lm.RightEye) == 0 || len(lm.NoseBridge) == 0 {
		return 0, AngleUnknown
	}

	leftOuter := lm.LeftEye[0]
	rightOuter := lm.RightEye[0]

	interEye := math.Abs(rightOuter.X - leftOuter.X)
	if interEye <= 0 {
		return 0, AngleUnknown
	}

	eyeMidX := (leftOuter.X + rightOuter.X) / 2

	var noseX float64
	for _, p := range lm.NoseBridge {
		noseX += p.X
	}
	noseX /= float64(len(lm.NoseBridge))

	ratio := (noseX - eyeMidX) / interEye
	yaw := ratio * yawScale
	if yaw > c.maxYaw {
		yaw = c.maxYaw
	}
	if yaw < -c.maxYaw {
		yaw = -c.maxYaw
	}

	return yaw, c.LabelForYaw(yaw)
}

// LabelForYaw buckets a yaw angle into an orientation label. The bands
// between the center limit and the profile onset (15-25 degrees either side
// by default) are intentionally ambiguous and stay unknown.
func (c *OrientationClassifier) LabelForYaw(yaw float64) AngleLabel {
	switch {
	case math.Abs(yaw) <= c.centerLimit:
		return AngleCenter
	case yaw <= -c.profileOnset && yaw >= -c.maxYaw:
		return AngleLeft
	case yaw >= c.profileOnset && yaw <= c.maxYaw:
		return AngleRight
	default:
		return AngleUnknown
	}
}
