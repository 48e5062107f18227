package recognition

import "github.com/17hemanthkumar/workingpicme-sub001/config"

// Analyzer assembles a FaceObservation from the raw signals the external
// detection service hands over: an embedding vector, a landmark set, and crop
// statistics.
type Analyzer struct {
	orientation *OrientationClassifier
	accessories *AccessoryDetector
}

func NewAnalyzer(settings config.MatchingSettings) *Analyzer {
	return &Analyzer{
		orientation: NewOrientationClassifier(settings),
		accessories: NewAccessoryDetector(settings),
	}
}

// Analyze classifies orientation, scores quality, and flags accessories for
// one detected face. It never fails: malformed landmarks degrade to an
// unknown orientation and degenerate crop statistics to a neutral quality.
func (a *Analyzer) Analyze(embedding []float32, lm Landmarks, stats CropStats, partialVisibility bool) FaceObservation {
	yaw, label := a.orientation.Classify(lm)
	flags := a.accessories.Detect(stats, lm)

	return FaceObservation{
		Embedding:         embedding,
		Landmarks:         lm,
		Yaw:               yaw,
		Orientation:       label,
		Quality:           AssessQuality(stats),
		HasDarkEyewear:    flags.HasDarkEyewear,
		PartialVisibility: partialVisibility,
	}
}
