package recognition

// AngleLabel is the discrete head-orientation category used both for
// enrollment stages and for runtime orientation classification.
type AngleLabel string

const (
	AngleCenter  AngleLabel = "center"
	AngleLeft    AngleLabel = "left"
	AngleRight   AngleLabel = "right"
	AngleUnknown AngleLabel = "unknown"
)

// StoredAngles lists the angle labels a person may hold reference encodings
// for, in enrollment order.
var StoredAngles = []AngleLabel{AngleCenter, AngleLeft, AngleRight}

// Point is a 2D landmark coordinate in face-crop pixel space.
type Point struct {
	X float64
	Y float64
}

// Landmarks is the named landmark set produced by the external detection
// service for one face. Slices may be empty when the detector could not
// resolve the feature; consumers degrade gracefully in that case.
type Landmarks struct {
	LeftEye    []Point // eye outline, outer corner first
	RightEye   []Point // eye outline, outer corner first
	NoseBridge []Point // bridge points, top to tip
}

// CropStats carries precomputed statistics of a face crop, produced by the
// external detection service.
type CropStats struct {
	Sharpness          float64 // Laplacian variance
	Brightness         float64 // mean intensity, 0-255
	Contrast           float64 // intensity standard deviation
	Width              int     // crop width in pixels
	Height             int     // crop height in pixels
	EyeRegionIntensity float64 // mean intensity within the eye-region box, 0-255
}

// FaceObservation is one detected face prepared for matching. It is built per
// face, consumed within a single matching call, and never persisted.
type FaceObservation struct {
	Embedding         []float32
	Landmarks         Landmarks
	Yaw               float64
	Orientation       AngleLabel
	Quality           float64
	HasDarkEyewear    bool
	PartialVisibility bool
}

// MatchResult is the outcome of matching one FaceObservation against the
// enrolled person set.
type MatchResult struct {
	PersonID          *uint                  `json:"person_id,omitempty"`
	Confidence        float64                `json:"confidence"` // 0-100
	ContributingAngle AngleLabel             `json:"contributing_angle,omitempty"`
	Distances         map[AngleLabel]float64 `json:"distances,omitempty"`
	WeightedDistance  float64                `json:"weighted_distance"`
	Tolerance         float64                `json:"tolerance"`
	Accepted          bool                   `json:"accepted"`
	Message           string                 `json:"message,omitempty"`
}
