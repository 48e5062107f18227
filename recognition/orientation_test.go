package recognition

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/17hemanthkumar/workingpicme-sub001/config"
)

// landmarksForYaw builds a landmark set whose geometry produces the given yaw:
// outer eye corners 100px apart, nose bridge offset by yaw/90 of that span.
func landmarksForYaw(yaw float64) Landmarks {
	noseX := 50.0 + yaw/90.0*100.0
	return Landmarks{
		LeftEye:    []Point{{X: 0, Y: 40}, {X: 20, Y: 40}},
		RightEye:   []Point{{X: 100, Y: 40}, {X: 80, Y: 40}},
		NoseBridge: []Point{{X: noseX, Y: 60}, {X: noseX, Y: 75}},
	}
}

func TestClassifyYawFromLandmarks(t *testing.T) {
	c := NewOrientationClassifier(config.DefaultMatchingSettings())

	tests := []struct {
		name  string
		yaw   float64
		label AngleLabel
	}{
		{"frontal", 0, AngleCenter},
		{"slight turn stays center", 14, AngleCenter},
		{"slight negative turn stays center", -14, AngleCenter},
		{"dead zone right", 20, AngleUnknown},
		{"dead zone left", -20, AngleUnknown},
		{"right profile", 30, AngleRight},
		{"left profile", -30, AngleLeft},
		{"full profile right", 90, AngleRight},
		{"full profile left", -90, AngleLeft},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yaw, label := c.Classify(landmarksForYaw(tt.yaw))
			assert.InDelta(t, tt.yaw, yaw, 1e-9)
			assert.Equal(t, tt.label, label)
		})
	}
}

func TestClassifyClampsExtremeOffsets(t *testing.T) {
	c := NewOrientationClassifier(config.DefaultMatchingSettings())

	yaw, label := c.Classify(landmarksForYaw(200))
	assert.Equal(t, 90.0, yaw)
	assert.Equal(t, AngleRight, label)

	yaw, label = c.Classify(landmarksForYaw(-200))
	assert.Equal(t, -90.0, yaw)
	assert.Equal(t, AngleLeft, label)
}

func TestClassifyMissingLandmarks(t *testing.T) {
	c := NewOrientationClassifier(config.DefaultMatchingSettings())

	cases := map[string]Landmarks{
		"empty":         {},
		"no nose":       {LeftEye: []Point{{X: 0}}, RightEye: []Point{{X: 100}}},
		"no left eye":   {RightEye: []Point{{X: 100}}, NoseBridge: []Point{{X: 50}}},
		"no right eye":  {LeftEye: []Point{{X: 0}}, NoseBridge: []Point{{X: 50}}},
		"coincident eyes": {
			LeftEye:    []Point{{X: 50}},
			RightEye:   []Point{{X: 50}},
			NoseBridge: []Point{{X: 50}},
		},
	}
	for name, lm := range cases {
		t.Run(name, func(t *testing.T) {
			yaw, label := c.Classify(lm)
			assert.Equal(t, 0.0, yaw)
			assert.Equal(t, AngleUnknown, label)
		})
	}
}

func TestLabelForYawBuckets(t *testing.T) {
	c := NewOrientationClassifier(config.DefaultMatchingSettings())

	assert.Equal(t, AngleCenter, c.LabelForYaw(0))
	assert.Equal(t, AngleCenter, c.LabelForYaw(15))
	assert.Equal(t, AngleCenter, c.LabelForYaw(-15))
	assert.Equal(t, AngleUnknown, c.LabelForYaw(15.1))
	assert.Equal(t, AngleUnknown, c.LabelForYaw(24.9))
	assert.Equal(t, AngleRight, c.LabelForYaw(25))
	assert.Equal(t, AngleLeft, c.LabelForYaw(-25))
	assert.Equal(t, AngleLeft, c.LabelForYaw(-60))
	assert.Equal(t, AngleRight, c.LabelForYaw(90))
	assert.Equal(t, AngleUnknown, c.LabelForYaw(-91))
	assert.Equal(t, AngleUnknown, c.LabelForYaw(91))
}
