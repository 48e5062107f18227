package recognition

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssessQualityIdealCrop(t *testing.T) {
	stats := CropStats{
		Sharpness:  500,
		Brightness: 127,
		Contrast:   50,
		Width:      100,
		Height:     100,
	}
	assert.InDelta(t, 1.0, AssessQuality(stats), 1e-9)
}

func TestAssessQualityWeightedSum(t *testing.T) {
	// each sub-score at exactly half strength
	stats := CropStats{
		Sharpness:  250,
		Brightness: 63.5,
		Contrast:   25,
		Width:      50,
		Height:     80,
	}
	// 0.5*0.30 + 0.5*0.25 + 0.5*0.25 + 0.5*0.20
	assert.InDelta(t, 0.5, AssessQuality(stats), 1e-9)
}

func TestAssessQualityClampsOvershoot(t *testing.T) {
	stats := CropStats{
		Sharpness:  5000,
		Brightness: 127,
		Contrast:   500,
		Width:      4000,
		Height:     3000,
	}
	assert.Equal(t, 1.0, AssessQuality(stats))
}

func TestAssessQualityBrightnessExtremes(t *testing.T) {
	dark := CropStats{Sharpness: 500, Brightness: 0, Contrast: 50, Width: 100, Height: 100}
	bright := CropStats{Sharpness: 500, Brightness: 254, Contrast: 50, Width: 100, Height: 100}

	// brightness sub-score drops to zero at both ends of the intensity range
	assert.InDelta(t, 0.75, AssessQuality(dark), 1e-9)
	assert.InDelta(t, 0.75, AssessQuality(bright), 1e-9)
}

func TestAssessQualityDegenerateInput(t *testing.T) {
	cases := map[string]CropStats{
		"zero width":     {Sharpness: 500, Brightness: 127, Contrast: 50, Height: 100},
		"zero height":    {Sharpness: 500, Brightness: 127, Contrast: 50, Width: 100},
		"negative size":  {Sharpness: 500, Brightness: 127, Contrast: 50, Width: -1, Height: 100},
		"nan sharpness":  {Sharpness: math.NaN(), Brightness: 127, Contrast: 50, Width: 100, Height: 100},
		"inf brightness": {Sharpness: 500, Brightness: math.Inf(1), Contrast: 50, Width: 100, Height: 100},
	}
	for name, stats := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, 0.5, AssessQuality(stats))
		})
	}
}

func TestAssessQualityDeterministic(t *testing.T) {
	stats := CropStats{Sharpness: 312.5, Brightness: 101, Contrast: 37.2, Width: 84, Height: 120}
	first := AssessQuality(stats)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, AssessQuality(stats))
	}
	assert.GreaterOrEqual(t, first, 0.0)
	assert.LessOrEqual(t, first, 1.0)
}

func TestAssessQualityResolutionUsesShorterSide(t *testing.T) {
	tall := CropStats{Sharpness: 500, Brightness: 127, Contrast: 50, Width: 50, Height: 500}
	wide := CropStats{Sharpness: 500, Brightness: 127, Contrast: 50, Width: 500, Height: 50}
	assert.Equal(t, AssessQuality(tall), AssessQuality(wide))
	// the 50px short side halves the resolution sub-score
	assert.InDelta(t, 0.90, AssessQuality(tall), 1e-9)
}
