package services

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/17hemanthkumar/workingpicme-sub001/config"
	"github.com/17hemanthkumar/workingpicme-sub001/models"
	"github.com/17hemanthkumar/workingpicme-sub001/recognition"
	"github.com/17hemanthkumar/workingpicme-sub001/repository"
)

// MatcherService matches face observations against the enrolled person set
// using weighted cross-angle distances and an adaptive tolerance.
type MatcherService struct {
	store    repository.PersonStoreInterface
	selector *recognition.ToleranceSelector
}

// NewMatcherService creates a new instance of MatcherService.
func NewMatcherService(store repository.PersonStoreInterface, settings config.MatchingSettings) *MatcherService {
	return &MatcherService{
		store:    store,
		selector: recognition.NewToleranceSelector(settings),
	}
}

// Match scores one observation against every enrolled person and records the
// match on the winning person when it is accepted.
func (s *MatcherService) Match(obs recognition.FaceObservation) (recognition.MatchResult, error) {
	persons, err := s.store.ListAll()
	if err != nil {
		return recognition.MatchResult{}, fmt.Errorf("failed to load enrolled persons: %w", err)
	}

	result := s.MatchAgainst(obs, persons)

	if result.Accepted && result.PersonID != nil {
		if err := s.store.RecordMatch(*result.PersonID, time.Now().Unix()); err != nil {
			return recognition.MatchResult{}, fmt.Errorf("failed to record match for person %d: %w", *result.PersonID, err)
		}
	}
	return result, nil
}

// MatchAgainst is the pure scoring pass: no store access, no side effects.
// Persons must be ordered by id ascending; on equal weighted distance the
// earlier-enrolled person wins, which keeps results deterministic across runs.
func (s *MatcherService) MatchAgainst(obs recognition.FaceObservation, persons []models.Person) recognition.MatchResult {
	tolerance, weights := s.selector.Select(obs.Orientation, obs.Quality, obs.HasDarkEyewear, obs.PartialVisibility)

	result := recognition.MatchResult{
		Tolerance:        tolerance,
		WeightedDistance: math.Inf(1),
	}

	if len(persons) == 0 {
		result.Message = "no persons enrolled"
		return result
	}

	for i := range persons {
		distances, ok := angleDistances(obs.Embedding, &persons[i])
		if !ok {
			continue
		}

		w := recognition.NormalizeWeights(weights,
			hasFinite(distances, recognition.AngleCenter),
			hasFinite(distances, recognition.AngleLeft),
			hasFinite(distances, recognition.AngleRight))

		weighted := 0.0
		if hasFinite(distances, recognition.AngleCenter) {
			weighted += w.Center * distances[recognition.AngleCenter]
		}
		if hasFinite(distances, recognition.AngleLeft) {
			weighted += w.Left * distances[recognition.AngleLeft]
		}
		if hasFinite(distances, recognition.AngleRight) {
			weighted += w.Right * distances[recognition.AngleRight]
		}

		if weighted < result.WeightedDistance {
			id := persons[i].ID
			result.PersonID = &id
			result.WeightedDistance = weighted
			result.Distances = distances
			result.ContributingAngle = closestAngle(distances)
		}
	}

	if result.PersonID == nil {
		result.Message = "no person holds a comparable encoding"
		return result
	}

	result.Confidence = confidenceFrom(result.WeightedDistance)
	result.Accepted = result.WeightedDistance <= tolerance &&
		result.Confidence >= s.selector.MinimumConfidence()
	if !result.Accepted {
		result.Message = fmt.Sprintf("best candidate below threshold (distance %.3f, confidence %.1f)",
			result.WeightedDistance, result.Confidence)
	} else {
		log.Printf("matcher: accepted person %d via %s angle (distance %.3f, confidence %.1f)",
			*result.PersonID, result.ContributingAngle, result.WeightedDistance, result.Confidence)
	}
	return result
}

// angleDistances computes the raw distance to each stored encoding of one
// person. Returns false when the person holds no usable encoding.
func angleDistances(embedding []float32, person *models.Person) (map[recognition.AngleLabel]float64, bool) {
	distances := make(map[recognition.AngleLabel]float64, len(recognition.StoredAngles))
	usable := false
	for _, angle := range recognition.StoredAngles {
		enc := person.EncodingByAngle(string(angle))
		if enc == nil {
			continue
		}
		stored := enc.GetEmbedding()
		if len(stored) == 0 {
			continue
		}
		d := recognition.EuclideanDistance(embedding, stored)
		distances[angle] = d
		if !math.IsInf(d, 1) {
			usable = true
		}
	}
	return distances, usable
}

func hasFinite(distances map[recognition.AngleLabel]float64, angle recognition.AngleLabel) bool {
	d, ok := distances[angle]
	return ok && !math.IsInf(d, 1)
}

// closestAngle picks the stored angle with the smallest raw distance.
func closestAngle(distances map[recognition.AngleLabel]float64) recognition.AngleLabel {
	best := recognition.AngleUnknown
	bestDistance := math.Inf(1)
	for _, angle := range recognition.StoredAngles {
		if d, ok := distances[angle]; ok && d < bestDistance {
			bestDistance = d
			best = angle
		}
	}
	return best
}

// confidenceFrom converts a weighted distance to the 0-100 confidence scale.
func confidenceFrom(weightedDistance float64) float64 {
	confidence := (1.0 - weightedDistance) * 100.0
	if confidence < 0 {
		return 0
	}
	if confidence > 100 {
		return 100
	}
	return confidence
}
