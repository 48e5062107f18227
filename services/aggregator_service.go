package services

import (
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/17hemanthkumar/workingpicme-sub001/models"
	"github.com/17hemanthkumar/workingpicme-sub001/recognition"
	"github.com/17hemanthkumar/workingpicme-sub001/repository"
)

// PhotoAggregation is the persisted outcome of matching every face found in
// one photo.
type PhotoAggregation struct {
	PhotoID   uint                `json:"photo_id"`
	FaceCount int                 `json:"face_count"`
	IsGroup   bool                `json:"is_group"`
	Matches   []models.PhotoMatch `json:"matches"`
}

// AggregatorService runs the matcher over every face of a photo and persists
// one association per identified person.
type AggregatorService struct {
	matcher *MatcherService
	photos  repository.PhotoMatchRepositoryInterface
}

// NewAggregatorService creates a new instance of AggregatorService.
func NewAggregatorService(matcher *MatcherService, photos repository.PhotoMatchRepositoryInterface) *AggregatorService {
	return &AggregatorService{matcher: matcher, photos: photos}
}

// Aggregate matches each observation independently, keeps the
// highest-confidence association per person when several faces resolve to the
// same one, and replaces the photo's stored associations with the result. A
// photo holding more than one face is a group photo regardless of how many
// faces were identified.
func (s *AggregatorService) Aggregate(photoID uint, observations []recognition.FaceObservation) (PhotoAggregation, error) {
	agg := PhotoAggregation{
		PhotoID:   photoID,
		FaceCount: len(observations),
		IsGroup:   len(observations) > 1,
	}

	bestByPerson := make(map[uint]recognition.MatchResult)
	for _, obs := range observations {
		result, err := s.matcher.Match(obs)
		if err != nil {
			return PhotoAggregation{}, fmt.Errorf("failed to match face in photo %d: %w", photoID, err)
		}
		if !result.Accepted || result.PersonID == nil {
			continue
		}
		id := *result.PersonID
		if prev, ok := bestByPerson[id]; !ok || result.Confidence > prev.Confidence {
			bestByPerson[id] = result
		}
	}

	personIDs := make([]uint, 0, len(bestByPerson))
	for id := range bestByPerson {
		personIDs = append(personIDs, id)
	}
	sort.Slice(personIDs, func(i, j int) bool { return personIDs[i] < personIDs[j] })

	now := time.Now().Unix()
	for _, id := range personIDs {
		result := bestByPerson[id]
		agg.Matches = append(agg.Matches, models.PhotoMatch{
			PhotoID:           photoID,
			PersonID:          id,
			Confidence:        result.Confidence,
			ContributingAngle: string(result.ContributingAngle),
			IsGroupPhoto:      agg.IsGroup,
			FaceCount:         agg.FaceCount,
			CreatedAt:         now,
		})
	}

	if err := s.photos.ReplaceForPhoto(photoID, agg.Matches); err != nil {
		return PhotoAggregation{}, fmt.Errorf("failed to store matches for photo %d: %w", photoID, err)
	}

	log.Printf("aggregator: photo %d resolved to %d person(s) from %d face(s)", photoID, len(agg.Matches), agg.FaceCount)
	return agg, nil
}
