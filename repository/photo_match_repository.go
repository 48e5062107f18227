package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/17hemanthkumar/workingpicme-sub001/models"
)

// PhotoMatchRepository handles database operations for photo-person
// associations produced by the aggregator
type PhotoMatchRepository struct {
	DB *gorm.DB
}

// NewPhotoMatchRepository creates a new instance of PhotoMatchRepository
func NewPhotoMatchRepository(db *gorm.DB) *PhotoMatchRepository {
	return &PhotoMatchRepository{DB: db}
}

// ReplaceForPhoto replaces all associations for a photo with the given set.
// Re-aggregating a photo is idempotent: stale rows from a previous run never
// survive.
func (r *PhotoMatchRepository) ReplaceForPhoto(photoID uint, matches []models.PhotoMatch) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("photo_id = ?", photoID).Delete(&models.PhotoMatch{}).Error; err != nil {
			return fmt.Errorf("failed to clear matches for photo %d: %w", photoID, err)
		}
		for i := range matches {
			matches[i].PhotoID = photoID
			if err := tx.Create(&matches[i]).Error; err != nil {
				return fmt.Errorf("failed to store match for photo %d: %w", photoID, err)
			}
		}
		return nil
	})
}

// ListByPhotoID returns all associations recorded for one photo.
func (r *PhotoMatchRepository) ListByPhotoID(photoID uint) ([]models.PhotoMatch, error) {
	var matches []models.PhotoMatch
	err := r.DB.Where("photo_id = ?", photoID).Order("confidence DESC").Find(&matches).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for photo %d: %w", photoID, err)
	}
	return matches, nil
}

// ListByPersonID returns a person's photos split into individual and group
// lists, each ordered by confidence descending.
func (r *PhotoMatchRepository) ListByPersonID(personID uint) ([]models.PhotoMatch, []models.PhotoMatch, error) {
	var matches []models.PhotoMatch
	err := r.DB.Where("person_id = ?", personID).Order("confidence DESC").Find(&matches).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list matches for person %d: %w", personID, err)
	}

	var individual, group []models.PhotoMatch
	for _, m := range matches {
		if m.IsGroupPhoto {
			group = append(group, m)
		} else {
			individual = append(individual, m)
		}
	}
	return individual, group, nil
}
