package repository

import (
	"github.com/17hemanthkumar/workingpicme-sub001/models"
)

// PersonStoreInterface defines the logical store of enrolled persons and
// their angle-tagged reference encodings
type PersonStoreInterface interface {
	// UpsertPerson commits a full set of three angle encodings for a new
	// person (nil id) or an existing one, atomically. Per-angle replacement
	// happens only when the new quality score is higher, unless force is
	// set; the returned slice names the angle labels whose overwrite was
	// skipped.
	UpsertPerson(personID *uint, encodings []models.AngleEncoding, force bool) (uint, []string, error)
	ListAll() ([]models.Person, error)
	GetByID(id uint) (*models.Person, error)
	GetEncodings(personID uint) (map[string]models.AngleEncoding, error)
	// RecordMatch bumps the matched-photo counter and last-matched timestamp
	// after an accepted match.
	RecordMatch(personID uint, matchedAt int64) error
}

// PhotoMatchRepositoryInterface defines the store of photo-person
// associations produced by aggregation
type PhotoMatchRepositoryInterface interface {
	ReplaceForPhoto(photoID uint, matches []models.PhotoMatch) error
	ListByPhotoID(photoID uint) ([]models.PhotoMatch, error)
	ListByPersonID(personID uint) (individual []models.PhotoMatch, group []models.PhotoMatch, err error)
}
