package repository

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/17hemanthkumar/workingpicme-sub001/models"
	"github.com/17hemanthkumar/workingpicme-sub001/recognition"
)

// ErrIncompleteEncodingSet is returned when a commit arrives with fewer than
// the full set of three angle encodings. No partial write ever happens.
var ErrIncompleteEncodingSet = errors.New("enrollment commit requires encodings for center, left and right")

// PersonRepository handles database operations for Person and AngleEncoding
// entities. It owns the Person records exclusively: enrollment commits and
// match-count updates are the only mutation paths, and both are serialized
// per person.
type PersonRepository struct {
	DB *gorm.DB

	// optional duplicate-person index consulted when enrolling without an id
	index              *EncodingIndex
	duplicateTolerance float64

	mu          sync.Mutex
	personLocks map[uint]*sync.Mutex
	createLock  sync.Mutex
}

// NewPersonRepository creates a new instance of PersonRepository. The index
// may be nil, in which case every id-less enrollment creates a new person.
func NewPersonRepository(db *gorm.DB, index *EncodingIndex, duplicateTolerance float64) *PersonRepository {
	return &PersonRepository{
		DB:                 db,
		index:              index,
		duplicateTolerance: duplicateTolerance,
		personLocks:        make(map[uint]*sync.Mutex),
	}
}

// lockFor returns the mutex serializing writes to one person record.
func (r *PersonRepository) lockFor(personID uint) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.personLocks[personID]
	if !ok {
		lock = &sync.Mutex{}
		r.personLocks[personID] = lock
	}
	return lock
}

// UpsertPerson commits a complete enrollment: exactly one encoding per angle
// label, written atomically. When personID is nil the center encoding is
// first checked against the duplicate-person index; a hit re-enrolls the
// existing person. Per-angle replacement keeps the stored encoding unless the
// new quality score is higher or force is set; skipped labels are reported
// back to the caller.
func (r *PersonRepository) UpsertPerson(personID *uint, encodings []models.AngleEncoding, force bool) (uint, []string, error) {
	byAngle, err := indexEncodingsByAngle(encodings)
	if err != nil {
		return 0, nil, err
	}

	now := time.Now().Unix()

	var targetID uint
	if personID != nil {
		targetID = *personID
	} else {
		// serialize the duplicate check with creation so two concurrent
		// enrollments of the same subject cannot both create a person
		r.createLock.Lock()
		defer r.createLock.Unlock()

		if r.index != nil {
			center := byAngle[string(recognition.AngleCenter)]
			if existingID, ok := r.index.FindExistingPerson(center.GetEmbedding(), r.duplicateTolerance); ok {
				log.Printf("store: enrollment matched existing person %d, re-enrolling", existingID)
				targetID = existingID
			}
		}

		if targetID == 0 {
			person := models.Person{
				UUID:      uuid.NewString(),
				CreatedAt: now,
			}
			if err := r.DB.Create(&person).Error; err != nil {
				return 0, nil, fmt.Errorf("failed to create person: %w", err)
			}
			targetID = person.ID
		}
	}

	lock := r.lockFor(targetID)
	lock.Lock()
	defer lock.Unlock()

	var skipped []string
	err = r.DB.Transaction(func(tx *gorm.DB) error {
		if personID != nil {
			var count int64
			if err := tx.Model(&models.Person{}).Where("id = ?", targetID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return gorm.ErrRecordNotFound
			}
		}

		for _, angle := range recognition.StoredAngles {
			enc := byAngle[string(angle)]
			enc.PersonID = targetID
			if enc.CreatedAt == 0 {
				enc.CreatedAt = now
			}

			var existing models.AngleEncoding
			findErr := tx.Where("person_id = ? AND angle = ?", targetID, string(angle)).First(&existing).Error
			switch {
			case errors.Is(findErr, gorm.ErrRecordNotFound):
				if err := tx.Create(&enc).Error; err != nil {
					return fmt.Errorf("failed to store %s encoding for person %d: %w", angle, targetID, err)
				}
			case findErr != nil:
				return findErr
			default:
				if !force && existing.QualityScore >= enc.QualityScore {
					skipped = append(skipped, string(angle))
					continue
				}
				enc.ID = existing.ID
				if err := tx.Save(&enc).Error; err != nil {
					return fmt.Errorf("failed to replace %s encoding for person %d: %w", angle, targetID, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, nil, err
	}

	if r.index != nil {
		center := byAngle[string(recognition.AngleCenter)]
		r.index.Add(targetID, center.GetEmbedding())
	}

	log.Printf("store: committed enrollment for person %d (%d angle(s) skipped)", targetID, len(skipped))
	return targetID, skipped, nil
}

// indexEncodingsByAngle validates the commit set: exactly one encoding for
// each of center, left, right.
func indexEncodingsByAngle(encodings []models.AngleEncoding) (map[string]models.AngleEncoding, error) {
	if len(encodings) != len(recognition.StoredAngles) {
		return nil, ErrIncompleteEncodingSet
	}
	byAngle := make(map[string]models.AngleEncoding, len(encodings))
	for _, enc := range encodings {
		if _, dup := byAngle[enc.Angle]; dup {
			return nil, fmt.Errorf("duplicate angle label '%s' in enrollment commit", enc.Angle)
		}
		byAngle[enc.Angle] = enc
	}
	for _, angle := range recognition.StoredAngles {
		if _, ok := byAngle[string(angle)]; !ok {
			return nil, ErrIncompleteEncodingSet
		}
	}
	return byAngle, nil
}

// ListAll retrieves all persons with their encodings preloaded, ordered by
// id ascending (enrollment order, the matcher's tie-break key).
func (r *PersonRepository) ListAll() ([]models.Person, error) {
	var persons []models.Person
	err := r.DB.Preload("Encodings").Order("id ASC").Find(&persons).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list persons: %w", err)
	}
	return persons, nil
}

// GetByID retrieves a person by id, preloading encodings.
func (r *PersonRepository) GetByID(id uint) (*models.Person, error) {
	var person models.Person
	err := r.DB.Preload("Encodings").First(&person, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get person by ID %d: %w", id, err)
	}
	return &person, nil
}

// GetEncodings returns the angle to encoding mapping for one person.
func (r *PersonRepository) GetEncodings(personID uint) (map[string]models.AngleEncoding, error) {
	var encodings []models.AngleEncoding
	err := r.DB.Where("person_id = ?", personID).Find(&encodings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get encodings for person %d: %w", personID, err)
	}
	byAngle := make(map[string]models.AngleEncoding, len(encodings))
	for _, enc := range encodings {
		byAngle[enc.Angle] = enc
	}
	return byAngle, nil
}

// RecordMatch increments the matched-photo counter and stamps the
// last-matched time for an accepted match.
func (r *PersonRepository) RecordMatch(personID uint, matchedAt int64) error {
	lock := r.lockFor(personID)
	lock.Lock()
	defer lock.Unlock()

	result := r.DB.Model(&models.Person{}).Where("id = ?", personID).Updates(map[string]interface{}{
		"matched_photo_count": gorm.Expr("matched_photo_count + 1"),
		"last_matched_at":     matchedAt,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to record match for person %d: %w", personID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
