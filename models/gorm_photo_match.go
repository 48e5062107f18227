package models

// PhotoMatch associates an accepted face match with a photo. It is the
// aggregation output persisted for the gallery collaborator and corresponds
// to the 'photo_matches' table. One row per (photo, person); repeated matches
// of the same person within a photo keep only the highest-confidence result.
type PhotoMatch struct {
	ID                uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	PhotoID           uint    `gorm:"not null;uniqueIndex:idx_photo_person" json:"photo_id"`
	PersonID          uint    `gorm:"not null;uniqueIndex:idx_photo_person" json:"person_id"`
	Confidence        float64 `gorm:"not null" json:"confidence"` // 0-100
	ContributingAngle string  `gorm:"not null" json:"contributing_angle"`
	IsGroupPhoto      bool    `gorm:"not null" json:"is_group_photo"`
	FaceCount         int     `gorm:"not null" json:"face_count"` // total faces detected in the photo
	CreatedAt         int64   `gorm:"not null" json:"created_at"` // Stored as INTEGER in SQLite, Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (PhotoMatch) TableName() string {
	return "photo_matches"
}
