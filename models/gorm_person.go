package models

// Person represents an enrolled person in the database using GORM.
// It corresponds to the 'people' table.
type Person struct {
	ID                uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID              string  `gorm:"uniqueIndex;not null" json:"uuid"`
	Name              *string `json:"name,omitempty"`
	CreatedAt         int64   `gorm:"not null" json:"created_at"` // Stored as INTEGER in SQLite, Unix timestamp
	LastMatchedAt     *int64  `json:"last_matched_at,omitempty"`  // Unix timestamp of the last accepted match
	MatchedPhotoCount int     `gorm:"not null;default:0" json:"matched_photo_count"`

	// Relationships
	// omitempty will hide these if they are not preloaded or are empty
	Encodings []AngleEncoding `gorm:"foreignKey:PersonID;constraint:OnDelete:CASCADE" json:"encodings,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Person) TableName() string {
	return "people"
}

// EncodingByAngle returns the stored encoding for the given angle label, if any.
func (p *Person) EncodingByAngle(angle string) *AngleEncoding {
	for i := range p.Encodings {
		if p.Encodings[i].Angle == angle {
			return &p.Encodings[i]
		}
	}
	return nil
}
