package models

import (
	"math"
)

// AngleEncoding represents one reference face embedding captured at a specific
// head angle during enrollment. It corresponds to the 'angle_encodings' table.
// A person holds at most one encoding per angle label (center, left, right).
type AngleEncoding struct {
	ID            uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	PersonID      uint    `gorm:"not null;uniqueIndex:idx_person_angle" json:"person_id"`
	Angle         string  `gorm:"not null;uniqueIndex:idx_person_angle" json:"angle"`
	EmbeddingData []byte  `gorm:"not null;column:embedding_data" json:"embedding_data"` // face embedding vector as BLOB
	QualityScore  float64 `gorm:"not null;column:quality_score" json:"quality_score"`   // capture quality in [0,1]
	CaptureYaw    float64 `gorm:"not null;column:capture_yaw" json:"capture_yaw"`       // head yaw at capture time, degrees
	CreatedAt     int64   `gorm:"not null" json:"created_at"`                           // Stored as INTEGER in SQLite, Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (AngleEncoding) TableName() string {
	return "angle_encodings"
}

// GetEmbedding converts the BLOB data to []float32
func (ae *AngleEncoding) GetEmbedding() []float32 {
	if len(ae.EmbeddingData) == 0 {
		return nil
	}

	// Convert []byte to []float32
	embedding := make([]float32, len(ae.EmbeddingData)/4) // 4 bytes per float32
	for i := 0; i < len(embedding); i++ {
		offset := i * 4
		bits := uint32(ae.EmbeddingData[offset]) |
			uint32(ae.EmbeddingData[offset+1])<<8 |
			uint32(ae.EmbeddingData[offset+2])<<16 |
			uint32(ae.EmbeddingData[offset+3])<<24
		embedding[i] = math.Float32frombits(bits)
	}
	return embedding
}

// SetEmbedding converts []float32 to BLOB data
func (ae *AngleEncoding) SetEmbedding(embedding []float32) {
	if len(embedding) == 0 {
		ae.EmbeddingData = nil
		return
	}

	// Convert []float32 to []byte
	ae.EmbeddingData = make([]byte, len(embedding)*4) // 4 bytes per float32
	for i, val := range embedding {
		offset := i * 4
		bits := math.Float32bits(val)
		ae.EmbeddingData[offset] = byte(bits)
		ae.EmbeddingData[offset+1] = byte(bits >> 8)
		ae.EmbeddingData[offset+2] = byte(bits >> 16)
		ae.EmbeddingData[offset+3] = byte(bits >> 24)
	}
}
