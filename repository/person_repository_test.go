package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/17hemanthkumar/workingpicme-sub001/database"
	"github.com/17hemanthkumar/workingpicme-sub001/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// a named shared-cache memory DB so every pooled connection sees the
	// same schema; the name keeps tests isolated from each other
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := database.InitGormDB(dsn)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrateModels(db))
	return db
}

func encodingSet(quality float64, base float32) []models.AngleEncoding {
	var out []models.AngleEncoding
	for i, angle := range []string{"center", "left", "right"} {
		enc := models.AngleEncoding{Angle: angle, QualityScore: quality, CaptureYaw: float64(i * 30)}
		enc.SetEmbedding([]float32{base, base + float32(i)})
		out = append(out, enc)
	}
	return out
}

func TestUpsertPersonCreatesNewPerson(t *testing.T) {
	repo := NewPersonRepository(setupTestDB(t), nil, 0.5)

	id, skipped, err := repo.UpsertPerson(nil, encodingSet(0.8, 1), false)
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Empty(t, skipped)

	person, err := repo.GetByID(id)
	require.NoError(t, err)
	assert.NotEmpty(t, person.UUID)
	assert.Len(t, person.Encodings, 3)

	byAngle, err := repo.GetEncodings(id)
	require.NoError(t, err)
	left := byAngle["left"]
	assert.Equal(t, []float32{1, 2}, left.GetEmbedding())
}

func TestUpsertPersonRejectsIncompleteSet(t *testing.T) {
	repo := NewPersonRepository(setupTestDB(t), nil, 0.5)

	_, _, err := repo.UpsertPerson(nil, encodingSet(0.8, 1)[:2], false)
	assert.ErrorIs(t, err, ErrIncompleteEncodingSet)

	// nothing was written
	persons, err := repo.ListAll()
	require.NoError(t, err)
	assert.Empty(t, persons)
}

func TestUpsertPersonRejectsDuplicateAngle(t *testing.T) {
	repo := NewPersonRepository(setupTestDB(t), nil, 0.5)

	set := encodingSet(0.8, 1)
	set[2].Angle = "center"
	_, _, err := repo.UpsertPerson(nil, set, false)
	assert.Error(t, err)
}

func TestUpsertPersonQualityGatedReplacement(t *testing.T) {
	repo := NewPersonRepository(setupTestDB(t), nil, 0.5)

	id, _, err := repo.UpsertPerson(nil, encodingSet(0.8, 1), false)
	require.NoError(t, err)

	// lower quality keeps every stored encoding
	_, skipped, err := repo.UpsertPerson(&id, encodingSet(0.6, 9), false)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"center", "left", "right"}, skipped)

	byAngle, err := repo.GetEncodings(id)
	require.NoError(t, err)
	center := byAngle["center"]
	assert.Equal(t, []float32{1, 1}, center.GetEmbedding())

	// higher quality replaces
	_, skipped, err = repo.UpsertPerson(&id, encodingSet(0.9, 9), false)
	require.NoError(t, err)
	assert.Empty(t, skipped)

	byAngle, err = repo.GetEncodings(id)
	require.NoError(t, err)
	center = byAngle["center"]
	assert.Equal(t, []float32{9, 9}, center.GetEmbedding())
	assert.Equal(t, 0.9, byAngle["center"].QualityScore)
}

func TestUpsertPersonForceOverridesQualityGate(t *testing.T) {
	repo := NewPersonRepository(setupTestDB(t), nil, 0.5)

	id, _, err := repo.UpsertPerson(nil, encodingSet(0.8, 1), false)
	require.NoError(t, err)

	_, skipped, err := repo.UpsertPerson(&id, encodingSet(0.4, 9), true)
	require.NoError(t, err)
	assert.Empty(t, skipped)

	byAngle, err := repo.GetEncodings(id)
	require.NoError(t, err)
	assert.Equal(t, 0.4, byAngle["center"].QualityScore)
}

func TestUpsertPersonUnknownIDFails(t *testing.T) {
	repo := NewPersonRepository(setupTestDB(t), nil, 0.5)

	missing := uint(99)
	_, _, err := repo.UpsertPerson(&missing, encodingSet(0.8, 1), false)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpsertPersonReusesExistingViaIndex(t *testing.T) {
	index := NewEncodingIndex()
	repo := NewPersonRepository(setupTestDB(t), index, 0.5)

	first, _, err := repo.UpsertPerson(nil, encodingSet(0.8, 1), false)
	require.NoError(t, err)

	// same center embedding, no person id: the duplicate index resolves it
	second, _, err := repo.UpsertPerson(nil, encodingSet(0.9, 1), false)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	persons, err := repo.ListAll()
	require.NoError(t, err)
	assert.Len(t, persons, 1)

	// a distinctly different subject still gets a fresh record
	third, _, err := repo.UpsertPerson(nil, encodingSet(0.8, 40), false)
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}

func TestRecordMatch(t *testing.T) {
	repo := NewPersonRepository(setupTestDB(t), nil, 0.5)

	id, _, err := repo.UpsertPerson(nil, encodingSet(0.8, 1), false)
	require.NoError(t, err)

	require.NoError(t, repo.RecordMatch(id, 1700000000))
	require.NoError(t, repo.RecordMatch(id, 1700000100))

	person, err := repo.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, 2, person.MatchedPhotoCount)
	require.NotNil(t, person.LastMatchedAt)
	assert.Equal(t, int64(1700000100), *person.LastMatchedAt)

	assert.ErrorIs(t, repo.RecordMatch(999, 1700000000), gorm.ErrRecordNotFound)
}

func TestListAllOrderedByID(t *testing.T) {
	repo := NewPersonRepository(setupTestDB(t), nil, 0.5)

	first, _, err := repo.UpsertPerson(nil, encodingSet(0.8, 1), false)
	require.NoError(t, err)
	second, _, err := repo.UpsertPerson(nil, encodingSet(0.8, 20), false)
	require.NoError(t, err)

	persons, err := repo.ListAll()
	require.NoError(t, err)
	require.Len(t, persons, 2)
	assert.Equal(t, first, persons[0].ID)
	assert.Equal(t, second, persons[1].ID)
	assert.Len(t, persons[0].Encodings, 3)
}
