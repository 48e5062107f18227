package repository

import (
	"sync"

	"github.com/coder/hnsw"

	"github.com/17hemanthkumar/workingpicme-sub001/models"
	"github.com/17hemanthkumar/workingpicme-sub001/recognition"
)

const (
	indexMaxNeighbors = 16
)

// EncodingIndex is an in-memory approximate-nearest-neighbor index over the
// stored center encodings. The person store consults it when an enrollment
// arrives without a person id, so a returning subject is re-enrolled onto
// their existing record instead of minting a duplicate person.
type EncodingIndex struct {
	graph *hnsw.Graph[uint]
	mu    sync.RWMutex
}

// NewEncodingIndex creates an empty index using Euclidean distance, matching
// the distance metric of the matcher itself.
func NewEncodingIndex() *EncodingIndex {
	g := hnsw.NewGraph[uint]()
	g.M = indexMaxNeighbors
	g.Ml = 1.0 / float64(indexMaxNeighbors)
	g.Distance = hnsw.EuclideanDistance
	return &EncodingIndex{graph: g}
}

// BuildFromPersons indexes the center encoding of every person that has one.
func (ix *EncodingIndex) BuildFromPersons(persons []models.Person) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	for i := range persons {
		enc := persons[i].EncodingByAngle(string(recognition.AngleCenter))
		if enc == nil {
			continue
		}
		embedding := enc.GetEmbedding()
		if len(embedding) == 0 {
			continue
		}
		ix.graph.Add(hnsw.MakeNode(persons[i].ID, embedding))
	}
}

// Add inserts or replaces the center encoding node for a person.
func (ix *EncodingIndex) Add(personID uint, embedding []float32) {
	if len(embedding) == 0 {
		return
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.graph.Add(hnsw.MakeNode(personID, embedding))
}

// FindExistingPerson returns the id of the nearest enrolled person when its
// center encoding lies within tolerance of the query embedding.
func (ix *EncodingIndex) FindExistingPerson(embedding []float32, tolerance float64) (uint, bool) {
	if len(embedding) == 0 {
		return 0, false
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	neighbors := ix.graph.Search(embedding, 1)
	if len(neighbors) == 0 {
		return 0, false
	}

	// recompute the exact distance from the node value; the graph search is
	// approximate
	distance := recognition.EuclideanDistance(embedding, neighbors[0].Value)
	if distance > tolerance {
		return 0, false
	}
	return neighbors[0].Key, true
}
