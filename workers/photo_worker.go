package workers

import (
	"log"
	"sync"

	"github.com/17hemanthkumar/workingpicme-sub001/recognition"
	"github.com/17hemanthkumar/workingpicme-sub001/services"
)

// PhotoJob carries the detected faces of one photo to the aggregation
// workers.
type PhotoJob struct {
	PhotoID      uint
	Observations []recognition.FaceObservation
}

// PhotoAggregationPool fans photo matching out to background workers. Each
// photo is aggregated independently; a photo already pending is not queued
// twice.
type PhotoAggregationPool struct {
	JobQueue   chan PhotoJob
	Aggregator *services.AggregatorService
	Wg         sync.WaitGroup
	StopChan   chan struct{}
	Pending    map[uint]bool
	Mutex      sync.Mutex
}

func NewPhotoAggregationPool(aggregator *services.AggregatorService, queueSize, numWorkers int) *PhotoAggregationPool {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	pool := &PhotoAggregationPool{
		JobQueue:   make(chan PhotoJob, queueSize),
		Aggregator: aggregator,
		StopChan:   make(chan struct{}),
		Pending:    make(map[uint]bool),
	}
	pool.Wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go pool.worker(i)
	}
	log.Printf("Started %d photo aggregation worker(s) with queue size %d", numWorkers, queueSize)
	return pool
}

func (p *PhotoAggregationPool) worker(id int) {
	defer p.Wg.Done()

	log.Printf("Photo aggregation worker %d started", id)
	for {
		select {
		case job, ok := <-p.JobQueue:
			if !ok {
				log.Printf("Photo aggregation worker %d stopping: Job queue closed", id)
				return
			}

			log.Printf("Worker %d: Aggregating photo %d (%d face(s))", id, job.PhotoID, len(job.Observations))
			if _, err := p.Aggregator.Aggregate(job.PhotoID, job.Observations); err != nil {
				log.Printf("Worker %d: ERROR aggregating photo %d: %v", id, job.PhotoID, err)
			}

			p.Mutex.Lock()
			delete(p.Pending, job.PhotoID)
			p.Mutex.Unlock()

		case <-p.StopChan:
			log.Printf("Photo aggregation worker %d stopping: Stop signal received", id)
			return
		}
	}
}

// QueueJob queues a photo for aggregation if it is not already pending.
func (p *PhotoAggregationPool) QueueJob(job PhotoJob) bool {
	p.Mutex.Lock()
	if p.Pending[job.PhotoID] {
		p.Mutex.Unlock()
		return false
	}

	p.Pending[job.PhotoID] = true
	p.Mutex.Unlock()

	select {
	case p.JobQueue <- job:
		log.Printf("Queued aggregation for photo %d", job.PhotoID)
		return true
	default:
		log.Printf("WARNING: Photo aggregation queue full. Failed to queue photo %d", job.PhotoID)
		p.Mutex.Lock()
		delete(p.Pending, job.PhotoID)
		p.Mutex.Unlock()
		return false
	}
}

func (p *PhotoAggregationPool) Stop() {
	log.Println("Stopping photo aggregation workers...")
	close(p.StopChan)
	p.Wg.Wait()
	log.Println("All photo aggregation workers stopped")
}
