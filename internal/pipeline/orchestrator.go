package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/qaforge/internal/config"
	"github.com/dgallion1/qaforge/internal/coverage"
	"github.com/dgallion1/qaforge/internal/qastore"
)

// Orchestrator manages the document processing pipeline. Documents run in
// parallel across workers; within a document, generation is sequential.
type Orchestrator struct {
	jobs  *JobStore
	queue chan *Job
	gen   coverage.Generator
	store *qastore.Store
	log   *slog.Logger
	cfg   config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline; call Start to launch workers.
func NewOrchestrator(cfg config.Config, gen coverage.Generator, store *qastore.Store, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:  NewJobStore(cfg.JobTTL),
		queue: make(chan *Job, cfg.MaxQueueSize),
		gen:   gen,
		store: store,
		log:   log,
		cfg:   cfg,
	}
}

// NewJob builds a queued job for an uploaded file.
func NewJob(filename, title string, data []byte) *Job {
	now := time.Now()
	job := &Job{
		ID:        generateULID(),
		Status:    StatusQueued,
		Phase:     "queued",
		Filename:  filename,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	job.SetFileData(data)
	return job
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for i := 0; i < o.cfg.WorkerCount; i++ {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.gen, o.store, o.log, o.cfg.PDFFallbackPdftotext)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Store returns the Q&A store for direct use by API handlers.
func (o *Orchestrator) Store() *qastore.Store {
	return o.store
}
