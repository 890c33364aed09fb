package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// JobStatus represents the state of a document processing job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusParsing    JobStatus = "parsing"
	StatusSegmenting JobStatus = "segmenting"
	StatusGenerating JobStatus = "generating"
	StatusStoring    JobStatus = "storing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusPartial    JobStatus = "partial"
	StatusCached     JobStatus = "cached"
)

// Job tracks the state of a single document's Q&A generation.
type Job struct {
	mu sync.Mutex

	ID string `json:"job_id"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`
	Title    string    `json:"title"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	errors   []string
}

// Progress tracks section-by-section generation progress.
type Progress struct {
	TotalSections     int      `json:"total_sections"`
	SectionsProcessed int      `json:"sections_processed"`
	ItemsGenerated    int      `json:"items_generated"`
	TargetItems       int      `json:"target_items"`
	Errors            []string `json:"errors"`
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// IncrSectionsProcessed atomically increments sections processed.
func (j *Job) IncrSectionsProcessed() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.SectionsProcessed++
	j.UpdatedAt = time.Now()
}

// AddItems records generated Q&A pair counts.
func (j *Job) AddItems(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.ItemsGenerated += n
	j.UpdatedAt = time.Now()
}

// SetPlan records section count and the document's overall item target.
func (j *Job) SetPlan(sections, targetItems int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalSections = sections
	j.Progress.TargetItems = targetItems
	j.UpdatedAt = time.Now()
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string    `json:"job_id"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`
	Title    string    `json:"title"`
	Progress Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:       j.ID,
		Status:   j.Status,
		Phase:    j.Phase,
		Filename: j.Filename,
		Title:    j.Title,
		Progress: Progress{
			TotalSections:     j.Progress.TotalSections,
			SectionsProcessed: j.Progress.SectionsProcessed,
			ItemsGenerated:    j.Progress.ItemsGenerated,
			TargetItems:       j.Progress.TargetItems,
			Errors:            errs,
		},
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
