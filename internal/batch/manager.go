// Package batch runs asynchronous batch generation jobs.
package batch

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jordaneaster/sb-generator/internal/logging"
	"github.com/jordaneaster/sb-generator/internal/models"
)

// Status represents the batch job processing status.
type Status string

const (
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
	StatusError    Status = "error"
)

// ItemFailure records one identifier that failed within a batch.
type ItemFailure struct {
	ID    int    `json:"id"`
	Error string `json:"error"`
}

// Job represents an async batch generation job.
type Job struct {
	ID          string        `json:"id"`
	StartID     int           `json:"startId"`
	Count       int           `json:"count"`
	Species     string        `json:"species,omitempty"`
	Status      Status        `json:"status"`
	Progress    float64       `json:"progress"`
	Completed   int           `json:"completed"`
	Succeeded   int           `json:"succeeded"`
	Failed      int           `json:"failed"`
	Failures    []ItemFailure `json:"failures,omitempty"`
	Error       string        `json:"error,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	CompletedAt *time.Time    `json:"completedAt,omitempty"`
}

// Generator runs one full generation. Satisfied by generator.Assembler.
type Generator interface {
	Generate(ctx context.Context, id int, speciesRequest string) (*models.GenerationResult, error)
}

// Manager handles async batch generation jobs. Generations within a job run
// sequentially; a failure on one identifier is recorded and the loop moves on.
type Manager struct {
	mu   sync.RWMutex
	jobs map[string]*Job
	gen  Generator
}

// NewManager creates a batch job manager generating through gen.
func NewManager(gen Generator) *Manager {
	return &Manager{
		jobs: make(map[string]*Job),
		gen:  gen,
	}
}

// StartJob begins async generation of count identifiers from startID.
// The returned snapshot reflects the job at creation time.
func (m *Manager) StartJob(startID, count int, species string) Job {
	job := &Job{
		ID:        uuid.New().String(),
		StartID:   startID,
		Count:     count,
		Species:   species,
		Status:    StatusRunning,
		CreatedAt: time.Now(),
	}

	m.mu.Lock()
	m.jobs[job.ID] = job
	m.mu.Unlock()

	go m.runJob(job)

	return *job
}

// GetJob retrieves a snapshot of a job by ID.
func (m *Manager) GetJob(id string) (Job, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[id]
	if !ok {
		return Job{}, false
	}
	snap := *job
	snap.Failures = append([]ItemFailure(nil), job.Failures...)
	return snap, true
}

func (m *Manager) runJob(job *Job) {
	entry := logging.Log.WithField("job", job.ID[:8])
	entry.WithFields(logrus.Fields{
		"startId": job.StartID,
		"count":   job.Count,
	}).Info("batch job started")

	ctx := context.Background()
	for i := 0; i < job.Count; i++ {
		id := job.StartID + i
		result, err := m.gen.Generate(ctx, id, job.Species)
		switch {
		case err != nil:
			entry.WithField("id", id).WithError(err).Error("batch item failed")
			m.recordItem(job, &ItemFailure{ID: id, Error: err.Error()})
		case result.Failed:
			m.recordItem(job, &ItemFailure{ID: id, Error: errorTrait(result.Traits)})
		default:
			m.recordItem(job, nil)
		}
	}

	m.markJobComplete(job)
	entry.WithFields(logrus.Fields{
		"succeeded": job.Succeeded,
		"failed":    job.Failed,
	}).Info("batch job complete")
}

// errorTrait extracts the error trait value from a failed result.
func errorTrait(traits []models.Trait) string {
	for _, t := range traits {
		if t.TraitType == models.TraitError {
			return t.Value
		}
	}
	return "generation failed"
}

// recordItem updates counters after one identifier (thread-safe).
func (m *Manager) recordItem(job *Job, failure *ItemFailure) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job.Completed++
	if failure != nil {
		job.Failed++
		job.Failures = append(job.Failures, *failure)
	} else {
		job.Succeeded++
	}
	if job.Count > 0 {
		job.Progress = float64(job.Completed) / float64(job.Count) * 100
	}
}

// markJobComplete marks a job as finished (thread-safe).
func (m *Manager) markJobComplete(job *Job) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job.Status = StatusComplete
	job.Progress = 100
	now := time.Now()
	job.CompletedAt = &now
}

// CleanupOldJobs removes finished jobs older than the specified duration.
func (m *Manager) CleanupOldJobs(maxAge time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	for id, job := range m.jobs {
		if job.Status == StatusComplete || job.Status == StatusError {
			if job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
				delete(m.jobs, id)
			}
		}
	}
}
