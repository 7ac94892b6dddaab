package api

import (
	"sync"
	"time"
)

type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusProcessing JobStatus = "processing"
	StatusSuccess    JobStatus = "success"
	StatusFailed     JobStatus = "failed"
)

// Job tracks one narration build through the async pipeline.
type Job struct {
	ID        string    `json:"id"`
	Status    JobStatus `json:"status"`
	Progress  int       `json:"progress"` // 0-100
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	Error     string    `json:"error,omitempty"`

	// Set on success.
	DownloadURL string  `json:"download_url,omitempty"`
	DurationSec float64 `json:"duration_sec,omitempty"`
	SizeBytes   int64   `json:"size_bytes,omitempty"`
}

// JobManager is the in-memory job table. Handlers only ever see value
// copies; the originals stay behind the lock. notify, when set, observes
// a snapshot of every mutation (the websocket hub subscribes there).
type JobManager struct {
	jobs   map[string]*Job
	mu     sync.RWMutex
	notify func(Job)
}

func NewJobManager() *JobManager {
	return &JobManager{
		jobs: make(map[string]*Job),
	}
}

// OnUpdate registers the single mutation observer.
func (jm *JobManager) OnUpdate(fn func(Job)) {
	jm.mu.Lock()
	defer jm.mu.Unlock()
	jm.notify = fn
}

// publish is called with jm.mu held.
func (jm *JobManager) publish(job *Job) {
	if jm.notify != nil {
		jm.notify(*job)
	}
}

func (jm *JobManager) CreateJob(id string) Job {
	jm.mu.Lock()
	defer jm.mu.Unlock()
	job := &Job{
		ID:        id,
		Status:    StatusPending,
		Progress:  0,
		Message:   "Queued",
		CreatedAt: time.Now(),
	}
	jm.jobs[id] = job
	jm.publish(job)
	return *job
}

func (jm *JobManager) GetJob(id string) (Job, bool) {
	jm.mu.RLock()
	defer jm.mu.RUnlock()
	job, ok := jm.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

func (jm *JobManager) GetAllJobs() []Job {
	jm.mu.RLock()
	defer jm.mu.RUnlock()
	var list []Job
	// Map iteration is random. For now just return the list, clients
	// can sort by created_at.
	for _, job := range jm.jobs {
		list = append(list, *job)
	}
	return list
}

func (jm *JobManager) UpdateProgress(id string, progress int, message string) {
	jm.mu.Lock()
	defer jm.mu.Unlock()
	if job, ok := jm.jobs[id]; ok {
		job.Status = StatusProcessing
		job.Progress = progress
		job.Message = message
		jm.publish(job)
	}
}

func (jm *JobManager) CompleteJob(id string, downloadURL string, durationSec float64, sizeBytes int64) {
	jm.mu.Lock()
	defer jm.mu.Unlock()
	if job, ok := jm.jobs[id]; ok {
		job.Status = StatusSuccess
		job.Progress = 100
		job.Message = "Completed"
		job.DownloadURL = downloadURL
		job.DurationSec = durationSec
		job.SizeBytes = sizeBytes
		jm.publish(job)
	}
}

func (jm *JobManager) FailJob(id string, errStr string) {
	jm.mu.Lock()
	defer jm.mu.Unlock()
	if job, ok := jm.jobs[id]; ok {
		job.Status = StatusFailed
		job.Message = "Failed"
		job.Error = errStr
		jm.publish(job)
	}
}
