package background

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/conductkit/conduct/internal/fsutil"
)

// DefaultStorePath is where the job store lives unless the policy overrides
// it.
const DefaultStorePath = ".tmp/background-tasks.json"

// staleError is the message recorded on jobs reclaimed by the stale sweep.
const staleError = "Marked stale by runtime timeout."

var (
	// ErrNotFound is returned when a job id is unknown.
	ErrNotFound = errors.New("job not found")
	// ErrInvalidPayload is returned when an enqueue payload is incomplete
	// for its declared kind.
	ErrInvalidPayload = errors.New("invalid job payload")
	// ErrNotQueued is returned when execution is requested for a job that
	// already left the queued state.
	ErrNotQueued = errors.New("job is not queued")
)

// Store owns the background job file. Every operation is a read-modify-write
// against one file, serialized by a mutex so the dispatcher's concurrent job
// goroutines never lose updates. There is no cross-process locking; separate
// processes are last-writer-wins.
type Store struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewStore returns a store rooted at path, or the default path when empty.
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultStorePath
	}
	return &Store{path: path, now: func() time.Time { return time.Now().UTC() }}
}

// Path returns the file the store persists to.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) read() (*storeFile, error) {
	var file storeFile
	err := fsutil.ReadJSON(s.path, &file)
	if os.IsNotExist(err) {
		return &storeFile{Version: storeVersion}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read background store: %w", err)
	}
	if file.Version != storeVersion {
		return nil, fmt.Errorf("background store %s: unsupported version %d", s.path, file.Version)
	}
	return &file, nil
}

func (s *Store) write(file *storeFile) error {
	if err := fsutil.AtomicWriteJSON(s.path, file); err != nil {
		return fmt.Errorf("write background store: %w", err)
	}
	return nil
}

// List returns every job in enqueue order.
func (s *Store) List() ([]Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	file, err := s.read()
	if err != nil {
		return nil, err
	}
	return file.Jobs, nil
}

// Get returns the job with the given id, or ErrNotFound.
func (s *Store) Get(jobID string) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	file, err := s.read()
	if err != nil {
		return nil, err
	}
	job := findJob(file, jobID)
	if job == nil {
		return nil, fmt.Errorf("job %s: %w", jobID, ErrNotFound)
	}
	return job, nil
}

// Enqueue validates the payload and appends a queued job.
func (s *Store) Enqueue(payload Payload) (*Job, error) {
	if err := validatePayload(payload); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	file, err := s.read()
	if err != nil {
		return nil, err
	}

	job := Job{
		ID:        "bg-" + uuid.New().String()[:8],
		Status:    JobQueued,
		Payload:   payload,
		CreatedAt: s.now(),
	}
	file.Jobs = append(file.Jobs, job)

	if err := s.write(file); err != nil {
		return nil, err
	}
	return &job, nil
}

// ListDispatchable returns the queued jobs that fit under the concurrency
// limit given the currently running ones, oldest first. Capacity never goes
// negative: with the limit already consumed the result is empty.
func (s *Store) ListDispatchable(concurrency int) ([]Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	file, err := s.read()
	if err != nil {
		return nil, err
	}

	running := 0
	for _, job := range file.Jobs {
		if job.Status == JobRunning {
			running++
		}
	}
	capacity := concurrency - running
	if capacity < 0 {
		capacity = 0
	}

	var out []Job
	for _, job := range file.Jobs {
		if len(out) >= capacity {
			break
		}
		if job.Status == JobQueued {
			out = append(out, job)
		}
	}
	return out, nil
}

// MarkStale fails every running job whose start time is older than the
// timeout, in a single batched write, and returns how many were reclaimed.
func (s *Store) MarkStale(timeout time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	file, err := s.read()
	if err != nil {
		return 0, err
	}

	now := s.now()
	cutoff := now.Add(-timeout)
	count := 0
	for i := range file.Jobs {
		job := &file.Jobs[i]
		if job.Status != JobRunning || job.StartedAt == nil {
			continue
		}
		if job.StartedAt.After(cutoff) {
			continue
		}
		job.Status = JobFailed
		job.Error = staleError
		finished := now
		job.FinishedAt = &finished
		count++
	}

	if count == 0 {
		return 0, nil
	}
	if err := s.write(file); err != nil {
		return 0, err
	}
	return count, nil
}

// start transitions a queued job to running and stamps StartedAt.
func (s *Store) start(jobID string) (*Job, error) {
	return s.mutate(jobID, func(job *Job) error {
		if job.Status != JobQueued {
			return fmt.Errorf("job %s is %s: %w", job.ID, job.Status, ErrNotQueued)
		}
		job.Status = JobRunning
		started := s.now()
		job.StartedAt = &started
		return nil
	})
}

// complete transitions a running job to completed with its result.
func (s *Store) complete(jobID string, result []byte) (*Job, error) {
	return s.mutate(jobID, func(job *Job) error {
		job.Status = JobCompleted
		job.Result = result
		finished := s.now()
		job.FinishedAt = &finished
		return nil
	})
}

// fail transitions a running job to failed with the error message.
func (s *Store) fail(jobID, message string) (*Job, error) {
	return s.mutate(jobID, func(job *Job) error {
		job.Status = JobFailed
		job.Error = message
		finished := s.now()
		job.FinishedAt = &finished
		return nil
	})
}

func (s *Store) mutate(jobID string, fn func(*Job) error) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	file, err := s.read()
	if err != nil {
		return nil, err
	}
	job := findJob(file, jobID)
	if job == nil {
		return nil, fmt.Errorf("job %s: %w", jobID, ErrNotFound)
	}
	if err := fn(job); err != nil {
		return nil, err
	}
	if err := s.write(file); err != nil {
		return nil, err
	}
	out := *job
	return &out, nil
}

func findJob(file *storeFile, jobID string) *Job {
	for i := range file.Jobs {
		if file.Jobs[i].ID == jobID {
			return &file.Jobs[i]
		}
	}
	return nil
}

func validatePayload(p Payload) error {
	switch p.Kind {
	case KindRunTask:
		if p.Task == nil || p.Task.ID == "" || strings.TrimSpace(p.Task.Intent) == "" {
			return fmt.Errorf("run-task payload needs a task with id and intent: %w", ErrInvalidPayload)
		}
	case KindSearch:
		if p.Provider == "" || strings.TrimSpace(p.Query) == "" {
			return fmt.Errorf("mcp-search payload needs provider and query: %w", ErrInvalidPayload)
		}
	default:
		return fmt.Errorf("unknown job kind %q: %w", p.Kind, ErrInvalidPayload)
	}
	return nil
}
