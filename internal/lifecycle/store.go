package lifecycle

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/conductkit/conduct/internal/fsutil"
)

// DefaultStorePath is where the lifecycle store lives unless the policy
// overrides it.
const DefaultStorePath = ".tmp/task-lifecycle.json"

// Store owns the lifecycle state file. All operations are read-modify-write
// against that single file, serialized by a mutex within the process.
// There is no cross-process locking; separate processes are last-writer-wins.
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

// read loads the store file, substituting an empty store when the file does
// not exist yet. A malformed file is a hard error: it means corrupted state,
// not an expected business condition.
func (s *Store) read() (*storeFile, error) {
	var file storeFile
	err := fsutil.ReadJSON(s.path, &file)
	if os.IsNotExist(err) {
		return &storeFile{Version: storeVersion}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read lifecycle store: %w", err)
	}
	if file.Version != storeVersion {
		return nil, fmt.Errorf("lifecycle store %s: unsupported version %d", s.path, file.Version)
	}
	return &file, nil
}

func (s *Store) write(file *storeFile) error {
	if err := fsutil.AtomicWriteJSON(s.path, file); err != nil {
		return fmt.Errorf("write lifecycle store: %w", err)
	}
	return nil
}

// List returns every tracked feature state.
func (s *Store) List() ([]State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	file, err := s.read()
	if err != nil {
		return nil, err
	}
	return file.Tasks, nil
}

// Get returns the state for featureID, or ErrNotFound.
func (s *Store) Get(featureID string) (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	file, err := s.read()
	if err != nil {
		return nil, err
	}
	state := findState(file, featureID)
	if state == nil {
		return nil, fmt.Errorf("task %s: %w", featureID, ErrNotFound)
	}
	return state, nil
}

func findState(file *storeFile, featureID string) *State {
	for i := range file.Tasks {
		if file.Tasks[i].FeatureID == featureID {
			return &file.Tasks[i]
		}
	}
	return nil
}
