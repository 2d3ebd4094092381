package lifecycle

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/conductkit/conduct/pkg/models"
)

// Upsert persists a bundle. A new feature is materialized as-is; an existing
// one is merged per mergeSubtasks, with the aggregate status recomputed and
// the feature timestamp bumped.
func (s *Store) Upsert(bundle models.TaskBundle) (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	file, err := s.read()
	if err != nil {
		return nil, err
	}

	now := s.now()
	existing := findState(file, bundle.FeatureID)

	if existing == nil {
		created := s.materialize(bundle)
		file.Tasks = append(file.Tasks, created)
		if err := s.write(file); err != nil {
			return nil, err
		}
		return &created, nil
	}

	existing.Name = bundle.Name
	existing.Objective = bundle.Objective
	existing.ContextFiles = bundle.ContextFiles
	existing.ReferenceFiles = bundle.ReferenceFiles
	existing.ExitCriteria = bundle.ExitCriteria
	existing.Subtasks = mergeSubtasks(existing.Subtasks, bundle.Subtasks, now)
	existing.Status = computeStatus(existing.Subtasks)
	existing.UpdatedAt = now

	if err := s.write(file); err != nil {
		return nil, err
	}
	updated := *existing
	return &updated, nil
}

// materialize turns a bundle into a fresh lifecycle state.
func (s *Store) materialize(bundle models.TaskBundle) State {
	now := s.now()
	subtasks := make([]Subtask, 0, len(bundle.Subtasks))
	for _, st := range bundle.Subtasks {
		subtasks = append(subtasks, Subtask{
			ID:             st.ID,
			Seq:            st.Seq,
			Title:          st.Title,
			Status:         st.Status,
			DependsOn:      st.DependsOn,
			Parallel:       st.Parallel,
			SuggestedAgent: st.SuggestedAgent,
			UpdatedAt:      now,
		})
	}
	return State{
		FeatureID:      bundle.FeatureID,
		Name:           bundle.Name,
		Objective:      bundle.Objective,
		Status:         computeStatus(subtasks),
		ContextFiles:   bundle.ContextFiles,
		ReferenceFiles: bundle.ReferenceFiles,
		ExitCriteria:   bundle.ExitCriteria,
		Subtasks:       subtasks,
		ResearchLog:    []ResearchEntry{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// SetSubtaskStatus applies a validated transition to one subtask. It fails
// with ErrNotFound when the feature or subtask is absent, ErrTerminalSubtask
// when moving out of completed, ErrDependencyUnresolved when entering
// in_progress or completed with incomplete dependencies, and
// ErrMissingBlockedReason when blocking without a reason.
func (s *Store) SetSubtaskStatus(featureID, seq string, status models.SubtaskStatus, reason string) (*State, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("unknown subtask status %q", status)
	}

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
	subtask := findSubtask(state, seq)
	if subtask == nil {
		return nil, fmt.Errorf("task %s subtask %s: %w", featureID, seq, ErrNotFound)
	}

	if subtask.Status == models.SubtaskCompleted && status != models.SubtaskCompleted {
		return nil, fmt.Errorf("subtask %s: %w", seq, ErrTerminalSubtask)
	}
	if (status == models.SubtaskInProgress || status == models.SubtaskCompleted) && !dependenciesSatisfied(state, seq) {
		return nil, fmt.Errorf("subtask %s: %w", seq, ErrDependencyUnresolved)
	}
	if status == models.SubtaskBlocked && strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("subtask %s: %w", seq, ErrMissingBlockedReason)
	}

	now := s.now()
	subtask.Status = status
	subtask.UpdatedAt = now
	if status == models.SubtaskBlocked {
		subtask.BlockedReason = reason
	} else {
		subtask.BlockedReason = ""
	}

	state.Status = computeStatus(state.Subtasks)
	state.UpdatedAt = now

	if err := s.write(file); err != nil {
		return nil, err
	}
	updated := *state
	return &updated, nil
}

// AddResearchEntry appends an identified, timestamped research record to the
// feature's log. Only the id and timestamp are filled in here; the caller
// supplies provider, query, summary and links.
func (s *Store) AddResearchEntry(featureID string, entry ResearchEntry) (*State, error) {
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

	now := s.now()
	entry.ID = "research-" + uuid.New().String()[:8]
	entry.CreatedAt = now
	state.ResearchLog = append(state.ResearchLog, entry)
	state.UpdatedAt = now

	if err := s.write(file); err != nil {
		return nil, err
	}
	updated := *state
	return &updated, nil
}
