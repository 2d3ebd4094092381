package lifecycle

import (
	"fmt"

	"github.com/conductkit/conduct/pkg/models"
)

// Resume summarizes where work on a feature should pick up.
type Resume struct {
	FeatureID       string        `json:"feature_id"`
	Status          FeatureStatus `json:"status"`
	NextSubtask     *Subtask      `json:"next_subtask,omitempty"`
	BlockedSubtasks []Subtask     `json:"blocked_subtasks"`
	Message         string        `json:"message"`
}

// BlockedSubtask pairs a blocked subtask with its recorded reason.
type BlockedSubtask struct {
	Subtask Subtask `json:"subtask"`
	Reason  string  `json:"reason"`
}

// BuildResume computes the resume summary for a feature: the first subtask
// in declaration order that is neither completed nor blocked and whose
// dependencies are all completed, plus every currently blocked subtask.
func (s *Store) BuildResume(featureID string) (*Resume, error) {
	state, err := s.Get(featureID)
	if err != nil {
		return nil, err
	}

	resume := &Resume{
		FeatureID:       featureID,
		Status:          state.Status,
		BlockedSubtasks: []Subtask{},
	}
	for _, st := range state.Subtasks {
		if st.Status == models.SubtaskBlocked {
			resume.BlockedSubtasks = append(resume.BlockedSubtasks, st)
		}
	}

	if state.Status == FeatureCompleted {
		resume.Message = "All subtasks are complete."
		return resume, nil
	}

	for _, st := range state.Subtasks {
		if st.Status == models.SubtaskCompleted || st.Status == models.SubtaskBlocked {
			continue
		}
		if !dependenciesSatisfied(state, st.Seq) {
			continue
		}
		next := st
		resume.NextSubtask = &next
		resume.Message = fmt.Sprintf("Resume at %s: %s", next.Seq, next.Title)
		return resume, nil
	}

	if len(resume.BlockedSubtasks) > 0 {
		resume.Message = "Resolve blocked subtasks before continuing."
	} else {
		resume.Message = "No ready subtask found."
	}
	return resume, nil
}

// NextReadySubtask returns the next actionable subtask, or nil when there is
// none.
func (s *Store) NextReadySubtask(featureID string) (*Subtask, error) {
	resume, err := s.BuildResume(featureID)
	if err != nil {
		return nil, err
	}
	return resume.NextSubtask, nil
}

// ListBlocked returns every blocked subtask of a feature with its reason.
// An unknown feature yields an empty list rather than an error; the query is
// a read-only derived view.
func (s *Store) ListBlocked(featureID string) ([]BlockedSubtask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	file, err := s.read()
	if err != nil {
		return nil, err
	}
	state := findState(file, featureID)
	if state == nil {
		return []BlockedSubtask{}, nil
	}

	blocked := []BlockedSubtask{}
	for _, st := range state.Subtasks {
		if st.Status != models.SubtaskBlocked {
			continue
		}
		reason := st.BlockedReason
		if reason == "" {
			reason = "No reason recorded."
		}
		blocked = append(blocked, BlockedSubtask{Subtask: st, Reason: reason})
	}
	return blocked, nil
}
