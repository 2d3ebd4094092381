// Package lifecycle is the durable state machine tracking decomposed
// subtasks per feature. All state lives in a single JSON store file owned by
// a Store; every mutation is a full read-modify-write with an atomic rewrite.
package lifecycle

import (
	"time"

	"github.com/conductkit/conduct/pkg/models"
)

// storeVersion is the on-disk schema version.
const storeVersion = 1

// FeatureStatus is the aggregate status of a feature, derived purely from
// its subtask statuses.
type FeatureStatus string

const (
	// FeatureActive means work remains and nothing is blocked.
	FeatureActive FeatureStatus = "active"
	// FeatureCompleted means every subtask is completed.
	FeatureCompleted FeatureStatus = "completed"
	// FeatureBlocked means at least one subtask is blocked.
	FeatureBlocked FeatureStatus = "blocked"
)

// Subtask is the persisted form of a decomposed work item. It extends the
// artifact form with the blocked reason and a mutation timestamp, and is
// mutated only through validated transitions.
type Subtask struct {
	ID             string               `json:"id"`
	Seq            string               `json:"seq"`
	Title          string               `json:"title"`
	Status         models.SubtaskStatus `json:"status"`
	BlockedReason  string               `json:"blocked_reason,omitempty"`
	DependsOn      []string             `json:"depends_on"`
	Parallel       bool                 `json:"parallel"`
	SuggestedAgent string               `json:"suggested_agent"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// ResearchEntry is one append-only record of external research attached to a
// feature.
type ResearchEntry struct {
	ID        string    `json:"id"`
	Provider  string    `json:"provider"`
	Query     string    `json:"query"`
	Summary   string    `json:"summary"`
	Links     []string  `json:"links,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// State is the full lifecycle record for one feature.
type State struct {
	FeatureID      string          `json:"feature_id"`
	Name           string          `json:"name"`
	Objective      string          `json:"objective"`
	Status         FeatureStatus   `json:"status"`
	ContextFiles   []string        `json:"context_files,omitempty"`
	ReferenceFiles []string        `json:"reference_files,omitempty"`
	ExitCriteria   []string        `json:"exit_criteria,omitempty"`
	Subtasks       []Subtask       `json:"subtasks"`
	ResearchLog    []ResearchEntry `json:"research_log"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// storeFile is the on-disk container. Feature ids are unique within Tasks.
type storeFile struct {
	Version int     `json:"version"`
	Tasks   []State `json:"tasks"`
}

// computeStatus derives the aggregate feature status: any blocked subtask
// blocks the feature, a fully completed set completes it, anything else is
// active.
func computeStatus(subtasks []Subtask) FeatureStatus {
	allCompleted := true
	for _, st := range subtasks {
		switch st.Status {
		case models.SubtaskBlocked:
			return FeatureBlocked
		case models.SubtaskCompleted:
		default:
			allCompleted = false
		}
	}
	if allCompleted && len(subtasks) > 0 {
		return FeatureCompleted
	}
	return FeatureActive
}

// dependenciesSatisfied reports whether every dependency of the subtask at
// seq resolves to a completed subtask. A referenced seq that does not exist
// counts as unsatisfied: the check fails closed.
func dependenciesSatisfied(state *State, seq string) bool {
	subtask := findSubtask(state, seq)
	if subtask == nil {
		return false
	}
	for _, dep := range subtask.DependsOn {
		depSubtask := findSubtask(state, dep)
		if depSubtask == nil || depSubtask.Status != models.SubtaskCompleted {
			return false
		}
	}
	return true
}

func findSubtask(state *State, seq string) *Subtask {
	for i := range state.Subtasks {
		if state.Subtasks[i].Seq == seq {
			return &state.Subtasks[i]
		}
	}
	return nil
}
