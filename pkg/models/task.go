package models

// RiskLevel describes how risky a task is considered to be.
type RiskLevel string

const (
	// RiskLow indicates a routine, low-impact change.
	RiskLow RiskLevel = "low"
	// RiskMedium is the default risk level.
	RiskMedium RiskLevel = "medium"
	// RiskHigh indicates the task touches sensitive or wide-reaching scope.
	RiskHigh RiskLevel = "high"
)

// Valid returns true if the risk level is a known value.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	default:
		return false
	}
}

// Task is the immutable input driving a delegation. It is created by the
// caller and never mutated by the orchestrator.
type Task struct {
	// ID is the unique identifier for this task.
	ID string `json:"id"`
	// Intent is the natural-language description of the work.
	Intent string `json:"intent"`
	// Category optionally pins the delegation category; inferred when empty.
	Category DelegationCategory `json:"category,omitempty"`
	// Constraints lists restrictions the work must honor.
	Constraints []string `json:"constraints,omitempty"`
	// SuccessCriteria lists conditions that define completion.
	SuccessCriteria []string `json:"success_criteria,omitempty"`
	// RiskLevel is the declared risk of the task.
	RiskLevel RiskLevel `json:"risk_level"`
}

// SubtaskStatus represents the state of one decomposed unit of work.
type SubtaskStatus string

const (
	// SubtaskPending indicates the subtask has not started.
	SubtaskPending SubtaskStatus = "pending"
	// SubtaskInProgress indicates the subtask is being worked on.
	SubtaskInProgress SubtaskStatus = "in_progress"
	// SubtaskCompleted indicates the subtask finished. Terminal.
	SubtaskCompleted SubtaskStatus = "completed"
	// SubtaskBlocked indicates the subtask cannot proceed without intervention.
	SubtaskBlocked SubtaskStatus = "blocked"
)

// Valid returns true if the status is a known value.
func (s SubtaskStatus) Valid() bool {
	switch s {
	case SubtaskPending, SubtaskInProgress, SubtaskCompleted, SubtaskBlocked:
		return true
	default:
		return false
	}
}

// Subtask is the artifact form of a decomposed unit of work, produced by the
// bundle builder before persistence.
type Subtask struct {
	// ID is the unique identifier, "<featureId>-<seq>".
	ID string `json:"id"`
	// Seq is the two-digit sequence number within the feature.
	Seq string `json:"seq"`
	// Title is the short description of the subtask.
	Title string `json:"title"`
	// Status is the declared initial status, usually pending.
	Status SubtaskStatus `json:"status"`
	// DependsOn lists sequence numbers that must complete first.
	DependsOn []string `json:"depends_on"`
	// Parallel marks subtasks with no dependents contending for one agent.
	Parallel bool `json:"parallel"`
	// SuggestedAgent is the subagent role proposed for this subtask.
	SuggestedAgent string `json:"suggested_agent"`
	// ContextFiles lists files an agent should load before starting.
	ContextFiles []string `json:"context_files,omitempty"`
	// ReferenceFiles lists supplementary reference material.
	ReferenceFiles []string `json:"reference_files,omitempty"`
	// AcceptanceCriteria defines what done means for this subtask.
	AcceptanceCriteria []string `json:"acceptance_criteria,omitempty"`
	// Deliverables lists the expected outputs.
	Deliverables []string `json:"deliverables,omitempty"`
}

// BundleStatus is the declared status of a freshly built bundle.
type BundleStatus string

const (
	// BundleActive is the status of every newly created bundle.
	BundleActive BundleStatus = "active"
	// BundleCompleted marks a bundle whose subtasks are all complete.
	BundleCompleted BundleStatus = "completed"
)

// TaskBundle is an ordered, dependency-linked set of subtasks realized from
// a task intent, optionally informed by an execution plan.
type TaskBundle struct {
	// FeatureID is the stable slug identifying the feature.
	FeatureID string `json:"feature_id"`
	// Name is the human-readable feature name.
	Name string `json:"name"`
	// Objective restates the task intent.
	Objective string `json:"objective"`
	// Status is the declared bundle status.
	Status BundleStatus `json:"status"`
	// ContextFiles lists baseline context for every subtask.
	ContextFiles []string `json:"context_files,omitempty"`
	// ReferenceFiles lists supplementary reference material.
	ReferenceFiles []string `json:"reference_files,omitempty"`
	// ExitCriteria defines completion for the feature as a whole.
	ExitCriteria []string `json:"exit_criteria,omitempty"`
	// Subtasks is the ordered set of decomposed work items.
	Subtasks []Subtask `json:"subtasks"`
}
