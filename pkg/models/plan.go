package models

// ExecutionStep is one ordered step of an execution plan.
type ExecutionStep struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// ExecutionPlan is the planner's decomposition of a task into ordered steps.
type ExecutionPlan struct {
	TaskID       string          `json:"task_id"`
	Objective    string          `json:"objective"`
	Steps        []ExecutionStep `json:"steps"`
	ContextFiles []string        `json:"context_files,omitempty"`
	Risks        []string        `json:"risks,omitempty"`
	Assumptions  []string        `json:"assumptions,omitempty"`
}

// PatchSafeguards records which policy safeguards were in effect when a
// patch was produced.
type PatchSafeguards struct {
	UsedWorktrees bool `json:"used_worktrees"`
	ManagedGit    bool `json:"managed_git"`
	AutoTestsRun  bool `json:"auto_tests_run"`
}

// CodePatch summarizes the coder stage's output.
type CodePatch struct {
	TaskID       string          `json:"task_id"`
	Summary      string          `json:"summary"`
	FilesTouched []string        `json:"files_touched,omitempty"`
	Safeguards   PatchSafeguards `json:"safeguards"`
}

// ReviewReport is the reviewer stage's verdict on a patch.
type ReviewReport struct {
	TaskID           string   `json:"task_id"`
	Approved         bool     `json:"approved"`
	Findings         []string `json:"findings,omitempty"`
	BlockingFindings []string `json:"blocking_findings,omitempty"`
	Reviewer         string   `json:"reviewer"`
}

// ContextBundle is the context scout's summary of relevant material.
type ContextBundle struct {
	TaskID              string   `json:"task_id"`
	Summary             string   `json:"summary"`
	RelevantFiles       []string `json:"relevant_files,omitempty"`
	UnresolvedQuestions []string `json:"unresolved_questions,omitempty"`
}
