// Package orchestrator runs the delegation pipeline: routing an intent to a
// subagent, resolving the skill set, emitting policy notes, and for coding
// work sequencing the planner, coder, and reviewer stages.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/conductkit/conduct/internal/bundle"
	"github.com/conductkit/conduct/internal/config"
	"github.com/conductkit/conduct/internal/router"
	"github.com/conductkit/conduct/internal/skills"
	"github.com/conductkit/conduct/pkg/models"
)

// ExecutionPath records the staged pipeline a coding delegation went through.
type ExecutionPath struct {
	Stages  []string             `json:"stages"`
	Context models.ContextBundle `json:"context"`
	Plan    models.ExecutionPlan `json:"plan"`
	Patch   models.CodePatch     `json:"patch"`
	Review  models.ReviewReport  `json:"review"`
}

// Result is the full delegation outcome for a single task.
type Result struct {
	TaskID           string                    `json:"task_id"`
	AssignedSubagent string                    `json:"assigned_subagent"`
	RouteSource      models.RouteSource        `json:"route_source"`
	Category         models.DelegationCategory `json:"category"`
	SuggestedSkills  []string                  `json:"suggested_skills"`
	EnforcedSkills   []string                  `json:"enforced_skills"`
	RequiresApproval bool                      `json:"requires_approval"`
	PolicyNotes      []string                  `json:"policy_notes"`
	TaskBundle       *models.TaskBundle        `json:"task_bundle,omitempty"`
	ExecutionPath    *ExecutionPath            `json:"execution_path,omitempty"`
}

// RunTask delegates a task under the given policy. Coder delegations run the
// staged context, plan, patch, review pipeline; TaskManager and Coder
// delegations additionally get a task bundle when artifacts are enabled.
// RunTask never mutates the task and performs no persistence.
func RunTask(ctx context.Context, task models.Task, policy *config.Policy) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if task.Intent == "" {
		return nil, fmt.Errorf("task %s has no intent", task.ID)
	}

	decision := router.RouteDetailed(task.Intent, task.Category, policy.DelegationProfiles)

	suggested := skills.Suggest(task.Intent)

	result := &Result{
		TaskID:           task.ID,
		AssignedSubagent: decision.AssignedSubagent,
		RouteSource:      decision.Source,
		Category:         decision.MatchedCategory,
		SuggestedSkills:  suggested,
		EnforcedSkills:   enforcedSkills(suggested, policy.Mode),
		RequiresApproval: policy.RequireApprovalGates,
		PolicyNotes:      policyNotes(policy),
	}

	var plan *models.ExecutionPlan
	if decision.AssignedSubagent == "Coder" {
		scoped := RunContextScout(task)
		p := RunTaskPlanner(task, &scoped)
		patch := RunCoder(p, policy)
		review := RunReviewer(p, patch, policy)
		result.ExecutionPath = &ExecutionPath{
			Stages:  []string{"ContextScout", "TaskPlanner", "Coder", "Reviewer"},
			Context: scoped,
			Plan:    p,
			Patch:   patch,
			Review:  review,
		}
		plan = &p
	}

	if policy.EnableTaskArtifacts && wantsBundle(decision.AssignedSubagent) {
		b := bundle.Create(task, plan)
		result.TaskBundle = &b
	}

	return result, nil
}

// enforcedSkills is the union of suggested skills that are strict in this
// mode and the skills every delegation in this mode must carry.
func enforcedSkills(suggested []string, mode models.PolicyMode) []string {
	seen := map[string]bool{}
	var out []string
	for _, id := range suggested {
		if skills.Enforced(id, mode) && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, id := range skills.RequiredForMode(mode) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func policyNotes(policy *config.Policy) []string {
	var notes []string
	if policy.UseWorktreesByDefault {
		notes = append(notes, "Use git worktrees for isolation.")
	}
	if policy.ManageGitByDefault {
		notes = append(notes, "Manage git operations on behalf of the user.")
	}
	if policy.RequireTests {
		notes = append(notes, "Run tests before reporting completion.")
	}
	if policy.RequireVerification {
		notes = append(notes, "Verification is required before closeout.")
	}
	if policy.RequireCodeReview {
		notes = append(notes, "Code review is required before merge.")
	}
	return notes
}

func wantsBundle(subagent string) bool {
	return subagent == "TaskManager" || subagent == "Coder"
}
