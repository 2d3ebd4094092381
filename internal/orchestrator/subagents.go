package orchestrator

import (
	"fmt"
	"strings"

	"github.com/conductkit/conduct/internal/config"
	"github.com/conductkit/conduct/pkg/models"
)

// The subagent stages below are deterministic contract implementations: they
// produce the records the orchestrator sequences without performing any real
// code generation. Callers depend only on their input/output shapes.

var scoutContextFiles = []string{
	"context/navigation.md",
	"context/project/policy-contract.md",
	"context/project/subagent-handoff-template.md",
}

// RunContextScout gathers the context bundle for a task.
func RunContextScout(task models.Task) models.ContextBundle {
	normalized := strings.ToLower(task.Intent)
	relevant := append([]string{}, scoutContextFiles...)

	if strings.Contains(normalized, "test") || strings.Contains(normalized, "verify") || strings.Contains(normalized, "validation") {
		relevant = append(relevant, "context/standards/test-coverage.md")
	}
	if task.Category == models.CategoryDocs || strings.Contains(normalized, "docs") {
		relevant = append(relevant, "docs/architecture.md")
	}

	var unresolved []string
	if len(task.SuccessCriteria) == 0 {
		unresolved = append(unresolved, "No explicit success criteria provided; use policy defaults.")
	}

	return models.ContextBundle{
		TaskID:              task.ID,
		Summary:             fmt.Sprintf("Context scoped for '%s'.", task.Intent),
		RelevantFiles:       relevant,
		UnresolvedQuestions: unresolved,
	}
}

// RunTaskPlanner decomposes a task into ordered steps. Without success
// criteria an explicit acceptance-definition step is inserted after intent
// mapping.
func RunTaskPlanner(task models.Task, context *models.ContextBundle) models.ExecutionPlan {
	steps := []models.ExecutionStep{
		{ID: "step-1", Description: fmt.Sprintf("Map intent to concrete change areas for '%s'", task.Intent)},
		{ID: "step-2", Description: "Implement the minimal scoped change set"},
		{ID: "step-3", Description: "Verify scope and policy compliance before completion"},
	}
	if len(task.SuccessCriteria) == 0 {
		acceptance := models.ExecutionStep{ID: "step-1b", Description: "Define explicit acceptance checks from requested outcome"}
		steps = append(steps[:1], append([]models.ExecutionStep{acceptance}, steps[1:]...)...)
	}

	var risks []string
	if task.RiskLevel == models.RiskHigh {
		risks = append(risks, "High-risk scope: require stricter reviewer validation before completion.")
	}
	if context != nil && len(context.UnresolvedQuestions) > 0 {
		risks = append(risks, "Context has unresolved questions; use explicit assumptions in implementation notes.")
	}

	assumption := "Treat policy defaults and user intent as acceptance baseline."
	if len(task.SuccessCriteria) > 0 {
		assumption = "Use provided success criteria as acceptance checks."
	}

	plan := models.ExecutionPlan{
		TaskID:      task.ID,
		Objective:   task.Intent,
		Steps:       steps,
		Risks:       risks,
		Assumptions: []string{assumption},
	}
	if context != nil {
		plan.ContextFiles = context.RelevantFiles
	}
	return plan
}

// RunCoder records the patch contract for a plan under the active policy
// safeguards.
func RunCoder(plan models.ExecutionPlan, policy *config.Policy) models.CodePatch {
	return models.CodePatch{
		TaskID:       plan.TaskID,
		Summary:      "Implemented plan for: " + plan.Objective,
		FilesTouched: append([]string{}, plan.ContextFiles...),
		Safeguards: models.PatchSafeguards{
			UsedWorktrees: policy.UseWorktreesByDefault,
			ManagedGit:    policy.ManageGitByDefault,
			AutoTestsRun:  policy.RequireTests,
		},
	}
}

// RunReviewer evaluates a patch against the plan and policy gates.
func RunReviewer(plan models.ExecutionPlan, patch models.CodePatch, policy *config.Policy) models.ReviewReport {
	var findings, blocking []string

	if len(patch.FilesTouched) == 0 {
		blocking = append(blocking, "No candidate files were identified by Coder stage.")
	}
	if len(plan.Steps) < 3 {
		blocking = append(blocking, "Plan is underspecified (expected at least 3 steps).")
	}
	if patch.Safeguards.UsedWorktrees {
		findings = append(findings, "Policy enabled worktrees for this run.")
	}
	if patch.Safeguards.ManagedGit {
		findings = append(findings, "Policy enabled git management for this run.")
	}
	if policy.RequireTests && !patch.Safeguards.AutoTestsRun {
		blocking = append(blocking, "Policy requires tests but no automated test run evidence was produced.")
	}
	if policy.RequireVerification {
		findings = append(findings, "Verification is required and must be completed before closeout.")
	}

	return models.ReviewReport{
		TaskID:           patch.TaskID,
		Approved:         len(blocking) == 0,
		Findings:         findings,
		BlockingFindings: blocking,
		Reviewer:         "Reviewer",
	}
}
