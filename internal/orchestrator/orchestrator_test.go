package orchestrator

import (
	"context"
	"testing"

	"github.com/conductkit/conduct/internal/config"
	"github.com/conductkit/conduct/pkg/models"
)

func TestRunTaskRoutesAndSuggests(t *testing.T) {
	policy := config.Default(models.ModeBalanced)
	task := models.Task{ID: "task-1", Intent: "Review the auth changes", RiskLevel: models.RiskMedium}

	result, err := RunTask(context.Background(), task, policy)
	if err != nil {
		t.Fatalf("RunTask: %v", err)
	}

	if result.AssignedSubagent != "Reviewer" {
		t.Errorf("AssignedSubagent = %q, want Reviewer", result.AssignedSubagent)
	}
	if result.Category != models.CategoryReview {
		t.Errorf("Category = %q, want review", result.Category)
	}
	if result.TaskBundle != nil {
		t.Error("reviewer delegation should not carry a task bundle")
	}
	if result.ExecutionPath != nil {
		t.Error("reviewer delegation should not run the coding pipeline")
	}

	// Balanced mode enforces the review skills suggested by the intent.
	wantEnforced := map[string]bool{}
	for _, id := range result.EnforcedSkills {
		wantEnforced[id] = true
	}
	if !wantEnforced["hf-requesting-code-review"] {
		t.Errorf("EnforcedSkills = %v, want hf-requesting-code-review present", result.EnforcedSkills)
	}
	if !wantEnforced["hf-task-management"] {
		t.Errorf("EnforcedSkills = %v, want mode-required hf-task-management present", result.EnforcedSkills)
	}
}

func TestRunTaskCoderPipeline(t *testing.T) {
	policy := config.Default(models.ModeBalanced)
	task := models.Task{ID: "task-2", Intent: "Refactor the session handling", RiskLevel: models.RiskMedium}

	result, err := RunTask(context.Background(), task, policy)
	if err != nil {
		t.Fatalf("RunTask: %v", err)
	}

	if result.AssignedSubagent != "Coder" {
		t.Fatalf("AssignedSubagent = %q, want Coder", result.AssignedSubagent)
	}
	if result.ExecutionPath == nil {
		t.Fatal("Coder delegation missing execution path")
	}
	wantStages := []string{"ContextScout", "TaskPlanner", "Coder", "Reviewer"}
	if len(result.ExecutionPath.Stages) != len(wantStages) {
		t.Fatalf("Stages = %v, want %v", result.ExecutionPath.Stages, wantStages)
	}
	for i, stage := range wantStages {
		if result.ExecutionPath.Stages[i] != stage {
			t.Errorf("Stages[%d] = %q, want %q", i, result.ExecutionPath.Stages[i], stage)
		}
	}
	if !result.ExecutionPath.Review.Approved {
		t.Errorf("review not approved: %v", result.ExecutionPath.Review.BlockingFindings)
	}

	if result.TaskBundle == nil {
		t.Fatal("Coder delegation missing task bundle")
	}
	// The bundle follows the plan: one subtask per step.
	if len(result.TaskBundle.Subtasks) != len(result.ExecutionPath.Plan.Steps) {
		t.Errorf("bundle has %d subtasks for %d plan steps",
			len(result.TaskBundle.Subtasks), len(result.ExecutionPath.Plan.Steps))
	}
}

func TestRunTaskBundleGating(t *testing.T) {
	policy := config.Default(models.ModeBalanced)
	policy.EnableTaskArtifacts = false
	task := models.Task{ID: "task-3", Intent: "Refactor the session handling", RiskLevel: models.RiskMedium}

	result, err := RunTask(context.Background(), task, policy)
	if err != nil {
		t.Fatalf("RunTask: %v", err)
	}
	if result.TaskBundle != nil {
		t.Error("task bundle built with artifacts disabled")
	}
}

func TestRunTaskEmptyIntent(t *testing.T) {
	policy := config.Default(models.ModeFast)
	if _, err := RunTask(context.Background(), models.Task{ID: "task-4"}, policy); err == nil {
		t.Error("RunTask accepted an empty intent")
	}
}

func TestRunTaskPolicyNotes(t *testing.T) {
	policy := config.Default(models.ModeFast)
	policy.UseWorktreesByDefault = true
	policy.RequireTests = true

	result, err := RunTask(context.Background(), models.Task{ID: "t", Intent: "small tweak"}, policy)
	if err != nil {
		t.Fatalf("RunTask: %v", err)
	}

	want := map[string]bool{
		"Use git worktrees for isolation.":       false,
		"Run tests before reporting completion.": false,
	}
	for _, note := range result.PolicyNotes {
		if _, ok := want[note]; ok {
			want[note] = true
		}
	}
	for note, seen := range want {
		if !seen {
			t.Errorf("PolicyNotes = %v, missing %q", result.PolicyNotes, note)
		}
	}
}

func TestPlannerInsertsAcceptanceStep(t *testing.T) {
	t.Run("no success criteria", func(t *testing.T) {
		plan := RunTaskPlanner(models.Task{ID: "t", Intent: "Refactor parsing"}, nil)
		if len(plan.Steps) != 4 {
			t.Fatalf("Steps = %d, want 4 with inserted acceptance step", len(plan.Steps))
		}
		if plan.Steps[1].Description != "Define explicit acceptance checks from requested outcome" {
			t.Errorf("Steps[1] = %q, want acceptance step", plan.Steps[1].Description)
		}
	})

	t.Run("explicit success criteria", func(t *testing.T) {
		plan := RunTaskPlanner(models.Task{ID: "t", Intent: "Refactor parsing", SuccessCriteria: []string{"parses"}}, nil)
		if len(plan.Steps) != 3 {
			t.Fatalf("Steps = %d, want 3", len(plan.Steps))
		}
	})
}

func TestReviewerBlocksPolicyViolations(t *testing.T) {
	policy := config.Default(models.ModeStrict)
	policy.RequireTests = true

	plan := RunTaskPlanner(models.Task{ID: "t", Intent: "Refactor parsing"}, nil)
	patch := RunCoder(plan, policy)
	patch.Safeguards.AutoTestsRun = false

	review := RunReviewer(plan, patch, policy)
	if review.Approved {
		t.Error("review approved despite missing required test evidence")
	}
}
