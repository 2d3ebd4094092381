package bundle

import (
	"reflect"
	"testing"

	"github.com/conductkit/conduct/pkg/models"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple intent",
			input:    "Implement feature flags",
			expected: "implement-feature-flags",
		},
		{
			name:     "punctuation collapses to single hyphens",
			input:    "Fix: login / logout  (v2)",
			expected: "fix-login-logout-v2",
		},
		{
			name:     "leading and trailing separators trimmed",
			input:    "  --hello world--  ",
			expected: "hello-world",
		},
		{
			name:     "long input capped",
			input:    "this is a very long feature title that keeps going well past the cap",
			expected: "this-is-a-very-long-feature-title-that-keeps-goi",
		},
		{
			name:     "only separators yields empty",
			input:    "!!! ---",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slugify(tt.input)
			if got != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
			}
			if len(got) > maxSlugLen {
				t.Errorf("Slugify(%q) length %d exceeds cap %d", tt.input, len(got), maxSlugLen)
			}
		})
	}
}

func TestCreateBootstrap(t *testing.T) {
	task := models.Task{ID: "task-1", Intent: "Implement feature flags", RiskLevel: models.RiskMedium}

	b := Create(task, nil)

	if b.FeatureID != "implement-feature-flags" {
		t.Errorf("FeatureID = %q, want %q", b.FeatureID, "implement-feature-flags")
	}
	if b.Status != models.BundleActive {
		t.Errorf("Status = %q, want active", b.Status)
	}
	if len(b.Subtasks) != 3 {
		t.Fatalf("expected 3 bootstrap subtasks, got %d", len(b.Subtasks))
	}
	if b.Subtasks[0].SuggestedAgent != "TaskPlanner" {
		t.Errorf("subtask 01 agent = %q, want TaskPlanner", b.Subtasks[0].SuggestedAgent)
	}
	if !reflect.DeepEqual(b.Subtasks[1].DependsOn, []string{"01"}) {
		t.Errorf("subtask 02 depends_on = %v, want [01]", b.Subtasks[1].DependsOn)
	}
	if b.Subtasks[2].SuggestedAgent != "Reviewer" {
		t.Errorf("subtask 03 agent = %q, want Reviewer", b.Subtasks[2].SuggestedAgent)
	}
	if b.Subtasks[0].ID != "implement-feature-flags-01" {
		t.Errorf("subtask id = %q, want feature-prefixed seq", b.Subtasks[0].ID)
	}
}

func TestCreateFromPlan(t *testing.T) {
	task := models.Task{ID: "task-2", Intent: "Add rate limiting", RiskLevel: models.RiskLow}
	plan := &models.ExecutionPlan{
		TaskID:    task.ID,
		Objective: task.Intent,
		Steps: []models.ExecutionStep{
			{ID: "step-1", Description: "Map intent"},
			{ID: "step-2", Description: "Implement limiter"},
			{ID: "step-3", Description: "Wire middleware"},
			{ID: "step-4", Description: "Verify behavior"},
		},
	}

	b := Create(task, plan)

	if len(b.Subtasks) != len(plan.Steps) {
		t.Fatalf("expected %d subtasks, got %d", len(plan.Steps), len(b.Subtasks))
	}
	if b.Subtasks[0].SuggestedAgent != "TaskPlanner" {
		t.Errorf("first agent = %q, want TaskPlanner", b.Subtasks[0].SuggestedAgent)
	}
	for _, i := range []int{1, 2} {
		if b.Subtasks[i].SuggestedAgent != "Coder" {
			t.Errorf("interior agent[%d] = %q, want Coder", i, b.Subtasks[i].SuggestedAgent)
		}
	}
	if b.Subtasks[3].SuggestedAgent != "Reviewer" {
		t.Errorf("last agent = %q, want Reviewer", b.Subtasks[3].SuggestedAgent)
	}

	// Strict linear chain: each subtask depends on exactly the previous seq.
	if b.Subtasks[0].DependsOn != nil {
		t.Errorf("first subtask depends_on = %v, want none", b.Subtasks[0].DependsOn)
	}
	for i := 1; i < len(b.Subtasks); i++ {
		want := []string{b.Subtasks[i-1].Seq}
		if !reflect.DeepEqual(b.Subtasks[i].DependsOn, want) {
			t.Errorf("subtask %s depends_on = %v, want %v", b.Subtasks[i].Seq, b.Subtasks[i].DependsOn, want)
		}
	}
}

func TestCreateDefaults(t *testing.T) {
	t.Run("empty slug falls back to task id", func(t *testing.T) {
		b := Create(models.Task{ID: "task-9", Intent: "!!!"}, nil)
		if b.FeatureID != "task-9" {
			t.Errorf("FeatureID = %q, want task id fallback", b.FeatureID)
		}
	})

	t.Run("exit criteria defaulted", func(t *testing.T) {
		b := Create(models.Task{ID: "t", Intent: "do work"}, nil)
		if len(b.ExitCriteria) != 2 {
			t.Fatalf("expected 2 default exit criteria, got %v", b.ExitCriteria)
		}
	})

	t.Run("explicit success criteria kept", func(t *testing.T) {
		b := Create(models.Task{ID: "t", Intent: "do work", SuccessCriteria: []string{"done"}}, nil)
		if !reflect.DeepEqual(b.ExitCriteria, []string{"done"}) {
			t.Errorf("ExitCriteria = %v, want [done]", b.ExitCriteria)
		}
	})

	t.Run("identical inputs yield identical bundles", func(t *testing.T) {
		task := models.Task{ID: "t", Intent: "stable output"}
		if !reflect.DeepEqual(Create(task, nil), Create(task, nil)) {
			t.Error("Create is not deterministic for identical inputs")
		}
	})
}
