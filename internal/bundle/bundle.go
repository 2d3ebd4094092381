// Package bundle realizes a task intent as an ordered, dependency-linked set
// of subtasks. Without a plan it emits a fixed three-step bootstrap so every
// feature has at least one actionable subtask; with a plan each step becomes
// one subtask in a strict linear dependency chain.
package bundle

import (
	"fmt"
	"strings"

	"github.com/conductkit/conduct/pkg/models"
)

// maxSlugLen caps feature ids so store keys stay readable.
const maxSlugLen = 48

// baseContextFiles is the baseline context attached to every subtask.
var baseContextFiles = []string{
	"context/navigation.md",
	"context/standards/code-quality.md",
	"context/standards/documentation.md",
	"context/standards/test-coverage.md",
}

// Slugify lowercases the input, collapses non-alphanumeric runs to single
// hyphens, trims edge hyphens, and caps the length.
func Slugify(input string) string {
	var b strings.Builder
	lastHyphen := true // swallow leading separators
	for _, r := range strings.ToLower(input) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	if len(slug) > maxSlugLen {
		slug = strings.Trim(slug[:maxSlugLen], "-")
	}
	return slug
}

// Create builds a TaskBundle for the task, optionally shaped by a plan.
// It is a pure function: identical inputs always yield the identical bundle.
func Create(task models.Task, plan *models.ExecutionPlan) models.TaskBundle {
	featureID := Slugify(task.Intent)
	if featureID == "" {
		featureID = task.ID
	}

	exitCriteria := task.SuccessCriteria
	if len(exitCriteria) == 0 {
		exitCriteria = []string{
			"Requested behavior is implemented",
			"Scope validated by Reviewer",
		}
	}

	return models.TaskBundle{
		FeatureID:    featureID,
		Name:         task.Intent,
		Objective:    task.Intent,
		Status:       models.BundleActive,
		ContextFiles: contextFiles(),
		ExitCriteria: exitCriteria,
		Subtasks:     createSubtasks(featureID, plan),
	}
}

func createSubtasks(featureID string, plan *models.ExecutionPlan) []models.Subtask {
	if plan == nil {
		return bootstrapSubtasks(featureID)
	}

	subtasks := make([]models.Subtask, 0, len(plan.Steps))
	for i, step := range plan.Steps {
		seq := fmt.Sprintf("%02d", i+1)
		var dependsOn []string
		if i > 0 {
			dependsOn = []string{fmt.Sprintf("%02d", i)}
		}

		agent := "Coder"
		switch i {
		case 0:
			agent = "TaskPlanner"
		case len(plan.Steps) - 1:
			agent = "Reviewer"
		}

		subtasks = append(subtasks, models.Subtask{
			ID:                 featureID + "-" + seq,
			Seq:                seq,
			Title:              step.Description,
			Status:             models.SubtaskPending,
			DependsOn:          dependsOn,
			SuggestedAgent:     agent,
			ContextFiles:       contextFiles(),
			AcceptanceCriteria: []string{step.Description},
			Deliverables:       []string{"Step output"},
		})
	}
	return subtasks
}

// bootstrapSubtasks is the plan-free template: clarify, implement, verify.
func bootstrapSubtasks(featureID string) []models.Subtask {
	return []models.Subtask{
		{
			ID:                 featureID + "-01",
			Seq:                "01",
			Title:              "Clarify scope and constraints",
			Status:             models.SubtaskPending,
			SuggestedAgent:     "TaskPlanner",
			ContextFiles:       contextFiles(),
			AcceptanceCriteria: []string{"Scope is explicit"},
			Deliverables:       []string{"Task breakdown"},
		},
		{
			ID:                 featureID + "-02",
			Seq:                "02",
			Title:              "Implement focused changes",
			Status:             models.SubtaskPending,
			DependsOn:          []string{"01"},
			SuggestedAgent:     "Coder",
			ContextFiles:       contextFiles(),
			AcceptanceCriteria: []string{"Implementation matches scope"},
			Deliverables:       []string{"Code patch summary"},
		},
		{
			ID:                 featureID + "-03",
			Seq:                "03",
			Title:              "Verify and close",
			Status:             models.SubtaskPending,
			DependsOn:          []string{"02"},
			SuggestedAgent:     "Reviewer",
			ContextFiles:       contextFiles(),
			AcceptanceCriteria: []string{"Review passes and findings are resolved"},
			Deliverables:       []string{"Review report"},
		},
	}
}

func contextFiles() []string {
	out := make([]string, len(baseContextFiles))
	copy(out, baseContextFiles)
	return out
}
