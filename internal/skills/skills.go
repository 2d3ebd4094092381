// Package skills maintains the static skill catalog and suggests skills for
// a task intent by trigger-hint matching.
package skills

import (
	"strings"

	"github.com/conductkit/conduct/pkg/models"
)

// Skill is one entry of the catalog: the modes it is enforced in and the
// intent keywords that suggest it.
type Skill struct {
	ID           string              `json:"id"`
	StrictIn     []models.PolicyMode `json:"strict_in"`
	TriggerHints []string            `json:"trigger_hints"`
}

var coreSkills = []Skill{
	{
		ID:           "hf-brainstorming",
		StrictIn:     []models.PolicyMode{models.ModeBalanced, models.ModeStrict},
		TriggerHints: []string{"design", "approach", "architecture"},
	},
	{
		ID:           "hf-test-driven-development",
		StrictIn:     []models.PolicyMode{models.ModeStrict},
		TriggerHints: []string{"feature", "bug", "refactor"},
	},
	{
		ID:           "hf-systematic-debugging",
		StrictIn:     []models.PolicyMode{models.ModeBalanced, models.ModeStrict},
		TriggerHints: []string{"bug", "failure", "unexpected"},
	},
	{
		ID:           "hf-verification-before-completion",
		StrictIn:     []models.PolicyMode{models.ModeBalanced, models.ModeStrict},
		TriggerHints: []string{"done", "complete", "fixed"},
	},
	{
		ID:           "hf-executing-plans",
		StrictIn:     []models.PolicyMode{models.ModeBalanced, models.ModeStrict},
		TriggerHints: []string{"implement", "execute", "plan"},
	},
	{
		ID:           "hf-requesting-code-review",
		StrictIn:     []models.PolicyMode{models.ModeBalanced, models.ModeStrict},
		TriggerHints: []string{"review", "quality", "complete"},
	},
	{
		ID:           "hf-receiving-code-review",
		StrictIn:     []models.PolicyMode{models.ModeBalanced, models.ModeStrict},
		TriggerHints: []string{"feedback", "review"},
	},
	{
		ID:           "hf-finishing-a-development-branch",
		StrictIn:     []models.PolicyMode{models.ModeStrict},
		TriggerHints: []string{"finish", "merge", "pr"},
	},
	{
		ID:           "hf-using-git-worktrees",
		StrictIn:     []models.PolicyMode{models.ModeStrict},
		TriggerHints: []string{"worktree", "isolate"},
	},
	{
		ID:           "hf-task-management",
		StrictIn:     []models.PolicyMode{models.ModeFast, models.ModeBalanced, models.ModeStrict},
		TriggerHints: []string{"task", "dependency", "subtask"},
	},
	{
		ID:           "hf-dispatching-parallel-agents",
		StrictIn:     []models.PolicyMode{models.ModeFast, models.ModeBalanced, models.ModeStrict},
		TriggerHints: []string{"parallel", "independent", "batch"},
	},
}

// List returns the skill catalog in declaration order.
func List() []Skill {
	out := make([]Skill, len(coreSkills))
	copy(out, coreSkills)
	return out
}

// Suggest returns the ids of skills whose trigger hints appear in the
// intent, in catalog order, without duplicates.
func Suggest(intent string) []string {
	lower := strings.ToLower(intent)
	var matched []string
	for _, skill := range coreSkills {
		for _, hint := range skill.TriggerHints {
			if strings.Contains(lower, hint) {
				matched = append(matched, skill.ID)
				break
			}
		}
	}
	return matched
}

// Enforced reports whether the skill is mandatory in the given mode.
func Enforced(skillID string, mode models.PolicyMode) bool {
	for _, skill := range coreSkills {
		if skill.ID != skillID {
			continue
		}
		for _, m := range skill.StrictIn {
			if m == mode {
				return true
			}
		}
		return false
	}
	return false
}

// RequiredForMode returns every skill enforced in the given mode.
func RequiredForMode(mode models.PolicyMode) []string {
	var required []string
	for _, skill := range coreSkills {
		for _, m := range skill.StrictIn {
			if m == mode {
				required = append(required, skill.ID)
				break
			}
		}
	}
	return required
}
