package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conductkit/conduct/internal/registry"
	"github.com/conductkit/conduct/internal/skills"
	"github.com/conductkit/conduct/pkg/models"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List the registered subagent roles",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, agent := range registry.List() {
			fmt.Printf("%s: %s\n", agent.ID, agent.Specialization)
			fmt.Printf("  in: %s  out: %s\n", agent.InputContract, agent.OutputContract)
		}
		return nil
	},
}

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "List the skill catalog and which modes enforce each skill",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, skill := range skills.List() {
			strict := make([]string, 0, len(skill.StrictIn))
			for _, m := range skill.StrictIn {
				strict = append(strict, string(m))
			}
			enforced := "suggested only"
			if len(strict) > 0 {
				enforced = "enforced in " + strings.Join(strict, ", ")
			}
			fmt.Printf("%s (%s)\n", skill.ID, enforced)
			if len(skill.TriggerHints) > 0 {
				fmt.Printf("  triggers: %s\n", strings.Join(skill.TriggerHints, ", "))
			}
		}
		return nil
	},
}

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Show the resolved policy for the active mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		policy, err := loadPolicy()
		if err != nil {
			return err
		}

		fmt.Printf("mode: %s\n", policy.Mode)
		fmt.Printf("use_worktrees_by_default: %t\n", policy.UseWorktreesByDefault)
		fmt.Printf("manage_git_by_default: %t\n", policy.ManageGitByDefault)
		fmt.Printf("require_tests: %t\n", policy.RequireTests)
		fmt.Printf("require_approval_gates: %t\n", policy.RequireApprovalGates)
		fmt.Printf("require_verification: %t\n", policy.RequireVerification)
		fmt.Printf("require_code_review: %t\n", policy.RequireCodeReview)
		fmt.Printf("enable_task_artifacts: %t\n", policy.EnableTaskArtifacts)
		fmt.Printf("background_task: concurrency=%d stale_timeout=%s\n",
			policy.BackgroundTask.DefaultConcurrency,
			policy.BackgroundTask.StaleTimeout())
		fmt.Printf("lifecycle_store: %s\n", policy.LifecycleStorePath)
		fmt.Printf("background_store: %s\n", policy.BackgroundStorePath)

		if len(policy.DelegationProfiles) == 0 {
			fmt.Println("delegation_profiles: none (heuristic routing)")
			return nil
		}
		fmt.Println("delegation_profiles:")
		for _, category := range orderedCategories(policy.DelegationProfiles) {
			profile := policy.DelegationProfiles[category]
			fmt.Printf("  %s -> %s\n", category, profile.PreferredSubagent)
		}
		return nil
	},
}

// orderedCategories returns profile categories in a stable order for output.
func orderedCategories(profiles models.DelegationProfiles) []models.DelegationCategory {
	order := []models.DelegationCategory{
		models.CategoryFeature,
		models.CategoryPlanning,
		models.CategoryContext,
		models.CategoryValidation,
		models.CategoryReview,
		models.CategoryBuild,
		models.CategoryDocs,
		models.CategoryCompletion,
		models.CategoryImplementation,
	}
	var out []models.DelegationCategory
	for _, c := range order {
		if _, ok := profiles[c]; ok {
			out = append(out, c)
		}
	}
	return out
}
