package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/conductkit/conduct/internal/hooks"
	"github.com/conductkit/conduct/internal/orchestrator"
	"github.com/conductkit/conduct/pkg/models"
)

var runCategory string
var runRisk string
var runTaskID string

var runCmd = &cobra.Command{
	Use:   "run <intent>",
	Short: "Delegate a task intent to a subagent",
	Long: `Run a full delegation for a task intent: route it to a subagent,
resolve suggested and enforced skills, and for coding work execute the
staged plan, patch, review pipeline. The delegation result is printed as
JSON after passing through the output hook chain.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	policy, err := loadPolicy()
	if err != nil {
		return err
	}

	intent := strings.Join(args, " ")
	taskID := runTaskID
	if taskID == "" {
		taskID = "task-" + uuid.New().String()[:8]
	}
	risk := models.RiskLevel(runRisk)
	if !risk.Valid() {
		return fmt.Errorf("unknown risk level %q", runRisk)
	}
	if runCategory != "" && !models.DelegationCategory(runCategory).Valid() {
		return fmt.Errorf("unknown category %q", runCategory)
	}

	task := models.Task{
		ID:        taskID,
		Intent:    intent,
		Category:  models.DelegationCategory(runCategory),
		RiskLevel: risk,
	}

	result, err := orchestrator.RunTask(cmd.Context(), task, policy)
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	outcome := hooks.NewRunner(policy.HookRuntime).Run(hooks.Input{
		Stage:  hooks.StageDelegation,
		Output: string(encoded),
	})
	fmt.Println(outcome.Output)
	for _, note := range outcome.Notes {
		fmt.Printf("note: %s\n", note)
	}
	return nil
}

func init() {
	runCmd.Flags().StringVar(&runCategory, "category", "", "Pin the delegation category instead of inferring it")
	runCmd.Flags().StringVar(&runRisk, "risk", string(models.RiskMedium), "Task risk level: low, medium, or high")
	runCmd.Flags().StringVar(&runTaskID, "task-id", "", "Explicit task id (defaults to a generated one)")
}
