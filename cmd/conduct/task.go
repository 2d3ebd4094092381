package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/conductkit/conduct/internal/bundle"
	"github.com/conductkit/conduct/internal/hooks"
	"github.com/conductkit/conduct/internal/lifecycle"
	"github.com/conductkit/conduct/pkg/models"
)

var bundleSave bool
var bundleTaskID string
var blockReason string
var resumeMarkInProgress bool

func openLifecycleStore() (*lifecycle.Store, error) {
	policy, err := loadPolicy()
	if err != nil {
		return nil, err
	}
	return lifecycle.NewStore(policy.LifecycleStorePath), nil
}

func printJSON(v any) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	fmt.Println(string(encoded))
	return nil
}

var taskBundleCmd = &cobra.Command{
	Use:   "task-bundle <intent>",
	Short: "Build a task bundle from an intent",
	Long: `Decompose an intent into an ordered, dependency-linked task bundle
using the bootstrap template. The bundle is printed as JSON; with --save it
is also upserted into the lifecycle store, preserving any persisted subtask
progress for the same feature.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		intent := strings.Join(args, " ")
		taskID := bundleTaskID
		if taskID == "" {
			taskID = "task-" + uuid.New().String()[:8]
		}

		task := models.Task{ID: taskID, Intent: intent, RiskLevel: models.RiskMedium}
		b := bundle.Create(task, nil)

		if bundleSave {
			store, err := openLifecycleStore()
			if err != nil {
				return err
			}
			if _, err := store.Upsert(b); err != nil {
				return err
			}
		}
		return printJSON(b)
	},
}

var taskStatusCmd = &cobra.Command{
	Use:   "task-status [feature-id]",
	Short: "Show lifecycle state for one feature, or a summary of all",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openLifecycleStore()
		if err != nil {
			return err
		}

		if len(args) == 1 {
			state, err := store.Get(args[0])
			if err != nil {
				return err
			}
			return printJSON(state)
		}

		states, err := store.List()
		if err != nil {
			return err
		}
		if len(states) == 0 {
			fmt.Println("No tracked features. Run 'conduct task-bundle --save <intent>' to start.")
			return nil
		}
		for _, state := range states {
			done := 0
			for _, st := range state.Subtasks {
				if st.Status == models.SubtaskCompleted {
					done++
				}
			}
			fmt.Printf("%s: %s (%d/%d subtasks complete)\n",
				state.FeatureID, state.Status, done, len(state.Subtasks))
		}
		return nil
	},
}

var taskResumeCmd = &cobra.Command{
	Use:   "task-resume <feature-id>",
	Short: "Show where to pick up work on a feature",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		policy, err := loadPolicy()
		if err != nil {
			return err
		}
		store := lifecycle.NewStore(policy.LifecycleStorePath)

		resume, err := store.BuildResume(args[0])
		if err != nil {
			return err
		}

		if resumeMarkInProgress && resume.NextSubtask != nil {
			if _, err := store.SetSubtaskStatus(args[0], resume.NextSubtask.Seq, models.SubtaskInProgress, ""); err != nil {
				return err
			}
		}

		encoded, err := json.MarshalIndent(resume, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding resume: %w", err)
		}

		outcome := hooks.NewRunner(policy.HookRuntime).Run(hooks.Input{
			Stage:     hooks.StageResume,
			Output:    string(encoded),
			Completed: resume.Status == lifecycle.FeatureCompleted,
		})
		fmt.Println(outcome.Output)
		for _, note := range outcome.Notes {
			fmt.Printf("note: %s\n", note)
		}
		return nil
	},
}

var taskNextCmd = &cobra.Command{
	Use:   "task-next <feature-id>",
	Short: "Show the next actionable subtask of a feature",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openLifecycleStore()
		if err != nil {
			return err
		}
		next, err := store.NextReadySubtask(args[0])
		if err != nil {
			return err
		}
		if next == nil {
			fmt.Println("No ready subtask found.")
			return nil
		}
		fmt.Printf("%s: %s (suggested agent: %s)\n", next.Seq, next.Title, next.SuggestedAgent)
		return nil
	},
}

var taskBlockedCmd = &cobra.Command{
	Use:   "task-blocked <feature-id>",
	Short: "List blocked subtasks of a feature with their reasons",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openLifecycleStore()
		if err != nil {
			return err
		}
		blocked, err := store.ListBlocked(args[0])
		if err != nil {
			return err
		}
		if len(blocked) == 0 {
			fmt.Println("No blocked subtasks.")
			return nil
		}
		for _, b := range blocked {
			fmt.Printf("%s: %s\n  reason: %s\n", b.Subtask.Seq, b.Subtask.Title, b.Reason)
		}
		return nil
	},
}

var taskCompleteCmd = &cobra.Command{
	Use:   "task-complete <feature-id> <seq>",
	Short: "Mark a subtask completed",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openLifecycleStore()
		if err != nil {
			return err
		}
		state, err := store.SetSubtaskStatus(args[0], args[1], models.SubtaskCompleted, "")
		if err != nil {
			return err
		}
		fmt.Printf("Subtask %s completed. Feature %s is %s.\n", args[1], args[0], state.Status)
		return nil
	},
}

var taskBlockCmd = &cobra.Command{
	Use:   "task-block <feature-id> <seq>",
	Short: "Mark a subtask blocked with a reason",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openLifecycleStore()
		if err != nil {
			return err
		}
		state, err := store.SetSubtaskStatus(args[0], args[1], models.SubtaskBlocked, blockReason)
		if err != nil {
			return err
		}
		fmt.Printf("Subtask %s blocked. Feature %s is %s.\n", args[1], args[0], state.Status)
		return nil
	},
}

func init() {
	taskBundleCmd.Flags().BoolVar(&bundleSave, "save", false, "Upsert the bundle into the lifecycle store")
	taskBundleCmd.Flags().StringVar(&bundleTaskID, "task-id", "", "Explicit task id (defaults to a generated one)")
	taskResumeCmd.Flags().BoolVar(&resumeMarkInProgress, "mark-in-progress", false, "Mark the resumed subtask in_progress")
	taskBlockCmd.Flags().StringVar(&blockReason, "reason", "", "Why the subtask is blocked (required)")
}
