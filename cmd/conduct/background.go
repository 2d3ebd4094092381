package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/conductkit/conduct/internal/background"
	"github.com/conductkit/conduct/internal/config"
	"github.com/conductkit/conduct/internal/lifecycle"
	"github.com/conductkit/conduct/pkg/models"
)

var enqueueKind string
var enqueueIntent string
var enqueueTaskID string
var enqueueProvider string
var enqueueQuery string
var enqueueFeature string
var dispatchWatch bool
var statusJobID string

func openBackgroundStore() (*background.Store, *config.Policy, error) {
	policy, err := loadPolicy()
	if err != nil {
		return nil, nil, err
	}
	return background.NewStore(policy.BackgroundStorePath), policy, nil
}

var backgroundEnqueueCmd = &cobra.Command{
	Use:   "background-enqueue",
	Short: "Queue a deferred job",
	Long: `Queue a background job for later dispatch. Two kinds are supported:

  run-task    a full delegation for --intent
  mcp-search  a research search for --query against --provider,
              optionally recorded on --feature's research log`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openBackgroundStore()
		if err != nil {
			return err
		}

		payload := background.Payload{Kind: background.JobKind(enqueueKind)}
		switch payload.Kind {
		case background.KindRunTask:
			taskID := enqueueTaskID
			if taskID == "" {
				taskID = "task-" + uuid.New().String()[:8]
			}
			payload.Task = &models.Task{
				ID:        taskID,
				Intent:    strings.TrimSpace(enqueueIntent),
				RiskLevel: models.RiskMedium,
			}
		case background.KindSearch:
			payload.Provider = enqueueProvider
			payload.Query = enqueueQuery
			payload.FeatureID = enqueueFeature
		}

		job, err := store.Enqueue(payload)
		if err != nil {
			return err
		}
		fmt.Printf("Queued %s job %s.\n", job.Payload.Kind, job.ID)
		return nil
	},
}

var backgroundDispatchCmd = &cobra.Command{
	Use:   "background-dispatch",
	Short: "Execute queued jobs under the concurrency limit",
	Long: `Run one dispatch pass over the job queue: reclaim stale running jobs,
then execute queued jobs oldest-first up to the policy's concurrency limit.
With --watch the command keeps running and re-dispatches whenever the job
store changes, until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, policy, err := openBackgroundStore()
		if err != nil {
			return err
		}

		lc := lifecycle.NewStore(policy.LifecycleStorePath)
		exec := background.NewExecutor(store, lc, policy)
		dispatcher := background.NewDispatcher(exec)

		if dispatchWatch {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			err := dispatcher.Watch(ctx)
			if ctx.Err() != nil {
				// Interrupt is a normal shutdown, not a failure.
				return nil
			}
			return err
		}

		n, err := dispatcher.DispatchOnce(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Dispatched %d job(s).\n", n)
		return nil
	},
}

var backgroundStatusCmd = &cobra.Command{
	Use:   "background-status",
	Short: "Show queued and finished background jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openBackgroundStore()
		if err != nil {
			return err
		}

		if statusJobID != "" {
			job, err := store.Get(statusJobID)
			if err != nil {
				return err
			}
			return printJSON(job)
		}

		jobs, err := store.List()
		if err != nil {
			return err
		}
		if len(jobs) == 0 {
			fmt.Println("No background jobs. Run 'conduct background-enqueue' to add one.")
			return nil
		}
		for _, job := range jobs {
			line := fmt.Sprintf("%s: %s %s", job.ID, job.Payload.Kind, job.Status)
			if job.Error != "" {
				line += " (" + job.Error + ")"
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	backgroundEnqueueCmd.Flags().StringVar(&enqueueKind, "kind", string(background.KindRunTask), "Job kind: run-task or mcp-search")
	backgroundEnqueueCmd.Flags().StringVar(&enqueueIntent, "intent", "", "Task intent for run-task jobs")
	backgroundEnqueueCmd.Flags().StringVar(&enqueueTaskID, "task-id", "", "Explicit task id for run-task jobs")
	backgroundEnqueueCmd.Flags().StringVar(&enqueueProvider, "provider", "", "Search provider for mcp-search jobs: tavily or gh-grep")
	backgroundEnqueueCmd.Flags().StringVar(&enqueueQuery, "query", "", "Search query for mcp-search jobs")
	backgroundEnqueueCmd.Flags().StringVar(&enqueueFeature, "feature", "", "Feature id to record mcp-search results on")
	backgroundDispatchCmd.Flags().BoolVar(&dispatchWatch, "watch", false, "Keep dispatching as the job store changes")
	backgroundStatusCmd.Flags().StringVar(&statusJobID, "job", "", "Show one job as JSON instead of the summary list")
}
