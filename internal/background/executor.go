package background

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/conductkit/conduct/internal/config"
	"github.com/conductkit/conduct/internal/lifecycle"
	"github.com/conductkit/conduct/internal/orchestrator"
	"github.com/conductkit/conduct/internal/search"
)

// Executor runs individual jobs against the rest of the system.
type Executor struct {
	store     *Store
	lifecycle *lifecycle.Store
	policy    *config.Policy
	adapters  map[string]search.Adapter
}

// NewExecutor wires an executor over the job store, lifecycle store, and
// policy. Search adapters are built from the policy's provider settings.
func NewExecutor(store *Store, lc *lifecycle.Store, policy *config.Policy) *Executor {
	return &Executor{
		store:     store,
		lifecycle: lc,
		policy:    policy,
		adapters: map[string]search.Adapter{
			"tavily":  search.NewTavilyAdapter(policy.Search.Tavily),
			"gh-grep": search.NewGhGrepAdapter(policy.Search.GhGrep),
		},
	}
}

// Execute runs one queued job to a terminal state. The job is marked running
// before work starts so a crash mid-job leaves it reclaimable by the stale
// sweep. The returned job reflects the terminal state; the error reports
// store-level failures only, a failed job is not an error here.
func (e *Executor) Execute(ctx context.Context, jobID string) (*Job, error) {
	job, err := e.store.start(jobID)
	if err != nil {
		return nil, err
	}

	result, runErr := e.run(ctx, job)
	if runErr != nil {
		return e.store.fail(job.ID, runErr.Error())
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		return e.store.fail(job.ID, fmt.Sprintf("encoding result: %v", err))
	}
	return e.store.complete(job.ID, encoded)
}

func (e *Executor) run(ctx context.Context, job *Job) (any, error) {
	switch job.Payload.Kind {
	case KindRunTask:
		return orchestrator.RunTask(ctx, *job.Payload.Task, e.policy)
	case KindSearch:
		return e.runSearch(ctx, job)
	default:
		// Enqueue validation should make this unreachable.
		return nil, fmt.Errorf("unknown job kind %q", job.Payload.Kind)
	}
}

// runSearch queries the provider and, when the job names a feature, records
// the outcome in that feature's research log. A failed log write fails the
// job: a research job that cannot record its findings did not do its work.
func (e *Executor) runSearch(ctx context.Context, job *Job) (any, error) {
	adapter, ok := e.adapters[job.Payload.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown search provider %q", job.Payload.Provider)
	}

	result, err := adapter.Search(ctx, job.Payload.Query)
	if err != nil {
		return nil, err
	}

	if job.Payload.FeatureID != "" {
		links := make([]string, 0, len(result.Items))
		for _, item := range result.Items {
			links = append(links, item.Locator)
		}
		entry := lifecycle.ResearchEntry{
			Provider: result.Provider,
			Query:    result.Query,
			Summary:  result.Summary,
			Links:    links,
		}
		if _, err := e.lifecycle.AddResearchEntry(job.Payload.FeatureID, entry); err != nil {
			return nil, fmt.Errorf("recording research for %s: %w", job.Payload.FeatureID, err)
		}
	}

	return result, nil
}
