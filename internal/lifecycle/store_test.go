package lifecycle

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/conductkit/conduct/internal/bundle"
	"github.com/conductkit/conduct/pkg/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "task-lifecycle.json"))
}

func seedFeature(t *testing.T, store *Store, intent string) *State {
	t.Helper()
	task := models.Task{ID: "task-1", Intent: intent, RiskLevel: models.RiskMedium}
	state, err := store.Upsert(bundle.Create(task, nil))
	if err != nil {
		t.Fatalf("seed upsert: %v", err)
	}
	return state
}

func TestUpsertAndGet(t *testing.T) {
	store := testStore(t)
	state := seedFeature(t, store, "Implement feature flags")

	if state.FeatureID != "implement-feature-flags" {
		t.Fatalf("FeatureID = %q", state.FeatureID)
	}
	if state.Status != FeatureActive {
		t.Errorf("Status = %q, want active", state.Status)
	}
	if len(state.Subtasks) != 3 {
		t.Errorf("expected 3 subtasks, got %d", len(state.Subtasks))
	}
	if state.ResearchLog == nil {
		t.Error("ResearchLog should be materialized as an empty slice")
	}

	got, err := store.Get(state.FeatureID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.FeatureID != state.FeatureID {
		t.Errorf("Get returned %q", got.FeatureID)
	}

	if _, err := store.Get("no-such-feature"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get unknown = %v, want ErrNotFound", err)
	}
}

func TestUpsertMergePreservesProgress(t *testing.T) {
	store := testStore(t)
	state := seedFeature(t, store, "Implement feature flags")

	if _, err := store.SetSubtaskStatus(state.FeatureID, "01", models.SubtaskCompleted, ""); err != nil {
		t.Fatalf("complete 01: %v", err)
	}

	// Regenerate the same bundle; completed progress must survive.
	task := models.Task{ID: "task-1", Intent: "Implement feature flags"}
	merged, err := store.Upsert(bundle.Create(task, nil))
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if merged.Subtasks[0].Status != models.SubtaskCompleted {
		t.Errorf("seq 01 status after merge = %q, want completed", merged.Subtasks[0].Status)
	}
	if merged.Status != FeatureActive {
		t.Errorf("aggregate status = %q, want active", merged.Status)
	}
}

func TestSetSubtaskStatusTransitions(t *testing.T) {
	store := testStore(t)
	state := seedFeature(t, store, "Implement feature flags")
	id := state.FeatureID

	t.Run("dependency gate fails closed", func(t *testing.T) {
		_, err := store.SetSubtaskStatus(id, "02", models.SubtaskInProgress, "")
		if !errors.Is(err, ErrDependencyUnresolved) {
			t.Errorf("err = %v, want ErrDependencyUnresolved", err)
		}
	})

	t.Run("blocked requires a reason", func(t *testing.T) {
		_, err := store.SetSubtaskStatus(id, "02", models.SubtaskBlocked, "  ")
		if !errors.Is(err, ErrMissingBlockedReason) {
			t.Errorf("err = %v, want ErrMissingBlockedReason", err)
		}
	})

	t.Run("blocked with reason flips the aggregate", func(t *testing.T) {
		updated, err := store.SetSubtaskStatus(id, "02", models.SubtaskBlocked, "waiting on design")
		if err != nil {
			t.Fatalf("block: %v", err)
		}
		if updated.Status != FeatureBlocked {
			t.Errorf("aggregate = %q, want blocked", updated.Status)
		}
	})

	t.Run("unblocking clears the reason", func(t *testing.T) {
		updated, err := store.SetSubtaskStatus(id, "02", models.SubtaskPending, "")
		if err != nil {
			t.Fatalf("unblock: %v", err)
		}
		if updated.Subtasks[1].BlockedReason != "" {
			t.Errorf("BlockedReason = %q, want cleared", updated.Subtasks[1].BlockedReason)
		}
		if updated.Status != FeatureActive {
			t.Errorf("aggregate = %q, want active", updated.Status)
		}
	})

	t.Run("chain completes to a completed feature", func(t *testing.T) {
		for _, seq := range []string{"01", "02", "03"} {
			if _, err := store.SetSubtaskStatus(id, seq, models.SubtaskCompleted, ""); err != nil {
				t.Fatalf("complete %s: %v", seq, err)
			}
		}
		updated, err := store.Get(id)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if updated.Status != FeatureCompleted {
			t.Errorf("aggregate = %q, want completed", updated.Status)
		}
	})

	t.Run("completed is terminal", func(t *testing.T) {
		_, err := store.SetSubtaskStatus(id, "01", models.SubtaskPending, "")
		if !errors.Is(err, ErrTerminalSubtask) {
			t.Errorf("err = %v, want ErrTerminalSubtask", err)
		}
	})

	t.Run("unknown subtask", func(t *testing.T) {
		_, err := store.SetSubtaskStatus(id, "42", models.SubtaskPending, "")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestBuildResume(t *testing.T) {
	store := testStore(t)
	state := seedFeature(t, store, "Implement feature flags")
	id := state.FeatureID

	t.Run("fresh feature resumes at the first subtask", func(t *testing.T) {
		resume, err := store.BuildResume(id)
		if err != nil {
			t.Fatalf("BuildResume: %v", err)
		}
		if resume.NextSubtask == nil || resume.NextSubtask.Seq != "01" {
			t.Fatalf("NextSubtask = %+v, want seq 01", resume.NextSubtask)
		}
		want := "Resume at 01: Clarify scope and constraints"
		if resume.Message != want {
			t.Errorf("Message = %q, want %q", resume.Message, want)
		}
	})

	t.Run("dependency-gated subtask is skipped", func(t *testing.T) {
		if _, err := store.SetSubtaskStatus(id, "01", models.SubtaskBlocked, "unclear scope"); err != nil {
			t.Fatalf("block 01: %v", err)
		}
		resume, err := store.BuildResume(id)
		if err != nil {
			t.Fatalf("BuildResume: %v", err)
		}
		if resume.NextSubtask != nil {
			t.Errorf("NextSubtask = %+v, want none while 02 waits on blocked 01", resume.NextSubtask)
		}
		if resume.Message != "Resolve blocked subtasks before continuing." {
			t.Errorf("Message = %q", resume.Message)
		}
		if len(resume.BlockedSubtasks) != 1 {
			t.Errorf("BlockedSubtasks = %d, want 1", len(resume.BlockedSubtasks))
		}
	})

	t.Run("completed feature", func(t *testing.T) {
		if _, err := store.SetSubtaskStatus(id, "01", models.SubtaskPending, ""); err != nil {
			t.Fatalf("unblock: %v", err)
		}
		for _, seq := range []string{"01", "02", "03"} {
			if _, err := store.SetSubtaskStatus(id, seq, models.SubtaskCompleted, ""); err != nil {
				t.Fatalf("complete %s: %v", seq, err)
			}
		}
		resume, err := store.BuildResume(id)
		if err != nil {
			t.Fatalf("BuildResume: %v", err)
		}
		if resume.Message != "All subtasks are complete." {
			t.Errorf("Message = %q", resume.Message)
		}
		if resume.NextSubtask != nil {
			t.Errorf("NextSubtask = %+v, want none", resume.NextSubtask)
		}
	})
}

func TestListBlocked(t *testing.T) {
	store := testStore(t)
	state := seedFeature(t, store, "Implement feature flags")

	blocked, err := store.ListBlocked(state.FeatureID)
	if err != nil {
		t.Fatalf("ListBlocked: %v", err)
	}
	if len(blocked) != 0 {
		t.Errorf("fresh feature blocked = %d, want 0", len(blocked))
	}

	if _, err := store.SetSubtaskStatus(state.FeatureID, "01", models.SubtaskBlocked, "waiting on design"); err != nil {
		t.Fatalf("block: %v", err)
	}
	blocked, err = store.ListBlocked(state.FeatureID)
	if err != nil {
		t.Fatalf("ListBlocked: %v", err)
	}
	if len(blocked) != 1 || blocked[0].Reason != "waiting on design" {
		t.Errorf("blocked = %+v", blocked)
	}

	// Unknown features yield an empty view, not an error.
	none, err := store.ListBlocked("no-such-feature")
	if err != nil {
		t.Fatalf("ListBlocked unknown: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("unknown feature blocked = %d, want 0", len(none))
	}
}

func TestAddResearchEntry(t *testing.T) {
	store := testStore(t)
	state := seedFeature(t, store, "Implement feature flags")

	updated, err := store.AddResearchEntry(state.FeatureID, ResearchEntry{
		Provider: "tavily",
		Query:    "feature flag rollout strategies",
		Summary:  "Collected 3 tavily research candidates for 'feature flag rollout strategies'.",
		Links:    []string{"https://example.com/a"},
	})
	if err != nil {
		t.Fatalf("AddResearchEntry: %v", err)
	}
	if len(updated.ResearchLog) != 1 {
		t.Fatalf("ResearchLog = %d entries, want 1", len(updated.ResearchLog))
	}
	entry := updated.ResearchLog[0]
	if entry.ID == "" || entry.CreatedAt.IsZero() {
		t.Errorf("entry id/timestamp not filled in: %+v", entry)
	}

	if _, err := store.AddResearchEntry("no-such-feature", ResearchEntry{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown feature err = %v, want ErrNotFound", err)
	}
}
