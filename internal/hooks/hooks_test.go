package hooks

import (
	"strings"
	"testing"

	"github.com/conductkit/conduct/internal/config"
)

func enabledRuntime() config.HookRuntimeConfig {
	return config.HookRuntimeConfig{Enabled: true}
}

func TestRunDefaultChain(t *testing.T) {
	runner := NewRunner(enabledRuntime())

	out := runner.Run(Input{Stage: StageDelegation, Output: "short output"})

	if out.Output != "short output" {
		t.Errorf("Output = %q, want unchanged", out.Output)
	}
	if len(out.Notes) != 1 {
		t.Fatalf("Notes = %v, want just the context note", out.Notes)
	}
	// Delegation stage never gets the continuation reminder.
	for _, id := range out.Applied {
		if id == HookContinuationReminder {
			t.Error("continuation reminder applied outside resume stage")
		}
	}
}

func TestTruncationGuard(t *testing.T) {
	runner := NewRunner(config.HookRuntimeConfig{
		Enabled: true,
		Hooks: map[string]config.HookSettings{
			HookTruncationGuard: {Enabled: true, MaxOutputChars: 40},
		},
	})

	long := strings.Repeat("x", 100)
	out := runner.Run(Input{Stage: StageDelegation, Output: long})

	if len(out.Output) > 40 {
		t.Errorf("truncated output length = %d, want <= 40", len(out.Output))
	}
	if !strings.HasSuffix(out.Output, truncationSuffix) {
		t.Errorf("Output = %q, want %q suffix", out.Output, truncationSuffix)
	}
	found := false
	for _, note := range out.Notes {
		if note == "Output truncated to 40 characters." {
			found = true
		}
	}
	if !found {
		t.Errorf("Notes = %v, want truncation note", out.Notes)
	}
}

func TestTruncationGuardLeavesShortOutput(t *testing.T) {
	runner := NewRunner(enabledRuntime())
	out := runner.Run(Input{Stage: StageDelegation, Output: "tiny"})
	if out.Output != "tiny" {
		t.Errorf("Output = %q, want untouched", out.Output)
	}
}

func TestContinuationReminder(t *testing.T) {
	runner := NewRunner(enabledRuntime())

	t.Run("resume stage gets the reminder", func(t *testing.T) {
		out := runner.Run(Input{Stage: StageResume, Output: "resume info"})
		found := false
		for _, id := range out.Applied {
			if id == HookContinuationReminder {
				found = true
			}
		}
		if !found {
			t.Errorf("Applied = %v, want continuation reminder", out.Applied)
		}
	})

	t.Run("completed feature suppresses it", func(t *testing.T) {
		out := runner.Run(Input{Stage: StageResume, Output: "resume info", Completed: true})
		for _, id := range out.Applied {
			if id == HookContinuationReminder {
				t.Error("reminder applied to a completed feature")
			}
		}
	})
}

func TestDisabledRuntime(t *testing.T) {
	runner := NewRunner(config.HookRuntimeConfig{Enabled: false})
	out := runner.Run(Input{Stage: StageResume, Output: strings.Repeat("x", 100000)})
	if out.Output != strings.Repeat("x", 100000) {
		t.Error("disabled runtime modified output")
	}
	if len(out.Notes) != 0 || len(out.Applied) != 0 {
		t.Errorf("disabled runtime produced notes %v applied %v", out.Notes, out.Applied)
	}
}

func TestSingleHookDisabled(t *testing.T) {
	runner := NewRunner(config.HookRuntimeConfig{
		Enabled: true,
		Hooks: map[string]config.HookSettings{
			HookContextNote: {Enabled: false},
		},
	})
	out := runner.Run(Input{Stage: StageDelegation, Output: "text"})
	for _, id := range out.Applied {
		if id == HookContextNote {
			t.Error("disabled hook was applied")
		}
	}
}
