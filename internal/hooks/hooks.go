// Package hooks post-processes delegation output through a fixed, ordered
// chain: a context-injection note, an output truncation guard, and a
// continuation reminder for resume flows. Each hook can be toggled and tuned
// from the policy's hook_runtime section.
package hooks

import (
	"fmt"
	"strings"

	"github.com/conductkit/conduct/internal/config"
)

// Stage names the flow a hook run is attached to.
type Stage string

const (
	// StageDelegation is the default stage for run output.
	StageDelegation Stage = "delegation"
	// StageResume is the stage for task-resume output.
	StageResume Stage = "resume"
)

// Hook ids, in chain order.
const (
	HookContextNote          = "context-injection-note"
	HookTruncationGuard      = "output-truncation-guard"
	HookContinuationReminder = "completion-continuation-reminder"
)

// chainOrder fixes hook execution order regardless of config map order.
var chainOrder = []string{HookContextNote, HookTruncationGuard, HookContinuationReminder}

// defaultMaxOutputChars bounds output when the guard has no configured limit.
const defaultMaxOutputChars = 8000

// truncationSuffix marks output cut by the guard.
const truncationSuffix = "... [truncated]"

// Input is one piece of output to post-process.
type Input struct {
	Stage  Stage
	Output string
	// Completed marks resume-stage output for an already finished feature,
	// which suppresses the continuation reminder.
	Completed bool
}

// Outcome is the processed output plus the notes the chain attached.
type Outcome struct {
	Output  string
	Notes   []string
	Applied []string
}

// Runner executes the hook chain under a runtime config.
type Runner struct {
	cfg config.HookRuntimeConfig
}

// NewRunner returns a runner for the given hook runtime config.
func NewRunner(cfg config.HookRuntimeConfig) *Runner {
	return &Runner{cfg: cfg}
}

// enabled reports whether a hook should run. Hooks default to on: an absent
// entry means enabled with default settings.
func (r *Runner) enabled(id string) (config.HookSettings, bool) {
	if !r.cfg.Enabled {
		return config.HookSettings{}, false
	}
	settings, ok := r.cfg.Hooks[id]
	if !ok {
		return config.HookSettings{Enabled: true}, true
	}
	return settings, settings.Enabled
}

// Run applies the chain in order and returns the outcome.
func (r *Runner) Run(in Input) Outcome {
	out := Outcome{Output: in.Output}
	for _, id := range chainOrder {
		settings, on := r.enabled(id)
		if !on {
			continue
		}
		switch id {
		case HookContextNote:
			note := settings.Note
			if note == "" {
				note = "Load the navigation context before acting on this output."
			}
			out.Notes = append(out.Notes, note)
			out.Applied = append(out.Applied, id)
		case HookTruncationGuard:
			limit := settings.MaxOutputChars
			if limit <= 0 {
				limit = defaultMaxOutputChars
			}
			if len(out.Output) > limit {
				out.Output = truncate(out.Output, limit)
				out.Notes = append(out.Notes, fmt.Sprintf("Output truncated to %d characters.", limit))
			}
			out.Applied = append(out.Applied, id)
		case HookContinuationReminder:
			if in.Stage != StageResume || in.Completed {
				continue
			}
			out.Notes = append(out.Notes, "Continue with the next ready subtask until the feature completes.")
			out.Applied = append(out.Applied, id)
		}
	}
	return out
}

// truncate cuts s to limit characters including the suffix, never splitting
// the suffix itself.
func truncate(s string, limit int) string {
	if limit <= len(truncationSuffix) {
		return truncationSuffix[:limit]
	}
	cut := limit - len(truncationSuffix)
	return strings.TrimRight(s[:cut], " \t\n") + truncationSuffix
}
