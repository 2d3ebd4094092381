// Package diagnostics runs the doctor checks: policy health, delegation
// profile wiring, and store file integrity.
package diagnostics

import (
	"fmt"

	"github.com/conductkit/conduct/internal/background"
	"github.com/conductkit/conduct/internal/config"
	"github.com/conductkit/conduct/internal/lifecycle"
	"github.com/conductkit/conduct/internal/registry"
	"github.com/conductkit/conduct/pkg/models"
)

// Level grades a finding.
type Level string

const (
	// LevelPass means the check found nothing wrong.
	LevelPass Level = "pass"
	// LevelWarn means the check found something suspicious but workable.
	LevelWarn Level = "warn"
	// LevelFail means the check found a real problem.
	LevelFail Level = "fail"
)

// Finding is one doctor check result.
type Finding struct {
	Check   string `json:"check"`
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Run executes every check for the given mode and returns the findings in
// check order. A nil policy (load failure) downgrades dependent checks to
// fail without panicking.
func Run(mode models.PolicyMode) []Finding {
	var findings []Finding

	policy, err := config.Load(mode)
	if err != nil {
		findings = append(findings, Finding{
			Check:   "policy",
			Level:   LevelFail,
			Message: fmt.Sprintf("policy for mode %s did not load: %v", mode, err),
		})
		return findings
	}
	findings = append(findings, Finding{
		Check:   "policy",
		Level:   LevelPass,
		Message: fmt.Sprintf("policy for mode %s loads and validates", mode),
	})

	findings = append(findings, checkProfiles(policy)...)
	findings = append(findings, checkConcurrency(policy))
	findings = append(findings, checkLifecycleStore(policy)...)
	findings = append(findings, checkBackgroundStore(policy))

	return findings
}

// checkProfiles verifies every delegation profile points at a registered
// subagent. An unknown preferred subagent is a warn, not a fail: routing
// falls back to the heuristic at runtime.
func checkProfiles(policy *config.Policy) []Finding {
	var findings []Finding
	bad := 0
	for category, profile := range policy.DelegationProfiles {
		if !registry.Has(profile.PreferredSubagent) {
			bad++
			findings = append(findings, Finding{
				Check:   "profiles",
				Level:   LevelWarn,
				Message: fmt.Sprintf("profile for %s prefers unknown subagent %q; heuristic routing will apply", category, profile.PreferredSubagent),
			})
		}
	}
	if bad == 0 {
		findings = append(findings, Finding{
			Check:   "profiles",
			Level:   LevelPass,
			Message: fmt.Sprintf("%d delegation profile(s) reference registered subagents", len(policy.DelegationProfiles)),
		})
	}
	return findings
}

func checkConcurrency(policy *config.Policy) Finding {
	c := policy.BackgroundTask.DefaultConcurrency
	if c > 8 {
		return Finding{
			Check:   "concurrency",
			Level:   LevelWarn,
			Message: fmt.Sprintf("background concurrency %d is unusually high", c),
		}
	}
	return Finding{
		Check:   "concurrency",
		Level:   LevelPass,
		Message: fmt.Sprintf("background concurrency %d within bounds", c),
	}
}

// checkLifecycleStore verifies the lifecycle store parses and flags dangling
// dependencies. A subtask depending on a sequence that does not exist can
// never start (the dependency check fails closed), so it is surfaced here.
func checkLifecycleStore(policy *config.Policy) []Finding {
	store := lifecycle.NewStore(policy.LifecycleStorePath)
	states, err := store.List()
	if err != nil {
		return []Finding{{
			Check:   "lifecycle-store",
			Level:   LevelFail,
			Message: fmt.Sprintf("lifecycle store %s did not load: %v", store.Path(), err),
		}}
	}

	findings := []Finding{{
		Check:   "lifecycle-store",
		Level:   LevelPass,
		Message: fmt.Sprintf("lifecycle store %s parses (%d feature(s))", store.Path(), len(states)),
	}}

	for _, state := range states {
		known := map[string]bool{}
		for _, st := range state.Subtasks {
			known[st.Seq] = true
		}
		for _, st := range state.Subtasks {
			for _, dep := range st.DependsOn {
				if !known[dep] {
					findings = append(findings, Finding{
						Check:   "lifecycle-store",
						Level:   LevelWarn,
						Message: fmt.Sprintf("feature %s subtask %s depends on missing seq %s and can never become ready", state.FeatureID, st.Seq, dep),
					})
				}
			}
		}
	}
	return findings
}

func checkBackgroundStore(policy *config.Policy) Finding {
	store := background.NewStore(policy.BackgroundStorePath)
	jobs, err := store.List()
	if err != nil {
		return Finding{
			Check:   "background-store",
			Level:   LevelFail,
			Message: fmt.Sprintf("background store %s did not load: %v", store.Path(), err),
		}
	}
	return Finding{
		Check:   "background-store",
		Level:   LevelPass,
		Message: fmt.Sprintf("background store %s parses (%d job(s))", store.Path(), len(jobs)),
	}
}

// Healthy reports whether no finding failed.
func Healthy(findings []Finding) bool {
	for _, f := range findings {
		if f.Level == LevelFail {
			return false
		}
	}
	return true
}
