package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conductkit/conduct/internal/config"
	"github.com/conductkit/conduct/pkg/models"
)

var flagMode string
var flagPolicyFile string

var rootCmd = &cobra.Command{
	Use:   "conduct",
	Short: "Task delegation orchestrator",
	Long: `Conduct routes natural-language task intents to specialized subagents,
decomposes features into dependency-linked subtasks, and tracks their
lifecycle across sessions.

Core capabilities:
- Routes intents to subagents via delegation profiles and keyword heuristics
- Builds ordered, dependency-aware task bundles from intents and plans
- Persists subtask status with validated, dependency-gated transitions
- Runs deferred delegations and research searches through a background queue`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadPolicy resolves the active policy: an explicit file wins over the
// mode's conventional path.
func loadPolicy() (*config.Policy, error) {
	if flagPolicyFile != "" {
		return config.LoadFromPath(flagPolicyFile)
	}
	return config.Load(models.PolicyMode(flagMode))
}

// printStatus prints a status line with color
func printStatus(symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Printf("%s %s\n", c.Sprint(symbol), message)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagMode, "mode", "balanced", "Policy mode: fast, balanced, or strict")
	rootCmd.PersistentFlags().StringVar(&flagPolicyFile, "policy", "", "Explicit policy file path (overrides --mode lookup)")

	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(skillsCmd)
	rootCmd.AddCommand(policyCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(taskBundleCmd)
	rootCmd.AddCommand(taskStatusCmd)
	rootCmd.AddCommand(taskResumeCmd)
	rootCmd.AddCommand(taskNextCmd)
	rootCmd.AddCommand(taskBlockedCmd)
	rootCmd.AddCommand(taskCompleteCmd)
	rootCmd.AddCommand(taskBlockCmd)
	rootCmd.AddCommand(backgroundEnqueueCmd)
	rootCmd.AddCommand(backgroundDispatchCmd)
	rootCmd.AddCommand(backgroundStatusCmd)
	rootCmd.AddCommand(versionCmd)
}
