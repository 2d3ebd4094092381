// Package registry holds the closed set of subagent roles tasks can be
// delegated to. Profile overrides are validated against this set before the
// router trusts them, so a typo in configuration degrades to the heuristic
// instead of assigning work to a role that does not exist.
package registry

import "github.com/conductkit/conduct/pkg/models"

// coreSubagents is the authoritative role registry. Order is presentation
// order for the agents command.
var coreSubagents = []models.Subagent{
	{
		ID:             "TaskManager",
		Specialization: "Creates dependency-aware task artifacts for complex features",
		InputContract:  "Task",
		OutputContract: "TaskBundle",
	},
	{
		ID:             "TaskPlanner",
		Specialization: "Breaks goals into executable steps",
		InputContract:  "Task",
		OutputContract: "ExecutionPlan",
	},
	{
		ID:             "ContextScout",
		Specialization: "Finds relevant context and constraints",
		InputContract:  "Task",
		OutputContract: "ContextBundle",
	},
	{
		ID:             "Coder",
		Specialization: "Implements code changes",
		InputContract:  "ExecutionPlan",
		OutputContract: "CodePatch",
	},
	{
		ID:             "Tester",
		Specialization: "Designs and runs validations",
		InputContract:  "CodePatch",
		OutputContract: "ValidationReport",
	},
	{
		ID:             "Reviewer",
		Specialization: "Reviews quality and requirement fit",
		InputContract:  "CodePatch",
		OutputContract: "ReviewReport",
	},
	{
		ID:             "BuildValidator",
		Specialization: "Runs build/type checks",
		InputContract:  "CodePatch",
		OutputContract: "BuildReport",
	},
	{
		ID:             "ExternalDocsScout",
		Specialization: "Fetches external library docs",
		InputContract:  "LibraryQuery",
		OutputContract: "DocsBundle",
	},
}

// List returns the registered subagents in presentation order.
func List() []models.Subagent {
	out := make([]models.Subagent, len(coreSubagents))
	copy(out, coreSubagents)
	return out
}

// Has reports whether id names a registered subagent.
func Has(id string) bool {
	for _, s := range coreSubagents {
		if s.ID == id {
			return true
		}
	}
	return false
}
