// Package router decides which subagent a task intent is delegated to.
//
// Routing is two-tier: a configured delegation profile for the task's
// category wins when its preferred subagent actually exists in the registry;
// otherwise an ordered keyword heuristic over the intent produces a role from
// the closed set. Both tiers are pure functions of their inputs.
package router

import (
	"strings"

	"github.com/conductkit/conduct/internal/registry"
	"github.com/conductkit/conduct/pkg/models"
)

// categoryHint pairs a category with the intent keywords that select it.
// Table order is the tie-break: the first category with a matching keyword
// wins, so broader buckets are listed before narrower ones.
type categoryHint struct {
	category models.DelegationCategory
	keywords []string
}

// categoryHints is the single source of truth for category inference.
var categoryHints = []categoryHint{
	{models.CategoryFeature, []string{"complex", "multi", "epic", "feature"}},
	{models.CategoryPlanning, []string{"plan", "break down"}},
	{models.CategoryContext, []string{"context", "find"}},
	{models.CategoryValidation, []string{"test", "validate"}},
	{models.CategoryReview, []string{"review", "quality"}},
	{models.CategoryBuild, []string{"build", "type"}},
	{models.CategoryDocs, []string{"docs", "library"}},
	{models.CategoryCompletion, []string{"finish", "pr", "merge"}},
}

// heuristicRoles maps each category to the role the keyword fallback assigns.
var heuristicRoles = map[models.DelegationCategory]string{
	models.CategoryFeature:        "TaskManager",
	models.CategoryPlanning:       "TaskPlanner",
	models.CategoryContext:        "ContextScout",
	models.CategoryValidation:     "Tester",
	models.CategoryReview:         "Reviewer",
	models.CategoryBuild:          "BuildValidator",
	models.CategoryDocs:           "ExternalDocsScout",
	models.CategoryCompletion:     "Reviewer",
	models.CategoryImplementation: "Coder",
}

// InferCategory scans the hint table against the lowercased intent and
// returns the first matching category, defaulting to implementation.
func InferCategory(intent string) models.DelegationCategory {
	lower := strings.ToLower(intent)
	for _, hint := range categoryHints {
		for _, kw := range hint.keywords {
			if strings.Contains(lower, kw) {
				return hint.category
			}
		}
	}
	return models.CategoryImplementation
}

// Route returns the heuristic role for an intent, ignoring profiles.
func Route(intent string) string {
	return heuristicRoles[InferCategory(intent)]
}

// RouteDetailed resolves an intent to a subagent. When category is empty it
// is inferred from the intent. A profile for the category is honored only if
// its preferred subagent is a registered role; otherwise the decision falls
// through to the keyword heuristic.
func RouteDetailed(intent string, category models.DelegationCategory, profiles models.DelegationProfiles) models.RouteDecision {
	if !category.Valid() {
		category = InferCategory(intent)
	}

	if profile, ok := profiles[category]; ok && registry.Has(profile.PreferredSubagent) {
		return models.RouteDecision{
			AssignedSubagent: profile.PreferredSubagent,
			Source:           models.RouteSourceProfile,
			MatchedCategory:  category,
		}
	}

	return models.RouteDecision{
		AssignedSubagent: heuristicRoles[category],
		Source:           models.RouteSourceHeuristic,
		MatchedCategory:  category,
	}
}
