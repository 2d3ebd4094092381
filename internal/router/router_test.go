package router

import (
	"testing"

	"github.com/conductkit/conduct/pkg/models"
)

func TestInferCategory(t *testing.T) {
	tests := []struct {
		name     string
		intent   string
		expected models.DelegationCategory
	}{
		{
			name:     "feature keywords win first",
			intent:   "Build a complex multi-service feature",
			expected: models.CategoryFeature,
		},
		{
			name:     "planning keyword",
			intent:   "Plan the migration",
			expected: models.CategoryPlanning,
		},
		{
			name:     "break down phrase",
			intent:   "Break down the refactor into steps",
			expected: models.CategoryPlanning,
		},
		{
			name:     "context keyword",
			intent:   "Find the relevant config files",
			expected: models.CategoryContext,
		},
		{
			name:     "validation keyword",
			intent:   "Validate the cache behavior",
			expected: models.CategoryValidation,
		},
		{
			name:     "review keyword",
			intent:   "Review the auth changes",
			expected: models.CategoryReview,
		},
		{
			name:     "docs keyword",
			intent:   "Fetch library docs for pgx",
			expected: models.CategoryDocs,
		},
		{
			name:     "completion keyword",
			intent:   "Open a pr and merge",
			expected: models.CategoryCompletion,
		},
		{
			name:     "no keyword defaults to implementation",
			intent:   "Refactor the session handling",
			expected: models.CategoryImplementation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferCategory(tt.intent)
			if got != tt.expected {
				t.Errorf("InferCategory(%q) = %q, want %q", tt.intent, got, tt.expected)
			}
		})
	}
}

func TestRoute(t *testing.T) {
	if got := Route("Refactor the session handling"); got != "Coder" {
		t.Errorf("Route default = %q, want Coder", got)
	}
	if got := Route("Validate the cache behavior"); got != "Tester" {
		t.Errorf("Route validation = %q, want Tester", got)
	}
}

func TestRouteDetailed(t *testing.T) {
	profiles := models.DelegationProfiles{
		models.CategoryValidation: {PreferredSubagent: "BuildValidator"},
		models.CategoryReview:     {PreferredSubagent: "NotARealAgent"},
	}

	t.Run("profile override wins when subagent is registered", func(t *testing.T) {
		d := RouteDetailed("Validate the cache behavior", "", profiles)
		if d.AssignedSubagent != "BuildValidator" {
			t.Errorf("AssignedSubagent = %q, want BuildValidator", d.AssignedSubagent)
		}
		if d.Source != models.RouteSourceProfile {
			t.Errorf("Source = %q, want profile", d.Source)
		}
		if d.MatchedCategory != models.CategoryValidation {
			t.Errorf("MatchedCategory = %q, want validation", d.MatchedCategory)
		}
	})

	t.Run("unknown preferred subagent falls back to heuristic", func(t *testing.T) {
		d := RouteDetailed("Review the auth changes", "", profiles)
		if d.AssignedSubagent != "Reviewer" {
			t.Errorf("AssignedSubagent = %q, want Reviewer", d.AssignedSubagent)
		}
		if d.Source != models.RouteSourceHeuristic {
			t.Errorf("Source = %q, want heuristic", d.Source)
		}
	})

	t.Run("pinned category skips inference", func(t *testing.T) {
		d := RouteDetailed("anything at all", models.CategoryDocs, nil)
		if d.AssignedSubagent != "ExternalDocsScout" {
			t.Errorf("AssignedSubagent = %q, want ExternalDocsScout", d.AssignedSubagent)
		}
		if d.MatchedCategory != models.CategoryDocs {
			t.Errorf("MatchedCategory = %q, want docs", d.MatchedCategory)
		}
	})

	t.Run("invalid category is inferred from intent", func(t *testing.T) {
		d := RouteDetailed("Validate the cache behavior", models.DelegationCategory("bogus"), nil)
		if d.MatchedCategory != models.CategoryValidation {
			t.Errorf("MatchedCategory = %q, want validation", d.MatchedCategory)
		}
		if d.AssignedSubagent != "Tester" {
			t.Errorf("AssignedSubagent = %q, want Tester", d.AssignedSubagent)
		}
	})
}
