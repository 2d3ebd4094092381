package models

// PolicyMode selects how strict the orchestration policy is.
type PolicyMode string

const (
	// ModeFast favors speed: minimal gates, no enforced review.
	ModeFast PolicyMode = "fast"
	// ModeBalanced enables verification and review requirements.
	ModeBalanced PolicyMode = "balanced"
	// ModeStrict enables every gate the policy supports.
	ModeStrict PolicyMode = "strict"
)

// Valid returns true if the mode is a known value.
func (m PolicyMode) Valid() bool {
	switch m {
	case ModeFast, ModeBalanced, ModeStrict:
		return true
	default:
		return false
	}
}

// DelegationCategory classifies a task intent for routing purposes.
type DelegationCategory string

const (
	CategoryFeature        DelegationCategory = "feature"
	CategoryPlanning       DelegationCategory = "planning"
	CategoryContext        DelegationCategory = "context"
	CategoryValidation     DelegationCategory = "validation"
	CategoryReview         DelegationCategory = "review"
	CategoryBuild          DelegationCategory = "build"
	CategoryDocs           DelegationCategory = "docs"
	CategoryCompletion     DelegationCategory = "completion"
	CategoryImplementation DelegationCategory = "implementation"
)

// Valid returns true if the category is a known value.
func (c DelegationCategory) Valid() bool {
	switch c {
	case CategoryFeature, CategoryPlanning, CategoryContext, CategoryValidation,
		CategoryReview, CategoryBuild, CategoryDocs, CategoryCompletion,
		CategoryImplementation:
		return true
	default:
		return false
	}
}

// DelegationProfile is the per-category operator override for routing.
type DelegationProfile struct {
	// PreferredSubagent names the role this category should route to.
	PreferredSubagent string `json:"preferred_subagent" yaml:"preferred_subagent" mapstructure:"preferred_subagent"`
	// RequiredSkills lists skills the assigned agent must apply.
	RequiredSkills []string `json:"required_skills,omitempty" yaml:"required_skills" mapstructure:"required_skills"`
	// Notes carries operator guidance attached to the category.
	Notes []string `json:"notes,omitempty" yaml:"notes" mapstructure:"notes"`
}

// DelegationProfiles maps categories to their configured overrides.
type DelegationProfiles map[DelegationCategory]DelegationProfile

// RouteSource records which tier of the router produced a decision.
type RouteSource string

const (
	// RouteSourceProfile means a configured profile override was applied.
	RouteSourceProfile RouteSource = "profile"
	// RouteSourceHeuristic means the keyword fallback produced the role.
	RouteSourceHeuristic RouteSource = "heuristic"
)

// RouteDecision is the outcome of routing a task intent to a subagent.
type RouteDecision struct {
	// AssignedSubagent is the selected role identifier.
	AssignedSubagent string `json:"assigned_subagent"`
	// Source records whether a profile or the heuristic decided.
	Source RouteSource `json:"source"`
	// MatchedCategory is the category the intent resolved to, if any.
	MatchedCategory DelegationCategory `json:"matched_category,omitempty"`
}

// Subagent describes one entry of the closed role registry.
type Subagent struct {
	// ID is the role identifier, e.g. "Coder".
	ID string `json:"id"`
	// Specialization is a one-line description of what the role does.
	Specialization string `json:"specialization"`
	// InputContract names the record type the role consumes.
	InputContract string `json:"input_contract"`
	// OutputContract names the record type the role produces.
	OutputContract string `json:"output_contract"`
}
