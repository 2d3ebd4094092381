// Package config handles policy loading for conduct.
// Policies are YAML documents selected by mode (fast, balanced, strict) with
// built-in defaults applied underneath, so a missing or partial file still
// yields a complete, validated policy.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/conductkit/conduct/pkg/models"
)

// BackgroundTaskConfig bounds the background job queue.
type BackgroundTaskConfig struct {
	// DefaultConcurrency is the maximum number of jobs running at once.
	DefaultConcurrency int `mapstructure:"default_concurrency"`
	// StaleTimeoutMs is how long a job may stay running before the stale
	// sweep reclaims it as failed.
	StaleTimeoutMs int `mapstructure:"stale_timeout_ms"`
}

// StaleTimeout returns the stale threshold as a duration.
func (c BackgroundTaskConfig) StaleTimeout() time.Duration {
	return time.Duration(c.StaleTimeoutMs) * time.Millisecond
}

// SearchProviderConfig configures one research search provider.
type SearchProviderConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	MaxResults int  `mapstructure:"max_results"`
}

// SearchConfig holds the research search provider settings.
type SearchConfig struct {
	Tavily SearchProviderConfig `mapstructure:"tavily"`
	GhGrep SearchProviderConfig `mapstructure:"gh_grep"`
}

// HookSettings configures a single output hook.
type HookSettings struct {
	Enabled        bool   `mapstructure:"enabled"`
	Note           string `mapstructure:"note"`
	MaxOutputChars int    `mapstructure:"max_output_chars"`
}

// HookRuntimeConfig configures the output hook chain.
type HookRuntimeConfig struct {
	Enabled bool                    `mapstructure:"enabled"`
	Hooks   map[string]HookSettings `mapstructure:"hooks"`
}

// Policy is the validated orchestration policy consumed across the system.
type Policy struct {
	Mode                  models.PolicyMode         `mapstructure:"mode"`
	UseWorktreesByDefault bool                      `mapstructure:"use_worktrees_by_default"`
	ManageGitByDefault    bool                      `mapstructure:"manage_git_by_default"`
	RequireTests          bool                      `mapstructure:"require_tests"`
	RequireApprovalGates  bool                      `mapstructure:"require_approval_gates"`
	RequireVerification   bool                      `mapstructure:"require_verification"`
	RequireCodeReview     bool                      `mapstructure:"require_code_review"`
	EnableTaskArtifacts   bool                      `mapstructure:"enable_task_artifacts"`
	DelegationProfiles    models.DelegationProfiles `mapstructure:"delegation_profiles"`
	BackgroundTask        BackgroundTaskConfig      `mapstructure:"background_task"`
	Search                SearchConfig              `mapstructure:"search"`
	HookRuntime           HookRuntimeConfig         `mapstructure:"hook_runtime"`
	// LifecycleStorePath overrides where the task lifecycle store lives.
	LifecycleStorePath string `mapstructure:"lifecycle_store_path"`
	// BackgroundStorePath overrides where the background job store lives.
	BackgroundStorePath string `mapstructure:"background_store_path"`
}

// PolicyFileForMode returns the conventional policy path for a mode.
func PolicyFileForMode(mode models.PolicyMode) string {
	return filepath.Join("policies", string(mode)+".yaml")
}

// Load reads the policy for the given mode, layering the file (when present)
// over built-in defaults and validating the result.
func Load(mode models.PolicyMode) (*Policy, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("unknown policy mode %q", mode)
	}

	v := viper.New()
	setDefaults(v, mode)

	path := PolicyFileForMode(mode)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading policy %s: %w", path, err)
		}
	}

	return unmarshalPolicy(v)
}

// LoadFromPath reads a policy from an explicit file path.
func LoadFromPath(path string) (*Policy, error) {
	v := viper.New()
	setDefaults(v, models.ModeFast)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading policy %s: %w", path, err)
	}

	return unmarshalPolicy(v)
}

// Default returns the built-in policy for a mode without touching disk.
func Default(mode models.PolicyMode) *Policy {
	v := viper.New()
	setDefaults(v, mode)
	p, err := unmarshalPolicy(v)
	if err != nil {
		// Defaults always unmarshal; a failure here is programmer error.
		panic(err)
	}
	return p
}

func unmarshalPolicy(v *viper.Viper) (*Policy, error) {
	p := &Policy{}
	if err := v.Unmarshal(p); err != nil {
		return nil, fmt.Errorf("unmarshaling policy: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate rejects policies that would break queue or routing invariants.
func (p *Policy) Validate() error {
	if !p.Mode.Valid() {
		return fmt.Errorf("policy mode %q is not one of fast, balanced, strict", p.Mode)
	}
	if p.BackgroundTask.DefaultConcurrency < 1 {
		return fmt.Errorf("background_task.default_concurrency must be at least 1, got %d", p.BackgroundTask.DefaultConcurrency)
	}
	if p.BackgroundTask.StaleTimeoutMs < 60_000 {
		return fmt.Errorf("background_task.stale_timeout_ms must be at least 60000, got %d", p.BackgroundTask.StaleTimeoutMs)
	}
	for category := range p.DelegationProfiles {
		if !category.Valid() {
			return fmt.Errorf("delegation profile references unknown category %q", category)
		}
	}
	return nil
}

// LoadProfilesFile reads a standalone delegation-profiles YAML document, used
// to override the policy's profiles from a project-level file.
func LoadProfilesFile(path string) (models.DelegationProfiles, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profiles %s: %w", path, err)
	}

	var doc struct {
		DelegationProfiles models.DelegationProfiles `yaml:"delegation_profiles"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing profiles %s: %w", path, err)
	}

	for category := range doc.DelegationProfiles {
		if !category.Valid() {
			return nil, fmt.Errorf("profiles %s: unknown category %q", path, category)
		}
	}
	return doc.DelegationProfiles, nil
}

func setDefaults(v *viper.Viper, mode models.PolicyMode) {
	v.SetDefault("mode", string(mode))
	v.SetDefault("use_worktrees_by_default", false)
	v.SetDefault("manage_git_by_default", false)
	v.SetDefault("require_tests", false)
	v.SetDefault("require_approval_gates", false)
	v.SetDefault("require_verification", mode != models.ModeFast)
	v.SetDefault("require_code_review", mode != models.ModeFast)
	v.SetDefault("enable_task_artifacts", true)

	v.SetDefault("background_task.default_concurrency", 2)
	v.SetDefault("background_task.stale_timeout_ms", 180_000)

	v.SetDefault("search.tavily.enabled", true)
	v.SetDefault("search.tavily.max_results", 5)
	v.SetDefault("search.gh_grep.enabled", true)
	v.SetDefault("search.gh_grep.max_results", 10)

	v.SetDefault("hook_runtime.enabled", true)

	v.SetDefault("lifecycle_store_path", filepath.Join(".tmp", "task-lifecycle.json"))
	v.SetDefault("background_store_path", filepath.Join(".tmp", "background-tasks.json"))
}
