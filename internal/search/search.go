// Package search implements the research search providers used by
// mcp-search background jobs: a Tavily web-search adapter and a gh-grep
// code-search adapter over grep.app.
package search

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Item is one research candidate returned by a provider.
type Item struct {
	// Title is the human-readable label of the hit.
	Title string `json:"title"`
	// Locator is the URL or repo path identifying the hit.
	Locator string `json:"locator"`
	// Snippet is a short excerpt from the hit, plain text.
	Snippet string `json:"snippet,omitempty"`
}

// Result is the normalized outcome of one provider query.
type Result struct {
	Provider      string   `json:"provider"`
	Query         string   `json:"query"`
	Summary       string   `json:"summary"`
	Items         []Item   `json:"items"`
	WorkflowHints []string `json:"workflow_hints,omitempty"`
}

// Adapter is a single research search provider.
type Adapter interface {
	// Provider returns the stable provider id (tavily, gh-grep).
	Provider() string
	// Search runs the query and returns the normalized result. A disabled
	// provider returns an empty result with an explanatory summary rather
	// than an error.
	Search(ctx context.Context, query string) (*Result, error)
}

// httpTimeout bounds every provider request.
const httpTimeout = 15 * time.Second

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

func disabledResult(provider, query string) *Result {
	return &Result{
		Provider: provider,
		Query:    query,
		Summary:  fmt.Sprintf("Provider %s is disabled by policy.", provider),
		Items:    []Item{},
	}
}

func collectedSummary(count int, provider, query string) string {
	return fmt.Sprintf("Collected %d %s research candidates for '%s'.", count, provider, query)
}

// stripTags removes HTML markup from provider snippets, leaving plain text.
func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
