package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/conductkit/conduct/internal/config"
)

const ghGrepEndpoint = "https://grep.app/api/search"

// GhGrepAdapter queries grep.app for public code-search candidates.
type GhGrepAdapter struct {
	cfg    config.SearchProviderConfig
	client *http.Client
	// baseURL overrides the public endpoint in tests.
	baseURL string
}

// NewGhGrepAdapter builds a gh-grep adapter from provider config.
func NewGhGrepAdapter(cfg config.SearchProviderConfig) *GhGrepAdapter {
	return &GhGrepAdapter{cfg: cfg, client: newHTTPClient()}
}

func (a *GhGrepAdapter) Provider() string { return "gh-grep" }

type ghGrepResponse struct {
	Hits struct {
		Hits []struct {
			Repo struct {
				Raw string `json:"raw"`
			} `json:"repo"`
			Path struct {
				Raw string `json:"raw"`
			} `json:"path"`
			Content struct {
				Snippet string `json:"snippet"`
			} `json:"content"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search runs a literal (non-regexp) code search and normalizes the hits.
// grep.app embeds HTML highlighting in snippets, which is stripped here.
func (a *GhGrepAdapter) Search(ctx context.Context, query string) (*Result, error) {
	if !a.cfg.Enabled {
		return disabledResult(a.Provider(), query), nil
	}

	endpoint := a.baseURL
	if endpoint == "" {
		endpoint = ghGrepEndpoint
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("regexp", "false")
	params.Set("page", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("gh-grep: building request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gh-grep: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gh-grep: unexpected status %d", resp.StatusCode)
	}

	var parsed ghGrepResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("gh-grep: decoding response: %w", err)
	}

	limit := a.cfg.MaxResults
	items := make([]Item, 0, limit)
	for _, hit := range parsed.Hits.Hits {
		if limit > 0 && len(items) >= limit {
			break
		}
		items = append(items, Item{
			Title:   hit.Repo.Raw,
			Locator: hit.Repo.Raw + "/" + hit.Path.Raw,
			Snippet: stripTags(hit.Content.Snippet),
		})
	}

	return &Result{
		Provider: a.Provider(),
		Query:    query,
		Summary:  collectedSummary(len(items), a.Provider(), query),
		Items:    items,
		WorkflowHints: []string{
			"Treat matched repositories as implementation references, not dependencies.",
			"Record adopted findings in the feature research log.",
		},
	}, nil
}
