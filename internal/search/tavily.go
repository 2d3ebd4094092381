package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/conductkit/conduct/internal/config"
)

const tavilyEndpoint = "https://api.tavily.com/search"

// TavilyAdapter queries the Tavily web-search API for research candidates.
type TavilyAdapter struct {
	cfg    config.SearchProviderConfig
	client *http.Client
	// apiKey and baseURL override environment resolution and the public
	// endpoint when non-empty. Used in tests.
	apiKey  string
	baseURL string
}

// NewTavilyAdapter builds a Tavily adapter from provider config.
func NewTavilyAdapter(cfg config.SearchProviderConfig) *TavilyAdapter {
	return &TavilyAdapter{cfg: cfg, client: newHTTPClient()}
}

func (a *TavilyAdapter) Provider() string { return "tavily" }

// resolveAPIKey prefers TAVILY_API_KEY, then falls back to the tavilyApiKey
// query parameter of TAVILY_MCP_URL for setups that only configure the MCP
// endpoint.
func (a *TavilyAdapter) resolveAPIKey() string {
	if a.apiKey != "" {
		return a.apiKey
	}
	if key := os.Getenv("TAVILY_API_KEY"); key != "" {
		return key
	}
	raw := os.Getenv("TAVILY_MCP_URL")
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Query().Get("tavilyApiKey")
}

type tavilyRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth"`
}

type tavilyResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search runs a Tavily advanced search and normalizes the hits.
func (a *TavilyAdapter) Search(ctx context.Context, query string) (*Result, error) {
	if !a.cfg.Enabled {
		return disabledResult(a.Provider(), query), nil
	}

	key := a.resolveAPIKey()
	if key == "" {
		return nil, fmt.Errorf("tavily: no API key (set TAVILY_API_KEY or TAVILY_MCP_URL)")
	}

	body, err := json.Marshal(tavilyRequest{
		APIKey:      key,
		Query:       query,
		MaxResults:  a.cfg.MaxResults,
		SearchDepth: "advanced",
	})
	if err != nil {
		return nil, fmt.Errorf("tavily: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("tavily: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily: unexpected status %d", resp.StatusCode)
	}

	var parsed tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("tavily: decoding response: %w", err)
	}

	items := make([]Item, 0, len(parsed.Results))
	for _, hit := range parsed.Results {
		items = append(items, Item{
			Title:   hit.Title,
			Locator: hit.URL,
			Snippet: stripTags(hit.Content),
		})
	}

	return &Result{
		Provider: a.Provider(),
		Query:    query,
		Summary:  collectedSummary(len(items), a.Provider(), query),
		Items:    items,
		WorkflowHints: []string{
			"Prefer primary documentation sources over aggregators.",
			"Record adopted findings in the feature research log.",
		},
	}, nil
}

// endpoint allows tests to redirect requests at a local server.
func (a *TavilyAdapter) endpoint() string {
	if a.baseURL != "" {
		return a.baseURL
	}
	return tavilyEndpoint
}
