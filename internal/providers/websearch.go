package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"wayfare/internal/ratelimit"
)

const searchProviderName = "websearch"

type OrganicResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

type KnowledgeGraph struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

type WebSearchResult struct {
	Organic        []OrganicResult `json:"organic"`
	KnowledgeGraph *KnowledgeGraph `json:"knowledgeGraph"`
}

// SearchClient wraps a Serper-compatible web search API.
type SearchClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *ratelimit.ProviderLimiter
}

func NewSearchClient(baseURL, apiKey string, timeout time.Duration, limiter *ratelimit.ProviderLimiter) *SearchClient {
	return &SearchClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
	}
}

func (c *SearchClient) Search(ctx context.Context, query string) (*WebSearchResult, error) {
	if query == "" {
		return nil, NewError(searchProviderName, KindValidation, fmt.Errorf("query is required"))
	}
	if err := c.limiter.Wait(ctx, searchProviderName); err != nil {
		return nil, NewError(searchProviderName, KindNetwork, err)
	}

	payload, _ := json.Marshal(map[string]string{"q": query})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return nil, NewError(searchProviderName, KindNetwork, err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, NewError(searchProviderName, KindNetwork, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, NewError(searchProviderName, KindProvider,
			fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(body), 200)))
	}

	var result WebSearchResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, NewError(searchProviderName, KindParse,
			fmt.Errorf("failed to parse search response: %w", err))
	}
	return &result, nil
}
