package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// Searcher issues one web search and returns the engine's answer plus the
// fetched pages.
type Searcher interface {
	Search(ctx context.Context, query string) (*SearchResponse, error)
}

// SearchResult is one fetched page.
type SearchResult struct {
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	Content    string  `json:"content"`
	RawContent string  `json:"raw_content"`
	Score      float64 `json:"score"`
}

// SearchResponse is the Tavily-style search reply.
type SearchResponse struct {
	Answer  string         `json:"answer"`
	Results []SearchResult `json:"results"`
}

type searchRequest struct {
	APIKey            string `json:"api_key"`
	Query             string `json:"query"`
	MaxResults        int    `json:"max_results"`
	SearchDepth       string `json:"search_depth"`
	IncludeAnswer     bool   `json:"include_answer"`
	IncludeRawContent bool   `json:"include_raw_content"`
}

// SearchService calls a Tavily-compatible search API. Each query asks for 5
// results with full page content and the engine's synthesized answer.
type SearchService struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client

	// retry knobs, overridable in tests
	Attempts  int
	RetryWait time.Duration
}

func NewSearchService(apiKey, baseURL string) *SearchService {
	return &SearchService{
		APIKey:    apiKey,
		BaseURL:   baseURL,
		HTTP:      &http.Client{Timeout: 60 * time.Second},
		Attempts:  3,
		RetryWait: 2 * time.Second,
	}
}

// Search runs the query with retries. Empty result sets are retried too,
// since the search API occasionally returns a hollow 200.
func (s *SearchService) Search(ctx context.Context, query string) (*SearchResponse, error) {
	if s.APIKey == "" {
		return nil, fmt.Errorf("search API key not configured")
	}

	var lastErr error
	wait := s.RetryWait
	for attempt := 1; attempt <= s.Attempts; attempt++ {
		resp, err := s.doSearch(ctx, query)
		if err == nil && len(resp.Results) > 0 {
			return resp, nil
		}
		if err == nil {
			err = fmt.Errorf("search returned no results")
		}
		lastErr = err
		log.Printf("⚠️ Search attempt %d failed: %v. Retrying in %v...", attempt, err, wait)

		if attempt == s.Attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
	return nil, fmt.Errorf("search failed after %d attempts: %w", s.Attempts, lastErr)
}

func (s *SearchService) doSearch(ctx context.Context, query string) (*SearchResponse, error) {
	body, err := json.Marshal(searchRequest{
		APIKey:            s.APIKey,
		Query:             query,
		MaxResults:        5,
		SearchDepth:       "advanced",
		IncludeAnswer:     true,
		IncludeRawContent: true,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("search API status %d: %s", resp.StatusCode, payload)
	}

	var out SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return &out, nil
}
